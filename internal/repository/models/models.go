// Package models holds the sqlx row types and the custom column types that
// map JSONB columns to Go slices.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a []string as a JSON column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// Question mirrors the wire shape of a generated question inside the quiz
// JSONB column.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// QuestionList stores []Question as a JSON column.
type QuestionList []Question

// Value implements the driver.Valuer interface
func (q QuestionList) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (q *QuestionList) Scan(value interface{}) error {
	if value == nil {
		*q = QuestionList{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("QuestionList Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*q = QuestionList{}
		return nil
	}
	return json.Unmarshal(bytesToParse, q)
}

// User row.
type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Quiz row. Questions live in a single JSONB column; the per-question table
// of earlier iterations is gone.
type Quiz struct {
	ID             string       `db:"id"`
	UserID         string       `db:"user_id"`
	Title          string       `db:"title"`
	VideoURL       string       `db:"video_url"`
	Difficulty     string       `db:"difficulty"`
	QuestionType   string       `db:"question_type"`
	TotalQuestions int          `db:"total_questions"`
	Questions      QuestionList `db:"questions"`
	Score          float64      `db:"score"`
	CorrectAnswers int          `db:"correct_answers"`
	TimeSpent      int          `db:"time_spent"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

// Attempt row.
type Attempt struct {
	ID             string      `db:"id"`
	QuizID         string      `db:"quiz_id"`
	UserID         string      `db:"user_id"`
	Answers        StringSlice `db:"answers"`
	Score          float64     `db:"score"`
	CorrectAnswers int         `db:"correct_answers"`
	TimeSpent      int         `db:"time_spent"`
	CreatedAt      time.Time   `db:"created_at"`
}
