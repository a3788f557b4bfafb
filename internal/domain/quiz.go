package domain

import (
	"time"
)

// QuestionType enumerates the supported quiz question formats.
type QuestionType string

const (
	MultipleChoice  QuestionType = "multiple-choice"
	TrueFalse       QuestionType = "true-false"
	FillInTheBlanks QuestionType = "fill-in-the-blanks"
)

// IsSupported reports whether the question type is one the pipeline can fulfil.
func (t QuestionType) IsSupported() bool {
	switch t {
	case MultipleChoice, TrueFalse, FillInTheBlanks:
		return true
	}
	return false
}

// Difficulty enumerates the supported difficulty levels.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

const (
	// MinQuestions and MaxQuestions bound a single generation request.
	MinQuestions = 1
	MaxQuestions = 20

	// OptionsPerQuestion is the required option count for multiple-choice.
	OptionsPerQuestion = 4
)

// QuizPreferences is the immutable input to a generation request.
type QuizPreferences struct {
	QuestionType      QuestionType
	NumberOfQuestions int
	Difficulty        Difficulty
}

// Validate checks the preferences before any remote call is made.
func (p QuizPreferences) Validate() error {
	if !p.QuestionType.IsSupported() {
		return NewUnsupportedQuestionTypeError(string(p.QuestionType))
	}
	if p.NumberOfQuestions < MinQuestions || p.NumberOfQuestions > MaxQuestions {
		return NewInvalidInputError("numberOfQuestions must be between 1 and 20")
	}
	if !p.Difficulty.IsValid() {
		return NewInvalidInputError("difficulty must be one of easy, medium, hard")
	}
	return nil
}

// GeneratedQuestion is a single validated question produced by the pipeline.
// It is never mutated after creation; ownership passes to the quiz repository.
type GeneratedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Quiz represents a generated quiz and its lifetime aggregates.
// Score, CorrectAnswers and TimeSpent are zero until a submission.
type Quiz struct {
	ID             string
	UserID         string
	Title          string
	VideoURL       string
	Difficulty     Difficulty
	QuestionType   QuestionType
	TotalQuestions int
	Questions      []GeneratedQuestion
	Score          float64
	CorrectAnswers int
	TimeSpent      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate validates the quiz before persistence.
func (q *Quiz) Validate() error {
	if q.UserID == "" {
		return NewInvalidInputError("user ID is required")
	}
	if q.VideoURL == "" {
		return NewInvalidInputError("video URL is required")
	}
	if len(q.Questions) == 0 {
		return NewInvalidInputError("a quiz needs at least one question")
	}
	return nil
}

// Attempt records one submission against a quiz.
type Attempt struct {
	ID             string
	QuizID         string
	UserID         string
	Answers        []string
	Score          float64
	CorrectAnswers int
	TimeSpent      int
	CreatedAt      time.Time
}

// LeaderboardEntry is one ranked row of the global leaderboard.
type LeaderboardEntry struct {
	UserID       string  `json:"id"`
	Username     string  `json:"username"`
	TotalQuizzes int     `json:"totalQuizzes"`
	AverageScore float64 `json:"averageScore"`
	BestScore    float64 `json:"bestScore"`
	Level        int     `json:"level"`
}

// Statistics aggregates a single user's quiz results.
type Statistics struct {
	TotalQuizzes int             `json:"totalQuizzes"`
	AverageScore float64         `json:"averageScore"`
	BestScore    float64         `json:"bestScore"`
	TotalTime    int             `json:"totalTime"`
	Progress     []ProgressPoint `json:"progressData"`
}

// ProgressPoint is one score sample on the statistics timeline.
type ProgressPoint struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}
