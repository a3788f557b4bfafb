package repository

import (
	"context"
	"fmt"
	"time"

	"vidquiz/internal/domain"
	"vidquiz/internal/repository/models"
	"vidquiz/internal/util"

	"github.com/jmoiron/sqlx"
)

// AttemptDatabaseAdapter implements domain.AttemptRepository using sqlx.DB
type AttemptDatabaseAdapter struct {
	db *sqlx.DB
}

// NewAttemptDatabaseAdapter creates a new instance of AttemptDatabaseAdapter
func NewAttemptDatabaseAdapter(db *sqlx.DB) domain.AttemptRepository {
	return &AttemptDatabaseAdapter{db: db}
}

const attemptColumns = `id, quiz_id, user_id, answers, score, correct_answers, time_spent, created_at`

// SaveAttempt implements domain.AttemptRepository
func (a *AttemptDatabaseAdapter) SaveAttempt(ctx context.Context, attempt *domain.Attempt) error {
	if attempt == nil {
		return fmt.Errorf("cannot save nil attempt")
	}
	modelAttempt := &models.Attempt{
		ID:             attempt.ID,
		QuizID:         attempt.QuizID,
		UserID:         attempt.UserID,
		Answers:        models.StringSlice(attempt.Answers),
		Score:          attempt.Score,
		CorrectAnswers: attempt.CorrectAnswers,
		TimeSpent:      attempt.TimeSpent,
		CreatedAt:      attempt.CreatedAt,
	}
	if modelAttempt.ID == "" {
		modelAttempt.ID = util.NewULID()
	}
	if modelAttempt.CreatedAt.IsZero() {
		modelAttempt.CreatedAt = time.Now()
	}

	query := `INSERT INTO attempts (` + attemptColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := a.db.ExecContext(ctx, query,
		modelAttempt.ID,
		modelAttempt.QuizID,
		modelAttempt.UserID,
		modelAttempt.Answers,
		modelAttempt.Score,
		modelAttempt.CorrectAnswers,
		modelAttempt.TimeSpent,
		modelAttempt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}

	attempt.ID = modelAttempt.ID
	attempt.CreatedAt = modelAttempt.CreatedAt
	return nil
}

// GetAttemptsByQuiz implements domain.AttemptRepository. Newest first.
func (a *AttemptDatabaseAdapter) GetAttemptsByQuiz(ctx context.Context, quizID string) ([]*domain.Attempt, error) {
	var modelAttempts []models.Attempt
	query := `SELECT ` + attemptColumns + ` FROM attempts WHERE quiz_id = $1 ORDER BY created_at DESC`

	if err := a.db.SelectContext(ctx, &modelAttempts, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to get attempts for quiz %s: %w", quizID, err)
	}

	attempts := make([]*domain.Attempt, 0, len(modelAttempts))
	for i := range modelAttempts {
		m := &modelAttempts[i]
		attempts = append(attempts, &domain.Attempt{
			ID:             m.ID,
			QuizID:         m.QuizID,
			UserID:         m.UserID,
			Answers:        []string(m.Answers),
			Score:          m.Score,
			CorrectAnswers: m.CorrectAnswers,
			TimeSpent:      m.TimeSpent,
			CreatedAt:      m.CreatedAt,
		})
	}
	return attempts, nil
}
