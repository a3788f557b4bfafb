package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vidquiz/internal/domain"
	"vidquiz/internal/repository/models"
	"vidquiz/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

const quizColumns = `id, user_id, title, video_url, difficulty, question_type,
	total_questions, questions, score, correct_answers, time_spent, created_at, updated_at`

// SaveQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	modelQuiz := toModelQuiz(quiz)
	if modelQuiz == nil {
		return fmt.Errorf("cannot save nil quiz")
	}
	if modelQuiz.ID == "" {
		modelQuiz.ID = util.NewULID()
	}
	if modelQuiz.CreatedAt.IsZero() {
		modelQuiz.CreatedAt = time.Now()
		modelQuiz.UpdatedAt = modelQuiz.CreatedAt
	}

	query := `INSERT INTO quizzes (` + quizColumns + `) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
	)`

	_, err := a.db.ExecContext(ctx, query,
		modelQuiz.ID,
		modelQuiz.UserID,
		modelQuiz.Title,
		modelQuiz.VideoURL,
		modelQuiz.Difficulty,
		modelQuiz.QuestionType,
		modelQuiz.TotalQuestions,
		modelQuiz.Questions,
		modelQuiz.Score,
		modelQuiz.CorrectAnswers,
		modelQuiz.TimeSpent,
		modelQuiz.CreatedAt,
		modelQuiz.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz: %w", err)
	}

	quiz.ID = modelQuiz.ID
	quiz.CreatedAt = modelQuiz.CreatedAt
	quiz.UpdatedAt = modelQuiz.UpdatedAt
	return nil
}

// GetQuizByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var modelQuiz models.Quiz
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE id = $1`

	err := a.db.GetContext(ctx, &modelQuiz, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}
	return toDomainQuiz(&modelQuiz), nil
}

// GetQuizzesByUser implements domain.QuizRepository. Newest first.
func (a *QuizDatabaseAdapter) GetQuizzesByUser(ctx context.Context, userID string) ([]*domain.Quiz, error) {
	var modelQuizzes []models.Quiz
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE user_id = $1 ORDER BY created_at DESC`

	if err := a.db.SelectContext(ctx, &modelQuizzes, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get quizzes for user %s: %w", userID, err)
	}

	quizzes := make([]*domain.Quiz, 0, len(modelQuizzes))
	for i := range modelQuizzes {
		quizzes = append(quizzes, toDomainQuiz(&modelQuizzes[i]))
	}
	return quizzes, nil
}

// UpdateQuizResult implements domain.QuizRepository. Only the submission
// aggregates are writable after creation; questions are immutable.
func (a *QuizDatabaseAdapter) UpdateQuizResult(ctx context.Context, quiz *domain.Quiz) error {
	if quiz.ID == "" {
		return fmt.Errorf("cannot update quiz with empty ID")
	}
	now := time.Now()

	query := `UPDATE quizzes SET
		score = $1,
		correct_answers = $2,
		time_spent = $3,
		updated_at = $4
	WHERE id = $5`

	result, err := a.db.ExecContext(ctx, query,
		quiz.Score,
		quiz.CorrectAnswers,
		quiz.TimeSpent,
		now,
		quiz.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update quiz result: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("quiz with ID %s not found or not updated", quiz.ID)
	}
	quiz.UpdatedAt = now
	return nil
}

// leaderboardRow is the aggregate row behind GetLeaderboard.
type leaderboardRow struct {
	UserID       string  `db:"user_id"`
	Username     string  `db:"username"`
	TotalQuizzes int     `db:"total_quizzes"`
	AverageScore float64 `db:"average_score"`
	BestScore    float64 `db:"best_score"`
}

// GetLeaderboard implements domain.QuizRepository. Users without quizzes are
// included with zero aggregates so the leaderboard shows everyone.
func (a *QuizDatabaseAdapter) GetLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	var rows []leaderboardRow
	query := `SELECT
		u.id AS user_id,
		u.username AS username,
		COUNT(q.id) AS total_quizzes,
		COALESCE(AVG(q.score), 0) AS average_score,
		COALESCE(MAX(q.score), 0) AS best_score
	FROM users u
	LEFT JOIN quizzes q ON q.user_id = u.id
	GROUP BY u.id, u.username
	ORDER BY average_score DESC`

	if err := a.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:       row.UserID,
			Username:     row.Username,
			TotalQuizzes: row.TotalQuizzes,
			AverageScore: row.AverageScore,
			BestScore:    row.BestScore,
			Level:        row.TotalQuizzes/10 + 1, // Level up every 10 quizzes
		})
	}
	return entries, nil
}

func toModelQuiz(quiz *domain.Quiz) *models.Quiz {
	if quiz == nil {
		return nil
	}
	questions := make(models.QuestionList, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, models.Question{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	return &models.Quiz{
		ID:             quiz.ID,
		UserID:         quiz.UserID,
		Title:          quiz.Title,
		VideoURL:       quiz.VideoURL,
		Difficulty:     string(quiz.Difficulty),
		QuestionType:   string(quiz.QuestionType),
		TotalQuestions: quiz.TotalQuestions,
		Questions:      questions,
		Score:          quiz.Score,
		CorrectAnswers: quiz.CorrectAnswers,
		TimeSpent:      quiz.TimeSpent,
		CreatedAt:      quiz.CreatedAt,
		UpdatedAt:      quiz.UpdatedAt,
	}
}

func toDomainQuiz(modelQuiz *models.Quiz) *domain.Quiz {
	if modelQuiz == nil {
		return nil
	}
	questions := make([]domain.GeneratedQuestion, 0, len(modelQuiz.Questions))
	for _, q := range modelQuiz.Questions {
		questions = append(questions, domain.GeneratedQuestion{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	return &domain.Quiz{
		ID:             modelQuiz.ID,
		UserID:         modelQuiz.UserID,
		Title:          modelQuiz.Title,
		VideoURL:       modelQuiz.VideoURL,
		Difficulty:     domain.Difficulty(modelQuiz.Difficulty),
		QuestionType:   domain.QuestionType(modelQuiz.QuestionType),
		TotalQuestions: modelQuiz.TotalQuestions,
		Questions:      questions,
		Score:          modelQuiz.Score,
		CorrectAnswers: modelQuiz.CorrectAnswers,
		TimeSpent:      modelQuiz.TimeSpent,
		CreatedAt:      modelQuiz.CreatedAt,
		UpdatedAt:      modelQuiz.UpdatedAt,
	}
}
