package domain

import (
	"context"
	"time"
)

// TranscriptFetcher resolves a video URL to its normalized transcript text.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoURL string) (string, error)
}

// TextGenerator is the outbound port to the generative-language service.
// It takes an instruction prompt and returns the raw model text; all schema
// enforcement happens on our side.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// QuizRepository persists quizzes and serves the aggregate reads.
type QuizRepository interface {
	SaveQuiz(ctx context.Context, quiz *Quiz) error
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	GetQuizzesByUser(ctx context.Context, userID string) ([]*Quiz, error)
	UpdateQuizResult(ctx context.Context, quiz *Quiz) error
	GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error)
}

// UserRepository persists user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// AttemptRepository persists quiz submissions.
type AttemptRepository interface {
	SaveAttempt(ctx context.Context, attempt *Attempt) error
	GetAttemptsByQuiz(ctx context.Context, quizID string) ([]*Attempt, error)
}

// Cache is a plain string cache with TTL semantics.
// Implementations return ErrCacheMiss for absent keys.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// LeaderboardCache keeps the ranked leaderboard in a sorted set.
type LeaderboardCache interface {
	Update(ctx context.Context, entries []LeaderboardEntry, expiration time.Duration) error
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	Invalidate(ctx context.Context) error
}
