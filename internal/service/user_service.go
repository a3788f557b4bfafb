package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vidquiz/internal/cache"
	"vidquiz/internal/domain"
	"vidquiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// LeaderboardSize is the number of entries served from the leaderboard.
const LeaderboardSize = 10

// UserService serves the per-user statistics and the global leaderboard.
type UserService interface {
	GetStatistics(ctx context.Context, userID string) (*domain.Statistics, error)
	GetLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
}

type userServiceImpl struct {
	quizRepo       domain.QuizRepository
	cache          domain.Cache
	leaderboard    domain.LeaderboardCache
	statisticsTTL  time.Duration
	leaderboardTTL time.Duration
	group          singleflight.Group
}

// NewUserService creates a new instance of UserService.
func NewUserService(
	quizRepo domain.QuizRepository,
	cacheAdapter domain.Cache,
	leaderboard domain.LeaderboardCache,
	statisticsTTL time.Duration,
	leaderboardTTL time.Duration,
) UserService {
	return &userServiceImpl{
		quizRepo:       quizRepo,
		cache:          cacheAdapter,
		leaderboard:    leaderboard,
		statisticsTTL:  statisticsTTL,
		leaderboardTTL: leaderboardTTL,
	}
}

func statisticsCacheKey(userID string) string {
	return cache.GenerateCacheKey("user", "statistics", userID)
}

// GetStatistics aggregates the user's quizzes, serving from cache when the
// cached copy is still valid.
func (s *userServiceImpl) GetStatistics(ctx context.Context, userID string) (*domain.Statistics, error) {
	appLogger := logger.Get()
	key := statisticsCacheKey(userID)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var stats domain.Statistics
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
		appLogger.Warn("Discarding unreadable cached statistics", zap.String("userID", userID))
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		appLogger.Warn("Statistics cache read failed", zap.String("userID", userID), zap.Error(err))
	}

	quizzes, err := s.quizRepo.GetQuizzesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quizzes for statistics: %w", err)
	}

	stats := computeStatistics(quizzes)

	if payload, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, key, string(payload), s.statisticsTTL); err != nil {
			appLogger.Warn("Failed to cache statistics", zap.String("userID", userID), zap.Error(err))
		}
	}
	return stats, nil
}

// GetLeaderboard serves the ranked leaderboard from the sorted-set cache,
// recomputing it from the database on a miss. Concurrent misses collapse
// into a single recomputation.
func (s *userServiceImpl) GetLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	appLogger := logger.Get()

	entries, err := s.leaderboard.Top(ctx, LeaderboardSize)
	if err == nil {
		return entries, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		appLogger.Warn("Leaderboard cache read failed", zap.Error(err))
	}

	result, err, _ := s.group.Do("leaderboard", func() (interface{}, error) {
		entries, err := s.quizRepo.GetLeaderboard(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to compute leaderboard: %w", err)
		}
		if len(entries) > LeaderboardSize {
			entries = entries[:LeaderboardSize]
		}
		if err := s.leaderboard.Update(ctx, entries, s.leaderboardTTL); err != nil {
			appLogger.Warn("Failed to cache leaderboard", zap.Error(err))
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.LeaderboardEntry), nil
}

// computeStatistics folds a user's quizzes into the aggregate view. Quizzes
// that were never submitted still count toward the total but contribute a
// zero score, matching what the history page shows.
func computeStatistics(quizzes []*domain.Quiz) *domain.Statistics {
	stats := &domain.Statistics{
		TotalQuizzes: len(quizzes),
		Progress:     make([]domain.ProgressPoint, 0, len(quizzes)),
	}
	if len(quizzes) == 0 {
		return stats
	}

	var totalScore float64
	for _, quiz := range quizzes {
		totalScore += quiz.Score
		if quiz.Score > stats.BestScore {
			stats.BestScore = quiz.Score
		}
		stats.TotalTime += quiz.TimeSpent
		stats.Progress = append(stats.Progress, domain.ProgressPoint{
			Date:  quiz.CreatedAt,
			Score: quiz.Score,
		})
	}
	stats.AverageScore = totalScore / float64(len(quizzes))
	return stats
}
