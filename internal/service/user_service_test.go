package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"vidquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetStatistics(t *testing.T) {
	ctx := context.Background()

	t.Run("CacheHit", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		cacheMock := new(MockCache)
		leaderboard := new(MockLeaderboardCache)
		svc := NewUserService(quizRepo, cacheMock, leaderboard, 5*time.Minute, 10*time.Minute)

		cached, _ := json.Marshal(domain.Statistics{TotalQuizzes: 7, AverageScore: 80, BestScore: 100})
		cacheMock.On("Get", ctx, statisticsCacheKey("user-1")).Return(string(cached), nil)

		stats, err := svc.GetStatistics(ctx, "user-1")
		assert.NoError(t, err)
		assert.Equal(t, 7, stats.TotalQuizzes)
		quizRepo.AssertNotCalled(t, "GetQuizzesByUser", mock.Anything, mock.Anything)
	})

	t.Run("CacheMissComputesAndCaches", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		cacheMock := new(MockCache)
		leaderboard := new(MockLeaderboardCache)
		svc := NewUserService(quizRepo, cacheMock, leaderboard, 5*time.Minute, 10*time.Minute)

		now := time.Now()
		quizzes := []*domain.Quiz{
			{Score: 100, TimeSpent: 60, CreatedAt: now.Add(-2 * time.Hour)},
			{Score: 50, TimeSpent: 90, CreatedAt: now.Add(-time.Hour)},
			{Score: 0, TimeSpent: 0, CreatedAt: now},
		}
		cacheMock.On("Get", ctx, statisticsCacheKey("user-1")).Return("", domain.ErrCacheMiss)
		quizRepo.On("GetQuizzesByUser", ctx, "user-1").Return(quizzes, nil)
		cacheMock.On("Set", ctx, statisticsCacheKey("user-1"), mock.AnythingOfType("string"), 5*time.Minute).Return(nil)

		stats, err := svc.GetStatistics(ctx, "user-1")
		assert.NoError(t, err)
		assert.Equal(t, 3, stats.TotalQuizzes)
		assert.Equal(t, 50.0, stats.AverageScore)
		assert.Equal(t, 100.0, stats.BestScore)
		assert.Equal(t, 150, stats.TotalTime)
		assert.Len(t, stats.Progress, 3)
		cacheMock.AssertExpectations(t)
	})

	t.Run("NoQuizzes", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		cacheMock := new(MockCache)
		leaderboard := new(MockLeaderboardCache)
		svc := NewUserService(quizRepo, cacheMock, leaderboard, 5*time.Minute, 10*time.Minute)

		cacheMock.On("Get", ctx, mock.Anything).Return("", domain.ErrCacheMiss)
		quizRepo.On("GetQuizzesByUser", ctx, "user-1").Return([]*domain.Quiz{}, nil)
		cacheMock.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		stats, err := svc.GetStatistics(ctx, "user-1")
		assert.NoError(t, err)
		assert.Equal(t, 0, stats.TotalQuizzes)
		assert.Equal(t, 0.0, stats.AverageScore)
		assert.Empty(t, stats.Progress)
	})
}

func TestGetLeaderboard(t *testing.T) {
	ctx := context.Background()

	t.Run("CacheHit", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		cacheMock := new(MockCache)
		leaderboard := new(MockLeaderboardCache)
		svc := NewUserService(quizRepo, cacheMock, leaderboard, 5*time.Minute, 10*time.Minute)

		cached := []domain.LeaderboardEntry{{UserID: "u1", Username: "alice", AverageScore: 90}}
		leaderboard.On("Top", ctx, LeaderboardSize).Return(cached, nil)

		entries, err := svc.GetLeaderboard(ctx)
		assert.NoError(t, err)
		assert.Equal(t, cached, entries)
		quizRepo.AssertNotCalled(t, "GetLeaderboard", mock.Anything)
	})

	t.Run("CacheMissRecomputesAndUpdates", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		cacheMock := new(MockCache)
		leaderboard := new(MockLeaderboardCache)
		svc := NewUserService(quizRepo, cacheMock, leaderboard, 5*time.Minute, 10*time.Minute)

		computed := []domain.LeaderboardEntry{
			{UserID: "u1", Username: "alice", TotalQuizzes: 12, AverageScore: 91.5, Level: 2},
			{UserID: "u2", Username: "bob", TotalQuizzes: 3, AverageScore: 70, Level: 1},
		}
		leaderboard.On("Top", ctx, LeaderboardSize).Return(nil, domain.ErrCacheMiss)
		quizRepo.On("GetLeaderboard", ctx).Return(computed, nil)
		leaderboard.On("Update", ctx, computed, 10*time.Minute).Return(nil)

		entries, err := svc.GetLeaderboard(ctx)
		assert.NoError(t, err)
		assert.Equal(t, computed, entries)
		leaderboard.AssertExpectations(t)
	})

	t.Run("TruncatesToLeaderboardSize", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		cacheMock := new(MockCache)
		leaderboard := new(MockLeaderboardCache)
		svc := NewUserService(quizRepo, cacheMock, leaderboard, 5*time.Minute, 10*time.Minute)

		computed := make([]domain.LeaderboardEntry, LeaderboardSize+5)
		for i := range computed {
			computed[i] = domain.LeaderboardEntry{UserID: string(rune('a' + i))}
		}
		leaderboard.On("Top", ctx, LeaderboardSize).Return(nil, domain.ErrCacheMiss)
		quizRepo.On("GetLeaderboard", ctx).Return(computed, nil)
		leaderboard.On("Update", ctx, mock.Anything, mock.Anything).Return(nil)

		entries, err := svc.GetLeaderboard(ctx)
		assert.NoError(t, err)
		assert.Len(t, entries, LeaderboardSize)
	})
}
