package adapter

import (
	"context"
	"encoding/json"
	"time"

	"vidquiz/internal/cache"
	"vidquiz/internal/domain"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCacheAdapter keeps the ranked leaderboard in a Redis sorted set:
// one member per user, JSON-encoded entry, scored by average score.
type LeaderboardCacheAdapter struct {
	client *redis.Client
}

// NewLeaderboardCacheAdapter creates a new instance of LeaderboardCacheAdapter.
func NewLeaderboardCacheAdapter(client *redis.Client) domain.LeaderboardCache {
	return &LeaderboardCacheAdapter{client: client}
}

// Update replaces the whole sorted set in a single pipeline.
func (l *LeaderboardCacheAdapter) Update(ctx context.Context, entries []domain.LeaderboardEntry, expiration time.Duration) error {
	pipe := l.client.Pipeline()
	pipe.Del(ctx, cache.LeaderboardKey)

	for _, entry := range entries {
		member, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		pipe.ZAdd(ctx, cache.LeaderboardKey, redis.Z{
			Score:  entry.AverageScore,
			Member: string(member),
		})
	}
	if expiration > 0 {
		pipe.Expire(ctx, cache.LeaderboardKey, expiration)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Top returns up to limit entries, highest average score first. An absent or
// empty set is reported as domain.ErrCacheMiss.
func (l *LeaderboardCacheAdapter) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	stop := int64(limit) - 1
	if limit <= 0 {
		stop = -1
	}

	members, err := l.client.ZRevRange(ctx, cache.LeaderboardKey, 0, stop).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}
	if len(members) == 0 {
		return nil, domain.ErrCacheMiss
	}

	entries := make([]domain.LeaderboardEntry, 0, len(members))
	for _, member := range members {
		var entry domain.LeaderboardEntry
		if err := json.Unmarshal([]byte(member), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Invalidate drops the cached leaderboard.
func (l *LeaderboardCacheAdapter) Invalidate(ctx context.Context) error {
	return l.client.Del(ctx, cache.LeaderboardKey).Err()
}
