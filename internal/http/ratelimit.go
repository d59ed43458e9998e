package httpapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Limiter enforces per-caller request quotas over a rolling window. Allow
// must be atomic under concurrent requests so two near-simultaneous calls
// cannot both slip past the limit.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RedisLimiter keeps one sorted set per key with request timestamps as
// scores: trim entries older than the window, count, and record the new
// request in a single pipeline.
type RedisLimiter struct {
	c *redis.Client
}

func NewRedisLimiter(c *redis.Client) *RedisLimiter { return &RedisLimiter{c: c} }

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	cutoff := now.Add(-window)
	redisKey := "ratelimit:" + key

	pipe := l.c.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", cutoff.UnixNano()))
	card := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, &redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	// card counted entries before this request was added.
	return card.Val() < int64(limit), nil
}

// MemoryLimiter is the in-process implementation used in tests.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string][]time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{entries: make(map[string][]time.Time)}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)
	kept := l.entries[key][:0]
	for _, t := range l.entries[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	allowed := len(kept) < limit
	kept = append(kept, now)
	l.entries[key] = kept
	return allowed, nil
}
