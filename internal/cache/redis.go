package cache

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"wikiquiz/internal/core"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379/0").
	URL string
}

// RedisStore implements Store using Redis. All operations are best-effort:
// backend failures are logged and reported as absent/rejected, never
// returned as errors.
type RedisStore struct {
	client *redis.Client

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisStore creates a Redis-backed store and verifies connectivity.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, core.NewInvalidInputError("invalid redis URL", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Fail open: keep the client and let individual operations degrade.
		slog.Warn("redis unreachable at startup, cache will degrade to no-op", "error", err)
	} else {
		slog.Info("redis cache connected", "addr", opts.Addr)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client. Used by tests.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Put stores value under key for ttl.
func (s *RedisStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Warn("cache put failed", "key", key, "error", err)
		return false
	}
	return true
}

// Get returns the value for key, counting hits and misses.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("cache get failed", "key", key, "error", err)
		}
		s.misses.Add(1)
		return nil, false
	}
	s.hits.Add(1)
	return data, true
}

// Delete removes all keys matching pattern and returns the count removed.
func (s *RedisStore) Delete(ctx context.Context, pattern string) int {
	var removed int
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err == nil {
			removed++
		}
	}
	if err := iter.Err(); err != nil {
		slog.Warn("cache delete scan failed", "pattern", pattern, "error", err)
	}
	return removed
}

// Increment atomically increments the counter at key, setting the window
// expiry on the first increment.
func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, bool) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		slog.Warn("cache increment failed", "key", key, "error", err)
		return 0, false
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			slog.Warn("cache expire failed", "key", key, "error", err)
		}
	}
	return count, true
}

// GetCounter returns the current counter value and its remaining TTL.
func (s *RedisStore) GetCounter(ctx context.Context, key string) (int64, time.Duration, bool) {
	count, err := s.client.Get(ctx, key).Int64()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("cache counter read failed", "key", key, "error", err)
		}
		return 0, 0, false
	}
	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return count, 0, true
	}
	return count, ttl, true
}

// Stats reports connectivity, key count and the hit rate across this
// process's reads. Hit rate is hits / max(1, hits+misses).
func (s *RedisStore) Stats(ctx context.Context) core.CacheStats {
	hits := s.hits.Load()
	misses := s.misses.Load()
	stats := core.CacheStats{
		Hits:    hits,
		Misses:  misses,
		HitRate: float64(hits) / float64(max64(1, hits+misses)),
	}

	if err := s.client.Ping(ctx).Err(); err != nil {
		return stats
	}
	stats.Connected = true

	if n, err := s.client.DBSize(ctx).Result(); err == nil {
		stats.KeyCount = n
	}
	return stats
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
