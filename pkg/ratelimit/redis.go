package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore is a Redis-backed fixed-window counter store shared across
// instances. The window is enforced by key expiry: the first increment of a
// window sets the TTL and the key disappears when the window ends.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "contentlab:ratelimit"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisStore) key(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

// Incr increments the counter for key within the current window
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	redisKey := s.key(key)
	now := time.Now()

	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, fmt.Errorf("redis error: %w", err)
	}

	count := incr.Val()
	ttl := pttl.Val()

	// A negative TTL means the key has no expiry yet: either this increment
	// created it, or a previous expiry write was lost. Either way this is the
	// start of a new window.
	if ttl < 0 {
		if err := s.client.PExpire(ctx, redisKey, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("redis error: %w", err)
		}
		return count, now.Add(window), nil
	}

	return count, now.Add(ttl), nil
}

// Reset clears the counter for a key (for tests and admin tooling)
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// HealthCheck verifies Redis connectivity
func (s *RedisStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
