package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, "test:ratelimit"), mr
}

func TestRedisStore_Incr(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	count, resetAt, err := store.Incr(ctx, "ip:203.0.113.5", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.WithinDuration(t, time.Now().Add(time.Minute), resetAt, 2*time.Second)

	count, _, err = store.Incr(ctx, "ip:203.0.113.5", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRedisStore_WindowExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := store.Incr(ctx, "k", time.Minute)
		require.NoError(t, err)
	}

	// Key expiry ends the window; the next increment starts a new one
	mr.FastForward(time.Minute + time.Second)

	count, _, err := store.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRedisStore_LimiterIntegration(t *testing.T) {
	store, _ := newTestRedisStore(t)
	limiter := NewLimiter(store, true)
	cfg := Config{MaxRequests: 3, Window: time.Minute}
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := limiter.Check(ctx, "ip:a", cfg)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d should be allowed", i)
	}

	d, err := limiter.Check(ctx, "ip:a", cfg)
	require.NoError(t, err)
	assert.False(t, d.Allowed, "request over quota should be rejected")
}

func TestRedisStore_Reset(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	store.Incr(ctx, "k", time.Minute)
	store.Incr(ctx, "k", time.Minute)
	require.NoError(t, store.Reset(ctx, "k"))

	count, _, err := store.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRedisStore_FailOpenOnError(t *testing.T) {
	store, mr := newTestRedisStore(t)
	limiter := NewLimiter(store, true)

	mr.Close()

	d, err := limiter.Check(context.Background(), "k", DefaultConfig())
	assert.Error(t, err)
	assert.True(t, d.Allowed, "fail-open limiter should allow when redis is down")
}
