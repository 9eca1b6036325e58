package ratelimit

import (
	"context"
	"time"
)

// Config defines fixed-window rate limiting parameters
type Config struct {
	// MaxRequests is the max requests allowed per window. The request that
	// brings the counter to exactly MaxRequests is still allowed.
	MaxRequests int64
	// Window is the fixed window duration
	Window time.Duration
}

// DefaultConfig returns the default per-IP API rate limit
func DefaultConfig() Config {
	return Config{
		MaxRequests: 100,
		Window:      15 * time.Minute,
	}
}

// Decision is the outcome of a rate limit check
type Decision struct {
	Allowed   bool
	Count     int64
	Remaining int64
	ResetAt   time.Time
}

// Store tracks per-key request counts within fixed windows. Incr must be
// atomic: concurrent calls for the same key may never under-count.
type Store interface {
	// Incr increments the counter for key, (re)initializing the window to
	// now+window if none is active, and returns the post-increment count and
	// the time the current window resets.
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}

// Limiter checks requests against a fixed-window quota kept in a Store.
// Bursts up to the quota are permitted anywhere in the window; there is no
// leaky-bucket smoothing.
type Limiter struct {
	store    Store
	failOpen bool
}

// NewLimiter creates a limiter over the given store. failOpen controls the
// behavior on store errors: allow the request (true) or reject it (false).
func NewLimiter(store Store, failOpen bool) *Limiter {
	return &Limiter{
		store:    store,
		failOpen: failOpen,
	}
}

// Check records one request for key and reports whether it is within quota.
// On store failure the returned error is non-nil and Allowed reflects the
// fail-open setting.
func (l *Limiter) Check(ctx context.Context, key string, cfg Config) (Decision, error) {
	count, resetAt, err := l.store.Incr(ctx, key, cfg.Window)
	if err != nil {
		return Decision{Allowed: l.failOpen}, err
	}

	remaining := cfg.MaxRequests - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= cfg.MaxRequests,
		Count:     count,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
