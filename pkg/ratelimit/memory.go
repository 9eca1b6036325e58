package ratelimit

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMaxKeys = 65536

type record struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is an in-process fixed-window counter store. An LRU cache
// bounds memory so idle keys are evicted instead of accumulating forever.
// Counts are per-instance; use RedisStore when the quota must be shared
// across instances.
type MemoryStore struct {
	mu      sync.Mutex
	records *lru.Cache[string, *record]
	now     func() time.Time
}

// NewMemoryStore creates an in-memory store bounded to maxKeys tracked keys.
// maxKeys <= 0 uses a default of 65536.
func NewMemoryStore(maxKeys int) *MemoryStore {
	if maxKeys <= 0 {
		maxKeys = defaultMaxKeys
	}
	cache, _ := lru.New[string, *record](maxKeys)
	return &MemoryStore{
		records: cache,
		now:     time.Now,
	}
}

// Incr increments the counter for key within the current window. The mutex
// makes the read-modify-write atomic so concurrent bursts never under-count.
func (s *MemoryStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec, ok := s.records.Get(key)
	if !ok || now.After(rec.resetAt) {
		rec = &record{
			count:   1,
			resetAt: now.Add(window),
		}
		s.records.Add(key, rec)
		return rec.count, rec.resetAt, nil
	}

	rec.count++
	return rec.count, rec.resetAt, nil
}

// Len returns the number of tracked keys
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records.Len()
}
