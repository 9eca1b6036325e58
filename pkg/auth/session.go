package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when no session exists for a token
var ErrSessionNotFound = errors.New("session not found")

// SessionStore resolves session tokens to session records
type SessionStore interface {
	// Get returns the session for a token, or ErrSessionNotFound
	Get(ctx context.Context, token string) (*Session, error)

	// Put stores a session record
	Put(ctx context.Context, session *Session) error

	// Delete removes a session record
	Delete(ctx context.Context, token string) error
}

// NewSessionToken generates an opaque session token
func NewSessionToken() string {
	return uuid.NewString()
}

// RedisSessionStore stores sessions in Redis so they are shared across
// instances. Keys expire with the session.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore creates a Redis-backed session store
func NewRedisSessionStore(client *redis.Client, prefix string) *RedisSessionStore {
	if prefix == "" {
		prefix = "contentlab:session"
	}
	return &RedisSessionStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisSessionStore) key(token string) string {
	return fmt.Sprintf("%s:%s", s.prefix, token)
}

// Get returns the session for a token, or ErrSessionNotFound
func (s *RedisSessionStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &session, nil
}

// Put stores a session record with a TTL matching its expiry
func (s *RedisSessionStore) Put(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	var ttl time.Duration
	if !session.ExpiresAt.IsZero() {
		ttl = time.Until(session.ExpiresAt)
		if ttl <= 0 {
			return fmt.Errorf("session already expired")
		}
	}

	if err := s.client.Set(ctx, s.key(session.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Delete removes a session record
func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

// MemorySessionStore is an in-memory session store for tests and
// single-node deployments.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemorySessionStore creates an in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for a token, or ErrSessionNotFound
func (s *MemorySessionStore) Get(ctx context.Context, token string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copy := *session
	return &copy, nil
}

// Put stores a session record
func (s *MemorySessionStore) Put(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *session
	s.sessions[session.Token] = &copy
	return nil
}

// Delete removes a session record
func (s *MemorySessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}
