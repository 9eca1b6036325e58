package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestGate(t *testing.T) (*Gate, *MemorySessionStore) {
	t.Helper()
	store := NewMemorySessionStore()
	return NewGate(store), store
}

func putSession(t *testing.T, store *MemorySessionStore, session *Session) {
	t.Helper()
	if err := store.Put(context.Background(), session); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
}

func TestGate_NoCredentials(t *testing.T) {
	gate, _ := newTestGate(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil)
	_, err := gate.Authenticate(r)
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("err = %v, want ErrNoCredentials", err)
	}
}

func TestGate_UnknownToken(t *testing.T) {
	gate, _ := newTestGate(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "nope"})

	_, err := gate.Authenticate(r)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestGate_ExpiredSession(t *testing.T) {
	gate, store := newTestGate(t)
	putSession(t, store, &Session{
		Token:     "tok",
		UserID:    "u1",
		Email:     "u1@example.com",
		ExpiresAt: time.Now().Add(-time.Minute),
	})

	r := httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})

	_, err := gate.Authenticate(r)
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("err = %v, want ErrSessionExpired", err)
	}

	// Expired sessions are removed on sight
	if _, err := store.Get(context.Background(), "tok"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("expired session should be deleted from the store")
	}
}

func TestGate_ValidCookieSession(t *testing.T) {
	gate, store := newTestGate(t)
	putSession(t, store, &Session{
		Token:        "tok",
		UserID:       "u1",
		Email:        "u1@example.com",
		Role:         RoleCreative,
		IsSuperAdmin: false,
		ExpiresAt:    time.Now().Add(time.Hour),
	})

	r := httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})

	identity, err := gate.Authenticate(r)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if identity.UserID != "u1" || identity.Email != "u1@example.com" || identity.Role != RoleCreative {
		t.Errorf("unexpected identity: %+v", identity)
	}
}

func TestGate_BearerFallback(t *testing.T) {
	gate, store := newTestGate(t)
	putSession(t, store, &Session{
		Token:     "api-tok",
		UserID:    "u2",
		ExpiresAt: time.Now().Add(time.Hour),
	})

	r := httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil)
	r.Header.Set("Authorization", "Bearer api-tok")

	identity, err := gate.Authenticate(r)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if identity.UserID != "u2" {
		t.Errorf("UserID = %q, want u2", identity.UserID)
	}
}

func TestGate_MalformedAuthorizationHeader(t *testing.T) {
	gate, _ := newTestGate(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	_, err := gate.Authenticate(r)
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("err = %v, want ErrNoCredentials for non-bearer header", err)
	}
}
