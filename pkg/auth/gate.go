package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "session_token"

// ErrNoCredentials is returned when the request carries no session token
var ErrNoCredentials = errors.New("no session credentials")

// ErrSessionExpired is returned when the session exists but has expired
var ErrSessionExpired = errors.New("session expired")

// Gate authenticates requests against the session store. Absence of a valid
// session fails immediately; it is never retried or treated as transient.
type Gate struct {
	store SessionStore
	now   func() time.Time
}

// NewGate creates an authentication gate backed by a session store
func NewGate(store SessionStore) *Gate {
	return &Gate{
		store: store,
		now:   time.Now,
	}
}

// Authenticate resolves the caller's identity from the request's session
// token. It returns ErrNoCredentials, ErrSessionNotFound or ErrSessionExpired
// when the caller cannot be identified.
func (g *Gate) Authenticate(r *http.Request) (Identity, error) {
	token := extractToken(r)
	if token == "" {
		return Identity{}, ErrNoCredentials
	}

	session, err := g.store.Get(r.Context(), token)
	if err != nil {
		return Identity{}, err
	}

	if session.Expired(g.now()) {
		// Best-effort cleanup; the lookup failure is what matters
		_ = g.store.Delete(r.Context(), token)
		return Identity{}, ErrSessionExpired
	}

	return session.Identity(), nil
}

// extractToken reads the session token from the session cookie, falling back
// to an Authorization bearer header for API clients.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
