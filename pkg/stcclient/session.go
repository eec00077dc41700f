package stcclient

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession is returned when a request needs a token but none is held.
var ErrNoSession = errors.New("no active session")

// TokenSource yields the bearer token for outgoing requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Identity is the logged-in user a session belongs to.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session holds the token and identity of the current user. It is safe for
// concurrent use and is passed explicitly to the components that need it.
type Session struct {
	mu       sync.RWMutex
	token    string
	identity Identity
}

// NewSession starts a session with the given token and identity.
func NewSession(token string, identity Identity) *Session {
	return &Session{token: strings.TrimSpace(token), identity: identity}
}

// SessionFromToken starts a session whose identity is read from the token's
// claims. The signature is not checked here; the API verifies it on every call.
func SessionFromToken(token string) *Session {
	token = strings.TrimSpace(token)
	identity := Identity{}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		identity = Identity{
			ID:    firstClaim(claims, "sub", "user_id", "id", "_id"),
			Name:  firstClaim(claims, "name"),
			Email: firstClaim(claims, "email"),
			Role:  strings.ToLower(firstClaim(claims, "role")),
		}
	}

	return NewSession(token, identity)
}

func firstClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if value, ok := claims[key].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// Token implements TokenSource.
func (s *Session) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoSession
	}
	return s.token, nil
}

// Identity returns the user the session belongs to.
func (s *Session) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Clear ends the session.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.identity = Identity{}
}
