package auth

import (
	"context"
	"sync"
	"time"

	"github.com/stratus-io/stratus-go/internal/constants"
)

// TokenManager supplies bearer tokens for outbound API requests.
type TokenManager interface {
	// GetToken returns a token that is valid right now, performing an
	// exchange or refresh if needed.
	GetToken(ctx context.Context) (string, error)
	// RefreshToken forces a new exchange regardless of the stored token.
	RefreshToken(ctx context.Context) error
	// SetToken manually installs a token, replacing whatever is stored.
	SetToken(token string, expiresAt time.Time)
}

// Token represents a bearer token issued by the auth endpoint.
type Token struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresIn    int64     `json:"expires_in,omitempty"`
	ExpiresAt    time.Time `json:"-"`
}

// Valid reports whether the token can still back a request. A token counts
// as expired slightly before its real expiry so an exchange started now does
// not outlive it mid-flight.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(constants.TokenExpirationBuffer).Before(t.ExpiresAt)
}

// TokenStore holds the current token behind a lock so managers can share it
// across goroutines.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored token, or nil if none is set.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set replaces the stored token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}
