package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/stratus-io/stratus-go/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrNoValidCredentials = errors.New("no valid credentials available")
	ErrTokenEndpoint      = errors.New("token endpoint error")
	ErrMissingTokenURL    = errors.New("token URL not configured")
)

// ServiceTokenConfig configures the service-credential token exchange.
type ServiceTokenConfig struct {
	// TokenURL is the full URL of the token endpoint.
	TokenURL string
	// ServiceID and ServiceSecret authenticate the client_credentials grant.
	ServiceID     string
	ServiceSecret string
	// AccessToken seeds the manager with an already-issued token.
	AccessToken string
	// RefreshToken enables the refresh_token grant once the seeded or
	// exchanged token expires.
	RefreshToken string
}

// ServiceTokenManager exchanges service credentials for short-lived bearer
// tokens and renews them before they expire. Concurrent callers share a
// single exchange.
type ServiceTokenManager struct {
	config     *ServiceTokenConfig
	store      *TokenStore
	httpClient *retryablehttp.Client
	mu         sync.Mutex
}

// NewServiceTokenManager creates a token manager backed by the given token
// endpoint. When the config carries an access token it is installed
// immediately so the first request needs no exchange.
func NewServiceTokenManager(config *ServiceTokenConfig) *ServiceTokenManager {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = constants.TokenRetryMax
	httpClient.RetryWaitMin = constants.TokenRetryWaitMin
	httpClient.RetryWaitMax = constants.TokenRetryWaitMax
	httpClient.HTTPClient.Timeout = constants.TokenRequestTimeout
	httpClient.Logger = nil

	manager := &ServiceTokenManager{
		config:     config,
		store:      NewTokenStore(),
		httpClient: httpClient,
	}

	if config.AccessToken != "" {
		manager.store.Set(&Token{
			AccessToken:  config.AccessToken,
			TokenType:    "bearer",
			RefreshToken: config.RefreshToken,
		})
	}

	return manager
}

// GetToken returns a valid access token, performing an exchange if the
// stored one is missing or about to expire.
func (m *ServiceTokenManager) GetToken(ctx context.Context) (string, error) {
	token := m.store.Get()
	if token.Valid() {
		return token.AccessToken, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have finished an exchange while we waited.
	token = m.store.Get()
	if token.Valid() {
		return token.AccessToken, nil
	}

	token, err := m.requestToken(ctx)
	if err != nil {
		return "", err
	}

	m.store.Set(token)

	return token.AccessToken, nil
}

// RefreshToken forces a new token exchange regardless of the stored token's
// state.
func (m *ServiceTokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.requestToken(ctx)
	if err != nil {
		return err
	}

	m.store.Set(token)

	return nil
}

// SetToken manually installs an access token with the given expiry.
func (m *ServiceTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}

// requestToken performs one exchange, preferring the refresh grant when a
// refresh token is on hand.
func (m *ServiceTokenManager) requestToken(ctx context.Context) (*Token, error) {
	if m.config.TokenURL == "" {
		return nil, ErrMissingTokenURL
	}

	refreshToken := m.config.RefreshToken
	if stored := m.store.Get(); stored != nil && stored.RefreshToken != "" {
		refreshToken = stored.RefreshToken
	}

	switch {
	case refreshToken != "":
		return m.exchange(ctx, url.Values{
			"grant_type":    []string{"refresh_token"},
			"refresh_token": []string{refreshToken},
		}, false)
	case m.config.ServiceID != "" && m.config.ServiceSecret != "":
		return m.exchange(ctx, url.Values{
			"grant_type": []string{"client_credentials"},
		}, true)
	default:
		return nil, ErrNoValidCredentials
	}
}

// exchange posts the grant form to the token endpoint and parses the result.
func (m *ServiceTokenManager) exchange(ctx context.Context, form url.Values, useBasicAuth bool) (*Token, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, m.config.TokenURL, []byte(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	if useBasicAuth {
		req.SetBasicAuth(m.config.ServiceID, m.config.ServiceSecret)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting token: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, tokenEndpointError(resp.StatusCode, body)
	}

	var token Token

	err = json.Unmarshal(body, &token)
	if err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	if token.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	return &token, nil
}

// tokenEndpointError surfaces the structured error body the endpoint sends
// alongside the status code.
func tokenEndpointError(status int, body []byte) error {
	var payload struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}

	err := json.Unmarshal(body, &payload)
	if err != nil || payload.Error == "" {
		return fmt.Errorf("%w: status %d", ErrTokenEndpoint, status)
	}

	return fmt.Errorf("%w: %s: %s", ErrTokenEndpoint, payload.Error, payload.Description)
}
