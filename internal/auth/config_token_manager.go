package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoConfigPersister = errors.New("no config persister configured")
)

// ConfigPersister saves refreshed tokens back to the CLI configuration so a
// later invocation can reuse them.
type ConfigPersister interface {
	UpdateAPIToken(endpoint, token string, expiresAt time.Time, refreshToken string) error
}

// ConfigTokenManager wraps a ServiceTokenManager and persists every renewed
// token through the configured persister.
type ConfigTokenManager struct {
	serviceManager  *ServiceTokenManager
	configPersister ConfigPersister
	endpoint        string
	mutex           sync.Mutex
	lastToken       string
	lastExpiry      time.Time
}

// NewConfigTokenManager creates a config-persisting token manager. When an
// initial token is known it is installed so the first request needs no
// exchange.
func NewConfigTokenManager(config *ServiceTokenConfig, configPersister ConfigPersister, endpoint string, initialToken string, initialExpiry time.Time) *ConfigTokenManager {
	serviceManager := NewServiceTokenManager(config)

	if initialToken != "" {
		serviceManager.SetToken(initialToken, initialExpiry)
	}

	return &ConfigTokenManager{
		serviceManager:  serviceManager,
		configPersister: configPersister,
		endpoint:        endpoint,
		lastToken:       initialToken,
		lastExpiry:      initialExpiry,
	}
}

// GetToken returns a valid access token, refreshing if necessary. A renewed
// token is persisted in the background so the request is not delayed.
func (m *ConfigTokenManager) GetToken(ctx context.Context) (string, error) {
	token, err := m.serviceManager.GetToken(ctx)
	if err != nil {
		return "", err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	current := m.serviceManager.store.Get()
	if current != nil && (current.AccessToken != m.lastToken || !current.ExpiresAt.Equal(m.lastExpiry)) {
		go func() {
			persistErr := m.persistToken(current)
			if persistErr != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist refreshed token: %v\n", persistErr)
			}
		}()

		m.lastToken = current.AccessToken
		m.lastExpiry = current.ExpiresAt
	}

	return token, nil
}

// RefreshToken forces a token refresh and persists the result.
func (m *ConfigTokenManager) RefreshToken(ctx context.Context) error {
	err := m.serviceManager.RefreshToken(ctx)
	if err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	current := m.serviceManager.store.Get()
	if current != nil {
		persistErr := m.persistToken(current)
		if persistErr != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist refreshed token: %v\n", persistErr)
		}

		m.lastToken = current.AccessToken
		m.lastExpiry = current.ExpiresAt
	}

	return nil
}

// SetToken manually sets the access token.
func (m *ConfigTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.serviceManager.SetToken(token, expiresAt)
	m.lastToken = token
	m.lastExpiry = expiresAt
}

// IsTokenExpiringSoon reports whether the token expires within the given
// duration.
func (m *ConfigTokenManager) IsTokenExpiringSoon(within time.Duration) bool {
	token := m.serviceManager.store.Get()
	if token == nil {
		return true
	}

	return time.Now().Add(within).After(token.ExpiresAt)
}

// GetTokenExpiry returns the current token's expiration time.
func (m *ConfigTokenManager) GetTokenExpiry() time.Time {
	token := m.serviceManager.store.Get()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

// persistToken saves the token through the persister.
func (m *ConfigTokenManager) persistToken(token *Token) error {
	if m.configPersister == nil {
		return ErrNoConfigPersister
	}

	err := m.configPersister.UpdateAPIToken(m.endpoint, token.AccessToken, token.ExpiresAt, token.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to update API token: %w", err)
	}

	return nil
}
