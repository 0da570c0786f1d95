package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratus-io/stratus-go/internal/auth"
	. "github.com/stratus-io/stratus-go/internal/client"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("requires API endpoint", func(t *testing.T) {
		t.Parallel()

		config := &stratus.Config{}
		_, err := New(config)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API endpoint is required")
	})

	t.Run("creates client with API token", func(t *testing.T) {
		t.Parallel()

		config := &stratus.Config{
			APIEndpoint: "https://api.example.com",
			APIToken:    "test-token",
		}

		client, err := New(config)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("creates client with service credentials", func(t *testing.T) {
		t.Parallel()

		config := &stratus.Config{
			APIEndpoint:   "https://api.example.com",
			ServiceID:     "service-id",
			ServiceSecret: "service-secret",
		}

		client, err := New(config)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("creates client without authentication", func(t *testing.T) {
		t.Parallel()

		config := &stratus.Config{
			APIEndpoint: "https://api.example.com",
		}

		client, err := New(config)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("API token wins over service credentials", func(t *testing.T) {
		t.Parallel()

		config := &stratus.Config{
			APIEndpoint:   "https://api.example.com",
			APIToken:      "direct-token",
			ServiceID:     "service-id",
			ServiceSecret: "service-secret",
		}

		client, err := New(config)
		require.NoError(t, err)

		token, err := client.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})
}

func TestNew_SkipTLSVerify(t *testing.T) {
	// t.Setenv forbids parallel subtests here
	t.Run("rejected outside dev mode", func(t *testing.T) {
		t.Setenv("STRATUS_DEV_MODE", "")

		config := &stratus.Config{
			APIEndpoint:   "https://api.example.com",
			SkipTLSVerify: true,
		}

		_, err := New(config)
		require.Error(t, err)
		require.ErrorIs(t, err, stratus.ErrSkipTLSOnlyInDev)
	})

	t.Run("allowed in dev mode", func(t *testing.T) {
		t.Setenv("STRATUS_DEV_MODE", "true")

		config := &stratus.Config{
			APIEndpoint:   "https://api.example.com",
			SkipTLSVerify: true,
		}

		client, err := New(config)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("allowed with numeric dev mode flag", func(t *testing.T) {
		t.Setenv("STRATUS_DEV_MODE", "1")

		config := &stratus.Config{
			APIEndpoint:   "https://api.example.com",
			SkipTLSVerify: true,
		}

		client, err := New(config)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestClient_GetToken(t *testing.T) {
	t.Parallel()
	t.Run("returns the configured API token", func(t *testing.T) {
		t.Parallel()

		client, err := New(&stratus.Config{
			APIEndpoint: "https://api.example.com",
			APIToken:    "test-token",
		})
		require.NoError(t, err)

		token, err := client.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "test-token", token)
	})

	t.Run("fails without a token manager", func(t *testing.T) {
		t.Parallel()

		client, err := New(&stratus.Config{
			APIEndpoint: "https://api.example.com",
		})
		require.NoError(t, err)

		_, err = client.GetToken(context.Background())
		require.Error(t, err)
		require.ErrorIs(t, err, ErrNoTokenManagerConfigured)
	})

	t.Run("exchanges service credentials", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v4/auth/token", r.URL.Path)
			assert.Equal(t, "POST", r.Method)

			serviceID, serviceSecret, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "service-id", serviceID)
			assert.Equal(t, "service-secret", serviceSecret)

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "granted-token",
				"token_type":   "bearer",
				"expires_in":   3600,
			})
		}))
		defer server.Close()

		client, err := New(&stratus.Config{
			APIEndpoint:   server.URL,
			ServiceID:     "service-id",
			ServiceSecret: "service-secret",
		})
		require.NoError(t, err)

		token, err := client.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "granted-token", token)
	})
}

type fixedTokenManager struct {
	token string
}

func (m *fixedTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, nil
}

func (m *fixedTokenManager) RefreshToken(ctx context.Context) error {
	return nil
}

func (m *fixedTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
}

func TestNewWithTokenManager(t *testing.T) {
	t.Parallel()

	var manager auth.TokenManager = &fixedTokenManager{token: "custom-token"}

	client, err := NewWithTokenManager(&stratus.Config{
		APIEndpoint: "https://api.example.com",
	}, manager)
	require.NoError(t, err)

	token, err := client.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "custom-token", token)
	assert.Same(t, manager, client.GetTokenManager())
}

func TestClient_ResourceAccessors(t *testing.T) {
	t.Parallel()

	config := &stratus.Config{
		APIEndpoint: "https://api.example.com",
	}

	client, err := New(config)
	require.NoError(t, err)

	assert.NotNil(t, client.Zones())
	assert.NotNil(t, client.DNSRecords())
	assert.NotNil(t, client.Rulesets())
	assert.NotNil(t, client.Buckets())
	assert.NotNil(t, client.Tokens())
	assert.NotNil(t, client.Accounts())
	assert.NotNil(t, client.AuditEvents())
	assert.NotNil(t, client.SecurityEvents())
}
