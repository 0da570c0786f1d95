package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/stratus-io/stratus-go/internal/auth"
	"github.com/stratus-io/stratus-go/internal/client"
	"github.com/stratus-io/stratus-go/pkg/stratus"
	"github.com/stratus-io/stratus-go/pkg/stratusclient"
)

// CreateClientWithAPI creates a Stratus client for the given endpoint, or
// the configured endpoint when apiFlag is empty. An API token is used
// directly; service credentials go through a token manager that persists
// renewed tokens back to the CLI config.
func CreateClientWithAPI(apiFlag string) (stratus.Client, error) {
	config := loadConfig()

	endpoint := apiFlag
	if endpoint == "" {
		endpoint = config.API
	}

	if endpoint == "" {
		return nil, fmt.Errorf("%w, use 'stratus login' first", ErrNoEndpointConfigured)
	}

	endpoint = normalizeEndpoint(endpoint)

	clientConfig := &stratus.Config{
		APIEndpoint:   endpoint,
		SkipTLSVerify: config.SkipTLSVerify || viper.GetBool("skip_tls_verify"),
	}

	if viper.GetBool("verbose") {
		clientConfig.Debug = true
		clientConfig.Logger = stratus.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if config.APIToken != "" {
		clientConfig.APIToken = config.APIToken

		stratusClient, err := stratusclient.New(clientConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create client: %w", err)
		}

		return stratusClient, nil
	}

	if config.ServiceID != "" && config.ServiceSecret != "" {
		return createServiceTokenClient(clientConfig, config, endpoint)
	}

	return nil, fmt.Errorf("%w, use 'stratus login' first", stratus.ErrNotAuthenticated)
}

// createServiceTokenClient builds a client whose token manager exchanges
// service credentials and persists renewed tokens through the config file.
// A cached token from an earlier invocation is installed so the first
// request needs no exchange.
func createServiceTokenClient(clientConfig *stratus.Config, config *Config, endpoint string) (stratus.Client, error) {
	tokenConfig := &auth.ServiceTokenConfig{
		TokenURL:      tokenURLForEndpoint(endpoint),
		ServiceID:     config.ServiceID,
		ServiceSecret: config.ServiceSecret,
	}

	var initialExpiry time.Time
	if config.ServiceTokenExpiresAt != nil {
		initialExpiry = *config.ServiceTokenExpiresAt
	}

	tokenManager := auth.NewConfigTokenManager(tokenConfig, NewConfigPersister(), endpoint, config.ServiceToken, initialExpiry)

	stratusClient, err := client.NewWithTokenManager(clientConfig, tokenManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create client with token manager: %w", err)
	}

	return stratusClient, nil
}

// normalizeEndpoint trims a trailing slash and defaults to https when no
// scheme is given, matching what pkg/stratusclient does.
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(endpoint, "/")

	if !strings.HasPrefix(endpoint, "https://") && !strings.HasPrefix(endpoint, "http://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}

// tokenURLForEndpoint derives the token exchange endpoint from the API
// endpoint.
func tokenURLForEndpoint(endpoint string) string {
	return strings.TrimSuffix(endpoint, "/") + "/v4/auth/token"
}
