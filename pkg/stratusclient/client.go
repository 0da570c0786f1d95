// Package stratusclient provides the main entry point for creating Stratus API clients
package stratusclient

import (
	"fmt"
	"strings"

	"github.com/stratus-io/stratus-go/internal/client"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// New creates a new Stratus API client from the given config.
func New(config *stratus.Config) (stratus.Client, error) {
	if config == nil {
		return nil, stratus.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, stratus.ErrAPIEndpointRequired
	}

	config.APIEndpoint = normalizeEndpoint(config.APIEndpoint)
	if config.TokenURL != "" {
		config.TokenURL = normalizeEndpoint(config.TokenURL)
	}

	cli, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return cli, nil
}

// normalizeEndpoint trims a trailing slash and defaults the scheme to https.
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}

// NewWithEndpoint creates a new client with just an API endpoint (no auth).
func NewWithEndpoint(endpoint string) (stratus.Client, error) {
	return New(&stratus.Config{
		APIEndpoint: endpoint,
	})
}

// NewWithAPIToken creates a new client with an API endpoint and API token.
func NewWithAPIToken(endpoint, token string) (stratus.Client, error) {
	return New(&stratus.Config{
		APIEndpoint: endpoint,
		APIToken:    token,
	})
}

// NewWithServiceToken creates a new client using service token credentials.
// The token endpoint is derived from the API endpoint unless Config.TokenURL
// is set explicitly via New.
func NewWithServiceToken(endpoint, serviceID, serviceSecret string) (stratus.Client, error) {
	return New(&stratus.Config{
		APIEndpoint:   endpoint,
		ServiceID:     serviceID,
		ServiceSecret: serviceSecret,
	})
}
