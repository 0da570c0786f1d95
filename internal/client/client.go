// Package client implements the stratus.Client interface on top of the
// shared HTTP layer. One Client holds one execution pipeline, so every
// resource client created from it shares the same concurrency permits and
// breaker state.
package client

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/stratus-io/stratus-go/internal/auth"
	"github.com/stratus-io/stratus-go/internal/constants"
	"github.com/stratus-io/stratus-go/internal/http"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
)

// Client implements the stratus.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	baseURL      string
	logger       stratus.Logger

	// Resource clients
	zones          stratus.ZonesClient
	dnsRecords     stratus.DNSRecordsClient
	rulesets       stratus.RulesetsClient
	buckets        stratus.BucketsClient
	tokens         stratus.TokensClient
	accounts       stratus.AccountsClient
	auditEvents    stratus.AuditEventsClient
	securityEvents stratus.SecurityEventsClient
}

// New creates a new Stratus API client from the given config.
func New(config *stratus.Config) (*Client, error) {
	if config.APIEndpoint == "" {
		return nil, stratus.ErrAPIEndpointRequired
	}

	// Pick a token manager matching the configured credentials
	tokenManager := createTokenManager(config)

	httpOpts, err := createHTTPClientOptions(config)
	if err != nil {
		return nil, err
	}

	httpClient := http.NewClient(config.APIEndpoint, tokenManager, httpOpts...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      config.APIEndpoint,
		logger:       config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

// NewWithTokenManager creates a new Stratus API client with a custom token
// manager, bypassing the credential precedence in the config.
func NewWithTokenManager(config *stratus.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config.APIEndpoint == "" {
		return nil, stratus.ErrAPIEndpointRequired
	}

	httpOpts, err := createHTTPClientOptions(config)
	if err != nil {
		return nil, err
	}

	httpClient := http.NewClient(config.APIEndpoint, tokenManager, httpOpts...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      config.APIEndpoint,
		logger:       config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

// createTokenManager picks the token manager matching the configured
// credentials. A static API token wins over service credentials.
func createTokenManager(config *stratus.Config) auth.TokenManager {
	if config.APIToken != "" {
		return &staticTokenManager{token: config.APIToken}
	}

	if config.ServiceID != "" && config.ServiceSecret != "" {
		return auth.NewServiceTokenManager(&auth.ServiceTokenConfig{
			TokenURL:      getTokenURL(config),
			ServiceID:     config.ServiceID,
			ServiceSecret: config.ServiceSecret,
		})
	}

	return nil // No authentication
}

// getTokenURL returns the token URL from config or derives it from the API
// endpoint.
func getTokenURL(config *stratus.Config) string {
	if config.TokenURL != "" {
		return config.TokenURL
	}

	return config.APIEndpoint + "/v4/auth/token"
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *stratus.Config) ([]http.Option, error) {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	httpOpts = append(httpOpts, retryOptions(config)...)

	if config.MaxConcurrentRequests > 0 || config.MaxPendingRequests > 0 {
		permitLimit := config.MaxConcurrentRequests
		if permitLimit <= 0 {
			permitLimit = constants.DefaultPermitLimit
		}

		queueLimit := config.MaxPendingRequests
		if queueLimit <= 0 {
			queueLimit = constants.DefaultQueueLimit
		}

		httpOpts = append(httpOpts, http.WithConcurrencyLimits(permitLimit, queueLimit))
	}

	if config.AttemptTimeout > 0 || config.TotalTimeout > 0 {
		attemptTimeout := config.AttemptTimeout
		if attemptTimeout <= 0 {
			attemptTimeout = constants.DefaultAttemptTimeout
		}

		totalTimeout := config.TotalTimeout
		if totalTimeout <= 0 {
			totalTimeout = constants.DefaultTotalTimeout
		}

		httpOpts = append(httpOpts, http.WithTimeouts(attemptTimeout, totalTimeout))
	}

	if config.SkipTLSVerify {
		if !devModeEnabled() {
			return nil, stratus.ErrSkipTLSOnlyInDev
		}

		httpOpts = append(httpOpts, http.WithTLSConfig(&tls.Config{InsecureSkipVerify: true})) //nolint:gosec // gated on STRATUS_DEV_MODE
	}

	if config.EnableCaching {
		cachingOpt, err := cachingOption(config)
		if err != nil {
			return nil, err
		}

		httpOpts = append(httpOpts, cachingOpt)
	}

	return httpOpts, nil
}

// retryOptions translates the config's retry knobs. RetryMax zero selects
// the default; only DisableRetries turns retrying off.
func retryOptions(config *stratus.Config) []http.Option {
	if config.DisableRetries {
		return []http.Option{http.WithoutRetries()}
	}

	retryMax := config.RetryMax
	if retryMax <= 0 {
		retryMax = constants.DefaultRetryMax
	}

	retryWaitMin := config.RetryWaitMin
	if retryWaitMin <= 0 {
		retryWaitMin = constants.DefaultRetryWaitBase
	}

	retryWaitMax := config.RetryWaitMax
	if retryWaitMax <= 0 {
		retryWaitMax = constants.DefaultRetryWaitMax
	}

	opts := []http.Option{http.WithRetryConfig(retryMax, retryWaitMin, retryWaitMax)}

	if config.DisableRetryJitter {
		opts = append(opts, http.WithRetryJitter(false))
	}

	if config.DisableRateLimitRetry {
		opts = append(opts, http.WithRateLimitRetry(false))
	}

	return opts
}

// cachingOption builds the caching interceptor chain for the configured
// backend.
func cachingOption(config *stratus.Config) (http.Option, error) {
	cache, err := stratus.NewCacheFromConfig(config.Cache)
	if err != nil {
		return nil, fmt.Errorf("initializing cache: %w", err)
	}

	manager := stratus.NewCacheManager(cache, config.Logger)
	chain := stratus.NewInterceptorChain()
	stratus.ConfigureCaching(chain, manager, stratus.DefaultCachingPolicy())

	return http.WithInterceptors(chain), nil
}

// devModeEnabled reports whether STRATUS_DEV_MODE permits development-only
// settings such as SkipTLSVerify.
func devModeEnabled() bool {
	mode := os.Getenv("STRATUS_DEV_MODE")

	return mode == constants.BooleanTrue || mode == "1"
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// GetToken returns the current access token from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", ErrNoTokenManagerConfigured
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// Resource client accessors

// Zones implements stratus.Client.Zones.
func (c *Client) Zones() stratus.ZonesClient {
	return c.zones
}

// DNSRecords implements stratus.Client.DNSRecords.
func (c *Client) DNSRecords() stratus.DNSRecordsClient {
	return c.dnsRecords
}

// Rulesets implements stratus.Client.Rulesets.
func (c *Client) Rulesets() stratus.RulesetsClient {
	return c.rulesets
}

// Buckets implements stratus.Client.Buckets.
func (c *Client) Buckets() stratus.BucketsClient {
	return c.buckets
}

// Tokens implements stratus.Client.Tokens.
func (c *Client) Tokens() stratus.TokensClient {
	return c.tokens
}

// Accounts implements stratus.Client.Accounts.
func (c *Client) Accounts() stratus.AccountsClient {
	return c.accounts
}

// AuditEvents implements stratus.Client.AuditEvents.
func (c *Client) AuditEvents() stratus.AuditEventsClient {
	return c.auditEvents
}

// SecurityEvents implements stratus.Client.SecurityEvents.
func (c *Client) SecurityEvents() stratus.SecurityEventsClient {
	return c.securityEvents
}

// Ping implements stratus.Client.Ping. A reachable API with a working
// credential answers the token verification endpoint.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.tokens.Verify(ctx); err != nil {
		return fmt.Errorf("failed to ping API: %w", err)
	}

	return nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.zones = NewZonesClient(c.httpClient)
	c.dnsRecords = NewDNSRecordsClient(c.httpClient)
	c.rulesets = NewRulesetsClient(c.httpClient)
	c.buckets = NewBucketsClient(c.httpClient)
	c.tokens = NewTokensClient(c.httpClient)
	c.accounts = NewAccountsClient(c.httpClient)
	c.auditEvents = NewAuditEventsClient(c.httpClient)
	c.securityEvents = NewSecurityEventsClient(c.httpClient)
}

// staticTokenManager provides a fixed token.
type staticTokenManager struct {
	token string
}

func (m *staticTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, nil
}

func (m *staticTokenManager) RefreshToken(ctx context.Context) error {
	return stratus.ErrStaticTokenCannotRefresh
}

func (m *staticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
}
