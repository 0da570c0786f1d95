package stratus

import (
	"context"
	"errors"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrDeprecatedClientConstructor = errors.New("use github.com/stratus-io/stratus-go/pkg/stratusclient.New to create a client")
)

// EdgeClients provides access to zone-scoped edge resource clients.
type EdgeClients interface {
	Zones() ZonesClient
	DNSRecords() DNSRecordsClient
	Rulesets() RulesetsClient
}

// StorageClients provides access to storage resource clients.
type StorageClients interface {
	Buckets() BucketsClient
}

// AccessClients provides access to identity and access resource clients.
type AccessClients interface {
	Tokens() TokensClient
	Accounts() AccountsClient
}

// MonitoringClients provides access to audit and activity log clients.
type MonitoringClients interface {
	AuditEvents() AuditEventsClient
	SecurityEvents() SecurityEventsClient
}

type Client interface {
	// Composite interfaces for related resource groups
	EdgeClients
	StorageClients
	AccessClients
	MonitoringClients

	// Ping checks API liveness by verifying the configured credential
	// against the token verification endpoint.
	Ping(ctx context.Context) error
}

// ZonesClient provides zone management operations. Every resource client
// also embeds PaginationClient, so it can be passed to the pagination
// helpers (NewPaginationIterator, FetchAllPages, StreamPages) directly.
type ZonesClient interface {
	Create(ctx context.Context, request *ZoneCreateRequest) (*Zone, error)
	Get(ctx context.Context, zoneID string) (*Zone, error)
	List(ctx context.Context, params *QueryParams) (*ListResponse[Zone], error)
	Update(ctx context.Context, zoneID string, request *ZoneUpdateRequest) (*Zone, error)
	Delete(ctx context.Context, zoneID string) error
	Pause(ctx context.Context, zoneID string) (*Zone, error)
	Unpause(ctx context.Context, zoneID string) (*Zone, error)
	PurgeCache(ctx context.Context, zoneID string, request *ZonePurgeRequest) (*ZonePurgeResult, error)

	PaginationClient[Zone]
}

// DNSRecordsClient provides DNS record management operations within a zone.
type DNSRecordsClient interface {
	Create(ctx context.Context, zoneID string, request *DNSRecordCreateRequest) (*DNSRecord, error)
	Get(ctx context.Context, zoneID, recordID string) (*DNSRecord, error)
	List(ctx context.Context, zoneID string, params *QueryParams) (*ListResponse[DNSRecord], error)
	Update(ctx context.Context, zoneID, recordID string, request *DNSRecordUpdateRequest) (*DNSRecord, error)
	Delete(ctx context.Context, zoneID, recordID string) error
	Export(ctx context.Context, zoneID string) ([]byte, error)
	Import(ctx context.Context, zoneID string, records []DNSRecordCreateRequest) (*DNSImportResult, error)

	PaginationClient[DNSRecord]
}

// RulesetsClient provides firewall ruleset management operations.
type RulesetsClient interface {
	Create(ctx context.Context, zoneID string, request *RulesetCreateRequest) (*Ruleset, error)
	Get(ctx context.Context, zoneID, rulesetID string) (*Ruleset, error)
	List(ctx context.Context, zoneID string, params *QueryParams) (*ListResponse[Ruleset], error)
	Update(ctx context.Context, zoneID, rulesetID string, request *RulesetUpdateRequest) (*Ruleset, error)
	Delete(ctx context.Context, zoneID, rulesetID string) error

	PaginationClient[Ruleset]
}

// BucketsClient provides storage bucket management operations.
type BucketsClient interface {
	Create(ctx context.Context, accountID string, request *BucketCreateRequest) (*Bucket, error)
	Get(ctx context.Context, accountID, name string) (*Bucket, error)
	List(ctx context.Context, accountID string, params *QueryParams) (*ListResponse[Bucket], error)
	Delete(ctx context.Context, accountID, name string) error

	PaginationClient[Bucket]
}

// TokensClient provides API token management operations.
type TokensClient interface {
	Create(ctx context.Context, request *TokenCreateRequest) (*APIToken, error)
	Get(ctx context.Context, tokenID string) (*APIToken, error)
	List(ctx context.Context, params *QueryParams) (*ListResponse[APIToken], error)
	Update(ctx context.Context, tokenID string, request *TokenUpdateRequest) (*APIToken, error)
	Delete(ctx context.Context, tokenID string) error
	Roll(ctx context.Context, tokenID string) (*APIToken, error)
	Verify(ctx context.Context) (*TokenVerifyResult, error)

	PaginationClient[APIToken]
}

// AccountsClient provides account management operations.
type AccountsClient interface {
	Get(ctx context.Context, accountID string) (*Account, error)
	List(ctx context.Context, params *QueryParams) (*ListResponse[Account], error)
	Update(ctx context.Context, accountID string, request *AccountUpdateRequest) (*Account, error)

	PaginationClient[Account]
}

// AuditEventsClient provides access to the account audit log.
type AuditEventsClient interface {
	Get(ctx context.Context, accountID, eventID string) (*AuditEvent, error)
	List(ctx context.Context, accountID string, params *QueryParams) (*ListResponse[AuditEvent], error)

	PaginationClient[AuditEvent]
}

// SecurityEventsClient provides access to zone firewall activity logs.
type SecurityEventsClient interface {
	Get(ctx context.Context, zoneID, eventID string) (*SecurityEvent, error)
	List(ctx context.Context, zoneID string, params *QueryParams) (*ListResponse[SecurityEvent], error)

	PaginationClient[SecurityEvent]
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a stratus.Client.
//
// # Authentication precedence
//
// The following precedence is applied by the concrete client implementation
// (see pkg/stratusclient and internal/client):
//  1. APIToken: if set, it is used directly as a static Bearer token.
//  2. ServiceID/ServiceSecret: a service token is exchanged at the token
//     endpoint and refreshed automatically before expiry.
//  3. No credentials: requests are sent without authentication (only useful
//     against local test endpoints).
//
// # Request execution
//
// Every API call runs through a layered execution pipeline: a concurrency
// limiter bounds in-flight requests (MaxConcurrentRequests, queueing up to
// MaxPendingRequests before rejecting), TotalTimeout bounds the whole
// operation including retries, idempotent requests that fail transiently are
// retried up to RetryMax times with exponential backoff between RetryWaitMin
// and RetryWaitMax, a circuit breaker sheds load when the endpoint is
// persistently failing, and AttemptTimeout bounds each individual network
// attempt. Zero values select the documented defaults; retries are only
// disabled via DisableRetries, never by RetryMax == 0.
//
// # TLS
//
// SkipTLSVerify is only honored when the environment variable
// STRATUS_DEV_MODE is set to "true" or "1"; do not use it in production.
type Config struct {
	// Required fields
	// APIEndpoint: base URL for the Stratus API (e.g., "https://api.stratus.dev").
	// stratusclient.New normalizes this value by trimming a trailing slash and
	// adding "https://" if no scheme is present.
	APIEndpoint string

	// Authentication options (provide one)
	// APIToken: if set, used directly as a Bearer token.
	APIToken string
	// ServiceID: service token ID for the client-credentials exchange.
	ServiceID string
	// ServiceSecret: service token secret used with ServiceID.
	ServiceSecret string
	// TokenURL: full token endpoint. If empty, it is derived from APIEndpoint
	// as "<endpoint>/v4/auth/token".
	TokenURL string

	// AccountID: default account for account-scoped operations. Optional;
	// individual calls always take an explicit account ID.
	AccountID string

	// Request execution options
	// AttemptTimeout: bound on a single network attempt. Defaults to 30s.
	AttemptTimeout time.Duration
	// TotalTimeout: bound on a whole operation including retries. Defaults
	// to 60s. A tighter deadline on the call context still wins.
	TotalTimeout time.Duration
	// RetryMax: maximum number of retries after the first attempt for
	// transient failures on idempotent requests. If 0, the default of 3 is
	// used; set DisableRetries to turn retrying off.
	RetryMax int
	// RetryWaitMin: base backoff between retries. Applied as base*2^(n-1)
	// for the nth retry. Defaults to 1s.
	RetryWaitMin time.Duration
	// RetryWaitMax: cap on the backoff between retries. Defaults to 30s.
	RetryWaitMax time.Duration
	// DisableRetries: turns the retry stage off entirely; the first failure
	// is terminal.
	DisableRetries bool
	// DisableRetryJitter: disables the random jitter applied to backoff
	// delays. Only useful in tests that assert exact delays.
	DisableRetryJitter bool
	// DisableRateLimitRetry: when set, 429 responses are not retried even on
	// idempotent requests.
	DisableRateLimitRetry bool
	// MaxConcurrentRequests: bound on in-flight requests. Defaults to 25.
	MaxConcurrentRequests int
	// MaxPendingRequests: bound on requests queued for admission when all
	// permits are busy; beyond it requests are rejected immediately.
	// Defaults to 10.
	MaxPendingRequests int

	// Optional configurations
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer and helpers.
	Logger Logger
	// SkipTLSVerify: if true, TLS verification is skipped, and only when
	// STRATUS_DEV_MODE is set. Intended for local development.
	SkipTLSVerify bool
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
	// EnableCaching: turns on response caching for safe requests via the
	// interceptor chain. Cache selects the backend; see CacheConfig.
	EnableCaching bool
	// Cache: cache backend configuration, used when EnableCaching is set.
	Cache *CacheConfig
}

// NewClient creates a new Stratus API client
// Deprecated: Use github.com/stratus-io/stratus-go/pkg/stratusclient.New instead.
func NewClient(config *Config) (Client, error) {
	return nil, ErrDeprecatedClientConstructor
}

// DNSImportResult reports the outcome of a DNS record import.
type DNSImportResult struct {
	RecordsAdded  int `json:"recs_added"    yaml:"recs_added"`
	TotalRecords  int `json:"total_records" yaml:"total_records"`
	RecordsFailed int `json:"recs_failed"   yaml:"recs_failed"`
}
