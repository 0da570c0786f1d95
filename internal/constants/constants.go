package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultAttemptTimeout bounds a single network attempt.
	DefaultAttemptTimeout = 30 * time.Second

	// DefaultTotalTimeout bounds a whole operation including retries.
	DefaultTotalTimeout = 60 * time.Second

	// ShortHTTPTimeout is used for quick operations such as liveness checks.
	ShortHTTPTimeout = 10 * time.Second

	// TokenRequestTimeout bounds a token-endpoint exchange.
	TokenRequestTimeout = 15 * time.Second
)

// Retry limits and delays.
const (
	// DefaultRetryMax is the default maximum number of retries after the
	// first attempt. Zero disables retrying entirely.
	DefaultRetryMax = 3

	// DefaultRetryWaitBase is the base delay for exponential backoff.
	DefaultRetryWaitBase = 1 * time.Second

	// DefaultRetryWaitMax caps the delay between retries.
	DefaultRetryWaitMax = 30 * time.Second

	// TokenRetryMax is the retry count for token-endpoint requests.
	TokenRetryMax = 2

	// TokenRetryWaitMin is the minimum wait for token-endpoint retries.
	TokenRetryWaitMin = 500 * time.Millisecond

	// TokenRetryWaitMax is the maximum wait for token-endpoint retries.
	TokenRetryWaitMax = 5 * time.Second
)

// Concurrency limits.
const (
	// DefaultPermitLimit bounds concurrently in-flight requests.
	DefaultPermitLimit = 25

	// DefaultQueueLimit bounds requests waiting for an admission permit.
	DefaultQueueLimit = 10

	// DefaultBatchWorkers bounds concurrent operations in a batch run.
	DefaultBatchWorkers = 5
)

// Circuit breaker settings.
const (
	// BreakerMinRequests is the minimum sample size before the failure
	// ratio is evaluated.
	BreakerMinRequests = 5

	// BreakerFailureRatio is the failure ratio that opens the breaker.
	BreakerFailureRatio = 0.6

	// BreakerWindow is the rolling sampling window for failure counts.
	BreakerWindow = 60 * time.Second

	// BreakerCooldown is how long the breaker stays open before allowing
	// a half-open trial.
	BreakerCooldown = 30 * time.Second
)

// Token lifetime handling.
const (
	// TokenExpirationBuffer is the buffer time before token expiration.
	TokenExpirationBuffer = 30 * time.Second
)

// Cache size and lifetime constants.
const (
	// DefaultCacheSize is the default cache entry limit.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default cache time-to-live.
	DefaultCacheTTL = 5 * time.Minute

	// CacheMinTTL is the minimum cache time-to-live.
	CacheMinTTL = 30 * time.Second

	// MaxCacheValueSize is the maximum size for cached values (1MB).
	MaxCacheValueSize = 1024 * 1024

	// ZonesCacheTTL is the TTL for zone lookups.
	ZonesCacheTTL = 10 * time.Minute

	// DNSRecordsCacheTTL is the TTL for DNS record lookups.
	DNSRecordsCacheTTL = 2 * time.Minute

	// TokenVerifyCacheTTL is the TTL for token verification results.
	TokenVerifyCacheTTL = 30 * time.Second
)

// Pagination and display limits.
const (
	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 20

	// StandardPageSize is the common page size for API responses.
	StandardPageSize = 50

	// LargePageSize is used for efficient bulk operations.
	LargePageSize = 100

	// MaxPages prevents runaway pagination loops.
	MaxPages = 50
)

// Mathematical and calculation constants.
const (
	// ExponentialBackoffBase is the base for exponential backoff.
	ExponentialBackoffBase = 2

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2

	// PercentageMultiplier converts decimals to percentages.
	PercentageMultiplier = 100
)

// UI and display constants.
const (
	// CheckMarkSymbol is used to indicate current/active items.
	CheckMarkSymbol = "✓"

	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// None is used when no value is present.
	None = "none"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// DescriptionDisplayLength is the default length for displaying descriptions.
	DescriptionDisplayLength = 60

	// ExpressionDisplayLength is the length for displaying rule expressions.
	ExpressionDisplayLength = 50
)

// State and status constants.
const (
	// StatusActive indicates an active resource.
	StatusActive = "active"

	// StatusPending indicates a resource awaiting activation.
	StatusPending = "pending"

	// StatusEnabled indicates an enabled state.
	StatusEnabled = "enabled"

	// StatusDisabled indicates a disabled state.
	StatusDisabled = "disabled"
)

// Boolean string constants.
const (
	// BooleanTrue string representation.
	BooleanTrue = "true"

	// BooleanFalse string representation.
	BooleanFalse = "false"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for tabular output format.
	FormatTable = "table"
)

// CRUD operation constants.
const (
	// OperationCreate for create operations.
	OperationCreate = "create"

	// OperationUpdate for update operations.
	OperationUpdate = "update"

	// OperationDelete for delete operations.
	OperationDelete = "delete"

	// OperationGet for get operations.
	OperationGet = "get"
)

// API path constants.
const (
	// APIPathZones for the zones endpoint.
	APIPathZones = "/v4/zones"

	// APIPathAccounts for the accounts endpoint.
	APIPathAccounts = "/v4/accounts"

	// APIPathTokens for the user token endpoint.
	APIPathTokens = "/v4/user/tokens"

	// APIPathTokenVerify for the token verification endpoint.
	APIPathTokenVerify = "/v4/user/tokens/verify"
)

// Command argument counts.
const (
	// TwoArgumentsRequired indicates commands requiring exactly 2 arguments.
	TwoArgumentsRequired = 2

	// KeyValueSplitParts is the number of parts when splitting key=value strings.
	KeyValueSplitParts = 2
)
