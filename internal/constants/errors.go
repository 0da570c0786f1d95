package constants

import "errors"

// API and configuration errors.
var (
	ErrNoEndpointsConfigured = errors.New("no API endpoints configured, use 'stratus config set api <url>' to add one")
	ErrNoAPIEndpoint         = errors.New("no API endpoint provided")
	ErrNoCredentials         = errors.New("no API token or service credentials configured")
	ErrNoRefreshableToken    = errors.New("stored token expired and no credentials available to refresh it, please run 'stratus login' again")
	ErrTokenRequestFailed    = errors.New("token endpoint request failed")
	ErrSSLOnlyInDev          = errors.New("skipping TLS verification is only allowed in development environments (set STRATUS_DEV_MODE=true)")
)

// Validation errors.
var (
	ErrInvalidOutputFormat = errors.New("invalid output format, expected table, json, or yaml")
	ErrInvalidProxied      = errors.New("invalid value for --proxied")
	ErrInvalidEnabled      = errors.New("invalid value for --enabled")
	ErrInvalidTTL          = errors.New("invalid TTL value")
)

// Required field errors.
var (
	ErrZoneRequired    = errors.New("zone is required (use --zone or set a default zone)")
	ErrAccountRequired = errors.New("account is required (use --account or set a default account)")
	ErrNameRequired    = errors.New("name is required")
	ErrTypeRequired    = errors.New("record type is required (--type)")
	ErrContentRequired = errors.New("record content is required (--content)")
)

// Operation errors.
var (
	ErrUnsupportedResource  = errors.New("unsupported resource type")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrResourceNotFound     = errors.New("resource not found")
	ErrInvalidBatchSpec     = errors.New("failed to parse file as JSON or YAML batch spec")
)
