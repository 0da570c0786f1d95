package stratus

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// APIError represents an error returned by the Stratus API.
type APIError struct {
	Code    int    `json:"code"    yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s (code: %d)", e.Message, e.Code)
}

// ResponseError represents a non-success response from the API.
type ResponseError struct {
	StatusCode int        `json:"-"                  yaml:"-"`
	RequestID  string     `json:"-"                  yaml:"-"`
	Errors     []APIError `json:"errors"             yaml:"errors"`
	Messages   []Message  `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// Error implements the error interface for ResponseError.
func (e *ResponseError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	return fmt.Sprintf("multiple errors: %v", e.Errors)
}

// FirstError returns the first error or nil.
func (e *ResponseError) FirstError() *APIError {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// Common error codes.
const (
	ErrorCodeBadRequest         = 6003
	ErrorCodeNotFound           = 7003
	ErrorCodeMethodNotAllowed   = 7004
	ErrorCodeUnprocessable      = 7010
	ErrorCodeAuthentication     = 10000
	ErrorCodeForbidden          = 10001
	ErrorCodeTokenExpired       = 10002
	ErrorCodeTooManyRequests    = 10100
	ErrorCodeInternalError      = 10500
	ErrorCodeServiceUnavailable = 10503
)

// Common error values.
var (
	ErrNotFound        = &APIError{Code: ErrorCodeNotFound, Message: "Could not route to resource, perhaps your identifier is invalid"}
	ErrUnauthorized    = &APIError{Code: ErrorCodeAuthentication, Message: "Authentication error"}
	ErrForbidden       = &APIError{Code: ErrorCodeForbidden, Message: "Not authorized to access this resource"}
	ErrUnprocessable   = &APIError{Code: ErrorCodeUnprocessable, Message: "Unprocessable request"}
	ErrTooManyRequests = &APIError{Code: ErrorCodeTooManyRequests, Message: "Rate limited"}
)

// Request execution errors. Every terminal failure surfaced by the request
// pipeline wraps exactly one of these, so callers can branch on the failure
// kind with errors.Is regardless of the wrapping context.
var (
	// ErrConcurrencyLimitExceeded reports that the admission queue was full
	// and the request never reached the network.
	ErrConcurrencyLimitExceeded = errors.New("concurrency limit exceeded")

	// ErrAttemptTimeout reports that a single network attempt exceeded its
	// per-attempt bound.
	ErrAttemptTimeout = errors.New("attempt timed out")

	// ErrTotalTimeout reports that the operation exceeded its overall
	// deadline, retries included.
	ErrTotalTimeout = errors.New("operation deadline exceeded")

	// ErrCircuitBreakerOpen reports that the circuit breaker short-circuited
	// the attempt without a network call.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

	// ErrRequestCancelled reports caller-initiated cancellation, as opposed
	// to any timeout.
	ErrRequestCancelled = errors.New("request cancelled")
)

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired           = errors.New("config is required")
	ErrAPIEndpointRequired      = errors.New("API endpoint is required")
	ErrNoHostInURL              = errors.New("no host specified in URL")
	ErrZoneIDRequired           = errors.New("zone ID is required")
	ErrAccountIDRequired        = errors.New("account ID is required")
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
	ErrNoMoreItems              = errors.New("no more items")
	ErrSkipTLSOnlyInDev         = errors.New("skipTLS is only allowed in development environments")
	ErrNotAuthenticated         = errors.New("not authenticated")
	ErrUnknownConfigKey         = errors.New("unknown configuration key")
	ErrUnknownCacheType         = errors.New("unknown cache type")
	ErrCacheEntryTooLarge       = errors.New("cache value exceeds maximum size")
	ErrCacheMiss                = errors.New("cache miss")
	ErrCacheKeyNotFound         = errors.New("cache key not found")
	ErrCacheEntryExpired        = errors.New("cache entry expired")
	ErrCacheDisabled            = errors.New("cache disabled")
	ErrNATSConfigRequired       = errors.New("NATS configuration required for NATS cache")
	ErrZoneNotFound             = errors.New("zone not found")
	ErrRecordNotFound           = errors.New("DNS record not found")
	ErrBucketNotFound           = errors.New("bucket not found")
	ErrInvalidRecordType        = errors.New("invalid DNS record type")
	ErrBatchSpecEmpty           = errors.New("batch spec contains no operations")
)

// RejectedError is returned when the concurrency limiter turns a request
// away. RetryAfter, when non-zero, suggests how long to wait before
// resubmitting.
type RejectedError struct {
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RejectedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("concurrency limit exceeded, retry after %s", e.RetryAfter)
	}

	return "concurrency limit exceeded"
}

// Unwrap ties RejectedError into the ErrConcurrencyLimitExceeded kind.
func (e *RejectedError) Unwrap() error {
	return ErrConcurrencyLimitExceeded
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrorCodeNotFound
	}

	errResp := &ResponseError{}
	if errors.As(err, &errResp) {
		if errResp.StatusCode == http.StatusNotFound {
			return true
		}

		first := errResp.FirstError()
		if first != nil {
			return first.Code == ErrorCodeNotFound
		}
	}

	return false
}

// IsUnauthorized checks if the error is an authentication error.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrorCodeAuthentication || apiErr.Code == ErrorCodeTokenExpired
	}

	errResp := &ResponseError{}
	if errors.As(err, &errResp) {
		if errResp.StatusCode == http.StatusUnauthorized {
			return true
		}

		first := errResp.FirstError()
		if first != nil {
			return first.Code == ErrorCodeAuthentication || first.Code == ErrorCodeTokenExpired
		}
	}

	return false
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrorCodeForbidden
	}

	errResp := &ResponseError{}
	if errors.As(err, &errResp) {
		if errResp.StatusCode == http.StatusForbidden {
			return true
		}

		first := errResp.FirstError()
		if first != nil {
			return first.Code == ErrorCodeForbidden
		}
	}

	return false
}

// IsRateLimited checks if the error is a rate limit response.
func IsRateLimited(err error) bool {
	errResp := &ResponseError{}
	if errors.As(err, &errResp) {
		return errResp.StatusCode == http.StatusTooManyRequests
	}

	return false
}

// IsTransient reports whether the error is a remote failure that is safe to
// retry on an idempotent request: a server error, a request timeout, or a
// rate limit response.
func IsTransient(err error) bool {
	errResp := &ResponseError{}
	if errors.As(err, &errResp) {
		return errResp.StatusCode >= http.StatusInternalServerError ||
			errResp.StatusCode == http.StatusRequestTimeout ||
			errResp.StatusCode == http.StatusTooManyRequests
	}

	return false
}

// IsRejected checks if the error is a concurrency limiter rejection.
func IsRejected(err error) bool {
	return errors.Is(err, ErrConcurrencyLimitExceeded)
}

// IsCircuitOpen checks if the error is a circuit breaker short-circuit.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrCircuitBreakerOpen)
}

// IsTimeout checks if the error is an attempt or total timeout. Cancellation
// is never a timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrAttemptTimeout) || errors.Is(err, ErrTotalTimeout)
}

// IsCancelled checks if the error is a caller-initiated cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrRequestCancelled)
}

// ParseResponseError parses an error response envelope from JSON. The
// status code is attached by the HTTP layer, not carried in the body.
func ParseResponseError(data []byte) (*ResponseError, error) {
	var errResp ResponseError

	err := json.Unmarshal(data, &errResp)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal response error: %w", err)
	}

	return &errResp, nil
}
