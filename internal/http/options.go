package http

import (
	"crypto/tls"
	"time"

	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// Option configures a Client before its pipeline is assembled.
type Option func(*Client)

// WithLogger sets the structured logger. The pipeline reports retry
// decisions and breaker transitions through it as well.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response debug logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig tunes the retry stage. A maxRetries of zero disables
// retrying entirely.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.pipelineConfig.MaxRetries = maxRetries
		c.pipelineConfig.RetryWaitMin = waitMin
		c.pipelineConfig.RetryWaitMax = waitMax
	}
}

// WithoutRetries disables the retry stage.
func WithoutRetries() Option {
	return func(c *Client) {
		c.pipelineConfig.MaxRetries = 0
	}
}

// WithRetryJitter toggles backoff jitter.
func WithRetryJitter(enabled bool) Option {
	return func(c *Client) {
		c.pipelineConfig.Jitter = enabled
	}
}

// WithRateLimitRetry toggles whether 429 responses are retried.
func WithRateLimitRetry(enabled bool) Option {
	return func(c *Client) {
		c.pipelineConfig.RetryRateLimited = enabled
	}
}

// WithConcurrencyLimits sets how many requests may run at once and how many
// may wait for a permit. A queueLimit of zero rejects everything beyond the
// permit limit immediately.
func WithConcurrencyLimits(permitLimit, queueLimit int) Option {
	return func(c *Client) {
		c.pipelineConfig.PermitLimit = permitLimit
		c.pipelineConfig.QueueLimit = queueLimit
	}
}

// WithTimeouts sets the per-attempt and whole-operation deadlines.
func WithTimeouts(attemptTimeout, totalTimeout time.Duration) Option {
	return func(c *Client) {
		c.pipelineConfig.AttemptTimeout = attemptTimeout
		c.pipelineConfig.TotalTimeout = totalTimeout
	}
}

// WithTLSConfig sets the TLS configuration for the underlying transport.
func WithTLSConfig(tlsConfig *tls.Config) Option {
	return func(c *Client) {
		c.tlsConfig = tlsConfig
	}
}

// WithInterceptors attaches an interceptor chain that runs around every
// request.
func WithInterceptors(chain *stratus.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}
