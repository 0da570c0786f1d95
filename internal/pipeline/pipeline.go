// Package pipeline implements the layered request-execution policy every
// outbound API call passes through. Stages are composed as an explicit
// chain, innermost to outermost:
//
//	transport → attempt timeout → circuit breaker → retry → total timeout → concurrency limiter
//
// Each stage holds the next one and can be constructed and tested in
// isolation. Stage state (breaker counters, limiter permits) lives on the
// stage values themselves, so separate pipelines are fully independent.
package pipeline

import (
	"context"
	"net/http"

	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// Request describes one outbound HTTP exchange. The pipeline treats it as
// read-only; the transport builds a fresh *http.Request from it on every
// attempt so retries never reuse a consumed body.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the fully-read result of an exchange. The body is buffered so
// a retried attempt can discard it without bookkeeping.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Handler executes a request. Stages and the transport both implement it.
type Handler interface {
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Pipeline is the assembled stage chain for one logical endpoint.
type Pipeline struct {
	handler Handler
}

// New assembles the full chain around the given transport. The config
// should start from DefaultConfig; see the stage constructors for the exact
// behavior each layer contributes.
func New(config Config, transport Handler) *Pipeline {
	config = config.withDefaults()

	var handler Handler = NewAttemptTimeout(transport, config.AttemptTimeout)

	handler = NewBreaker(handler, BreakerConfig{
		Name:         config.Name,
		MinRequests:  config.BreakerMinRequests,
		FailureRatio: config.BreakerFailureRatio,
		Window:       config.BreakerWindow,
		Cooldown:     config.BreakerCooldown,
	}, config.Logger)

	handler = NewRetry(handler, RetryConfig{
		MaxRetries:       config.MaxRetries,
		WaitMin:          config.RetryWaitMin,
		WaitMax:          config.RetryWaitMax,
		Jitter:           config.Jitter,
		RetryRateLimited: config.RetryRateLimited,
	}, config.Logger)

	handler = NewTotalTimeout(handler, config.TotalTimeout)

	handler = NewLimiter(handler, LimiterConfig{
		PermitLimit: config.PermitLimit,
		QueueLimit:  config.QueueLimit,
		RetryAfter:  config.RejectionRetryAfter,
	})

	return &Pipeline{handler: handler}
}

// Execute runs one logical operation through the chain. The returned
// response may carry any status code; terminal pipeline failures are
// reported as errors wrapping the request-execution sentinels in the
// stratus package.
func (p *Pipeline) Execute(ctx context.Context, req *Request) (*Response, error) {
	return p.handler.Handle(ctx, req)
}

// classified reports whether err already carries one of the terminal
// request-execution kinds, in which case outer stages pass it through
// unchanged.
func classified(err error) bool {
	return stratus.IsRejected(err) ||
		stratus.IsCircuitOpen(err) ||
		stratus.IsTimeout(err) ||
		stratus.IsCancelled(err)
}

// isIdempotentMethod reports whether the method is safe to send more than
// once. Only these methods are ever retried.
func isIdempotentMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}
