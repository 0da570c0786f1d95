package pipeline

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/stratus-io/stratus-go/internal/constants"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// RetryConfig tunes the retry stage.
type RetryConfig struct {
	// MaxRetries is the number of re-sends after the initial attempt.
	// Zero disables the stage: every request gets exactly one attempt.
	MaxRetries int

	// WaitMin seeds the backoff schedule: the delay before retry n is
	// WaitMin doubled n-1 times, capped at WaitMax. Jitter spreads each
	// delay over [delay/2, delay] so synchronized clients fan out.
	WaitMin time.Duration
	WaitMax time.Duration
	Jitter  bool

	// RetryRateLimited extends retry eligibility to 429 responses. The
	// server's Retry-After hint, when present, replaces the computed
	// backoff delay either way.
	RetryRateLimited bool
}

// Retry re-sends failed attempts according to a strict eligibility order:
// the method must be idempotent, and the failure must be a transport error,
// an attempt timeout, an open breaker, or a response status known to be
// transient (5xx, 408, and optionally 429). Anything else is returned to
// the caller after the first attempt.
//
// An open breaker below this stage fails attempts without touching the
// network; those failures consume retry budget like any other, so a dead
// endpoint costs a handful of cheap re-checks and then surfaces promptly.
type Retry struct {
	next   Handler
	config RetryConfig
	logger stratus.Logger
}

// NewRetry builds a retry stage around next.
func NewRetry(next Handler, config RetryConfig, logger stratus.Logger) *Retry {
	if logger == nil {
		logger = stratus.NewNoopLogger()
	}
	return &Retry{next: next, config: config, logger: logger}
}

// decision is the classification of one finished attempt.
type decision struct {
	retry  bool
	reason string
	// hint is the server-provided Retry-After delay, zero when absent.
	hint time.Duration
}

// Handle implements Handler.
func (r *Retry) Handle(ctx context.Context, req *Request) (*Response, error) {
	if r.config.MaxRetries <= 0 || !isIdempotentMethod(req.Method) {
		return r.next.Handle(ctx, req)
	}

	start := time.Now()
	attempt := 0
	for {
		attempt++
		resp, err := r.next.Handle(ctx, req)

		verdict := r.classify(resp, err)
		if !verdict.retry {
			return resp, err
		}
		if attempt > r.config.MaxRetries {
			r.logger.Warn("retries exhausted", map[string]interface{}{
				"method":   req.Method,
				"url":      req.URL,
				"attempts": attempt,
				"elapsed":  time.Since(start).String(),
				"reason":   verdict.reason,
			})
			return resp, err
		}

		delay := r.backoffDelay(attempt, verdict.hint)
		r.logger.Warn("retrying request", map[string]interface{}{
			"method":      req.Method,
			"url":         req.URL,
			"attempt":     attempt,
			"max_retries": r.config.MaxRetries,
			"delay":       delay.String(),
			"reason":      verdict.reason,
		})

		if err := sleepContext(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// classify decides whether the attempt's outcome is worth another send.
// Context interruptions are never retried; they belong to the timeout and
// cancellation stages above.
func (r *Retry) classify(resp *Response, err error) decision {
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return decision{}
		case errors.Is(err, stratus.ErrAttemptTimeout):
			return decision{retry: true, reason: "attempt timeout"}
		case stratus.IsCircuitOpen(err):
			return decision{retry: true, reason: "circuit open"}
		default:
			return decision{retry: true, reason: "connection error"}
		}
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return decision{retry: true, reason: "server error", hint: retryAfterHint(resp.Header)}
	case resp.StatusCode == http.StatusRequestTimeout:
		return decision{retry: true, reason: "request timeout"}
	case resp.StatusCode == http.StatusTooManyRequests:
		if !r.config.RetryRateLimited {
			return decision{}
		}
		return decision{retry: true, reason: "rate limited", hint: retryAfterHint(resp.Header)}
	}
	return decision{}
}

// backoffDelay computes the pause before retry number n (1-based). A
// server hint wins outright; otherwise the delay doubles per retry from
// WaitMin up to WaitMax, with equal jitter when enabled.
func (r *Retry) backoffDelay(n int, hint time.Duration) time.Duration {
	if hint > 0 {
		return hint
	}

	delay := r.config.WaitMin
	for i := 1; i < n; i++ {
		delay *= constants.ExponentialBackoffBase
		if delay >= r.config.WaitMax {
			delay = r.config.WaitMax
			break
		}
	}
	if r.config.Jitter && delay > 0 {
		half := delay / 2
		delay = half + time.Duration(rand.Int64N(int64(half)+1))
	}
	return delay
}

// retryAfterHint parses a Retry-After header, accepting both delta-seconds
// and HTTP-date forms. Absent or unparseable values yield zero.
func retryAfterHint(header http.Header) time.Duration {
	value := header.Get("Retry-After")
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(value); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}
	return 0
}

// sleepContext pauses for d unless the context finishes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
