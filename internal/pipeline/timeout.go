package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// AttemptTimeout bounds one send plus response read. It sits directly
// around the transport so a hung attempt is abandoned without giving up on
// the operation: the failure is reported upward where the retry stage can
// classify it as retryable.
type AttemptTimeout struct {
	next    Handler
	timeout time.Duration
}

// NewAttemptTimeout builds an attempt-timeout stage around next.
func NewAttemptTimeout(next Handler, timeout time.Duration) *AttemptTimeout {
	return &AttemptTimeout{next: next, timeout: timeout}
}

// Handle implements Handler.
func (a *AttemptTimeout) Handle(ctx context.Context, req *Request) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.next.Handle(attemptCtx, req)
	if err == nil {
		return resp, nil
	}

	// Only stamp the attempt-timeout kind when this stage's own deadline
	// fired. If the surrounding context is already done, the caller's
	// deadline or cancellation is the real cause and the outer stages
	// report it.
	if attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return nil, fmt.Errorf("%w after %s: %w", stratus.ErrAttemptTimeout, a.timeout, err)
	}
	return resp, err
}

// TotalTimeout bounds the operation as a whole: every attempt, every
// backoff sleep, and every breaker wait below it shares one deadline. It is
// also where context interruptions that bubbled up unclassified are mapped
// to their terminal kind, keeping caller cancellation distinct from
// deadline expiry.
type TotalTimeout struct {
	next    Handler
	timeout time.Duration
}

// NewTotalTimeout builds a total-timeout stage around next.
func NewTotalTimeout(next Handler, timeout time.Duration) *TotalTimeout {
	return &TotalTimeout{next: next, timeout: timeout}
}

// Handle implements Handler.
func (t *TotalTimeout) Handle(ctx context.Context, req *Request) (*Response, error) {
	opCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.next.Handle(opCtx, req)
	if err == nil || classified(err) {
		return resp, err
	}

	switch {
	case ctx.Err() == context.Canceled:
		return nil, fmt.Errorf("%w: %w", stratus.ErrRequestCancelled, err)
	case opCtx.Err() == context.DeadlineExceeded:
		return nil, fmt.Errorf("%w after %s: %w", stratus.ErrTotalTimeout, t.timeout, err)
	}
	return resp, err
}
