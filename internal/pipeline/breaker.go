package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// errFailedResponse marks a completed exchange whose status the breaker
// must count as a failure. It never leaves this stage: the response is
// handed back to the retry stage for its own classification.
var errFailedResponse = errors.New("upstream returned a failing status")

// BreakerConfig tunes the circuit breaker stage.
type BreakerConfig struct {
	// Name labels the breaker in logs and state-change notifications.
	Name string

	// MinRequests is the number of attempts the rolling window must hold
	// before the failure ratio is consulted. FailureRatio is the fraction
	// of failed attempts that trips the breaker.
	MinRequests  uint32
	FailureRatio float64

	// Window is how long attempt counts accumulate before resetting while
	// closed. Cooldown is how long an open breaker waits before letting a
	// single trial attempt through.
	Window   time.Duration
	Cooldown time.Duration
}

// Breaker fails attempts fast while the upstream endpoint is misbehaving.
// It sits inside the retry loop, so a retried operation checks the breaker
// on every attempt: once the failure ratio trips it, subsequent attempts
// return immediately without touching the network until the cooldown allows
// a trial request through.
//
// Transport errors, attempt timeouts, and 5xx/408 statuses count as
// failures. Rate-limit responses do not: a throttling endpoint is alive,
// and tripping on 429s would only delay recovery. Context cancellation and
// caller deadlines say nothing about endpoint health and are ignored.
type Breaker struct {
	next   Handler
	cb     *gobreaker.CircuitBreaker[*Response]
	logger stratus.Logger
}

// NewBreaker builds a breaker stage around next.
func NewBreaker(next Handler, config BreakerConfig, logger stratus.Logger) *Breaker {
	if logger == nil {
		logger = stratus.NewNoopLogger()
	}
	b := &Breaker{next: next, logger: logger}

	b.cb = gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: 1,
		Interval:    config.Window,
		Timeout:     config.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= config.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if errors.Is(err, stratus.ErrAttemptTimeout) {
				return false
			}
			return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Warn("circuit breaker state change", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})

	return b
}

// Handle implements Handler.
func (b *Breaker) Handle(ctx context.Context, req *Request) (*Response, error) {
	resp, err := b.cb.Execute(func() (*Response, error) {
		resp, err := b.next.Handle(ctx, req)
		if err != nil {
			return resp, err
		}
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusRequestTimeout {
			return resp, fmt.Errorf("%w: %d", errFailedResponse, resp.StatusCode)
		}
		return resp, nil
	})

	switch {
	case err == nil:
		return resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, fmt.Errorf("%w: %s", stratus.ErrCircuitBreakerOpen, b.cb.Name())
	case errors.Is(err, errFailedResponse):
		// The status already did its damage to the failure counts; the
		// retry stage classifies the response itself.
		return resp, nil
	}
	return resp, err
}

// State reports the breaker's current state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
