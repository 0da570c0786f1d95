package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// LimiterConfig tunes the concurrency limiter stage.
type LimiterConfig struct {
	// PermitLimit is the number of operations that may run at once.
	PermitLimit int

	// QueueLimit is the number of operations allowed to wait for a permit.
	// Zero means no waiting: anything beyond PermitLimit is rejected.
	QueueLimit int

	// RetryAfter, when positive, is attached to rejections as a hint for
	// when capacity is likely to be available again.
	RetryAfter time.Duration
}

// Limiter is the outermost stage. It admits an operation before any other
// stage runs and holds the permit until the operation finishes, retries and
// backoff included, so the permit count reflects true in-flight work.
//
// Admission is strict FIFO: a permit freed by a finishing operation always
// goes to the longest-waiting queued operation, never to a newcomer. An
// operation arriving while all permits are held and the queue is full is
// rejected immediately rather than left to block.
type Limiter struct {
	next  Handler
	sem   *semaphore.Weighted
	queue chan struct{}
	hint  time.Duration
}

// NewLimiter builds a limiter stage around next.
func NewLimiter(next Handler, config LimiterConfig) *Limiter {
	if config.PermitLimit <= 0 {
		config.PermitLimit = 1
	}
	if config.QueueLimit < 0 {
		config.QueueLimit = 0
	}
	return &Limiter{
		next:  next,
		sem:   semaphore.NewWeighted(int64(config.PermitLimit)),
		queue: make(chan struct{}, config.QueueLimit),
		hint:  config.RetryAfter,
	}
}

// Handle implements Handler.
func (l *Limiter) Handle(ctx context.Context, req *Request) (*Response, error) {
	// TryAcquire fails whenever waiters exist, so the fast path cannot
	// jump ahead of the queue.
	if !l.sem.TryAcquire(1) {
		select {
		case l.queue <- struct{}{}:
		default:
			return nil, &stratus.RejectedError{RetryAfter: l.hint}
		}
		err := l.sem.Acquire(ctx, 1)
		<-l.queue
		if err != nil {
			return nil, queueInterruptError(ctx, err)
		}
	}
	defer l.sem.Release(1)

	return l.next.Handle(ctx, req)
}

// queueInterruptError maps a context interruption that fired while waiting
// for a permit. A caller deadline reached in the queue counts against the
// operation as a whole, so it surfaces as a total-deadline failure.
func queueInterruptError(ctx context.Context, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w: deadline reached while waiting for a request permit: %w", stratus.ErrTotalTimeout, err)
	}
	return fmt.Errorf("%w: cancelled while waiting for a request permit: %w", stratus.ErrRequestCancelled, err)
}
