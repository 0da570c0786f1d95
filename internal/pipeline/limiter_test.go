package pipeline

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratus-io/stratus-go/pkg/stratus"
)

func TestLimiterAdmitsWithinPermitLimit(t *testing.T) {
	t.Parallel()

	transport := newBlockingHandler(2)
	stage := NewLimiter(transport, LimiterConfig{PermitLimit: 2, QueueLimit: 0})

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := stage.Handle(context.Background(), getRequest())
			results <- err
		}()
	}

	<-transport.started
	<-transport.started
	close(transport.release)
	wg.Wait()

	require.NoError(t, <-results)
	require.NoError(t, <-results)
}

func TestLimiterRejectsBeyondQueue(t *testing.T) {
	t.Parallel()

	transport := newBlockingHandler(1)
	stage := NewLimiter(transport, LimiterConfig{
		PermitLimit: 1,
		QueueLimit:  0,
		RetryAfter:  2 * time.Second,
	})

	done := make(chan error, 1)
	go func() {
		_, err := stage.Handle(context.Background(), getRequest())
		done <- err
	}()
	<-transport.started

	start := time.Now()
	_, err := stage.Handle(context.Background(), getRequest())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "rejection must be immediate, not queued")
	assert.True(t, stratus.IsRejected(err))

	var rejected *stratus.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, 2*time.Second, rejected.RetryAfter)

	close(transport.release)
	require.NoError(t, <-done)
}

// sequenceHandler records the order requests reach the transport. With a
// single permit that order is exactly the admission order.
type sequenceHandler struct {
	mu      sync.Mutex
	order   []string
	started chan struct{}
	release chan struct{}
}

func (s *sequenceHandler) Handle(ctx context.Context, req *Request) (*Response, error) {
	s.mu.Lock()
	s.order = append(s.order, req.URL)
	s.mu.Unlock()

	select {
	case s.started <- struct{}{}:
	default:
	}
	select {
	case <-s.release:
		return okResponse(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestLimiterQueueAdmitsInArrivalOrder(t *testing.T) {
	t.Parallel()

	transport := &sequenceHandler{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	stage := NewLimiter(transport, LimiterConfig{PermitLimit: 1, QueueLimit: 3})

	holder := make(chan error, 1)
	go func() {
		_, err := stage.Handle(context.Background(), &Request{Method: http.MethodGet, URL: "holder"})
		holder <- err
	}()
	<-transport.started

	// Three waiters enter the queue one at a time. The pauses order their
	// arrival so the admission order below is meaningful.
	var wg sync.WaitGroup
	for _, name := range []string{"first", "second", "third"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := stage.Handle(context.Background(), &Request{Method: http.MethodGet, URL: name})
			assert.NoError(t, err)
		}(name)
		time.Sleep(20 * time.Millisecond)
	}

	close(transport.release)
	require.NoError(t, <-holder)
	wg.Wait()

	transport.mu.Lock()
	defer transport.mu.Unlock()
	assert.Equal(t, []string{"holder", "first", "second", "third"}, transport.order)
}

func TestLimiterCancelledWhileQueued(t *testing.T) {
	t.Parallel()

	transport := newBlockingHandler(1)
	stage := NewLimiter(transport, LimiterConfig{PermitLimit: 1, QueueLimit: 2})

	holder := make(chan error, 1)
	go func() {
		_, err := stage.Handle(context.Background(), getRequest())
		holder <- err
	}()
	<-transport.started

	ctx, cancel := context.WithCancel(context.Background())
	queued := make(chan error, 1)
	go func() {
		_, err := stage.Handle(ctx, getRequest())
		queued <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	err := <-queued
	require.Error(t, err)
	assert.True(t, stratus.IsCancelled(err))
	assert.False(t, stratus.IsRejected(err), "cancellation in the queue is not a rejection")

	close(transport.release)
	require.NoError(t, <-holder)
}

func TestLimiterDeadlineWhileQueued(t *testing.T) {
	t.Parallel()

	transport := newBlockingHandler(1)
	stage := NewLimiter(transport, LimiterConfig{PermitLimit: 1, QueueLimit: 2})

	holder := make(chan error, 1)
	go func() {
		_, err := stage.Handle(context.Background(), getRequest())
		holder <- err
	}()
	<-transport.started

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := stage.Handle(ctx, getRequest())
	require.Error(t, err)
	assert.True(t, stratus.IsTimeout(err))
	assert.ErrorIs(t, err, stratus.ErrTotalTimeout)

	close(transport.release)
	require.NoError(t, <-holder)
}

func TestLimiterSaturationRejectsExactOverflow(t *testing.T) {
	t.Parallel()

	const permits, queue = 2, 2

	transport := newBlockingHandler(permits + queue + 1)
	stage := NewLimiter(transport, LimiterConfig{PermitLimit: permits, QueueLimit: queue})

	var completed sync.WaitGroup
	var mu sync.Mutex
	var rejections int

	for i := 0; i < permits+queue+1; i++ {
		completed.Add(1)
		go func() {
			defer completed.Done()
			_, err := stage.Handle(context.Background(), getRequest())
			if stratus.IsRejected(err) {
				mu.Lock()
				rejections++
				mu.Unlock()
			} else {
				assert.NoError(t, err)
			}
		}()
		// Stagger arrivals so permits and queue slots fill before the
		// overflow request shows up.
		time.Sleep(10 * time.Millisecond)
	}

	close(transport.release)
	completed.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, rejections, "exactly the overflow request past permits+queue is rejected")
}

func TestLimiterReleasesPermitAfterFailure(t *testing.T) {
	t.Parallel()

	transport := &scriptedHandler{script: []step{
		{err: context.DeadlineExceeded},
		{resp: okResponse()},
	}}
	stage := NewLimiter(transport, LimiterConfig{PermitLimit: 1, QueueLimit: 0})

	_, err := stage.Handle(context.Background(), getRequest())
	require.Error(t, err)

	resp, err := stage.Handle(context.Background(), getRequest())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
