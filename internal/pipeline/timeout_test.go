package pipeline

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// slowHandler waits out its delay unless the context finishes first.
type slowHandler struct {
	delay time.Duration
}

func (s *slowHandler) Handle(ctx context.Context, _ *Request) (*Response, error) {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return okResponse(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestAttemptTimeoutSuccess(t *testing.T) {
	t.Parallel()

	stage := NewAttemptTimeout(&slowHandler{delay: time.Millisecond}, time.Second)

	resp, err := stage.Handle(context.Background(), getRequest())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAttemptTimeoutStampsOwnDeadline(t *testing.T) {
	t.Parallel()

	stage := NewAttemptTimeout(&slowHandler{delay: time.Second}, 20*time.Millisecond)

	_, err := stage.Handle(context.Background(), getRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, stratus.ErrAttemptTimeout)
	assert.True(t, stratus.IsTimeout(err))
	assert.False(t, stratus.IsCancelled(err))
}

func TestAttemptTimeoutIgnoresCallerCancel(t *testing.T) {
	t.Parallel()

	stage := NewAttemptTimeout(&slowHandler{delay: time.Second}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := stage.Handle(ctx, getRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, stratus.ErrAttemptTimeout, "caller cancellation is not an attempt timeout")
}

func TestTotalTimeoutSuccess(t *testing.T) {
	t.Parallel()

	stage := NewTotalTimeout(&slowHandler{delay: time.Millisecond}, time.Second)

	resp, err := stage.Handle(context.Background(), getRequest())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTotalTimeoutMapsDeadline(t *testing.T) {
	t.Parallel()

	stage := NewTotalTimeout(&slowHandler{delay: time.Second}, 20*time.Millisecond)

	_, err := stage.Handle(context.Background(), getRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, stratus.ErrTotalTimeout)
	assert.True(t, stratus.IsTimeout(err))
	assert.False(t, stratus.IsCancelled(err))
}

func TestTotalTimeoutMapsCallerCancel(t *testing.T) {
	t.Parallel()

	stage := NewTotalTimeout(&slowHandler{delay: time.Second}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := stage.Handle(ctx, getRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, stratus.ErrRequestCancelled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, stratus.IsTimeout(err), "cancellation must stay distinct from timeouts")
}

func TestTotalTimeoutPassesClassifiedErrors(t *testing.T) {
	t.Parallel()

	inner := HandlerFunc(func(_ context.Context, _ *Request) (*Response, error) {
		return nil, &stratus.RejectedError{RetryAfter: time.Second}
	})
	stage := NewTotalTimeout(inner, time.Second)

	_, err := stage.Handle(context.Background(), getRequest())
	require.Error(t, err)
	assert.True(t, stratus.IsRejected(err))
	assert.False(t, stratus.IsTimeout(err))
}

func TestTotalTimeoutPassesAttemptTimeouts(t *testing.T) {
	t.Parallel()

	inner := HandlerFunc(func(_ context.Context, _ *Request) (*Response, error) {
		return nil, stratus.ErrAttemptTimeout
	})
	stage := NewTotalTimeout(inner, time.Second)

	_, err := stage.Handle(context.Background(), getRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, stratus.ErrAttemptTimeout)
	assert.NotErrorIs(t, err, stratus.ErrTotalTimeout)
}
