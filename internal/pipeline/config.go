package pipeline

import (
	"time"

	"github.com/stratus-io/stratus-go/internal/constants"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// Config carries the normalized knobs for every stage. Callers should start
// from DefaultConfig and override fields; the zero values of MaxRetries,
// QueueLimit, Jitter, and RetryRateLimited are meaningful (disabled), so
// they are never patched back to defaults here.
type Config struct {
	// Name labels the pipeline in logs and breaker transitions, usually
	// the API host.
	Name string

	// PermitLimit is the number of operations allowed to execute
	// concurrently. QueueLimit is the number of further operations allowed
	// to wait for a permit; anything beyond that is rejected immediately.
	PermitLimit int
	QueueLimit  int

	// RejectionRetryAfter, when positive, is attached to rejections as a
	// hint for when the caller should try again.
	RejectionRetryAfter time.Duration

	// MaxRetries is the number of re-sends after the initial attempt.
	// Zero disables retrying entirely.
	MaxRetries int

	// RetryWaitMin seeds the exponential backoff schedule and RetryWaitMax
	// caps it. Jitter randomizes each computed delay to avoid retry
	// stampedes. RetryRateLimited extends retry eligibility to 429
	// responses.
	RetryWaitMin     time.Duration
	RetryWaitMax     time.Duration
	Jitter           bool
	RetryRateLimited bool

	// AttemptTimeout bounds a single send; TotalTimeout bounds the whole
	// operation including queueing, retries, and backoff.
	AttemptTimeout time.Duration
	TotalTimeout   time.Duration

	// Circuit breaker tuning. MinRequests is the observation floor before
	// the failure ratio is consulted, Window is how long failure counts
	// accumulate before resetting, and Cooldown is how long an open
	// breaker waits before allowing a trial request.
	BreakerMinRequests  uint32
	BreakerFailureRatio float64
	BreakerWindow       time.Duration
	BreakerCooldown     time.Duration

	Logger stratus.Logger
}

// DefaultConfig returns the stock tuning: 25 permits with a queue of 10,
// 3 retries on a jittered 1s exponential backoff, rate-limit retries on,
// a 30s attempt timeout, and a 60s total deadline.
func DefaultConfig() Config {
	return Config{
		Name:                "stratus",
		PermitLimit:         constants.DefaultPermitLimit,
		QueueLimit:          constants.DefaultQueueLimit,
		RejectionRetryAfter: constants.DefaultRetryWaitBase,
		MaxRetries:          constants.DefaultRetryMax,
		RetryWaitMin:        constants.DefaultRetryWaitBase,
		RetryWaitMax:        constants.DefaultRetryWaitMax,
		Jitter:              true,
		RetryRateLimited:    true,
		AttemptTimeout:      constants.DefaultAttemptTimeout,
		TotalTimeout:        constants.DefaultTotalTimeout,
		BreakerMinRequests:  constants.BreakerMinRequests,
		BreakerFailureRatio: constants.BreakerFailureRatio,
		BreakerWindow:       constants.BreakerWindow,
		BreakerCooldown:     constants.BreakerCooldown,
		Logger:              stratus.NewNoopLogger(),
	}
}

// withDefaults patches the fields whose zero values would make the chain
// unusable rather than merely strict.
func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = "stratus"
	}
	if c.PermitLimit <= 0 {
		c.PermitLimit = constants.DefaultPermitLimit
	}
	if c.QueueLimit < 0 {
		c.QueueLimit = 0
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryWaitMin <= 0 {
		c.RetryWaitMin = constants.DefaultRetryWaitBase
	}
	if c.RetryWaitMax < c.RetryWaitMin {
		c.RetryWaitMax = c.RetryWaitMin
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = constants.DefaultAttemptTimeout
	}
	if c.TotalTimeout <= 0 {
		c.TotalTimeout = constants.DefaultTotalTimeout
	}
	if c.BreakerMinRequests == 0 {
		c.BreakerMinRequests = constants.BreakerMinRequests
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		c.BreakerFailureRatio = constants.BreakerFailureRatio
	}
	if c.BreakerWindow <= 0 {
		c.BreakerWindow = constants.BreakerWindow
	}
	if c.BreakerCooldown <= 0 {
		c.BreakerCooldown = constants.BreakerCooldown
	}
	if c.Logger == nil {
		c.Logger = stratus.NewNoopLogger()
	}
	return c
}
