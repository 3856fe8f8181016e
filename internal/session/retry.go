package session

import (
	"math/rand"
	"time"
)

// RetryPolicy controls how the session retries recoverable provider
// failures (rate limits, timeouts, service unavailability). It is injected
// into the session rather than hard-coded so shells and tests can tune it.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the delay before the second attempt; it doubles for each
	// subsequent attempt.
	BaseDelay time.Duration

	// MaxDelay caps the exponential growth.
	MaxDelay time.Duration

	// Jitter adds up to this fraction of the computed delay, randomly, to
	// spread concurrent retries. 0 disables jitter.
	Jitter float64
}

// DefaultRetryPolicy returns the retry policy used when none is injected.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    8 * time.Second,
		Jitter:      0.2,
	}
}

// delayFor computes the backoff delay before the given attempt number
// (attempt 1 is the first retry).
func (p RetryPolicy) delayFor(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			delay = p.MaxDelay
			break
		}
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	if p.Jitter > 0 {
		delay += time.Duration(rand.Float64() * p.Jitter * float64(delay))
	}
	return delay
}
