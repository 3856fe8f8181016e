package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy_DelayGrowsExponentially(t *testing.T) {
	policy := RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    10 * time.Second,
	}

	assert.Equal(t, 100*time.Millisecond, policy.delayFor(1))
	assert.Equal(t, 200*time.Millisecond, policy.delayFor(2))
	assert.Equal(t, 400*time.Millisecond, policy.delayFor(3))
	assert.Equal(t, 800*time.Millisecond, policy.delayFor(4))
}

func TestRetryPolicy_DelayCapped(t *testing.T) {
	policy := RetryPolicy{
		MaxAttempts: 10,
		BaseDelay:   time.Second,
		MaxDelay:    4 * time.Second,
	}

	assert.Equal(t, 4*time.Second, policy.delayFor(5))
	assert.Equal(t, 4*time.Second, policy.delayFor(9))
}

func TestRetryPolicy_JitterStaysWithinFraction(t *testing.T) {
	policy := RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    time.Minute,
		Jitter:      0.5,
	}

	for i := 0; i < 100; i++ {
		delay := policy.delayFor(1)
		assert.GreaterOrEqual(t, delay, time.Second)
		assert.LessOrEqual(t, delay, 1500*time.Millisecond)
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()
	assert.Equal(t, 3, policy.MaxAttempts)
	assert.Greater(t, policy.BaseDelay, time.Duration(0))
	assert.GreaterOrEqual(t, policy.MaxDelay, policy.BaseDelay)
}
