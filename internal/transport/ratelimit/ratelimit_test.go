package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfcore/salesforce/internal/transport/ratelimit"
)

func TestLimiter_WaitAdmitsWithinBurst(t *testing.T) {
	l := ratelimit.New(10, 3)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Wait(ctx))
	}
}

func TestLimiter_WaitRespectsContextCancellation(t *testing.T) {
	l := ratelimit.New(0.001, 1)
	require.NoError(t, l.Wait(context.Background())) // drains the single burst token

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := l.Wait(ctx)
	assert.Error(t, err)
}

func TestLimiter_AdjustShrinksRateAsUsageApproachesLimit(t *testing.T) {
	l := ratelimit.New(100, 1)
	l.Adjust(95, 100) // 5% remaining, floored to 10% of base
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, l.Wait(ctx)) // burst token still admits immediately
	// at 10 tokens/s the next token is 100ms away, past the 50ms deadline
	assert.Error(t, l.Wait(ctx))
}

func TestLimiter_AdjustRecoversFromBaseline(t *testing.T) {
	l := ratelimit.New(50, 1)
	l.Adjust(99, 100) // shrink hard
	l.Adjust(0, 100)  // usage resets; rate should recover toward the base, not keep shrinking
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, l.Wait(ctx))
}

func TestLimiter_AdjustIgnoresZeroLimit(t *testing.T) {
	l := ratelimit.New(10, 1)
	l.Adjust(5, 0) // no-op guard; must not panic on division by zero
}

func TestLimiter_NilReceiverIsNoop(t *testing.T) {
	var l *ratelimit.Limiter
	assert.NoError(t, l.Wait(context.Background()))
	l.Adjust(1, 10) // must not panic
}
