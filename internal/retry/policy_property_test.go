//go:build property
// +build property

package retry_test

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/sfcore/salesforce/internal/retry"
)

// TestNextDelay_MonotonicUntilClamped verifies §8's retry-monotonicity
// property: for non-jitter strategies, the delay sequence is monotonic
// until it hits MaxDelay.
func TestNextDelay_MonotonicUntilClamped(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	strategies := []retry.Strategy{retry.Constant, retry.Linear, retry.Exponential}

	properties.Property("delay sequence never decreases before hitting max delay", prop.ForAll(
		func(strategyIdx, initialMs, maxMs, attempts int) bool {
			policy := retry.Policy{
				MaxAttempts:  attempts%10 + 1,
				InitialDelay: time.Duration(initialMs%1000+1) * time.Millisecond,
				MaxDelay:     time.Duration(maxMs%5000+1) * time.Millisecond,
				Strategy:     strategies[strategyIdx%len(strategies)],
				Factor:       2,
			}

			prev := policy.NextDelay(0, nil)
			for k := 1; k < 8; k++ {
				next := policy.NextDelay(k, nil)
				if next < prev && prev < policy.MaxDelay {
					return false
				}
				prev = next
			}
			return true
		},
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

// TestNextDelay_RespectsRetryAfterClamp verifies §8 scenario 2: a
// Retry-After hint wins over the configured backoff shape but is clamped
// to MaxRetryAfter.
func TestNextDelay_RespectsRetryAfterClamp(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("Retry-After is honored up to MaxRetryAfter", prop.ForAll(
		func(hintSeconds, maxSeconds int) bool {
			hint := time.Duration(hintSeconds%300) * time.Second
			maxRetryAfter := time.Duration(maxSeconds%300+1) * time.Second
			policy := retry.Policy{
				MaxAttempts:       5,
				InitialDelay:      10 * time.Millisecond,
				MaxDelay:          time.Second,
				Strategy:          retry.Constant,
				RespectRetryAfter: true,
				MaxRetryAfter:     maxRetryAfter,
			}
			got := policy.NextDelay(1, &hint)
			if hint > maxRetryAfter {
				return got == maxRetryAfter
			}
			return got == hint
		},
		gen.IntRange(0, 10000),
		gen.IntRange(0, 10000),
	))

	properties.TestingRun(t)
}
