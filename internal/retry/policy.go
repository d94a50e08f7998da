// Package retry implements the backoff math and Retry-After handling
// shared by the transport core and the bulk/metadata poll loops.
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Strategy selects the backoff shape.
type Strategy int

const (
	Constant Strategy = iota
	Linear
	Exponential
	ExponentialJitter
)

// Policy mirrors the design's RetryPolicy value object.
type Policy struct {
	MaxAttempts       int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	Strategy          Strategy
	Factor            float64 // used by Exponential / ExponentialJitter
	RespectRetryAfter bool
	MaxRetryAfter     time.Duration

	// Rand is used only by ExponentialJitter; nil seeds a fresh source
	// from the current time on each call. Tests may inject a
	// deterministic source.
	Rand *rand.Rand
}

// DefaultPolicy returns sensible production defaults: 3 attempts,
// exponential backoff with jitter starting at 500ms.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:       3,
		InitialDelay:      500 * time.Millisecond,
		MaxDelay:          30 * time.Second,
		Strategy:          ExponentialJitter,
		Factor:            2,
		RespectRetryAfter: true,
		MaxRetryAfter:     60 * time.Second,
	}
}

// NextDelay computes the delay before attempt k (0-indexed) per §4.2. When
// retryAfter is non-nil and RespectRetryAfter is set, the Retry-After hint
// wins (clamped to MaxRetryAfter); otherwise the configured backoff shape
// applies, clamped to MaxDelay.
func (p Policy) NextDelay(k int, retryAfter *time.Duration) time.Duration {
	if p.RespectRetryAfter && retryAfter != nil {
		d := *retryAfter
		if p.MaxRetryAfter > 0 && d > p.MaxRetryAfter {
			d = p.MaxRetryAfter
		}
		return d
	}
	base := p.baseDelay(k)
	if p.MaxDelay > 0 && base > p.MaxDelay {
		base = p.MaxDelay
	}
	return base
}

func (p Policy) baseDelay(k int) time.Duration {
	switch p.Strategy {
	case Constant:
		return p.InitialDelay
	case Linear:
		return p.InitialDelay * time.Duration(k+1)
	case Exponential:
		return scale(p.InitialDelay, p.Factor, k)
	case ExponentialJitter:
		base := scale(p.InitialDelay, p.Factor, k)
		lo := float64(base)
		hi := 2 * lo
		if p.MaxDelay > 0 {
			hiCap := float64(p.MaxDelay)
			if hi > hiCap {
				hi = hiCap
			}
			if lo > hi {
				lo = hi
			}
		}
		r := p.Rand
		if r == nil {
			r = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		return time.Duration(lo + r.Float64()*(hi-lo))
	default:
		return p.InitialDelay
	}
}

func scale(initial time.Duration, factor float64, k int) time.Duration {
	if factor <= 0 {
		factor = 1
	}
	return time.Duration(float64(initial) * math.Pow(factor, float64(k)))
}

// Exhausted reports whether attempt (1-indexed count of calls already
// made) has used up the policy's budget.
func (p Policy) Exhausted(attempt int) bool {
	return attempt >= p.MaxAttempts
}
