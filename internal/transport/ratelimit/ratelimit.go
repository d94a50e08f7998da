// Package ratelimit implements an optional client-side token-bucket
// shaper layered in front of internal/transport, so a caller can stay
// under a known organization-wide API ceiling proactively instead of
// only reacting to 429s after the fact.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter wraps a token-bucket rate limiter sized in requests per second,
// with burst headroom for short spikes.
type Limiter struct {
	rl       *rate.Limiter
	baseRate rate.Limit
}

// New builds a Limiter allowing ratePerSecond steady-state requests with
// up to burst requests admitted immediately.
func New(ratePerSecond float64, burst int) *Limiter {
	base := rate.Limit(ratePerSecond)
	return &Limiter{rl: rate.NewLimiter(base, burst), baseRate: base}
}

// Wait blocks until a token is available or ctx is canceled, the
// integration point internal/transport.Client calls before issuing a
// request when a Limiter is configured.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.rl.Wait(ctx)
}

// Adjust re-tunes the steady-state rate from the API usage reported by
// Salesforce's Sforce-Limit-Info header (§4.3): as remaining headroom
// shrinks, the allowed rate shrinks proportionally so this client backs
// off the org's shared daily ceiling before Salesforce starts rejecting
// requests outright.
func (l *Limiter) Adjust(used, limit int) {
	if l == nil || limit <= 0 {
		return
	}
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	fraction := float64(remaining) / float64(limit)
	// Never fully choke the bucket; floor at 10% of the base rate so a
	// single slow-draining window can't wedge every subsequent call.
	if fraction < 0.1 {
		fraction = 0.1
	}
	l.rl.SetLimit(rate.Limit(float64(l.baseRate) * fraction))
}
