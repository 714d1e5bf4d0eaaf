// Package ratelimit paces outbound queries. Limiter is a token bucket with
// upward-only jitter; Keyed holds one Limiter per upstream; Sleeper is the
// fixed blocking pause used when lookups run sequentially.
package ratelimit

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// jitterFactor is the maximum fraction added to a non-zero wait.
const jitterFactor = 0.20

// Limiter wraps a token-bucket rate limiter and adds up to +20% jitter to wait intervals.
// Jitter only ever lengthens a wait, so the configured rate is a hard ceiling.
type Limiter struct {
	inner *rate.Limiter
}

// New creates a Limiter with the given requests-per-second rate and burst capacity.
func New(rps float64, burst int) *Limiter {
	return &Limiter{inner: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Every creates a Limiter that grants one token per interval with the given burst.
// An interval of zero or less disables limiting.
func Every(interval time.Duration, burst int) *Limiter {
	return &Limiter{inner: rate.NewLimiter(rate.Every(interval), burst)}
}

// Wait reserves a token from the limiter and waits for the token to become available,
// adding up to +20% random jitter to the wait duration. Returns ctx.Err() if the context
// is cancelled before the token is granted.
func (l *Limiter) Wait(ctx context.Context) error {
	res := l.inner.Reserve()
	if !res.OK() {
		// Burst exceeded beyond what the limiter can accommodate.
		return ctx.Err()
	}

	delay := res.Delay()
	if delay <= 0 {
		return nil
	}

	jitter := time.Duration(float64(delay) * jitterFactor * rand.Float64()) //nolint:gosec // non-cryptographic random is fine for jitter
	delay += jitter

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		res.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Keyed hands out one Limiter per key, created on first use.
// Safe for concurrent use; workers sharing a key share the bucket.
type Keyed struct {
	interval time.Duration
	burst    int

	mu       sync.Mutex
	limiters map[string]*Limiter
}

// NewKeyed creates a Keyed limiter allowing one query per interval for every key.
func NewKeyed(interval time.Duration, burst int) *Keyed {
	return &Keyed{interval: interval, burst: burst, limiters: make(map[string]*Limiter)}
}

// Pace waits for a token from the bucket belonging to key.
func (k *Keyed) Pace(ctx context.Context, key string) error {
	return k.limiter(key).Wait(ctx)
}

func (k *Keyed) limiter(key string) *Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.limiters[key]
	if !ok {
		l = Every(k.interval, k.burst)
		k.limiters[key] = l
	}
	return l
}

// Sleeper pauses for a fixed Delay before every query, regardless of key.
// The pause is not interrupted by context cancellation.
type Sleeper struct {
	Delay time.Duration
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Pace blocks for s.Delay.
func (s Sleeper) Pace(_ context.Context, _ string) error {
	if s.Delay <= 0 {
		return nil
	}
	sleep := s.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	sleep(s.Delay)
	return nil
}
