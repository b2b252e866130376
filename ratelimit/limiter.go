// Package ratelimit provides rate limiters for throttling event listeners.
//
// Listeners run synchronously on the triggering goroutine, so a limiter
// slows the trigger itself down. Two limiters are provided:
//   - TokenBucket: one token bucket shared by every call (golang.org/x/time/rate)
//   - Keyed: one token bucket per key, typically the triggered event name
//
// # Basic Usage
//
//	// 100 calls/second with burst of 10
//	limiter := ratelimit.NewTokenBucket(100, 10)
//	m.On("metrics.flush", l, emitter.WithListenerMiddleware(emitter.Throttle(limiter)))
//
//	// Separate budget per event name
//	keyed := ratelimit.NewKeyed(10, 1)
//	m.On("sync.*", l, emitter.WithListenerMiddleware(emitter.ThrottleByEvent(keyed)))
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter is the interface for rate limiters.
// All implementations must be safe for concurrent use.
type Limiter interface {
	// Allow returns true if a call can happen right now.
	// This is a non-blocking check.
	Allow(ctx context.Context) bool

	// Wait blocks until a call is allowed or context is cancelled.
	// Returns the context error if cancelled.
	Wait(ctx context.Context) error
}

// TokenBucket implements a local token bucket rate limiter.
//
// The token bucket algorithm:
//   - Tokens are added at the specified rate (rps)
//   - A maximum of 'burst' tokens can accumulate
//   - Each call consumes one token
type TokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket creates a new token bucket rate limiter.
//
// Parameters:
//   - rps: Calls per second (rate at which tokens are added)
//   - burst: Maximum burst size (maximum tokens that can accumulate)
func NewTokenBucket(rps float64, burst int) *TokenBucket {
	return &TokenBucket{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Allow returns true if a call can happen right now.
// Consumes one token if available.
func (t *TokenBucket) Allow(ctx context.Context) bool {
	return t.limiter.Allow()
}

// Wait blocks until a call is allowed or context is cancelled.
func (t *TokenBucket) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// SetLimit updates the rate limit dynamically.
func (t *TokenBucket) SetLimit(rps float64) {
	t.limiter.SetLimit(rate.Limit(rps))
}

// SetBurst updates the burst size dynamically.
func (t *TokenBucket) SetBurst(burst int) {
	t.limiter.SetBurst(burst)
}

// Limit returns the current rate limit (calls per second).
func (t *TokenBucket) Limit() float64 {
	return float64(t.limiter.Limit())
}

// Burst returns the current burst size.
func (t *TokenBucket) Burst() int {
	return t.limiter.Burst()
}

// Keyed keeps an independent TokenBucket per key.
// Buckets are created on first use with the configured rate and burst.
type Keyed struct {
	mu      sync.Mutex
	rps     float64
	burst   int
	buckets map[string]*TokenBucket
}

// NewKeyed creates a keyed limiter where every key gets rps and burst.
func NewKeyed(rps float64, burst int) *Keyed {
	return &Keyed{
		rps:     rps,
		burst:   burst,
		buckets: make(map[string]*TokenBucket),
	}
}

// Get returns the bucket for key, creating it if needed.
func (k *Keyed) Get(key string) *TokenBucket {
	k.mu.Lock()
	defer k.mu.Unlock()
	b, ok := k.buckets[key]
	if !ok {
		b = NewTokenBucket(k.rps, k.burst)
		k.buckets[key] = b
	}
	return b
}

// Len returns the number of keys seen so far.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}

// Forget drops the bucket for key.
func (k *Keyed) Forget(key string) {
	k.mu.Lock()
	delete(k.buckets, key)
	k.mu.Unlock()
}

// Compile-time check
var _ Limiter = (*TokenBucket)(nil)
