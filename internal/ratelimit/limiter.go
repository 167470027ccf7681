// Package ratelimit throttles outbound calls to the offer provider, one token
// bucket per endpoint so a burst of searches cannot starve token refreshes.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Config sizes a token bucket.
type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultConfig matches the Amadeus test environment quota.
func DefaultConfig() Config {
	return Config{RequestsPerSecond: 10, BurstSize: 10}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = d.RequestsPerSecond
	}
	if c.BurstSize <= 0 {
		c.BurstSize = d.BurstSize
	}
	return c
}

func (c Config) bucket() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(c.RequestsPerSecond), c.BurstSize)
}

// EndpointLimiter hands out a bucket per endpoint name, created lazily from
// the fallback config unless SetLimit overrode it.
type EndpointLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*rate.Limiter
	fallback Config
}

// NewEndpointLimiter returns a limiter whose unset fields fall back to
// DefaultConfig.
func NewEndpointLimiter(fallback Config) *EndpointLimiter {
	return &EndpointLimiter{
		buckets:  make(map[string]*rate.Limiter),
		fallback: fallback.withDefaults(),
	}
}

func (l *EndpointLimiter) Limiter(endpoint string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[endpoint]
	if !ok {
		b = l.fallback.bucket()
		l.buckets[endpoint] = b
	}
	return b
}

// SetLimit replaces the endpoint's bucket. Waiters on the old bucket are not
// migrated.
func (l *EndpointLimiter) SetLimit(endpoint string, cfg Config) {
	l.mu.Lock()
	l.buckets[endpoint] = cfg.withDefaults().bucket()
	l.mu.Unlock()
}

// Wait blocks until endpoint has a token or ctx is done. A nil limiter never blocks.
func (l *EndpointLimiter) Wait(ctx context.Context, endpoint string) error {
	if l == nil {
		return nil
	}
	return l.Limiter(endpoint).Wait(ctx)
}
