/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nautilus-one/synckit/lrucache"
)

// TokenBucketLimiter refills rate.Count tokens per rate.Duration into a bucket of burst size per key.
//
// A key is tracked until its bucket could have been refilled completely. When maxKeys keys are tracked,
// calls for other keys are rejected with zero retryAfter.
type TokenBucketLimiter struct {
	mu         sync.Mutex
	limiters   *lrucache.LRUCache[string, *rate.Limiter]
	limit      rate.Limit
	burst      int
	refillTime time.Duration
}

// NewTokenBucketLimiter creates a new token bucket rate limiter. Zero burst means maxRate.Count.
func NewTokenBucketLimiter(maxRate Rate, burst, maxKeys int) (*TokenBucketLimiter, error) {
	if err := maxRate.Validate(); err != nil {
		return nil, err
	}
	limiters, err := newKeyedState[*rate.Limiter](maxKeys, time.Now, nil)
	if err != nil {
		return nil, err
	}
	if burst <= 0 {
		burst = maxRate.Count
	}
	interval := maxRate.Duration / time.Duration(maxRate.Count)
	return &TokenBucketLimiter{
		limiters:   limiters,
		limit:      rate.Every(interval),
		burst:      burst,
		refillTime: time.Duration(burst) * interval,
	}, nil
}

func (l *TokenBucketLimiter) getLimiter(key string) (*rate.Limiter, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters.Get(key)
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
	}
	if err := l.limiters.Add(key, lim, l.refillTime); err != nil {
		return nil, err
	}
	return lim, nil
}

// Allow checks if the request should be allowed based on the rate limit.
func (l *TokenBucketLimiter) Allow(_ context.Context, key string) (allow bool, retryAfter time.Duration, err error) {
	lim, err := l.getLimiter(key)
	if err != nil {
		if errors.Is(err, lrucache.ErrFull) {
			return false, 0, nil
		}
		return false, 0, err
	}

	reservation := lim.Reserve()
	if !reservation.OK() {
		return false, 0, nil
	}
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		return false, delay, nil
	}
	return true, 0, nil
}

// DeleteExpired forgets keys with full buckets and returns their number.
func (l *TokenBucketLimiter) DeleteExpired() int {
	return l.limiters.DeleteExpired()
}
