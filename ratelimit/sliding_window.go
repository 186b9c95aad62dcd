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

	"github.com/RussellLuo/slidingwindow"

	"github.com/nautilus-one/synckit/lrucache"
)

// SlidingWindowLimiter implements sliding window rate limiting algorithm.
// Unlike FixedWindowLimiter it weights the previous window, so bursts around the boundary are smoothed.
//
// A key is tracked for two windows after its last call. When maxKeys keys are tracked,
// calls for other keys are rejected with zero retryAfter.
type SlidingWindowLimiter struct {
	mu       sync.Mutex
	limiters *lrucache.LRUCache[string, *slidingwindow.Limiter]
	maxRate  Rate
	now      func() time.Time
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter. maxKeys == 0 means unbounded.
func NewSlidingWindowLimiter(maxRate Rate, maxKeys int) (*SlidingWindowLimiter, error) {
	if err := maxRate.Validate(); err != nil {
		return nil, err
	}
	limiters, err := newKeyedState[*slidingwindow.Limiter](maxKeys, time.Now, nil)
	if err != nil {
		return nil, err
	}
	return &SlidingWindowLimiter{limiters: limiters, maxRate: maxRate, now: time.Now}, nil
}

func (l *SlidingWindowLimiter) getLimiter(key string) (*slidingwindow.Limiter, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters.Get(key)
	if !ok {
		lim, _ = slidingwindow.NewLimiter(
			l.maxRate.Duration, int64(l.maxRate.Count), func() (slidingwindow.Window, slidingwindow.StopFunc) {
				return slidingwindow.NewLocalWindow()
			})
	}
	// The previous window still weighs on the current one, so the state lives for two windows.
	if err := l.limiters.Add(key, lim, 2*l.maxRate.Duration); err != nil {
		return nil, err
	}
	return lim, nil
}

// Allow checks if the request should be allowed based on the rate limit.
func (l *SlidingWindowLimiter) Allow(_ context.Context, key string) (allow bool, retryAfter time.Duration, err error) {
	lim, err := l.getLimiter(key)
	if err != nil {
		if errors.Is(err, lrucache.ErrFull) {
			return false, 0, nil
		}
		return false, 0, err
	}
	if lim.Allow() {
		return true, 0, nil
	}
	now := l.now()
	retryAfter = now.Truncate(l.maxRate.Duration).Add(l.maxRate.Duration).Sub(now)
	return false, retryAfter, nil
}

// DeleteExpired forgets keys without calls for the last two windows and returns their number.
func (l *SlidingWindowLimiter) DeleteExpired() int {
	return l.limiters.DeleteExpired()
}
