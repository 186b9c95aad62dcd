/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/nautilus-one/synckit/log"
	"github.com/nautilus-one/synckit/lrucache"
)

type windowEntry struct {
	count       int
	maxRequests int
	resetAt     time.Time
}

// FixedWindowOpts contains optional parameters for constructing FixedWindowLimiter.
type FixedWindowOpts struct {
	// MaxKeys bounds the number of tracked keys. Zero means unbounded.
	// A key is tracked until its window expires. When MaxKeys keys have unexpired windows,
	// calls for untracked keys are rejected until some window expires.
	MaxKeys int

	// Clock returns the current time. time.Now is used if nil.
	Clock func() time.Time

	Logger  log.FieldLogger
	Metrics MetricsCollector
}

// FixedWindowLimiter counts admitted calls per key within fixed windows.
//
// maxRequests and window are passed on every CheckLimit call. GetStats reports Remaining
// against the maxRequests of the most recent call for the key, so callers should pass
// the same values for a key every time (or use Bind which fixes them).
type FixedWindowLimiter struct {
	mu      sync.Mutex
	windows *lrucache.LRUCache[string, *windowEntry]
	maxKeys int
	now     func() time.Time
	logger  log.FieldLogger
	metrics MetricsCollector
}

var _ StatsProvider = (*FixedWindowLimiter)(nil)

// NewFixedWindowLimiter creates a new FixedWindowLimiter.
func NewFixedWindowLimiter(opts FixedWindowOpts) (*FixedWindowLimiter, error) {
	l := &FixedWindowLimiter{maxKeys: opts.MaxKeys, now: opts.Clock, logger: opts.Logger, metrics: opts.Metrics}
	if l.now == nil {
		l.now = time.Now
	}
	if l.logger == nil {
		l.logger = log.NewDisabledLogger()
	}
	if l.metrics == nil {
		l.metrics = disabledMetrics{}
	}
	var err error
	if l.windows, err = newKeyedState[*windowEntry](opts.MaxKeys, l.now, l.metrics); err != nil {
		return nil, err
	}
	return l, nil
}

// CheckLimit reports whether one more call for key is admitted and records it if so.
//
// A new window of the given length starts on the first call for a key and on the first call
// after the previous window has expired. Within a window at most maxRequests calls are admitted.
// Non-positive maxRequests or window reject the call.
func (l *FixedWindowLimiter) CheckLimit(key string, maxRequests int, window time.Duration) bool {
	allowed, _ := l.check(key, maxRequests, window)
	return allowed
}

func (l *FixedWindowLimiter) check(key string, maxRequests int, window time.Duration) (bool, time.Duration) {
	if maxRequests <= 0 || window <= 0 {
		l.logger.Warn("invalid rate limit parameters, call is rejected",
			log.String("key", key), log.Int("max_requests", maxRequests), log.Duration("window", window))
		l.metrics.IncDecisions(DecisionRejected)
		return false, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.windows.Get(key)
	if !ok || !now.Before(entry.resetAt) {
		if err := l.windows.Add(key, &windowEntry{count: 1, maxRequests: maxRequests, resetAt: now.Add(window)}, window); err != nil {
			l.logger.Warn("too many rate limiting keys, call is rejected",
				log.String("key", key), log.Int("max_keys", l.maxKeys))
			l.metrics.IncDecisions(DecisionRejected)
			return false, 0
		}
		l.metrics.IncDecisions(DecisionAllowed)
		return true, 0
	}

	entry.maxRequests = maxRequests
	if entry.count < maxRequests {
		entry.count++
		l.metrics.IncDecisions(DecisionAllowed)
		return true, 0
	}

	retryAfter := entry.resetAt.Sub(now)
	l.logger.Debug("rate limit exceeded",
		log.String("key", key), log.Int("max_requests", maxRequests), log.Duration("retry_after", retryAfter))
	l.metrics.IncDecisions(DecisionRejected)
	return false, retryAfter
}

// GetStats returns the state of the current window of key. ok is false if the key is not tracked.
func (l *FixedWindowLimiter) GetStats(key string) (stats Stats, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.windows.Peek(key)
	if !ok {
		return Stats{}, false
	}
	remaining := entry.maxRequests - entry.count
	if remaining < 0 {
		remaining = 0
	}
	return Stats{RequestCount: entry.count, Remaining: remaining, ResetAt: entry.resetAt}, true
}

// Reset forgets all tracked keys.
func (l *FixedWindowLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.windows.Purge()
}

// DeleteExpired forgets keys whose windows have expired and returns their number.
func (l *FixedWindowLimiter) DeleteExpired() int {
	return l.windows.DeleteExpired()
}

// Len returns the number of tracked keys.
func (l *FixedWindowLimiter) Len() int {
	return l.windows.Len()
}

// Bind returns a Limiter admitting at most rate.Count calls per rate.Duration for every key.
func (l *FixedWindowLimiter) Bind(rate Rate) *BoundFixedWindowLimiter {
	return &BoundFixedWindowLimiter{limiter: l, rate: rate}
}

// BoundFixedWindowLimiter is a FixedWindowLimiter with the rate fixed for all keys.
type BoundFixedWindowLimiter struct {
	limiter *FixedWindowLimiter
	rate    Rate
}

var (
	_ Limiter       = (*BoundFixedWindowLimiter)(nil)
	_ StatsProvider = (*BoundFixedWindowLimiter)(nil)
)

// Allow checks if the request should be allowed based on the rate limit.
func (b *BoundFixedWindowLimiter) Allow(_ context.Context, key string) (allow bool, retryAfter time.Duration, err error) {
	allow, retryAfter = b.limiter.check(key, b.rate.Count, b.rate.Duration)
	return allow, retryAfter, nil
}

// GetStats returns the state of the current window of key.
func (b *BoundFixedWindowLimiter) GetStats(key string) (Stats, bool) {
	return b.limiter.GetStats(key)
}

// Reset forgets all tracked keys.
func (b *BoundFixedWindowLimiter) Reset() {
	b.limiter.Reset()
}

// Rate returns the bound rate.
func (b *BoundFixedWindowLimiter) Rate() Rate {
	return b.rate
}
