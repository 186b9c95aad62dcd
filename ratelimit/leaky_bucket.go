/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/throttled/throttled/v2"

	"github.com/nautilus-one/synckit/lrucache"
)

// LeakyBucketLimiter implements GCRA (Generic Cell Rate Algorithm), a leaky bucket variant.
// See https://brandur.org/rate-limiting#gcra.
//
// A key is tracked until its bucket drains. When maxKeys keys are tracked,
// calls for other keys are rejected with zero retryAfter.
type LeakyBucketLimiter struct {
	limiter *throttled.GCRARateLimiterCtx
	store   *gcraStore
}

// NewLeakyBucketLimiter creates a new leaky bucket rate limiter.
// maxBurst is the number of requests admitted above the steady rate, maxKeys == 0 means unbounded.
func NewLeakyBucketLimiter(maxRate Rate, maxBurst, maxKeys int) (*LeakyBucketLimiter, error) {
	return newLeakyBucketLimiter(maxRate, maxBurst, maxKeys, time.Now)
}

func newLeakyBucketLimiter(maxRate Rate, maxBurst, maxKeys int, clock func() time.Time) (*LeakyBucketLimiter, error) {
	if err := maxRate.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = time.Now
	}
	tats, err := newKeyedState[int64](maxKeys, clock, nil)
	if err != nil {
		return nil, fmt.Errorf("new in-memory store: %w", err)
	}
	store := &gcraStore{tats: tats, now: clock}
	gcraLimiter, err := throttled.NewGCRARateLimiterCtx(store, throttled.RateQuota{
		MaxRate:  throttled.PerDuration(maxRate.Count, maxRate.Duration),
		MaxBurst: maxBurst,
	})
	if err != nil {
		return nil, fmt.Errorf("new GCRA rate limiter: %w", err)
	}
	return &LeakyBucketLimiter{limiter: gcraLimiter, store: store}, nil
}

// Allow checks if the request should be allowed based on the rate limit.
func (l *LeakyBucketLimiter) Allow(ctx context.Context, key string) (allow bool, retryAfter time.Duration, err error) {
	limited, res, err := l.limiter.RateLimitCtx(ctx, key, 1)
	if err != nil {
		if errors.Is(err, lrucache.ErrFull) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("GCRA rate limit %q: %w", key, err)
	}
	return !limited, res.RetryAfter, nil
}

// DeleteExpired forgets keys with drained buckets and returns their number.
func (l *LeakyBucketLimiter) DeleteExpired() int {
	return l.store.tats.DeleteExpired()
}

// gcraStore keeps theoretical arrival times of keys in memory.
// The value of a key expires when its bucket drains, so the key no longer restricts calls.
type gcraStore struct {
	mu   sync.Mutex
	tats *lrucache.LRUCache[string, int64]
	now  func() time.Time
}

var _ throttled.GCRAStoreCtx = (*gcraStore)(nil)

// GetWithTime returns the value of key (-1 if it's not tracked) and the current time.
func (s *gcraStore) GetWithTime(_ context.Context, key string) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if tat, ok := s.tats.Get(key); ok {
		return tat, now, nil
	}
	return -1, now, nil
}

// SetIfNotExistsWithTTL sets the value of key only if it's not tracked.
func (s *gcraStore) SetIfNotExistsWithTTL(_ context.Context, key string, value int64, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tats.Get(key); ok {
		return false, nil
	}
	if err := s.tats.Add(key, value, ttl); err != nil {
		return false, err
	}
	return true, nil
}

// CompareAndSwapWithTTL sets the value of key to newValue only if it's currently oldValue.
// It returns false with no error if key is not tracked.
func (s *gcraStore) CompareAndSwapWithTTL(
	_ context.Context, key string, oldValue, newValue int64, ttl time.Duration,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tat, ok := s.tats.Get(key)
	if !ok || tat != oldValue {
		return false, nil
	}
	if err := s.tats.Add(key, newValue, ttl); err != nil {
		return false, err
	}
	return true, nil
}
