/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSlidingWindowLimiter(t *testing.T) {
	limiter, err := NewSlidingWindowLimiter(Rate{Count: 2, Duration: time.Hour}, 0)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allow, _, allowErr := limiter.Allow(ctx, "a")
		require.NoError(t, allowErr)
		require.True(t, allow)
	}
	allow, retryAfter, err := limiter.Allow(ctx, "a")
	require.NoError(t, err)
	require.False(t, allow)
	require.Positive(t, retryAfter)
	require.LessOrEqual(t, retryAfter, time.Hour)

	allow, _, err = limiter.Allow(ctx, "b")
	require.NoError(t, err)
	require.True(t, allow)

	_, err = NewSlidingWindowLimiter(Rate{}, 0)
	require.Error(t, err)
}

func TestLeakyBucketLimiter(t *testing.T) {
	limiter, err := NewLeakyBucketLimiter(Rate{Count: 1, Duration: time.Hour}, 0, 0)
	require.NoError(t, err)
	ctx := context.Background()

	allow, _, err := limiter.Allow(ctx, "a")
	require.NoError(t, err)
	require.True(t, allow)

	allow, retryAfter, err := limiter.Allow(ctx, "a")
	require.NoError(t, err)
	require.False(t, allow)
	require.Positive(t, retryAfter)

	allow, _, err = limiter.Allow(ctx, "b")
	require.NoError(t, err)
	require.True(t, allow)
}

func TestLeakyBucketLimiterBurst(t *testing.T) {
	limiter, err := NewLeakyBucketLimiter(Rate{Count: 1, Duration: time.Hour}, 2, 100)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allow, _, allowErr := limiter.Allow(ctx, "a")
		require.NoError(t, allowErr)
		require.True(t, allow, "call #%d", i+1)
	}
	allow, _, err := limiter.Allow(ctx, "a")
	require.NoError(t, err)
	require.False(t, allow)
}

func TestTokenBucketLimiter(t *testing.T) {
	limiter, err := NewTokenBucketLimiter(Rate{Count: 2, Duration: time.Hour}, 0, 10)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allow, _, allowErr := limiter.Allow(ctx, "a")
		require.NoError(t, allowErr)
		require.True(t, allow)
	}
	allow, retryAfter, err := limiter.Allow(ctx, "a")
	require.NoError(t, err)
	require.False(t, allow)
	require.Greater(t, retryAfter, 29*time.Minute)

	allow, _, err = limiter.Allow(ctx, "b")
	require.NoError(t, err)
	require.True(t, allow)
}

func requireAllow(t *testing.T, lim Limiter, key string, want bool) time.Duration {
	t.Helper()
	allow, retryAfter, err := lim.Allow(context.Background(), key)
	require.NoError(t, err)
	require.Equal(t, want, allow, "key %q", key)
	return retryAfter
}

func TestLimitersKeepBlockedKeysUnderKeyChurn(t *testing.T) {
	hourly := Rate{Count: 1, Duration: time.Hour}
	newLimiters := map[string]func() (Limiter, error){
		"sliding window": func() (Limiter, error) { return NewSlidingWindowLimiter(hourly, 2) },
		"leaky bucket":   func() (Limiter, error) { return NewLeakyBucketLimiter(hourly, 0, 2) },
		"token bucket":   func() (Limiter, error) { return NewTokenBucketLimiter(hourly, 0, 2) },
	}
	for name, newLimiter := range newLimiters {
		t.Run(name, func(t *testing.T) {
			lim, err := newLimiter()
			require.NoError(t, err)

			requireAllow(t, lim, "victim", true)
			requireAllow(t, lim, "victim", false)
			requireAllow(t, lim, "other1", true)
			require.Zero(t, requireAllow(t, lim, "other2", false), "no room for a new key")
			require.Positive(t, requireAllow(t, lim, "victim", false))
		})
	}
}

func TestLeakyBucketLimiterForgetsDrainedKeys(t *testing.T) {
	clock := newFakeClock()
	limiter, err := newLeakyBucketLimiter(Rate{Count: 1, Duration: time.Hour}, 0, 2, clock.Now)
	require.NoError(t, err)

	requireAllow(t, limiter, "a", true)
	require.Equal(t, time.Hour, requireAllow(t, limiter, "a", false))
	clock.Advance(30 * time.Minute)
	requireAllow(t, limiter, "b", true)
	requireAllow(t, limiter, "c", false)

	// "a" has drained, so its place is taken by "c" and "a" itself can't come back while "b" and "c" are live.
	clock.Advance(30 * time.Minute)
	requireAllow(t, limiter, "c", true)
	requireAllow(t, limiter, "a", false)

	clock.Advance(time.Hour)
	require.Equal(t, 2, limiter.DeleteExpired())
}
