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

func TestRegistryFixedWindow(t *testing.T) {
	clock := newFakeClock()
	reg, err := NewRegistry(&Config{
		Algorithm: AlgorithmFixedWindow,
		Rate:      Rate{Count: 3, Duration: time.Minute},
		Actions: map[string]Rate{
			"login-attempt": {Count: 1, Duration: 15 * time.Minute},
		},
	}, RegistryOpts{Clock: clock.Now})
	require.NoError(t, err)
	ctx := context.Background()

	allow, _, err := reg.Allow(ctx, "login-attempt", "user42")
	require.NoError(t, err)
	require.True(t, allow)
	allow, retryAfter, err := reg.Allow(ctx, "login-attempt", "user42")
	require.NoError(t, err)
	require.False(t, allow)
	require.Equal(t, 15*time.Minute, retryAfter)

	// Other actions use the default rate and their own keys.
	for i := 0; i < 3; i++ {
		allow, _, err = reg.Allow(ctx, "export", "user42")
		require.NoError(t, err)
		require.True(t, allow)
	}
	allow, _, err = reg.Allow(ctx, "export", "user42")
	require.NoError(t, err)
	require.False(t, allow)

	stats, ok := reg.Stats()
	require.True(t, ok)
	loginStats, ok := stats.GetStats(ActionKey("login-attempt", "user42"))
	require.True(t, ok)
	require.Equal(t, Stats{RequestCount: 1, Remaining: 0, ResetAt: clock.Now().Add(15 * time.Minute)}, loginStats)
	exportStats, ok := stats.GetStats("export:user42")
	require.True(t, ok)
	require.Equal(t, 3, exportStats.RequestCount)

	stats.Reset()
	allow, _, err = reg.Allow(ctx, "login-attempt", "user42")
	require.NoError(t, err)
	require.True(t, allow)
}

func TestRegistryExemptKeys(t *testing.T) {
	reg, err := NewRegistry(&Config{
		Rate:       Rate{Count: 1, Duration: time.Minute},
		ExemptKeys: []string{"*:service-*"},
	}, RegistryOpts{})
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allow, _, allowErr := reg.Allow(ctx, "sync", "service-backfill")
		require.NoError(t, allowErr)
		require.True(t, allow)
	}
	stats, ok := reg.Stats()
	require.True(t, ok)
	_, tracked := stats.GetStats("sync:service-backfill")
	require.False(t, tracked)

	allow, _, err := reg.Allow(ctx, "sync", "user1")
	require.NoError(t, err)
	require.True(t, allow)
	allow, _, err = reg.Allow(ctx, "sync", "user1")
	require.NoError(t, err)
	require.False(t, allow)
}

func TestRegistryOtherAlgorithms(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmSlidingWindow, AlgorithmLeakyBucket, AlgorithmTokenBucket} {
		t.Run(string(alg), func(t *testing.T) {
			reg, err := NewRegistry(&Config{Algorithm: alg, Rate: Rate{Count: 1, Duration: time.Hour}}, RegistryOpts{})
			require.NoError(t, err)

			allow, _, err := reg.Allow(context.Background(), "sync", "vessel-1")
			require.NoError(t, err)
			require.True(t, allow)
			allow, _, err = reg.Allow(context.Background(), "sync", "vessel-1")
			require.NoError(t, err)
			require.False(t, allow)

			_, ok := reg.Stats()
			require.False(t, ok)
		})
	}
}

func TestRegistryInvalidConfig(t *testing.T) {
	_, err := NewRegistry(&Config{Rate: Rate{}}, RegistryOpts{})
	require.Error(t, err)

	_, err = NewRegistry(&Config{
		Rate:    Rate{Count: 1, Duration: time.Second},
		Actions: map[string]Rate{"export": {Count: 0, Duration: time.Second}},
	}, RegistryOpts{})
	require.ErrorContains(t, err, "export")

	_, err = NewRegistry(&Config{Algorithm: "adaptive", Rate: Rate{Count: 1, Duration: time.Second}}, RegistryOpts{})
	require.ErrorContains(t, err, "adaptive")
}

func TestRegistryDeleteExpired(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmFixedWindow, AlgorithmLeakyBucket} {
		t.Run(string(alg), func(t *testing.T) {
			clock := newFakeClock()
			reg, err := NewRegistry(&Config{
				Algorithm: alg,
				MaxKeys:   2,
				Rate:      Rate{Count: 1, Duration: time.Minute},
				Actions: map[string]Rate{
					"login-attempt": {Count: 1, Duration: time.Hour},
				},
			}, RegistryOpts{Clock: clock.Now})
			require.NoError(t, err)
			ctx := context.Background()

			for _, action := range []string{"export", "login-attempt"} {
				allow, _, allowErr := reg.Allow(ctx, action, "user42")
				require.NoError(t, allowErr)
				require.True(t, allow)
			}
			clock.Advance(time.Minute)
			require.Equal(t, 1, reg.DeleteExpired())
			require.Equal(t, 0, reg.DeleteExpired())
		})
	}
}
