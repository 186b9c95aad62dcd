/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nautilus-one/synckit/log"
	"github.com/nautilus-one/synckit/log/logtest"
)

var errTransient = errors.New("transient")

func TestDoWithRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		attempts := 0
		err := DoWithRetry(context.Background(), ConstantBackoffPolicy{Interval: time.Millisecond, MaxRetries: 5}, nil, nil,
			func(context.Context) error {
				attempts++
				if attempts < 3 {
					return errTransient
				}
				return nil
			})
		require.NoError(t, err)
		require.Equal(t, 3, attempts)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		attempts := 0
		err := DoWithRetry(context.Background(), ExponentialBackoffPolicy{InitialInterval: time.Millisecond, MaxRetries: 2}, nil, nil,
			func(context.Context) error {
				attempts++
				return errTransient
			})
		require.ErrorIs(t, err, errTransient)
		require.Equal(t, 3, attempts)
	})

	t.Run("permanent error stops retries", func(t *testing.T) {
		errPermanent := errors.New("permanent")
		attempts := 0
		err := DoWithRetry(context.Background(), ConstantBackoffPolicy{Interval: time.Millisecond, MaxRetries: 5},
			func(err error) bool { return errors.Is(err, errTransient) }, nil,
			func(context.Context) error {
				attempts++
				return errPermanent
			})
		require.Same(t, errPermanent, err)
		require.Equal(t, 1, attempts)
	})

	t.Run("no retry policy", func(t *testing.T) {
		attempts := 0
		err := DoWithRetry(context.Background(), NoRetryPolicy, nil, nil, func(context.Context) error {
			attempts++
			return errTransient
		})
		require.ErrorIs(t, err, errTransient)
		require.Equal(t, 1, attempts)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := DoWithRetry(ctx, ConstantBackoffPolicy{Interval: time.Hour, MaxRetries: 5}, nil, nil,
			func(context.Context) error { return errTransient })
		require.Error(t, err)
	})
}

func TestLogNotify(t *testing.T) {
	logger := logtest.NewRecorder()
	err := DoWithRetry(context.Background(), ConstantBackoffPolicy{Interval: time.Millisecond, MaxRetries: 2}, nil,
		LogNotify(logger, "write failed, retrying"),
		func(context.Context) error { return errTransient })
	require.ErrorIs(t, err, errTransient)
	require.Equal(t, 2, logger.CountAtLevel(log.LevelWarn))
	entry, found := logger.FindEntry("write failed, retrying")
	require.True(t, found)
	_, found = entry.FindField("retry_in")
	require.True(t, found)
}
