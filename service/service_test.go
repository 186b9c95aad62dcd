/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package service

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nautilus-one/synckit/log"
)

type mockUnit struct {
	startErr  error
	stopErr   error
	stopped   chan bool
	blockStop chan struct{}
}

func newMockUnit() *mockUnit {
	return &mockUnit{stopped: make(chan bool, 1), blockStop: make(chan struct{})}
}

func (u *mockUnit) Start(fatalErr chan<- error) {
	if u.startErr != nil {
		fatalErr <- u.startErr
		return
	}
	<-u.blockStop
}

func (u *mockUnit) Stop(gracefully bool) error {
	u.stopped <- gracefully
	close(u.blockStop)
	return u.stopErr
}

type mockMetricsRegisterer struct {
	registered   int
	unregistered int
}

func (m *mockMetricsRegisterer) MustRegisterMetrics() { m.registered++ }
func (m *mockMetricsRegisterer) UnregisterMetrics()   { m.unregistered++ }

type mockUnitWithMetrics struct {
	*mockUnit
	*mockMetricsRegisterer
}

func TestServiceRun(t *testing.T) {
	t.Run("context cancellation", func(t *testing.T) {
		unit := mockUnitWithMetrics{newMockUnit(), &mockMetricsRegisterer{}}
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		require.NoError(t, New(log.NewDisabledLogger(), unit).Run(ctx))
		require.True(t, <-unit.stopped)
		require.Equal(t, 1, unit.registered)
		require.Equal(t, 1, unit.unregistered)
	})

	t.Run("shutdown signal", func(t *testing.T) {
		unit := newMockUnit()
		svc := NewWithOpts(log.NewDisabledLogger(), unit, Opts{ShutdownSignals: []os.Signal{syscall.SIGUSR1}})
		svc.signals <- syscall.SIGUSR1
		require.NoError(t, svc.Run(context.Background()))
		require.True(t, <-unit.stopped)
	})

	t.Run("fatal error", func(t *testing.T) {
		unit := newMockUnit()
		unit.startErr = errors.New("listen tcp: address already in use")
		err := New(log.NewDisabledLogger(), unit).Run(context.Background())
		require.ErrorIs(t, err, unit.startErr)
	})

	t.Run("stop error", func(t *testing.T) {
		unit := newMockUnit()
		unit.stopErr = errors.New("flush failed")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.ErrorIs(t, New(log.NewDisabledLogger(), unit).Run(ctx), unit.stopErr)
	})
}
