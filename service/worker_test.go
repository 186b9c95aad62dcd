/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/nautilus-one/synckit/log"
	"github.com/nautilus-one/synckit/log/logtest"
)

func TestPeriodicWorker(t *testing.T) {
	t.Run("runs until context is done", func(t *testing.T) {
		var runs atomic.Int32
		ctx, cancel := context.WithCancel(context.Background())
		worker := WorkerFunc(func(context.Context) error {
			if runs.Add(1) == 3 {
				cancel()
			}
			return nil
		})
		logs := logtest.NewRecorder()
		require.NoError(t, NewPeriodicWorker(worker, time.Millisecond, logs).Run(ctx))
		require.Equal(t, int32(3), runs.Load())
		_, found := logs.FindEntry("periodic worker stopped")
		require.True(t, found)
	})

	t.Run("errors are logged and don't stop the loop", func(t *testing.T) {
		var runs atomic.Int32
		worker := WorkerFunc(func(context.Context) error {
			if runs.Add(1) < 3 {
				return errors.New("store is unavailable")
			}
			return ErrPeriodicWorkerStop
		})
		logs := logtest.NewRecorder()
		pw := NewPeriodicWorkerWithOpts(worker, time.Millisecond, logs, PeriodicWorkerOpts{Name: "integrity-maintenance"})
		require.NoError(t, pw.Run(context.Background()))
		require.Equal(t, int32(3), runs.Load())
		require.Equal(t, 2, logs.CountAtLevel(log.LevelError))

		entry, found := logs.FindEntry("periodic worker job failed")
		require.True(t, found)
		field, found := entry.FindField("worker")
		require.True(t, found)
		require.Equal(t, "integrity-maintenance", string(field.Bytes))
	})

	t.Run("panic is logged and re-raised", func(t *testing.T) {
		logs := logtest.NewRecorder()
		pw := NewPeriodicWorker(WorkerFunc(func(context.Context) error { panic("boom") }), time.Millisecond, logs)
		require.PanicsWithValue(t, "boom", func() { _ = pw.Run(context.Background()) })
		require.Equal(t, 1, logs.CountAtLevel(log.LevelError))
	})
}

func TestWorkerUnit(t *testing.T) {
	t.Run("graceful stop waits for worker", func(t *testing.T) {
		var finished atomic.Bool
		unit := NewWorkerUnit(WorkerFunc(func(ctx context.Context) error {
			<-ctx.Done()
			time.Sleep(10 * time.Millisecond)
			finished.Store(true)
			return nil
		}))
		fatalErr := make(chan error, 1)
		go unit.Start(fatalErr)
		time.Sleep(10 * time.Millisecond)

		require.NoError(t, unit.Stop(true))
		require.True(t, finished.Load())
		require.Empty(t, fatalErr)
	})

	t.Run("stop timeout", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		unit := NewWorkerUnitWithOpts(WorkerFunc(func(context.Context) error {
			<-release
			return nil
		}), WorkerUnitOpts{GracefulStopTimeout: 10 * time.Millisecond})
		go unit.Start(make(chan error, 1))
		time.Sleep(10 * time.Millisecond)

		require.ErrorIs(t, unit.Stop(true), ErrWorkerUnitStopTimeoutExceeded)
	})

	t.Run("worker error is fatal", func(t *testing.T) {
		workerErr := errors.New("cannot open store")
		unit := NewWorkerUnit(WorkerFunc(func(context.Context) error { return workerErr }))
		fatalErr := make(chan error, 1)
		unit.Start(fatalErr)
		require.ErrorIs(t, <-fatalErr, workerErr)
		require.NoError(t, unit.Stop(true))
	})

	t.Run("stop without start", func(t *testing.T) {
		require.NoError(t, NewWorkerUnit(WorkerFunc(func(context.Context) error { return nil })).Stop(true))
	})

	t.Run("metrics registerer", func(t *testing.T) {
		mr := &mockMetricsRegisterer{}
		unit := NewWorkerUnitWithOpts(WorkerFunc(func(context.Context) error { return nil }),
			WorkerUnitOpts{MetricsRegisterer: mr})
		unit.MustRegisterMetrics()
		unit.UnregisterMetrics()
		require.Equal(t, 1, mr.registered)
		require.Equal(t, 1, mr.unregistered)
	})
}
