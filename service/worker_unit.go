/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/atomic"
)

// ErrWorkerUnitStopTimeoutExceeded is returned by WorkerUnit.Stop when the worker doesn't finish in time.
var ErrWorkerUnitStopTimeoutExceeded = errors.New("worker unit stop timeout exceeded")

// WorkerUnit presents a Worker as a Unit. Start blocks until the worker returns.
type WorkerUnit struct {
	worker            Worker
	ctx               context.Context
	cancel            context.CancelFunc
	done              chan struct{}
	started           atomic.Bool
	stopTimeout       time.Duration
	metricsRegisterer MetricsRegisterer
}

var (
	_ Unit              = (*WorkerUnit)(nil)
	_ MetricsRegisterer = (*WorkerUnit)(nil)
)

// WorkerUnitOpts contains optional parameters for constructing WorkerUnit.
type WorkerUnitOpts struct {
	MetricsRegisterer MetricsRegisterer

	// GracefulStopTimeout bounds waiting for the worker in Stop(true). Zero means no limit.
	GracefulStopTimeout time.Duration
}

// NewWorkerUnit creates a new WorkerUnit.
func NewWorkerUnit(worker Worker) *WorkerUnit {
	return NewWorkerUnitWithOpts(worker, WorkerUnitOpts{})
}

// NewWorkerUnitWithOpts creates a new WorkerUnit with optional parameters.
func NewWorkerUnitWithOpts(worker Worker, opts WorkerUnitOpts) *WorkerUnit {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerUnit{
		worker:            worker,
		ctx:               ctx,
		cancel:            cancel,
		done:              make(chan struct{}),
		stopTimeout:       opts.GracefulStopTimeout,
		metricsRegisterer: opts.MetricsRegisterer,
	}
}

// Start runs the worker.
func (u *WorkerUnit) Start(fatalErr chan<- error) {
	u.started.Store(true)
	defer close(u.done)
	if err := u.worker.Run(u.ctx); err != nil {
		fatalErr <- err
	}
}

// Stop cancels the worker's context. With gracefully set it also waits for the worker to return.
func (u *WorkerUnit) Stop(gracefully bool) error {
	u.cancel()
	if !gracefully || !u.started.Load() {
		return nil
	}
	if u.stopTimeout == 0 {
		<-u.done
		return nil
	}
	select {
	case <-u.done:
		return nil
	case <-time.After(u.stopTimeout):
		return ErrWorkerUnitStopTimeoutExceeded
	}
}

// MustRegisterMetrics implements MetricsRegisterer.
func (u *WorkerUnit) MustRegisterMetrics() {
	if u.metricsRegisterer != nil {
		u.metricsRegisterer.MustRegisterMetrics()
	}
}

// UnregisterMetrics implements MetricsRegisterer.
func (u *WorkerUnit) UnregisterMetrics() {
	if u.metricsRegisterer != nil {
		u.metricsRegisterer.UnregisterMetrics()
	}
}
