/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/nautilus-one/synckit/log"
)

// ErrPeriodicWorkerStop may be returned by a Worker to end the PeriodicWorker loop.
var ErrPeriodicWorkerStop = errors.New("stop periodic worker")

// Worker does a piece of work.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc is an adapter to allow the use of ordinary functions as Worker.
type WorkerFunc func(ctx context.Context) error

// Run implements Worker.
func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// PeriodicWorker runs a Worker at a fixed interval until the context is done.
// Worker errors are logged and don't break the loop (except ErrPeriodicWorkerStop).
type PeriodicWorker struct {
	worker       Worker
	interval     time.Duration
	initialDelay time.Duration
	logger       log.FieldLogger
}

// PeriodicWorkerOpts contains optional parameters for constructing PeriodicWorker.
type PeriodicWorkerOpts struct {
	// Name is added to all log entries of the worker.
	Name string

	// InitialDelay is the delay before the first run.
	InitialDelay time.Duration
}

// NewPeriodicWorker creates a new PeriodicWorker.
func NewPeriodicWorker(worker Worker, interval time.Duration, logger log.FieldLogger) *PeriodicWorker {
	return NewPeriodicWorkerWithOpts(worker, interval, logger, PeriodicWorkerOpts{})
}

// NewPeriodicWorkerWithOpts creates a new PeriodicWorker with optional parameters.
func NewPeriodicWorkerWithOpts(
	worker Worker, interval time.Duration, logger log.FieldLogger, opts PeriodicWorkerOpts,
) *PeriodicWorker {
	if opts.Name != "" {
		logger = logger.With(log.String("worker", opts.Name))
	}
	return &PeriodicWorker{
		worker:       worker,
		interval:     interval,
		initialDelay: opts.InitialDelay,
		logger:       logger,
	}
}

// Run runs the loop. It returns nil when ctx is done.
func (pw *PeriodicWorker) Run(ctx context.Context) error {
	defer func() {
		if p := recover(); p != nil {
			stack := make([]byte, 8192)
			stack = stack[:runtime.Stack(stack, false)]
			pw.logger.Error(fmt.Sprintf("periodic worker panicked: %v", p), log.String("stack", string(stack)))
			panic(p)
		}
	}()

	pw.logger.Info("periodic worker started",
		log.Duration("initial_delay", pw.initialDelay), log.Duration("interval", pw.interval))

	timer := time.NewTimer(pw.initialDelay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			pw.logger.Info("periodic worker stopped")
			return nil
		case <-timer.C:
		}

		startedAt := time.Now()
		if runErr := pw.worker.Run(ctx); runErr != nil {
			if errors.Is(runErr, ErrPeriodicWorkerStop) {
				pw.logger.Info("periodic worker stopped by its job")
				return nil
			}
			pw.logger.Error("periodic worker job failed", log.Error(runErr))
		} else {
			pw.logger.Debug("periodic worker job finished", log.DurationIn(time.Since(startedAt), time.Millisecond))
		}
		timer.Reset(pw.interval)
	}
}
