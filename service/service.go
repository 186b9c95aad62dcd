/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nautilus-one/synckit/log"
)

// DefaultShutdownSignals stop the service gracefully.
var DefaultShutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// Service starts a unit and keeps it running until a shutdown signal, context cancellation or a fatal error.
type Service struct {
	unit            Unit
	logger          log.FieldLogger
	shutdownSignals []os.Signal
	signals         chan os.Signal
}

// Opts contains optional parameters for constructing Service.
type Opts struct {
	// ShutdownSignals stop the service gracefully. DefaultShutdownSignals are used if nil.
	ShutdownSignals []os.Signal
}

// New creates a new Service.
func New(logger log.FieldLogger, unit Unit) *Service {
	return NewWithOpts(logger, unit, Opts{})
}

// NewWithOpts creates a new Service with optional parameters.
func NewWithOpts(logger log.FieldLogger, unit Unit, opts Opts) *Service {
	if opts.ShutdownSignals == nil {
		opts.ShutdownSignals = DefaultShutdownSignals
	}
	return &Service{unit: unit, logger: logger, shutdownSignals: opts.ShutdownSignals, signals: make(chan os.Signal, 1)}
}

// Run starts the unit in a separate goroutine and blocks until it must be stopped.
// Unit metrics are registered for the lifetime of the call.
func (s *Service) Run(ctx context.Context) error {
	if mr, ok := s.unit.(MetricsRegisterer); ok {
		mr.MustRegisterMetrics()
		defer mr.UnregisterMetrics()
	}

	signal.Notify(s.signals, s.shutdownSignals...)
	defer signal.Stop(s.signals)

	fatalErr := make(chan error, 1)
	go s.unit.Start(fatalErr)

	select {
	case err := <-fatalErr:
		s.logger.Error("service unit failed", log.Error(err))
		return fmt.Errorf("unit failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("context is done, stopping service")
	case sig := <-s.signals:
		s.logger.Info("got shutdown signal, stopping service", log.String("signal", sig.String()))
	}

	if err := s.unit.Stop(true); err != nil {
		return fmt.Errorf("stop unit gracefully: %w", err)
	}
	s.logger.Info("service stopped")
	return nil
}
