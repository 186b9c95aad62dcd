/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nautilus-one/synckit/debugserver"
	"github.com/nautilus-one/synckit/integrity"
	"github.com/nautilus-one/synckit/kvstore"
	"github.com/nautilus-one/synckit/log"
	"github.com/nautilus-one/synckit/ratelimit"
	"github.com/nautilus-one/synckit/service"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the debug server and the integrity maintenance worker",
		Long: `Builds the rate limiter and the integrity checker from the configuration and runs
the debug HTTP server (when enabled) together with the periodic maintenance worker
that prunes verified checks and the worker that forgets expired rate limiting keys.
Stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}
}

func runServe(cmd *cobra.Command, flags *globalFlags) error {
	cfg, err := loadAppConfig(flags.configPath)
	if err != nil {
		return err
	}

	logger, closeLog := log.NewLogger(cfg.Log)
	defer closeLog()

	store, storeCloser, err := kvstore.New(cfg.KVStore)
	if err != nil {
		return fmt.Errorf("create %s store: %w", cfg.KVStore.Kind, err)
	}
	defer func() {
		if closeErr := storeCloser.Close(); closeErr != nil {
			logger.Error("failed to close store", log.Error(closeErr))
		}
	}()

	limiterMetrics := ratelimit.NewPrometheusMetrics()
	limiterMetrics.MustRegister()
	defer limiterMetrics.Unregister()

	registry, err := ratelimit.NewRegistry(cfg.RateLimit, ratelimit.RegistryOpts{
		Logger:  logger.With(log.String("component", "ratelimit")),
		Metrics: limiterMetrics,
	})
	if err != nil {
		return fmt.Errorf("create rate limiter: %w", err)
	}

	integrityMetrics := integrity.NewPrometheusMetrics()
	integrityMetrics.MustRegister()
	defer integrityMetrics.Unregister()

	checkerOpts := cfg.Integrity.CheckerOpts()
	checkerOpts.Logger = logger.With(log.String("component", "integrity"))
	checkerOpts.Metrics = integrityMetrics
	checker := integrity.NewChecker(store, checkerOpts)

	var units []service.Unit
	if cfg.DebugServer.Enabled {
		stats, _ := registry.Stats()
		units = append(units, debugserver.New(cfg.DebugServer, logger, debugserver.Opts{
			Limiter: stats,
			Checker: checker,
		}))
	}
	if cfg.Integrity.Cleanup.Interval > 0 {
		maintenance := integrity.NewMaintenanceWorker(checker, logger)
		units = append(units, service.NewWorkerUnit(service.NewPeriodicWorkerWithOpts(
			maintenance, cfg.Integrity.Cleanup.Interval, logger,
			service.PeriodicWorkerOpts{Name: "integrity-maintenance"},
		)))
	}
	if len(units) == 0 {
		return fmt.Errorf("nothing to serve: debug server is disabled and integrity cleanup interval is zero")
	}
	if cfg.RateLimit.CleanupInterval > 0 {
		limiterLogger := logger.With(log.String("component", "ratelimit"))
		cleanup := service.WorkerFunc(func(context.Context) error {
			if n := registry.DeleteExpired(); n > 0 {
				limiterLogger.Debug("expired rate limiting keys are deleted", log.Int("keys", n))
			}
			return nil
		})
		units = append(units, service.NewWorkerUnit(service.NewPeriodicWorkerWithOpts(
			cleanup, cfg.RateLimit.CleanupInterval, logger,
			service.PeriodicWorkerOpts{Name: "ratelimit-cleanup"},
		)))
	}

	logger.Info("synckit is starting",
		log.String("store", string(cfg.KVStore.Kind)),
		log.String("ratelimit_algorithm", string(cfg.RateLimit.Algorithm)))
	return service.New(logger, service.NewCompositeUnit(units...)).Run(cmd.Context())
}
