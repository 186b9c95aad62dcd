/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package integrity

import (
	"context"

	"github.com/nautilus-one/synckit/log"
)

// MaintenanceWorker prunes verified checks and reports permanently failed ones.
// It is meant to be run periodically by service.PeriodicWorker.
type MaintenanceWorker struct {
	checker *Checker
	logger  log.FieldLogger
}

// NewMaintenanceWorker creates a new MaintenanceWorker.
func NewMaintenanceWorker(checker *Checker, logger log.FieldLogger) *MaintenanceWorker {
	if logger == nil {
		logger = log.NewDisabledLogger()
	}
	return &MaintenanceWorker{checker: checker, logger: logger}
}

// Run implements service.Worker.
func (w *MaintenanceWorker) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}
	cleared := w.checker.ClearVerified()
	failed := len(w.checker.FailedChecks())
	stats := w.checker.Stats()
	w.logger.Info("integrity maintenance finished",
		log.Int("cleared", cleared), log.Int("pending", stats.Pending), log.Int("permanently_failed", failed))
	if failed > 0 {
		w.logger.Warn("there are permanently failed integrity checks", log.Int("count", failed))
	}
	return nil
}
