/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

// Package service runs long-living components (debug server, maintenance workers)
// and stops them on OS signals or context cancellation.
package service

// Unit is a component of a service with its own lifecycle.
type Unit interface {
	// Start runs the unit. It may return at once or block for the unit's lifetime.
	// A failure is reported by writing to fatalErr; the channel must not be used after Start returns.
	Start(fatalErr chan<- error)

	// Stop halts the unit. It may be called even if Start failed or was never called.
	Stop(gracefully bool) error
}

// MetricsRegisterer is implemented by units that own Prometheus collectors.
type MetricsRegisterer interface {
	MustRegisterMetrics()
	UnregisterMetrics()
}
