/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package integrity

import "github.com/prometheus/client_golang/prometheus"

// Verification result label values.
const (
	VerificationVerified = "verified"
	VerificationMismatch = "mismatch"
	VerificationSkipped  = "skipped"
	VerificationNotFound = "not_found"
)

// MetricsCollector collects integrity checker metrics.
type MetricsCollector interface {
	IncVerifications(result string)
	SetChecksAmount(status Status, n int)
	IncPersistenceErrors()
}

// PrometheusMetricsOpts represents options for PrometheusMetrics.
type PrometheusMetricsOpts struct {
	// Namespace is a namespace for metrics. It will be prepended to all metric names.
	Namespace string

	// ConstLabels is a set of labels that will be applied to all metrics.
	ConstLabels prometheus.Labels
}

// PrometheusMetrics represents Prometheus metrics of the integrity checker.
type PrometheusMetrics struct {
	VerificationsTotal     *prometheus.CounterVec
	ChecksAmount           *prometheus.GaugeVec
	PersistenceErrorsTotal prometheus.Counter
}

var _ MetricsCollector = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics creates a new instance of PrometheusMetrics with default options.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWithOpts(PrometheusMetricsOpts{})
}

// NewPrometheusMetricsWithOpts creates a new instance of PrometheusMetrics with the provided options.
func NewPrometheusMetricsWithOpts(opts PrometheusMetricsOpts) *PrometheusMetrics {
	return &PrometheusMetrics{
		VerificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "integrity_verifications_total",
			Help:        "Number of checksum verifications by result.",
			ConstLabels: opts.ConstLabels,
		}, []string{"result"}),
		ChecksAmount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   opts.Namespace,
			Name:        "integrity_checks_amount",
			Help:        "Number of tracked integrity checks by status.",
			ConstLabels: opts.ConstLabels,
		}, []string{"status"}),
		PersistenceErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "integrity_persistence_errors_total",
			Help:        "Number of failed writes of integrity checks to the store.",
			ConstLabels: opts.ConstLabels,
		}),
	}
}

// MustRegister does registration of metrics collector in Prometheus and panics if any error occurs.
func (pm *PrometheusMetrics) MustRegister() {
	prometheus.MustRegister(pm.VerificationsTotal, pm.ChecksAmount, pm.PersistenceErrorsTotal)
}

// Unregister cancels registration of metrics collector in Prometheus.
func (pm *PrometheusMetrics) Unregister() {
	prometheus.Unregister(pm.VerificationsTotal)
	prometheus.Unregister(pm.ChecksAmount)
	prometheus.Unregister(pm.PersistenceErrorsTotal)
}

// IncVerifications implements MetricsCollector.
func (pm *PrometheusMetrics) IncVerifications(result string) {
	pm.VerificationsTotal.WithLabelValues(result).Inc()
}

// SetChecksAmount implements MetricsCollector.
func (pm *PrometheusMetrics) SetChecksAmount(status Status, n int) {
	pm.ChecksAmount.WithLabelValues(string(status)).Set(float64(n))
}

// IncPersistenceErrors implements MetricsCollector.
func (pm *PrometheusMetrics) IncPersistenceErrors() {
	pm.PersistenceErrorsTotal.Inc()
}

type disabledMetrics struct{}

func (disabledMetrics) IncVerifications(string)     {}
func (disabledMetrics) SetChecksAmount(Status, int) {}
func (disabledMetrics) IncPersistenceErrors()       {}
