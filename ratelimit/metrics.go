/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package ratelimit

import "github.com/prometheus/client_golang/prometheus"

// Decision label values.
const (
	DecisionAllowed  = "allowed"
	DecisionRejected = "rejected"
)

// MetricsCollector collects limiter decisions.
type MetricsCollector interface {
	// IncDecisions increments the number of decisions of the given kind (DecisionAllowed or DecisionRejected).
	IncDecisions(decision string)

	// SetKeysAmount sets the number of keys tracked by the limiter.
	SetKeysAmount(int)

	// IncKeysOverflows increments the number of calls rejected because no more keys could be tracked.
	IncKeysOverflows()
}

// PrometheusMetricsOpts represents options for PrometheusMetrics.
type PrometheusMetricsOpts struct {
	// Namespace is a namespace for metrics. It will be prepended to all metric names.
	Namespace string

	// ConstLabels is a set of labels that will be applied to all metrics.
	ConstLabels prometheus.Labels
}

// PrometheusMetrics represents Prometheus metrics of a limiter.
type PrometheusMetrics struct {
	DecisionsTotal *prometheus.CounterVec
	KeysAmount     prometheus.Gauge
	KeysOverflows  prometheus.Counter
}

var _ MetricsCollector = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics creates a new instance of PrometheusMetrics with default options.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWithOpts(PrometheusMetricsOpts{})
}

// NewPrometheusMetricsWithOpts creates a new instance of PrometheusMetrics with the provided options.
func NewPrometheusMetricsWithOpts(opts PrometheusMetricsOpts) *PrometheusMetrics {
	return &PrometheusMetrics{
		DecisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "ratelimit_decisions_total",
			Help:        "Number of rate limiting decisions.",
			ConstLabels: opts.ConstLabels,
		}, []string{"decision"}),
		KeysAmount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   opts.Namespace,
			Name:        "ratelimit_keys_amount",
			Help:        "Number of keys tracked by the rate limiter.",
			ConstLabels: opts.ConstLabels,
		}),
		KeysOverflows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "ratelimit_keys_overflows_total",
			Help:        "Number of calls rejected because the maximum number of tracked keys was reached.",
			ConstLabels: opts.ConstLabels,
		}),
	}
}

// MustRegister does registration of metrics collector in Prometheus and panics if any error occurs.
func (pm *PrometheusMetrics) MustRegister() {
	prometheus.MustRegister(pm.DecisionsTotal, pm.KeysAmount, pm.KeysOverflows)
}

// Unregister cancels registration of metrics collector in Prometheus.
func (pm *PrometheusMetrics) Unregister() {
	prometheus.Unregister(pm.DecisionsTotal)
	prometheus.Unregister(pm.KeysAmount)
	prometheus.Unregister(pm.KeysOverflows)
}

// IncDecisions implements MetricsCollector.
func (pm *PrometheusMetrics) IncDecisions(decision string) {
	pm.DecisionsTotal.WithLabelValues(decision).Inc()
}

// SetKeysAmount implements MetricsCollector.
func (pm *PrometheusMetrics) SetKeysAmount(n int) {
	pm.KeysAmount.Set(float64(n))
}

// IncKeysOverflows implements MetricsCollector.
func (pm *PrometheusMetrics) IncKeysOverflows() {
	pm.KeysOverflows.Inc()
}

type disabledMetrics struct{}

func (disabledMetrics) IncDecisions(string) {}
func (disabledMetrics) SetKeysAmount(int)   {}
func (disabledMetrics) IncKeysOverflows()   {}
