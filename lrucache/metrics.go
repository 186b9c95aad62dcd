/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package lrucache

// MetricsCollector represents a collector of metrics to analyze how (effectively or not) cache is used.
type MetricsCollector interface {
	// SetAmount sets the total number of entries in the cache.
	SetAmount(int)

	// IncHits increments the total number of successfully found keys in the cache.
	IncHits()

	// IncMisses increments the total number of not found (or expired) keys in the cache.
	IncMisses()

	// AddEvictions increments the total number of unexpired entries evicted to make room for new ones.
	AddEvictions(int)

	// IncOverflows increments the total number of keys refused because the cache was full of unexpired entries.
	IncOverflows()
}

type disabledMetrics struct{}

func (disabledMetrics) SetAmount(int)    {}
func (disabledMetrics) IncHits()         {}
func (disabledMetrics) IncMisses()       {}
func (disabledMetrics) AddEvictions(int) {}
func (disabledMetrics) IncOverflows()    {}
