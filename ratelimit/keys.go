/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package ratelimit

import (
	"time"

	"github.com/nautilus-one/synckit/lrucache"
)

// newKeyedState creates a cache for per-key limiter state. maxKeys == 0 means unbounded.
//
// Each entry lives as long as its state still restricts the key. Live entries are never evicted:
// when maxKeys live keys are tracked, adding one more fails with lrucache.ErrFull, so a blocked
// key can't get a fresh quota by pushing itself out with other keys.
func newKeyedState[V any](maxKeys int, clock func() time.Time, metrics MetricsCollector) (*lrucache.LRUCache[string, V], error) {
	if metrics == nil {
		metrics = disabledMetrics{}
	}
	return lrucache.New[string, V](maxKeys, lrucache.Options{
		KeepUnexpired: true,
		Clock:         clock,
		Metrics:       keysMetrics{metrics},
	})
}

// keysMetrics exposes the size and the overflows of the keys cache through MetricsCollector.
type keysMetrics struct {
	collector MetricsCollector
}

func (m keysMetrics) SetAmount(n int) { m.collector.SetKeysAmount(n) }
func (m keysMetrics) IncOverflows()   { m.collector.IncKeysOverflows() }
func (keysMetrics) IncHits()          {}
func (keysMetrics) IncMisses()        {}
func (keysMetrics) AddEvictions(int)  {}
