/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package lrucache

import (
	"container/list"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrFull is returned when a new key cannot be added because all entries are unexpired
// and Options.KeepUnexpired forbids evicting them.
var ErrFull = errors.New("cache is full of unexpired entries")

type cacheEntry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time // zero means the entry never expires
}

func (e *cacheEntry[K, V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Options represents options for the cache.
type Options struct {
	// KeepUnexpired makes the cache evict only expired entries when it's full.
	// If there are none, Add and GetOrAdd fail with ErrFull.
	KeepUnexpired bool

	// Clock returns the current time used for expiration. time.Now is used if nil.
	Clock func() time.Time

	// Metrics collects cache statistics. Metrics are disabled if nil.
	Metrics MetricsCollector
}

// LRUCache is a thread-safe LRU cache with per-entry expiration.
// Expired entries are removed when accessed, when room is needed for a new key or by DeleteExpired.
type LRUCache[K comparable, V any] struct {
	maxEntries    int
	keepUnexpired bool
	now           func() time.Time
	metrics       MetricsCollector

	mu      sync.Mutex
	lruList *list.List
	entries map[K]*list.Element
}

// New creates a new LRUCache. maxEntries == 0 means the number of entries is not bounded.
func New[K comparable, V any](maxEntries int, opts Options) (*LRUCache[K, V], error) {
	if maxEntries < 0 {
		return nil, fmt.Errorf("max entries should not be negative, got %d", maxEntries)
	}
	c := &LRUCache[K, V]{
		maxEntries:    maxEntries,
		keepUnexpired: opts.KeepUnexpired,
		now:           opts.Clock,
		metrics:       opts.Metrics,
		lruList:       list.New(),
		entries:       make(map[K]*list.Element),
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.metrics == nil {
		c.metrics = disabledMetrics{}
	}
	return c, nil
}

// Get returns an unexpired value by key and marks it as recently used.
func (c *LRUCache[K, V]) Get(key K) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(key, c.now())
}

// Peek returns a value by key without updating its recency. Expired entries that are
// not removed yet are returned too, so callers can inspect the last state of a key.
func (c *LRUCache[K, V]) Peek(key K) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[key]
	if !ok {
		return value, false
	}
	return elem.Value.(*cacheEntry[K, V]).value, true
}

// Add sets the value of key, which expires after ttl (zero ttl means never).
// An existing key is overwritten and its expiration is updated.
func (c *LRUCache[K, V]) Add(key K, value V, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expiresAt := expirationTime(now, ttl)
	if elem, ok := c.entries[key]; ok {
		c.lruList.MoveToFront(elem)
		elem.Value = &cacheEntry[K, V]{key: key, value: value, expiresAt: expiresAt}
		return nil
	}
	return c.addNew(key, value, expiresAt, now)
}

// GetOrAdd returns the unexpired value of key, or adds the one built by valueProvider with the given ttl.
// Reading an existing value doesn't change its expiration.
func (c *LRUCache[K, V]) GetOrAdd(key K, valueProvider func() V, ttl time.Duration) (value V, exists bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if value, exists = c.get(key, now); exists {
		return value, true, nil
	}
	value = valueProvider()
	if err = c.addNew(key, value, expirationTime(now, ttl), now); err != nil {
		var zero V
		return zero, false, err
	}
	return value, false, nil
}

// Remove removes key from the cache.
func (c *LRUCache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return false
	}
	c.removeElement(elem)
	c.metrics.SetAmount(len(c.entries))
	return true
}

// Purge removes all entries. Removed entries are not counted as evictions.
func (c *LRUCache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*list.Element)
	c.lruList.Init()
	c.metrics.SetAmount(0)
}

// DeleteExpired removes all expired entries and returns their number.
func (c *LRUCache[K, V]) DeleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	deleted := c.deleteExpired(c.now())
	c.metrics.SetAmount(len(c.entries))
	return deleted
}

// Len returns the number of entries including expired ones that are not removed yet.
func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRUCache[K, V]) get(key K, now time.Time) (value V, ok bool) {
	elem, hit := c.entries[key]
	if !hit {
		c.metrics.IncMisses()
		return value, false
	}
	entry := elem.Value.(*cacheEntry[K, V])
	if entry.expired(now) {
		c.removeElement(elem)
		c.metrics.SetAmount(len(c.entries))
		c.metrics.IncMisses()
		return value, false
	}
	c.lruList.MoveToFront(elem)
	c.metrics.IncHits()
	return entry.value, true
}

func (c *LRUCache[K, V]) addNew(key K, value V, expiresAt, now time.Time) error {
	if err := c.makeRoom(now); err != nil {
		return err
	}
	c.entries[key] = c.lruList.PushFront(&cacheEntry[K, V]{key: key, value: value, expiresAt: expiresAt})
	c.metrics.SetAmount(len(c.entries))
	return nil
}

// makeRoom frees space for one more entry, preferring expired entries over live ones.
func (c *LRUCache[K, V]) makeRoom(now time.Time) error {
	if c.maxEntries == 0 || len(c.entries) < c.maxEntries {
		return nil
	}
	if oldest := c.lruList.Back(); oldest.Value.(*cacheEntry[K, V]).expired(now) {
		c.removeElement(oldest)
		return nil
	}
	if c.deleteExpired(now) > 0 {
		return nil
	}
	if c.keepUnexpired {
		c.metrics.IncOverflows()
		return ErrFull
	}
	c.removeElement(c.lruList.Back())
	c.metrics.AddEvictions(1)
	return nil
}

func (c *LRUCache[K, V]) deleteExpired(now time.Time) int {
	deleted := 0
	for elem := c.lruList.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*cacheEntry[K, V]).expired(now) {
			c.removeElement(elem)
			deleted++
		}
		elem = prev
	}
	return deleted
}

func (c *LRUCache[K, V]) removeElement(elem *list.Element) {
	c.lruList.Remove(elem)
	delete(c.entries, elem.Value.(*cacheEntry[K, V]).key)
}

func expirationTime(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
