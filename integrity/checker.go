/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

// Package integrity fingerprints synced payloads and tracks whether they were verified.
//
// A Check is created with the checksum of a payload before it is sent to a table and verified later
// against the payload read back. Mismatches are retried up to a configured number of times,
// after which the check is reported as permanently failed.
// All checks are persisted in a kvstore.Store under a single key and reloaded by NewChecker.
package integrity

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/nautilus-one/synckit/kvstore"
	"github.com/nautilus-one/synckit/log"
	"github.com/nautilus-one/synckit/retry"
	"github.com/nautilus-one/synckit/syncdata"
)

// Default values.
const (
	DefaultAlgorithm  = AlgorithmSimple
	DefaultMaxRetries = 3
	DefaultStorageKey = "nautilus_integrity_checks"
)

// CheckerOpts contains optional parameters for constructing Checker.
type CheckerOpts struct {
	// Algorithm is used for computing checksums. DefaultAlgorithm is used if empty.
	Algorithm Algorithm

	// EnableChecksums turns checksum computation on. Nil means true.
	// With checksums disabled every verification succeeds.
	EnableChecksums *bool

	// MaxRetries is the number of failed verifications after which a check is permanently failed.
	// DefaultMaxRetries is used if zero.
	MaxRetries int

	// StorageKey is the key under which checks are persisted. DefaultStorageKey is used if empty.
	StorageKey string

	// Clock returns the current time. time.Now is used if nil.
	Clock func() time.Time

	// IDGenerator returns identifiers of new checks. xid (time-ordered, random) is used if nil.
	IDGenerator func() string

	Logger  log.FieldLogger
	Metrics MetricsCollector

	// WritePolicy is used for persisting checks. retry.NoRetryPolicy is used if nil.
	WritePolicy retry.Policy
}

// Checker creates and verifies integrity checks. It is safe for concurrent use.
//
// Storage failures never propagate to callers: they are logged and the in-memory state
// stays authoritative until the next successful write.
// Writes happen outside of the state lock, so reads are not blocked while a write is retried.
type Checker struct {
	mu          sync.Mutex
	checks      map[string]*Check
	version     uint64
	writeMu     sync.Mutex
	written     uint64
	store       kvstore.Store
	algorithm   Algorithm
	checksums   bool
	maxRetries  int
	storageKey  string
	now         func() time.Time
	newID       func() string
	logger      log.FieldLogger
	metrics     MetricsCollector
	writePolicy retry.Policy
}

// NewChecker creates a new Checker and loads checks persisted in store.
// Absent or corrupt data is treated as an empty set of checks.
func NewChecker(store kvstore.Store, opts CheckerOpts) *Checker {
	c := &Checker{
		checks:      make(map[string]*Check),
		store:       store,
		algorithm:   opts.Algorithm,
		checksums:   opts.EnableChecksums == nil || *opts.EnableChecksums,
		maxRetries:  opts.MaxRetries,
		storageKey:  opts.StorageKey,
		now:         opts.Clock,
		newID:       opts.IDGenerator,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		writePolicy: opts.WritePolicy,
	}
	if c.algorithm == "" {
		c.algorithm = DefaultAlgorithm
	}
	if c.maxRetries <= 0 {
		c.maxRetries = DefaultMaxRetries
	}
	if c.storageKey == "" {
		c.storageKey = DefaultStorageKey
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = func() string { return xid.New().String() }
	}
	if c.logger == nil {
		c.logger = log.NewDisabledLogger()
	}
	if c.metrics == nil {
		c.metrics = disabledMetrics{}
	}
	if c.writePolicy == nil {
		c.writePolicy = retry.NoRetryPolicy
	}
	c.logger = c.logger.With(log.String("storage_key", c.storageKey))

	c.load(context.Background())
	c.updateGauges()
	return c
}

// GenerateChecksum returns the checksum of data with the configured algorithm.
func (c *Checker) GenerateChecksum(data interface{}) (string, error) {
	v, err := syncdata.FromAny(data)
	if err != nil {
		return "", err
	}
	return GenerateChecksum(v, c.algorithm), nil
}

// CreateCheck creates a pending check of data synced to table by operation and persists it.
// An error is returned only if data cannot be represented as syncdata.Value.
func (c *Checker) CreateCheck(table, operation string, data interface{}) (Check, error) {
	var checksum string
	if c.checksums {
		var err error
		if checksum, err = c.GenerateChecksum(data); err != nil {
			return Check{}, fmt.Errorf("generate checksum for %s/%s: %w", table, operation, err)
		}
	}

	var created Check
	c.update(func() bool {
		check := &Check{
			ID:        c.newID(),
			Table:     table,
			Operation: operation,
			Checksum:  checksum,
			Timestamp: time.UnixMilli(c.now().UnixMilli()).UTC(),
			Status:    StatusPending,
		}
		c.checks[check.ID] = check
		created = *check
		return true
	})
	return created, nil
}

// VerifyChecksum compares the checksum of data with the one stored in the check.
//
// On match (or when checksums are disabled, or the check has no checksum) the check becomes verified
// and true is returned. On mismatch the check becomes failed, its retries counter is incremented
// up to MaxRetries and false is returned. Unknown ids return false.
func (c *Checker) VerifyChecksum(id string, data interface{}) bool {
	var matched bool
	c.update(func() bool {
		check, ok := c.checks[id]
		if !ok {
			c.logger.Warn("integrity check not found", log.String("check_id", id))
			c.metrics.IncVerifications(VerificationNotFound)
			return false
		}

		var result string
		matched, result = c.matchChecksum(check, data)
		if matched {
			check.Status = StatusVerified
		} else {
			check.Status = StatusFailed
			if check.Retries < c.maxRetries {
				check.Retries++
			}
			c.logger.Warn("integrity check failed",
				log.String("check_id", id), log.String("table", check.Table),
				log.String("operation", check.Operation), log.Int("retries", check.Retries))
		}
		c.metrics.IncVerifications(result)
		return true
	})
	return matched
}

func (c *Checker) matchChecksum(check *Check, data interface{}) (matched bool, result string) {
	if !c.checksums || check.Checksum == "" {
		return true, VerificationSkipped
	}
	v, err := syncdata.FromAny(data)
	if err != nil {
		c.logger.Warn("payload cannot be checksummed", log.String("check_id", check.ID), log.Error(err))
		return false, VerificationMismatch
	}
	if GenerateChecksum(v, c.algorithm) != check.Checksum {
		return false, VerificationMismatch
	}
	return true, VerificationVerified
}

// MarkVerified sets the check verified without comparing checksums. Unknown ids are ignored.
func (c *Checker) MarkVerified(id string) {
	c.update(func() bool {
		check, ok := c.checks[id]
		if !ok {
			c.logger.Warn("integrity check not found", log.String("check_id", id))
			return false
		}
		check.Status = StatusVerified
		return true
	})
}

// Get returns the check with the given id.
func (c *Checker) Get(id string) (Check, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	check, ok := c.checks[id]
	if !ok {
		return Check{}, false
	}
	return *check, true
}

// PendingChecks returns pending checks and failed checks that may still be retried,
// ordered by creation time.
func (c *Checker) PendingChecks() []Check {
	return c.filter(func(check *Check) bool {
		return check.Status == StatusPending || (check.Status == StatusFailed && check.Retries < c.maxRetries)
	})
}

// FailedChecks returns permanently failed checks (retries reached MaxRetries), ordered by creation time.
func (c *Checker) FailedChecks() []Check {
	return c.filter(func(check *Check) bool {
		return check.Status == StatusFailed && check.Retries >= c.maxRetries
	})
}

// ClearVerified removes all verified checks and returns their number.
func (c *Checker) ClearVerified() int {
	removed := 0
	c.update(func() bool {
		for id, check := range c.checks {
			if check.Status == StatusVerified {
				delete(c.checks, id)
				removed++
			}
		}
		return removed > 0
	})
	return removed
}

// Stats returns the number of checks per status.
func (c *Checker) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats()
}

// MaxRetries returns the number of failed verifications after which a check is permanently failed.
func (c *Checker) MaxRetries() int {
	return c.maxRetries
}

func (c *Checker) stats() Stats {
	stats := Stats{Total: len(c.checks)}
	for _, check := range c.checks {
		switch check.Status {
		case StatusPending:
			stats.Pending++
		case StatusVerified:
			stats.Verified++
		case StatusFailed:
			stats.Failed++
		}
	}
	return stats
}

// update runs fn with the state locked and persists the checks if fn reports a change.
func (c *Checker) update(fn func() (changed bool)) {
	c.mu.Lock()
	var snap *snapshot
	if fn() {
		snap = c.snapshot()
	}
	c.updateGauges()
	c.mu.Unlock()

	if snap != nil {
		c.persist(context.Background(), snap)
	}
}

func (c *Checker) updateGauges() {
	stats := c.stats()
	c.metrics.SetChecksAmount(StatusPending, stats.Pending)
	c.metrics.SetChecksAmount(StatusVerified, stats.Verified)
	c.metrics.SetChecksAmount(StatusFailed, stats.Failed)
}

func (c *Checker) filter(match func(check *Check) bool) []Check {
	c.mu.Lock()
	defer c.mu.Unlock()

	var res []Check
	for _, check := range c.checks {
		if match(check) {
			res = append(res, *check)
		}
	}
	sortChecks(res)
	return res
}

func (c *Checker) sorted() []Check {
	res := make([]Check, 0, len(c.checks))
	for _, check := range c.checks {
		res = append(res, *check)
	}
	sortChecks(res)
	return res
}

func sortChecks(checks []Check) {
	sort.Slice(checks, func(i, j int) bool {
		if !checks[i].Timestamp.Equal(checks[j].Timestamp) {
			return checks[i].Timestamp.Before(checks[j].Timestamp)
		}
		return checks[i].ID < checks[j].ID
	})
}
