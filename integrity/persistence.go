/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package integrity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nautilus-one/synckit/log"
	"github.com/nautilus-one/synckit/retry"
)

// Checks are stored as a JSON array of [id, check] pairs.

func encodeChecks(checks []Check) ([]byte, error) {
	pairs := make([][2]interface{}, len(checks))
	for i := range checks {
		pairs[i] = [2]interface{}{checks[i].ID, checks[i]}
	}
	return json.Marshal(pairs)
}

func decodeChecks(data []byte) (map[string]*Check, error) {
	var pairs [][2]json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, err
	}
	checks := make(map[string]*Check, len(pairs))
	for i, pair := range pairs {
		var id string
		if err := json.Unmarshal(pair[0], &id); err != nil {
			return nil, fmt.Errorf("entry #%d: id: %w", i, err)
		}
		check := &Check{}
		if err := json.Unmarshal(pair[1], check); err != nil {
			return nil, fmt.Errorf("entry #%d: check %q: %w", i, id, err)
		}
		check.ID = id
		checks[id] = check
	}
	return checks, nil
}

func (c *Checker) load(ctx context.Context) {
	data, found, err := c.store.Get(ctx, c.storageKey)
	if err != nil {
		c.logger.Error("failed to load integrity checks, starting with empty store", log.Error(err))
		return
	}
	if !found {
		return
	}
	checks, err := decodeChecks([]byte(data))
	if err != nil {
		c.logger.Warn("persisted integrity checks are corrupt, starting with empty store", log.Error(err))
		return
	}
	c.checks = checks
	c.logger.Info("integrity checks loaded", log.Int("checks", len(checks)))
}

// snapshot is the encoded state of all checks. Newer snapshots have greater versions.
type snapshot struct {
	version uint64
	data    string
}

// snapshot must be called with c.mu held. It returns nil if the checks cannot be encoded.
func (c *Checker) snapshot() *snapshot {
	data, err := encodeChecks(c.sorted())
	if err != nil {
		c.logger.Error("failed to encode integrity checks", log.Error(err))
		c.metrics.IncPersistenceErrors()
		return nil
	}
	c.version++
	return &snapshot{version: c.version, data: string(data)}
}

// persist writes snap unless a newer snapshot has already been written.
func (c *Checker) persist(ctx context.Context, snap *snapshot) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if snap.version <= c.written {
		return
	}
	err := retry.DoWithRetry(ctx, c.writePolicy, nil, retry.LogNotify(c.logger, "failed to persist integrity checks, retrying"),
		func(ctx context.Context) error {
			return c.store.Set(ctx, c.storageKey, snap.data)
		})
	if err != nil {
		c.logger.Error("failed to persist integrity checks", log.Error(err))
		c.metrics.IncPersistenceErrors()
		return
	}
	c.written = snap.version
}
