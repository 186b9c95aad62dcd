/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package integrity

import (
	"encoding/json"
	"time"
)

// Status is a verification state of a Check.
type Status string

// Check statuses.
const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusFailed   Status = "failed"
)

// Check is a fingerprint of a payload synced to a table, together with its verification state.
type Check struct {
	ID        string
	Table     string
	Operation string
	// Checksum is empty when checksums were disabled at creation time.
	Checksum  string
	Timestamp time.Time
	Status    Status
	Retries   int
}

type checkJSON struct {
	ID        string `json:"id"`
	Table     string `json:"table"`
	Operation string `json:"operation"`
	Checksum  string `json:"checksum"`
	Timestamp int64  `json:"timestamp"`
	Status    Status `json:"status"`
	Retries   int    `json:"retries"`
}

// MarshalJSON encodes the check with the timestamp in Unix milliseconds.
func (c Check) MarshalJSON() ([]byte, error) {
	return json.Marshal(checkJSON{
		ID:        c.ID,
		Table:     c.Table,
		Operation: c.Operation,
		Checksum:  c.Checksum,
		Timestamp: c.Timestamp.UnixMilli(),
		Status:    c.Status,
		Retries:   c.Retries,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (c *Check) UnmarshalJSON(data []byte) error {
	var cj checkJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}
	*c = Check{
		ID:        cj.ID,
		Table:     cj.Table,
		Operation: cj.Operation,
		Checksum:  cj.Checksum,
		Timestamp: time.UnixMilli(cj.Timestamp).UTC(),
		Status:    cj.Status,
		Retries:   cj.Retries,
	}
	return nil
}

// Stats contains the number of checks per status.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Verified int `json:"verified"`
	Failed   int `json:"failed"`
}
