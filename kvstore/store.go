/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

// Package kvstore provides small durable key-value stores holding string values.
//
// Stores back the state that must survive a restart (e.g. integrity checks).
// Available implementations: in-memory, file system (via afero) and Redis.
package kvstore

import "context"

// Store is a key-value store of string values.
type Store interface {
	// Get returns the value stored under key. found is false if there is no such key.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing the previous one.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
