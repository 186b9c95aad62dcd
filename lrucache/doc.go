/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

// Package lrucache provides an in-memory LRU cache whose entries may expire.
//
// Expired entries are always evicted before unexpired ones. With Options.KeepUnexpired unexpired entries
// are never evicted, and a full cache of them refuses new keys with ErrFull.
package lrucache
