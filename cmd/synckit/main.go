/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

// Command synckit is the operator tool for the sync guard utilities:
// it computes checksums, sanitizes payloads, inspects integrity checks,
// simulates rate limits and runs the maintenance service.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
