/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

// Package logtest provides a log.FieldLogger that records entries so tests can assert on them.
package logtest
