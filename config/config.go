/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

// Package config loads configuration of synckit components from YAML/JSON files and environment variables.
//
// Every component exposes its own Config type implementing the Config interface.
// Loader sets defaults for all passed configs first and only then reads the actual values,
// so a single file can describe the whole application.
package config

// Config is a common interface for configuration objects that may be used by Loader.
type Config interface {
	SetProviderDefaults(dp DataProvider)
	Set(dp DataProvider) error
}

// KeyPrefixProvider is an interface for providing key prefix that will be used for configuration parameters.
type KeyPrefixProvider interface {
	KeyPrefix() string
}
