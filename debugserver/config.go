/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package debugserver

import (
	"fmt"

	"github.com/nautilus-one/synckit/config"
)

const cfgDefaultKeyPrefix = "debugserver"

const (
	cfgKeyEnabled = "enabled"
	cfgKeyAddress = "address"
)

// DefaultAddress is the listening address of the debug server.
const DefaultAddress = "127.0.0.1:8081"

// Config represents a set of configuration parameters for the debug server.
// The server is disabled by default and must not be enabled in production.
type Config struct {
	Enabled bool
	Address string

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a new instance of the Config.
func NewConfig() *Config {
	return &Config{keyPrefix: cfgDefaultKeyPrefix}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
func (c *Config) KeyPrefix() string {
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values for the debug server in config.DataProvider.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyEnabled, false)
	dp.SetDefault(cfgKeyAddress, DefaultAddress)
}

// Set sets debug server configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	var err error
	if c.Enabled, err = dp.GetBool(cfgKeyEnabled); err != nil {
		return err
	}
	if c.Address, err = dp.GetString(cfgKeyAddress); err != nil {
		return err
	}
	if c.Enabled && c.Address == "" {
		return dp.WrapKeyErr(cfgKeyAddress, fmt.Errorf("cannot be empty when the server is enabled"))
	}
	return nil
}
