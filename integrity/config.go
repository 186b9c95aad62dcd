/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package integrity

import (
	"fmt"
	"strings"
	"time"

	"github.com/nautilus-one/synckit/config"
	"github.com/nautilus-one/synckit/retry"
)

const cfgDefaultKeyPrefix = "integrity"

const (
	cfgKeyAlgorithm          = "algorithm"
	cfgKeyEnableChecksums    = "enableChecksums"
	cfgKeyMaxRetries         = "maxRetries"
	cfgKeyStorageKey         = "storageKey"
	cfgKeyCleanupInterval    = "cleanup.interval"
	cfgKeyWriteMaxRetries    = "write.maxRetries"
	cfgKeyWriteRetryInterval = "write.interval"
)

// DefaultCleanupInterval is how often verified checks are pruned by the maintenance worker.
const DefaultCleanupInterval = time.Hour

// Config represents a set of configuration parameters for the integrity checker.
type Config struct {
	Algorithm       Algorithm
	EnableChecksums bool
	MaxRetries      int
	StorageKey      string
	Cleanup         CleanupConfig
	Write           WriteConfig

	keyPrefix string
}

// CleanupConfig configures the maintenance worker. Zero Interval disables it.
type CleanupConfig struct {
	Interval time.Duration
}

// WriteConfig configures retries of persistence writes.
type WriteConfig struct {
	MaxRetries int
	Interval   time.Duration
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

// SetProviderDefaults sets default configuration values in config.DataProvider.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyAlgorithm, string(DefaultAlgorithm))
	dp.SetDefault(cfgKeyEnableChecksums, true)
	dp.SetDefault(cfgKeyMaxRetries, DefaultMaxRetries)
	dp.SetDefault(cfgKeyStorageKey, DefaultStorageKey)
	dp.SetDefault(cfgKeyCleanupInterval, DefaultCleanupInterval.String())
	dp.SetDefault(cfgKeyWriteRetryInterval, "100ms")
}

// Set sets integrity checker configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	alg, err := dp.GetStringFromSet(cfgKeyAlgorithm, []string{string(AlgorithmSimple), string(AlgorithmCRC32)}, true)
	if err != nil {
		return err
	}
	c.Algorithm = Algorithm(strings.ToLower(alg))

	if c.EnableChecksums, err = dp.GetBool(cfgKeyEnableChecksums); err != nil {
		return err
	}

	if c.MaxRetries, err = dp.GetInt(cfgKeyMaxRetries); err != nil {
		return err
	}
	if c.MaxRetries <= 0 {
		return dp.WrapKeyErr(cfgKeyMaxRetries, fmt.Errorf("should be positive"))
	}

	if c.StorageKey, err = dp.GetString(cfgKeyStorageKey); err != nil {
		return err
	}
	if c.StorageKey == "" {
		return dp.WrapKeyErr(cfgKeyStorageKey, fmt.Errorf("cannot be empty"))
	}

	if c.Cleanup.Interval, err = dp.GetDuration(cfgKeyCleanupInterval); err != nil {
		return err
	}
	if c.Cleanup.Interval < 0 {
		return dp.WrapKeyErr(cfgKeyCleanupInterval, fmt.Errorf("cannot be negative"))
	}

	if c.Write.MaxRetries, err = dp.GetInt(cfgKeyWriteMaxRetries); err != nil {
		return err
	}
	if c.Write.MaxRetries < 0 {
		return dp.WrapKeyErr(cfgKeyWriteMaxRetries, fmt.Errorf("cannot be negative"))
	}
	if c.Write.Interval, err = dp.GetDuration(cfgKeyWriteRetryInterval); err != nil {
		return err
	}
	return nil
}

// WritePolicy returns the retry policy for persistence writes.
func (c *Config) WritePolicy() retry.Policy {
	if c.Write.MaxRetries == 0 {
		return retry.NoRetryPolicy
	}
	return retry.ExponentialBackoffPolicy{InitialInterval: c.Write.Interval, MaxRetries: c.Write.MaxRetries}
}

// CheckerOpts returns CheckerOpts filled from the configuration.
func (c *Config) CheckerOpts() CheckerOpts {
	enable := c.EnableChecksums
	return CheckerOpts{
		Algorithm:       c.Algorithm,
		EnableChecksums: &enable,
		MaxRetries:      c.MaxRetries,
		StorageKey:      c.StorageKey,
		WritePolicy:     c.WritePolicy(),
	}
}
