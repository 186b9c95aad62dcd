/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package ratelimit

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nautilus-one/synckit/config"
)

const cfgDefaultKeyPrefix = "ratelimit"

const (
	cfgKeyAlgorithm = "algorithm"
	cfgKeyMaxKeys   = "maxKeys"
	cfgKeyRate      = "rate"
	cfgKeyBurst     = "burst"
	cfgKeyActions   = "actions"
	cfgKeyExempt    = "exemptKeys"
	cfgKeyCleanup   = "cleanupInterval"
)

// Algorithm defines possible rate limiting algorithms.
type Algorithm string

// Rate limiting algorithms.
const (
	AlgorithmFixedWindow   Algorithm = "fixed_window"
	AlgorithmSlidingWindow Algorithm = "sliding_window"
	AlgorithmLeakyBucket   Algorithm = "leaky_bucket"
	AlgorithmTokenBucket   Algorithm = "token_bucket"
)

// Default values.
const (
	DefaultMaxKeys         = 10000
	DefaultRate            = "10/s"
	DefaultCleanupInterval = time.Minute
)

// Config represents a set of configuration parameters for rate limiting.
//
// Rate applies to every action without its own entry in Actions.
// Keys passed to Registry.Allow are namespaced by action, so actions never share quota.
// ExemptKeys are glob patterns (e.g. "*:service-account") of keys that are never limited.
// Keys that no longer restrict calls are forgotten every CleanupInterval (zero disables it).
type Config struct {
	Algorithm       Algorithm
	MaxKeys         int
	Rate            Rate
	Burst           int
	Actions         map[string]Rate
	ExemptKeys      []string
	CleanupInterval time.Duration

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

// SetProviderDefaults sets default configuration values in config.DataProvider.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyAlgorithm, string(AlgorithmFixedWindow))
	dp.SetDefault(cfgKeyMaxKeys, DefaultMaxKeys)
	dp.SetDefault(cfgKeyRate, DefaultRate)
	dp.SetDefault(cfgKeyCleanup, DefaultCleanupInterval.String())
}

var availableAlgorithms = []string{
	string(AlgorithmFixedWindow), string(AlgorithmSlidingWindow), string(AlgorithmLeakyBucket), string(AlgorithmTokenBucket),
}

// Set sets rate limiting configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	alg, err := dp.GetStringFromSet(cfgKeyAlgorithm, availableAlgorithms, true)
	if err != nil {
		return err
	}
	c.Algorithm = Algorithm(strings.ToLower(alg))

	if c.MaxKeys, err = dp.GetInt(cfgKeyMaxKeys); err != nil {
		return err
	}
	if c.MaxKeys < 0 {
		return dp.WrapKeyErr(cfgKeyMaxKeys, fmt.Errorf("should not be negative"))
	}

	rateStr, err := dp.GetString(cfgKeyRate)
	if err != nil {
		return err
	}
	if c.Rate, err = ParseRate(rateStr); err != nil {
		return dp.WrapKeyErr(cfgKeyRate, err)
	}

	if c.Burst, err = dp.GetInt(cfgKeyBurst); err != nil {
		return err
	}
	if c.Burst < 0 {
		return dp.WrapKeyErr(cfgKeyBurst, fmt.Errorf("should not be negative"))
	}

	if c.CleanupInterval, err = dp.GetDuration(cfgKeyCleanup); err != nil {
		return err
	}
	if c.CleanupInterval < 0 {
		return dp.WrapKeyErr(cfgKeyCleanup, fmt.Errorf("should not be negative"))
	}

	c.Actions = nil
	if dp.IsSet(cfgKeyActions) {
		if err = dp.UnmarshalKey(cfgKeyActions, &c.Actions, config.WithTextUnmarshaler()); err != nil {
			return err
		}
	}

	c.ExemptKeys = nil
	if dp.IsSet(cfgKeyExempt) {
		if err = dp.UnmarshalKey(cfgKeyExempt, &c.ExemptKeys); err != nil {
			return err
		}
	}
	return nil
}

// ActionNames returns configured action names in sorted order.
func (c *Config) ActionNames() []string {
	names := make([]string, 0, len(c.Actions))
	for name := range c.Actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
