/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package kvstore

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"

	"github.com/nautilus-one/synckit/config"
)

const cfgDefaultKeyPrefix = "kvstore"

const (
	cfgKeyKind          = "kind"
	cfgKeyFileDir       = "file.dir"
	cfgKeyRedisAddress  = "redis.address"
	cfgKeyRedisPassword = "redis.password"
	cfgKeyRedisDB       = "redis.db"
	cfgKeyRedisPrefix   = "redis.prefix"
	cfgKeyRedisTTL      = "redis.ttl"
)

// Kind defines possible store implementations.
type Kind string

// Store kinds.
const (
	KindMemory Kind = "memory"
	KindFile   Kind = "file"
	KindRedis  Kind = "redis"
)

// DefaultRedisPrefix is prepended to all keys stored in Redis.
const DefaultRedisPrefix = "synckit:"

// Config represents a set of configuration parameters for the durable store.
type Config struct {
	Kind  Kind
	File  FileConfig
	Redis RedisConfig

	keyPrefix string
}

// FileConfig configures FileStore.
type FileConfig struct {
	Dir string
}

// RedisConfig configures RedisStore.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
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
	dp.SetDefault(cfgKeyKind, string(KindFile))
	dp.SetDefault(cfgKeyFileDir, "./data")
	dp.SetDefault(cfgKeyRedisAddress, "localhost:6379")
	dp.SetDefault(cfgKeyRedisPrefix, DefaultRedisPrefix)
}

// Set sets store configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	kind, err := dp.GetStringFromSet(cfgKeyKind, []string{string(KindMemory), string(KindFile), string(KindRedis)}, true)
	if err != nil {
		return err
	}
	c.Kind = Kind(strings.ToLower(kind))

	if c.File.Dir, err = dp.GetString(cfgKeyFileDir); err != nil {
		return err
	}
	if c.Kind == KindFile && c.File.Dir == "" {
		return dp.WrapKeyErr(cfgKeyFileDir, fmt.Errorf("cannot be empty when %q store is used", KindFile))
	}

	if c.Redis.Address, err = dp.GetString(cfgKeyRedisAddress); err != nil {
		return err
	}
	if c.Redis.Password, err = dp.GetString(cfgKeyRedisPassword); err != nil {
		return err
	}
	if c.Redis.DB, err = dp.GetInt(cfgKeyRedisDB); err != nil {
		return err
	}
	if c.Redis.Prefix, err = dp.GetString(cfgKeyRedisPrefix); err != nil {
		return err
	}
	if c.Redis.TTL, err = dp.GetDuration(cfgKeyRedisTTL); err != nil {
		return err
	}
	if c.Redis.TTL < 0 {
		return dp.WrapKeyErr(cfgKeyRedisTTL, fmt.Errorf("cannot be negative"))
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a store described by the configuration.
// The returned io.Closer releases resources held by the store (e.g. Redis connections).
func New(cfg *Config) (Store, io.Closer, error) {
	switch cfg.Kind {
	case KindMemory:
		return NewMemoryStore(), nopCloser{}, nil
	case KindFile:
		store, err := NewFileStore(afero.NewOsFs(), cfg.File.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, nopCloser{}, nil
	case KindRedis:
		store := NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}), cfg.Redis.Prefix, cfg.Redis.TTL)
		return store, store, nil
	}
	return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
}
