/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type serverConfig struct {
	Address  string
	Timeout  time.Duration
	MaxBody  BytesCount
	Mode     string
	Verbose  bool
	Backends map[string]string

	keyPrefix string
}

func (c *serverConfig) KeyPrefix() string {
	return c.keyPrefix
}

func (c *serverConfig) SetProviderDefaults(dp DataProvider) {
	dp.SetDefault("address", ":8080")
	dp.SetDefault("timeout", "30s")
	dp.SetDefault("maxBody", "1M")
	dp.SetDefault("mode", "fast")
}

func (c *serverConfig) Set(dp DataProvider) error {
	var err error
	if c.Address, err = dp.GetString("address"); err != nil {
		return err
	}
	if c.Timeout, err = dp.GetDuration("timeout"); err != nil {
		return err
	}
	if c.MaxBody, err = dp.GetBytesCount("maxBody"); err != nil {
		return err
	}
	if c.Mode, err = dp.GetStringFromSet("mode", []string{"fast", "safe"}, true); err != nil {
		return err
	}
	if c.Verbose, err = dp.GetBool("verbose"); err != nil {
		return err
	}
	if dp.IsSet("backends") {
		if err = dp.UnmarshalKey("backends", &c.Backends); err != nil {
			return err
		}
	}
	return nil
}

func TestLoaderDefaults(t *testing.T) {
	cfg := &serverConfig{keyPrefix: "server"}
	require.NoError(t, NewLoader(NewViperAdapter()).LoadDefaults(cfg))
	require.Equal(t, ":8080", cfg.Address)
	require.Equal(t, 30*time.Second, cfg.Timeout)
	require.Equal(t, BytesCount(1024*1024), cfg.MaxBody)
	require.Equal(t, "fast", cfg.Mode)
	require.False(t, cfg.Verbose)
}

func TestLoaderFromReader(t *testing.T) {
	cfg := &serverConfig{keyPrefix: "server"}
	other := &serverConfig{keyPrefix: "admin"}
	err := NewLoader(NewViperAdapter()).LoadFromReader(bytes.NewBufferString(`
server:
  address: 127.0.0.1:9000
  timeout: 1m
  maxBody: 512K
  mode: SAFE
  verbose: true
  backends:
    primary: redis://a
admin:
  maxBody: 2048
`), DataTypeYAML, cfg, other)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.Address)
	require.Equal(t, time.Minute, cfg.Timeout)
	require.Equal(t, BytesCount(512*1024), cfg.MaxBody)
	require.Equal(t, "SAFE", cfg.Mode)
	require.True(t, cfg.Verbose)
	require.Equal(t, map[string]string{"primary": "redis://a"}, cfg.Backends)

	require.Equal(t, ":8080", other.Address)
	require.Equal(t, BytesCount(2048), other.MaxBody)
}

func TestLoaderErrors(t *testing.T) {
	tests := []struct {
		yaml    string
		wantErr string
	}{
		{"server:\n  mode: turbo\n", "server.mode"},
		{"server:\n  timeout: soon\n", "server.timeout"},
		{"server:\n  maxBody: lots\n", "server.maxBody"},
		{"server:\n  maxBody: -1\n", "server.maxBody"},
		{"server:\n  verbose: maybe\n", "server.verbose"},
	}
	for _, tt := range tests {
		t.Run(tt.wantErr, func(t *testing.T) {
			err := NewLoader(NewViperAdapter()).LoadFromReader(
				bytes.NewBufferString(tt.yaml), DataTypeYAML, &serverConfig{keyPrefix: "server"})
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoaderFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server": {"address": ":7000"}}`), 0o600))

	t.Setenv("SYNCKITTEST_SERVER_TIMEOUT", "5s")
	cfg := &serverConfig{keyPrefix: "server"}
	require.NoError(t, NewDefaultLoader("synckittest").LoadFromFile(path, DataTypeJSON, cfg))
	require.Equal(t, ":7000", cfg.Address)
	require.Equal(t, 5*time.Second, cfg.Timeout)

	err := NewLoader(NewViperAdapter()).LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"), DataTypeYAML, cfg)
	require.Error(t, err)
}

func TestLoaderFromPath(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "config.JSON")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"server": {"address": ":7001"}}`), 0o600))
	yamlPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("server:\n  address: \":7002\"\n"), 0o600))

	require.Equal(t, DataTypeJSON, DataTypeFromPath(jsonPath))
	require.Equal(t, DataTypeYAML, DataTypeFromPath(yamlPath))

	cfg := &serverConfig{keyPrefix: "server"}
	require.NoError(t, NewLoader(NewViperAdapter()).LoadFromPath(jsonPath, cfg))
	require.Equal(t, ":7001", cfg.Address)

	cfg = &serverConfig{keyPrefix: "server"}
	require.NoError(t, NewLoader(NewViperAdapter()).LoadFromPath(yamlPath, cfg))
	require.Equal(t, ":7002", cfg.Address)

	cfg = &serverConfig{keyPrefix: "server"}
	require.NoError(t, NewLoader(NewViperAdapter()).LoadFromPath("", cfg))
	require.Equal(t, ":8080", cfg.Address)
}

func TestStrictDecoding(t *testing.T) {
	va := NewViperAdapter()
	require.NoError(t, va.SetFromReader(bytes.NewBufferString("opts:\n  name: a\n  extra: b\n"), DataTypeYAML))

	var opts struct{ Name string }
	require.NoError(t, va.UnmarshalKey("opts", &opts))
	require.Equal(t, "a", opts.Name)

	err := va.UnmarshalKey("opts", &opts, WithStrictDecoding())
	require.ErrorContains(t, err, "opts")
}

func TestKeyPrefixedDataProvider(t *testing.T) {
	va := NewViperAdapter()
	dp := NewKeyPrefixedDataProvider(va, "ratelimit")
	dp.Set("maxKeys", 10)
	require.True(t, dp.IsSet("maxKeys"))
	require.Equal(t, 10, va.Get("ratelimit.maxKeys"))

	err := dp.WrapKeyErr("maxKeys", fmt.Errorf("should be positive"))
	require.EqualError(t, err, "ratelimit.maxKeys: should be positive")
}

func TestViperAdapterWithFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/synckit/config.yaml", []byte("server:\n  address: \":7003\"\n"), 0o600))

	cfg := &serverConfig{keyPrefix: "server"}
	require.NoError(t, NewLoader(NewViperAdapterWithFs(fs)).LoadFromPath("/etc/synckit/config.yaml", cfg))
	require.Equal(t, ":7003", cfg.Address)

	err := NewLoader(NewViperAdapterWithFs(fs)).LoadFromPath("/etc/synckit/missing.yaml", cfg)
	require.ErrorContains(t, err, "/etc/synckit/missing.yaml")
}

func TestKeyError(t *testing.T) {
	err := NewLoader(NewViperAdapter()).LoadFromReader(
		bytes.NewBufferString("server:\n  timeout: soon\n"), DataTypeYAML, &serverConfig{keyPrefix: "server"})
	key, ok := IsKeyError(err)
	require.True(t, ok)
	require.Equal(t, "server.timeout", key)

	require.NoError(t, WrapKeyErr("any", nil))
	_, ok = IsKeyError(errors.New("plain"))
	require.False(t, ok)

	cause := errors.New("should be positive")
	require.ErrorIs(t, WrapKeyErr("maxKeys", cause), cause)
}

type level int

func (l *level) UnmarshalText(text []byte) error {
	switch string(text) {
	case "low":
		*l = 1
	case "high":
		*l = 2
	default:
		return fmt.Errorf("unknown level %q", text)
	}
	return nil
}

func TestWithTextUnmarshaler(t *testing.T) {
	va := NewViperAdapter()
	require.NoError(t, va.SetFromReader(bytes.NewBufferString("levels:\n  a: low\n  b: high\n"), DataTypeYAML))

	var levels map[string]level
	require.NoError(t, va.UnmarshalKey("levels", &levels, WithTextUnmarshaler()))
	require.Equal(t, map[string]level{"a": 1, "b": 2}, levels)
}

func TestKeyPrefixedDataProviderFullKey(t *testing.T) {
	va := NewViperAdapter()
	require.Equal(t, "maxKeys", NewKeyPrefixedDataProvider(va, "").FullKey("maxKeys"))
	require.Equal(t, "integrity.cleanup.interval", NewKeyPrefixedDataProvider(va, "integrity.").FullKey("cleanup.interval"))
	require.Equal(t, "integrity", NewKeyPrefixedDataProvider(va, "integrity").FullKey(""))
}
