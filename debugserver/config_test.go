/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package debugserver

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nautilus-one/synckit/config"
)

func TestConfig(t *testing.T) {
	load := func(yamlData string) (*Config, error) {
		cfg := NewConfig()
		return cfg, config.NewLoader(config.NewViperAdapter()).LoadFromReader(
			bytes.NewBufferString(yamlData), config.DataTypeYAML, cfg)
	}

	cfg, err := load("")
	require.NoError(t, err)
	require.False(t, cfg.Enabled)
	require.Equal(t, DefaultAddress, cfg.Address)

	cfg, err = load("debugserver:\n  enabled: true\n  address: \":9090\"\n")
	require.NoError(t, err)
	require.True(t, cfg.Enabled)
	require.Equal(t, ":9090", cfg.Address)

	_, err = load("debugserver:\n  enabled: true\n  address: \"\"\n")
	require.ErrorContains(t, err, "debugserver.address")
}
