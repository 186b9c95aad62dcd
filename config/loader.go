/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package config

import (
	"io"
	"path/filepath"
	"strings"
)

// Loader loads configuration values from data provider (with initializing default values before)
// and sets them in configuration objects.
type Loader struct {
	DataProvider DataProvider
}

// NewDefaultLoader creates a new configurations loader with an ability to read values from the environment variables.
func NewDefaultLoader(envVarsPrefix string) *Loader {
	va := NewViperAdapter()
	va.UseEnvVars(envVarsPrefix)
	return NewLoader(va)
}

// NewLoader creates a new configurations' loader.
func NewLoader(dp DataProvider) *Loader {
	return &Loader{dp}
}

// LoadFromFile loads configuration values from file and sets them in configuration objects.
func (l *Loader) LoadFromFile(path string, dataType DataType, cfg Config, cfgs ...Config) error {
	if err := l.DataProvider.SetFromFile(path, dataType); err != nil {
		return err
	}
	return l.load(append([]Config{cfg}, cfgs...))
}

// LoadFromPath is LoadFromFile with the data type derived from the file extension.
// Files with ".json" extension are parsed as JSON, all others as YAML.
// An empty path means there is no file and only defaults and environment variables are used.
func (l *Loader) LoadFromPath(path string, cfg Config, cfgs ...Config) error {
	if path == "" {
		return l.LoadDefaults(cfg, cfgs...)
	}
	return l.LoadFromFile(path, DataTypeFromPath(path), cfg, cfgs...)
}

// DataTypeFromPath returns the data type of configuration file by its extension.
func DataTypeFromPath(path string) DataType {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return DataTypeJSON
	}
	return DataTypeYAML
}

// LoadFromReader loads configuration values from reader and sets them in configuration objects.
func (l *Loader) LoadFromReader(reader io.Reader, dataType DataType, cfg Config, cfgs ...Config) error {
	if err := l.DataProvider.SetFromReader(reader, dataType); err != nil {
		return err
	}
	return l.load(append([]Config{cfg}, cfgs...))
}

// LoadDefaults sets configuration objects using only defaults and environment variables.
func (l *Loader) LoadDefaults(cfg Config, cfgs ...Config) error {
	return l.load(append([]Config{cfg}, cfgs...))
}

func (l *Loader) load(cfgs []Config) error {
	// All defaults are set before any config reads values.
	providers := make([]DataProvider, len(cfgs))
	for i, cfg := range cfgs {
		providers[i] = l.DataProvider
		if kp, ok := cfg.(KeyPrefixProvider); ok && kp.KeyPrefix() != "" {
			providers[i] = NewKeyPrefixedDataProvider(l.DataProvider, kp.KeyPrefix())
		}
		cfg.SetProviderDefaults(providers[i])
	}
	for i, cfg := range cfgs {
		if err := cfg.Set(providers[i]); err != nil {
			return err
		}
	}
	return nil
}
