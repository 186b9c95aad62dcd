/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package log

import (
	"fmt"
	"strings"

	"code.cloudfoundry.org/bytefmt"

	"github.com/nautilus-one/synckit/config"
)

const cfgDefaultKeyPrefix = "log"

// Rotation limits.
const (
	DefaultFileRotationMaxSizeBytes = 250 * bytefmt.MEGABYTE
	MinFileRotationMaxSizeBytes     = bytefmt.MEGABYTE
	DefaultFileRotationMaxBackups   = 10
	MinFileRotationMaxBackups       = 1
)

// Level is a logging level.
type Level string

// Levels from the least to the most verbose.
const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

// Format is an encoding of log entries.
type Format string

// Formats.
const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Output is a destination of log entries.
type Output string

// Outputs.
const (
	OutputStdout Output = "stdout"
	OutputStderr Output = "stderr"
	OutputFile   Output = "file"
)

// Config configures NewLogger. It's read from the "log" section:
//
//	log:
//	  level: info          # error, warn, info or debug
//	  format: json         # json or text
//	  output: file         # stdout, stderr or file
//	  nocolor: false
//	  addCaller: false
//	  file:
//	    path: /var/log/synckit.log
//	    rotation: {maxSize: 250M, maxBackups: 10, maxAgeDays: 0, compress: false}
type Config struct {
	Level     Level
	Format    Format
	Output    Output
	NoColor   bool
	AddCaller bool
	File      FileOutputConfig

	keyPrefix string
}

// FileOutputConfig is used with OutputFile.
type FileOutputConfig struct {
	Path     string
	Rotation FileRotationConfig
}

// FileRotationConfig controls rotation of the log file by lumberjack.
type FileRotationConfig struct {
	Compress   bool
	MaxSize    config.BytesCount
	MaxBackups int
	MaxAgeDays int
}

var (
	_ config.Config            = (*Config)(nil)
	_ config.KeyPrefixProvider = (*Config)(nil)
)

// NewConfig creates a Config read from the "log" section.
func NewConfig() *Config {
	return &Config{keyPrefix: cfgDefaultKeyPrefix}
}

// KeyPrefix implements config.KeyPrefixProvider.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults implements config.Config.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault("level", string(LevelInfo))
	dp.SetDefault("format", string(FormatJSON))
	dp.SetDefault("output", string(OutputStdout))
	dp.SetDefault("file.rotation.maxSize", bytefmt.ByteSize(DefaultFileRotationMaxSizeBytes))
	dp.SetDefault("file.rotation.maxBackups", DefaultFileRotationMaxBackups)
}

// Set implements config.Config.
func (c *Config) Set(dp config.DataProvider) error {
	var err error
	if c.Level, err = getEnum(dp, "level", LevelError, LevelWarn, LevelInfo, LevelDebug); err != nil {
		return err
	}
	if c.Format, err = getEnum(dp, "format", FormatJSON, FormatText); err != nil {
		return err
	}
	if c.Output, err = getEnum(dp, "output", OutputStdout, OutputStderr, OutputFile); err != nil {
		return err
	}
	if c.NoColor, err = dp.GetBool("nocolor"); err != nil {
		return err
	}
	if c.AddCaller, err = dp.GetBool("addCaller"); err != nil {
		return err
	}
	return c.File.set(config.NewKeyPrefixedDataProvider(dp, "file"), c.Output == OutputFile)
}

func (fc *FileOutputConfig) set(dp config.DataProvider, required bool) error {
	var err error
	if fc.Path, err = dp.GetString("path"); err != nil {
		return err
	}
	if required && fc.Path == "" {
		return dp.WrapKeyErr("path", fmt.Errorf("cannot be empty when %q output is used", OutputFile))
	}
	return fc.Rotation.set(config.NewKeyPrefixedDataProvider(dp, "rotation"))
}

func (rc *FileRotationConfig) set(dp config.DataProvider) error {
	var err error
	if rc.Compress, err = dp.GetBool("compress"); err != nil {
		return err
	}
	if rc.MaxSize, err = dp.GetBytesCount("maxSize"); err != nil {
		return err
	}
	if rc.MaxSize < MinFileRotationMaxSizeBytes {
		return dp.WrapKeyErr("maxSize", fmt.Errorf("should be >= %s", bytefmt.ByteSize(MinFileRotationMaxSizeBytes)))
	}
	if rc.MaxBackups, err = dp.GetInt("maxBackups"); err != nil {
		return err
	}
	if rc.MaxBackups < MinFileRotationMaxBackups {
		return dp.WrapKeyErr("maxBackups", fmt.Errorf("should be >= %d", MinFileRotationMaxBackups))
	}
	if rc.MaxAgeDays, err = dp.GetInt("maxAgeDays"); err != nil {
		return err
	}
	if rc.MaxAgeDays < 0 {
		return dp.WrapKeyErr("maxAgeDays", fmt.Errorf("should not be negative"))
	}
	return nil
}

// getEnum reads one of values by key case-insensitively and returns it in its canonical form.
func getEnum[T ~string](dp config.DataProvider, key string, values ...T) (T, error) {
	set := make([]string, len(values))
	for i, v := range values {
		set[i] = string(v)
	}
	s, err := dp.GetStringFromSet(key, set, true)
	if err != nil {
		return "", err
	}
	return T(strings.ToLower(s)), nil
}
