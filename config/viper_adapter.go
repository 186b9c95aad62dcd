/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ViperAdapter is a DataProvider backed by viper. Values are converted with spf13/cast.
type ViperAdapter struct {
	v *viper.Viper
}

var _ DataProvider = (*ViperAdapter)(nil)

// NewViperAdapter creates a ViperAdapter reading files from the OS filesystem.
func NewViperAdapter() *ViperAdapter {
	return NewViperAdapterWithFs(afero.NewOsFs())
}

// NewViperAdapterWithFs creates a ViperAdapter reading files from fs.
func NewViperAdapterWithFs(fs afero.Fs) *ViperAdapter {
	v := viper.New()
	v.SetFs(fs)
	return &ViperAdapter{v: v}
}

// UseEnvVars makes environment variables override file values.
// With prefix "synckit", "ratelimit.maxKeys" is read from SYNCKIT_RATELIMIT_MAXKEYS.
func (va *ViperAdapter) UseEnvVars(prefix string) {
	va.v.SetEnvPrefix(prefix)
	va.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	va.v.AutomaticEnv()
}

// SetFromFile merges values from the file at path.
func (va *ViperAdapter) SetFromFile(path string, dataType DataType) error {
	va.v.SetConfigFile(path)
	va.v.SetConfigType(string(dataType))
	if err := va.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	return nil
}

// SetFromReader merges values read from reader.
func (va *ViperAdapter) SetFromReader(reader io.Reader, dataType DataType) error {
	va.v.SetConfigType(string(dataType))
	if err := va.v.ReadConfig(reader); err != nil {
		return fmt.Errorf("read %s config: %w", dataType, err)
	}
	return nil
}

func (va *ViperAdapter) Set(key string, value interface{})        { va.v.Set(key, value) }
func (va *ViperAdapter) SetDefault(key string, value interface{}) { va.v.SetDefault(key, value) }
func (va *ViperAdapter) IsSet(key string) bool                    { return va.v.IsSet(key) }
func (va *ViperAdapter) Get(key string) interface{}               { return va.v.Get(key) }

func (va *ViperAdapter) GetBool(key string) (bool, error) {
	return getAs(va, key, cast.ToBoolE)
}

func (va *ViperAdapter) GetInt(key string) (int, error) {
	return getAs(va, key, cast.ToIntE)
}

func (va *ViperAdapter) GetString(key string) (string, error) {
	return getAs(va, key, cast.ToStringE)
}

// GetDuration accepts Go durations ("1m30s") and numbers of nanoseconds. A missing value is zero.
func (va *ViperAdapter) GetDuration(key string) (time.Duration, error) {
	return getAs(va, key, func(val interface{}) (time.Duration, error) {
		if val == nil {
			return 0, nil
		}
		return cast.ToDurationE(val)
	})
}

// GetBytesCount accepts byte sizes ("512K", "1M") and non-negative numbers. A missing value is zero.
func (va *ViperAdapter) GetBytesCount(key string) (BytesCount, error) {
	return getAs(va, key, toBytesCount)
}

// GetStringFromSet returns the string value of key if it's one of set.
func (va *ViperAdapter) GetStringFromSet(key string, set []string, ignoreCase bool) (string, error) {
	val, err := va.GetString(key)
	if err != nil {
		return "", err
	}
	for _, allowed := range set {
		if val == allowed || (ignoreCase && strings.EqualFold(val, allowed)) {
			return val, nil
		}
	}
	return "", WrapKeyErr(key, fmt.Errorf("unknown value %q, should be one of %v", val, set))
}

// UnmarshalKey decodes the subtree of key into rawVal with mapstructure.
func (va *ViperAdapter) UnmarshalKey(key string, rawVal interface{}, opts ...DecoderConfigOption) error {
	viperOpts := make([]viper.DecoderConfigOption, 0, len(opts))
	for _, opt := range opts {
		viperOpts = append(viperOpts, viper.DecoderConfigOption(opt))
	}
	return WrapKeyErr(key, va.v.UnmarshalKey(key, rawVal, viperOpts...))
}

func (va *ViperAdapter) WrapKeyErr(key string, err error) error {
	return WrapKeyErr(key, err)
}

func getAs[T any](va *ViperAdapter, key string, convert func(interface{}) (T, error)) (T, error) {
	res, err := convert(va.v.Get(key))
	return res, WrapKeyErr(key, err)
}

func toBytesCount(val interface{}) (BytesCount, error) {
	switch v := val.(type) {
	case nil:
		return 0, nil
	case BytesCount:
		return v, nil
	case string:
		n, err := bytefmt.ToBytes(v)
		if err != nil {
			return 0, fmt.Errorf("invalid bytes format: %s", v)
		}
		return BytesCount(n), nil
	}
	n, err := cast.ToInt64E(val)
	switch {
	case err != nil:
		return 0, fmt.Errorf("unsupported type for bytes count: %T", val)
	case n < 0:
		return 0, fmt.Errorf("negative value is not allowed: %d", n)
	}
	return BytesCount(n), nil
}
