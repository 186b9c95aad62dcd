/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package config

import (
	"errors"
	"io"
	"time"

	"github.com/mitchellh/mapstructure"
)

// DataType is a format of configuration data.
type DataType string

// Supported formats.
const (
	DataTypeYAML DataType = "yaml"
	DataTypeJSON DataType = "json"
)

// BytesCount is a size in bytes. In configuration it's either a number or a string like "250M".
type BytesCount uint64

// Source fills a DataProvider with raw values.
type Source interface {
	UseEnvVars(prefix string)
	SetFromFile(path string, dataType DataType) error
	SetFromReader(reader io.Reader, dataType DataType) error
}

// Values reads and overrides values by key. Getters return a *KeyError if the value has a wrong type.
type Values interface {
	Set(key string, value interface{})
	SetDefault(key string, value interface{})
	IsSet(key string) bool

	Get(key string) interface{}
	GetBool(key string) (bool, error)
	GetInt(key string) (int, error)
	GetString(key string) (string, error)
	GetStringFromSet(key string, set []string, ignoreCase bool) (string, error)
	GetDuration(key string) (time.Duration, error)
	GetBytesCount(key string) (BytesCount, error)
	UnmarshalKey(key string, rawVal interface{}, opts ...DecoderConfigOption) error

	// WrapKeyErr returns err as a *KeyError for key, so config validation errors point to the key.
	WrapKeyErr(key string, err error) error
}

// DataProvider is what Config implementations get from Loader.
type DataProvider interface {
	Source
	Values
}

// KeyError is an error of a single configuration key. Its text is "<key>: <cause>".
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return e.Key + ": " + e.Err.Error()
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// WrapKeyErr returns err as a *KeyError for key. Nil stays nil.
func WrapKeyErr(key string, err error) error {
	if err == nil {
		return nil
	}
	return &KeyError{Key: key, Err: err}
}

// IsKeyError reports whether err is a *KeyError and returns the key.
func IsKeyError(err error) (key string, ok bool) {
	var keyErr *KeyError
	if errors.As(err, &keyErr) {
		return keyErr.Key, true
	}
	return "", false
}

// DecoderConfigOption tunes mapstructure decoding in UnmarshalKey.
type DecoderConfigOption func(*mapstructure.DecoderConfig)

// WithStrictDecoding fails decoding on keys without a matching struct field.
func WithStrictDecoding() DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.ErrorUnused = true
	}
}

// WithTextUnmarshaler decodes strings into types implementing encoding.TextUnmarshaler.
func WithTextUnmarshaler() DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		if dc.DecodeHook == nil {
			dc.DecodeHook = mapstructure.TextUnmarshallerHookFunc()
			return
		}
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(dc.DecodeHook, mapstructure.TextUnmarshallerHookFunc())
	}
}
