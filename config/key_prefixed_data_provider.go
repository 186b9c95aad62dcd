/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package config

import (
	"strings"
	"time"
)

// KeyPrefixedDataProvider scopes every key of the wrapped DataProvider under a prefix,
// so a component reads "maxKeys" while the file holds "ratelimit.maxKeys".
// Source methods are not scoped and act on the whole configuration.
type KeyPrefixedDataProvider struct {
	DataProvider
	prefix string
}

var _ DataProvider = (*KeyPrefixedDataProvider)(nil)

// NewKeyPrefixedDataProvider creates a new KeyPrefixedDataProvider. An empty prefix leaves keys as is.
func NewKeyPrefixedDataProvider(dp DataProvider, prefix string) *KeyPrefixedDataProvider {
	return &KeyPrefixedDataProvider{DataProvider: dp, prefix: strings.Trim(prefix, ".")}
}

// FullKey returns key with the prefix.
func (p *KeyPrefixedDataProvider) FullKey(key string) string {
	switch {
	case p.prefix == "":
		return key
	case key == "":
		return p.prefix
	}
	return p.prefix + "." + key
}

func (p *KeyPrefixedDataProvider) Set(key string, value interface{}) {
	p.DataProvider.Set(p.FullKey(key), value)
}

func (p *KeyPrefixedDataProvider) SetDefault(key string, value interface{}) {
	p.DataProvider.SetDefault(p.FullKey(key), value)
}

func (p *KeyPrefixedDataProvider) IsSet(key string) bool {
	return p.DataProvider.IsSet(p.FullKey(key))
}

func (p *KeyPrefixedDataProvider) Get(key string) interface{} {
	return p.DataProvider.Get(p.FullKey(key))
}

func (p *KeyPrefixedDataProvider) GetBool(key string) (bool, error) {
	return p.DataProvider.GetBool(p.FullKey(key))
}

func (p *KeyPrefixedDataProvider) GetInt(key string) (int, error) {
	return p.DataProvider.GetInt(p.FullKey(key))
}

func (p *KeyPrefixedDataProvider) GetString(key string) (string, error) {
	return p.DataProvider.GetString(p.FullKey(key))
}

func (p *KeyPrefixedDataProvider) GetStringFromSet(key string, set []string, ignoreCase bool) (string, error) {
	return p.DataProvider.GetStringFromSet(p.FullKey(key), set, ignoreCase)
}

func (p *KeyPrefixedDataProvider) GetDuration(key string) (time.Duration, error) {
	return p.DataProvider.GetDuration(p.FullKey(key))
}

func (p *KeyPrefixedDataProvider) GetBytesCount(key string) (BytesCount, error) {
	return p.DataProvider.GetBytesCount(p.FullKey(key))
}

func (p *KeyPrefixedDataProvider) UnmarshalKey(key string, rawVal interface{}, opts ...DecoderConfigOption) error {
	return p.DataProvider.UnmarshalKey(p.FullKey(key), rawVal, opts...)
}

func (p *KeyPrefixedDataProvider) WrapKeyErr(key string, err error) error {
	return p.DataProvider.WrapKeyErr(p.FullKey(key), err)
}
