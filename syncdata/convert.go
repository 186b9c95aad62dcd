/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package syncdata

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
)

// FromAny converts a Go value into a Value.
//
// Supported inputs are Values themselves, nil, booleans, all integer and float kinds, strings,
// json.Number, []interface{}, map[string]interface{} and raw JSON ([]byte, json.RawMessage).
// Anything else (e.g. structs with json tags) goes through a JSON round trip.
func FromAny(v interface{}) (Value, error) {
	switch tv := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return tv, nil
	case bool:
		return Bool(tv), nil
	case string:
		return String(tv), nil
	case json.Number:
		f, err := tv.Float64()
		if err != nil {
			return nil, fmt.Errorf("convert number %q: %w", tv.String(), err)
		}
		return Number(f), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return Number(cast.ToFloat64(tv)), nil
	case []interface{}:
		arr := make(Array, len(tv))
		for i, elem := range tv {
			val, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = val
		}
		return arr, nil
	case map[string]interface{}:
		obj := make(Object, len(tv))
		for k, elem := range tv {
			val, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			obj[k] = val
		}
		return obj, nil
	case json.RawMessage:
		return Parse(tv)
	case []byte:
		return Parse(tv)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %T: %v", ErrUnsupportedType, v, err)
	}
	return Parse(data)
}

// MustFromAny is like FromAny but panics on error. Intended for literals in tests and examples.
func MustFromAny(v interface{}) Value {
	val, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return val
}

// ToAny converts a Value back into plain Go types
// (nil, bool, float64, string, []interface{}, map[string]interface{}).
func ToAny(v Value) interface{} {
	switch tv := v.(type) {
	case Bool:
		return bool(tv)
	case Number:
		return float64(tv)
	case String:
		return string(tv)
	case Array:
		res := make([]interface{}, len(tv))
		for i, elem := range tv {
			res[i] = ToAny(elem)
		}
		return res
	case Object:
		res := make(map[string]interface{}, len(tv))
		for k, elem := range tv {
			res[k] = ToAny(elem)
		}
		return res
	}
	return nil
}
