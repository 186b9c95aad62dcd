/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

// Package syncdata models payloads exchanged during local-to-remote sync.
//
// A payload is a Value: one of Null, Bool, Number, String, Array or Object.
// Values are encoded into a stable JSON form (object keys sorted) so that
// fingerprints computed on both sides of a sync are comparable.
package syncdata

import "errors"

// ErrUnsupportedType is returned when a Go value cannot be represented as a Value.
var ErrUnsupportedType = errors.New("unsupported payload type")

// Kind enumerates Value variants.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the name of the kind as reported by TypeName.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "null"
}

// Value is a JSON-serializable payload.
type Value interface {
	Kind() Kind
	isValue()
}

type (
	// Null is the JSON null.
	Null struct{}
	// Bool is a JSON boolean.
	Bool bool
	// Number is a JSON number.
	Number float64
	// String is a JSON string.
	String string
	// Array is a JSON array.
	Array []Value
	// Object is a JSON object.
	Object map[string]Value
)

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (Array) Kind() Kind  { return KindArray }
func (Object) Kind() Kind { return KindObject }

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Number) isValue() {}
func (String) isValue() {}
func (Array) isValue()  {}
func (Object) isValue() {}

// TypeName returns the type name of v. A nil Value is reported as "null".
func TypeName(v Value) string {
	if v == nil {
		return KindNull.String()
	}
	return v.Kind().String()
}

// IsNull reports whether v is nil or Null.
func IsNull(v Value) bool {
	return v == nil || v.Kind() == KindNull
}
