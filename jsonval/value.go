package jsonval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	regerrors "github.com/telicent-oss/go-json-register/errors"
)

// Value is a sealed interface representing a JSON value. Only Null, Bool,
// Int, Float, String, Array, and Object implement it.
type Value interface {
	jsonValue() // Sealed - only the types in this package implement it
}

// Null represents a JSON null.
type Null struct{}

func (Null) jsonValue() {}

// Bool represents a JSON boolean.
type Bool bool

func (Bool) jsonValue() {}

// Int represents a JSON number with no fractional part, held as int64 so it
// round-trips without precision loss.
type Int int64

func (Int) jsonValue() {}

// Float represents a JSON number with a fractional part or exponent.
type Float float64

func (Float) jsonValue() {}

// String represents a JSON string. The content is Unicode text, not bytes.
type String string

func (String) jsonValue() {}

// Array represents a JSON array. Element order is significant.
type Array []Value

func (Array) jsonValue() {}

// Object represents a JSON object. Keys are unique; iteration order is
// irrelevant because the canonicaliser sorts keys.
type Object map[string]Value

func (Object) jsonValue() {}

// FromGo converts a dynamically-typed Go value into a Value. Supported
// inputs: nil, bool, string, all signed/unsigned integer widths, float32,
// float64, json.Number, []any, map[string]any, and anything already a Value.
// Anything else fails with a CanonicalisationError.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return uintValue(uint64(val))
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint64:
		return uintValue(val)
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case json.Number:
		return numberValue(val)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			converted, err := FromGo(elem)
			if err != nil {
				return nil, regerrors.NewCanonicalisationError("array[%d]: %v", i, err)
			}
			arr[i] = converted
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			converted, err := FromGo(elem)
			if err != nil {
				return nil, regerrors.NewCanonicalisationError("object[%q]: %v", k, err)
			}
			obj[k] = converted
		}
		return obj, nil
	default:
		return nil, regerrors.NewCanonicalisationError("unsupported type %T", v)
	}
}

// uintValue converts a uint64, rejecting values that do not fit in int64
// rather than silently losing precision through a float.
func uintValue(v uint64) (Value, error) {
	if v > math.MaxInt64 {
		return nil, regerrors.NewCanonicalisationError("unsigned value %d overflows int64", v)
	}
	return Int(v), nil
}

// numberValue converts a json.Number, preferring the integer representation.
func numberValue(n json.Number) (Value, error) {
	if i, err := n.Int64(); err == nil {
		return Int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, regerrors.NewCanonicalisationError("number %q out of range", string(n))
	}
	return Float(f), nil
}

// Parse decodes raw JSON into a Value. Numbers without a fractional part or
// exponent that fit in int64 decode as Int; everything else decodes as
// Float. Trailing data after the first value is an error.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, regerrors.NewCanonicalisationError("parse: %v", err)
	}
	if dec.More() {
		return nil, regerrors.NewCanonicalisationError("parse: trailing data after JSON value")
	}

	return FromGo(raw)
}

// MarshalJSON implementations emit the canonical encoding, which is always
// valid JSON. This keeps any serialization of a Value byte-identical to its
// registration key.

func (v Null) MarshalJSON() ([]byte, error)   { return canonicalBytes(v) }
func (v Bool) MarshalJSON() ([]byte, error)   { return canonicalBytes(v) }
func (v Int) MarshalJSON() ([]byte, error)    { return canonicalBytes(v) }
func (v Float) MarshalJSON() ([]byte, error)  { return canonicalBytes(v) }
func (v String) MarshalJSON() ([]byte, error) { return canonicalBytes(v) }
func (v Array) MarshalJSON() ([]byte, error)  { return canonicalBytes(v) }
func (v Object) MarshalJSON() ([]byte, error) { return canonicalBytes(v) }

func canonicalBytes(v Value) ([]byte, error) {
	s, err := Canonicalise(v)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalJSON implements json.Unmarshaler for Object.
func (obj *Object) UnmarshalJSON(data []byte) error {
	v, err := Parse(data)
	if err != nil {
		return err
	}
	o, ok := v.(Object)
	if !ok {
		return fmt.Errorf("expected JSON object, got %T", v)
	}
	*obj = o
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for Array.
func (arr *Array) UnmarshalJSON(data []byte) error {
	v, err := Parse(data)
	if err != nil {
		return err
	}
	a, ok := v.(Array)
	if !ok {
		return fmt.Errorf("expected JSON array, got %T", v)
	}
	*arr = a
	return nil
}
