package underwriting

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
)

// Kind tags the shape of an untyped payload value.
type Kind uint8

const (
	// KindNull covers JSON null as well as missing fields.
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is a JSON value of unknown shape received from the underwriting service.
// The zero Value is null. Values are read-only once built.
type Value struct {
	kind    Kind
	boolean bool
	number  float64
	text    string
	items   []Value
	fields  map[string]Value
}

// NullValue returns the null value.
func NullValue() Value { return Value{} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: KindBool, boolean: b} }

// NumberValue wraps a number. Non-finite numbers are kept as-is and rejected by coercion.
func NumberValue(n float64) Value { return Value{kind: KindNumber, number: n} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, text: s} }

// ArrayValue wraps an ordered sequence.
func ArrayValue(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// ObjectValue wraps a keyed object.
func ObjectValue(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: KindObject, fields: fields}
}

// DecodeValue parses a JSON document. Malformed input yields null.
func DecodeValue(data []byte) Value {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}
	}
	return ValueOf(raw)
}

// ValueOf adapts an already decoded Go value (as produced by encoding/json) into a Value.
// Unsupported types collapse to null.
func ValueOf(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Value{}
	case Value:
		return v
	case bool:
		return BoolValue(v)
	case json.Number:
		return NumberValue(parseJSONNumber(v))
	case float64:
		return NumberValue(v)
	case float32:
		return NumberValue(float64(v))
	case int:
		return NumberValue(float64(v))
	case int32:
		return NumberValue(float64(v))
	case int64:
		return NumberValue(float64(v))
	case uint:
		return NumberValue(float64(v))
	case uint32:
		return NumberValue(float64(v))
	case uint64:
		return NumberValue(float64(v))
	case string:
		return StringValue(v)
	case []any:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			items = append(items, ValueOf(item))
		}
		return ArrayValue(items...)
	case []string:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			items = append(items, StringValue(item))
		}
		return ArrayValue(items...)
	case map[string]any:
		fields := make(map[string]Value, len(v))
		for key, item := range v {
			fields[key] = ValueOf(item)
		}
		return ObjectValue(fields)
	default:
		return Value{}
	}
}

// parseJSONNumber keeps overflowing literals as ±Inf so coercion can reject them.
func parseJSONNumber(n json.Number) float64 {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

// Kind reports the shape of the value.
func (v Value) Kind() Kind { return v.kind }

// Field returns the named member of an object. Missing members and non-objects yield null.
func (v Value) Field(key string) Value {
	if v.kind != KindObject {
		return Value{}
	}
	return v.fields[key]
}

// Items returns the elements of an array, or nil for any other kind.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.items
}

// Truthy mirrors loose truthiness: null, false, 0, NaN and "" are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.boolean
	case KindNumber:
		return v.number != 0 && !math.IsNaN(v.number)
	case KindString:
		return v.text != ""
	case KindArray, KindObject:
		return true
	default:
		return false
	}
}
