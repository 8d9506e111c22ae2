// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package study wraps raw registry study objects in a tagged JSON value
// with absence-tolerant path lookup. Every field extraction in the pipeline
// goes through Value.Lookup, so a missing or reshaped field resolves to
// "not found" instead of failing.
package study

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the JSON type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "null"
	}
}

// Value is a decoded JSON value. The zero Value is null, which is also what
// a failed lookup returns.
type Value struct {
	raw any
}

// Parse decodes a single JSON document. Numbers are kept as json.Number so
// integers survive without float rounding.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("decoding JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("decoding JSON: unexpected data after top-level value")
	}
	return Value{raw: raw}, nil
}

// MustParse is Parse for fixtures and defaults known to be valid.
func MustParse(s string) Value {
	v, err := Parse([]byte(s))
	if err != nil {
		panic(err)
	}
	return v
}

// From wraps an already-decoded Go value (maps, slices, strings, bools and
// any numeric type).
func From(raw any) Value {
	return Value{raw: raw}
}

// Raw returns the underlying decoded value.
func (v Value) Raw() any { return v.raw }

// Kind reports the JSON type of v.
func (v Value) Kind() Kind {
	switch v.raw.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case json.Number, float64, float32, int, int64, int32, uint, uint64, uint32:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	default:
		return KindNull
	}
}

// IsNull reports whether v is JSON null or absent.
func (v Value) IsNull() bool { return v.Kind() == KindNull }

// Field returns the member key of an object value.
func (v Value) Field(key string) (Value, bool) {
	m, ok := v.raw.(map[string]any)
	if !ok {
		return Value{}, false
	}
	child, ok := m[key]
	if !ok {
		return Value{}, false
	}
	return Value{raw: child}, true
}

// Lookup walks a dot-delimited path. It returns the terminal value only if
// every intermediate value is an object containing the next key.
func (v Value) Lookup(path string) (Value, bool) {
	cur := v
	for _, part := range strings.Split(path, ".") {
		next, ok := cur.Field(part)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// First returns the value at the first path that resolves to something
// other than null, an empty array or an empty string.
func (v Value) First(paths []string) (Value, bool) {
	for _, path := range paths {
		c, ok := v.Lookup(path)
		if !ok || c.IsNull() {
			continue
		}
		if c.Kind() == KindArray && len(c.Items()) == 0 {
			continue
		}
		if text, ok := c.Str(); ok && text == "" {
			continue
		}
		return c, true
	}
	return Value{}, false
}

// Str returns the string held by v.
func (v Value) Str() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

// Float returns the numeric value of v.
func (v Value) Float() (float64, bool) {
	switch n := v.raw.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	}
	return 0, false
}

// Int returns v as an int when it is an integral number.
func (v Value) Int() (int, bool) {
	switch n := v.raw.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case uint:
		return int(n), true
	case uint64:
		return int(n), true
	case uint32:
		return int(n), true
	}
	f, ok := v.Float()
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// Items returns the elements of an array value, or nil.
func (v Value) Items() []Value {
	arr, ok := v.raw.([]any)
	if !ok {
		return nil
	}
	out := make([]Value, len(arr))
	for i, item := range arr {
		out[i] = Value{raw: item}
	}
	return out
}

// Text renders a scalar as text: strings verbatim, numbers in their literal
// form, booleans as true/false. Arrays, objects and null report false.
func (v Value) Text() (string, bool) {
	switch x := v.raw.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case json.Number:
		return x.String(), true
	}
	if f, ok := v.Float(); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}

// MarshalJSON encodes the underlying value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

// UnmarshalJSON decodes into v, keeping numbers as json.Number.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Compact returns v encoded as compact JSON, or "" if it cannot be encoded.
func (v Value) Compact() string {
	data, err := json.Marshal(v.raw)
	if err != nil {
		return ""
	}
	return string(data)
}
