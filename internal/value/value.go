// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package value defines goul runtime values.
package value

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Value is the closed set of runtime values: Int, BigInt, Float, Str, Bool,
// Null, List and *Map.
type Value interface {
	// String returns the canonical text form used by echo, print and concatenation.
	String() string
	// Type returns the runtime tag name reported by type().
	Type() string

	isValue()
}

// Int is an integer number (a literal without a decimal point).
type Int struct {
	V int64
}

func (i Int) String() string { return strconv.FormatInt(i.V, 10) }
func (i Int) Type() string   { return "int" }
func (Int) isValue()         {}

// BigInt is an integer outside the int64 range. Both integer kinds report
// type "int"; results that fit are always returned as Int.
type BigInt struct {
	V *big.Int
}

func (b BigInt) String() string { return b.V.String() }
func (b BigInt) Type() string   { return "int" }
func (BigInt) isValue()         {}

// NewInt returns n as an Int when it fits in int64, else as a BigInt.
func NewInt(n *big.Int) Value {
	if n.IsInt64() {
		return Int{V: n.Int64()}
	}
	return BigInt{V: n}
}

// Float is a floating point number (a literal with a decimal point, or any
// division result).
type Float struct {
	V float64
}

func (f Float) String() string { return FormatFloat(f.V) }
func (f Float) Type() string   { return "float" }
func (Float) isValue()         {}

// Str is a string.
type Str struct {
	V string
}

func (s Str) String() string { return s.V }
func (s Str) Type() string   { return "str" }
func (Str) isValue()         {}

// Bool is true or false.
type Bool struct {
	V bool
}

func (b Bool) String() string {
	if b.V {
		return "true"
	}
	return "false"
}
func (b Bool) Type() string { return "bool" }
func (Bool) isValue()       {}

// Null is the absent value. It prints as empty text.
type Null struct{}

func (Null) String() string { return "" }
func (Null) Type() string   { return "null" }
func (Null) isValue()       {}

// List is an ordered sequence of values.
type List struct {
	Items []Value
}

func (l List) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, item := range l.Items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(quoted(item))
	}
	sb.WriteByte(']')
	return sb.String()
}
func (l List) Type() string { return "list" }
func (List) isValue()       {}

// Map is a string-keyed mapping that remembers insertion order.
type Map struct {
	keys    []string
	entries map[string]Value
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{entries: make(map[string]Value)}
}

// Set stores v under key, keeping the key's original position if it exists.
func (m *Map) Set(key string, v Value) {
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = v
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

func (m *Map) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(quoted(m.entries[k]))
	}
	sb.WriteByte('}')
	return sb.String()
}
func (m *Map) Type() string { return "dict" }
func (*Map) isValue()       {}

// quoted renders strings inside containers with quotes so that
// ["1"] and [1] stay distinguishable.
func quoted(v Value) string {
	if s, ok := v.(Str); ok {
		return strconv.Quote(s.V)
	}
	return v.String()
}

// FormatFloat renders a float the way script authors expect: integral values
// keep a trailing ".0", very large or very small magnitudes use exponent form.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// ParseNumber parses a number literal. Text containing '.' or written in
// exponent form yields a Float, any other integer literal an Int or, beyond
// the int64 range, a BigInt.
func ParseNumber(s string) (Value, bool) {
	if s == "" || strings.ContainsAny(s, "_xXpP") {
		return nil, false
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") {
		return nil, false
	}
	if !strings.ContainsAny(s, ".eE") {
		i, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return Int{V: i}, true
		}
		if errors.Is(err, strconv.ErrRange) {
			if n, ok := new(big.Int).SetString(strings.TrimPrefix(s, "+"), 10); ok {
				return NewInt(n), true
			}
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return Float{V: f}, true
}

// IsNumber reports whether v is an integer or a Float.
func IsNumber(v Value) bool {
	switch v.(type) {
	case Int, BigInt, Float:
		return true
	}
	return false
}
