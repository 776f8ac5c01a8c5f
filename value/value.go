// Package value defines the closed set of payload kinds the cache stores
// and the size estimation used for memory accounting.
package value

import (
	"bytes"
	"math"
)

// Kind discriminates the payload variants a Value can carry.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindList
	KindMap
)

// String returns a stable lowercase tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a tagged variant over the supported payload kinds. The zero
// Value is Nil. Container payloads (Bytes, List, Map) alias the memory
// passed to their constructors; the cache does not copy on store or read.
type Value struct {
	kind Kind
	num  int64 // Bool (0/1), Int, Float (IEEE 754 bits)
	str  string
	raw  []byte
	list []Value
	dict map[string]Value
}

// Nil returns the null payload.
func Nil() Value { return Value{} }

// Bool wraps a boolean payload.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

// Int wraps a signed integer payload.
func Int(i int64) Value { return Value{kind: KindInt, num: i} }

// Float wraps a floating point payload.
func Float(f float64) Value { return Value{kind: KindFloat, num: int64(math.Float64bits(f))} }

// String wraps a text payload.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bytes wraps a binary payload. The slice is aliased, not copied.
func Bytes(b []byte) Value { return Value{kind: KindBytes, raw: b} }

// List wraps an ordered sequence of values. The items are aliased.
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// Map wraps a string-keyed record. The map is aliased, not copied.
func Map(m map[string]Value) Value { return Value{kind: KindMap, dict: m} }

// Kind reports which variant the value carries.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether the value is the null payload.
func (v Value) IsNil() bool { return v.kind == KindNil }

// Bool returns the boolean payload, or false for any other kind.
func (v Value) Bool() bool { return v.kind == KindBool && v.num != 0 }

// Int returns the integer payload, or zero for any other kind.
func (v Value) Int() int64 {
	if v.kind != KindInt {
		return 0
	}
	return v.num
}

// Float returns the floating point payload, or zero for any other kind.
func (v Value) Float() float64 {
	if v.kind != KindFloat {
		return 0
	}
	return math.Float64frombits(uint64(v.num))
}

// String returns the text payload, or the empty string for any other kind.
func (v Value) String() string {
	if v.kind != KindString {
		return ""
	}
	return v.str
}

// Bytes returns the binary payload, or nil for any other kind.
func (v Value) Bytes() []byte {
	if v.kind != KindBytes {
		return nil
	}
	return v.raw
}

// List returns the sequence payload, or nil for any other kind.
func (v Value) List() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Map returns the record payload, or nil for any other kind.
func (v Value) Map() map[string]Value {
	if v.kind != KindMap {
		return nil
	}
	return v.dict
}

// Equal reports deep equality of two values: same kind and, for
// containers, element-wise equal contents. Floats compare by bit
// pattern, so NaN equals NaN.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool, KindInt, KindFloat:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	case KindBytes:
		return bytes.Equal(v.raw, o.raw)
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.dict) != len(o.dict) {
			return false
		}
		for k, it := range v.dict {
			ot, ok := o.dict[k]
			if !ok || !it.Equal(ot) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
