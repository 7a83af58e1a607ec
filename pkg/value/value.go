package value

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Kind identifies which case of the union a Value holds.
type Kind uint8

const (
	// KindNull is the absent/explicitly-null value. The zero Value is Null.
	KindNull Kind = iota
	// KindBool is a boolean.
	KindBool
	// KindNumber is a float64-precision number.
	KindNumber
	// KindString is a UTF-8 string.
	KindString
	// KindMap is a string-keyed mapping.
	KindMap
	// KindSequence is an ordered list.
	KindSequence
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindMap:
		return "map"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Accessor errors.
var (
	ErrNotNumber       = errors.New("value is not a number")
	ErrNotInteger      = errors.New("number is not an integer")
	ErrUnsupportedType = errors.New("unsupported type")
)

// Value is an immutable tagged union. Use the constructors to build one.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	m    map[string]Value
	seq  []Value
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number returns a numeric value.
func Number(n float64) Value {
	return Value{kind: KindNumber, n: n}
}

// Int returns a numeric value holding i.
func Int(i int64) Value {
	return Value{kind: KindNumber, n: float64(i)}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Map returns a map value. The given map is copied.
func Map(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: KindMap, m: cp}
}

// Seq returns a sequence value. The given values are copied.
func Seq(values ...Value) Value {
	cp := make([]Value, len(values))
	copy(cp, values)
	return Value{kind: KindSequence, seq: cp}
}

// Kind returns the case held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is Null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the boolean and true if v is a Bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsNumber returns the number held by v. It fails with ErrNotNumber for any
// other kind.
func (v Value) AsNumber() (float64, error) {
	if v.kind != KindNumber {
		return 0, fmt.Errorf("%w: got %s", ErrNotNumber, v.kind)
	}
	return v.n, nil
}

// AsInt returns the number held by v as an int64. It fails rather than
// truncating when the number has a fractional part or is out of range.
func (v Value) AsInt() (int64, error) {
	n, err := v.AsNumber()
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %v", ErrNotInteger, n)
	}
	return int64(n), nil
}

// AsString returns the string and true if v is a String.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// AsMap returns a copy of the mapping and true if v is a Map.
func (v Value) AsMap() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	cp := make(map[string]Value, len(v.m))
	for k, e := range v.m {
		cp[k] = e
	}
	return cp, true
}

// AsSeq returns a copy of the elements and true if v is a Sequence.
func (v Value) AsSeq() ([]Value, bool) {
	if v.kind != KindSequence {
		return nil, false
	}
	cp := make([]Value, len(v.seq))
	copy(cp, v.seq)
	return cp, true
}

// Len returns the number of entries of a Map or elements of a Sequence, and 0
// for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case KindMap:
		return len(v.m)
	case KindSequence:
		return len(v.seq)
	default:
		return 0
	}
}

// Index returns the i-th element of a Sequence. It returns Null when v is not
// a Sequence or i is out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindSequence || i < 0 || i >= len(v.seq) {
		return Null()
	}
	return v.seq[i]
}

// Get returns the entry for key of a Map.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Null(), false
	}
	e, ok := v.m[key]
	return e, ok
}

// Keys returns the keys of a Map in sorted order.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether v and o are structurally equal. Numbers compare by
// value, with all NaNs equal to each other.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		// NaN equals NaN so that every Value equals itself.
		return v.n == o.n || (math.IsNaN(v.n) && math.IsNaN(o.n))
	case KindString:
		return v.s == o.s
	case KindMap:
		if len(v.m) != len(o.m) {
			return false
		}
		for k, e := range v.m {
			oe, ok := o.m[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	case KindSequence:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
