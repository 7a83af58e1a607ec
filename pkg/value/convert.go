package value

import (
	"fmt"
)

// FromAny converts a decoded payload tree into a Value.
//
// Supported inputs are nil, bool, every Go integer and float type, string,
// Value, []Value, map[string]Value, []any, map[string]any and map[any]any
// with string keys (the shape generic decoders produce). Anything else fails
// with ErrUnsupportedType.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Number(float64(t)), nil
	case int8:
		return Number(float64(t)), nil
	case int16:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint8:
		return Number(float64(t)), nil
	case uint16:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case []Value:
		return Seq(t...), nil
	case map[string]Value:
		return Map(t), nil
	case []any:
		seq := make([]Value, len(t))
		for i, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return Null(), fmt.Errorf("index %d: %w", i, err)
			}
			seq[i] = v
		}
		return Value{kind: KindSequence, seq: seq}, nil
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return Null(), fmt.Errorf("key %q: %w", k, err)
			}
			m[k] = v
		}
		return Value{kind: KindMap, m: m}, nil
	case map[any]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			key, ok := k.(string)
			if !ok {
				return Null(), fmt.Errorf("%w: map key %T", ErrUnsupportedType, k)
			}
			v, err := FromAny(e)
			if err != nil {
				return Null(), fmt.Errorf("key %q: %w", key, err)
			}
			m[key] = v
		}
		return Value{kind: KindMap, m: m}, nil
	default:
		return Null(), fmt.Errorf("%w: %T", ErrUnsupportedType, x)
	}
}

// MustFromAny is like FromAny but panics on error. Intended for literals in
// tests and examples.
func MustFromAny(x any) Value {
	v, err := FromAny(x)
	if err != nil {
		panic(err)
	}
	return v
}

// Any converts v back into plain Go types: nil, bool, float64, string,
// map[string]any and []any.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindMap:
		m := make(map[string]any, len(v.m))
		for k, e := range v.m {
			m[k] = e.Any()
		}
		return m
	case KindSequence:
		s := make([]any, len(v.seq))
		for i, e := range v.seq {
			s[i] = e.Any()
		}
		return s
	default:
		return nil
	}
}
