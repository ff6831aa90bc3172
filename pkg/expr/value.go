package expr

import (
	"encoding/json"
	"fmt"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindMap
)

// Value is the four-way (plus array/map) result of constant-evaluating an
// expression: string, number, bool, null, array of values, or a
// string-keyed mapping of values.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	Arr  []Value
	Map  map[string]Value
}

func Null() Value           { return Value{Kind: KindNull} }
func String(s string) Value { return Value{Kind: KindString, Str: s} }
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func Boolean(b bool) Value   { return Value{Kind: KindBool, Bool: b} }
func Array(v []Value) Value  { return Value{Kind: KindArray, Arr: v} }
func Mapping(m map[string]Value) Value { return Value{Kind: KindMap, Map: m} }

// IsPrimitive reports whether v is string, number, bool, or null — i.e.
// not an array or mapping.
func (v Value) IsPrimitive() bool {
	return v.Kind == KindString || v.Kind == KindNumber || v.Kind == KindBool || v.Kind == KindNull
}

// ToGoString stringifies v the way GitHub Actions expression evaluation
// does when coercing to a string context (e.g. for format() substitution
// or join()): numbers print without a trailing ".0" when integral, bool as
// "true"/"false", null as "", arrays/maps fall back to a JSON rendering.
func (v Value) ToGoString() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindString:
		return v.Str
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		if v.Num == float64(int64(v.Num)) {
			return fmt.Sprintf("%d", int64(v.Num))
		}
		return fmt.Sprintf("%g", v.Num)
	default:
		b, err := v.MarshalJSONCompact()
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// MarshalJSONCompact renders v as compact JSON, failing if v contains a
// tagged/non-JSON-representable leaf (none exist today, but this mirrors
// the fallible toJSON contract).
func (v Value) MarshalJSONCompact() ([]byte, error) {
	return json.Marshal(v.toAny())
}

// MarshalJSONPretty renders v as GitHub's toJSON() does: two-space
// indented JSON.
func (v Value) MarshalJSONPretty() ([]byte, error) {
	return json.MarshalIndent(v.toAny(), "", "  ")
}

func (v Value) toAny() any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	case KindArray:
		out := make([]any, len(v.Arr))
		for i, e := range v.Arr {
			out[i] = e.toAny()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.Map))
		for k, e := range v.Map {
			out[k] = e.toAny()
		}
		return out
	}
	return nil
}

// FromJSON parses raw JSON text into a Value. Used by the fromJSON()
// builtin.
func FromJSON(raw string) (Value, error) {
	var a any
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return Value{}, fmt.Errorf("fromJSON: %w", err)
	}
	return fromAny(a), nil
}

func fromAny(a any) Value {
	switch x := a.(type) {
	case nil:
		return Null()
	case string:
		return String(x)
	case float64:
		return Number(x)
	case bool:
		return Boolean(x)
	case []any:
		out := make([]Value, len(x))
		for i, e := range x {
			out[i] = fromAny(e)
		}
		return Array(out)
	case map[string]any:
		out := make(map[string]Value, len(x))
		for k, e := range x {
			out[k] = fromAny(e)
		}
		return Mapping(out)
	default:
		return Null()
	}
}

// Equal reports structural equality, ignoring map key order.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindString:
		return v.Str == other.Str
	case KindNumber:
		return v.Num == other.Num
	case KindBool:
		return v.Bool == other.Bool
	case KindArray:
		if len(v.Arr) != len(other.Arr) {
			return false
		}
		for i := range v.Arr {
			if !v.Arr[i].Equal(other.Arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.Map) != len(other.Map) {
			return false
		}
		for k, e := range v.Map {
			oe, ok := other.Map[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	}
	return false
}
