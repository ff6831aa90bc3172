package yamldoc

import "strconv"

// ToJSONValue recursively converts a Decode() tree (*OrderedMap, []any,
// string scalars) into plain JSON-ready values (map[string]any, []any,
// bool, float64, string) so it can be validated against a JSON Schema or
// marshaled with encoding/json. Key order is lost in the process, which is
// fine: schema validation and JSON marshaling don't depend on it.
func ToJSONValue(v any) any {
	switch t := v.(type) {
	case *OrderedMap:
		out := make(map[string]any, len(t.Keys))
		for _, k := range t.Keys {
			val, _ := t.Get(k)
			out[k] = ToJSONValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ToJSONValue(e)
		}
		return out
	case string:
		return coerceScalar(t)
	default:
		return v
	}
}

// coerceScalar best-effort interprets a raw YAML scalar string as a JSON
// bool/number when it unambiguously looks like one, otherwise leaves it as
// a string. This mirrors how a YAML-to-JSON round-trip would type a bare
// scalar, which the schema (written in JSON Schema's type vocabulary)
// expects.
func coerceScalar(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "null", "~":
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
