package yamldoc

import (
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/ast"
)

// OrderedMap is a string-keyed mapping that preserves the source's key
// order, since GitHub Actions model construction (job/step iteration) must
// walk entities in the order the author wrote them.
type OrderedMap struct {
	Keys   []string
	values map[string]any
}

// Get looks up key, returning its decoded value (string, []any, or
// *OrderedMap) and whether it was present.
func (m *OrderedMap) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// GetString looks up key and type-asserts it to a plain scalar string.
func (m *OrderedMap) GetString(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetMap looks up key and type-asserts it to an *OrderedMap.
func (m *OrderedMap) GetMap(key string) (*OrderedMap, bool) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	om, ok := v.(*OrderedMap)
	return om, ok
}

// GetSeq looks up key and type-asserts it to a []any.
func (m *OrderedMap) GetSeq(key string) ([]any, bool) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	seq, ok := v.([]any)
	return seq, ok
}

// Decode walks the document's root node into a generic, order-preserving
// tree: mappings become *OrderedMap, sequences become []any, and scalars
// become their raw string representation (callers interpret booleans and
// numbers as needed, since GitHub Actions YAML is liberal about quoting).
func (d *Document) Decode() any {
	if d.root == nil {
		return nil
	}
	return decodeNode(d.root)
}

func decodeNode(n ast.Node) any {
	switch v := n.(type) {
	case *ast.MappingNode:
		om := &OrderedMap{values: map[string]any{}}
		for _, mv := range v.Values {
			key := scalarKey(mv.Key)
			om.Keys = append(om.Keys, key)
			om.values[key] = decodeNode(mv.Value)
		}
		return om
	case *ast.MappingValueNode:
		om := &OrderedMap{values: map[string]any{}}
		key := scalarKey(v.Key)
		om.Keys = append(om.Keys, key)
		om.values[key] = decodeNode(v.Value)
		return om
	case *ast.SequenceNode:
		out := make([]any, len(v.Values))
		for i, e := range v.Values {
			out[i] = decodeNode(e)
		}
		return out
	case nil:
		return nil
	default:
		return scalarText(n)
	}
}

func scalarKey(n ast.Node) string {
	if s, ok := n.(*ast.StringNode); ok {
		return s.Value
	}
	return strings.TrimSpace(n.String())
}

func scalarText(n ast.Node) string {
	if s, ok := n.(*ast.StringNode); ok {
		return s.Value
	}
	return strings.TrimSpace(n.String())
}

// ToBool coerces a decoded scalar the way GitHub Actions does for
// boolean-typed YAML fields: only the literal string "false" (any case)
// is false; every other non-empty value, including arbitrary text, is
// true; an absent/empty value is false.
func ToBool(raw string) bool {
	t := strings.TrimSpace(raw)
	if t == "" {
		return false
	}
	return !strings.EqualFold(t, "false")
}

// ToInt best-effort parses raw as an integer, defaulting to 0.
func ToInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}
