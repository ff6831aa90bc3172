// Package route defines the symbolic addressing scheme used throughout
// actionaudit: an ordered sequence of map-keys or list-indices that locates
// a sub-feature inside a YAML document without pinning down byte offsets.
package route

import (
	"fmt"
	"strconv"
	"strings"
)

// ComponentKind distinguishes a map-key component from a list-index one.
type ComponentKind int

const (
	// Key addresses a mapping entry by its string key.
	Key ComponentKind = iota
	// Index addresses a sequence entry by its zero-based position.
	Index
)

// Component is one step of a Route: either a mapping key or a sequence
// index.
type Component struct {
	Kind  ComponentKind
	Key   string
	Index int
}

// K builds a key component.
func K(key string) Component { return Component{Kind: Key, Key: key} }

// I builds an index component.
func I(i int) Component { return Component{Kind: Index, Index: i} }

func (c Component) String() string {
	if c.Kind == Key {
		return c.Key
	}
	return "[" + strconv.Itoa(c.Index) + "]"
}

// Route is an ordered sequence of Components. The empty Route addresses the
// document root.
type Route []Component

// Child returns a new Route with c appended, leaving the receiver untouched.
func (r Route) Child(c Component) Route {
	out := make(Route, len(r)+1)
	copy(out, r)
	out[len(r)] = c
	return out
}

// Key is shorthand for Child(route.K(key)).
func (r Route) Key(key string) Route { return r.Child(K(key)) }

// Index is shorthand for Child(route.I(i)).
func (r Route) Index(i int) Route { return r.Child(I(i)) }

// Parent returns the route with its last component removed, and whether one
// existed.
func (r Route) Parent() (Route, bool) {
	if len(r) == 0 {
		return nil, false
	}
	return r[:len(r)-1], true
}

// Last returns the final component, and whether the route is non-empty.
func (r Route) Last() (Component, bool) {
	if len(r) == 0 {
		return Component{}, false
	}
	return r[len(r)-1], true
}

// Equal reports whether two routes address the same sub-feature.
func (r Route) Equal(other Route) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders a dotted/bracketed path, e.g. "jobs.build.steps[2].with".
func (r Route) String() string {
	var b strings.Builder
	for i, c := range r {
		if c.Kind == Index {
			fmt.Fprintf(&b, "[%d]", c.Index)
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(c.Key)
	}
	return b.String()
}
