package patch

import (
	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/yamldoc"
)

// MergeInto merges a set of key/value updates into the mapping at
// route/key: if route/key exists and both the current and new values are
// mappings, each pair in Updates is applied as a Replace if the sub-key is
// present, or an Add if it is absent. If the existing value at key is not
// a mapping, it is replaced wholesale with a synthesized mapping. If key
// itself is absent, it is added.
type MergeInto struct {
	Key     string
	Updates map[string]string
}

func (o MergeInto) apply(doc *yamldoc.Document, target route.Route) (string, error) {
	childRoute := target.Key(o.Key)
	f, ok := doc.QueryExact(childRoute)
	if !ok {
		return Add{Key: o.Key, Value: synthesizeFlowMapping(o.Updates)}.apply(doc, target)
	}

	existing := doc.Extract(f)
	if !looksLikeMapping(existing) {
		return Replace{Value: synthesizeFlowMapping(o.Updates)}.apply(doc, childRoute)
	}

	cur := doc
	for k, v := range o.Updates {
		subRoute := childRoute.Key(k)
		if _, ok := cur.QueryExact(subRoute); ok {
			newSrc, err := Replace{Value: v}.apply(cur, subRoute)
			if err != nil {
				return "", err
			}
			reparsed, perr := yamldoc.Parse(newSrc)
			if perr != nil {
				return "", &Error{Kind: Serialization, Cause: perr.Error()}
			}
			cur = reparsed
			continue
		}
		newSrc, err := Add{Key: k, Value: v}.apply(cur, childRoute)
		if err != nil {
			return "", err
		}
		reparsed, perr := yamldoc.Parse(newSrc)
		if perr != nil {
			return "", &Error{Kind: Serialization, Cause: perr.Error()}
		}
		cur = reparsed
	}
	return cur.Source(), nil
}

func looksLikeMapping(text string) bool {
	for _, r := range text {
		switch r {
		case ' ', '\t', '\n':
			continue
		case '{':
			return true
		default:
			return containsColon(text)
		}
	}
	return false
}

func containsColon(text string) bool {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case ':':
			return true
		}
	}
	return false
}

func synthesizeFlowMapping(updates map[string]string) string {
	s := "{ "
	first := true
	for k, v := range updates {
		if !first {
			s += ", "
		}
		first = false
		s += k + ": " + v
	}
	return s + " }"
}
