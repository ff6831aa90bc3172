package patch

import (
	"strings"

	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/yamldoc"
)

// Add inserts "key: value" into the mapping addressed by target. It fails
// if the mapping already has key. The insertion point is the end of the
// mapping's content, excluding trailing comments (see findContentEnd): if
// that point precedes the feature's end, the inserted entry is followed
// by a newline so trailing comments remain on their own lines.
//
// Flow mappings are handled by deserializing, inserting, and
// re-serializing in single-line flow style; trailing commas/comments
// outside the braces survive because only the feature's span is
// rewritten. Multi-line flow mappings reject the add (documented
// limitation).
type Add struct {
	Key   string
	Value string
}

func (o Add) apply(doc *yamldoc.Document, target route.Route) (string, error) {
	f, ok := doc.QueryExact(target)
	if !ok {
		return "", queryErr("route %q not found", target.String())
	}
	text := doc.Extract(f)

	if _, ok := doc.QueryExact(target.Key(o.Key)); ok {
		return "", invalidOp("mapping already has key %q", o.Key)
	}

	style := yamldoc.DetectStyle(yamldoc.FeatureMapping, text)
	switch style {
	case yamldoc.StyleFlowMapping:
		return handleFlowMappingAddition(doc, f, o.Key, o.Value)
	case yamldoc.StyleMultilineFlowMapping:
		return "", invalidOp("Add does not support multi-line flow mappings")
	default:
		return handleBlockMappingAddition(doc, f, o.Key, o.Value)
	}
}

func handleBlockMappingAddition(doc *yamldoc.Document, f yamldoc.Feature, key, value string) (string, error) {
	indent := leadingIndentationForBlockItem(doc, f)
	insertAt := findContentEnd(doc, f)

	entry := strings.Repeat(" ", indent) + key + ": " + value
	needsLeadingNL := insertAt > f.Start && doc.Source()[insertAt-1] != '\n'
	needsTrailingNL := insertAt < f.End

	var b strings.Builder
	if needsLeadingNL {
		b.WriteByte('\n')
	}
	b.WriteString(entry)
	if needsTrailingNL {
		b.WriteByte('\n')
	}

	return spliceAt(doc.Source(), insertAt, insertAt, b.String()), nil
}

func handleFlowMappingAddition(doc *yamldoc.Document, f yamldoc.Feature, key, value string) (string, error) {
	text := strings.TrimSpace(doc.Extract(f))
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "{"), "}")
	inner = strings.TrimSpace(inner)

	entry := key + ": " + value
	var newInner string
	if inner == "" {
		newInner = entry
	} else {
		newInner = inner + ", " + entry
	}
	return spliceAt(doc.Source(), f.Start, f.End, "{ "+newInner+" }"), nil
}
