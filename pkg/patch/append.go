package patch

import (
	"strings"

	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/yamldoc"
)

// Append inserts a new item at the end of the block sequence addressed by
// target. Indentation is derived from the leading whitespace of the
// sequence's existing items; an empty sequence falls back to the
// sequence feature's own indentation plus two spaces, matching the
// conventional one-level indent for a freshly introduced list item.
type Append struct {
	Value string
}

func (o Append) apply(doc *yamldoc.Document, target route.Route) (string, error) {
	f, ok := doc.QueryExact(target)
	if !ok {
		return "", queryErr("route %q not found", target.String())
	}
	text := doc.Extract(f)
	style := yamldoc.DetectStyle(yamldoc.FeatureSequence, text)
	if style != yamldoc.StyleBlockSequence {
		return "", invalidOp("Append only supports block sequences, got %s", style)
	}

	indent := itemIndent(doc, f)
	insertAt := findContentEnd(doc, f)

	entry := strings.Repeat(" ", indent) + "- " + o.Value
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

// itemIndent returns the column of the "-" of the first item line inside
// the sequence feature, or the feature's own leading indent plus two if
// the sequence is empty.
func itemIndent(doc *yamldoc.Document, f yamldoc.Feature) int {
	li := doc.Lines()
	for line := li.LineOf(f.Start); line <= li.LineOf(f.End-1); line++ {
		start, end := li.LineRange(line)
		text := doc.Source()[start:end]
		trimmed := strings.TrimLeft(text, " ")
		if strings.HasPrefix(trimmed, "- ") || trimmed == "-" {
			return len(text) - len(trimmed)
		}
	}
	return len(leadingWhitespace(doc, f)) + 2
}
