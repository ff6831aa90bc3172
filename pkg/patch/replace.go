package patch

import (
	"strings"

	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/yamldoc"
)

// Replace replaces the addressed feature's value in place. For a
// mapping-entry route, the key prefix and its surrounding spacing are
// preserved — only the value span is rewritten. If the existing value
// uses literal-block style ("|") and the new value is a plain string,
// the replacement is re-wrapped as a literal block with matching
// indentation.
type Replace struct {
	Value string
}

func (o Replace) apply(doc *yamldoc.Document, target route.Route) (string, error) {
	f, ok := doc.QueryExact(target)
	if !ok {
		return "", queryErr("route %q not found", target.String())
	}
	existing := doc.Extract(f)
	style := yamldoc.DetectStyle(yamldoc.FeatureScalar, existing)

	indent := leadingIndentationForBlockItem(doc, f)
	value := o.Value

	if style == yamldoc.StyleMultilineLiteralScalar && !looksLikeBlockScalar(value) {
		value = toLiteralBlock(value, indent)
	} else if strings.Contains(value, "\n") {
		value = indentMultilineYAML(value, indent)
	}

	return spliceAt(doc.Source(), f.Start, f.End, value), nil
}

func looksLikeBlockScalar(s string) bool {
	t := strings.TrimSpace(s)
	return strings.HasPrefix(t, "|") || strings.HasPrefix(t, ">")
}

func toLiteralBlock(value string, indent int) string {
	prefix := strings.Repeat(" ", indent)
	lines := strings.Split(value, "\n")
	var b strings.Builder
	b.WriteString("|\n")
	for i, l := range lines {
		b.WriteString(prefix)
		b.WriteString(l)
		if i != len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
