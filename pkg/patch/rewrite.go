package patch

import (
	"strings"

	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/yamldoc"
)

// RewriteFragment extracts the addressed feature, locates the first
// occurrence of From at or after byte offset After within the extracted
// text, and replaces it with To. It fails if the feature is missing or
// the needle is not found.
type RewriteFragment struct {
	From  string
	To    string
	After int
}

func (o RewriteFragment) apply(doc *yamldoc.Document, target route.Route) (string, error) {
	f, ok := doc.QueryExact(target)
	if !ok {
		return "", queryErr("route %q not found", target.String())
	}
	text := doc.Extract(f)
	if o.After > len(text) {
		return "", invalidOp("after offset %d exceeds feature length %d", o.After, len(text))
	}
	idx := strings.Index(text[o.After:], o.From)
	if idx < 0 {
		return "", invalidOp("fragment %q not found in feature", o.From)
	}
	idx += o.After
	newText := text[:idx] + o.To + text[idx+len(o.From):]
	return spliceAt(doc.Source(), f.Start, f.End, newText), nil
}
