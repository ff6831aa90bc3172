package patch

import (
	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/yamldoc"
)

// Remove deletes the addressed feature's entire line(s), including its
// key prefix if it is a mapping entry and any leading indentation on its
// first line.
type Remove struct{}

func (Remove) apply(doc *yamldoc.Document, target route.Route) (string, error) {
	f, ok := doc.QueryExact(target)
	if !ok {
		return "", queryErr("route %q not found", target.String())
	}
	pf := f.Pretty()
	li := doc.Lines()

	startLine := li.LineOf(pf.Start)
	endLine := li.LineOf(pf.End - 1)
	lineStart, _ := li.LineRange(startLine)
	_, lineEnd := li.LineRange(endLine)

	src := doc.Source()
	removeEnd := lineEnd
	if removeEnd < len(src) && src[removeEnd] == '\n' {
		removeEnd++
	}
	out := src[:lineStart] + src[removeEnd:]
	return out, nil
}
