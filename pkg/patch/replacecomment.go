package patch

import (
	"strings"

	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/yamldoc"
)

// ReplaceComment replaces the single trailing comment of the addressed
// feature. If the feature has no trailing comment, this is a no-op; if it
// has more than one "# ..." fragment on its line(s), this is an error
// (ambiguous which one to rewrite).
type ReplaceComment struct {
	New string
}

func (o ReplaceComment) apply(doc *yamldoc.Document, target route.Route) (string, error) {
	f, ok := doc.QueryExact(target)
	if !ok {
		return "", queryErr("route %q not found", target.String())
	}
	li := doc.Lines()
	line := li.LineOf(f.End - 1)
	start, end := li.LineRange(line)
	text := doc.Source()[start:end]

	hashIdx := findTrailingCommentStart(text)
	if hashIdx < 0 {
		return doc.Source(), nil // no-op
	}
	if strings.Count(text[hashIdx+1:], "#") > 0 {
		return "", invalidOp("feature has more than one comment fragment")
	}

	commentStart := start + hashIdx
	return spliceAt(doc.Source(), commentStart, end, "# "+strings.TrimPrefix(o.New, "# ")), nil
}

// findTrailingCommentStart locates the index of the first '#' in text
// that begins a comment (not inside a quoted string).
func findTrailingCommentStart(text string) int {
	inSingle, inDouble := false, false
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		case '#':
			if !inSingle && !inDouble {
				return i
			}
		}
	}
	return -1
}
