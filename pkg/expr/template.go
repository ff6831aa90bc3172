package expr

import "strings"

// TemplateMatch is one "${{ ... }}" occurrence found inside arbitrary text
// (a run: script, an if: condition written with the optional wrapper, an
// env: value, etc.), along with the byte span of the whole "${{ ... }}"
// token and the parsed inner expression.
type TemplateMatch struct {
	Start, End int // span of the full "${{ ... }}" token within the input
	Inner      string
	Expr       Node
	ParseErr   error
}

// FindTemplateExpressions scans src for every "${{ ... }}" occurrence and
// parses the inner expression. A malformed inner expression is still
// reported (with ParseErr set) so callers can decide whether to warn.
func FindTemplateExpressions(src string) []TemplateMatch {
	var out []TemplateMatch
	pos := 0
	for {
		openRel := strings.Index(src[pos:], "${{")
		if openRel < 0 {
			break
		}
		open := pos + openRel
		closeRel := strings.Index(src[open:], "}}")
		if closeRel < 0 {
			break
		}
		end := open + closeRel + 2
		inner := strings.TrimSpace(src[open+3 : open+closeRel])
		n, err := Parse(inner)
		out = append(out, TemplateMatch{Start: open, End: end, Inner: inner, Expr: n, ParseErr: err})
		pos = end
	}
	return out
}

// BareIfExpr parses an if: condition, which GitHub Actions evaluates as a
// bare expression unless the author wrapped it in "${{ }}" (both forms are
// legal and equivalent).
func BareIfExpr(raw string) (Node, error) {
	t := strings.TrimSpace(raw)
	if strings.HasPrefix(t, "${{") && strings.HasSuffix(t, "}}") {
		t = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(t, "${{"), "}}"))
	}
	return Parse(t)
}
