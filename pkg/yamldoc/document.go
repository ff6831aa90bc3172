// Package yamldoc wraps raw YAML source with a line index, a comment-span
// oracle, and a route-based query API that returns byte spans for keys and
// sequence indices, without losing the document's original formatting.
package yamldoc

import (
	"fmt"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/hardenedci/actionaudit/pkg/route"
)

// Document is an immutable, parsed view over a YAML source buffer. Every
// Patch operation consumes a Document and produces a new one; Documents
// are never mutated in place.
type Document struct {
	src   string
	file  *ast.File
	root  ast.Node
	lines *LineIndex

	comments []commentSpan
}

type commentSpan struct {
	start, end int
}

// QueryError reports that a Route could not be resolved against a
// Document.
type QueryError struct {
	Route route.Route
	Cause string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("yamldoc: route %q: %s", e.Route.String(), e.Cause)
}

// Parse parses src into a Document. Syntax errors surface as a plain Go
// error carrying line/column information from the underlying parser.
func Parse(src string) (*Document, error) {
	f, err := parser.ParseBytes([]byte(src), parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("yamldoc: syntax error: %w", err)
	}
	d := &Document{src: src, file: f, lines: NewLineIndex(src)}
	if len(f.Docs) > 0 {
		d.root = f.Docs[0].Body
	}
	d.comments = collectComments(f)
	return d, nil
}

// Source returns the document's raw source text.
func (d *Document) Source() string { return d.src }

// Lines returns the document's line index.
func (d *Document) Lines() *LineIndex { return d.lines }

// OffsetInsideComment reports whether the given byte offset falls inside a
// YAML comment span.
func (d *Document) OffsetInsideComment(offset int) bool {
	for _, c := range d.comments {
		if offset >= c.start && offset < c.end {
			return true
		}
	}
	return false
}

// QueryExact resolves route to the minimal Feature span: for a mapping
// entry, only the value's own span (not including the key).
func (d *Document) QueryExact(r route.Route) (Feature, bool) {
	n, keyStart, keyEnd, ok := resolveRoute(d.root, r)
	if !ok {
		return Feature{}, false
	}
	return featureOf(n, keyStart, keyEnd), true
}

// QueryPretty resolves route the same way as QueryExact, but for a
// mapping entry the returned span starts at the key.
func (d *Document) QueryPretty(r route.Route) (Feature, bool) {
	f, ok := d.QueryExact(r)
	if !ok {
		return Feature{}, false
	}
	return f.Pretty(), true
}

// Extract returns the source slice covered by f.
func (d *Document) Extract(f Feature) string {
	if f.Start < 0 || f.End > len(d.src) || f.Start > f.End {
		return ""
	}
	return d.src[f.Start:f.End]
}

// ExtractWithLeadingWhitespace returns the source slice from the start of
// f's line through f's end, i.e. including any leading indentation.
func (d *Document) ExtractWithLeadingWhitespace(f Feature) string {
	lineStart := d.lines.LineStart(d.lines.LineOf(f.Start))
	if lineStart < 0 || f.End > len(d.src) {
		return ""
	}
	return d.src[lineStart:f.End]
}

func featureOf(n ast.Node, keyStart, keyEnd int) Feature {
	tok := n.GetToken()
	start := keyStart
	if tok != nil && tok.Position != nil {
		start = tok.Position.Offset
	}
	end := start + len(n.String())
	kind := FeatureScalar
	switch n.Type() {
	case ast.MappingType, ast.MappingValueType:
		kind = FeatureMapping
	case ast.SequenceType:
		kind = FeatureSequence
	}
	ks, ke := -1, -1
	if keyStart >= 0 {
		ks, ke = keyStart, keyEnd
	}
	valStart := start
	if tok != nil && tok.Position != nil {
		valStart = tok.Position.Offset
	}
	return Feature{Kind: kind, Start: valStart, End: valStart + len(n.String()), KeyStart: ks, KeyEnd: ke}
}

// resolveRoute walks n following r, returning the resolved node plus the
// byte span of its preceding map key (keyStart < 0 if none, i.e. root or a
// sequence item).
func resolveRoute(n ast.Node, r route.Route) (ast.Node, int, int, bool) {
	keyStart, keyEnd := -1, -1
	cur := n
	for _, c := range r {
		if cur == nil {
			return nil, 0, 0, false
		}
		switch c.Kind {
		case route.Key:
			mv, ok := findMappingValue(cur, c.Key)
			if !ok {
				return nil, 0, 0, false
			}
			keyStart, keyEnd = tokenSpan(mv.Key)
			cur = mv.Value
		case route.Index:
			seq, ok := cur.(*ast.SequenceNode)
			if !ok || c.Index < 0 || c.Index >= len(seq.Values) {
				return nil, 0, 0, false
			}
			cur = seq.Values[c.Index]
			keyStart, keyEnd = -1, -1
		}
	}
	if cur == nil {
		return nil, 0, 0, false
	}
	return cur, keyStart, keyEnd, true
}

func tokenSpan(n ast.Node) (int, int) {
	tok := n.GetToken()
	if tok == nil || tok.Position == nil {
		return -1, -1
	}
	start := tok.Position.Offset
	return start, start + len(n.String())
}

func findMappingValue(n ast.Node, key string) (*ast.MappingValueNode, bool) {
	m, ok := n.(*ast.MappingNode)
	if ok {
		for _, v := range m.Values {
			if keyMatches(v.Key, key) {
				return v, true
			}
		}
		return nil, false
	}
	if mv, ok := n.(*ast.MappingValueNode); ok {
		if keyMatches(mv.Key, key) {
			return mv, true
		}
	}
	return nil, false
}

func keyMatches(k ast.Node, key string) bool {
	if s, ok := k.(*ast.StringNode); ok {
		return s.Value == key
	}
	return k.String() == key
}

// goccy attaches comment groups at parse time (parser.ParseComments);
// walking the full node tree for *ast.CommentGroupNode covers both
// leading and trailing comments.
func collectComments(f *ast.File) []commentSpan {
	var out []commentSpan
	for _, doc := range f.Docs {
		walkComments(doc.Body, &out)
	}
	return out
}

func walkComments(n ast.Node, out *[]commentSpan) {
	if n == nil {
		return
	}
	if cg := n.GetComment(); cg != nil {
		tok := cg.GetToken()
		if tok != nil && tok.Position != nil {
			*out = append(*out, commentSpan{start: tok.Position.Offset, end: tok.Position.Offset + len(cg.String())})
		}
	}
	switch v := n.(type) {
	case *ast.MappingNode:
		for _, mv := range v.Values {
			walkComments(mv, out)
		}
	case *ast.MappingValueNode:
		walkComments(v.Key, out)
		walkComments(v.Value, out)
	case *ast.SequenceNode:
		for _, e := range v.Values {
			walkComments(e, out)
		}
	}
}
