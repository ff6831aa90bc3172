// Package patch implements a format-preserving YAML patch engine: a
// sequence of symbolic, route-addressed edits that rewrite only the
// targeted byte regions of a document, leaving comments, indentation, and
// flow/block style elsewhere untouched.
package patch

import (
	"fmt"
	"strings"

	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/yamldoc"
)

// Op is one of the patch operations: RewriteFragment, Replace, Add,
// MergeInto, Append, ReplaceComment, or Remove.
type Op interface {
	apply(doc *yamldoc.Document, target route.Route) (string, error)
}

// Patch pairs a Route with the Op to perform at that address.
type Patch struct {
	Route route.Route
	Op    Op
}

// Error classifies why a patch sequence failed, per the three failure
// modes the engine distinguishes.
type Error struct {
	Kind  ErrorKind
	Cause string
}

type ErrorKind int

const (
	InvalidOperation ErrorKind = iota
	Query
	Serialization
)

func (e *Error) Error() string {
	var kind string
	switch e.Kind {
	case Query:
		kind = "query"
	case Serialization:
		kind = "serialization"
	default:
		kind = "invalid operation"
	}
	return fmt.Sprintf("patch: %s: %s", kind, e.Cause)
}

func invalidOp(format string, a ...any) error {
	return &Error{Kind: InvalidOperation, Cause: fmt.Sprintf(format, a...)}
}

func queryErr(format string, a ...any) error {
	return &Error{Kind: Query, Cause: fmt.Sprintf(format, a...)}
}

// Apply folds patches left-to-right over doc: each operation's result is
// re-parsed and fed as the input document to the next. An empty patch
// list is a contract violation, not a no-op, and fails immediately.
func Apply(doc *yamldoc.Document, patches []Patch) (*yamldoc.Document, error) {
	if len(patches) == 0 {
		return nil, invalidOp("no patches")
	}
	cur := doc
	for _, p := range patches {
		newSrc, err := p.Op.apply(cur, p.Route)
		if err != nil {
			return nil, err
		}
		newSrc = preserveTrailingNewline(cur.Source(), newSrc)
		next, perr := yamldoc.Parse(newSrc)
		if perr != nil {
			return nil, &Error{Kind: Serialization, Cause: perr.Error()}
		}
		cur = next
	}
	return cur, nil
}

// preserveTrailingNewline ensures out ends with exactly one '\n' if orig
// did, matching the trailing-newline invariant.
func preserveTrailingNewline(orig, out string) string {
	hadNL := strings.HasSuffix(orig, "\n")
	out = strings.TrimRight(out, "\n")
	if hadNL {
		return out + "\n"
	}
	return out
}

func spliceAt(src string, start, end int, replacement string) string {
	return src[:start] + replacement + src[end:]
}
