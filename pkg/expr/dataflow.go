package expr

// DataflowContexts walks n and collects the string rendering of every
// Context sub-expression whose value flows into n's evaluation:
//
//   - Context(c)                     -> yield c
//   - Call(f, args) where f is one of
//     {toJSON, format, join}         -> recurse into args
//   - BinOp(&&)                      -> recurse into RHS only (the LHS only
//     gates short-circuiting, it is never substituted into the result)
//   - BinOp(||)                      -> recurse into both sides
//   - any other BinOp                -> no flow (boolean-valued)
//   - calls outside the flow-through
//     whitelist                      -> block flow entirely
func DataflowContexts(n Node) []string {
	var out []string
	walkDataflow(n, &out)
	return out
}

var flowThroughCalls = map[string]bool{
	"tojson": true,
	"format": true,
	"join":   true,
}

func walkDataflow(n Node, out *[]string) {
	switch v := n.(type) {
	case Context:
		*out = append(*out, v.String())
	case Identifier:
		// A bare identifier standing alone (not part of a Context) is the
		// degenerate one-part context; still a flow source.
		*out = append(*out, v.Name)
	case Call:
		if flowThroughCalls[lower(v.Name)] {
			for _, a := range v.Args {
				walkDataflow(a, out)
			}
		}
	case BinOp:
		switch v.Op {
		case And:
			walkDataflow(v.RHS, out)
		case Or:
			walkDataflow(v.LHS, out)
			walkDataflow(v.RHS, out)
		default:
			// comparison operators are boolean-valued; no flow.
		}
	case UnOp:
		// '!' negates a boolean; its operand's value does not flow through.
	case Literal, Star, Index:
		// no contexts to yield
	}
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
