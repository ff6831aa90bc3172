package expr

// ConstantReducible is a sound-but-incomplete predicate: true for
// literals, unops/binops whose operands are all reducible, and calls to a
// whitelisted function whose arguments are all reducible. Anything
// touching a Context, Star, or Index is never reducible (even if it could
// coincidentally be resolved at audit time via some external knowledge).
func ConstantReducible(n Node) bool {
	switch v := n.(type) {
	case Literal:
		return true
	case UnOp:
		return ConstantReducible(v.Expr)
	case BinOp:
		return ConstantReducible(v.LHS) && ConstantReducible(v.RHS)
	case Call:
		if !isWhitelisted(v.Name) {
			return false
		}
		for _, a := range v.Args {
			if !ConstantReducible(a) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ConstantReducibleSubexprs returns every reducible sub-expression of n,
// excluding trivially-reducible bare literals (to avoid noisy reporting of
// e.g. a literal string argument deep inside a non-reducible call).
func ConstantReducibleSubexprs(n Node) []Node {
	var out []Node
	collectReducible(n, &out)
	return out
}

func collectReducible(n Node, out *[]Node) {
	if ConstantReducible(n) {
		if _, isLit := n.(Literal); !isLit {
			*out = append(*out, n)
		}
		return
	}
	switch v := n.(type) {
	case UnOp:
		collectReducible(v.Expr, out)
	case BinOp:
		collectReducible(v.LHS, out)
		collectReducible(v.RHS, out)
	case Call:
		for _, a := range v.Args {
			collectReducible(a, out)
		}
	case Context:
		for _, p := range v.Parts {
			collectReducible(p, out)
		}
	case Index:
		collectReducible(v.Expr, out)
	}
}
