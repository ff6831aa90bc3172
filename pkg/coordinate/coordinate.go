// Package coordinate implements the control-field DSL used to recognize
// when a third-party action's risky behavior is actually enabled for a
// given step: a (uses-pattern, control-expression) pair evaluated against
// the step's `with:` inputs.
package coordinate

import (
	"strings"

	"github.com/hardenedci/actionaudit/pkg/expr"
	"github.com/hardenedci/actionaudit/pkg/uses"
)

// ControlFieldType classifies how an input field's raw string value is
// interpreted.
type ControlFieldType int

const (
	// FieldBoolean coerces GitHub's string-boolean semantics: the literal
	// "false" is false, every other non-expression string is true.
	FieldBoolean ControlFieldType = iota
	// FieldFreeString is satisfied merely by the field being present with
	// a non-empty value.
	FieldFreeString
	// FieldExact is satisfied when the field's value equals one of a
	// fixed set of allowed strings.
	FieldExact
)

// Toggle controls how a satisfied field maps to the coordinate's overall
// "is the behavior active" judgement.
type Toggle int

const (
	// OptIn: field satisfied => behavior enabled.
	OptIn Toggle = iota
	// OptOut: field satisfied => behavior disabled.
	OptOut
)

// ControlEvaluation is the four-valued result of evaluating a
// ControlExpr against a step's inputs.
type ControlEvaluation int

const (
	DefaultSatisfied ControlEvaluation = iota
	Satisfied
	NotSatisfied
	Conditional
)

// Usage is the audience-facing classification derived from a
// ControlEvaluation.
type Usage int

const (
	UsageNone Usage = iota
	UsageAlways
	UsageDefaultActionBehaviour
	UsageDirectOptIn
	UsageConditionalOptIn
)

func (u Usage) String() string {
	switch u {
	case UsageAlways:
		return "Always"
	case UsageDefaultActionBehaviour:
		return "DefaultActionBehaviour"
	case UsageDirectOptIn:
		return "DirectOptIn"
	case UsageConditionalOptIn:
		return "ConditionalOptIn"
	default:
		return "None"
	}
}

// Field names one `with:` input recognized by an action's coordinate.
type Field struct {
	Name   string
	Type   ControlFieldType
	Toggle Toggle
	// Allowed lists the permitted values for a FieldExact field.
	Allowed []string
	// Default is the field's value when the step's `with:` omits it.
	Default string
}

// Inputs is the resolved `with:` map for one step, raw string values as
// written in the YAML (possibly containing "${{ ... }}" expressions).
type Inputs map[string]string

// evaluateField resolves a single Field against inputs, returning a
// four-valued result for just that field (ignoring the enclosing
// ControlExpr's boolean combinator).
func evaluateField(f Field, in Inputs) ControlEvaluation {
	raw, present := in[f.Name]
	isDefault := false
	if !present {
		if f.Default == "" {
			return satisfiedToEval(false, f.Toggle, true)
		}
		raw = f.Default
		isDefault = true
	}

	if isTemplateExpr(raw) {
		if truth, resolved := ContextExprSatisfied(raw); resolved {
			return satisfiedToEval(truth, f.Toggle, isDefault)
		}
		return Conditional
	}

	var fieldSatisfied bool
	switch f.Type {
	case FieldBoolean:
		fieldSatisfied = !strings.EqualFold(strings.TrimSpace(raw), "false")
	case FieldFreeString:
		fieldSatisfied = strings.TrimSpace(raw) != ""
	case FieldExact:
		fieldSatisfied = containsFold(f.Allowed, raw)
	}
	return satisfiedToEval(fieldSatisfied, f.Toggle, isDefault)
}

func satisfiedToEval(fieldSatisfied bool, toggle Toggle, isDefault bool) ControlEvaluation {
	active := fieldSatisfied
	if toggle == OptOut {
		active = !fieldSatisfied
	}
	if active {
		if isDefault {
			return DefaultSatisfied
		}
		return Satisfied
	}
	return NotSatisfied
}

func isTemplateExpr(raw string) bool {
	t := strings.TrimSpace(raw)
	return strings.HasPrefix(t, "${{") && strings.HasSuffix(t, "}}")
}

func containsFold(allowed []string, v string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, v) {
			return true
		}
	}
	return false
}

// ControlExpr is a boolean expression over Fields.
type ControlExpr interface {
	evaluate(in Inputs) ControlEvaluation
}

// Single evaluates exactly one field.
type Single struct{ Field Field }

func (s Single) evaluate(in Inputs) ControlEvaluation { return evaluateField(s.Field, in) }

// andEval reproduces the ground-truth ControlEvaluation::bitand truth
// table verbatim: the four-valued AND of two evaluations. The fold
// identity is Satisfied, so a bare Conditional ANDed against a later
// DefaultSatisfied "absorbs" into Satisfied rather than staying
// Conditional.
func andEval(lhs, rhs ControlEvaluation) ControlEvaluation {
	switch lhs {
	case DefaultSatisfied:
		return rhs
	case Satisfied:
		if rhs == DefaultSatisfied {
			return Satisfied
		}
		return rhs
	case NotSatisfied:
		return NotSatisfied
	default: // Conditional
		switch rhs {
		case DefaultSatisfied:
			return Satisfied
		case NotSatisfied:
			return NotSatisfied
		default:
			return Conditional
		}
	}
}

// orEval reproduces the ground-truth ControlEvaluation::bitor truth
// table verbatim: the four-valued OR of two evaluations. The fold
// identity is NotSatisfied.
func orEval(lhs, rhs ControlEvaluation) ControlEvaluation {
	switch lhs {
	case DefaultSatisfied:
		if rhs == Satisfied {
			return Satisfied
		}
		return DefaultSatisfied
	case Satisfied:
		return Satisfied
	case NotSatisfied:
		return rhs
	default: // Conditional
		switch rhs {
		case DefaultSatisfied:
			return DefaultSatisfied
		case Satisfied:
			return Satisfied
		default:
			return Conditional
		}
	}
}

// All is a conjunction (&&) of sub-expressions, folded left-to-right
// with andEval starting from the Satisfied identity (matching the
// ground-truth `.fold(Satisfied, |acc, e| acc & e)`).
type All struct{ Exprs []ControlExpr }

func (a All) evaluate(in Inputs) ControlEvaluation {
	acc := Satisfied
	for _, e := range a.Exprs {
		acc = andEval(acc, e.evaluate(in))
	}
	return acc
}

// Any is a disjunction (||) of sub-expressions, folded left-to-right
// with orEval starting from the NotSatisfied identity (matching the
// ground-truth `.fold(NotSatisfied, |acc, e| acc | e)`).
type Any struct{ Exprs []ControlExpr }

func (a Any) evaluate(in Inputs) ControlEvaluation {
	acc := NotSatisfied
	for _, e := range a.Exprs {
		acc = orEval(acc, e.evaluate(in))
	}
	return acc
}

// Not negates a sub-expression. Conditional negates to Conditional
// (uncertainty is preserved under negation); Satisfied and
// DefaultSatisfied negate to NotSatisfied, and NotSatisfied negates to
// Satisfied.
type Not struct{ Expr ControlExpr }

func (n Not) evaluate(in Inputs) ControlEvaluation {
	switch n.Expr.evaluate(in) {
	case Satisfied:
		return NotSatisfied
	case NotSatisfied:
		return Satisfied
	case DefaultSatisfied:
		return NotSatisfied
	default:
		return Conditional
	}
}

// ToUsage maps a ControlEvaluation to a Usage classification. Whether the
// evaluation came from the field's default or from an explicit value is
// carried by the evaluation itself (DefaultSatisfied vs Satisfied).
func ToUsage(eval ControlEvaluation) Usage {
	switch eval {
	case DefaultSatisfied:
		return UsageDefaultActionBehaviour
	case Satisfied:
		return UsageDirectOptIn
	case Conditional:
		return UsageConditionalOptIn
	default:
		return UsageNone
	}
}

// ActionCoordinate pairs a uses-pattern with the control expression that
// decides whether the coordinate's behavior is in effect for a given
// step's inputs.
type ActionCoordinate struct {
	Pattern uses.RepositoryUsesPattern
	Control ActionControl
}

// ActionControl is either Configurable (evaluate Expr against inputs) or
// NotConfigurable (the behavior is unconditionally Always active whenever
// the action is used).
type ActionControl interface {
	isActionControl()
}

type Configurable struct{ Expr ControlExpr }

func (Configurable) isActionControl() {}

type NotConfigurable struct{}

func (NotConfigurable) isActionControl() {}

// Evaluate resolves the coordinate's Usage for a step whose `uses:`
// matches Pattern and whose `with:` is in.
func (c ActionCoordinate) Evaluate(in Inputs) Usage {
	switch ctrl := c.Control.(type) {
	case NotConfigurable:
		return UsageAlways
	case Configurable:
		return ToUsage(ctrl.Expr.evaluate(in))
	default:
		return UsageNone
	}
}

// ContextExprSatisfied reports whether a raw "${{ expr }}" field's
// constant-evaluation (when possible) would make a boolean field true,
// falling back to Conditional semantics when it cannot be resolved.
func ContextExprSatisfied(raw string) (bool, bool) {
	t := strings.TrimSpace(raw)
	if !strings.HasPrefix(t, "${{") || !strings.HasSuffix(t, "}}") {
		return false, false
	}
	inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(t, "${{"), "}}"))
	n, err := expr.Parse(inner)
	if err != nil {
		return false, false
	}
	v, ok, err := expr.Consteval(n)
	if err != nil || !ok {
		return false, false
	}
	return v.Kind == expr.KindBool && v.Bool, true
}
