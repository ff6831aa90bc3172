package coordinate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBooleanFieldDefaultsToFalseCoercion(t *testing.T) {
	f := Field{Name: "persist-credentials", Type: FieldBoolean, Toggle: OptOut, Default: "true"}
	eval := evaluateField(f, Inputs{"persist-credentials": "false"})
	assert.Equal(t, Satisfied, eval, "opt-out field not satisfied (value=false) leaves the behavior active")
}

func TestBooleanFieldNonFalseStringCoercesTrue(t *testing.T) {
	f := Field{Name: "enable-cache", Type: FieldBoolean, Toggle: OptIn}
	eval := evaluateField(f, Inputs{"enable-cache": "yes"})
	assert.Equal(t, Satisfied, eval)
}

func TestTemplateExpressionIsConditional(t *testing.T) {
	f := Field{Name: "enable-cache", Type: FieldBoolean, Toggle: OptIn}
	eval := evaluateField(f, Inputs{"enable-cache": "${{ matrix.cache }}"})
	assert.Equal(t, Conditional, eval)
}

func TestMissingFieldUsesDefault(t *testing.T) {
	f := Field{Name: "cache", Type: FieldBoolean, Toggle: OptIn, Default: "true"}
	eval := evaluateField(f, Inputs{})
	assert.Equal(t, DefaultSatisfied, eval)
}

func TestAnyShortCircuitsOnSatisfied(t *testing.T) {
	expr := Any{Exprs: []ControlExpr{
		Single{Field{Name: "a", Type: FieldBoolean, Toggle: OptIn}},
		Single{Field{Name: "b", Type: FieldBoolean, Toggle: OptIn}},
	}}
	eval := expr.evaluate(Inputs{"a": "true", "b": "false"})
	assert.Equal(t, Satisfied, eval)
}

func TestAllFailsOnAnyNotSatisfied(t *testing.T) {
	expr := All{Exprs: []ControlExpr{
		Single{Field{Name: "a", Type: FieldBoolean, Toggle: OptIn}},
		Single{Field{Name: "b", Type: FieldBoolean, Toggle: OptIn}},
	}}
	eval := expr.evaluate(Inputs{"a": "true", "b": "false"})
	assert.Equal(t, NotSatisfied, eval)
}

func TestAllAbsorbsConditionalAgainstDefaultSatisfied(t *testing.T) {
	expr := All{Exprs: []ControlExpr{
		Single{Field{Name: "a", Type: FieldBoolean, Toggle: OptIn}},
		Single{Field{Name: "b", Type: FieldBoolean, Toggle: OptOut}},
	}}
	eval := expr.evaluate(Inputs{"a": "${{ matrix.cache }}"})
	assert.Equal(t, Satisfied, eval, "Conditional & DefaultSatisfied folds to Satisfied")
}

func TestAnyAbsorbsConditionalAgainstDefaultSatisfied(t *testing.T) {
	expr := Any{Exprs: []ControlExpr{
		Single{Field{Name: "a", Type: FieldBoolean, Toggle: OptIn}},
		Single{Field{Name: "b", Type: FieldBoolean, Toggle: OptOut}},
	}}
	eval := expr.evaluate(Inputs{"a": "${{ matrix.cache }}"})
	assert.Equal(t, DefaultSatisfied, eval, "Conditional | DefaultSatisfied folds to DefaultSatisfied")
}

func TestNotConfigurableCoordinateIsAlways(t *testing.T) {
	c := ActionCoordinate{Control: NotConfigurable{}}
	assert.Equal(t, UsageAlways, c.Evaluate(Inputs{}))
}

func TestConfigurableCoordinateUsageMapping(t *testing.T) {
	c := ActionCoordinate{Control: Configurable{Expr: Single{Field{
		Name: "persist-credentials", Type: FieldBoolean, Toggle: OptOut, Default: "true",
	}}}}
	assert.Equal(t, UsageDirectOptIn, c.Evaluate(Inputs{"persist-credentials": "false"}))
	assert.Equal(t, UsageNone, c.Evaluate(Inputs{"persist-credentials": "true"}))
	assert.Equal(t, UsageNone, c.Evaluate(Inputs{}))
}
