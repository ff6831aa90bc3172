package rules

import (
	"context"
	"fmt"

	"github.com/hardenedci/actionaudit/pkg/audit"
	"github.com/hardenedci/actionaudit/pkg/coordinate"
	"github.com/hardenedci/actionaudit/pkg/finding"
	"github.com/hardenedci/actionaudit/pkg/model"
	"github.com/hardenedci/actionaudit/pkg/uses"
)

// cachingCoordinates models each well-known caching action as a
// coordinate (spec §4.9: "Model each caching action as a coordinate with
// its control field(s)").
var cachingCoordinates = []coordinate.ActionCoordinate{
	{
		Pattern: mustPattern("actions/cache"),
		Control: coordinate.NotConfigurable{},
	},
	{
		Pattern: mustPattern("actions/setup-go"),
		Control: coordinate.Configurable{Expr: coordinate.Single{Field: coordinate.Field{
			Name: "cache", Type: coordinate.FieldBoolean, Toggle: coordinate.OptIn, Default: "true",
		}}},
	},
	{
		Pattern: mustPattern("actions/setup-node"),
		Control: coordinate.Configurable{Expr: coordinate.Single{Field: coordinate.Field{
			Name: "cache", Type: coordinate.FieldFreeString, Toggle: coordinate.OptIn,
		}}},
	},
	{
		Pattern: mustPattern("actions/setup-python"),
		Control: coordinate.Configurable{Expr: coordinate.Single{Field: coordinate.Field{
			Name: "cache", Type: coordinate.FieldFreeString, Toggle: coordinate.OptIn,
		}}},
	},
}

func mustPattern(s string) uses.RepositoryUsesPattern {
	p, err := uses.ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

// CachePoisoning flags caching actions used in workflows triggered by
// release-like events, where a cache primed by an earlier, less-trusted
// run can later poison a privileged build (spec §4.9 "cache-poisoning").
type CachePoisoning struct {
	audit.Base
}

func NewCachePoisoning(*audit.State) (audit.Audit, error) { return &CachePoisoning{}, nil }

func (a *CachePoisoning) Ident() string { return "cache-poisoning" }

func (a *CachePoisoning) AuditStep(_ context.Context, _ *audit.WorkflowContext, w *model.Workflow, _ *model.NormalJob, s model.Step) ([]finding.Finding, error) {
	if !w.On.IsReleaseLike() {
		return nil, nil
	}
	us, ok := s.(*model.UsesStep)
	if !ok {
		return nil, nil
	}
	ru, ok := us.Uses.(uses.RepositoryUses)
	if !ok {
		return nil, nil
	}
	for _, c := range cachingCoordinates {
		if !c.Pattern.Matches(ru) {
			continue
		}
		usage := c.Evaluate(inputsOf(us))
		if usage == coordinate.UsageNone {
			continue
		}
		confidence := finding.ConfidenceMedium
		if usage == coordinate.UsageAlways || usage == coordinate.UsageDefaultActionBehaviour {
			confidence = finding.ConfidenceHigh
		}
		return []finding.Finding{{
			Ident:      a.Ident(),
			Severity:   finding.SeverityMedium,
			Confidence: confidence,
			Persona:    finding.PersonaRegular,
			Locations: []finding.Location{{
				Route:      us.Route(),
				Annotation: fmt.Sprintf("%s caches dependencies (%s) in a workflow triggered by a release-like event", ru.Slug(), usage),
				Primary:    true,
			}},
		}}, nil
	}
	return nil, nil
}

func inputsOf(us *model.UsesStep) coordinate.Inputs {
	in := coordinate.Inputs{}
	w := us.With()
	if w == nil {
		return in
	}
	for _, k := range w.Keys {
		if v, ok := w.GetString(k); ok {
			in[k] = v
		}
	}
	return in
}
