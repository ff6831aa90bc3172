package rules

import (
	"context"
	"strings"

	"github.com/hardenedci/actionaudit/pkg/audit"
	"github.com/hardenedci/actionaudit/pkg/expr"
	"github.com/hardenedci/actionaudit/pkg/finding"
	"github.com/hardenedci/actionaudit/pkg/model"
	"github.com/hardenedci/actionaudit/pkg/patch"
	"github.com/hardenedci/actionaudit/pkg/route"
)

// BotConditions detects `if:` conditions that gate privileged behavior on
// a spoofable actor identity check (spec §4.9 "bot-conditions", detection
// rules in expr.FindSpoofableActorFragments).
type BotConditions struct {
	audit.Base
}

func NewBotConditions(*audit.State) (audit.Audit, error) { return &BotConditions{}, nil }

func (a *BotConditions) Ident() string { return "bot-conditions" }

func (a *BotConditions) AuditNormalJob(_ context.Context, _ *audit.WorkflowContext, w *model.Workflow, j *model.NormalJob) ([]finding.Finding, error) {
	return a.check(j.If, j.Route(), w)
}

func (a *BotConditions) AuditStep(_ context.Context, _ *audit.WorkflowContext, w *model.Workflow, _ *model.NormalJob, s model.Step) ([]finding.Finding, error) {
	return a.check(s.If(), s.Route(), w)
}

func (a *BotConditions) check(ifCond string, r route.Route, w *model.Workflow) ([]finding.Finding, error) {
	if strings.TrimSpace(ifCond) == "" {
		return nil, nil
	}
	n, err := expr.BareIfExpr(ifCond)
	if err != nil {
		return nil, nil
	}
	matches := expr.FindSpoofableActorFragments(n)
	if len(matches) == 0 {
		return nil, nil
	}
	var out []finding.Finding
	for _, m := range matches {
		severity := finding.SeverityMedium
		confidence := finding.ConfidenceMedium
		if m.Dominating {
			confidence = finding.ConfidenceHigh
			severity = finding.SeverityHigh
		}
		f := finding.Finding{
			Ident:      a.Ident(),
			Severity:   severity,
			Confidence: confidence,
			Persona:    finding.PersonaRegular,
			Locations: []finding.Location{{
				Route:      r,
				Annotation: "spoofable actor check " + m.Context + " == '" + m.BotLiteral + "' can be forged by an external contributor",
				Primary:    true,
				Subfeature: &finding.Subfeature{Offset: m.Node.Origin().Start, Needle: m.Node.Origin().Raw},
			}},
		}
		if replacement, ok := eventAppropriateContext(m.Context, w); ok {
			f.Fixes = []finding.Fix{{
				Title:       "use " + replacement + " instead of " + m.Context,
				Key:         "rewrite-spoofable-context",
				Disposition: finding.Unsafe,
				Patches: []patch.Patch{{
					Route: r,
					Op:    patch.RewriteFragment{From: m.Context, To: replacement},
				}},
			}}
		}
		out = append(out, f)
	}
	return out, nil
}

// eventAppropriateContext suggests a non-spoofable replacement for a
// spoofed actor context, given the workflow's triggers. pull_request_target
// and pull_request runs expose the PR author as github.event.pull_request
// .user.login, which (unlike github.actor) GitHub itself resolves from the
// PR object rather than from a client-supplied actor header.
func eventAppropriateContext(ctx string, w *model.Workflow) (string, bool) {
	if !strings.Contains(ctx, "actor") {
		return "", false
	}
	if w.On.Has("pull_request_target") || w.On.Has("pull_request") {
		return "github.event.pull_request.user.login", true
	}
	if w.On.Has("issue_comment") {
		return "github.event.issue.user.login", true
	}
	return "", false
}
