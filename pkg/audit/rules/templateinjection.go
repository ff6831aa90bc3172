package rules

import (
	"context"
	"strings"

	"github.com/hardenedci/actionaudit/pkg/audit"
	"github.com/hardenedci/actionaudit/pkg/expr"
	"github.com/hardenedci/actionaudit/pkg/finding"
	"github.com/hardenedci/actionaudit/pkg/model"
	"github.com/hardenedci/actionaudit/pkg/route"
)

// attackerControlledContexts are GitHub Actions contexts whose string
// value an external contributor fully controls (issue/PR titles and
// bodies, commit messages, branch names), grounded on zizmor's default
// audit-controls list.
var attackerControlledContexts = []string{
	"github.event.issue.title",
	"github.event.issue.body",
	"github.event.pull_request.title",
	"github.event.pull_request.body",
	"github.event.pull_request.head.ref",
	"github.event.comment.body",
	"github.event.review.body",
	"github.event.review_comment.body",
	"github.event.head_commit.message",
	"github.event.head_commit.author.email",
	"github.event.head_commit.author.name",
	"github.event.commits",
	"github.head_ref",
}

func isAttackerControlled(ctx string) bool {
	ctx = strings.ToLower(ctx)
	for _, c := range attackerControlledContexts {
		if ctx == c || strings.HasPrefix(ctx, c+".") {
			return true
		}
	}
	return false
}

// TemplateInjection finds "${{ ... }}" expressions spliced directly into
// a shell script whose data-flow includes an attacker-controlled context
// that isn't first dereferenced through a static `env:` variable (spec
// §4.9 "template-injection").
type TemplateInjection struct {
	audit.Base
}

func NewTemplateInjection(*audit.State) (audit.Audit, error) { return &TemplateInjection{}, nil }

func (a *TemplateInjection) Ident() string { return "template-injection" }

func (a *TemplateInjection) AuditStep(_ context.Context, _ *audit.WorkflowContext, _ *model.Workflow, _ *model.NormalJob, s model.Step) ([]finding.Finding, error) {
	rs, ok := s.(*model.RunStep)
	if !ok {
		return nil, nil
	}
	return a.scan(rs.Run, rs.Route())
}

func (a *TemplateInjection) AuditCompositeStep(_ context.Context, _ *audit.ActionContext, _ *model.Action, s model.Step) ([]finding.Finding, error) {
	rs, ok := s.(*model.RunStep)
	if !ok {
		return nil, nil
	}
	return a.scan(rs.Run, rs.Route())
}

func (a *TemplateInjection) scan(script string, r route.Route) ([]finding.Finding, error) {
	var out []finding.Finding
	for _, m := range expr.FindTemplateExpressions(script) {
		if m.ParseErr != nil {
			continue
		}
		flagged := false
		var flaggedCtx string
		for _, ctx := range expr.DataflowContexts(m.Expr) {
			// A context dereferenced through `env.` was (by convention)
			// first captured into a static env var by an earlier step;
			// it no longer carries attacker-controlled text verbatim.
			if strings.HasPrefix(strings.ToLower(ctx), "env.") {
				continue
			}
			if isAttackerControlled(ctx) {
				flagged = true
				flaggedCtx = ctx
				break
			}
		}
		if !flagged {
			continue
		}
		out = append(out, finding.Finding{
			Ident:      a.Ident(),
			Severity:   finding.SeverityHigh,
			Confidence: finding.ConfidenceHigh,
			Persona:    finding.PersonaRegular,
			Locations: []finding.Location{{
				Route:      r,
				Annotation: "attacker-controlled " + flaggedCtx + " is interpolated directly into the shell script",
				Primary:    true,
				Subfeature: &finding.Subfeature{Offset: m.Start, Needle: m.Inner},
			}},
		})
	}
	return out, nil
}
