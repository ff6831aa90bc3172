package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/hardenedci/actionaudit/pkg/audit"
	"github.com/hardenedci/actionaudit/pkg/finding"
	"github.com/hardenedci/actionaudit/pkg/model"
	"github.com/hardenedci/actionaudit/pkg/oracle"
	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/uses"
)

// KnownVulnerableActions resolves each `uses:` reference to a version and
// queries GitHub's security advisory database for that action (spec §4.9
// "known-vulnerable-actions").
type KnownVulnerableActions struct {
	audit.Base
	gh oracle.GitHubOracle
}

func NewKnownVulnerableActions(state *audit.State) (audit.Audit, error) {
	if state.Offline || state.GitHub == nil {
		return nil, audit.Skip("known-vulnerable-actions", "no GitHub oracle configured (offline or unauthenticated)")
	}
	return &KnownVulnerableActions{gh: state.GitHub}, nil
}

func (a *KnownVulnerableActions) Ident() string { return "known-vulnerable-actions" }

func (a *KnownVulnerableActions) AuditStep(ctx context.Context, _ *audit.WorkflowContext, _ *model.Workflow, _ *model.NormalJob, s model.Step) ([]finding.Finding, error) {
	us, ok := s.(*model.UsesStep)
	if !ok {
		return nil, nil
	}
	return a.check(ctx, us.Uses, us.Route())
}

func (a *KnownVulnerableActions) check(ctx context.Context, u uses.Uses, r route.Route) ([]finding.Finding, error) {
	ru, ok := u.(uses.RepositoryUses)
	if !ok {
		return nil, nil
	}

	version := ru.Ref
	if ru.RefIsCommit() {
		if tag, found, err := a.gh.LongestTagForCommit(ctx, ru.Owner, ru.Repo, ru.Ref); err == nil && found {
			version = tag
		}
	}

	advisories, err := a.gh.GHAAdvisories(ctx, ru.Owner, ru.Repo, version)
	if err != nil {
		return nil, fmt.Errorf("known-vulnerable-actions: %w", err)
	}

	var out []finding.Finding
	for _, adv := range advisories {
		out = append(out, finding.Finding{
			Ident:      a.Ident(),
			Severity:   advisorySeverity(adv.Severity),
			Confidence: finding.ConfidenceHigh,
			Persona:    finding.PersonaRegular,
			Locations: []finding.Location{{
				Route:      r,
				Annotation: fmt.Sprintf("%s@%s is affected by advisory %s (first patched in %s)", ru.Slug(), version, adv.ID, adv.FirstPatched),
				Primary:    true,
			}},
		})
	}
	return out, nil
}

func advisorySeverity(s string) finding.Severity {
	switch strings.ToLower(s) {
	case "critical", "high":
		return finding.SeverityHigh
	case "moderate", "medium":
		return finding.SeverityMedium
	case "low":
		return finding.SeverityLow
	default:
		return finding.SeverityUnknown
	}
}
