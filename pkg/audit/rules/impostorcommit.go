package rules

import (
	"context"
	"fmt"

	"github.com/hardenedci/actionaudit/pkg/audit"
	"github.com/hardenedci/actionaudit/pkg/finding"
	"github.com/hardenedci/actionaudit/pkg/model"
	"github.com/hardenedci/actionaudit/pkg/oracle"
	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/uses"
)

// ImpostorCommit verifies that every commit-pinned `uses:` reference is
// actually reachable from some branch or tag of the named repository — a
// SHA that resolves via GitHub's fork network but isn't on the target
// repo's own history is an "impostor commit" (spec §4.9, glossary).
type ImpostorCommit struct {
	audit.Base
	gh oracle.GitHubOracle
}

// NewImpostorCommit self-excludes when no GitHub oracle is configured
// (spec §4.8 AuditLoadError::Skip), since the whole audit is oracle-bound.
func NewImpostorCommit(state *audit.State) (audit.Audit, error) {
	if state.Offline || state.GitHub == nil {
		return nil, audit.Skip("impostor-commit", "no GitHub oracle configured (offline or unauthenticated)")
	}
	return &ImpostorCommit{gh: state.GitHub}, nil
}

func (a *ImpostorCommit) Ident() string { return "impostor-commit" }

func (a *ImpostorCommit) AuditStep(ctx context.Context, _ *audit.WorkflowContext, _ *model.Workflow, _ *model.NormalJob, s model.Step) ([]finding.Finding, error) {
	us, ok := s.(*model.UsesStep)
	if !ok {
		return nil, nil
	}
	return a.check(ctx, us.Uses, us.Route())
}

func (a *ImpostorCommit) AuditCompositeStep(ctx context.Context, _ *audit.ActionContext, _ *model.Action, s model.Step) ([]finding.Finding, error) {
	us, ok := s.(*model.UsesStep)
	if !ok {
		return nil, nil
	}
	return a.check(ctx, us.Uses, us.Route())
}

func (a *ImpostorCommit) check(ctx context.Context, u uses.Uses, r route.Route) ([]finding.Finding, error) {
	ru, ok := u.(uses.RepositoryUses)
	if !ok || !ru.RefIsCommit() {
		return nil, nil
	}

	if _, found, err := a.gh.LongestTagForCommit(ctx, ru.Owner, ru.Repo, ru.Ref); err != nil {
		return nil, fmt.Errorf("impostor-commit: %w", err)
	} else if found {
		return nil, nil
	}

	branches, err := a.gh.ListBranches(ctx, ru.Owner, ru.Repo)
	if err != nil {
		return nil, fmt.Errorf("impostor-commit: %w", err)
	}
	for _, b := range branches {
		status, found, err := a.gh.CompareCommits(ctx, ru.Owner, ru.Repo, b.CommitSHA, ru.Ref)
		if err != nil {
			return nil, fmt.Errorf("impostor-commit: %w", err)
		}
		if found && (status == oracle.Identical || status == oracle.Behind) {
			return nil, nil
		}
	}

	return []finding.Finding{{
		Ident:      a.Ident(),
		Severity:   finding.SeverityHigh,
		Confidence: finding.ConfidenceHigh,
		Persona:    finding.PersonaRegular,
		Locations: []finding.Location{{
			Route:      r,
			Annotation: fmt.Sprintf("commit %s is not reachable from any branch or tag of %s", ru.Ref, ru.Slug()),
			Primary:    true,
		}},
	}}, nil
}
