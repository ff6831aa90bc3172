// Package rules holds the representative audits from spec §4.9, one file
// each, registered into audit.Constructor values the CLI wires into a
// Runner.
package rules

import (
	"context"
	"fmt"

	"github.com/hardenedci/actionaudit/pkg/audit"
	"github.com/hardenedci/actionaudit/pkg/finding"
	"github.com/hardenedci/actionaudit/pkg/model"
	"github.com/hardenedci/actionaudit/pkg/oracle"
	"github.com/hardenedci/actionaudit/pkg/patch"
	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/uses"
)

// UnpinnedUses flags `uses:` references that don't meet the configured
// pinning policy (spec §4.9 "unpinned-uses") and Docker references that
// carry a tag but no digest. When an OCI oracle is configured, a tagged
// Docker reference gets a Fix that rewrites the tag to the resolved
// digest rather than just a bare annotation.
type UnpinnedUses struct {
	audit.Base
	policy *audit.PinningPolicy
	oci    oracle.OCIOracle
}

// NewUnpinnedUses never skips: it falls back to audit.DefaultPinningPolicy
// when state.Policy is unset, and runs without digest-resolution fixes
// when state.OCI is nil (offline mode or no registry client configured).
func NewUnpinnedUses(state *audit.State) (audit.Audit, error) {
	p := state.Policy
	if p == nil {
		p = audit.DefaultPinningPolicy()
	}
	return &UnpinnedUses{policy: p, oci: state.OCI}, nil
}

func (a *UnpinnedUses) Ident() string { return "unpinned-uses" }

func (a *UnpinnedUses) AuditStep(ctx context.Context, _ *audit.WorkflowContext, _ *model.Workflow, _ *model.NormalJob, s model.Step) ([]finding.Finding, error) {
	us, ok := s.(*model.UsesStep)
	if !ok {
		return nil, nil
	}
	return a.audit(ctx, us.Uses, us.Route())
}

func (a *UnpinnedUses) AuditCompositeStep(ctx context.Context, _ *audit.ActionContext, _ *model.Action, s model.Step) ([]finding.Finding, error) {
	us, ok := s.(*model.UsesStep)
	if !ok {
		return nil, nil
	}
	return a.audit(ctx, us.Uses, us.Route())
}

func (a *UnpinnedUses) audit(ctx context.Context, u uses.Uses, r route.Route) ([]finding.Finding, error) {
	switch v := u.(type) {
	case uses.RepositoryUses:
		tier := a.policy.TierFor(v)
		if tier == audit.TierHash && !v.RefIsCommit() {
			return []finding.Finding{{
				Ident:      a.Ident(),
				Severity:   finding.SeverityHigh,
				Confidence: finding.ConfidenceHigh,
				Persona:    finding.PersonaRegular,
				Locations: []finding.Location{{
					Route:      r,
					Annotation: fmt.Sprintf("%s is pinned to a mutable ref (%s), not a commit SHA", v.Slug(), v.Ref),
					Primary:    true,
				}},
			}}, nil
		}
	case uses.DockerUses:
		if v.Tag != "" && v.Hash == "" {
			f := finding.Finding{
				Ident:      a.Ident(),
				Severity:   finding.SeverityLow,
				Confidence: finding.ConfidenceMedium,
				Persona:    finding.PersonaPedantic,
				Locations: []finding.Location{{
					Route:      r,
					Annotation: fmt.Sprintf("docker image %q is pinned to a tag (%s) but not a digest", v.Image, v.Tag),
					Primary:    true,
				}},
			}
			if a.oci != nil {
				if digest, err := a.oci.ResolveDigest(ctx, v.Image, v.Tag); err == nil && digest != "" {
					f.Fixes = []finding.Fix{{
						Title:       "pin to resolved digest " + digest,
						Key:         "pin-docker-digest",
						Disposition: finding.Unsafe,
						Patches: []patch.Patch{{
							Route: r,
							Op:    patch.RewriteFragment{From: ":" + v.Tag, To: ":" + v.Tag + "@" + digest},
						}},
					}}
				}
			}
			return []finding.Finding{f}, nil
		}
	}
	return nil, nil
}
