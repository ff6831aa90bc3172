package rules

import (
	"context"
	"strings"

	"github.com/hardenedci/actionaudit/pkg/audit"
	"github.com/hardenedci/actionaudit/pkg/finding"
	"github.com/hardenedci/actionaudit/pkg/model"
	"github.com/hardenedci/actionaudit/pkg/uses"
)

// publishActionCreds maps a known package-registry publish action to the
// `with:` input name that, when present, indicates a manually configured
// credential rather than OIDC-based trusted publishing.
var publishActionCreds = map[string]string{
	"pypa/gh-action-pypi-publish": "password",
	"rubygems/release-gem":        "api-key",
}

// UseTrustedPublishing detects PyPI/RubyGems/npm publish steps that carry
// a manually configured long-lived credential instead of relying on
// OIDC-based trusted publishing (spec §4.9 "use-trusted-publishing").
type UseTrustedPublishing struct {
	audit.Base
}

func NewUseTrustedPublishing(*audit.State) (audit.Audit, error) { return &UseTrustedPublishing{}, nil }

func (a *UseTrustedPublishing) Ident() string { return "use-trusted-publishing" }

func (a *UseTrustedPublishing) AuditStep(_ context.Context, _ *audit.WorkflowContext, w *model.Workflow, j *model.NormalJob, s model.Step) ([]finding.Finding, error) {
	switch st := s.(type) {
	case *model.UsesStep:
		ru, ok := st.Uses.(uses.RepositoryUses)
		if !ok {
			return nil, nil
		}
		credField, known := publishActionCreds[strings.ToLower(ru.Slug())]
		if !known {
			return nil, nil
		}
		if model.WithString(st.With(), credField) == "" {
			return nil, nil
		}
		return []finding.Finding{{
			Ident:      a.Ident(),
			Severity:   finding.SeverityMedium,
			Confidence: finding.ConfidenceMedium,
			Persona:    finding.PersonaRegular,
			Locations: []finding.Location{{
				Route:      st.Route(),
				Annotation: ru.Slug() + " is configured with a manual " + credField + " rather than OIDC-based trusted publishing",
				Primary:    true,
			}},
		}}, nil
	case *model.RunStep:
		if !strings.Contains(st.Run, "npm publish") {
			return nil, nil
		}
		if st.Env() != nil {
			if _, hasToken := st.Env().Get("NODE_AUTH_TOKEN"); hasToken {
				if !hasIDTokenWrite(j) {
					return []finding.Finding{{
						Ident:      a.Ident(),
						Severity:   finding.SeverityMedium,
						Confidence: finding.ConfidenceMedium,
						Persona:    finding.PersonaRegular,
						Locations: []finding.Location{{
							Route:      st.Route(),
							Annotation: "npm publish uses a manually configured NODE_AUTH_TOKEN rather than npm's OIDC trusted publishing",
							Primary:    true,
						}},
					}}, nil
				}
			}
		}
	}
	return nil, nil
}

func hasIDTokenWrite(j *model.NormalJob) bool {
	if j.Permissions == nil {
		return false
	}
	v, ok := j.Permissions.GetString("id-token")
	return ok && strings.EqualFold(v, "write")
}
