package rules

import (
	"context"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/hardenedci/actionaudit/pkg/audit"
	"github.com/hardenedci/actionaudit/pkg/finding"
	"github.com/hardenedci/actionaudit/pkg/model"
	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/uses"
)

// Artipacked pairs a credential-leaking `actions/checkout` step with a
// later `actions/upload-artifact` step whose path encompasses the
// working tree, which would publish the repo's persisted git credentials
// as a downloadable artifact (spec §4.9 "artipacked").
type Artipacked struct {
	audit.Base
}

func NewArtipacked(*audit.State) (audit.Audit, error) { return &Artipacked{}, nil }

func (a *Artipacked) Ident() string { return "artipacked" }

type vulnerableCheckout struct {
	route       route.Route
	versionSafe bool
}

func (a *Artipacked) AuditNormalJob(_ context.Context, _ *audit.WorkflowContext, _ *model.Workflow, j *model.NormalJob) ([]finding.Finding, error) {
	var checkouts []vulnerableCheckout
	var out []finding.Finding
	for _, s := range j.Steps {
		us, ok := s.(*model.UsesStep)
		if !ok {
			continue
		}
		ru, ok := us.Uses.(uses.RepositoryUses)
		if !ok {
			continue
		}
		switch {
		case strings.EqualFold(ru.Slug(), "actions/checkout"):
			if model.WithString(us.With(), "persist-credentials") == "false" {
				continue
			}
			checkouts = append(checkouts, vulnerableCheckout{
				route:       us.Route(),
				versionSafe: checkoutVersionSafe(ru.Ref),
			})
		case strings.EqualFold(ru.Slug(), "actions/upload-artifact"):
			path := model.WithString(us.With(), "path")
			if !encompassesWorkingTree(path) || len(checkouts) == 0 {
				continue
			}
			last := checkouts[len(checkouts)-1]
			severity := finding.SeverityHigh
			confidence := finding.ConfidenceHigh
			if last.versionSafe {
				severity = finding.SeverityMedium
				confidence = finding.ConfidenceMedium
			}
			out = append(out, finding.Finding{
				Ident:      a.Ident(),
				Severity:   severity,
				Confidence: confidence,
				Persona:    finding.PersonaRegular,
				Locations: []finding.Location{
					{Route: last.route, Annotation: "checkout here persists git credentials in the working tree", Primary: true},
					{Route: us.Route(), Annotation: "this upload-artifact step publishes the whole working tree, including the persisted credentials"},
				},
			})
		}
	}
	return out, nil
}

// checkoutVersionSafe reports whether ref is actions/checkout >= v6, which
// moved its persisted credential file to $RUNNER_TEMP instead of the
// checked-out working tree.
func checkoutVersionSafe(ref string) bool {
	v := ref
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return false
	}
	return semver.Compare(v, "v6") >= 0
}

// encompassesWorkingTree reports whether path (an upload-artifact "path:"
// input) covers the whole checked-out working tree rather than a narrow
// subdirectory.
func encompassesWorkingTree(path string) bool {
	path = strings.TrimSpace(path)
	switch path {
	case "", ".", "./", "*", "**":
		return true
	default:
		return false
	}
}
