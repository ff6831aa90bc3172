package rules

import (
	"context"
	"testing"

	"github.com/hardenedci/actionaudit/pkg/audit"
	"github.com/hardenedci/actionaudit/pkg/oracle"
	"github.com/stretchr/testify/require"
)

func TestKnownVulnerableActionsFlagsAdvisory(t *testing.T) {
	fake := &fakeGitHubOracle{
		advisories: map[string][]oracle.Advisory{
			"some/action@v1": {{ID: "GHSA-xxxx", Severity: "high", FirstPatched: "v2"}},
		},
	}
	w := parseWorkflow(t, `
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: some/action@v1
`)
	a, err := NewKnownVulnerableActions(&audit.State{GitHub: fake})
	require.NoError(t, err)

	njob := mustNormalJob(t, w)
	findings, err := a.AuditStep(context.Background(), nil, w, njob, njob.Steps[0])
	require.NoError(t, err)
	require.Len(t, findings, 1)
	require.Equal(t, "High", findings[0].Severity.String())
}

func TestKnownVulnerableActionsNoAdvisories(t *testing.T) {
	fake := &fakeGitHubOracle{}
	w := parseWorkflow(t, `
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: some/action@v1
`)
	a, err := NewKnownVulnerableActions(&audit.State{GitHub: fake})
	require.NoError(t, err)

	njob := mustNormalJob(t, w)
	findings, err := a.AuditStep(context.Background(), nil, w, njob, njob.Steps[0])
	require.NoError(t, err)
	require.Empty(t, findings)
}
