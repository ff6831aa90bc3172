package rules

import (
	"context"
	"testing"

	"github.com/hardenedci/actionaudit/pkg/audit"
	"github.com/hardenedci/actionaudit/pkg/oracle"
	"github.com/stretchr/testify/require"
)

func TestNewImpostorCommitSkipsWithoutOracle(t *testing.T) {
	_, err := NewImpostorCommit(&audit.State{Offline: true})
	require.Error(t, err)
	var loadErr *audit.LoadError
	require.ErrorAs(t, err, &loadErr)
	require.True(t, loadErr.Skip)
}

func TestImpostorCommitFlagsUnreachableCommit(t *testing.T) {
	fake := &fakeGitHubOracle{
		branches: []oracle.Ref{{Name: "main", CommitSHA: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}},
	}
	w := parseWorkflow(t, `
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: some/action@bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb
`)
	a, err := NewImpostorCommit(&audit.State{GitHub: fake})
	require.NoError(t, err)

	njob := mustNormalJob(t, w)
	findings, err := a.AuditStep(context.Background(), nil, w, njob, njob.Steps[0])
	require.NoError(t, err)
	require.Len(t, findings, 1)
	require.Equal(t, "impostor-commit", findings[0].Ident)
}

func TestImpostorCommitAllowsReachableCommit(t *testing.T) {
	fake := &fakeGitHubOracle{
		branches: []oracle.Ref{{Name: "main", CommitSHA: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}},
		compareHist: map[string]oracle.CompareStatus{
			"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa|bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb": oracle.Behind,
		},
	}
	w := parseWorkflow(t, `
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: some/action@bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb
`)
	a, err := NewImpostorCommit(&audit.State{GitHub: fake})
	require.NoError(t, err)

	njob := mustNormalJob(t, w)
	findings, err := a.AuditStep(context.Background(), nil, w, njob, njob.Steps[0])
	require.NoError(t, err)
	require.Empty(t, findings)
}
