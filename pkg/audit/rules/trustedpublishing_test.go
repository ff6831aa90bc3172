package rules

import (
	"context"
	"testing"

	"github.com/hardenedci/actionaudit/pkg/audit"
	"github.com/stretchr/testify/require"
)

func TestUseTrustedPublishingFlagsManualPassword(t *testing.T) {
	w := parseWorkflow(t, `
on: release
jobs:
  publish:
    runs-on: ubuntu-latest
    steps:
      - uses: pypa/gh-action-pypi-publish@v1
        with:
          password: ${{ secrets.PYPI_TOKEN }}
`)
	a, err := NewUseTrustedPublishing(&audit.State{})
	require.NoError(t, err)

	njob := mustNormalJob(t, w)
	findings, err := a.AuditStep(context.Background(), nil, w, njob, njob.Steps[0])
	require.NoError(t, err)
	require.Len(t, findings, 1)
	require.Equal(t, "use-trusted-publishing", findings[0].Ident)
}

func TestUseTrustedPublishingAllowsOIDCWithoutPassword(t *testing.T) {
	w := parseWorkflow(t, `
on: release
jobs:
  publish:
    runs-on: ubuntu-latest
    permissions:
      id-token: write
    steps:
      - uses: pypa/gh-action-pypi-publish@v1
`)
	a, err := NewUseTrustedPublishing(&audit.State{})
	require.NoError(t, err)

	njob := mustNormalJob(t, w)
	findings, err := a.AuditStep(context.Background(), nil, w, njob, njob.Steps[0])
	require.NoError(t, err)
	require.Empty(t, findings)
}

func TestUseTrustedPublishingFlagsNpmPublishWithManualToken(t *testing.T) {
	w := parseWorkflow(t, `
on: release
jobs:
  publish:
    runs-on: ubuntu-latest
    steps:
      - run: npm publish
        env:
          NODE_AUTH_TOKEN: ${{ secrets.NPM_TOKEN }}
`)
	a, err := NewUseTrustedPublishing(&audit.State{})
	require.NoError(t, err)

	njob := mustNormalJob(t, w)
	findings, err := a.AuditStep(context.Background(), nil, w, njob, njob.Steps[0])
	require.NoError(t, err)
	require.Len(t, findings, 1)
}
