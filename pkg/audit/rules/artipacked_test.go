package rules

import (
	"context"
	"testing"

	"github.com/hardenedci/actionaudit/pkg/audit"
	"github.com/hardenedci/actionaudit/pkg/model"
	"github.com/stretchr/testify/require"
)

func TestArtipackedFlagsCheckoutThenUploadWholeTree(t *testing.T) {
	w := parseWorkflow(t, `
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v3
      - uses: actions/upload-artifact@v4
        with:
          path: .
`)
	a, err := NewArtipacked(&audit.State{})
	require.NoError(t, err)

	job := w.Jobs[0].(*model.NormalJob)
	findings, err := a.AuditNormalJob(context.Background(), nil, w, job)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	require.Equal(t, "High", findings[0].Severity.String())
}

func TestArtipackedSkipsWhenPersistCredentialsFalse(t *testing.T) {
	w := parseWorkflow(t, `
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v3
        with:
          persist-credentials: false
      - uses: actions/upload-artifact@v4
        with:
          path: .
`)
	a, err := NewArtipacked(&audit.State{})
	require.NoError(t, err)

	job := w.Jobs[0].(*model.NormalJob)
	findings, err := a.AuditNormalJob(context.Background(), nil, w, job)
	require.NoError(t, err)
	require.Empty(t, findings)
}

func TestArtipackedDowngradesToMediumOnPatchedCheckoutVersion(t *testing.T) {
	w := parseWorkflow(t, `
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v6
      - uses: actions/upload-artifact@v4
        with:
          path: .
`)
	a, err := NewArtipacked(&audit.State{})
	require.NoError(t, err)

	job := w.Jobs[0].(*model.NormalJob)
	findings, err := a.AuditNormalJob(context.Background(), nil, w, job)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	require.Equal(t, "Medium", findings[0].Severity.String())
}

func TestArtipackedIgnoresNarrowUploadPath(t *testing.T) {
	w := parseWorkflow(t, `
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v3
      - uses: actions/upload-artifact@v4
        with:
          path: dist/
`)
	a, err := NewArtipacked(&audit.State{})
	require.NoError(t, err)

	job := w.Jobs[0].(*model.NormalJob)
	findings, err := a.AuditNormalJob(context.Background(), nil, w, job)
	require.NoError(t, err)
	require.Empty(t, findings)
}
