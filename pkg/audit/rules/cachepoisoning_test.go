package rules

import (
	"context"
	"testing"

	"github.com/hardenedci/actionaudit/pkg/audit"
	"github.com/hardenedci/actionaudit/pkg/model"
	"github.com/stretchr/testify/require"
)

func TestCachePoisoningFlagsCacheActionOnReleaseTrigger(t *testing.T) {
	w := parseWorkflow(t, `
on: release
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/cache@v4
        with:
          path: node_modules
          key: deps
`)
	a, err := NewCachePoisoning(&audit.State{})
	require.NoError(t, err)

	job := w.Jobs[0].(*model.NormalJob)
	findings, err := a.AuditStep(context.Background(), nil, w, job, job.Steps[0])
	require.NoError(t, err)
	require.Len(t, findings, 1)
	require.Equal(t, "cache-poisoning", findings[0].Ident)
}

func TestCachePoisoningIgnoresNonReleaseLikeTrigger(t *testing.T) {
	w := parseWorkflow(t, `
on:
  push:
    branches: [main]
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/cache@v4
        with:
          path: node_modules
          key: deps
`)
	a, err := NewCachePoisoning(&audit.State{})
	require.NoError(t, err)

	job := w.Jobs[0].(*model.NormalJob)
	findings, err := a.AuditStep(context.Background(), nil, w, job, job.Steps[0])
	require.NoError(t, err)
	require.Empty(t, findings)
}

func TestCachePoisoningIgnoresSetupGoWithCacheDisabled(t *testing.T) {
	w := parseWorkflow(t, `
on: release
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/setup-go@v5
        with:
          cache: false
`)
	a, err := NewCachePoisoning(&audit.State{})
	require.NoError(t, err)

	job := w.Jobs[0].(*model.NormalJob)
	findings, err := a.AuditStep(context.Background(), nil, w, job, job.Steps[0])
	require.NoError(t, err)
	require.Empty(t, findings)
}
