package rules

import (
	"context"
	"testing"

	"github.com/hardenedci/actionaudit/pkg/audit"
	"github.com/hardenedci/actionaudit/pkg/model"
	"github.com/hardenedci/actionaudit/pkg/yamldoc"
	"github.com/stretchr/testify/require"
)

func parseWorkflow(t *testing.T, src string) *model.Workflow {
	t.Helper()
	doc, err := yamldoc.Parse(src)
	require.NoError(t, err)
	w, err := model.ParseWorkflow(doc, "test.yml")
	require.NoError(t, err)
	return w
}

func mustNormalJob(t *testing.T, w *model.Workflow) *model.NormalJob {
	t.Helper()
	j, ok := w.Jobs[0].(*model.NormalJob)
	require.True(t, ok)
	return j
}

func TestUnpinnedUsesFlagsTagPin(t *testing.T) {
	w := parseWorkflow(t, `
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: some/action@v4
`)
	a, err := NewUnpinnedUses(&audit.State{})
	require.NoError(t, err)

	job := w.Jobs[0].(*model.NormalJob)
	findings, err := a.AuditStep(context.Background(), nil, w, job, job.Steps[0])
	require.NoError(t, err)
	require.Len(t, findings, 1)
	require.Equal(t, "unpinned-uses", findings[0].Ident)
}

func TestUnpinnedUsesAllowsCommitPin(t *testing.T) {
	w := parseWorkflow(t, `
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@8f4b7f84864484a7bf31766abe9204da3cbe65b3
`)
	a, err := NewUnpinnedUses(&audit.State{})
	require.NoError(t, err)

	job := w.Jobs[0].(*model.NormalJob)
	findings, err := a.AuditStep(context.Background(), nil, w, job, job.Steps[0])
	require.NoError(t, err)
	require.Empty(t, findings)
}

func TestUnpinnedUsesDockerTagWithoutDigest(t *testing.T) {
	w := parseWorkflow(t, `
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: docker://alpine:3.19
`)
	a, err := NewUnpinnedUses(&audit.State{})
	require.NoError(t, err)

	job := w.Jobs[0].(*model.NormalJob)
	findings, err := a.AuditStep(context.Background(), nil, w, job, job.Steps[0])
	require.NoError(t, err)
	require.Len(t, findings, 1)
	require.Equal(t, "Low", findings[0].Severity.String())
}
