package rules

import (
	"context"
	"testing"

	"github.com/hardenedci/actionaudit/pkg/audit"
	"github.com/hardenedci/actionaudit/pkg/model"
	"github.com/stretchr/testify/require"
)

func TestBotConditionsFlagsDominatingSpoofableCheck(t *testing.T) {
	w := parseWorkflow(t, `
on: pull_request_target
jobs:
  build:
    runs-on: ubuntu-latest
    if: github.actor == 'dependabot[bot]'
    steps:
      - run: echo hi
`)
	a, err := NewBotConditions(&audit.State{})
	require.NoError(t, err)

	job := w.Jobs[0].(*model.NormalJob)
	findings, err := a.AuditNormalJob(context.Background(), nil, w, job)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	require.Equal(t, "bot-conditions", findings[0].Ident)
	require.Equal(t, "High", findings[0].Severity.String())
	require.NotEmpty(t, findings[0].Fixes)
}

func TestBotConditionsIgnoresNonSpoofableCondition(t *testing.T) {
	w := parseWorkflow(t, `
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    if: github.ref == 'refs/heads/main'
    steps:
      - run: echo hi
`)
	a, err := NewBotConditions(&audit.State{})
	require.NoError(t, err)

	job := w.Jobs[0].(*model.NormalJob)
	findings, err := a.AuditNormalJob(context.Background(), nil, w, job)
	require.NoError(t, err)
	require.Empty(t, findings)
}
