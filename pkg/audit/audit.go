// Package audit implements the dispatch framework described in spec §4.8:
// a registry of stateless analyzers, each walking the model layer
// (workflow -> job -> step, or action -> composite step) and emitting
// findings annotated with routes and candidate fixes.
package audit

import (
	"context"
	"fmt"

	"github.com/hardenedci/actionaudit/pkg/finding"
	"github.com/hardenedci/actionaudit/pkg/model"
	"github.com/hardenedci/actionaudit/pkg/oracle"
)

// Audit is implemented by every analyzer. The default (embed Base)
// implementation of every hook returns (nil, nil); an audit overrides
// only the hooks it cares about. The Runner, not the Audit, performs the
// per-job/per-step walk — see Runner.Run. Every hook takes a
// context.Context even though most audits are pure, non-blocking
// analyses: the oracle-backed ones (impostor-commit, known-vulnerable-
// actions) are the only suspension points (spec §5), and a uniform
// signature keeps the dispatcher's call sites uniform.
type Audit interface {
	// Ident names the audit, used as Finding.Ident and in skip/error
	// reporting.
	Ident() string

	AuditWorkflow(ctx context.Context, wc *WorkflowContext, w *model.Workflow) ([]finding.Finding, error)
	AuditNormalJob(ctx context.Context, wc *WorkflowContext, w *model.Workflow, j *model.NormalJob) ([]finding.Finding, error)
	AuditStep(ctx context.Context, wc *WorkflowContext, w *model.Workflow, j *model.NormalJob, s model.Step) ([]finding.Finding, error)
	AuditAction(ctx context.Context, ac *ActionContext, a *model.Action) ([]finding.Finding, error)
	AuditCompositeStep(ctx context.Context, ac *ActionContext, a *model.Action, s model.Step) ([]finding.Finding, error)
}

// Base gives every hook a no-op default; audits embed it and override only
// what they need.
type Base struct{}

func (Base) AuditWorkflow(context.Context, *WorkflowContext, *model.Workflow) ([]finding.Finding, error) {
	return nil, nil
}
func (Base) AuditNormalJob(context.Context, *WorkflowContext, *model.Workflow, *model.NormalJob) ([]finding.Finding, error) {
	return nil, nil
}
func (Base) AuditStep(context.Context, *WorkflowContext, *model.Workflow, *model.NormalJob, model.Step) ([]finding.Finding, error) {
	return nil, nil
}
func (Base) AuditAction(context.Context, *ActionContext, *model.Action) ([]finding.Finding, error) {
	return nil, nil
}
func (Base) AuditCompositeStep(context.Context, *ActionContext, *model.Action, model.Step) ([]finding.Finding, error) {
	return nil, nil
}

// WorkflowContext carries the per-input data an audit needs beyond the
// model node it was handed: which registered input this is (for
// Location.InputKey) and the State shared across the whole run.
type WorkflowContext struct {
	InputKey string
	State    *State
}

// ActionContext is WorkflowContext's counterpart for composite actions.
type ActionContext struct {
	InputKey string
	State    *State
}

// State is the configuration and shared-client bundle every audit
// constructor receives (spec §4.8: "Construction receives AuditState").
type State struct {
	// Offline disables audits that require network oracle access.
	Offline bool
	// CacheDir is where oracle implementations may keep a disk cache
	// (spec §5 "Shared resources"). Empty means no disk cache.
	CacheDir string
	// GitHub is the oracle contract for ref/tag/commit/advisory lookups.
	// Nil when no token was supplied; audits requiring it must Skip.
	GitHub oracle.GitHubOracle
	// OCI is the oracle contract for Docker tag/digest resolution.
	OCI oracle.OCIOracle
	// Policy is the unpinned-uses policy tree; nil selects the built-in
	// default (spec §4.9).
	Policy *PinningPolicy
}

// LoadError is returned by a Constructor to abort construction. Skip
// marks a deliberate self-exclusion (e.g. the oracle is required but
// State.Offline is set); non-Skip LoadErrors are configuration mistakes
// that should be surfaced to the user.
type LoadError struct {
	Audit  string
	Reason string
	Skip   bool
}

func (e *LoadError) Error() string {
	if e.Skip {
		return fmt.Sprintf("audit %s: skipped: %s", e.Audit, e.Reason)
	}
	return fmt.Sprintf("audit %s: load error: %s", e.Audit, e.Reason)
}

// Skip builds a LoadError an audit constructor returns to self-exclude.
func Skip(audit, reason string) error {
	return &LoadError{Audit: audit, Reason: reason, Skip: true}
}

// Constructor builds one Audit instance from shared State, or a
// *LoadError (possibly a Skip) if it cannot run.
type Constructor func(state *State) (Audit, error)
