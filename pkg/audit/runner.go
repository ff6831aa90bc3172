package audit

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hardenedci/actionaudit/pkg/finding"
	"github.com/hardenedci/actionaudit/pkg/model"
)

// Input is one parsed model the Runner dispatches audits across: exactly
// one of Workflow, Action, or Dependabot is non-nil.
type Input struct {
	Key        string
	Workflow   *model.Workflow
	Action     *model.Action
	Dependabot *model.Dependabot
}

// Runner owns the constructed, ready-to-run Audit set and walks the model
// layer, invoking each audit's hooks in the deterministic order spec §5
// requires: pre-order (job order, step order), then by the audit's own
// position in the registry.
type Runner struct {
	audits []Audit
	state  *State
}

// AuditLoadIssue records a Constructor that could not build its Audit —
// either a deliberate Skip or a real configuration error.
type AuditLoadIssue struct {
	Name  string
	Err   error
	Skip  bool
}

// NewRunner constructs one Audit per Constructor in order. Constructors
// returning a Skip LoadError are omitted silently from the runnable set
// but reported in issues; constructors returning any other error are
// likewise omitted and reported (a misconfigured audit must not abort the
// whole run per spec §7 "Audit: an individual audit errors... other
// audits continue").
func NewRunner(state *State, constructors []Constructor) (*Runner, []AuditLoadIssue) {
	r := &Runner{state: state}
	var issues []AuditLoadIssue
	for _, c := range constructors {
		a, err := c(state)
		if err != nil {
			le, ok := err.(*LoadError)
			name := "unknown"
			skip := false
			if ok {
				name = le.Audit
				skip = le.Skip
			}
			issues = append(issues, AuditLoadIssue{Name: name, Err: err, Skip: skip})
			continue
		}
		r.audits = append(r.audits, a)
	}
	return r, issues
}

// Run dispatches every constructed audit across every input. Inputs are
// processed concurrently (spec §5: "a faithful implementation may run
// audits in parallel across inputs"); within one input, traversal and
// finding emission order is strictly deterministic.
func (r *Runner) Run(ctx context.Context, inputs []Input) ([]finding.Finding, error) {
	results := make([][]finding.Finding, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			fs, err := r.runOne(gctx, in)
			if err != nil {
				return err
			}
			results[i] = fs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var all []finding.Finding
	for _, fs := range results {
		all = append(all, fs...)
	}
	return finding.Dedup(all), nil
}

func (r *Runner) runOne(ctx context.Context, in Input) ([]finding.Finding, error) {
	var out []finding.Finding
	switch {
	case in.Workflow != nil:
		wctx := &WorkflowContext{InputKey: in.Key, State: r.state}
		for _, a := range r.audits {
			fs, err := a.AuditWorkflow(ctx, wctx, in.Workflow)
			if err != nil {
				return nil, fmt.Errorf("audit %s on %s: %w", a.Ident(), in.Key, err)
			}
			out = append(out, tagLocations(fs, in.Key)...)
		}
		for _, job := range in.Workflow.Jobs {
			nj, ok := job.(*model.NormalJob)
			if !ok {
				continue
			}
			for _, a := range r.audits {
				fs, err := a.AuditNormalJob(ctx, wctx, in.Workflow, nj)
				if err != nil {
					return nil, fmt.Errorf("audit %s on %s: %w", a.Ident(), in.Key, err)
				}
				out = append(out, tagLocations(fs, in.Key)...)
			}
			for _, step := range nj.Steps {
				for _, a := range r.audits {
					fs, err := a.AuditStep(ctx, wctx, in.Workflow, nj, step)
					if err != nil {
						return nil, fmt.Errorf("audit %s on %s: %w", a.Ident(), in.Key, err)
					}
					out = append(out, tagLocations(fs, in.Key)...)
				}
			}
		}
	case in.Action != nil:
		actx := &ActionContext{InputKey: in.Key, State: r.state}
		for _, a := range r.audits {
			fs, err := a.AuditAction(ctx, actx, in.Action)
			if err != nil {
				return nil, fmt.Errorf("audit %s on %s: %w", a.Ident(), in.Key, err)
			}
			out = append(out, tagLocations(fs, in.Key)...)
		}
		for _, step := range in.Action.CompositeSteps {
			for _, a := range r.audits {
				fs, err := a.AuditCompositeStep(ctx, actx, in.Action, step)
				if err != nil {
					return nil, fmt.Errorf("audit %s on %s: %w", a.Ident(), in.Key, err)
				}
				out = append(out, tagLocations(fs, in.Key)...)
			}
		}
	}
	return out, nil
}

// tagLocations fills in Location.InputKey for any location an audit left
// unset, so audits don't need to repeat the input key on every finding.
func tagLocations(fs []finding.Finding, key string) []finding.Finding {
	for i := range fs {
		for j := range fs[i].Locations {
			if fs[i].Locations[j].InputKey == "" {
				fs[i].Locations[j].InputKey = key
			}
		}
	}
	return fs
}
