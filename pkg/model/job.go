package model

import (
	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/uses"
	"github.com/hardenedci/actionaudit/pkg/yamldoc"
)

// Job is either a NormalJob (a sequence of Steps) or a
// ReusableWorkflowCallJob (delegates to another workflow via `uses:`).
type Job interface {
	Entity
	JobID() string
	job()
}

type jobBase struct {
	base
	id string
}

func (j jobBase) JobID() string { return j.id }
func (jobBase) job()            {}

// NormalJob runs a sequence of Steps on a runner.
type NormalJob struct {
	jobBase
	RunsOn      any
	Permissions *yamldoc.OrderedMap
	Env         *yamldoc.OrderedMap
	Strategy    *yamldoc.OrderedMap
	If          string
	Steps       []Step
}

// ReusableWorkflowCallJob delegates execution to another workflow.
type ReusableWorkflowCallJob struct {
	jobBase
	Uses uses.RepositoryUses
	With *yamldoc.OrderedMap
	If   string
}

// StrategyBlock returns the job's `strategy:` block, or nil if the job
// has none.
func (j *NormalJob) StrategyBlock() *yamldoc.OrderedMap { return j.Strategy }

func parseJob(id string, m *yamldoc.OrderedMap, r route.Route, location string) (Job, error) {
	base := jobBase{base: base{route: r, location: location}, id: id}

	if usesRaw, ok := m.GetString("uses"); ok {
		ru, err := uses.ValidateReusableWorkflowRef(usesRaw)
		if err != nil {
			return nil, &ModelError{Reason: "job " + id + ": " + err.Error()}
		}
		j := &ReusableWorkflowCallJob{jobBase: base, Uses: ru}
		if with, ok := m.GetMap("with"); ok {
			j.With = with
		}
		if ifc, ok := m.GetString("if"); ok {
			j.If = ifc
		}
		return j, nil
	}

	j := &NormalJob{jobBase: base}
	if runsOn, ok := m.Get("runs-on"); ok {
		j.RunsOn = runsOn
	}
	if perms, ok := m.GetMap("permissions"); ok {
		j.Permissions = perms
	}
	if env, ok := m.GetMap("env"); ok {
		j.Env = env
	}
	if strat, ok := m.GetMap("strategy"); ok {
		j.Strategy = strat
	}
	if ifc, ok := m.GetString("if"); ok {
		j.If = ifc
	}

	stepsRaw, ok := m.GetSeq("steps")
	if !ok {
		return j, nil
	}
	for i, sv := range stepsRaw {
		sm, ok := sv.(*yamldoc.OrderedMap)
		if !ok {
			continue
		}
		s, err := parseStep(sm, r.Key("steps").Index(i), location)
		if err != nil {
			return nil, err
		}
		j.Steps = append(j.Steps, s)
	}
	return j, nil
}
