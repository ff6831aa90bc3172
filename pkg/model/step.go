package model

import (
	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/uses"
	"github.com/hardenedci/actionaudit/pkg/yamldoc"
)

// Step is either a UsesStep (invokes an action) or a RunStep (runs a
// shell script).
type Step interface {
	Entity
	If() string
	With() *yamldoc.OrderedMap
	Env() *yamldoc.OrderedMap
	step()
}

type stepBase struct {
	base
	ifCond string
	with   *yamldoc.OrderedMap
	env    *yamldoc.OrderedMap
	name   string
}

func (s stepBase) If() string                { return s.ifCond }
func (s stepBase) With() *yamldoc.OrderedMap { return s.with }
func (s stepBase) Env() *yamldoc.OrderedMap  { return s.env }
func (s stepBase) Name() string              { return s.name }
func (stepBase) step()                       {}

// UsesStep invokes an action (local, Docker, or repository form).
type UsesStep struct {
	stepBase
	Uses    uses.Uses
	UsesRaw string
}

// RunStep runs a shell command.
type RunStep struct {
	stepBase
	Run   string
	Shell string
}

func parseStep(m *yamldoc.OrderedMap, r route.Route, location string) (Step, error) {
	base := stepBase{base: base{route: r, location: location}}
	if ifc, ok := m.GetString("if"); ok {
		base.ifCond = ifc
	}
	if with, ok := m.GetMap("with"); ok {
		base.with = with
	}
	if env, ok := m.GetMap("env"); ok {
		base.env = env
	}
	if name, ok := m.GetString("name"); ok {
		base.name = name
	}

	if usesRaw, ok := m.GetString("uses"); ok {
		u, err := uses.Parse(usesRaw)
		if err != nil {
			return nil, &ModelError{Reason: "step: " + err.Error()}
		}
		return &UsesStep{stepBase: base, Uses: u, UsesRaw: usesRaw}, nil
	}

	run := RunStep{stepBase: base}
	if r, ok := m.GetString("run"); ok {
		run.Run = r
	}
	if sh, ok := m.GetString("shell"); ok {
		run.Shell = sh
	}
	return &run, nil
}

// WithString returns the string value of a `with:` key, or "" if absent.
func WithString(with *yamldoc.OrderedMap, key string) string {
	if with == nil {
		return ""
	}
	s, _ := with.GetString(key)
	return s
}
