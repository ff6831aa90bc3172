package model

import (
	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/yamldoc"
)

// Action is a composite action.yml/action.yaml definition.
type Action struct {
	base
	Doc           *yamldoc.Document
	Name          string
	Inputs        *yamldoc.OrderedMap
	Outputs       *yamldoc.OrderedMap
	CompositeSteps []Step
}

// ParseAction builds an Action model from a composite action document.
// Non-composite actions (docker/node runs:) produce an Action with no
// CompositeSteps.
func ParseAction(doc *yamldoc.Document, location string) (*Action, error) {
	root, ok := doc.Decode().(*yamldoc.OrderedMap)
	if !ok {
		return nil, &ModelError{Reason: "action document root is not a mapping"}
	}
	a := &Action{base: base{route: route.Route{}, location: location}, Doc: doc}
	if name, ok := root.GetString("name"); ok {
		a.Name = name
	}
	if in, ok := root.GetMap("inputs"); ok {
		a.Inputs = in
	}
	if out, ok := root.GetMap("outputs"); ok {
		a.Outputs = out
	}

	runs, ok := root.GetMap("runs")
	if !ok {
		return a, nil
	}
	usingVal, _ := runs.GetString("using")
	if usingVal != "composite" {
		return a, nil
	}
	stepsRaw, ok := runs.GetSeq("steps")
	if !ok {
		return a, nil
	}
	stepsRoute := route.Route{}.Key("runs").Key("steps")
	for i, sv := range stepsRaw {
		sm, ok := sv.(*yamldoc.OrderedMap)
		if !ok {
			continue
		}
		s, err := parseStep(sm, stepsRoute.Index(i), location)
		if err != nil {
			return nil, err
		}
		a.CompositeSteps = append(a.CompositeSteps, s)
	}
	return a, nil
}
