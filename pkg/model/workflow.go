// Package model exposes strongly-typed, route-addressable views over
// workflows, composite actions, and Dependabot configs: jobs, steps,
// triggers, and the `uses:` taxonomy, each carrying the Route that
// recovers its byte span from the originating Document.
package model

import (
	"strings"

	"github.com/rhysd/actionlint"

	"github.com/hardenedci/actionaudit/pkg/logger"
	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/yamldoc"
)

var log = logger.New("model")

// Entity is implemented by every model node that can be addressed back
// into its originating Document.
type Entity interface {
	Route() route.Route
	Location() string
}

// base carries the shared Route/location-key fields every entity embeds.
type base struct {
	route    route.Route
	location string
}

func (b base) Route() route.Route { return b.route }
func (b base) Location() string   { return b.location }

// Workflow is the root model of a GitHub Actions workflow YAML document.
type Workflow struct {
	base
	Doc         *yamldoc.Document
	Name        string
	On          Triggers
	Permissions *yamldoc.OrderedMap
	Env         *yamldoc.OrderedMap
	Concurrency *yamldoc.OrderedMap
	Jobs        []Job
}

// Triggers is the parsed `on:` block: trigger event name to its
// (possibly nil) configuration mapping, order-preserved.
type Triggers struct {
	Events []string
	Config map[string]*yamldoc.OrderedMap
}

// Has reports whether event is among the workflow's triggers.
func (t Triggers) Has(event string) bool {
	for _, e := range t.Events {
		if e == event {
			return true
		}
	}
	return false
}

// IsReleaseLike reports whether any of the workflow's triggers are the
// "release-like" events the cache-poisoning audit cares about: events
// that can run with elevated token permissions against attacker-supplied
// refs/tags.
func (t Triggers) IsReleaseLike() bool {
	for _, e := range []string{"release", "push", "workflow_dispatch"} {
		if t.Has(e) {
			if e == "push" {
				if cfg, ok := t.Config["push"]; ok {
					if _, hasTags := cfg.Get("tags"); hasTags {
						return true
					}
				}
				continue
			}
			return true
		}
	}
	return false
}

// ParseWorkflow builds a Workflow model from doc, which must already be a
// parsed workflow YAML document. location identifies which registered
// input doc came from.
func ParseWorkflow(doc *yamldoc.Document, location string) (*Workflow, error) {
	if err := actionlintShapeCheck(doc, location); err != nil {
		return nil, err
	}

	root, ok := doc.Decode().(*yamldoc.OrderedMap)
	if !ok {
		return nil, &ModelError{Reason: "workflow document root is not a mapping"}
	}

	w := &Workflow{
		base: base{route: route.Route{}, location: location},
		Doc:  doc,
	}
	if name, ok := root.GetString("name"); ok {
		w.Name = name
	}
	if onRaw, ok := root.Get("on"); ok {
		w.On = parseTriggers(onRaw)
	}
	if perms, ok := root.GetMap("permissions"); ok {
		w.Permissions = perms
	}
	if env, ok := root.GetMap("env"); ok {
		w.Env = env
	}
	if conc, ok := root.GetMap("concurrency"); ok {
		w.Concurrency = conc
	}

	jobsRaw, ok := root.GetMap("jobs")
	if !ok {
		return nil, &ModelError{Reason: "workflow is missing a jobs: block"}
	}
	for _, key := range jobsRaw.Keys {
		jobVal, _ := jobsRaw.Get(key)
		jobMap, ok := jobVal.(*yamldoc.OrderedMap)
		if !ok {
			continue
		}
		j, err := parseJob(key, jobMap, route.Route{}.Key("jobs").Key(key), location)
		if err != nil {
			return nil, err
		}
		w.Jobs = append(w.Jobs, j)
	}
	return w, nil
}

func parseTriggers(raw any) Triggers {
	t := Triggers{Config: map[string]*yamldoc.OrderedMap{}}
	switch v := raw.(type) {
	case string:
		t.Events = append(t.Events, v)
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				t.Events = append(t.Events, s)
			}
		}
	case *yamldoc.OrderedMap:
		for _, k := range v.Keys {
			t.Events = append(t.Events, k)
			if cfg, ok := v.GetMap(k); ok {
				t.Config[k] = cfg
			}
		}
	}
	return t
}

// ModelError indicates schema-valid YAML that failed strongly-typed
// conversion into the model layer — expected to be rare.
type ModelError struct {
	Reason string
}

func (e *ModelError) Error() string { return "model: " + e.Reason }

// actionlintShapeCheck runs actionlint's own workflow parser over the
// document as a supplementary shape pre-check ahead of our own model
// builder (SPEC_FULL §3: "syntax/shape pre-check ahead of the custom
// model builder"). actionlint.Parse rejects malformed expressions, bad
// step shapes, and similar structural problems our permissive JSON
// Schema pass lets through; a total parse failure (wf == nil) surfaces
// as a ModelError, while partial shape errors on an otherwise-parseable
// workflow are logged as warnings rather than aborting the model build —
// the model bug bar is "should be rare", not "never disagrees with a
// second, stricter parser".
func actionlintShapeCheck(doc *yamldoc.Document, location string) error {
	wf, errs := actionlint.Parse([]byte(doc.Source()))
	if wf == nil {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return &ModelError{Reason: "actionlint: " + strings.Join(msgs, "; ")}
	}
	for _, e := range errs {
		log.Printf("%s: actionlint shape warning: %s", location, e.Error())
	}
	return nil
}
