package model

import (
	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/yamldoc"
)

// Dependabot is a .github/dependabot.yml configuration.
type Dependabot struct {
	base
	Doc     *yamldoc.Document
	Version int
	Updates []DependabotUpdate
}

// DependabotUpdate is one entry in `updates:`.
type DependabotUpdate struct {
	base
	PackageEcosystem string
	Directory        string
	Schedule         *yamldoc.OrderedMap
}

// ParseDependabot builds a Dependabot model from a dependabot.yml
// document.
func ParseDependabot(doc *yamldoc.Document, location string) (*Dependabot, error) {
	root, ok := doc.Decode().(*yamldoc.OrderedMap)
	if !ok {
		return nil, &ModelError{Reason: "dependabot document root is not a mapping"}
	}
	d := &Dependabot{base: base{route: route.Route{}, location: location}, Doc: doc}
	if v, ok := root.GetString("version"); ok {
		d.Version = yamldoc.ToInt(v)
	}
	updatesRaw, ok := root.GetSeq("updates")
	if !ok {
		return d, nil
	}
	updatesRoute := route.Route{}.Key("updates")
	for i, uv := range updatesRaw {
		um, ok := uv.(*yamldoc.OrderedMap)
		if !ok {
			continue
		}
		upd := DependabotUpdate{base: base{route: updatesRoute.Index(i), location: location}}
		if eco, ok := um.GetString("package-ecosystem"); ok {
			upd.PackageEcosystem = eco
		}
		if dir, ok := um.GetString("directory"); ok {
			upd.Directory = dir
		}
		if sched, ok := um.GetMap("schedule"); ok {
			upd.Schedule = sched
		}
		d.Updates = append(d.Updates, upd)
	}
	return d, nil
}
