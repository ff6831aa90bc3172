// Package finding defines the value types emitted by the audit framework:
// findings, locations, subfeatures, and fix records.
package finding

import (
	"github.com/hardenedci/actionaudit/pkg/patch"
	"github.com/hardenedci/actionaudit/pkg/route"
)

// Severity classifies how serious a finding is.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	case SeverityHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// Confidence classifies how sure the audit is about a finding.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceMedium:
		return "Medium"
	case ConfidenceHigh:
		return "High"
	default:
		return "Low"
	}
}

// Persona is an audience filter controlling which findings surface by
// default.
type Persona int

const (
	PersonaRegular Persona = iota
	PersonaAuditor
	PersonaPedantic
)

func (p Persona) String() string {
	switch p {
	case PersonaAuditor:
		return "Auditor"
	case PersonaPedantic:
		return "Pedantic"
	default:
		return "Regular"
	}
}

// Subfeature narrows a Location's primary span to a sub-region, e.g. the
// specific offending expression inside a `run:` block. Offset is relative
// to the enclosing feature's start; Needle is the substring, beginning at
// Offset, that a downstream renderer should highlight. Subfeature carries
// no length of its own.
type Subfeature struct {
	Offset int
	Needle string
}

// Location is one place a Finding points to: a Route plus a human-
// readable annotation. Exactly one Location in a Finding's list is
// marked Primary.
type Location struct {
	Route      route.Route
	Annotation string
	Primary    bool
	Subfeature *Subfeature
	// InputKey identifies which registered input (file/slug) this
	// location's Route is relative to.
	InputKey string
}

// Disposition classifies whether a Fix is safe to auto-apply.
type Disposition int

const (
	Unsafe Disposition = iota
	Safe
)

// Fix is a titled bundle of patches that, if applied, remediate a
// Finding.
type Fix struct {
	Title       string
	Key         string
	Disposition Disposition
	Patches     []patch.Patch
}

// Finding is the record of one detected issue.
type Finding struct {
	Ident      string
	Severity   Severity
	Confidence Confidence
	Persona    Persona
	Locations  []Location
	Fixes      []Fix
}

// Primary returns the Location marked Primary; if none is marked, it
// returns the first Location. It reports false only when there are no
// Locations.
func (f Finding) Primary() (Location, bool) {
	for _, l := range f.Locations {
		if l.Primary {
			return l, true
		}
	}
	if len(f.Locations) > 0 {
		return f.Locations[0], true
	}
	return Location{}, false
}

// FilterByPersona returns the subset of findings visible at the given
// persona level: Regular excludes Auditor/Pedantic findings, Auditor
// excludes only Pedantic, Pedantic includes everything.
func FilterByPersona(findings []Finding, p Persona) []Finding {
	out := make([]Finding, 0, len(findings))
	for _, f := range findings {
		if f.Persona <= p {
			out = append(out, f)
		}
	}
	return out
}

// Dedup removes findings that share the same Ident and primary Location
// (input key and route), preserving the order of first occurrence.
// Severity, Confidence and the other Locations are not compared.
func Dedup(findings []Finding) []Finding {
	seen := make(map[string]bool, len(findings))
	out := make([]Finding, 0, len(findings))
	for _, f := range findings {
		key := dedupKey(f)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}

func dedupKey(f Finding) string {
	loc, _ := f.Primary()
	return f.Ident + "|" + loc.InputKey + "|" + loc.Route.String()
}
