// Package schema validates decoded workflow, composite action, and
// Dependabot YAML against bundled JSON Schemas, surfacing violations with
// dotted JSON-pointer paths distinct from syntax errors.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/hardenedci/actionaudit/pkg/logger"
)

var log = logger.New("schema")

//go:embed schemas/workflow.schema.json
var workflowSchemaJSON string

//go:embed schemas/action.schema.json
var actionSchemaJSON string

//go:embed schemas/dependabot.schema.json
var dependabotSchemaJSON string

// Kind identifies which bundled schema to validate against.
type Kind int

const (
	Workflow Kind = iota
	Action
	Dependabot
)

func (k Kind) String() string {
	switch k {
	case Workflow:
		return "workflow"
	case Action:
		return "action"
	case Dependabot:
		return "dependabot"
	default:
		return "unknown"
	}
}

var (
	once     sync.Once
	compiled map[Kind]*jsonschema.Schema
	compErr  error
)

func compileAll() {
	c := jsonschema.NewCompiler()
	sources := map[Kind]struct {
		url, raw string
	}{
		Workflow:   {"http://actionaudit.invalid/workflow-schema.json", workflowSchemaJSON},
		Action:     {"http://actionaudit.invalid/action-schema.json", actionSchemaJSON},
		Dependabot: {"http://actionaudit.invalid/dependabot-schema.json", dependabotSchemaJSON},
	}
	compiled = make(map[Kind]*jsonschema.Schema, len(sources))
	for kind, src := range sources {
		var doc any
		if err := json.Unmarshal([]byte(src.raw), &doc); err != nil {
			compErr = fmt.Errorf("schema: parse %s schema: %w", kind, err)
			return
		}
		if err := c.AddResource(src.url, doc); err != nil {
			compErr = fmt.Errorf("schema: add %s schema resource: %w", kind, err)
			return
		}
		sc, err := c.Compile(src.url)
		if err != nil {
			compErr = fmt.Errorf("schema: compile %s schema: %w", kind, err)
			return
		}
		compiled[kind] = sc
	}
}

// ViolationError reports that a document parsed but violated its JSON
// Schema. Path is a dotted JSON-pointer path to the offending value.
type ViolationError struct {
	Kind   Kind
	Path   string
	Reason string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("schema: %s: %s: %s", e.Kind, e.Path, e.Reason)
}

// Validate checks a generic decoded document (map[string]any/[]any/scalars,
// as produced by encoding/json or normalized from yamldoc.Document.Decode)
// against the bundled schema for kind. On a schema violation it returns a
// *ViolationError, or, when there are several, one plain error whose
// message joins theirs with "; "; both are distinct from the syntax
// errors yamldoc.Parse surfaces.
func Validate(kind Kind, doc any) error {
	once.Do(compileAll)
	if compErr != nil {
		return compErr
	}
	sc, ok := compiled[kind]
	if !ok {
		return fmt.Errorf("schema: unknown kind %v", kind)
	}

	log.Debugf("validating document against %s schema", kind)
	if err := sc.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return &ViolationError{Kind: kind, Path: "", Reason: err.Error()}
		}
		return flattenValidationError(kind, ve)
	}
	return nil
}

// flattenValidationError walks a jsonschema.ValidationError's cause tree to
// its deepest leaves, which usually carry the most actionable message, and
// joins them into dotted-path ViolationErrors.
func flattenValidationError(kind Kind, ve *jsonschema.ValidationError) error {
	leaves := leafErrors(kind, ve)
	if len(leaves) == 0 {
		return &ViolationError{Kind: kind, Path: dottedPath(ve.InstanceLocation), Reason: ve.Error()}
	}
	if len(leaves) == 1 {
		return leaves[0]
	}
	msgs := make([]string, len(leaves))
	for i, l := range leaves {
		msgs[i] = l.Error()
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func leafErrors(kind Kind, ve *jsonschema.ValidationError) []*ViolationError {
	var out []*ViolationError
	if len(ve.Causes) == 0 {
		out = append(out, &ViolationError{Kind: kind, Path: dottedPath(ve.InstanceLocation), Reason: ve.Error()})
		return out
	}
	for _, c := range ve.Causes {
		out = append(out, leafErrors(kind, c)...)
	}
	return out
}

func dottedPath(segments []string) string {
	if len(segments) == 0 {
		return "$"
	}
	return "$." + strings.Join(segments, ".")
}

// ValidateJSON is a convenience wrapper for callers holding raw JSON bytes
// rather than an already-decoded document.
func ValidateJSON(kind Kind, raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("schema: invalid json: %w", err)
	}
	return Validate(kind, doc)
}
