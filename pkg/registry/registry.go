// Package registry implements the Input Registry (spec §2, §6.1): it
// collects workflow/composite-action/Dependabot inputs from a local
// directory walk, a single explicit file, or a remote repository slug,
// validates each against its bundled JSON Schema, and groups them by
// source in a deterministic (BTreeMap-style) iteration order. The
// Registry owns every Document/Config it collects; all other components
// hold non-owning references into it (spec §3.6).
package registry

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hardenedci/actionaudit/pkg/logger"
	"github.com/hardenedci/actionaudit/pkg/model"
	"github.com/hardenedci/actionaudit/pkg/oracle"
	"github.com/hardenedci/actionaudit/pkg/repoutil"
	"github.com/hardenedci/actionaudit/pkg/schema"
	"github.com/hardenedci/actionaudit/pkg/yamldoc"
)

var log = logger.New("registry")

// Kind classifies a registered input by which model it parses into.
type Kind int

const (
	KindWorkflow Kind = iota
	KindAction
	KindDependabot
)

// Source identifies where an input was collected from.
type Source int

const (
	SourceLocalDir Source = iota
	SourceSingleFile
	SourceRemote
)

// Entry is one input the registry has collected, parsed, and (if strict)
// schema-validated.
type Entry struct {
	Key        string // stable identifier used as finding.Location.InputKey
	Source     Source
	Kind       Kind
	Doc        *yamldoc.Document
	Workflow   *model.Workflow
	Action     *model.Action
	Dependabot *model.Dependabot
}

// LoadIssue records an input that failed to parse or validate; whether it
// aborted collection depends on Registry.Strict.
type LoadIssue struct {
	Key  string
	Err  error
	Kind string // "syntax", "schema", or "model"
}

// Registry owns every collected Document/Model and groups them by Source.
// It is built, then frozen: no further inputs are added once NewRunner's
// audits begin reading it (spec §3.6, §5 "built-then-frozen").
type Registry struct {
	Strict  bool
	entries map[string]*Entry
	issues  []LoadIssue
}

// New creates an empty Registry.
func New(strict bool) *Registry {
	return &Registry{Strict: strict, entries: map[string]*Entry{}}
}

// Issues returns every LoadIssue accumulated across all Collect* calls.
func (r *Registry) Issues() []LoadIssue { return r.issues }

// Entries returns every collected entry sorted by Key — the registry's
// BTreeMap-style deterministic iteration order (spec §5 "Ordering").
func (r *Registry) Entries() []*Entry {
	out := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (r *Registry) addIssue(key string, kind string, err error) error {
	r.issues = append(r.issues, LoadIssue{Key: key, Err: err, Kind: kind})
	if r.Strict {
		return fmt.Errorf("registry: %s: %s error: %w", key, kind, err)
	}
	log.Warnf("%s: %s error: %v (skipping)", key, kind, err)
	return nil
}

// classify decides which Kind a path names, per spec §6.1: workflow YAML
// lives anywhere the caller points it at; action.yml/yaml is a composite
// action; dependabot.yml/yaml is only recognized directly inside a .github/
// directory (elsewhere it is treated as any other YAML file).
func classify(path string) (Kind, bool) {
	base := filepath.Base(path)
	switch strings.ToLower(base) {
	case "action.yml", "action.yaml":
		return KindAction, true
	case "dependabot.yml", "dependabot.yaml":
		if filepath.Base(filepath.Dir(path)) == ".github" {
			return KindDependabot, true
		}
	}
	if strings.HasSuffix(base, ".yml") || strings.HasSuffix(base, ".yaml") {
		return KindWorkflow, true
	}
	return 0, false
}

// CollectFile registers a single explicit file path, inferring its Kind
// from the filename (spec supplemented-feature: "a single explicit file
// path, for action.yml linting outside a repo checkout").
func (r *Registry) CollectFile(readFile func(string) (string, error), path string) error {
	kind, ok := classify(path)
	if !ok {
		return fmt.Errorf("registry: %s does not look like a workflow, action, or dependabot file", path)
	}
	src, err := readFile(path)
	if err != nil {
		return r.addIssue(path, "syntax", err)
	}
	return r.add(path, SourceSingleFile, kind, src)
}

// DirFS is the minimal filesystem interface CollectDir needs (satisfied
// by os.DirFS, fstest.MapFS, or any fs.FS); kept narrow so callers can
// inject an in-memory tree in tests.
type DirFS interface {
	fs.FS
	fs.ReadFileFS
}

// CollectDir walks root's ".github/workflows", ".github/actions", and
// ".github/dependabot.yml" per spec's supplemented Input Registry
// collection modes.
func (r *Registry) CollectDir(fsys DirFS, root string) error {
	roots := []string{
		filepath.Join(root, ".github", "workflows"),
		filepath.Join(root, ".github", "actions"),
	}
	for _, base := range roots {
		_ = fs.WalkDir(fsys, filepath.ToSlash(base), func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			kind, ok := classify(path)
			if !ok {
				return nil
			}
			raw, rerr := fsys.ReadFile(path)
			if rerr != nil {
				return r.addIssue(path, "syntax", rerr)
			}
			return r.add(path, SourceLocalDir, kind, string(raw))
		})
	}
	dependabotPath := filepath.ToSlash(filepath.Join(root, ".github", "dependabot.yml"))
	if raw, err := fsys.ReadFile(dependabotPath); err == nil {
		if aerr := r.add(dependabotPath, SourceLocalDir, KindDependabot, string(raw)); aerr != nil {
			return aerr
		}
	}
	return nil
}

// CollectRemote fetches workflow/action/dependabot inputs from a remote
// "owner/repo[@ref]" slug through the GitHub oracle's FetchAuditInputs
// (spec §6.2, supplemented collection mode).
func (r *Registry) CollectRemote(ctx context.Context, gh oracle.GitHubOracle, slug string) error {
	owner, repo, ref, err := repoutil.SplitSlugRef(slug)
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	inputs, err := gh.FetchAuditInputs(ctx, owner+"/"+repo, oracle.FetchOptions{Ref: ref, Strict: r.Strict})
	if err != nil {
		return fmt.Errorf("registry: fetch %s: %w", slug, err)
	}
	for _, in := range inputs {
		kind, ok := classify(in.Path)
		if !ok {
			continue
		}
		key := slug + ":" + in.Path
		if aerr := r.add(key, SourceRemote, kind, in.Contents); aerr != nil {
			return aerr
		}
	}
	return nil
}

func (r *Registry) add(key string, source Source, kind Kind, src string) error {
	doc, err := yamldoc.Parse(src)
	if err != nil {
		return r.addIssue(key, "syntax", err)
	}

	if err := schema.Validate(schemaKind(kind), yamldoc.ToJSONValue(doc.Decode())); err != nil {
		if serr := r.addIssue(key, "schema", err); serr != nil {
			return serr
		}
		return nil
	}

	entry := &Entry{Key: key, Source: source, Kind: kind, Doc: doc}
	var merr error
	switch kind {
	case KindWorkflow:
		entry.Workflow, merr = model.ParseWorkflow(doc, key)
	case KindAction:
		entry.Action, merr = model.ParseAction(doc, key)
	case KindDependabot:
		entry.Dependabot, merr = model.ParseDependabot(doc, key)
	}
	if merr != nil {
		return r.addIssue(key, "model", merr)
	}

	r.entries[key] = entry
	return nil
}

func schemaKind(k Kind) schema.Kind {
	switch k {
	case KindAction:
		return schema.Action
	case KindDependabot:
		return schema.Dependabot
	default:
		return schema.Workflow
	}
}
