// Package uses parses and classifies the three shapes a GitHub Actions
// `uses:` clause can take — local, Docker, and repository references —
// and implements the specificity-ordered pattern matching used by
// policy/coordinate evaluation.
package uses

import (
	"fmt"
	"regexp"
	"strings"
)

// Uses is the sum type over the three uses: shapes.
type Uses interface {
	uses()
	String() string
}

// LocalUses is a "./..." reference to an action in the same repository. An
// '@' inside the path is part of the path, never a ref.
type LocalUses struct {
	Path string
}

func (LocalUses) uses()            {}
func (l LocalUses) String() string { return l.Path }

// DockerUses is a "docker://[registry/]image[:tag][@hash]" reference.
type DockerUses struct {
	Registry string // "" if none
	Image    string
	Tag      string // "" if none
	Hash     string // "" if none
}

func (DockerUses) uses() {}
func (d DockerUses) String() string {
	s := "docker://"
	if d.Registry != "" {
		s += d.Registry + "/"
	}
	s += d.Image
	if d.Tag != "" {
		s += ":" + d.Tag
	}
	if d.Hash != "" {
		s += "@" + d.Hash
	}
	return s
}

// RepositoryUses is an "owner/repo[/subpath]@ref" reference.
type RepositoryUses struct {
	Owner   string
	Repo    string
	Subpath string // "" if none
	Ref     string
}

func (RepositoryUses) uses() {}
func (r RepositoryUses) String() string {
	s := r.Owner + "/" + r.Repo
	if r.Subpath != "" {
		s += "/" + r.Subpath
	}
	return s + "@" + r.Ref
}

// Slug returns "owner/repo", the identity used for policy lookups.
func (r RepositoryUses) Slug() string { return r.Owner + "/" + r.Repo }

var commitRefPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// RefIsCommit reports whether Ref is a 40-character lowercase-hex commit
// SHA rather than a symbolic ref (branch/tag).
func (r RepositoryUses) RefIsCommit() bool { return commitRefPattern.MatchString(r.Ref) }

// Parse classifies raw (the text following "uses:") into a Uses value.
func Parse(raw string) (Uses, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "../"):
		return LocalUses{Path: raw}, nil
	case strings.HasPrefix(raw, "docker://"):
		return parseDocker(strings.TrimPrefix(raw, "docker://"))
	default:
		return parseRepository(raw)
	}
}

// isRegistryHost applies the registry heuristic: a host is a registry iff
// it is "localhost" or contains '.' or ':'.
func isRegistryHost(host string) bool {
	return host == "localhost" || strings.Contains(host, ".") || strings.Contains(host, ":")
}

func parseDocker(rest string) (Uses, error) {
	if rest == "" {
		return nil, fmt.Errorf("uses: empty docker reference")
	}
	registry := ""
	image := rest
	if idx := strings.Index(rest, "/"); idx >= 0 {
		candidate := rest[:idx]
		if isRegistryHost(candidate) {
			registry = candidate
			image = rest[idx+1:]
		}
	}

	hash := ""
	if idx := strings.Index(image, "@"); idx >= 0 {
		hash = image[idx+1:]
		image = image[:idx]
	}

	tag := ""
	if idx := strings.LastIndex(image, ":"); idx >= 0 {
		tag = image[idx+1:]
		image = image[:idx]
	}

	return DockerUses{Registry: registry, Image: image, Tag: tag, Hash: hash}, nil
}

func parseRepository(raw string) (Uses, error) {
	atIdx := strings.LastIndex(raw, "@")
	if atIdx < 0 {
		return nil, fmt.Errorf("uses: %q is missing a mandatory @ref", raw)
	}
	path := raw[:atIdx]
	ref := raw[atIdx+1:]
	if ref == "" {
		return nil, fmt.Errorf("uses: %q has an empty ref", raw)
	}

	parts := strings.SplitN(path, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("uses: %q is not a valid owner/repo[/subpath] path", path)
	}
	subpath := ""
	if len(parts) == 3 {
		subpath = parts[2]
	}
	return RepositoryUses{Owner: parts[0], Repo: parts[1], Subpath: subpath, Ref: ref}, nil
}

// ValidateReusableWorkflowRef enforces the reusable-workflow-call
// restrictions: repository form only, @ref mandatory (already enforced by
// Parse), Docker and local forms are forbidden.
func ValidateReusableWorkflowRef(raw string) (RepositoryUses, error) {
	u, err := Parse(raw)
	if err != nil {
		return RepositoryUses{}, err
	}
	r, ok := u.(RepositoryUses)
	if !ok {
		return RepositoryUses{}, fmt.Errorf("uses: reusable workflow calls require a repository reference, got %T", u)
	}
	return r, nil
}
