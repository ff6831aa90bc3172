// Package repoutil parses the repository-slug and git-remote-URL forms
// the registry's remote collection mode and CLI accept, adapted from the
// slug/URL parsing gh-aw's CLI layer used to resolve "current repository"
// (spec's supplemented "remote owner/repo[@ref] slug" collection mode).
package repoutil

import (
	"fmt"
	"strings"
)

// SplitRepoSlug splits a "owner/repo" slug into its two parts.
func SplitRepoSlug(slug string) (owner, repo string, err error) {
	parts := strings.Split(slug, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repoutil: invalid repository slug %q, expected owner/repo", slug)
	}
	return parts[0], parts[1], nil
}

// SplitSlugRef splits the registry's "owner/repo[@ref]" remote collection
// form into owner, repo, and an optional ref (empty when unspecified,
// meaning the oracle's default branch).
func SplitSlugRef(slug string) (owner, repo, ref string, err error) {
	base := slug
	if i := strings.LastIndex(slug, "@"); i >= 0 {
		base, ref = slug[:i], slug[i+1:]
	}
	owner, repo, err = SplitRepoSlug(base)
	return owner, repo, ref, err
}

// ParseGitHubURL extracts owner/repo from a github.com git remote URL, in
// either SSH (git@github.com:owner/repo.git) or HTTPS
// (https://github.com/owner/repo.git) form.
func ParseGitHubURL(url string) (owner, repo string, err error) {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return "", "", fmt.Errorf("repoutil: empty URL")
	}

	var path string
	switch {
	case strings.HasPrefix(trimmed, "git@github.com:"):
		path = strings.TrimPrefix(trimmed, "git@github.com:")
	case strings.Contains(trimmed, "github.com/"):
		parts := strings.SplitN(trimmed, "github.com/", 2)
		if len(parts) != 2 {
			return "", "", fmt.Errorf("repoutil: not a github.com URL: %s", url)
		}
		path = parts[1]
	default:
		return "", "", fmt.Errorf("repoutil: not a github.com URL: %s", url)
	}

	path = strings.TrimSuffix(path, ".git")
	return SplitRepoSlug(path)
}

// SanitizeForFilename converts a repository slug into a string safe for
// use as a filename or cache-directory component.
func SanitizeForFilename(slug string) string {
	if slug == "" {
		return "clone-mode"
	}
	return strings.ReplaceAll(slug, "/", "-")
}
