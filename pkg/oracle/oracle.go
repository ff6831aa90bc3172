// Package oracle defines the contracts the audit core uses to consult
// GitHub and OCI registries for ref/tag/commit/advisory information,
// without depending on a concrete HTTP client. Concrete implementations
// live in ghoracle and ocioracle.
package oracle

import (
	"context"
	"time"
)

// CompareStatus is the relationship between two commits on a branch
// comparison.
type CompareStatus int

const (
	Identical CompareStatus = iota
	Ahead
	Behind
	Diverged
)

// Ref is a named branch or tag and the commit SHA it currently resolves
// to.
type Ref struct {
	Name       string
	CommitSHA  string
}

// Advisory is a single GitHub Security Advisory affecting a package
// version.
type Advisory struct {
	ID           string
	Severity     string
	FirstPatched string
}

// CollectedInput is a single workflow/action/dependabot file pulled out
// of a remote repository archive by FetchAuditInputs.
type CollectedInput struct {
	Path     string
	Contents string
}

// FetchOptions controls a remote collection pass.
type FetchOptions struct {
	Ref    string
	Strict bool
}

// GitHubOracle is the audit core's view of GitHub: ref/tag/commit
// lookups, advisory queries, and remote input collection. Every method
// takes a context for cancellation/timeouts, per the ambient concurrency
// model; implementations are expected to apply their own per-request
// timeout and bounded retries.
type GitHubOracle interface {
	ListBranches(ctx context.Context, owner, repo string) ([]Ref, error)
	ListTags(ctx context.Context, owner, repo string) ([]Ref, error)
	CommitForRef(ctx context.Context, owner, repo, ref string) (sha string, found bool, err error)
	LongestTagForCommit(ctx context.Context, owner, repo, sha string) (tag string, found bool, err error)
	CompareCommits(ctx context.Context, owner, repo, base, head string) (status CompareStatus, found bool, err error)
	GHAAdvisories(ctx context.Context, owner, repo, version string) ([]Advisory, error)
	FetchAuditInputs(ctx context.Context, slug string, opts FetchOptions) ([]CollectedInput, error)
}

// OCIOracle resolves container image references for the docker:// uses
// taxonomy: tag-to-digest resolution feeding the unpinned-uses and
// cache-poisoning audits.
type OCIOracle interface {
	ResolveDigest(ctx context.Context, image, tag string) (digest string, err error)
}

// RequestTimeout is the default per-request timeout oracle
// implementations apply absent an explicit context deadline.
const RequestTimeout = 10 * time.Second

// MaxRetries is the bounded retry count for transient oracle failures.
const MaxRetries = 3

// Error classifies an oracle failure as retryable or fatal, carrying a
// user-facing hint for fatal cases (spec: "set a token", "remove
// --offline").
type Error struct {
	Op        string
	Retryable bool
	Hint      string
	Err       error
}

func (e *Error) Error() string {
	msg := "oracle: " + e.Op + ": " + e.Err.Error()
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }
