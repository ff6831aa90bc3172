// Package ghoracle implements oracle.GitHubOracle on top of go-gh, the
// same GitHub API client the teacher uses throughout pkg/parser and
// pkg/workflow (remote_fetch.go, github_cli.go) for ref resolution and
// remote file collection. Every method applies the oracle package's
// RequestTimeout/MaxRetries contract.
package ghoracle

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"

	"github.com/hardenedci/actionaudit/pkg/logger"
	"github.com/hardenedci/actionaudit/pkg/oracle"
	"github.com/hardenedci/actionaudit/pkg/oracle/cache"
)

var log = logger.New("oracle:ghoracle")

// Client implements oracle.GitHubOracle using go-gh's REST and GraphQL
// clients, with an in-memory ref/tag cache keyed by owner/repo (spec §5
// "Shared resources") and an optional on-disk response cache.
type Client struct {
	rest *api.RESTClient
	gql  *api.GraphQLClient
	refs *cache.Memory[[]oracle.Ref]
	disk *cache.Disk
}

// New builds a Client. token may be empty, in which case go-gh falls back
// to whatever credential it discovers from the environment or the gh CLI
// config (GH_TOKEN, GITHUB_TOKEN, or a logged-in `gh auth` session) —
// matching setupGHCommand's own GH_TOKEN/GITHUB_TOKEN precedence in the
// teacher's github_cli.go. cacheDir enables the on-disk response cache;
// empty disables it.
func New(token, cacheDir string) (*Client, error) {
	opts := api.ClientOptions{AuthToken: token, Timeout: oracle.RequestTimeout}
	rest, err := api.NewRESTClient(opts)
	if err != nil {
		return nil, fmt.Errorf("ghoracle: building REST client: %w", err)
	}
	gql, err := api.NewGraphQLClient(opts)
	if err != nil {
		return nil, fmt.Errorf("ghoracle: building GraphQL client: %w", err)
	}
	return &Client{
		rest: rest,
		gql:  gql,
		refs: cache.NewMemory[[]oracle.Ref](),
		disk: cache.NewDisk(cacheDir),
	}, nil
}

type commitRef struct {
	SHA string `json:"sha"`
}

type branchOrTag struct {
	Name   string    `json:"name"`
	Commit commitRef `json:"commit"`
}

func (c *Client) checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("ghoracle: %w", err)
	}
	return nil
}

// withRetry runs op up to oracle.MaxRetries+1 times, matching the
// "bounded retries" requirement in spec §5; only retryable failures are
// retried.
func withRetry(op func() error) error {
	var lastErr error
	for attempt := 0; attempt <= oracle.MaxRetries; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		var oerr *oracle.Error
		if ok := asOracleError(lastErr, &oerr); !ok || !oerr.Retryable {
			return lastErr
		}
		time.Sleep(time.Duration(attempt+1) * 100 * time.Millisecond)
	}
	return lastErr
}

func asOracleError(err error, target **oracle.Error) bool {
	oe, ok := err.(*oracle.Error)
	if ok {
		*target = oe
	}
	return ok
}

func (c *Client) listRefKind(ctx context.Context, owner, repo, kind string) ([]oracle.Ref, error) {
	if err := c.checkCtx(ctx); err != nil {
		return nil, err
	}
	cacheKey := kind + ":" + owner + "/" + repo
	return c.refs.GetOrCompute(cacheKey, func() ([]oracle.Ref, error) {
		var out []oracle.Ref
		err := withRetry(func() error {
			var page []branchOrTag
			endpoint := fmt.Sprintf("repos/%s/%s/%s?per_page=100", owner, repo, kind)
			if gerr := c.rest.Get(endpoint, &page); gerr != nil {
				return classifyErr("list_"+kind, gerr)
			}
			out = out[:0]
			for _, bt := range page {
				out = append(out, oracle.Ref{Name: bt.Name, CommitSHA: bt.Commit.SHA})
			}
			return nil
		})
		return out, err
	})
}

// ListBranches implements oracle.GitHubOracle.
func (c *Client) ListBranches(ctx context.Context, owner, repo string) ([]oracle.Ref, error) {
	return c.listRefKind(ctx, owner, repo, "branches")
}

// ListTags implements oracle.GitHubOracle. The REST tags endpoint already
// reports the commit a tag's object peels to (annotated tags included),
// so no separate peel step is needed.
func (c *Client) ListTags(ctx context.Context, owner, repo string) ([]oracle.Ref, error) {
	return c.listRefKind(ctx, owner, repo, "tags")
}

// CommitForRef implements oracle.GitHubOracle.
func (c *Client) CommitForRef(ctx context.Context, owner, repo, ref string) (string, bool, error) {
	if err := c.checkCtx(ctx); err != nil {
		return "", false, err
	}
	var result commitRef
	var notFound bool
	err := withRetry(func() error {
		endpoint := fmt.Sprintf("repos/%s/%s/commits/%s", owner, repo, ref)
		if gerr := c.rest.Get(endpoint, &result); gerr != nil {
			if isNotFound(gerr) {
				notFound = true
				return nil
			}
			return classifyErr("commit_for_ref", gerr)
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	if notFound {
		return "", false, nil
	}
	return result.SHA, true, nil
}

// LongestTagForCommit implements oracle.GitHubOracle: among every tag
// whose commit SHA matches sha, return the longest tag name (the
// reference implementation's tie-break for "which release name best
// describes this commit").
func (c *Client) LongestTagForCommit(ctx context.Context, owner, repo, sha string) (string, bool, error) {
	tags, err := c.ListTags(ctx, owner, repo)
	if err != nil {
		return "", false, err
	}
	var best string
	for _, t := range tags {
		if t.CommitSHA == sha && len(t.Name) > len(best) {
			best = t.Name
		}
	}
	return best, best != "", nil
}

type compareResult struct {
	Status string `json:"status"`
}

// CompareCommits implements oracle.GitHubOracle.
func (c *Client) CompareCommits(ctx context.Context, owner, repo, base, head string) (oracle.CompareStatus, bool, error) {
	if err := c.checkCtx(ctx); err != nil {
		return 0, false, err
	}
	var result compareResult
	var notFound bool
	err := withRetry(func() error {
		endpoint := fmt.Sprintf("repos/%s/%s/compare/%s...%s", owner, repo, base, head)
		if gerr := c.rest.Get(endpoint, &result); gerr != nil {
			if isNotFound(gerr) {
				notFound = true
				return nil
			}
			return classifyErr("compare_commits", gerr)
		}
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	if notFound {
		return 0, false, nil
	}
	switch strings.ToLower(result.Status) {
	case "identical":
		return oracle.Identical, true, nil
	case "ahead":
		return oracle.Ahead, true, nil
	case "behind":
		return oracle.Behind, true, nil
	default:
		return oracle.Diverged, true, nil
	}
}

// gqlAdvisoryQuery mirrors GitHub's securityVulnerabilities GraphQL
// schema, scoped to the GITHUB_ACTIONS ecosystem.
type gqlAdvisoryQuery struct {
	SecurityVulnerabilities struct {
		Nodes []struct {
			Advisory struct {
				GHSAID   string `json:"ghsaId"`
				Severity string `json:"severity"`
			} `json:"advisory"`
			FirstPatchedVersion struct {
				Identifier string `json:"identifier"`
			} `json:"firstPatchedVersion"`
		} `json:"nodes"`
	} `json:"securityVulnerabilities"`
}

// GHAAdvisories implements oracle.GitHubOracle via the GraphQL
// securityVulnerabilities field, matching GitHub's own advisory-lookup
// schema for the GITHUB_ACTIONS ecosystem.
func (c *Client) GHAAdvisories(ctx context.Context, owner, repo, version string) ([]oracle.Advisory, error) {
	if err := c.checkCtx(ctx); err != nil {
		return nil, err
	}
	pkg := owner + "/" + repo
	var resp gqlAdvisoryQuery
	vars := map[string]interface{}{
		"ecosystem": "GITHUB_ACTIONS",
		"package":   pkg,
	}
	const query = `query($ecosystem: SecurityAdvisoryEcosystem!, $package: String!) {
  securityVulnerabilities(ecosystem: $ecosystem, package: $package, first: 100) {
    nodes {
      advisory { ghsaId severity }
      firstPatchedVersion { identifier }
    }
  }
}`
	err := withRetry(func() error {
		if gerr := c.gql.Do(query, vars, &resp); gerr != nil {
			return classifyErr("gha_advisories", gerr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	var out []oracle.Advisory
	for _, n := range resp.SecurityVulnerabilities.Nodes {
		out = append(out, oracle.Advisory{
			ID:           n.Advisory.GHSAID,
			Severity:     n.Advisory.Severity,
			FirstPatched: n.FirstPatchedVersion.Identifier,
		})
	}
	return out, nil
}

type treeResponse struct {
	Tree []struct {
		Path string `json:"path"`
		Type string `json:"type"`
	} `json:"tree"`
	Truncated bool `json:"truncated"`
}

type contentResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// FetchAuditInputs implements oracle.GitHubOracle: it walks the repo's
// git tree at opts.Ref (defaulting to the default branch via "HEAD") and
// downloads every blob under .github/workflows, .github/actions, and
// .github/dependabot.yml — the same three collection roots
// registry.CollectDir walks locally, ported to the Contents API the way
// the teacher's downloadFileFromGitHub does for remote includes.
func (c *Client) FetchAuditInputs(ctx context.Context, slug string, opts oracle.FetchOptions) ([]oracle.CollectedInput, error) {
	if err := c.checkCtx(ctx); err != nil {
		return nil, err
	}
	parts := strings.SplitN(slug, "/", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("ghoracle: invalid slug %q, expected owner/repo", slug)
	}
	owner, repo := parts[0], parts[1]
	ref := opts.Ref
	if ref == "" {
		ref = "HEAD"
	}

	var tree treeResponse
	err := withRetry(func() error {
		endpoint := fmt.Sprintf("repos/%s/%s/git/trees/%s?recursive=1", owner, repo, ref)
		if gerr := c.rest.Get(endpoint, &tree); gerr != nil {
			return classifyErr("fetch_audit_inputs:tree", gerr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if tree.Truncated {
		log.Warnf("%s: git tree listing truncated; some inputs may be missed", slug)
	}

	var inputs []oracle.CollectedInput
	for _, entry := range tree.Tree {
		if entry.Type != "blob" {
			continue
		}
		if !isCandidateInput(entry.Path) {
			continue
		}
		raw, cached := c.disk.Get(slug + "@" + ref + ":" + entry.Path)
		if !cached {
			var cr contentResponse
			gerr := withRetry(func() error {
				endpoint := fmt.Sprintf("repos/%s/%s/contents/%s?ref=%s", owner, repo, entry.Path, ref)
				if e := c.rest.Get(endpoint, &cr); e != nil {
					return classifyErr("fetch_audit_inputs:contents", e)
				}
				return nil
			})
			if gerr != nil {
				if opts.Strict {
					return nil, gerr
				}
				log.Warnf("%s: skipping %s: %v", slug, entry.Path, gerr)
				continue
			}
			decoded, derr := base64.StdEncoding.DecodeString(strings.ReplaceAll(cr.Content, "\n", ""))
			if derr != nil {
				if opts.Strict {
					return nil, fmt.Errorf("ghoracle: decoding %s: %w", entry.Path, derr)
				}
				continue
			}
			raw = decoded
			_ = c.disk.Set(slug+"@"+ref+":"+entry.Path, raw)
		}
		inputs = append(inputs, oracle.CollectedInput{Path: entry.Path, Contents: string(raw)})
	}
	return inputs, nil
}

func isCandidateInput(p string) bool {
	if strings.HasPrefix(p, ".github/workflows/") || strings.HasPrefix(p, ".github/actions/") {
		base := path.Base(p)
		return strings.HasSuffix(base, ".yml") || strings.HasSuffix(base, ".yaml")
	}
	return p == ".github/dependabot.yml" || p == ".github/dependabot.yaml"
}

func isNotFound(err error) bool {
	var he *api.HTTPError
	if jsonErrStatus(err, &he) {
		return he.StatusCode == 404
	}
	return strings.Contains(strings.ToLower(err.Error()), "404") ||
		strings.Contains(strings.ToLower(err.Error()), "not found")
}

func jsonErrStatus(err error, target **api.HTTPError) bool {
	he, ok := err.(*api.HTTPError)
	if ok {
		*target = he
	}
	return ok
}

// classifyErr wraps a raw go-gh error into oracle.Error, retryable for
// rate-limit/5xx responses and fatal (with a user-facing hint) for auth
// failures, matching spec §7's Oracle error taxonomy.
func classifyErr(op string, err error) error {
	he, ok := err.(*api.HTTPError)
	if !ok {
		return &oracle.Error{Op: op, Retryable: true, Err: err}
	}
	switch {
	case he.StatusCode == 401 || he.StatusCode == 403:
		return &oracle.Error{Op: op, Retryable: false, Hint: "set a GH_TOKEN or GITHUB_TOKEN with repo read access", Err: err}
	case he.StatusCode == 404:
		return &oracle.Error{Op: op, Retryable: false, Err: err}
	case he.StatusCode == 429 || he.StatusCode >= 500:
		return &oracle.Error{Op: op, Retryable: true, Hint: "rate-limited or transient GitHub outage", Err: err}
	default:
		return &oracle.Error{Op: op, Retryable: false, Err: err}
	}
}
