package rules

import (
	"context"

	"github.com/hardenedci/actionaudit/pkg/oracle"
)

// fakeGitHubOracle is a deterministic, in-memory stand-in for
// oracle.GitHubOracle used only by this package's tests — the real
// GitHub client is an external trait-shaped collaborator out of scope
// for the core (spec §1).
type fakeGitHubOracle struct {
	branches    []oracle.Ref
	tagForSHA   map[string]string
	compareHist map[string]oracle.CompareStatus // "base|head" -> status
	advisories  map[string][]oracle.Advisory     // "owner/repo@version" -> advisories
}

func (f *fakeGitHubOracle) ListBranches(ctx context.Context, owner, repo string) ([]oracle.Ref, error) {
	return f.branches, nil
}

func (f *fakeGitHubOracle) ListTags(ctx context.Context, owner, repo string) ([]oracle.Ref, error) {
	return nil, nil
}

func (f *fakeGitHubOracle) CommitForRef(ctx context.Context, owner, repo, ref string) (string, bool, error) {
	return "", false, nil
}

func (f *fakeGitHubOracle) LongestTagForCommit(ctx context.Context, owner, repo, sha string) (string, bool, error) {
	tag, ok := f.tagForSHA[sha]
	return tag, ok, nil
}

func (f *fakeGitHubOracle) CompareCommits(ctx context.Context, owner, repo, base, head string) (oracle.CompareStatus, bool, error) {
	status, ok := f.compareHist[base+"|"+head]
	if !ok {
		return oracle.Diverged, false, nil
	}
	return status, true, nil
}

func (f *fakeGitHubOracle) GHAAdvisories(ctx context.Context, owner, repo, version string) ([]oracle.Advisory, error) {
	return f.advisories[owner+"/"+repo+"@"+version], nil
}

func (f *fakeGitHubOracle) FetchAuditInputs(ctx context.Context, slug string, opts oracle.FetchOptions) ([]oracle.CollectedInput, error) {
	return nil, nil
}
