package uses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDockerWithRegistryAndTag(t *testing.T) {
	u, err := Parse("docker://ghcr.io/foo/alpine:3.8")
	require.NoError(t, err)
	d, ok := u.(DockerUses)
	require.True(t, ok)
	assert.Equal(t, "ghcr.io", d.Registry)
	assert.Equal(t, "foo/alpine", d.Image)
	assert.Equal(t, "3.8", d.Tag)
	assert.Equal(t, "", d.Hash)
}

func TestParseDockerWithHashNoRegistry(t *testing.T) {
	u, err := Parse("docker://alpine@hash")
	require.NoError(t, err)
	d, ok := u.(DockerUses)
	require.True(t, ok)
	assert.Equal(t, "", d.Registry)
	assert.Equal(t, "alpine", d.Image)
	assert.Equal(t, "", d.Tag)
	assert.Equal(t, "hash", d.Hash)
}

func TestParseLocalKeepsEmbeddedAt(t *testing.T) {
	u, err := Parse("./.github/actions/foo@bar")
	require.NoError(t, err)
	l, ok := u.(LocalUses)
	require.True(t, ok)
	assert.Equal(t, "./.github/actions/foo@bar", l.Path)
}

func TestParseRepositoryRequiresRef(t *testing.T) {
	_, err := Parse("actions/checkout")
	assert.Error(t, err)
}

func TestParseRepositoryWithSubpath(t *testing.T) {
	u, err := Parse("actions/aws/ec2@v1")
	require.NoError(t, err)
	r, ok := u.(RepositoryUses)
	require.True(t, ok)
	assert.Equal(t, "actions", r.Owner)
	assert.Equal(t, "aws", r.Repo)
	assert.Equal(t, "ec2", r.Subpath)
	assert.Equal(t, "v1", r.Ref)
}

func TestRefIsCommit(t *testing.T) {
	r := RepositoryUses{Ref: "8f4b7f84864484a7bf31766abe9204da3cbe65b3"}
	assert.True(t, r.RefIsCommit())
	r.Ref = "v4"
	assert.False(t, r.RefIsCommit())
}

func TestPatternSpecificityOrdering(t *testing.T) {
	patterns := []string{"*", "actions/*", "actions/checkout", "actions/checkout@v4"}
	var parsed []RepositoryUsesPattern
	for _, s := range patterns {
		p, err := ParsePattern(s)
		require.NoError(t, err)
		parsed = append(parsed, p)
	}
	for i := len(parsed) - 1; i > 0; i-- {
		assert.True(t, parsed[i].Less(parsed[i-1]), "%q should be more specific than %q", patterns[i], patterns[i-1])
	}
}

func TestPatternMatchingCaseInsensitiveOwnerRepo(t *testing.T) {
	p, err := ParsePattern("Actions/Checkout")
	require.NoError(t, err)
	r := RepositoryUses{Owner: "actions", Repo: "checkout", Ref: "v4"}
	assert.True(t, p.Matches(r))
}
