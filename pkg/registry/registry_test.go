package registry

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func mapFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestCollectDirClassifiesWorkflowsActionsAndDependabot(t *testing.T) {
	fsys := mapFS(map[string]string{
		".github/workflows/ci.yml": `
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
`,
		".github/actions/build/action.yml": `
runs:
  using: composite
  steps:
    - run: echo hi
      shell: bash
`,
		".github/dependabot.yml": `
version: 2
updates:
  - package-ecosystem: github-actions
    directory: "/"
    schedule:
      interval: weekly
`,
	})

	r := New(false)
	require.NoError(t, r.CollectDir(fsys, "."))
	require.Empty(t, r.Issues())

	entries := r.Entries()
	require.Len(t, entries, 3)

	var sawWorkflow, sawAction, sawDependabot bool
	for _, e := range entries {
		switch e.Kind {
		case KindWorkflow:
			sawWorkflow = true
			require.NotNil(t, e.Workflow)
		case KindAction:
			sawAction = true
			require.NotNil(t, e.Action)
		case KindDependabot:
			sawDependabot = true
			require.NotNil(t, e.Dependabot)
		}
	}
	require.True(t, sawWorkflow)
	require.True(t, sawAction)
	require.True(t, sawDependabot)
}

func TestCollectDirEntriesSortedByKey(t *testing.T) {
	fsys := mapFS(map[string]string{
		".github/workflows/z.yml": "on: push\njobs:\n  b:\n    runs-on: ubuntu-latest\n    steps: []\n",
		".github/workflows/a.yml": "on: push\njobs:\n  b:\n    runs-on: ubuntu-latest\n    steps: []\n",
	})

	r := New(false)
	require.NoError(t, r.CollectDir(fsys, "."))
	entries := r.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, ".github/workflows/a.yml", entries[0].Key)
	require.Equal(t, ".github/workflows/z.yml", entries[1].Key)
}

func TestCollectDirIgnoresDependabotOutsideGithubDir(t *testing.T) {
	fsys := mapFS(map[string]string{
		".github/workflows/dependabot.yml": "on: push\njobs:\n  b:\n    runs-on: ubuntu-latest\n    steps: []\n",
	})

	r := New(false)
	require.NoError(t, r.CollectDir(fsys, "."))
	entries := r.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, KindWorkflow, entries[0].Kind)
}

func TestNonStrictRegistrySkipsSyntaxErrors(t *testing.T) {
	fsys := mapFS(map[string]string{
		".github/workflows/broken.yml": "on: [push\njobs: {",
	})

	r := New(false)
	require.NoError(t, r.CollectDir(fsys, "."))
	require.Empty(t, r.Entries())
	require.Len(t, r.Issues(), 1)
	require.Equal(t, "syntax", r.Issues()[0].Kind)
}

func TestNonStrictRegistrySkipsSchemaErrors(t *testing.T) {
	fsys := mapFS(map[string]string{
		".github/workflows/noon.yml": "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps: []\n",
	})

	r := New(false)
	require.NoError(t, r.CollectDir(fsys, "."))
	require.Empty(t, r.Entries())
	require.Len(t, r.Issues(), 1)
	require.Equal(t, "schema", r.Issues()[0].Kind)
}

func TestStrictRegistryAbortsOnSchemaError(t *testing.T) {
	fsys := mapFS(map[string]string{
		".github/workflows/noon.yml": "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps: []\n",
	})

	r := New(true)
	err := r.CollectDir(fsys, ".")
	require.Error(t, err)
}

func TestCollectFileInfersKindFromFilename(t *testing.T) {
	read := func(path string) (string, error) {
		return "runs:\n  using: composite\n  steps:\n    - run: echo hi\n      shell: bash\n", nil
	}

	r := New(false)
	require.NoError(t, r.CollectFile(read, "/tmp/checkout/action.yml"))
	entries := r.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, KindAction, entries[0].Kind)
	require.Equal(t, SourceSingleFile, entries[0].Source)
}

func TestCollectFileRejectsUnrecognizedName(t *testing.T) {
	r := New(false)
	err := r.CollectFile(func(string) (string, error) { return "", nil }, "README.md")
	require.Error(t, err)
}
