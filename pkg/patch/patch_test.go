package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hardenedci/actionaudit/pkg/route"
	"github.com/hardenedci/actionaudit/pkg/yamldoc"
)

func parseDoc(t *testing.T, src string) *yamldoc.Document {
	t.Helper()
	d, err := yamldoc.Parse(src)
	require.NoError(t, err)
	return d
}

func TestApplyEmptyPatchListFails(t *testing.T) {
	d := parseDoc(t, "foo: bar\n")
	_, err := Apply(d, nil)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, InvalidOperation, perr.Kind)
}

func TestAddIntoFlowMapping(t *testing.T) {
	d := parseDoc(t, "foo: { bar: abc }\n")
	out, err := Apply(d, []Patch{{Route: route.Route{route.K("foo")}, Op: Add{Key: "baz", Value: "qux"}}})
	require.NoError(t, err)
	assert.Contains(t, out.Source(), "baz: qux")
	assert.Contains(t, out.Source(), "bar: abc")
}

func TestAddBeforeTrailingComment(t *testing.T) {
	src := "foo:\n  bar: baz # comment\n"
	d := parseDoc(t, src)
	out, err := Apply(d, []Patch{{Route: route.Route{route.K("foo")}, Op: Add{Key: "qux", Value: "xyz"}}})
	require.NoError(t, err)
	assert.Contains(t, out.Source(), "qux: xyz")
}

func TestAddRejectsExistingKey(t *testing.T) {
	d := parseDoc(t, "foo:\n  bar: baz\n")
	_, err := Apply(d, []Patch{{Route: route.Route{route.K("foo")}, Op: Add{Key: "bar", Value: "qux"}}})
	require.Error(t, err)
}

func TestAddAllowsKeyNestedUnderSibling(t *testing.T) {
	src := "foo:\n  bar:\n    qux: 1\n  baz: 2\n"
	d := parseDoc(t, src)
	out, err := Apply(d, []Patch{{Route: route.Route{route.K("foo")}, Op: Add{Key: "qux", Value: "3"}}})
	require.NoError(t, err)
	assert.Contains(t, out.Source(), "qux: 3")
	assert.Contains(t, out.Source(), "qux: 1")
}

func TestRewriteFragmentFirstOccurrenceOnly(t *testing.T) {
	src := "run: |\n  echo hello\n  echo hello\n"
	d := parseDoc(t, src)
	out, err := Apply(d, []Patch{{Route: route.Route{route.K("run")}, Op: RewriteFragment{From: "hello", To: "world"}}})
	require.NoError(t, err)
	first := indexOf(out.Source(), "world")
	second := indexOf(out.Source()[first+1:], "hello")
	assert.True(t, first >= 0)
	assert.True(t, second >= 0, "second occurrence of 'hello' should remain")
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestTrailingNewlinePreserved(t *testing.T) {
	src := "foo: bar\n"
	d := parseDoc(t, src)
	out, err := Apply(d, []Patch{{Route: route.Route{route.K("foo")}, Op: Replace{Value: "baz"}}})
	require.NoError(t, err)
	assert.True(t, len(out.Source()) > 0 && out.Source()[len(out.Source())-1] == '\n')
	assert.False(t, len(out.Source()) >= 2 && out.Source()[len(out.Source())-2] == '\n')
}

func TestRemoveDeletesWholeLine(t *testing.T) {
	src := "a: 1\nb: 2\nc: 3\n"
	d := parseDoc(t, src)
	out, err := Apply(d, []Patch{{Route: route.Route{route.K("b")}, Op: Remove{}}})
	require.NoError(t, err)
	assert.NotContains(t, out.Source(), "b: 2")
	assert.Contains(t, out.Source(), "a: 1")
	assert.Contains(t, out.Source(), "c: 3")
}
