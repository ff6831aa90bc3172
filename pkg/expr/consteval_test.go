package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalSrc(t *testing.T, src string) Value {
	t.Helper()
	n, err := Parse(src)
	require.NoError(t, err)
	v, ok, err := Consteval(n)
	require.NoError(t, err)
	require.True(t, ok, "expected %q to be consteval-able", src)
	return v
}

func TestConstevalFormat(t *testing.T) {
	v := evalSrc(t, "format('{0} {1}', 'a', 'b')")
	assert.Equal(t, "a b", v.Str)

	v = evalSrc(t, "format('{0}', 'x', 'y')")
	assert.Equal(t, "x", v.Str, "extra args beyond the template's placeholders are ignored")
}

func TestConstevalFormatMalformedFails(t *testing.T) {
	n, err := Parse("format('{', 'x')")
	require.NoError(t, err)
	_, ok, err := Consteval(n)
	assert.True(t, ok)
	assert.Error(t, err)
}

func TestConstevalContains(t *testing.T) {
	v := evalSrc(t, "contains('HELLO WORLD', 'world')")
	assert.True(t, v.Bool)

	v = evalSrc(t, "contains(fromJSON('[1,2,3]'), 2)")
	assert.True(t, v.Bool)

	v = evalSrc(t, "contains(fromJSON('[\"a\",\"b\"]'), 'B')")
	assert.False(t, v.Bool, "array containment is exact-match, not case-folded")
}

func TestConstevalJoinNullsAsEmptyString(t *testing.T) {
	v := evalSrc(t, "join(fromJSON('[true,false,null]'), ',')")
	assert.Equal(t, "true,false,", v.Str)
}

func TestFromJSONToJSONRoundTrip(t *testing.T) {
	src := `{"a":1,"b":[true,null,"x"]}`
	v, err := FromJSON(src)
	require.NoError(t, err)
	b, err := v.MarshalJSONCompact()
	require.NoError(t, err)
	rt, err := FromJSON(string(b))
	require.NoError(t, err)
	assert.True(t, v.Equal(rt))
}

func TestConstevalNeverMutatesAcrossCalls(t *testing.T) {
	n, err := Parse("format('{0}', 'x')")
	require.NoError(t, err)
	v1, ok1, err1 := Consteval(n)
	v2, ok2, err2 := Consteval(n)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.True(t, v1.Equal(v2))
}

func TestDataflowContextsThroughAndOr(t *testing.T) {
	n, err := Parse("github.event_name == 'push' && github.actor")
	require.NoError(t, err)
	ctxs := DataflowContexts(n)
	assert.Contains(t, ctxs, "github.actor")
	assert.NotContains(t, ctxs, "github.event_name")
}

func TestDataflowContextsBlockedByNonWhitelistedCall(t *testing.T) {
	n, err := Parse("someFunc(github.actor)")
	require.NoError(t, err)
	ctxs := DataflowContexts(n)
	assert.Empty(t, ctxs)
}

func TestConstantReducibleExcludesContexts(t *testing.T) {
	n, err := Parse("format('{0}', github.actor)")
	require.NoError(t, err)
	assert.False(t, ConstantReducible(n))

	n, err = Parse("format('{0}', 'a')")
	require.NoError(t, err)
	assert.True(t, ConstantReducible(n))
}

func TestFindSpoofableActorFragmentsDomination(t *testing.T) {
	n, err := Parse("github.actor == 'dependabot[bot]' || foo")
	require.NoError(t, err)
	matches := FindSpoofableActorFragments(n)
	require.Len(t, matches, 1)
	assert.True(t, matches[0].Dominating)

	n, err = Parse("github.actor == 'dependabot[bot]' && foo")
	require.NoError(t, err)
	matches = FindSpoofableActorFragments(n)
	require.Len(t, matches, 1)
	assert.False(t, matches[0].Dominating)
}
