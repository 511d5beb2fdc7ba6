package yamlvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parseNode(t *testing.T, doc string) *yaml.Node {
	t.Helper()
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(doc), &n))
	return &n
}

func TestFromNodeScalars(t *testing.T) {
	cases := []struct {
		doc  string
		kind Kind
	}{
		{"null", Null},
		{"true", Boolean},
		{"42", Integer},
		{"3.14", Real},
		{"hello", String},
	}
	for _, c := range cases {
		v, err := FromNode(parseNode(t, c.doc))
		require.NoErrorf(t, err, "FromNode(%q)", c.doc)
		assert.Equalf(t, c.kind, v.Kind, "FromNode(%q).Kind", c.doc)
	}
}

func TestFromNodeSequence(t *testing.T) {
	v, err := FromNode(parseNode(t, "[1, 2, 3]"))
	require.NoError(t, err)
	require.Equal(t, Array, v.Kind)
	require.Len(t, v.Items, 3)
	assert.Equal(t, int64(2), v.Items[1].Int)
}

func TestFromNodeMappingSkipsNonStringKeys(t *testing.T) {
	v, err := FromNode(parseNode(t, "a: 1\n? [1, 2]\n: ignored\n"))
	require.NoError(t, err)
	require.Equal(t, Mapping, v.Kind)
	require.Len(t, v.Entries, 1)
	assert.Equal(t, "a", v.Entries[0].Key)
}

func TestDisplay(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Value{Kind: Null}, ""},
		{Value{Kind: Boolean, Bool: true}, "true"},
		{Value{Kind: Integer, Int: 7}, "7"},
		{Value{Kind: String, Str: "x"}, "x"},
		{Value{Kind: Array, Items: []Value{{Kind: Integer, Int: 1}, {Kind: Integer, Int: 2}}}, "[1, 2]"},
		{Value{Kind: Mapping, Entries: []Entry{{Key: "a", Value: Value{Kind: Integer, Int: 1}}}}, "{a: 1}"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.v.Display())
	}
}

func TestContains(t *testing.T) {
	arr := Value{Kind: Array, Items: []Value{
		{Kind: String, Str: "go"},
		{Kind: String, Str: "rust"},
	}}
	assert.True(t, arr.Contains("rust"))
	assert.False(t, arr.Contains("python"))

	num := Value{Kind: Integer, Int: 42}
	assert.True(t, num.Contains("42"))
	assert.False(t, num.Contains("43"))
}

func TestCompareOrdersByKindThenValue(t *testing.T) {
	a := Value{Kind: Integer, Int: 1}
	b := Value{Kind: String, Str: "x"}
	assert.Negative(t, Compare(a, b))

	lo := Value{Kind: Integer, Int: 1}
	hi := Value{Kind: Integer, Int: 2}
	assert.Negative(t, Compare(lo, hi))
	assert.Positive(t, Compare(hi, lo))
	assert.Zero(t, Compare(lo, Value{Kind: Integer, Int: 1}))
}
