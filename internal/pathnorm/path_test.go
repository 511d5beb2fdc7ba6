package pathnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withFakeCanonicalize(t *testing.T) {
	t.Helper()
	prev := canonicalizeFunc
	canonicalizeFunc = func(path string) (string, error) { return path, nil }
	t.Cleanup(func() { canonicalizeFunc = prev })
}

func TestNewRejectsNonMarkdown(t *testing.T) {
	withFakeCanonicalize(t)
	_, err := New("/vault", "note.txt")
	require.Error(t, err)
	assert.IsType(t, &NotMarkdownError{}, err)
}

func TestNewDecodesPercentEncodedLeaf(t *testing.T) {
	withFakeCanonicalize(t)
	p, err := New("/vault", "has%20space.md")
	require.NoError(t, err)
	assert.Equal(t, "has space", p.Stem())
}

func TestEqualPathsCompareEqual(t *testing.T) {
	withFakeCanonicalize(t)
	a, err := New("/vault", "note.md")
	require.NoError(t, err)
	b, err := New("/vault/", "note.md")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, a.Key(), b.Key())
}

func TestIsZero(t *testing.T) {
	var p NormPath
	assert.True(t, p.IsZero())

	withFakeCanonicalize(t)
	p, err := New("/vault", "note.md")
	require.NoError(t, err)
	assert.False(t, p.IsZero())
}
