package rank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultkb/vaultkb/internal/mdparse"
	"github.com/vaultkb/vaultkb/internal/pathnorm"
)

func mkNote(t *testing.T, dir, leaf string) pathnorm.NormPath {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, leaf), []byte("body"), 0o644))
	p, err := pathnorm.New(dir, leaf)
	require.NoError(t, err)
	return p
}

func TestComputeEmptyGraph(t *testing.T) {
	assert.Nil(t, Compute(nil, "", 20, 1e-6))
}

func TestComputeUniformWithNoLinks(t *testing.T) {
	dir := t.TempDir()
	a := mkNote(t, dir, "a.md")
	b := mkNote(t, dir, "b.md")
	vertices := []Vertex{{Path: a}, {Path: b}}

	ranks := Compute(vertices, dir, 20, 1e-9)
	require.Len(t, ranks, 2)
	assert.Equal(t, ranks[0], ranks[1])
}

func TestComputeFavorsMoreLinkedTarget(t *testing.T) {
	dir := t.TempDir()
	a := mkNote(t, dir, "a.md")
	b := mkNote(t, dir, "b.md")
	c := mkNote(t, dir, "c.md")

	vertices := []Vertex{
		{Path: a, Links: []mdparse.Link{{URL: "b.md"}}},
		{Path: b},
		{Path: c, Links: []mdparse.Link{{URL: "b.md"}}},
	}

	ranks := Compute(vertices, dir, 50, 1e-9)
	assert.Greater(t, ranks[1], ranks[0])
	assert.Greater(t, ranks[1], ranks[2])
}

func TestComputeIgnoresUnresolvableLinks(t *testing.T) {
	dir := t.TempDir()
	a := mkNote(t, dir, "a.md")
	vertices := []Vertex{
		{Path: a, Links: []mdparse.Link{{URL: "missing.md"}, {URL: "https://example.com/x.md"}}},
	}
	ranks := Compute(vertices, dir, 20, 1e-9)
	assert.Len(t, ranks, 1)
}
