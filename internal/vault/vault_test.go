package vault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultkb/vaultkb/internal/pathnorm"
	"github.com/vaultkb/vaultkb/internal/query"
)

func writeNote(t *testing.T, dir, leaf, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, leaf), []byte(body), 0o644))
}

func openFixtureVault(t *testing.T) (*Vault, string) {
	t.Helper()
	dir := t.TempDir()
	writeNote(t, dir, "a.md", "---\ntitle: Alpha\ntags:\n  - go\n---\n\nLinks to [[b]](b.md). go go go.\n")
	writeNote(t, dir, "b.md", "---\ntitle: Beta\n---\n\nNo outgoing links, mentions go once.\n")
	writeNote(t, dir, "c.md", "---\ntitle: Gamma\n---\n\nUnrelated content about rust.\n")
	writeNote(t, dir, "notmd.txt", "ignored")

	v, errs := Open(dir)
	require.Empty(t, errs)
	return v, dir
}

func TestOpenSkipsNonMarkdownFiles(t *testing.T) {
	v, _ := openFixtureVault(t)
	assert.Len(t, v.Documents(), 3)
}

func TestOpenCollectsNonFatalErrorsForBadFiles(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "good.md", "---\ntitle: Good\n---\n\nbody\n")
	// an unreadable "file" (a directory named *.md) should be skipped, not abort Open.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "bad.md"), 0o755))

	v, errs := Open(dir)
	assert.NotEmpty(t, errs)
	assert.Len(t, v.Documents(), 1)
}

func TestGetByPath(t *testing.T) {
	v, dir := openFixtureVault(t)
	target, err := pathnorm.New(dir, "a.md")
	require.NoError(t, err)

	doc, ok := v.Get(target)
	require.True(t, ok)
	assert.Equal(t, "Alpha", doc.Title())
}

func TestSearchScoresByTermFrequency(t *testing.T) {
	v, _ := openFixtureVault(t)
	scored := v.Search("go")
	var aScore, cScore float64
	for _, s := range scored {
		switch s.Doc.Title() {
		case "Alpha":
			aScore = s.Score
		case "Gamma":
			cScore = s.Score
		}
	}
	assert.Greater(t, aScore, cScore)
}

func TestFindBacklinks(t *testing.T) {
	v, dir := openFixtureVault(t)
	target, err := pathnorm.New(dir, "b.md")
	require.NoError(t, err)

	assert.Len(t, v.FindBacklinks(target), 1)
}

func TestQueryFiltersByMetadata(t *testing.T) {
	v, _ := openFixtureVault(t)
	tree, err := query.Parse(`(contains tags "go")`)
	require.NoError(t, err)

	matches := v.Query(tree)
	require.Len(t, matches, 1)
	assert.Equal(t, "Alpha", matches[0].Title())
}

func TestRankReturnsOneEntryPerDocument(t *testing.T) {
	v, _ := openFixtureVault(t)
	assert.Len(t, v.Rank(), len(v.Documents()))
}

func TestSearchRankedDropsZeroScoresAndSortsDescending(t *testing.T) {
	v, _ := openFixtureVault(t)
	results := v.SearchRanked("go", DefaultMaxResults)
	require.NotEmpty(t, results)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
	for _, r := range results {
		assert.NotEqual(t, "Gamma", r.Doc.Title())
	}
}

func TestSearchRankedTruncatesToMaxResults(t *testing.T) {
	v, _ := openFixtureVault(t)
	assert.Len(t, v.SearchRanked("go", 1), 1)
}
