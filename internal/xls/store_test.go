package xls

import (
	"os"
	"path/filepath"
	"testing"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAndURI(t *testing.T, dir, leaf, body string) lsp.DocumentURI {
	t.Helper()
	full := filepath.Join(dir, leaf)
	require.NoError(t, os.WriteFile(full, []byte(body), 0o644))
	return lsp.DocumentURI("file://" + full)
}

func TestStoreOpenAndGet(t *testing.T) {
	dir := t.TempDir()
	uri := writeAndURI(t, dir, "note.md", "original\n")

	s := NewStore()
	require.NoError(t, s.Open(uri, "---\ntitle: Live\n---\n\nedited content\n"))

	doc, ok := s.Get(uri)
	require.True(t, ok)
	assert.Equal(t, "Live", doc.Title())
}

func TestStoreGetUnknownURI(t *testing.T) {
	s := NewStore()
	_, ok := s.Get(lsp.DocumentURI("file:///never/opened.md"))
	assert.False(t, ok)
}

func TestStoreClose(t *testing.T) {
	dir := t.TempDir()
	uri := writeAndURI(t, dir, "note.md", "body\n")

	s := NewStore()
	require.NoError(t, s.Open(uri, "body\n"))
	s.Close(uri)

	_, ok := s.Get(uri)
	assert.False(t, ok)
}

func TestStoreApplyChangesFullReplace(t *testing.T) {
	dir := t.TempDir()
	uri := writeAndURI(t, dir, "note.md", "original\n")

	s := NewStore()
	require.NoError(t, s.Open(uri, "original\n"))

	err := s.ApplyChanges(uri, []lsp.TextDocumentContentChangeEvent{
		{Text: "replaced entirely\n"},
	})
	require.NoError(t, err)

	doc, _ := s.Get(uri)
	assert.Equal(t, "replaced entirely\n", doc.Rope.String())
}

func TestStoreApplyChangesIncremental(t *testing.T) {
	dir := t.TempDir()
	uri := writeAndURI(t, dir, "note.md", "hello world\n")

	s := NewStore()
	require.NoError(t, s.Open(uri, "hello world\n"))

	err := s.ApplyChanges(uri, []lsp.TextDocumentContentChangeEvent{
		{
			Range: &lsp.Range{
				Start: lsp.Position{Line: 0, Character: 6},
				End:   lsp.Position{Line: 0, Character: 11},
			},
			Text: "there",
		},
	})
	require.NoError(t, err)

	doc, _ := s.Get(uri)
	assert.Equal(t, "hello there\n", doc.Rope.String())
}

func TestStoreApplyChangesUnknownURI(t *testing.T) {
	s := NewStore()
	err := s.ApplyChanges(lsp.DocumentURI("file:///never/opened.md"), nil)
	require.Error(t, err)
	assert.IsType(t, &UnknownDocumentError{}, err)
}
