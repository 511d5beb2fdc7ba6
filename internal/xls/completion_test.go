package xls

import (
	"strings"
	"testing"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultkb/vaultkb/internal/document"
	"github.com/vaultkb/vaultkb/internal/pathnorm"
)

func inMemoryDoc(t *testing.T, text string) *document.Document {
	t.Helper()
	dir := t.TempDir()
	writeAndURI(t, dir, "scratch.md", text)
	path, err := pathnorm.New(dir, "scratch.md")
	require.NoError(t, err)

	doc, err := document.NewFromText(path, text)
	require.NoError(t, err)
	return doc
}

func cursorAfter(text, marker string) (line, character int) {
	idx := strings.Index(text, marker)
	if idx == -1 {
		return 0, 0
	}
	upto := text[:idx+len(marker)]
	line = strings.Count(upto, "\n")
	if nl := strings.LastIndexByte(upto, '\n'); nl != -1 {
		character = len([]rune(upto[nl+1:]))
	} else {
		character = len([]rune(upto))
	}
	return line, character
}

func TestFindLinkPrefixDetectsOpenTrigger(t *testing.T) {
	text := "See [[rust n"
	doc := inMemoryDoc(t, text)
	line, char := cursorAfter(text, "rust n")

	query, editStart, editEnd, ok := findLinkPrefix(doc, line, char)
	require.True(t, ok)
	assert.Equal(t, "rust n", query)

	triggerLine, triggerChar := cursorAfter(text, "[[")
	triggerChar -= len("[[")
	assert.Equal(t, lsp.Position{Line: triggerLine, Character: triggerChar}, editStart)
	assert.Equal(t, lsp.Position{Line: line, Character: char}, editEnd)
}

func TestFindLinkPrefixExtendsEditEndThroughClosingBrackets(t *testing.T) {
	text := "See [[rust n]] more"
	doc := inMemoryDoc(t, text)
	line, char := cursorAfter(text, "rust n")

	query, _, editEnd, ok := findLinkPrefix(doc, line, char)
	require.True(t, ok)
	assert.Equal(t, "rust n", query)

	closeLine, closeChar := cursorAfter(text, "rust n]]")
	assert.Equal(t, lsp.Position{Line: closeLine, Character: closeChar}, editEnd)
}

func TestFindLinkPrefixNoneWithoutTrigger(t *testing.T) {
	text := "no trigger here"
	doc := inMemoryDoc(t, text)
	line, char := cursorAfter(text, "here")

	_, _, _, ok := findLinkPrefix(doc, line, char)
	assert.False(t, ok)
}

func TestFindLinkPrefixAlreadyClosedLink(t *testing.T) {
	text := "a [[closed]] link, typing more"
	doc := inMemoryDoc(t, text)
	line, char := cursorAfter(text, "more")

	_, _, _, ok := findLinkPrefix(doc, line, char)
	assert.False(t, ok)
}

func TestRankCandidatesEmptyQueryAlphabetizes(t *testing.T) {
	candidates := []Candidate{{Title: "Zeta"}, {Title: "Alpha"}, {Title: "Mu"}}
	ranked := rankCandidates("", candidates)
	require.Len(t, ranked, 3)
	assert.Equal(t, "Alpha", ranked[0].Title)
	assert.Equal(t, "Zeta", ranked[2].Title)
}

func TestRankCandidatesFuzzyMatch(t *testing.T) {
	candidates := []Candidate{{Title: "Rust Notes"}, {Title: "Go Notes"}, {Title: "Unrelated"}}
	ranked := rankCandidates("rst", candidates)
	require.NotEmpty(t, ranked)
	assert.Equal(t, "Rust Notes", ranked[0].Title)
}

func TestBuildCompletionItemsProducesSnippetEdits(t *testing.T) {
	candidates := []Candidate{{Title: "My Note", RelPath: "sub dir/my note.md"}}
	items := buildCompletionItems(candidates, lsp.Position{Line: 0, Character: 2}, lsp.Position{Line: 0, Character: 2})
	require.Len(t, items, 1)

	assert.Equal(t, "[${1:My Note}](sub%20dir/my%20note.md)", items[0].TextEdit.NewText)
	assert.Equal(t, lsp.SnippetTextFormat, items[0].InsertTextFormat)
}
