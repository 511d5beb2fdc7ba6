package xls

import (
	"fmt"
	"sort"

	"github.com/sahilm/fuzzy"
	lsp "github.com/sourcegraph/go-lsp"

	"github.com/vaultkb/vaultkb/internal/document"
	"github.com/vaultkb/vaultkb/internal/percentenc"
)

const (
	linkTrigger        = "[["
	scanWindow         = 200
	maxCompletionItems = 50
)

// Candidate is one link-completion target: a note's title and its path
// relative to the directory of the document being completed.
type Candidate struct {
	Title   string
	RelPath string
}

// CandidateSource supplies the notes a link completion can offer,
// already made relative to fromDir.
type CandidateSource interface {
	Candidates(fromDir string) []Candidate
}

// findLinkPrefix looks backward from (line, character) for an unclosed
// `[[` within scanWindow chars, the trigger for a link completion. The
// edit range starts at the `[[` itself and ends at the cursor, extended
// through a following `]]` if the document already has one there, so
// the snippet replaces the whole `[[...]]` span rather than inserting
// inside it. Grounded on the wiki-link completion shape described in
// §4.10: the client requests completion after typing `[[`, and the
// server offers every note title fuzzy-matched against whatever was
// typed since.
func findLinkPrefix(doc *document.Document, line, character int) (query string, editStart, editEnd lsp.Position, ok bool) {
	cursor, err := doc.Rope.LSPPosToChar(line, character)
	if err != nil {
		return "", lsp.Position{}, lsp.Position{}, false
	}
	runes := []rune(doc.Rope.String())
	if cursor > len(runes) {
		cursor = len(runes)
	}
	windowStart := cursor - scanWindow
	if windowStart < 0 {
		windowStart = 0
	}
	window := runes[windowStart:cursor]

	for i := len(window) - 2; i >= 0; i-- {
		if window[i] != '[' || window[i+1] != '[' {
			continue
		}
		rest := window[i+2:]
		if containsClose(rest) {
			return "", lsp.Position{}, lsp.Position{}, false
		}

		startChar := windowStart + i
		startLine, startCol, err := doc.Rope.CharToLSPPos(startChar)
		if err != nil {
			return "", lsp.Position{}, lsp.Position{}, false
		}

		endChar := cursor
		if runesAt(runes, cursor, ']', ']') {
			endChar = cursor + 2
		}
		endLine, endCol, err := doc.Rope.CharToLSPPos(endChar)
		if err != nil {
			return "", lsp.Position{}, lsp.Position{}, false
		}

		return string(rest), lsp.Position{Line: startLine, Character: startCol}, lsp.Position{Line: endLine, Character: endCol}, true
	}
	return "", lsp.Position{}, lsp.Position{}, false
}

func containsClose(w []rune) bool {
	for i := 0; i+1 < len(w); i++ {
		if w[i] == ']' && w[i+1] == ']' {
			return true
		}
	}
	return false
}

// runesAt reports whether runes[at] and runes[at+1] equal a and b,
// bounds-checked so a cursor near the end of the document never panics.
func runesAt(runes []rune, at int, a, b rune) bool {
	return at >= 0 && at+1 < len(runes) && runes[at] == a && runes[at+1] == b
}

type titleSource []Candidate

func (t titleSource) String(i int) string { return t[i].Title }
func (t titleSource) Len() int            { return len(t) }

// rankCandidates fuzzy-ranks candidates against query, or alphabetizes
// them when query is empty (completion invoked right after `[[` with
// nothing typed yet), capped at maxCompletionItems.
func rankCandidates(query string, candidates []Candidate) []Candidate {
	if query == "" {
		out := make([]Candidate, len(candidates))
		copy(out, candidates)
		sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
		return capCandidates(out)
	}

	matches := fuzzy.Find(query, titleSource(candidates))
	out := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		out = append(out, candidates[m.Index])
	}
	return capCandidates(out)
}

func capCandidates(c []Candidate) []Candidate {
	if len(c) > maxCompletionItems {
		return c[:maxCompletionItems]
	}
	return c
}

// buildCompletionItems turns ranked candidates into LSP completion
// items, each a snippet that replaces [editStart, editEnd) - the `[[`
// through the cursor (and any immediately-following `]]`) - with the
// note's title as a tabstop wrapped in markdown-link syntax followed by
// its percent-encoded relative path, so accepting the completion
// yields `[${1:Title}](path/to/note.md)`.
func buildCompletionItems(candidates []Candidate, editStart, editEnd lsp.Position) []lsp.CompletionItem {
	items := make([]lsp.CompletionItem, 0, len(candidates))
	for i, c := range candidates {
		snippet := fmt.Sprintf("[${1:%s}](%s)", c.Title, percentenc.Encode(c.RelPath))
		items = append(items, lsp.CompletionItem{
			Label:            c.Title,
			Detail:           c.RelPath,
			InsertTextFormat: lsp.SnippetTextFormat,
			SortText:         fmt.Sprintf("%04d", i),
			TextEdit: &lsp.TextEdit{
				Range:   lsp.Range{Start: editStart, End: editEnd},
				NewText: snippet,
			},
		})
	}
	return items
}
