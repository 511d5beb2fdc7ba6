// Package rope implements the text container backing the live document
// store: splice-by-range edits and line/char-index queries. Grounded on
// original_source/src/rope.rs (a thin ropey.Rope extension for LSP
// position conversion); no rope/text-buffer library appears anywhere in
// the retrieved pack, so the container itself is a small stdlib-only
// type, generalized from ropey's char-indexed API to Go's rune slices,
// while the UTF-16 position arithmetic follows the same approach as
// other_examples/1519d9e1_duber000-kukicha__internal-lsp-document.go.go.
package rope

import (
	"strings"

	"github.com/vaultkb/vaultkb/internal/posmap"
)

// Rope is a mutable, line-indexed text buffer. It is not a persistent
// or balanced-tree rope; it is a flat rune buffer. Splice copies the
// whole buffer (O(n), not O(log n)), and line offsets are recomputed by
// scanning the buffer on every line/position query. Edits to one URI are
// serialized under a single lock by the live store, so no lock-free or
// persistent structure is used here.
type Rope struct {
	runes []rune
}

// New builds a Rope from initial text.
func New(text string) *Rope {
	return &Rope{runes: []rune(text)}
}

// String returns the full text.
func (r *Rope) String() string {
	return string(r.runes)
}

// Len returns the number of runes (chars) in the rope.
func (r *Rope) Len() int {
	return len(r.runes)
}

// RangeOutOfBoundsError reports a char range outside [0, Len()].
type RangeOutOfBoundsError struct {
	Start, End, Len int
}

func (e *RangeOutOfBoundsError) Error() string {
	return "rope range is out of bounds"
}

// Splice replaces the char range [start, end) with replacement.
func (r *Rope) Splice(start, end int, replacement string) error {
	if start < 0 || end < start || end > len(r.runes) {
		return &RangeOutOfBoundsError{Start: start, End: end, Len: len(r.runes)}
	}
	next := make([]rune, 0, len(r.runes)-(end-start)+len(replacement))
	next = append(next, r.runes[:start]...)
	next = append(next, []rune(replacement)...)
	next = append(next, r.runes[end:]...)
	r.runes = next
	return nil
}

// ReplaceAll discards the current content wholesale.
func (r *Rope) ReplaceAll(text string) {
	r.runes = []rune(text)
}

// lineStarts returns, in char indices, the offset of each line's first
// char; lineStarts[0] is always 0.
func (r *Rope) lineStarts() []int {
	starts := []int{0}
	for i, ch := range r.runes {
		if ch == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// LineToChar returns the char index of the start of the given line.
func (r *Rope) LineToChar(line int) (int, error) {
	starts := r.lineStarts()
	if line < 0 || line >= len(starts) {
		return 0, &posmap.LineNotFoundError{Row: line}
	}
	return starts[line], nil
}

// CharToLine returns the line containing the given char index.
func (r *Rope) CharToLine(char int) (int, error) {
	if char < 0 || char > len(r.runes) {
		return 0, &RangeOutOfBoundsError{Start: char, End: char, Len: len(r.runes)}
	}
	starts := r.lineStarts()
	line := 0
	for i, s := range starts {
		if s <= char {
			line = i
		} else {
			break
		}
	}
	return line, nil
}

// LSPPosToChar converts an LSP (line, UTF-16 character) position into a
// rope char index, clamping a past-end-of-line character to the line's
// length. Mirrors rope.rs's lsp_pos_to_char.
func (r *Rope) LSPPosToChar(line, character int) (int, error) {
	lineStart, err := r.LineToChar(line)
	if err != nil {
		return 0, err
	}
	lineEnd := len(r.runes)
	starts := r.lineStarts()
	if line+1 < len(starts) {
		lineEnd = starts[line+1]
		if lineEnd > 0 && r.runes[lineEnd-1] == '\n' {
			lineEnd--
		}
	}

	utf16Units := 0
	for i := lineStart; i < lineEnd; i++ {
		if utf16Units == character {
			return i, nil
		}
		utf16Units += utf16RuneLen(r.runes[i])
	}
	return lineEnd, nil
}

// CharToLSPPos converts a rope char index into an LSP (line, UTF-16
// character) position. Mirrors rope.rs's char_to_lsp_pos.
func (r *Rope) CharToLSPPos(char int) (line, character int, err error) {
	line, err = r.CharToLine(char)
	if err != nil {
		return 0, 0, err
	}
	lineStart, err := r.LineToChar(line)
	if err != nil {
		return 0, 0, err
	}
	units := 0
	for i := lineStart; i < char; i++ {
		units += utf16RuneLen(r.runes[i])
	}
	return line, units, nil
}

func utf16RuneLen(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

// Stripped returns the text with each line trimmed of leading/trailing
// whitespace, blank lines dropped, and the remaining lines joined by
// single spaces, used as a cheap
// fallback when a caller needs rope content without going through the
// Parser's stripped-text pass.
func (r *Rope) Stripped() string {
	lines := strings.Split(r.String(), "\n")
	var b strings.Builder
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		b.WriteString(trimmed)
		b.WriteByte(' ')
	}
	return strings.TrimSpace(b.String())
}
