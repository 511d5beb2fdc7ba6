package posmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetToRowColASCII(t *testing.T) {
	m := New("foo\nbar\nbaz", UTF8)
	row, col, err := m.OffsetToRowCol(4)
	require.NoError(t, err)
	assert.Equal(t, 1, row)
	assert.Equal(t, 0, col)
}

func TestRowColToOffsetRoundTrip(t *testing.T) {
	text := "alpha\nbeta\ngamma"
	m := New(text, UTF8)
	for offset := 0; offset <= len(text); offset++ {
		row, col, err := m.OffsetToRowCol(offset)
		require.NoErrorf(t, err, "OffsetToRowCol(%d)", offset)
		back, err := m.RowColToOffset(row, col)
		require.NoErrorf(t, err, "RowColToOffset(%d, %d)", row, col)
		assert.Equalf(t, offset, back, "round trip offset %d -> (%d,%d) -> %d", offset, row, col, back)
	}
}

func TestOffsetOutOfRange(t *testing.T) {
	m := New("short", UTF8)
	_, _, err := m.OffsetToRowCol(100)
	assert.Error(t, err)
}

func TestLineNotFound(t *testing.T) {
	m := New("one line", UTF8)
	_, err := m.RowColToOffset(5, 0)
	assert.Error(t, err)
}

func TestUTF16SurrogatePairWidth(t *testing.T) {
	// U+1F600 (grinning face) requires a UTF-16 surrogate pair (2 units)
	// but is a single UTF-32/rune unit and 4 UTF-8 bytes.
	text := "a\U0001F600b"
	m := New(text, UTF16)
	_, col, err := m.OffsetToRowCol(len(text))
	require.NoError(t, err)
	assert.Equal(t, 4, col) // 'a' (1) + surrogate pair (2) + 'b' (1)
}

func TestPosCovers(t *testing.T) {
	m := New("hello world", UTF8)
	p, err := NewPos(m, 0, 5)
	require.NoError(t, err)
	assert.True(t, p.Covers(0, 0))
	assert.True(t, p.Covers(0, 5))
	assert.False(t, p.Covers(0, 6))
}
