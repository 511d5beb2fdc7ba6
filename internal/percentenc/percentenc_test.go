package percentenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []string{
		"plain/path.md",
		"has space.md",
		`quote"and<angle>and` + "`backtick`.md",
		"unicode/café.md",
	}
	for _, c := range cases {
		encoded := Encode(c)
		assert.Equal(t, c, Decode(encoded), "round trip mismatch for %q (encoded=%q)", c, encoded)
	}
}

func TestEncodeOnlyTouchesFragmentSet(t *testing.T) {
	in := "abc/DEF-123_~.md"
	assert.Equal(t, in, Encode(in))
}

func TestEncodeUppercasesHex(t *testing.T) {
	assert.Equal(t, "%20", Encode(" "))
}

func TestDecodeInvalidEscapePassesThrough(t *testing.T) {
	in := "100%off.md"
	assert.Equal(t, in, Decode(in), "invalid hex escape should pass through unchanged")
}

func TestDecodeInvalidUTF8IsLossy(t *testing.T) {
	// %FF is not valid UTF-8 on its own.
	assert.NotEmpty(t, Decode("%FF"))
}
