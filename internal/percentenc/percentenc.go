// Package percentenc implements the WHATWG fragment percent-encode set
// (https://url.spec.whatwg.org/#fragment-percent-encode-set), used both to
// canonicalize vault paths and to encode link destinations emitted by the
// language server.
package percentenc

import (
	"strings"
	"unicode/utf8"
)

// inFragmentSet mirrors the C0-control-plus-{space,",<,>,`} set that
// percent_encode.rs builds from `CONTROLS.add(...)`.
func inFragmentSet(b byte) bool {
	if b < 0x20 || b == 0x7f {
		return true
	}
	switch b {
	case ' ', '"', '<', '>', '`':
		return true
	}
	return false
}

// Encode percent-encodes every byte of s that falls in the fragment set.
func Encode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inFragmentSet(c) {
			b.WriteByte('%')
			b.WriteString(strings.ToUpper(hex(c >> 4)))
			b.WriteString(strings.ToUpper(hex(c & 0xf)))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func hex(nibble byte) string {
	const digits = "0123456789abcdef"
	return string(digits[nibble])
}

// Decode percent-decodes s, lossily: invalid escapes are passed through
// unchanged and invalid UTF-8 in the result is replaced with the Unicode
// replacement character, mirroring `decode_utf8_lossy`.
func Decode(s string) string {
	raw := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			raw = append(raw, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
			continue
		}
		raw = append(raw, s[i])
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	// Lossy UTF-8 decode: re-encode rune-by-rune, substituting
	// utf8.RuneError for any invalid sequence.
	var b strings.Builder
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		b.WriteRune(r)
		raw = raw[size:]
	}
	return b.String()
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
