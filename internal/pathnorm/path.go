// Package pathnorm canonicalizes Markdown file paths so that two paths
// referring to the same file on disk compare equal regardless of how they
// were percent-encoded on input. Grounded on original_source/src/path.rs,
// translated from the Rust `MarkdownPath` into an idiomatic Go value type.
package pathnorm

import (
	"path/filepath"
	"strings"

	"github.com/vaultkb/vaultkb/internal/percentenc"
)

// NotMarkdownError reports that a leaf path does not have a `.md` suffix.
type NotMarkdownError struct {
	Path string
}

func (e *NotMarkdownError) Error() string {
	return "the path `" + e.Path + "` is not a Markdown file"
}

// CanonicalizationFailedError reports that the filesystem could not
// resolve base+leaf to a real file.
type CanonicalizationFailedError struct {
	Path   string
	Reason string
}

func (e *CanonicalizationFailedError) Error() string {
	return "could not canonicalise the path `" + e.Path + "` because " + e.Reason
}

// canonicalizeFunc is swappable in tests so canonicalization doesn't
// require touching the real filesystem.
var canonicalizeFunc = filepath.EvalSymlinks

// NormPath is the opaque, hashable identity of a Markdown file: the
// absolute, percent-decoded, canonical filesystem path. Equality and the
// map key derived from it depend only on that canonical path, per §3 of
// the spec - the struct deliberately carries no other comparable field so
// Go's native `==` already satisfies the identity invariant.
type NormPath struct {
	canonical string
}

// New builds a NormPath from a base directory and a (possibly
// percent-encoded) leaf. The leaf's suffix must be `.md`.
func New(base, leaf string) (NormPath, error) {
	if filepath.Ext(leaf) != ".md" {
		return NormPath{}, &NotMarkdownError{Path: leaf}
	}

	decodedBase := percentenc.Decode(base)
	decodedLeaf := percentenc.Decode(leaf)

	joined := filepath.Join(decodedBase, decodedLeaf)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return NormPath{}, &CanonicalizationFailedError{Path: joined, Reason: err.Error()}
	}

	canonical, err := canonicalizeFunc(abs)
	if err != nil {
		return NormPath{}, &CanonicalizationFailedError{Path: abs, Reason: err.Error()}
	}

	return NormPath{canonical: canonical}, nil
}

// String returns the canonical path; this is also the serialized form.
func (p NormPath) String() string {
	return p.canonical
}

// Key returns the map key for this NormPath - the canonical path string.
func (p NormPath) Key() string {
	return p.canonical
}

// IsZero reports whether p is the zero value (never a valid NormPath).
func (p NormPath) IsZero() bool {
	return p.canonical == ""
}

// Dir returns the directory containing this path, for use as the base
// directory when resolving links relative to this document.
func (p NormPath) Dir() string {
	return filepath.Dir(p.canonical)
}

// Stem returns the file name without its `.md` extension.
func (p NormPath) Stem() string {
	base := filepath.Base(p.canonical)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
