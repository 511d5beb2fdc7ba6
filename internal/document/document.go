// Package document implements one note: a normalized path, its live
// rope text, parsed links, frontmatter metadata, and a derived title.
// Construction is grounded on gardener-docforge's parser wiring via
// internal/mdparse; the read-and-build shape follows the
// read-file/build-in-memory-model idiom upbound-up uses for its
// xpls workspace snapshots.
package document

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/vaultkb/vaultkb/internal/mdparse"
	"github.com/vaultkb/vaultkb/internal/pathnorm"
	"github.com/vaultkb/vaultkb/internal/posmap"
	"github.com/vaultkb/vaultkb/internal/rope"
	"github.com/vaultkb/vaultkb/internal/yamlvalue"
)

const (
	errReadFile = "failed to read document source"
	errParseDoc = "failed to parse document"
	titleKey    = "title"
)

// ParseError wraps a total construction failure (I/O or unparsable
// Markdown); it is distinct from the individually-recorded, non-fatal
// metadata/link problems kept on Document.Warnings.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "could not parse `" + e.Path + "`: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Document is one note.
type Document struct {
	Path     pathnorm.NormPath
	Rope     *rope.Rope
	Links    []mdparse.Link
	Metadata map[string]yamlvalue.Value
	Warnings []error
	stripped string
}

// New reads base/leaf from disk and builds a Document. I/O or
// unparsable-Markdown failures abort construction with a *ParseError;
// per-entry metadata/link problems are recorded in Warnings instead.
func New(base, leaf string) (*Document, error) {
	path, err := pathnorm.New(base, leaf)
	if err != nil {
		return nil, &ParseError{Path: filepath.Join(base, leaf), Err: err}
	}

	raw, err := os.ReadFile(path.String())
	if err != nil {
		return nil, &ParseError{Path: path.String(), Err: errors.Wrap(err, errReadFile)}
	}

	r := rope.New(string(raw))
	posm := posmap.New(string(raw), posmap.UTF16)

	res, err := mdparse.Parse(raw, posm)
	if err != nil {
		return nil, &ParseError{Path: path.String(), Err: errors.Wrap(err, errParseDoc)}
	}

	doc := &Document{
		Path:     path,
		Rope:     r,
		Links:    res.Links,
		Metadata: res.Metadata,
		Warnings: res.MetaErrors,
		stripped: res.Stripped,
	}
	return doc, nil
}

// NewFromText builds a Document for path from in-memory text rather
// than reading the filesystem; used by the live document store, whose
// content comes from the editor's didOpen/didChange notifications and
// may not match what's on disk.
func NewFromText(path pathnorm.NormPath, text string) (*Document, error) {
	r := rope.New(text)
	posm := posmap.New(text, posmap.UTF16)

	res, err := mdparse.Parse([]byte(text), posm)
	if err != nil {
		return nil, &ParseError{Path: path.String(), Err: errors.Wrap(err, errParseDoc)}
	}

	return &Document{
		Path:     path,
		Rope:     r,
		Links:    res.Links,
		Metadata: res.Metadata,
		Warnings: res.MetaErrors,
		stripped: res.Stripped,
	}, nil
}

// LinkAt returns the unique Link whose Pos covers (row, col)
// inclusively, or nil if the cursor isn't on a link.
func (d *Document) LinkAt(row, col int) *mdparse.Link {
	for i := range d.Links {
		if d.Links[i].Pos.Covers(row, col) {
			return &d.Links[i]
		}
	}
	return nil
}

// HasLinkTo reports whether any Link resolves (against the containing
// base directory) to target.
func (d *Document) HasLinkTo(target pathnorm.NormPath, resolve func(mdparse.Link, string) (pathnorm.NormPath, bool)) bool {
	base := d.Path.Dir()
	for _, l := range d.Links {
		if np, ok := resolve(l, base); ok && np == target {
			return true
		}
	}
	return false
}

// Stripped returns the document's content with code blocks, tables,
// images, and metadata already removed by the parser.
func (d *Document) Stripped() string {
	return d.stripped
}

// Title returns the frontmatter `title` entry's display string if
// present, else the file's stem.
func (d *Document) Title() string {
	if v, ok := d.Metadata[titleKey]; ok {
		return v.Display()
	}
	return d.Path.Stem()
}

// Refresh re-runs the Parser over the current rope content and
// replaces Links/Metadata/Warnings in place; used by the live store
// after didChange applies an edit.
func (d *Document) Refresh() error {
	text := d.Rope.String()
	posm := posmap.New(text, posmap.UTF16)
	res, err := mdparse.Parse([]byte(text), posm)
	if err != nil {
		return errors.Wrap(err, errParseDoc)
	}
	d.Links = res.Links
	d.Metadata = res.Metadata
	d.Warnings = res.MetaErrors
	d.stripped = res.Stripped
	return nil
}
