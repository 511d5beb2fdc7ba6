// Package xls is the LSP core: a live, editor-backed document store and
// the initialize/completion/definition/hover/didOpen/didChange/didClose
// handlers built over it. Grounded on upbound-up's internal/xpls, whose
// server/dispatcher/handler split this package mirrors; that package's
// own JSON-RPC protocol types come from a vendored fork of
// golang.org/x/tools bundled via a local `replace` directive in
// upbound-up's go.mod (github.com/golang/tools => ./internal/vendor/...),
// which is exactly the kind of fabricated/vendored dependency this
// module must not reproduce, so every LSP type here comes from
// github.com/sourcegraph/go-lsp instead, paired with the same
// github.com/sourcegraph/jsonrpc2 transport upbound-up also uses
// directly.
package xls

import (
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"
	lsp "github.com/sourcegraph/go-lsp"

	"github.com/vaultkb/vaultkb/internal/document"
	"github.com/vaultkb/vaultkb/internal/pathnorm"
)

const (
	errUnknownDocument = "no open document for this URI"
	errBadURI          = "could not parse document URI"
	errNotFileURI      = "only file:// document URIs are supported"
)

// UnknownDocumentError reports an operation against a URI the store has
// no open document for.
type UnknownDocumentError struct {
	URI lsp.DocumentURI
}

func (e *UnknownDocumentError) Error() string {
	return errUnknownDocument + ": " + string(e.URI)
}

// entry guards one live document behind its own lock, so edits to
// different URIs never contend with one another.
type entry struct {
	mu  sync.Mutex
	doc *document.Document
}

// Store is the live document store: the in-memory, editor-authoritative
// content for every currently-open URI, keyed by the URI the client
// uses to address it. It is distinct from a Vault, which reflects
// on-disk content; a Store entry supersedes its on-disk counterpart for
// as long as the client keeps the document open.
type Store struct {
	mu   sync.RWMutex
	docs map[lsp.DocumentURI]*entry
}

// NewStore builds an empty live document store.
func NewStore() *Store {
	return &Store{docs: map[lsp.DocumentURI]*entry{}}
}

// uriToPath converts a file:// DocumentURI into a NormPath.
func uriToPath(uri lsp.DocumentURI) (pathnorm.NormPath, error) {
	u, err := url.Parse(string(uri))
	if err != nil {
		return pathnorm.NormPath{}, errors.Wrap(err, errBadURI)
	}
	if u.Scheme != "file" {
		return pathnorm.NormPath{}, errors.New(errNotFileURI)
	}
	full := u.Path
	idx := strings.LastIndexByte(full, '/')
	base, leaf := full[:idx+1], full[idx+1:]
	return pathnorm.New(base, leaf)
}

// Open builds a fresh Document for uri from text (the editor's
// authoritative content at didOpen time) and adds it to the store,
// replacing any existing entry for the same URI.
func (s *Store) Open(uri lsp.DocumentURI, text string) error {
	path, err := uriToPath(uri)
	if err != nil {
		return err
	}
	doc, err := document.NewFromText(path, text)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = &entry{doc: doc}
	return nil
}

// Close drops uri's live document; subsequent lookups fall back to
// whatever else addresses the underlying file (typically the Vault).
func (s *Store) Close(uri lsp.DocumentURI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// ApplyChanges applies an ordered sequence of content-change events to
// uri's live rope and reparses it. A change with a nil Range replaces
// the whole document, matching TextDocumentSyncKind full; a change
// with a Range applies an incremental splice via the rope's LSP
// position conversion.
func (s *Store) ApplyChanges(uri lsp.DocumentURI, changes []lsp.TextDocumentContentChangeEvent) error {
	s.mu.RLock()
	e, ok := s.docs[uri]
	s.mu.RUnlock()
	if !ok {
		return &UnknownDocumentError{URI: uri}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range changes {
		if c.Range == nil {
			e.doc.Rope.ReplaceAll(c.Text)
			continue
		}
		start, err := e.doc.Rope.LSPPosToChar(c.Range.Start.Line, c.Range.Start.Character)
		if err != nil {
			return err
		}
		end, err := e.doc.Rope.LSPPosToChar(c.Range.End.Line, c.Range.End.Character)
		if err != nil {
			return err
		}
		if err := e.doc.Rope.Splice(start, end, c.Text); err != nil {
			return err
		}
	}
	return e.doc.Refresh()
}

// Get returns the live Document for uri, if one is open.
func (s *Store) Get(uri lsp.DocumentURI) (*document.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.docs[uri]
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc, true
}
