package xls

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/crossplane/crossplane-runtime/pkg/logging"
	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/vaultkb/vaultkb/internal/document"
	"github.com/vaultkb/vaultkb/internal/linkresolver"
	"github.com/vaultkb/vaultkb/internal/mdparse"
	"github.com/vaultkb/vaultkb/internal/pathnorm"
	"github.com/vaultkb/vaultkb/internal/vault"
)

const (
	syncKind = lsp.TDSKIncremental

	errOpenDocument    = "failed to open document"
	errApplyChange     = "failed to apply document change"
	errResolveTarget   = "failed to resolve link target"
	errMissingDocument = "no live document for this URI"
)

// MissingDocumentError reports that the live store holds no document
// for the requested URI. Per §7's LSP error taxonomy this maps to the
// JSON-RPC InvalidParams error code.
type MissingDocumentError struct {
	URI lsp.DocumentURI
}

func (e *MissingDocumentError) Error() string {
	return errMissingDocument + ": " + string(e.URI)
}

// ServerError reports a failure resolving a Link's destination, or an
// I/O failure reading it once resolved. Per §7's LSP error taxonomy
// this maps to a JSON-RPC server error.
type ServerError struct {
	Reason string
	Err    error
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *ServerError) Unwrap() error { return e.Err }

// Server services incoming LSP requests against a live document store,
// optionally backed by a Vault for completion candidates, hover
// fallback, and rank. Grounded on upbound-up/internal/xpls.Server's shape
// (conn/log/mu fields, functional Option, Initialize replying with
// ServerCapabilities), adapted from Crossplane-package validation to
// note-taking navigation.
type Server struct {
	log   logging.Logger
	store *Store
	vault *vault.Vault

	// rankSnapshot is the Vault's PageRank value per Document, taken
	// once when the Vault is attached (§5's "written once ... readers
	// see a consistent snapshot"). Nil when no Vault is attached.
	rankSnapshot map[pathnorm.NormPath]float64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the Server's logger. Defaults to a no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithVault attaches a Vault used for completion candidates, the hover
// fallback (when a link target isn't itself open), and the rank
// snapshot shown in hover text. Definition does not consult it.
func WithVault(v *vault.Vault) Option {
	return func(s *Server) {
		s.vault = v
		s.rankSnapshot = buildRankSnapshot(v)
	}
}

// buildRankSnapshot computes v's PageRank once per Document, keyed by
// path, for the Hover rank prefix. Documents() and Rank() share v's
// stable enumeration order, so index i of each corresponds to the same
// Document.
func buildRankSnapshot(v *vault.Vault) map[pathnorm.NormPath]float64 {
	if v == nil {
		return nil
	}
	docs := v.Documents()
	ranks := v.Rank()
	snapshot := make(map[pathnorm.NormPath]float64, len(docs))
	for i, d := range docs {
		snapshot[d.Path] = ranks[i]
	}
	return snapshot
}

// New builds a Server over a fresh, empty live document store.
func New(opts ...Option) *Server {
	s := &Server{
		log:   logging.NewNopLogger(),
		store: NewStore(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize replies with this server's capabilities: incremental text
// sync, link completion triggered by `[`, hover, and go-to-definition.
func (s *Server) Initialize(ctx context.Context, conn *jsonrpc2.Conn, id jsonrpc2.ID, params *lsp.InitializeParams) {
	kind := syncKind
	reply := &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{Kind: &kind},
			CompletionProvider: &lsp.CompletionOptions{
				TriggerCharacters: []string{"["},
			},
			HoverProvider:      true,
			DefinitionProvider: true,
		},
	}
	if err := conn.Reply(ctx, id, reply); err != nil {
		s.log.Debug("failed to reply to initialize", "error", err)
	}
}

// DidOpen seeds the live store with the editor's authoritative content
// for a newly opened document.
func (s *Server) DidOpen(ctx context.Context, params *lsp.DidOpenTextDocumentParams) {
	if err := s.store.Open(params.TextDocument.URI, params.TextDocument.Text); err != nil {
		s.log.Debug(errOpenDocument, "uri", params.TextDocument.URI, "error", err)
	}
}

// DidChange applies an incremental or full-text edit to the live
// document and reparses it.
func (s *Server) DidChange(ctx context.Context, params *lsp.DidChangeTextDocumentParams) {
	if err := s.store.ApplyChanges(params.TextDocument.URI, params.ContentChanges); err != nil {
		s.log.Debug(errApplyChange, "uri", params.TextDocument.URI, "error", err)
	}
}

// DidClose drops a document from the live store.
func (s *Server) DidClose(ctx context.Context, params *lsp.DidCloseTextDocumentParams) {
	s.store.Close(params.TextDocument.URI)
}

// Completion offers link-completion items when the cursor sits inside
// an unclosed `[[`, ranked by fuzzy match against every candidate
// note's title.
func (s *Server) Completion(ctx context.Context, params *lsp.CompletionParams) (*lsp.CompletionList, error) {
	doc, ok := s.store.Get(params.TextDocument.URI)
	if !ok {
		return nil, &MissingDocumentError{URI: params.TextDocument.URI}
	}

	query, editStart, editEnd, ok := findLinkPrefix(doc, params.Position.Line, params.Position.Character)
	if !ok {
		return &lsp.CompletionList{}, nil
	}

	candidates := s.candidates(doc.Path.Dir())
	ranked := rankCandidates(query, candidates)
	return &lsp.CompletionList{Items: buildCompletionItems(ranked, editStart, editEnd)}, nil
}

func (s *Server) candidates(fromDir string) []Candidate {
	if s.vault == nil {
		return nil
	}
	docs := s.vault.Documents()
	out := make([]Candidate, 0, len(docs))
	for _, d := range docs {
		rel, err := filepath.Rel(fromDir, d.Path.String())
		if err != nil {
			continue
		}
		out = append(out, Candidate{Title: d.Title(), RelPath: filepath.ToSlash(rel)})
	}
	return out
}

// Definition resolves the link under the cursor, if any, to the
// destination file it points at.
func (s *Server) Definition(ctx context.Context, params *lsp.TextDocumentPositionParams) ([]lsp.Location, error) {
	doc, ok := s.store.Get(params.TextDocument.URI)
	if !ok {
		return nil, &MissingDocumentError{URI: params.TextDocument.URI}
	}
	link := doc.LinkAt(params.Position.Line, params.Position.Character)
	if link == nil {
		return nil, nil
	}
	target, ok := linkresolver.Resolve(*link, doc.Path.Dir())
	if !ok {
		return nil, &ServerError{Reason: errResolveTarget}
	}
	return []lsp.Location{{
		URI:   pathToURI(target),
		Range: linkRange(link),
	}}, nil
}

// Hover resolves the link under the cursor and shows the destination
// note's full contents, prefixed with its rank snapshot when a Vault
// is attached.
func (s *Server) Hover(ctx context.Context, params *lsp.TextDocumentPositionParams) (*lsp.Hover, error) {
	doc, ok := s.store.Get(params.TextDocument.URI)
	if !ok {
		return nil, &MissingDocumentError{URI: params.TextDocument.URI}
	}
	link := doc.LinkAt(params.Position.Line, params.Position.Character)
	if link == nil {
		return nil, nil
	}
	target, ok := linkresolver.Resolve(*link, doc.Path.Dir())
	if !ok {
		return nil, &ServerError{Reason: errResolveTarget}
	}

	dest, err := s.resolveDocument(target)
	if err != nil {
		return nil, err
	}

	body := dest.Rope.String()
	if rnk, ok := s.rankSnapshot[target]; ok {
		body = fmt.Sprintf("Rank: %.4f\n\n%s", rnk, body)
	}

	rng := linkRange(link)
	return &lsp.Hover{
		Contents: []lsp.MarkedString{lsp.RawMarkedString(body)},
		Range:    &rng,
	}, nil
}

// linkRange converts a Link's Pos (recorded in the document's negotiated
// position encoding) into an LSP Range.
func linkRange(l *mdparse.Link) lsp.Range {
	return lsp.Range{
		Start: lsp.Position{Line: l.Pos.RowStart, Character: l.Pos.ColStart},
		End:   lsp.Position{Line: l.Pos.RowEnd, Character: l.Pos.ColEnd},
	}
}

// resolveDocument finds the live or on-disk Document for target: the
// live store takes priority (it may hold unsaved edits), falling back
// to the attached Vault's already-parsed copy, and finally to a fresh
// read from disk. An I/O failure on that fresh read is a *ServerError
// per §7.
func (s *Server) resolveDocument(target pathnorm.NormPath) (*document.Document, error) {
	if doc, ok := s.store.Get(pathToURI(target)); ok {
		return doc, nil
	}
	if s.vault != nil {
		if doc, ok := s.vault.Get(target); ok {
			return doc, nil
		}
	}
	doc, err := document.New(target.Dir(), filepath.Base(target.String()))
	if err != nil {
		return nil, &ServerError{Reason: errResolveTarget, Err: err}
	}
	return doc, nil
}

func pathToURI(p pathnorm.NormPath) lsp.DocumentURI {
	return lsp.DocumentURI("file://" + p.String())
}
