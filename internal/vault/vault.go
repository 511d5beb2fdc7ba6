// Package vault is the aggregate root: it owns a directory's Documents
// keyed by NormPath, owns the Corpus built from their stripped text,
// and exposes search/query/backlinks/rank. Construction and the
// functional-options shape (WithFS, WithLogger) are grounded on
// upbound-up/internal/xpls's Workspace (WorkspaceOpt/WithFS/WithWSLogger,
// afero.Fs + logging.Logger fields); the parallel-construction-with-
// non-fatal-per-entry-errors shape is grounded on §5's stated scheduling
// model and the same errgroup fan-out internal/corpus already uses.
package vault

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/crossplane/crossplane-runtime/pkg/logging"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/vaultkb/vaultkb/internal/corpus"
	"github.com/vaultkb/vaultkb/internal/document"
	"github.com/vaultkb/vaultkb/internal/linkresolver"
	"github.com/vaultkb/vaultkb/internal/pathnorm"
	"github.com/vaultkb/vaultkb/internal/query"
	"github.com/vaultkb/vaultkb/internal/rank"
	"github.com/vaultkb/vaultkb/internal/yamlvalue"
)

const (
	errListDir    = "failed to list vault directory"
	errBuildCorpus = "failed to build corpus"
)

// RankAlpha is the weight given to BM25 score in the combined
// search-and-rank pipeline; (1 - RankAlpha) weights PageRank.
const RankAlpha = 0.7

// DefaultMaxResults bounds the combined pipeline's result count.
const DefaultMaxResults = 20

const (
	defaultRankMaxIter = 100
	defaultRankTol     = 1e-6
)

// NonFatalError records one document that failed to build during
// Vault construction without aborting the whole Vault.
type NonFatalError struct {
	Leaf string
	Err  error
}

func (e *NonFatalError) Error() string {
	return "skipped `" + e.Leaf + "`: " + e.Err.Error()
}

func (e *NonFatalError) Unwrap() error { return e.Err }

// Option configures a Vault.
type Option func(*Vault)

// WithFS sets the filesystem used to enumerate and read the vault's
// directory. Defaults to the real OS filesystem.
func WithFS(fs afero.Fs) Option {
	return func(v *Vault) { v.fs = fs }
}

// WithLogger sets the Vault's logger. Defaults to a no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(v *Vault) { v.log = l }
}

// Vault is the aggregate root over one directory of Markdown notes.
type Vault struct {
	base string
	fs   afero.Fs
	log  logging.Logger

	mu      sync.RWMutex
	docs    map[pathnorm.NormPath]*document.Document
	corpus  *corpus.Corpus
	order   []pathnorm.NormPath // stable enumeration order for this instance
}

// Open enumerates base's direct children, attempting to construct a
// Document for each `.md` file; individual failures are collected as
// non-fatal errors rather than aborting. A Corpus is built from the
// successful documents' stripped text.
func Open(base string, opts ...Option) (*Vault, []error) {
	v := &Vault{
		base: base,
		fs:   afero.NewOsFs(),
		log:  logging.NewNopLogger(),
		docs: map[pathnorm.NormPath]*document.Document{},
	}
	for _, opt := range opts {
		opt(v)
	}

	entries, err := afero.ReadDir(v.fs, base)
	if err != nil {
		return v, []error{errors.Wrap(err, errListDir)}
	}

	type result struct {
		leaf string
		doc  *document.Document
		err  error
	}
	results := make([]result, len(entries))

	var g errgroup.Group
	for i, entry := range entries {
		i, entry := i, entry
		if filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		g.Go(func() error {
			doc, err := document.New(base, entry.Name())
			results[i] = result{leaf: entry.Name(), doc: doc, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var warnings []error
	var texts []string
	for _, r := range results {
		if r.leaf == "" {
			continue // skipped non-.md entry
		}
		if r.err != nil {
			v.log.Debug("skipping document", "leaf", r.leaf, "error", r.err)
			warnings = append(warnings, &NonFatalError{Leaf: r.leaf, Err: r.err})
			continue
		}
		v.docs[r.doc.Path] = r.doc
		v.order = append(v.order, r.doc.Path)
		texts = append(texts, r.doc.Stripped())
	}

	if len(texts) > 0 {
		c, err := corpus.New(texts)
		if err != nil {
			warnings = append(warnings, errors.Wrap(err, errBuildCorpus))
		} else {
			v.corpus = c
		}
	}

	return v, warnings
}

// Documents returns every Document in this Vault, in a stable (for
// this instance) but otherwise unspecified order.
func (v *Vault) Documents() []*document.Document {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]*document.Document, 0, len(v.order))
	for _, p := range v.order {
		out = append(out, v.docs[p])
	}
	return out
}

// Get looks up a Document by NormPath.
func (v *Vault) Get(path pathnorm.NormPath) (*document.Document, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	d, ok := v.docs[path]
	return d, ok
}

// Scored pairs a Document with a relevance score.
type Scored struct {
	Doc   *document.Document
	Score float64
}

// Search scores every document against q via the Corpus and returns
// all (Document, score) pairs; callers typically filter score > 0.
func (v *Vault) Search(q string) []Scored {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.corpus == nil {
		return nil
	}
	out := make([]Scored, 0, len(v.order))
	for _, p := range v.order {
		d := v.docs[p]
		out = append(out, Scored{Doc: d, Score: v.corpus.Score(q, d.Stripped())})
	}
	return out
}

// FindBacklinks returns every NormPath whose Document has a Link
// resolving to target.
func (v *Vault) FindBacklinks(target pathnorm.NormPath) []pathnorm.NormPath {
	v.mu.RLock()
	defer v.mu.RUnlock()
	var out []pathnorm.NormPath
	for _, p := range v.order {
		d := v.docs[p]
		if d.HasLinkTo(target, linkresolver.Resolve) {
			out = append(out, p)
		}
	}
	return out
}

// Query filters the Vault's documents by tree's Matches.
func (v *Vault) Query(tree *query.Query) []*document.Document {
	v.mu.RLock()
	defer v.mu.RUnlock()
	var out []*document.Document
	for _, p := range v.order {
		d := v.docs[p]
		if tree.Matches(docMatcher{d}) {
			out = append(out, d)
		}
	}
	return out
}

// docMatcher adapts *document.Document to query.Document.
type docMatcher struct{ d *document.Document }

func (m docMatcher) Metadata() map[string]yamlvalue.Value { return m.d.Metadata }

// Rank computes PageRank over every Document in this Vault, in the
// same order as Documents(), using the default iteration/tolerance
// settings.
func (v *Vault) Rank() []float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	vertices := make([]rank.Vertex, 0, len(v.order))
	for _, p := range v.order {
		d := v.docs[p]
		vertices = append(vertices, rank.Vertex{Path: d.Path, Links: d.Links})
	}
	return rank.Compute(vertices, v.base, defaultRankMaxIter, defaultRankTol)
}

// Combined is one result of the combined search-and-rank pipeline.
type Combined struct {
	Doc   *document.Document
	Score float64
}

// SearchRanked runs the combined pipeline described in §4.9: BM25 per
// doc, drop zero scores, PageRank restricted to the BM25-surviving
// set, combined = alpha*bm25 + (1-alpha)*rank, sorted descending and
// truncated to maxResults; ties break by title ascending.
func (v *Vault) SearchRanked(q string, maxResults int) []Combined {
	scored := v.Search(q)

	var surviving []Scored
	for _, s := range scored {
		if s.Score > 0 {
			surviving = append(surviving, s)
		}
	}
	if len(surviving) == 0 {
		return nil
	}

	vertices := make([]rank.Vertex, len(surviving))
	for i, s := range surviving {
		vertices[i] = rank.Vertex{Path: s.Doc.Path, Links: s.Doc.Links}
	}
	ranks := rank.Compute(vertices, v.base, defaultRankMaxIter, defaultRankTol)

	out := make([]Combined, len(surviving))
	for i, s := range surviving {
		out[i] = Combined{Doc: s.Doc, Score: RankAlpha*s.Score + (1-RankAlpha)*ranks[i]}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Doc.Title() < out[j].Doc.Title()
	})
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}
