// Package corpus implements the BM25 ranking statistics over a vault's
// stripped document texts. The formula is grounded on
// original_source/src/search.rs's Corpus (k1/b constants, the
// tf/idf/avgdl shape), generalized to stem tokens with
// github.com/kljensen/snowball/english (the source's own IDF line has
// a parenthesisation bug that mis-weights the 0.5 smoothing term; this
// port instead uses the canonical Okapi BM25 IDF formula the source's
// own doc comment states). Document-frequency computation is
// parallelized with golang.org/x/sync/errgroup + a mutex-guarded map,
// the same fan-out/reduce shape upbound-up uses for its GCS usage-report
// readers.
package corpus

import (
	"math"
	"strings"
	"sync"

	"github.com/kljensen/snowball/english"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	k1 = 1.6
	b  = 0.75

	errEmptyCorpus = "cannot build a corpus from zero documents"
)

// EmptyCorpusError reports that Corpus construction was attempted with
// no documents; avgdl is undefined in that case.
type EmptyCorpusError struct{}

func (e *EmptyCorpusError) Error() string { return errEmptyCorpus }

// Corpus holds precomputed statistics over a fixed set of stripped
// document texts.
type Corpus struct {
	docs  []string
	avgdl float64
	df    map[string]int
	idf   map[string]float64
}

// New builds a Corpus over docs (each a document's stripped text).
// Returns an *EmptyCorpusError if docs is empty, since avgdl has no
// defined value in that case.
func New(docs []string) (*Corpus, error) {
	if len(docs) == 0 {
		return nil, errors.Wrap(&EmptyCorpusError{}, "failed to build corpus")
	}

	totalWords := 0
	for _, d := range docs {
		totalWords += whitespaceWordCount(d)
	}
	avgdl := float64(totalWords) / float64(len(docs))

	df, err := documentFrequencies(docs)
	if err != nil {
		return nil, err
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log((n-float64(count)+0.5)/(float64(count)+0.5) + 1)
	}

	return &Corpus{docs: docs, avgdl: avgdl, df: df, idf: idf}, nil
}

func documentFrequencies(docs []string) (map[string]int, error) {
	df := make(map[string]int)
	var mu sync.Mutex

	var g errgroup.Group
	for _, d := range docs {
		doc := d
		g.Go(func() error {
			seen := map[string]struct{}{}
			for _, term := range stemmedTokens(doc) {
				seen[term] = struct{}{}
			}
			mu.Lock()
			for term := range seen {
				df[term]++
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return df, nil
}

// Score computes the BM25 score of document against query. Both are
// tokenized on whitespace and stemmed; an empty query scores exactly
// 0; a query term whose stem appears in no document contributes 0.
func (c *Corpus) Score(query, document string) float64 {
	dl := float64(whitespaceWordCount(document))
	norm := k1 * (1 - b + b*dl/c.avgdl)

	tf := make(map[string]int)
	for _, term := range stemmedTokens(document) {
		tf[term]++
	}

	var score float64
	for _, term := range stemmedTokens(query) {
		freq := float64(tf[term])
		idf := c.idf[term]
		score += idf * (freq * (k1 + 1)) / (freq + norm)
	}
	return score
}

// AvgDocLen returns the corpus's average document length in words.
func (c *Corpus) AvgDocLen() float64 { return c.avgdl }

func whitespaceWordCount(s string) int {
	return len(strings.Fields(s))
}

// stemmedTokens tokenizes strictly on whitespace and stems each token.
// Case folding is deliberately not applied here - it is an explicit
// non-goal; the corpus stems only.
func stemmedTokens(s string) []string {
	fields := strings.Fields(s)
	stems := make([]string, len(fields))
	for i, f := range fields {
		stems[i] = english.Stem(f, true)
	}
	return stems
}
