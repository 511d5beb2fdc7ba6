// Package mdparse walks a Markdown document once to extract inline
// links (with byte-range positions), the first YAML frontmatter block
// as a metadata mapping, and a "stripped" plain-text form for search.
// Grounded on gardener-docforge's pkg/markdown/parser.go (the
// goldmark+goldmark-meta wiring) and pkg/markdown/link_modifier.go (the
// ast.Walk-over-node-Kind idiom), both generalized from docforge's
// render-to-Markdown concern into an extract-only pass.
package mdparse

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/vaultkb/vaultkb/internal/posmap"
	"github.com/vaultkb/vaultkb/internal/yamlvalue"
)

var (
	extensions = []goldmark.Extender{extension.GFM, meta.Meta}
	gmParser   = goldmark.New(goldmark.WithExtensions(extensions...))
)

const (
	errParseMarkdown = "failed to parse markdown source"
	errParseMetadata = "failed to parse frontmatter as YAML"
)

// Link is one inline link occurrence.
type Link struct {
	Text string
	URL  string
	Pos  posmap.Pos
}

// MetadataError records a single non-fatal metadata parse failure.
type MetadataError struct {
	Key    string
	Reason string
}

func (e *MetadataError) Error() string {
	return "metadata entry `" + e.Key + "` rejected: " + e.Reason
}

// Result is everything one Parse call produces.
type Result struct {
	Links      []Link
	Metadata   map[string]yamlvalue.Value
	MetaErrors []error
	Stripped   string
}

// Parse walks source (already-decoded document text) and produces a
// Result. Only a total parse failure (malformed frontmatter the
// meta extension itself cannot decode) returns an error; per-entry
// metadata problems are recorded in Result.MetaErrors.
func Parse(source []byte, posm *posmap.Map) (*Result, error) {
	reader := text.NewReader(source)
	ctx := parser.NewContext()
	doc := gmParser.Parser().Parse(reader, parser.WithContext(ctx))

	res := &Result{Metadata: map[string]yamlvalue.Value{}}

	fm, err := meta.TryGet(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errParseMarkdown)
	}
	if fm != nil {
		metaErrs := fillMetadata(res.Metadata, fm)
		res.MetaErrors = append(res.MetaErrors, metaErrs...)
	}

	var strip strings.Builder
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n.Kind() {
		case ast.KindLink:
			return walkLink(n, entering, source, posm, res)
		case ast.KindAutoLink:
			if entering {
				strip.Write(n.(*ast.AutoLink).Label(source))
			}
			return walkAutoLink(n, entering, source, posm, res)
		case ast.KindCodeBlock, ast.KindFencedCodeBlock, ast.KindImage,
			extast.KindTable:
			return ast.WalkSkipChildren, nil
		case ast.KindText:
			t := n.(*ast.Text)
			strip.Write(t.Text(source))
			if t.SoftLineBreak() {
				strip.WriteByte(' ')
			} else if t.HardLineBreak() {
				strip.WriteByte('\n')
			}
			return ast.WalkSkipChildren, nil
		case ast.KindThematicBreak:
			strip.WriteByte('\n')
			return ast.WalkSkipChildren, nil
		default:
			return ast.WalkContinue, nil
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, errParseMarkdown)
	}
	res.Stripped = strip.String()
	return res, nil
}

func walkLink(n ast.Node, entering bool, source []byte, posm *posmap.Map, res *Result) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	link := n.(*ast.Link)
	var textBuf strings.Builder
	for c := link.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			textBuf.Write(t.Text(source))
		}
	}

	start, end, ok := linkByteRange(link, source)
	if !ok {
		return ast.WalkContinue, nil
	}
	pos, err := posmap.NewPos(posm, start, end)
	if err != nil {
		return ast.WalkContinue, nil
	}
	res.Links = append(res.Links, Link{
		Text: textBuf.String(),
		URL:  string(link.Destination),
		Pos:  pos,
	})
	return ast.WalkContinue, nil
}

func walkAutoLink(n ast.Node, entering bool, source []byte, posm *posmap.Map, res *Result) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	al := n.(*ast.AutoLink)
	label := string(al.Label(source))
	start, end, ok := autoLinkByteRange(al, source)
	if !ok {
		return ast.WalkSkipChildren, nil
	}
	pos, err := posmap.NewPos(posm, start, end)
	if err != nil {
		return ast.WalkSkipChildren, nil
	}
	res.Links = append(res.Links, Link{Text: label, URL: label, Pos: pos})
	return ast.WalkSkipChildren, nil
}

// linkByteRange finds the [start, end) span of the full `[text](url)`
// construct by taking the union of the link's text segments' byte
// range. goldmark doesn't expose the surrounding brackets/parens
// directly on *ast.Link, so that text span is widened by one byte for
// the leading `[` and by `](`, the destination's length and `)` after
// it; a link title, an angle-bracketed destination or whitespace inside
// the parentheses is not accounted for.
func linkByteRange(link *ast.Link, source []byte) (start, end int, ok bool) {
	first := link.FirstChild()
	if first == nil {
		return 0, 0, false
	}
	var lo, hi = -1, -1
	for c := first; c != nil; c = c.NextSibling() {
		t, isText := c.(*ast.Text)
		if !isText {
			continue
		}
		seg := t.Segment
		if lo == -1 || seg.Start < lo {
			lo = seg.Start
		}
		if hi == -1 || seg.Stop > hi {
			hi = seg.Stop
		}
	}
	if lo == -1 {
		return 0, 0, false
	}
	// expand to cover the surrounding "[", "](", url, ")"
	destLen := len(link.Destination)
	return max0(lo - 1), min(len(source), hi+2+destLen+1), true
}

func autoLinkByteRange(al *ast.AutoLink, source []byte) (start, end int, ok bool) {
	label := al.Label(source)
	idx := indexOf(source, label)
	if idx == -1 {
		return 0, 0, false
	}
	return idx, idx + len(label), true
}

func indexOf(haystack, needle []byte) int {
	return strings.Index(string(haystack), string(needle))
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// fillMetadata converts the frontmatter map (string keys from the YAML
// decoder already) into Values, rejecting non-string-keyed entries
// individually per the data model's invariant.
func fillMetadata(out map[string]yamlvalue.Value, fm map[string]interface{}) []error {
	var errs []error
	for k, v := range fm {
		node, ok := v.(yaml.Node)
		if ok {
			val, err := yamlvalue.FromNode(&node)
			if err != nil {
				errs = append(errs, &MetadataError{Key: k, Reason: err.Error()})
				continue
			}
			out[k] = val
			continue
		}
		val, err := valueFromInterface(v)
		if err != nil {
			errs = append(errs, &MetadataError{Key: k, Reason: err.Error()})
			continue
		}
		out[k] = val
	}
	return errs
}

// valueFromInterface converts a goldmark-meta-decoded Go value (plain
// map[string]interface{}/[]interface{}/scalars, the shape yaml.v3's
// Unmarshal-into-interface{} produces) into a Value.
func valueFromInterface(v interface{}) (yamlvalue.Value, error) {
	switch t := v.(type) {
	case nil:
		return yamlvalue.Value{Kind: yamlvalue.Null}, nil
	case bool:
		return yamlvalue.Value{Kind: yamlvalue.Boolean, Bool: t}, nil
	case int:
		return yamlvalue.Value{Kind: yamlvalue.Integer, Int: int64(t)}, nil
	case int64:
		return yamlvalue.Value{Kind: yamlvalue.Integer, Int: t}, nil
	case float64:
		return yamlvalue.Value{Kind: yamlvalue.Real, Float: t}, nil
	case string:
		return yamlvalue.Value{Kind: yamlvalue.String, Str: t}, nil
	case []interface{}:
		items := make([]yamlvalue.Value, 0, len(t))
		for _, elem := range t {
			ev, err := valueFromInterface(elem)
			if err != nil {
				items = append(items, yamlvalue.Value{Kind: yamlvalue.Bad, Str: err.Error()})
				continue
			}
			items = append(items, ev)
		}
		return yamlvalue.Value{Kind: yamlvalue.Array, Items: items}, nil
	case map[string]interface{}:
		entries := make([]yamlvalue.Entry, 0, len(t))
		for k, elem := range t {
			ev, err := valueFromInterface(elem)
			if err != nil {
				ev = yamlvalue.Value{Kind: yamlvalue.Bad, Str: err.Error()}
			}
			entries = append(entries, yamlvalue.Entry{Key: k, Value: ev})
		}
		return yamlvalue.Value{Kind: yamlvalue.Mapping, Entries: entries}, nil
	case map[interface{}]interface{}:
		entries := make([]yamlvalue.Entry, 0, len(t))
		for k, elem := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			ev, err := valueFromInterface(elem)
			if err != nil {
				ev = yamlvalue.Value{Kind: yamlvalue.Bad, Str: err.Error()}
			}
			entries = append(entries, yamlvalue.Entry{Key: ks, Value: ev})
		}
		return yamlvalue.Value{Kind: yamlvalue.Mapping, Entries: entries}, nil
	default:
		return yamlvalue.Value{}, errors.New(errParseMetadata)
	}
}
