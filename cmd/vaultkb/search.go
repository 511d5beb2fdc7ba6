package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/vaultkb/vaultkb/internal/upterm"
	"github.com/vaultkb/vaultkb/internal/vault"
)

type searchCmd struct {
	Query string `arg:"" help:"Search query."`
	Limit int    `help:"Maximum number of results." default:"20"`
}

type searchResult struct {
	Title string  `json:"title" yaml:"title"`
	Path  string  `json:"path" yaml:"path"`
	Score float64 `json:"score" yaml:"score"`
}

// Run runs the combined BM25+PageRank search pipeline (§4.9) and
// prints the ranked results.
func (c *searchCmd) Run(ctx *kong.Context, vp VaultPath, format upterm.Output) error {
	v, warnings := vault.Open(string(vp))
	for _, w := range warnings {
		fmt.Fprintln(ctx.Stderr, w)
	}

	limit := c.Limit
	if limit <= 0 {
		limit = vault.DefaultMaxResults
	}
	ranked := v.SearchRanked(c.Query, limit)

	results := make([]searchResult, len(ranked))
	for i, r := range ranked {
		results[i] = searchResult{Title: r.Doc.Title(), Path: r.Doc.Path.String(), Score: r.Score}
	}

	if format != upterm.OutputDefault {
		return upterm.PrintFormatted(format, results)
	}

	rows := [][]string{{"score", "title", "path"}}
	for _, r := range results {
		rows = append(rows, []string{fmt.Sprintf("%.4f", r.Score), r.Title, r.Path})
	}
	return upterm.PrintTable(rows)
}
