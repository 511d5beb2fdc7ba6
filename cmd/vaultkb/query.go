package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/vaultkb/vaultkb/internal/query"
	"github.com/vaultkb/vaultkb/internal/upterm"
	"github.com/vaultkb/vaultkb/internal/vault"
)

type queryCmd struct {
	Expr string `arg:"" help:"Metadata S-expression query, e.g. (contains tags \"go\")."`
}

// Run parses Expr and lists every note whose metadata matches it.
func (c *queryCmd) Run(ctx *kong.Context, vp VaultPath, format upterm.Output) error {
	tree, err := query.Parse(c.Expr)
	if err != nil {
		return err
	}

	v, warnings := vault.Open(string(vp))
	for _, w := range warnings {
		fmt.Fprintln(ctx.Stderr, w)
	}

	matches := v.Query(tree)
	paths := make([]string, len(matches))
	for i, d := range matches {
		paths[i] = d.Path.String()
	}

	if format != upterm.OutputDefault {
		return upterm.PrintFormatted(format, paths)
	}

	rows := [][]string{{"title", "path"}}
	for _, d := range matches {
		rows = append(rows, []string{d.Title(), d.Path.String()})
	}
	return upterm.PrintTable(rows)
}
