package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/vaultkb/vaultkb/internal/upterm"
	"github.com/vaultkb/vaultkb/internal/vault"
)

type listCmd struct{}

type listEntry struct {
	Title string `json:"title" yaml:"title"`
	Path  string `json:"path" yaml:"path"`
}

// Run lists every note in the vault.
func (c *listCmd) Run(ctx *kong.Context, vp VaultPath, format upterm.Output) error {
	v, warnings := vault.Open(string(vp))
	for _, w := range warnings {
		fmt.Fprintln(ctx.Stderr, w)
	}

	docs := v.Documents()
	entries := make([]listEntry, len(docs))
	for i, d := range docs {
		entries[i] = listEntry{Title: d.Title(), Path: d.Path.String()}
	}

	if format != upterm.OutputDefault {
		return upterm.PrintFormatted(format, entries)
	}

	rows := [][]string{{"title", "path"}}
	for _, e := range entries {
		rows = append(rows, []string{e.Title, e.Path})
	}
	return upterm.PrintTable(rows)
}
