package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/vaultkb/vaultkb/internal/pathnorm"
	"github.com/vaultkb/vaultkb/internal/upterm"
	"github.com/vaultkb/vaultkb/internal/vault"
)

type backlinksCmd struct {
	Path string `arg:"" help:"Note path, relative to the vault, to find backlinks for."`
}

// Run lists every note with a link resolving to the target note.
func (c *backlinksCmd) Run(ctx *kong.Context, vp VaultPath, format upterm.Output) error {
	v, warnings := vault.Open(string(vp))
	for _, w := range warnings {
		fmt.Fprintln(ctx.Stderr, w)
	}

	target, err := pathnorm.New(string(vp), c.Path)
	if err != nil {
		return err
	}

	backlinks := v.FindBacklinks(target)
	paths := make([]string, len(backlinks))
	for i, p := range backlinks {
		paths[i] = p.String()
	}

	if format != upterm.OutputDefault {
		return upterm.PrintFormatted(format, paths)
	}

	rows := [][]string{{"path"}}
	for _, p := range paths {
		rows = append(rows, []string{p})
	}
	return upterm.PrintTable(rows)
}
