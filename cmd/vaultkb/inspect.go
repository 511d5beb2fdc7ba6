package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/vaultkb/vaultkb/internal/pathnorm"
	"github.com/vaultkb/vaultkb/internal/upterm"
	"github.com/vaultkb/vaultkb/internal/vault"
)

type inspectCmd struct {
	Path string `arg:"" help:"Note path, relative to the vault, to inspect."`
}

type inspectResult struct {
	Path     string            `json:"path" yaml:"path"`
	Title    string            `json:"title" yaml:"title"`
	Links    int               `json:"links" yaml:"links"`
	Warnings int               `json:"warnings" yaml:"warnings"`
	Metadata map[string]string `json:"metadata" yaml:"metadata"`
}

// Run prints one note's title, link count, and frontmatter metadata.
func (c *inspectCmd) Run(ctx *kong.Context, vp VaultPath, format upterm.Output) error {
	v, warnings := vault.Open(string(vp))
	for _, w := range warnings {
		fmt.Fprintln(ctx.Stderr, w)
	}

	np, err := pathnorm.New(string(vp), c.Path)
	if err != nil {
		return err
	}
	doc, ok := v.Get(np)
	if !ok {
		return fmt.Errorf("no such note: %s", c.Path)
	}

	meta := make(map[string]string, len(doc.Metadata))
	for k, val := range doc.Metadata {
		meta[k] = val.Display()
	}
	result := inspectResult{
		Path:     doc.Path.String(),
		Title:    doc.Title(),
		Links:    len(doc.Links),
		Warnings: len(doc.Warnings),
		Metadata: meta,
	}

	if format != upterm.OutputDefault {
		return upterm.PrintFormatted(format, result)
	}

	rows := [][]string{
		{"field", "value"},
		{"path", result.Path},
		{"title", result.Title},
		{"links", fmt.Sprint(result.Links)},
		{"warnings", fmt.Sprint(result.Warnings)},
	}
	for k, val := range meta {
		rows = append(rows, []string{"meta:" + k, val})
	}
	return upterm.PrintTable(rows)
}
