package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/vaultkb/vaultkb/internal/linkresolver"
	"github.com/vaultkb/vaultkb/internal/pathnorm"
	"github.com/vaultkb/vaultkb/internal/upterm"
	"github.com/vaultkb/vaultkb/internal/vault"
)

type linksCmd struct {
	Path string `arg:"" help:"Note path, relative to the vault, whose outgoing links to list."`
}

type linkResult struct {
	Text     string `json:"text" yaml:"text"`
	URL      string `json:"url" yaml:"url"`
	Resolved string `json:"resolved" yaml:"resolved"`
}

// Run lists a note's outgoing links, annotating each with the note it
// resolves to (or "unresolved" for an absolute URL or a target outside
// the vault).
func (c *linksCmd) Run(ctx *kong.Context, vp VaultPath, format upterm.Output) error {
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

	results := make([]linkResult, 0, len(doc.Links))
	for _, l := range doc.Links {
		resolved := "unresolved"
		if target, ok := linkresolver.Resolve(l, doc.Path.Dir()); ok {
			resolved = target.String()
		}
		results = append(results, linkResult{Text: l.Text, URL: l.URL, Resolved: resolved})
	}

	if format != upterm.OutputDefault {
		return upterm.PrintFormatted(format, results)
	}

	rows := [][]string{{"text", "url", "resolved"}}
	for _, r := range results {
		rows = append(rows, []string{r.Text, r.URL, r.Resolved})
	}
	return upterm.PrintTable(rows)
}
