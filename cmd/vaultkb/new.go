package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/vaultkb/vaultkb/internal/template"
)

// defaultNoteTemplate seeds a new note with a frontmatter title field,
// the note's minimal required metadata per §3.
const defaultNoteTemplate = "---\ntitle: {{ title }}\n---\n\n# {{ title }}\n"

type newCmd struct {
	Leaf         string `arg:"" help:"File name for the new note, e.g. my-note.md."`
	Title        string `help:"Title to seed into the note's frontmatter; defaults to the file name."`
	TemplateFile string `help:"Path to a template file with {{ identifier }} placeholders; defaults to a minimal frontmatter skeleton." optional:""`
}

// Run scaffolds a new note under the vault from a template, refusing
// to overwrite an existing file.
func (c *newCmd) Run(ctx *kong.Context, vp VaultPath) error {
	leaf := c.Leaf
	if filepath.Ext(leaf) != ".md" {
		leaf += ".md"
	}
	dest := filepath.Join(string(vp), leaf)
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("note already exists: %s", dest)
	}

	text := defaultNoteTemplate
	if c.TemplateFile != "" {
		raw, err := os.ReadFile(c.TemplateFile)
		if err != nil {
			return err
		}
		text = string(raw)
	}

	title := c.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(leaf), ".md")
	}

	tpl := template.New(text, map[string]string{"title": title})
	if err := os.WriteFile(dest, []byte(tpl.Render()), 0o644); err != nil {
		return err
	}
	fmt.Fprintln(ctx.Stdout, dest)
	return nil
}
