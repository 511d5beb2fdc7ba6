// Command vaultkb is a CLI over a directory of linked Markdown notes:
// inspect/links/backlinks/search/query/list/new commands plus an `lsp`
// subcommand that starts the language server over stdio. Grounded on
// upbound-up/cmd/up/main.go's kong.Must + kongplete.Complete +
// signal-driven context cancellation shape.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/pterm/pterm"
	"github.com/willabides/kongplete"

	"github.com/vaultkb/vaultkb/internal/upterm"
)

const versionString = "0.1.0"

// VaultPath is the directory a subcommand should index, bound into the
// kong context by cli.AfterApply so every subcommand's Run method can
// request it by type.
type VaultPath string

type versionFlag bool

// BeforeApply prints the version and exits, mirroring upbound-up's
// versionFlag.
func (v versionFlag) BeforeApply(ctx *kong.Context) error { //nolint:unparam
	fmt.Fprintln(ctx.Stdout, "vaultkb version "+versionString)
	ctx.Exit(0)
	return nil
}

type cli struct {
	Vault  string        `name:"vault" short:"d" default:"." type:"path" help:"Path to the vault directory."`
	Format upterm.Output `name:"format" enum:"default,json,yaml" default:"default" help:"Output format for inspect/list/search/query/backlinks."`
	Quiet  bool          `name:"quiet" short:"q" help:"Discard messages written to the command's stdout/stderr (warnings, the new note's path); result tables and JSON/YAML output are still printed."`
	Pretty bool          `name:"pretty" help:"Pretty print output."`

	Version versionFlag `name:"version" short:"v" help:"Print version and exit."`

	Inspect   inspectCmd   `cmd:"" help:"Print a note's parsed links, metadata, and title."`
	Links     linksCmd     `cmd:"" help:"List a note's outgoing links."`
	Backlinks backlinksCmd `cmd:"" help:"List every note linking to a target note."`
	Search    searchCmd    `cmd:"" help:"Full-text search, combined with PageRank."`
	Query     queryCmd     `cmd:"" help:"Filter notes by a metadata S-expression query."`
	List      listCmd      `cmd:"" help:"List every note in the vault."`
	New       newCmd       `cmd:"" help:"Scaffold a new note from a template."`
	LSP       lspCmd       `cmd:"" help:"Start the language server over stdio."`

	InstallCompletions kongplete.InstallCompletions `cmd:"" help:"Install shell completions."`
}

// AfterApply configures global output settings and binds the vault
// path and format into the kong context for every subcommand.
func (c *cli) AfterApply(ctx *kong.Context) error { //nolint:unparam
	if c.Quiet {
		ctx.Stdout, ctx.Stderr = io.Discard, io.Discard
	}
	if !c.Pretty {
		pterm.DisableStyling()
	}
	ctx.Bind(VaultPath(c.Vault))
	ctx.Bind(c.Format)
	return nil
}

func main() {
	c := cli{}

	parser := kong.Must(&c,
		kong.Name("vaultkb"),
		kong.Description("Search, rank, and navigate a vault of linked Markdown notes."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	kongplete.Complete(parser)

	if len(os.Args) == 1 {
		_, err := parser.Parse([]string{"--help"})
		parser.FatalIfErrorf(err)
		return
	}

	kongCtx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		defer cancel()
		<-sigCh
		kongCtx.Exit(1)
	}()

	kongCtx.BindTo(ctx, (*context.Context)(nil))
	kongCtx.FatalIfErrorf(kongCtx.Run())
}
