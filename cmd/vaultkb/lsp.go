package main

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/crossplane/crossplane-runtime/pkg/logging"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/vaultkb/vaultkb/internal/vault"
	"github.com/vaultkb/vaultkb/internal/xls"
)

type lspCmd struct{}

// Run starts the language server over stdio. Grounded on
// upbound-up/cmd/up/xpls/serve.go's stdio transport (a codec over
// stdin/stdout) and, for the connection wiring itself, the cleaner
// jsonrpc2.NewConn + Handler shape upbound-up's own internal/xpls
// package (server/dispatcher/handler) is built around, rather than
// serve.go's hand-rolled read/dispatch loop.
func (c *lspCmd) Run(ctx *kong.Context, vp VaultPath) error {
	log := logging.NewNopLogger()

	var v *vault.Vault
	if string(vp) != "" {
		var warnings []error
		v, warnings = vault.Open(string(vp), vault.WithLogger(log))
		for _, w := range warnings {
			fmt.Fprintln(ctx.Stderr, w)
		}
	}

	handler := xls.NewHandler(xls.WithHandlerLogger(log), xls.WithHandlerVault(v))
	stream := jsonrpc2.NewBufferedStream(xls.StdRWC{}, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(context.Background(), stream, handler)
	<-conn.DisconnectNotify()
	return nil
}
