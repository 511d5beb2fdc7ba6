package xls

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/crossplane/crossplane-runtime/pkg/logging"
	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
)

const (
	errParseParams = "failed to parse request parameters"
)

// Dispatcher routes incoming JSON-RPC requests to the matching Server
// method. Grounded on upbound-up/internal/xpls/dispatcher.Dispatcher,
// generalized from Crossplane package-validation notifications to the
// note-editing request/notification mix this server supports.
type Dispatcher struct {
	log logging.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the Dispatcher's logger. Defaults to a no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// NewDispatcher builds a Dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{log: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch routes r to the matching Server method, replying on conn for
// every request (non-notification) method and logging instead of
// panicking on a malformed notification payload. A malformed
// `initialize` call panics, as with upbound-up's dispatcher: without it
// no further requests on this connection can be serviced correctly.
func (d *Dispatcher) Dispatch(ctx context.Context, server *Server, conn *jsonrpc2.Conn, r *jsonrpc2.Request) { //nolint:gocyclo
	switch r.Method {
	case "initialize":
		var params lsp.InitializeParams
		if err := json.Unmarshal(*r.Params, &params); err != nil {
			panic(err)
		}
		server.Initialize(ctx, conn, r.ID, &params)
	case "initialized":
		// No response required when the client reports initialized.
	case "textDocument/didOpen":
		var params lsp.DidOpenTextDocumentParams
		if err := json.Unmarshal(*r.Params, &params); err != nil {
			d.log.Debug(errParseParams, "method", r.Method, "error", err)
			return
		}
		server.DidOpen(ctx, &params)
	case "textDocument/didChange":
		var params lsp.DidChangeTextDocumentParams
		if err := json.Unmarshal(*r.Params, &params); err != nil {
			d.log.Debug(errParseParams, "method", r.Method, "error", err)
			return
		}
		server.DidChange(ctx, &params)
	case "textDocument/didClose":
		var params lsp.DidCloseTextDocumentParams
		if err := json.Unmarshal(*r.Params, &params); err != nil {
			d.log.Debug(errParseParams, "method", r.Method, "error", err)
			return
		}
		server.DidClose(ctx, &params)
	case "textDocument/completion":
		d.reply(ctx, server, conn, r, func() (interface{}, error) {
			var params lsp.CompletionParams
			if err := json.Unmarshal(*r.Params, &params); err != nil {
				return nil, err
			}
			return server.Completion(ctx, &params)
		})
	case "textDocument/definition":
		d.reply(ctx, server, conn, r, func() (interface{}, error) {
			var params lsp.TextDocumentPositionParams
			if err := json.Unmarshal(*r.Params, &params); err != nil {
				return nil, err
			}
			return server.Definition(ctx, &params)
		})
	case "textDocument/hover":
		d.reply(ctx, server, conn, r, func() (interface{}, error) {
			var params lsp.TextDocumentPositionParams
			if err := json.Unmarshal(*r.Params, &params); err != nil {
				return nil, err
			}
			return server.Hover(ctx, &params)
		})
	}
}

// reply runs fn and replies on conn with its result or a JSON-RPC
// error, coded per §7's taxonomy.
func (d *Dispatcher) reply(ctx context.Context, server *Server, conn *jsonrpc2.Conn, r *jsonrpc2.Request, fn func() (interface{}, error)) {
	result, err := fn()
	if err != nil {
		d.log.Debug(errParseParams, "method", r.Method, "error", err)
		if replyErr := conn.ReplyWithError(ctx, r.ID, &jsonrpc2.Error{
			Code:    errorCode(err),
			Message: err.Error(),
		}); replyErr != nil {
			d.log.Debug("failed to reply with error", "error", replyErr)
		}
		return
	}
	if replyErr := conn.Reply(ctx, r.ID, result); replyErr != nil {
		d.log.Debug("failed to reply", "method", r.Method, "error", replyErr)
	}
}

// errorCode maps a Server error to its JSON-RPC code per §7: a missing
// live document is InvalidParams, everything else (including the
// resolution/I-O ServerError) is an internal error.
func errorCode(err error) int64 {
	var missing *MissingDocumentError
	if errors.As(err, &missing) {
		return jsonrpc2.CodeInvalidParams
	}
	return jsonrpc2.CodeInternalError
}
