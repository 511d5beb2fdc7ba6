package xls

import (
	"context"

	"github.com/crossplane/crossplane-runtime/pkg/logging"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/vaultkb/vaultkb/internal/vault"
)

// Handler wires a Server and Dispatcher together behind a single
// jsonrpc2.Handler, the shape expected by jsonrpc2.NewConn. Grounded on
// upbound-up/internal/xpls/handler.Handler.
type Handler struct {
	log        logging.Logger
	vault      *vault.Vault
	dispatcher *Dispatcher
	server     *Server
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithHandlerLogger sets the Handler's (and its Server/Dispatcher's)
// logger. Defaults to a no-op logger.
func WithHandlerLogger(l logging.Logger) HandlerOption {
	return func(h *Handler) { h.log = l }
}

// WithHandlerVault attaches a Vault to the underlying Server, for
// completion candidates, hover fallback, and rank.
func WithHandlerVault(v *vault.Vault) HandlerOption {
	return func(h *Handler) { h.vault = v }
}

// NewHandler builds a Handler with a fresh Server and Dispatcher.
func NewHandler(opts ...HandlerOption) *Handler {
	h := &Handler{log: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(h)
	}
	h.server = New(WithLogger(h.log), WithVault(h.vault))
	h.dispatcher = NewDispatcher(WithLogger(h.log))
	return h
}

// Handle implements jsonrpc2.Handler.
func (h *Handler) Handle(ctx context.Context, conn *jsonrpc2.Conn, r *jsonrpc2.Request) {
	h.dispatcher.Dispatch(ctx, h.server, conn, r)
}
