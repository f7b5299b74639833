// Package hostapi declares the callables and router interfaces a host
// application implements and passes into Register. The core depends only
// on these contracts, never on a concrete host implementation.
package hostapi

import (
	"context"
	"net/http"

	"github.com/banton/stompy-ticketing/internal/ticketsvc"
)

// GetDB acquires a connection scoped to project for the duration of one
// request. The facade defers ScopedConn.Release() immediately after a
// successful call.
type GetDB func(ctx context.Context, project string) (ticketsvc.ScopedConn, error)

// CheckProject validates that project exists and is usable. A non-nil
// return short-circuits the facade with ValidationError.
type CheckProject func(ctx context.Context, project string) error

// GetProject resolves/normalizes a project name as the host understands it.
type GetProject func(ctx context.Context, project string) (string, error)

// ResolveSchema maps a project name to a schema name. Defaults to the
// identity function (the project name is the schema name) when nil.
type ResolveSchema func(project string) string

// RPCHost is the minimal tool-registration surface the core needs from the
// host's RPC dispatcher. Handler receives already-decoded arguments and
// returns a JSON-serializable result or an error.
type RPCHost interface {
	RegisterTool(name string, handler func(ctx context.Context, args map[string]any) (map[string]any, error))
}

// HTTPHost is the minimal routing surface the core needs from the host's
// HTTP server: Go 1.22+ ServeMux method+pattern registration.
type HTTPHost interface {
	Handle(pattern string, handler http.Handler)
}
