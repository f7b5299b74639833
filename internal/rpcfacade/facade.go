// Package rpcfacade binds the core's four tool operations onto a host's
// RPC dispatcher. Each operation resolves the project, opens a scoped
// connection, builds a ticketsvc.Service, and converts results/errors to
// plain serializable maps.
package rpcfacade

import (
	"context"
	"log/slog"

	"github.com/banton/stompy-ticketing/internal/hostapi"
	"github.com/banton/stompy-ticketing/internal/observability"
	"github.com/banton/stompy-ticketing/internal/ticketsvc"
	"github.com/banton/stompy-ticketing/internal/types"
)

// Facade holds the host callables and shared instrumentation every tool
// handler dispatches through.
type Facade struct {
	getDB         hostapi.GetDB
	checkProject  hostapi.CheckProject
	getProject    hostapi.GetProject
	resolveSchema hostapi.ResolveSchema
	instr         *observability.Instrumentation
	logger        *slog.Logger
}

// New builds a Facade. resolveSchema, logger, and providers may be zero
// valued; sensible defaults are substituted.
func New(getDB hostapi.GetDB, checkProject hostapi.CheckProject, getProject hostapi.GetProject, resolveSchema hostapi.ResolveSchema, logger *slog.Logger, providers observability.Providers) *Facade {
	if resolveSchema == nil {
		resolveSchema = func(project string) string { return project }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Facade{
		getDB:         getDB,
		checkProject:  checkProject,
		getProject:    getProject,
		resolveSchema: resolveSchema,
		instr:         observability.New("rpcfacade", providers),
		logger:        logger,
	}
}

// Register binds the four tool operations onto host under their canonical
// names.
func (f *Facade) Register(host hostapi.RPCHost) {
	host.RegisterTool("ticket", f.handleTicket)
	host.RegisterTool("ticket_board", f.handleBoard)
	host.RegisterTool("ticket_search", f.handleSearch)
	host.RegisterTool("ticket_link", f.handleLink)
}

// boundService resolves project, opens a scoped connection, and returns a
// ticketsvc.Service bound to it along with a release function the caller
// must defer.
func (f *Facade) boundService(ctx context.Context, project string) (*ticketsvc.Service, func(), error) {
	if err := f.checkProject(ctx, project); err != nil {
		return nil, nil, types.NewValidationError("project %q is not usable: %v", project, err)
	}
	resolved, err := f.getProject(ctx, project)
	if err != nil {
		return nil, nil, types.WrapInternal(err, "resolve project %q", project)
	}
	conn, err := f.getDB(ctx, resolved)
	if err != nil {
		return nil, nil, types.WrapInternal(err, "acquire connection for project %q", resolved)
	}

	schema := f.resolveSchema(resolved)
	svc := ticketsvc.New(conn, schema, ticketsvc.WithLogger(f.logger))
	return svc, conn.Release, nil
}

// dispatch wraps the named operation with a span, a call counter, and
// uniform error-to-map conversion, mirroring the deferred metrics pattern
// the reference daemon's own RPC server uses for handleRequest, but backed
// by real OTel instruments.
func (f *Facade) dispatch(ctx context.Context, method string, fn func(ctx context.Context) (map[string]any, error)) map[string]any {
	var result map[string]any
	err := f.instr.Call(ctx, "rpcfacade."+method, method, func(ctx context.Context) error {
		r, err := fn(ctx)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		f.logErrorIfInternal(method, err)
		return errorMap(err)
	}
	return result
}

func (f *Facade) logErrorIfInternal(method string, err error) {
	if types.KindOf(err) == types.KindInternal {
		f.logger.Error("rpcfacade.error", "method", method, "error", err)
	}
}

func errorMap(err error) map[string]any {
	return map[string]any{
		"error":   string(types.KindOf(err)),
		"message": err.Error(),
	}
}
