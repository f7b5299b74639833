// Package httpfacade mounts the core's ten REST endpoints onto a host's
// router using the Go 1.22+ ServeMux method+pattern convention, so the
// host need only satisfy hostapi.HTTPHost.
package httpfacade

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/banton/stompy-ticketing/internal/hostapi"
	"github.com/banton/stompy-ticketing/internal/observability"
	"github.com/banton/stompy-ticketing/internal/ticketsvc"
	"github.com/banton/stompy-ticketing/internal/types"
)

const basePattern = "/projects/{name}/tickets"

// Facade holds the host callables and shared instrumentation every route
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
		instr:         observability.New("httpfacade", providers),
		logger:        logger,
	}
}

// Register mounts the ten endpoints onto host under basePattern.
func (f *Facade) Register(host hostapi.HTTPHost) {
	host.Handle("POST "+basePattern, http.HandlerFunc(f.handleCreate))
	host.Handle("GET "+basePattern, http.HandlerFunc(f.handleList))
	host.Handle("GET "+basePattern+"/board", http.HandlerFunc(f.handleBoard))
	host.Handle("GET "+basePattern+"/search", http.HandlerFunc(f.handleSearch))
	host.Handle("GET "+basePattern+"/{id}", http.HandlerFunc(f.handleGet))
	host.Handle("PUT "+basePattern+"/{id}", http.HandlerFunc(f.handleUpdate))
	host.Handle("POST "+basePattern+"/{id}/move", http.HandlerFunc(f.handleMove))
	host.Handle("POST "+basePattern+"/{id}/links", http.HandlerFunc(f.handleLinkAdd))
	host.Handle("GET "+basePattern+"/{id}/links", http.HandlerFunc(f.handleLinkList))
	host.Handle("DELETE "+basePattern+"/{id}/links/{link_id}", http.HandlerFunc(f.handleLinkRemove))
}

// boundService resolves the project named in the request path, opens a
// scoped connection, and returns a Service bound to it along with the
// release function the caller must defer.
func (f *Facade) boundService(ctx context.Context, r *http.Request) (*ticketsvc.Service, func(), error) {
	project := r.PathValue("name")
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

// dispatch wraps a route handler with a span and call/latency counters,
// writing a uniform {error, message} body and the matching status code on
// failure.
func (f *Facade) dispatch(w http.ResponseWriter, r *http.Request, method string, fn func(ctx context.Context) (any, error)) {
	var result any
	err := f.instr.Call(r.Context(), "httpfacade."+method, method, func(ctx context.Context) error {
		res, err := fn(ctx)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		f.writeError(w, method, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (f *Facade) writeError(w http.ResponseWriter, method string, err error) {
	kind := types.KindOf(err)
	if kind == types.KindInternal {
		f.logger.Error("httpfacade.error", "method", method, "error", err)
	}
	writeJSON(w, statusFor(kind), map[string]string{
		"error":   string(kind),
		"message": err.Error(),
	})
}

func statusFor(kind types.ErrorKind) int {
	switch kind {
	case types.KindValidation:
		return http.StatusBadRequest
	case types.KindNotFound:
		return http.StatusNotFound
	case types.KindInvalidTransition, types.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(r *http.Request, out any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		return types.NewValidationError("invalid request body: %v", err)
	}
	return nil
}
