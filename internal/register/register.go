// Package register implements the single entry point by which this core
// attaches to a host: binding the RPC and HTTP facades and returning the
// migration contract.
package register

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/banton/stompy-ticketing/internal/hostapi"
	"github.com/banton/stompy-ticketing/internal/httpfacade"
	"github.com/banton/stompy-ticketing/internal/migrations"
	"github.com/banton/stompy-ticketing/internal/observability"
	"github.com/banton/stompy-ticketing/internal/rpcfacade"
)

// Options carries everything a host supplies to attach this core.
type Options struct {
	RPCHost       hostapi.RPCHost
	HTTPHost      hostapi.HTTPHost
	GetDB         hostapi.GetDB
	CheckProject  hostapi.CheckProject
	GetProject    hostapi.GetProject
	ResolveSchema hostapi.ResolveSchema

	// MigrationOffset is the first migration id assigned; defaults to
	// migrations.DefaultOffset when zero or negative.
	MigrationOffset int

	// Logger defaults to slog.Default() when nil.
	Logger *slog.Logger

	// MeterProvider and TracerProvider default to the global OTel
	// providers when nil.
	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider
}

// Result is everything Register hands back to the host.
type Result struct {
	Migrations []migrations.Record
	SchemaSQL  func(schema string) string
}

// Register binds the four RPC operations onto opts.RPCHost, mounts the ten
// HTTP endpoints onto opts.HTTPHost, and returns the migration records and
// schema-SQL assembler. It is synchronous and side-effect-free beyond
// those two registrations.
func Register(opts Options) (Result, error) {
	providers := observability.Providers{
		MeterProvider:  opts.MeterProvider,
		TracerProvider: opts.TracerProvider,
	}

	rpc := rpcfacade.New(opts.GetDB, opts.CheckProject, opts.GetProject, opts.ResolveSchema, opts.Logger, providers)
	rpc.Register(opts.RPCHost)

	http := httpfacade.New(opts.GetDB, opts.CheckProject, opts.GetProject, opts.ResolveSchema, opts.Logger, providers)
	http.Register(opts.HTTPHost)

	return Result{
		Migrations: migrations.Records(opts.MigrationOffset),
		SchemaSQL:  migrations.SchemaSQL,
	}, nil
}
