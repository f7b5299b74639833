// Package ticketsvc implements ticket CRUD, transitions, relationships, and
// full-text search against a single project's PostgreSQL schema.
package ticketsvc

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/banton/stompy-ticketing/internal/observability"
)

// DB is the subset of *pgxpool.Pool / *pgx.Conn the service needs. Callers
// pass either directly; the service never assumes ownership of either.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ScopedConn is a DB acquired for the lifetime of a single request. The
// facade layer calls Release unconditionally after use, typically deferred
// immediately after acquisition.
type ScopedConn interface {
	DB
	Release()
}

// Service is bound to one project's schema for the duration of a request.
// It holds no state beyond its connection, schema name, logger, and
// instrumentation handle, and is cheap to construct per request.
type Service struct {
	conn   DB
	schema string
	logger *slog.Logger
	instr  *observability.Instrumentation
}

// Option configures a Service at construction time.
type Option func(*Service)

// WithLogger overrides the default slog.Default() logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithInstrumentation overrides the default no-op-backed Instrumentation.
func WithInstrumentation(instr *observability.Instrumentation) Option {
	return func(s *Service) { s.instr = instr }
}

// New builds a Service bound to conn and schema.
func New(conn DB, schema string, opts ...Option) *Service {
	s := &Service{
		conn:   conn,
		schema: schema,
		logger: slog.Default(),
		instr:  observability.New("ticketsvc", observability.Providers{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// table returns the sanitized, schema-qualified identifier for name.
func (s *Service) table(name string) string {
	return pgx.Identifier{s.schema, name}.Sanitize()
}
