package ticketing_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/banton/stompy-ticketing/internal/migrations"
	"github.com/banton/stompy-ticketing/internal/ticketsvc"
	"github.com/banton/stompy-ticketing"
)

type fakeRPCHost struct {
	tools map[string]func(ctx context.Context, args map[string]any) (map[string]any, error)
}

func (h *fakeRPCHost) RegisterTool(name string, handler func(ctx context.Context, args map[string]any) (map[string]any, error)) {
	if h.tools == nil {
		h.tools = map[string]func(ctx context.Context, args map[string]any) (map[string]any, error){}
	}
	h.tools[name] = handler
}

type fakeHTTPHost struct {
	patterns []string
}

func (h *fakeHTTPHost) Handle(pattern string, handler http.Handler) {
	h.patterns = append(h.patterns, pattern)
}

type fakeScopedConn struct {
	ticketsvc.DB
	released bool
}

func (c *fakeScopedConn) Release() { c.released = true }

func TestRegister_BindsAllToolsAndRoutes(t *testing.T) {
	rpcHost := &fakeRPCHost{}
	httpHost := &fakeHTTPHost{}

	result, err := ticketing.Register(ticketing.RegisterOptions{
		RPCHost:  rpcHost,
		HTTPHost: httpHost,
		GetDB: func(ctx context.Context, project string) (ticketing.ScopedConn, error) {
			return &fakeScopedConn{}, nil
		},
		CheckProject: func(ctx context.Context, project string) error { return nil },
		GetProject:   func(ctx context.Context, project string) (string, error) { return project, nil },
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	for _, tool := range []string{"ticket", "ticket_board", "ticket_search", "ticket_link"} {
		if _, ok := rpcHost.tools[tool]; !ok {
			t.Errorf("expected tool %q to be registered", tool)
		}
	}

	if len(httpHost.patterns) != 10 {
		t.Errorf("expected 10 HTTP patterns, got %d: %v", len(httpHost.patterns), httpHost.patterns)
	}

	if len(result.Migrations) != 5 {
		t.Errorf("expected 5 migration records, got %d", len(result.Migrations))
	}
	for i, rec := range result.Migrations {
		if rec.ID != migrations.DefaultOffset+i {
			t.Errorf("migration %d: expected id %d, got %d", i, migrations.DefaultOffset+i, rec.ID)
		}
	}

	if sql := result.SchemaSQL("acme"); sql == "" {
		t.Error("expected non-empty schema SQL")
	}
}

func TestRegister_CustomMigrationOffset(t *testing.T) {
	result, err := ticketing.Register(ticketing.RegisterOptions{
		RPCHost:  &fakeRPCHost{},
		HTTPHost: &fakeHTTPHost{},
		GetDB: func(ctx context.Context, project string) (ticketing.ScopedConn, error) {
			return &fakeScopedConn{}, nil
		},
		CheckProject:    func(ctx context.Context, project string) error { return nil },
		GetProject:      func(ctx context.Context, project string) (string, error) { return project, nil },
		MigrationOffset: 100,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if result.Migrations[0].ID != 100 {
		t.Errorf("expected first migration id 100, got %d", result.Migrations[0].ID)
	}
}
