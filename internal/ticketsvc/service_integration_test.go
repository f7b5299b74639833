//go:build integration

package ticketsvc_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/banton/stompy-ticketing/internal/migrations"
	"github.com/banton/stompy-ticketing/internal/ticketsvc"
	"github.com/banton/stompy-ticketing/internal/types"
)

func newTestService(t *testing.T) *ticketsvc.Service {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("ticketing"),
		postgres.WithUsername("ticketing"),
		postgres.WithPassword("ticketing"),
	)
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, `CREATE SCHEMA IF NOT EXISTS acme`); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if _, err := pool.Exec(ctx, migrations.SchemaSQL("acme")); err != nil {
		t.Fatalf("apply schema SQL: %v", err)
	}

	return ticketsvc.New(pool, "acme")
}

func TestIntegration_TaskHappyPath(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ticket, err := svc.Create(ctx, ticketsvc.CreateParams{Type: types.TypeTask, Title: "X"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ticket.Status != "backlog" {
		t.Fatalf("Status = %q, want %q", ticket.Status, "backlog")
	}

	if _, err := svc.Transition(ctx, ticket.ID, "in_progress", nil); err != nil {
		t.Fatalf("Transition to in_progress: %v", err)
	}
	if _, err := svc.Transition(ctx, ticket.ID, "done", nil); err != nil {
		t.Fatalf("Transition to done: %v", err)
	}

	detail, err := svc.Get(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.Ticket.Status != "done" {
		t.Fatalf("Status = %q, want %q", detail.Ticket.Status, "done")
	}

	var statusChanges int
	for _, h := range detail.History {
		if h.Field == "status" {
			statusChanges++
		}
	}
	if statusChanges != 2 {
		t.Errorf("statusChanges = %d, want 2", statusChanges)
	}
}

func TestIntegration_BugSkipRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ticket, err := svc.Create(ctx, ticketsvc.CreateParams{Type: types.TypeBug, Title: "B"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ticket.Status != "triage" {
		t.Fatalf("Status = %q, want %q", ticket.Status, "triage")
	}

	_, err = svc.Transition(ctx, ticket.ID, "in_progress", nil)
	if err == nil {
		t.Fatal("expected error skipping triage -> in_progress")
	}
	if types.KindOf(err) != types.KindInvalidTransition {
		t.Errorf("KindOf(err) = %v, want %v", types.KindOf(err), types.KindInvalidTransition)
	}
}

func TestIntegration_DecisionReopen(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ticket, err := svc.Create(ctx, ticketsvc.CreateParams{Type: types.TypeDecision, Title: "D"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Transition(ctx, ticket.ID, "deferred", nil); err != nil {
		t.Fatalf("Transition to deferred: %v", err)
	}
	if _, err := svc.Transition(ctx, ticket.ID, "open", nil); err != nil {
		t.Fatalf("Transition to open: %v", err)
	}

	detail, err := svc.Get(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(detail.History) != 2 {
		t.Errorf("len(History) = %d, want 2", len(detail.History))
	}
}

func TestIntegration_SearchRanking(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, ticketsvc.CreateParams{Type: types.TypeTask, Title: "login bug"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, ticketsvc.CreateParams{Type: types.TypeTask, Title: "deploy login"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, ticketsvc.CreateParams{Type: types.TypeTask, Title: "unrelated"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	hits, err := svc.Search(ctx, ticketsvc.SearchParams{Query: "login"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("len(hits) = %d, want 2", len(hits))
	}
	for _, h := range hits {
		if h.Ticket.Title == "unrelated" {
			t.Errorf("unexpected hit %q", h.Ticket.Title)
		}
	}
}

func TestIntegration_LinkConflict(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, ticketsvc.CreateParams{Type: types.TypeTask, Title: "A"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := svc.Create(ctx, ticketsvc.CreateParams{Type: types.TypeTask, Title: "B"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.LinkAdd(ctx, a.ID, b.ID, types.LinkBlocks); err != nil {
		t.Fatalf("LinkAdd: %v", err)
	}

	_, err = svc.LinkAdd(ctx, a.ID, b.ID, types.LinkBlocks)
	if err == nil {
		t.Fatal("expected error on duplicate link")
	}
	if types.KindOf(err) != types.KindConflict {
		t.Errorf("KindOf(err) = %v, want %v", types.KindOf(err), types.KindConflict)
	}

	outgoing, incoming, err := svc.LinkList(ctx, a.ID)
	if err != nil {
		t.Fatalf("LinkList(a): %v", err)
	}
	if len(outgoing) != 1 {
		t.Errorf("len(outgoing) = %d, want 1", len(outgoing))
	}
	if len(incoming) != 0 {
		t.Errorf("len(incoming) = %d, want 0", len(incoming))
	}

	outgoing, incoming, err = svc.LinkList(ctx, b.ID)
	if err != nil {
		t.Fatalf("LinkList(b): %v", err)
	}
	if len(outgoing) != 0 {
		t.Errorf("len(outgoing) = %d, want 0", len(outgoing))
	}
	if len(incoming) != 1 {
		t.Errorf("len(incoming) = %d, want 1", len(incoming))
	}
}

func TestIntegration_LinkAddMissingTicketIsNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, ticketsvc.CreateParams{Type: types.TypeTask, Title: "A"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.LinkAdd(ctx, a.ID, 999999, types.LinkBlocks)
	if err == nil {
		t.Fatal("expected error linking to a nonexistent ticket")
	}
	if types.KindOf(err) != types.KindNotFound {
		t.Errorf("KindOf(err) = %v, want %v", types.KindOf(err), types.KindNotFound)
	}
}

func TestIntegration_ClosePreference(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, ticketsvc.CreateParams{Type: types.TypeTask, Title: "T"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Transition(ctx, task.ID, "in_progress", nil); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	closed, err := svc.Close(ctx, task.ID, nil)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.Status != "done" {
		t.Errorf("Status = %q, want %q", closed.Status, "done")
	}

	decision, err := svc.Create(ctx, ticketsvc.CreateParams{Type: types.TypeDecision, Title: "D"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	closed, err = svc.Close(ctx, decision.ID, nil)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.Status != "decided" {
		t.Errorf("Status = %q, want %q", closed.Status, "decided")
	}
}
