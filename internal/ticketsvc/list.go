package ticketsvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/banton/stompy-ticketing/internal/types"
)

// List returns tickets matching the conjunction of p's non-nil filters,
// ordered by updated_at descending then id descending.
func (s *Service) List(ctx context.Context, p ListParams) ([]types.Ticket, error) {
	var tickets []types.Ticket
	err := s.instr.Call(ctx, "ticketsvc.List", "List", func(ctx context.Context) error {
		ts, err := s.list(ctx, p)
		if err != nil {
			return err
		}
		tickets = ts
		return nil
	})
	return tickets, err
}

func (s *Service) list(ctx context.Context, p ListParams) ([]types.Ticket, error) {
	var where []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if p.Type != nil {
		where = append(where, "type = "+arg(*p.Type))
	}
	if p.Status != nil {
		where = append(where, "status = "+arg(*p.Status))
	}
	if p.Priority != nil {
		where = append(where, "priority = "+arg(*p.Priority))
	}
	if p.Assignee != nil {
		where = append(where, "assignee = "+arg(*p.Assignee))
	}
	if len(p.Tags) > 0 {
		tags := arg(p.Tags)
		where = append(where, "tags @> "+tags+" AND tags <@ "+tags)
	}

	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id, type, title, description, status, priority, assignee, reporter, tags, metadata,
			extract(epoch from created_at)::bigint, extract(epoch from updated_at)::bigint
		FROM %s
		%s
		ORDER BY updated_at DESC, id DESC
		LIMIT %s
	`, s.table("ticket"), clause, arg(p.limit()))

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("list tickets", err)
	}
	defer rows.Close()

	var tickets []types.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, wrapDBError("scan ticket", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("list tickets", err)
	}
	return tickets, nil
}
