package ticketsvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/banton/stompy-ticketing/internal/types"
)

// Search ranks tickets against p.Query using the indexed tsvector column,
// applying the optional Type/Status filters as an AND.
func (s *Service) Search(ctx context.Context, p SearchParams) ([]types.SearchHit, error) {
	var hits []types.SearchHit
	err := s.instr.Call(ctx, "ticketsvc.Search", "Search", func(ctx context.Context) error {
		h, err := s.search(ctx, p)
		if err != nil {
			return err
		}
		hits = h
		return nil
	})
	return hits, err
}

func (s *Service) search(ctx context.Context, p SearchParams) ([]types.SearchHit, error) {
	if strings.TrimSpace(p.Query) == "" {
		return nil, types.NewValidationError("search query is required")
	}

	args := []any{p.Query}
	where := []string{"tsv @@ websearch_to_tsquery('english', $1)"}

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

	query := fmt.Sprintf(`
		SELECT id, type, title, description, status, priority, assignee, reporter, tags, metadata,
			extract(epoch from created_at)::bigint, extract(epoch from updated_at)::bigint,
			ts_rank(tsv, websearch_to_tsquery('english', $1)) AS rank
		FROM %s
		WHERE %s
		ORDER BY rank DESC, id ASC
		LIMIT %s
	`, s.table("ticket"), strings.Join(where, " AND "), arg(p.limit()))

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("search tickets", err)
	}
	defer rows.Close()

	var hits []types.SearchHit
	for rows.Next() {
		var t types.Ticket
		var rank float64
		if err := rows.Scan(
			&t.ID, &t.Type, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.Assignee, &t.Reporter, &t.Tags, &t.Metadata,
			&t.CreatedAt, &t.UpdatedAt, &rank,
		); err != nil {
			return nil, wrapDBError("scan search hit", err)
		}
		hits = append(hits, types.SearchHit{Ticket: t, Rank: rank})
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("search tickets", err)
	}
	return hits, nil
}
