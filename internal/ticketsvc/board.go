package ticketsvc

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/banton/stompy-ticketing/internal/statemachine"
	"github.com/banton/stompy-ticketing/internal/types"
)

// BoardResult is the dual-shape return of Board: Kanban is populated for
// view == BoardKanban, Summary for view == BoardSummary.
type BoardResult struct {
	Kanban  map[string][]types.Ticket
	Summary map[string]int
}

// Board groups tickets by status, either as full ticket lists (kanban) or
// as counts (summary). The status set is the union of statuses declared by
// ticketType, or across all four types when ticketType is nil. Empty
// buckets still appear in the result.
func (s *Service) Board(ctx context.Context, view types.BoardView, ticketType *types.TicketType) (BoardResult, error) {
	var result BoardResult
	err := s.instr.Call(ctx, "ticketsvc.Board", "Board", func(ctx context.Context) error {
		r, err := s.board(ctx, view, ticketType)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	return result, err
}

func (s *Service) board(ctx context.Context, view types.BoardView, ticketType *types.TicketType) (BoardResult, error) {
	if !view.Valid() {
		return BoardResult{}, types.NewValidationError("invalid board view %q", view)
	}

	statuses, err := s.boardStatuses(ticketType)
	if err != nil {
		return BoardResult{}, err
	}

	if view == types.BoardSummary {
		return s.boardSummary(ctx, ticketType, statuses)
	}
	return s.boardKanban(ctx, ticketType, statuses)
}

func (s *Service) boardStatuses(ticketType *types.TicketType) ([]string, error) {
	if ticketType != nil {
		return statemachine.Statuses(*ticketType)
	}
	seen := map[string]bool{}
	var all []string
	for _, t := range []types.TicketType{types.TypeTask, types.TypeBug, types.TypeFeature, types.TypeDecision} {
		statuses, err := statemachine.Statuses(t)
		if err != nil {
			return nil, err
		}
		for _, st := range statuses {
			if !seen[st] {
				seen[st] = true
				all = append(all, st)
			}
		}
	}
	return all, nil
}

func (s *Service) boardSummary(ctx context.Context, ticketType *types.TicketType, statuses []string) (BoardResult, error) {
	summary := make(map[string]int, len(statuses))
	for _, status := range statuses {
		summary[status] = 0
	}

	var args []any
	where := "status = ANY($1)"
	args = append(args, statuses)
	if ticketType != nil {
		where += " AND type = $2"
		args = append(args, *ticketType)
	}

	query := fmt.Sprintf(`SELECT status, count(*) FROM %s WHERE %s GROUP BY status`, s.table("ticket"), where)

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return BoardResult{}, wrapDBError("board summary", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return BoardResult{}, wrapDBError("scan board summary", err)
		}
		summary[status] = count
	}
	if err := rows.Err(); err != nil {
		return BoardResult{}, wrapDBError("board summary", err)
	}

	return BoardResult{Summary: summary}, nil
}

func (s *Service) boardKanban(ctx context.Context, ticketType *types.TicketType, statuses []string) (BoardResult, error) {
	kanban := make(map[string][]types.Ticket, len(statuses))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, status := range statuses {
		status := status
		g.Go(func() error {
			tickets, err := s.bucketTickets(ctx, ticketType, status)
			if err != nil {
				return err
			}
			mu.Lock()
			kanban[status] = tickets
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BoardResult{}, err
	}

	for _, status := range statuses {
		if kanban[status] == nil {
			kanban[status] = []types.Ticket{}
		}
	}

	return BoardResult{Kanban: kanban}, nil
}

func (s *Service) bucketTickets(ctx context.Context, ticketType *types.TicketType, status string) ([]types.Ticket, error) {
	var args []any
	where := "status = $1"
	args = append(args, status)
	if ticketType != nil {
		where += " AND type = $2"
		args = append(args, *ticketType)
	}

	query := fmt.Sprintf(`
		SELECT id, type, title, description, status, priority, assignee, reporter, tags, metadata,
			extract(epoch from created_at)::bigint, extract(epoch from updated_at)::bigint
		FROM %s WHERE %s ORDER BY updated_at DESC
	`, s.table("ticket"), where)

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("board bucket", err)
	}
	defer rows.Close()

	var tickets []types.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, wrapDBError("scan board bucket", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("board bucket", err)
	}
	return tickets, nil
}
