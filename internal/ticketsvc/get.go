package ticketsvc

import (
	"context"
	"fmt"

	"github.com/banton/stompy-ticketing/internal/types"
)

// Get returns the ticket identified by id augmented with its history
// (ascending by changed_at) and its outgoing and incoming links.
func (s *Service) Get(ctx context.Context, id int64) (types.TicketDetail, error) {
	var detail types.TicketDetail
	err := s.instr.Call(ctx, "ticketsvc.Get", "Get", func(ctx context.Context) error {
		d, err := s.get(ctx, id)
		if err != nil {
			return err
		}
		detail = d
		return nil
	})
	return detail, err
}

func (s *Service) get(ctx context.Context, id int64) (types.TicketDetail, error) {
	query := fmt.Sprintf(`
		SELECT id, type, title, description, status, priority, assignee, reporter, tags, metadata,
			extract(epoch from created_at)::bigint, extract(epoch from updated_at)::bigint
		FROM %s WHERE id = $1
	`, s.table("ticket"))

	ticket, err := scanTicket(s.conn.QueryRow(ctx, query, id))
	if err != nil {
		return types.TicketDetail{}, wrapDBError(fmt.Sprintf("get ticket %d", id), err)
	}

	history, err := s.history(ctx, id)
	if err != nil {
		return types.TicketDetail{}, err
	}

	outgoing, err := s.enrichedLinks(ctx, "source_id", id)
	if err != nil {
		return types.TicketDetail{}, err
	}
	incoming, err := s.enrichedLinks(ctx, "target_id", id)
	if err != nil {
		return types.TicketDetail{}, err
	}

	return types.TicketDetail{
		Ticket:   ticket,
		History:  history,
		Outgoing: outgoing,
		Incoming: incoming,
	}, nil
}

func (s *Service) history(ctx context.Context, ticketID int64) ([]types.HistoryEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, ticket_id, field, old_value, new_value, changed_by, extract(epoch from changed_at)::bigint
		FROM %s WHERE ticket_id = $1 ORDER BY changed_at ASC, id ASC
	`, s.table("ticket_history"))

	rows, err := s.conn.Query(ctx, query, ticketID)
	if err != nil {
		return nil, wrapDBError("load ticket history", err)
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	for rows.Next() {
		var h types.HistoryEntry
		if err := rows.Scan(&h.ID, &h.TicketID, &h.Field, &h.OldValue, &h.NewValue, &h.ChangedBy, &h.ChangedAt); err != nil {
			return nil, wrapDBError("scan ticket history", err)
		}
		entries = append(entries, h)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("load ticket history", err)
	}
	return entries, nil
}
