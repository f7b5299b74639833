package ticketsvc

import (
	"context"
	"fmt"

	"github.com/banton/stompy-ticketing/internal/statemachine"
	"github.com/banton/stompy-ticketing/internal/types"
)

// Transition moves the ticket to newStatus if the state machine for its
// type declares an edge from its current status. The read (with row lock)
// and write happen in a single transaction so concurrent transitions on
// the same ticket are serialized.
func (s *Service) Transition(ctx context.Context, id int64, newStatus string, changedBy *string) (types.Ticket, error) {
	var ticket types.Ticket
	err := s.instr.Call(ctx, "ticketsvc.Transition", "Transition", func(ctx context.Context) error {
		t, err := s.transition(ctx, id, newStatus, changedBy)
		if err != nil {
			return err
		}
		ticket = t
		return nil
	})
	return ticket, err
}

func (s *Service) transition(ctx context.Context, id int64, newStatus string, changedBy *string) (types.Ticket, error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return types.Ticket{}, wrapDBError("begin transition transaction", err)
	}
	defer tx.Rollback(ctx)

	var ticketType types.TicketType
	var currentStatus string
	err = tx.QueryRow(ctx, fmt.Sprintf(`
		SELECT type, status FROM %s WHERE id = $1 FOR UPDATE
	`, s.table("ticket")), id).Scan(&ticketType, &currentStatus)
	if err != nil {
		return types.Ticket{}, wrapDBError(fmt.Sprintf("transition ticket %d", id), err)
	}

	if err := statemachine.Validate(ticketType, currentStatus, newStatus); err != nil {
		return types.Ticket{}, err
	}

	updated, err := scanTicket(tx.QueryRow(ctx, fmt.Sprintf(`
		UPDATE %s SET status = $1, updated_at = now() WHERE id = $2
		RETURNING id, type, title, description, status, priority, assignee, reporter, tags, metadata,
			extract(epoch from created_at)::bigint, extract(epoch from updated_at)::bigint
	`, s.table("ticket")), newStatus, id))
	if err != nil {
		return types.Ticket{}, wrapDBError(fmt.Sprintf("transition ticket %d", id), err)
	}

	if err := s.writeHistory(ctx, tx, id, "status", &currentStatus, &newStatus, changedBy); err != nil {
		return types.Ticket{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return types.Ticket{}, wrapDBError("commit transition", err)
	}

	s.logger.Info("ticket.transition", "id", id, "from", currentStatus, "to", newStatus)
	return updated, nil
}
