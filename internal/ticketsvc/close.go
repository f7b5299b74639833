package ticketsvc

import (
	"context"
	"fmt"

	"github.com/banton/stompy-ticketing/internal/statemachine"
	"github.com/banton/stompy-ticketing/internal/types"
)

// Close resolves the single-edge terminal status per the ticket's type and
// delegates to Transition. It signals InvalidTransition when no such
// terminal exists (including when the ticket is already terminal).
func (s *Service) Close(ctx context.Context, id int64, changedBy *string) (types.Ticket, error) {
	var ticket types.Ticket
	err := s.instr.Call(ctx, "ticketsvc.Close", "Close", func(ctx context.Context) error {
		t, err := s.close(ctx, id, changedBy)
		if err != nil {
			return err
		}
		ticket = t
		return nil
	})
	return ticket, err
}

func (s *Service) close(ctx context.Context, id int64, changedBy *string) (types.Ticket, error) {
	var ticketType types.TicketType
	var currentStatus string
	err := s.conn.QueryRow(ctx, fmt.Sprintf(`
		SELECT type, status FROM %s WHERE id = $1
	`, s.table("ticket")), id).Scan(&ticketType, &currentStatus)
	if err != nil {
		return types.Ticket{}, wrapDBError(fmt.Sprintf("close ticket %d", id), err)
	}

	target, err := statemachine.CloseTarget(ticketType, currentStatus)
	if err != nil {
		return types.Ticket{}, err
	}

	return s.transition(ctx, id, target, changedBy)
}
