package ticketsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/banton/stompy-ticketing/internal/statemachine"
	"github.com/banton/stompy-ticketing/internal/types"
)

// Create validates params against the state-machine registry, assigns the
// type's initial status, and writes one ticket row.
func (s *Service) Create(ctx context.Context, p CreateParams) (types.Ticket, error) {
	var ticket types.Ticket
	err := s.instr.Call(ctx, "ticketsvc.Create", "Create", func(ctx context.Context) error {
		t, err := s.create(ctx, p)
		if err != nil {
			return err
		}
		ticket = t
		return nil
	})
	return ticket, err
}

func (s *Service) create(ctx context.Context, p CreateParams) (types.Ticket, error) {
	if !p.Type.Valid() {
		return types.Ticket{}, types.NewValidationError("invalid ticket type %q", p.Type)
	}
	if strings.TrimSpace(p.Title) == "" {
		return types.Ticket{}, types.NewValidationError("title is required")
	}
	if p.Priority == "" {
		p.Priority = types.PriorityMedium
	}
	if !p.Priority.Valid() {
		return types.Ticket{}, types.NewValidationError("invalid priority %q", p.Priority)
	}

	status, err := statemachine.Initial(p.Type)
	if err != nil {
		return types.Ticket{}, err
	}

	metadata := p.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return types.Ticket{}, types.WrapInternal(err, "marshal metadata")
	}

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (type, title, description, status, priority, assignee, reporter, tags, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb)
		RETURNING id, type, title, description, status, priority, assignee, reporter, tags, metadata,
			extract(epoch from created_at)::bigint, extract(epoch from updated_at)::bigint
	`, s.table("ticket"))

	row := s.conn.QueryRow(ctx, query,
		p.Type, p.Title, p.Description, status, p.Priority, p.Assignee, p.Reporter, tags, metadataJSON,
	)

	ticket, err := scanTicket(row)
	if err != nil {
		return types.Ticket{}, wrapDBError("create ticket", err)
	}

	s.logger.Info("ticket.create", "id", ticket.ID, "type", ticket.Type)
	return ticket, nil
}
