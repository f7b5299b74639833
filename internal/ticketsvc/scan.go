package ticketsvc

import (
	"github.com/jackc/pgx/v5"

	"github.com/banton/stompy-ticketing/internal/types"
)

// rowScanner is satisfied by both pgx.Row (QueryRow) and pgx.Rows (Query,
// after Next), letting scanTicket serve both single-row and multi-row call
// sites.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTicket reads one ticket row in the column order every query in this
// package selects it: id, type, title, description, status, priority,
// assignee, reporter, tags, metadata, created_at, updated_at.
func scanTicket(row rowScanner) (types.Ticket, error) {
	var t types.Ticket
	err := row.Scan(
		&t.ID, &t.Type, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.Assignee, &t.Reporter, &t.Tags, &t.Metadata,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return types.Ticket{}, err
	}
	return t, nil
}

var _ rowScanner = pgx.Row(nil)
