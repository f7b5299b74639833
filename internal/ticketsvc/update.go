package ticketsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/banton/stompy-ticketing/internal/types"
)

// fieldChange captures one column's before/after value for history and for
// the dynamic SET clause, both keyed by the same SQL column name.
type fieldChange struct {
	column   string
	historic string // history.field label, may differ in casing/name from column
	old      *string
	new      *string
	setArg   any
	castSQL  string // optional explicit cast applied to the bound parameter, e.g. "::jsonb"
}

// Update mutates any subset of non-status, non-type attributes, writing one
// ticket_history row per field whose value actually changes, atomically
// with the UPDATE.
func (s *Service) Update(ctx context.Context, id int64, fields UpdateFields, changedBy *string) (types.Ticket, error) {
	var ticket types.Ticket
	err := s.instr.Call(ctx, "ticketsvc.Update", "Update", func(ctx context.Context) error {
		t, err := s.update(ctx, id, fields, changedBy)
		if err != nil {
			return err
		}
		ticket = t
		return nil
	})
	return ticket, err
}

func (s *Service) update(ctx context.Context, id int64, fields UpdateFields, changedBy *string) (types.Ticket, error) {
	if fields.Priority != nil && !fields.Priority.Valid() {
		return types.Ticket{}, types.NewValidationError("invalid priority %q", *fields.Priority)
	}
	if fields.Title != nil && strings.TrimSpace(*fields.Title) == "" {
		return types.Ticket{}, types.NewValidationError("title cannot be empty")
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return types.Ticket{}, wrapDBError("begin update transaction", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanTicket(tx.QueryRow(ctx, fmt.Sprintf(`
		SELECT id, type, title, description, status, priority, assignee, reporter, tags, metadata,
			extract(epoch from created_at)::bigint, extract(epoch from updated_at)::bigint
		FROM %s WHERE id = $1 FOR UPDATE
	`, s.table("ticket")), id))
	if err != nil {
		return types.Ticket{}, wrapDBError(fmt.Sprintf("update ticket %d", id), err)
	}

	changes := diffFields(current, fields)

	var setClauses []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	for _, c := range changes {
		setClauses = append(setClauses, fmt.Sprintf("%s = %s%s", c.column, arg(c.setArg), c.castSQL))
	}
	setClauses = append(setClauses, "updated_at = now()")

	query := fmt.Sprintf(`
		UPDATE %s SET %s WHERE id = %s
		RETURNING id, type, title, description, status, priority, assignee, reporter, tags, metadata,
			extract(epoch from created_at)::bigint, extract(epoch from updated_at)::bigint
	`, s.table("ticket"), strings.Join(setClauses, ", "), arg(id))

	updated, err := scanTicket(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return types.Ticket{}, wrapDBError(fmt.Sprintf("update ticket %d", id), err)
	}

	for _, c := range changes {
		if err := s.writeHistory(ctx, tx, id, c.historic, c.old, c.new, changedBy); err != nil {
			return types.Ticket{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return types.Ticket{}, wrapDBError("commit update", err)
	}

	s.logger.Info("ticket.update", "id", id, "fields", len(changes))
	return updated, nil
}

// diffFields compares fields against current and returns one fieldChange
// per attribute whose new value differs from its current value.
func diffFields(current types.Ticket, fields UpdateFields) []fieldChange {
	var changes []fieldChange

	strPtr := func(s string) *string { return &s }

	if fields.Title != nil && *fields.Title != current.Title {
		changes = append(changes, fieldChange{
			column: "title", historic: "title",
			old: strPtr(current.Title), new: fields.Title, setArg: *fields.Title,
		})
	}
	if fields.Description != nil && *fields.Description != current.Description {
		changes = append(changes, fieldChange{
			column: "description", historic: "description",
			old: strPtr(current.Description), new: fields.Description, setArg: *fields.Description,
		})
	}
	if fields.Priority != nil && *fields.Priority != current.Priority {
		old := string(current.Priority)
		changes = append(changes, fieldChange{
			column: "priority", historic: "priority",
			old: &old, new: strPtr(string(*fields.Priority)), setArg: *fields.Priority,
		})
	}
	if fields.Assignee != nil && !strPtrEqual(fields.Assignee, current.Assignee) {
		changes = append(changes, fieldChange{
			column: "assignee", historic: "assignee",
			old: current.Assignee, new: fields.Assignee, setArg: *fields.Assignee,
		})
	}
	if fields.Reporter != nil && !strPtrEqual(fields.Reporter, current.Reporter) {
		changes = append(changes, fieldChange{
			column: "reporter", historic: "reporter",
			old: current.Reporter, new: fields.Reporter, setArg: *fields.Reporter,
		})
	}
	if fields.TagsSet && !tagsEqual(fields.Tags, current.Tags) {
		oldJSON, _ := json.Marshal(current.Tags)
		newJSON, _ := json.Marshal(fields.Tags)
		old, new := string(oldJSON), string(newJSON)
		changes = append(changes, fieldChange{
			column: "tags", historic: "tags",
			old: &old, new: &new, setArg: fields.Tags,
		})
	}
	if fields.MetadataSet {
		oldJSON, _ := json.Marshal(current.Metadata)
		newJSON, _ := json.Marshal(fields.Metadata)
		if string(oldJSON) != string(newJSON) {
			old, new := string(oldJSON), string(newJSON)
			changes = append(changes, fieldChange{
				column: "metadata", historic: "metadata",
				old: &old, new: &new, setArg: newJSON, castSQL: "::jsonb",
			})
		}
	}

	return changes
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func tagsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, t := range a {
		seen[t]++
	}
	for _, t := range b {
		seen[t]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}

// writeHistory appends one audit row for a single field's change.
func (s *Service) writeHistory(ctx context.Context, tx pgx.Tx, ticketID int64, field string, old, new, changedBy *string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (ticket_id, field, old_value, new_value, changed_by)
		VALUES ($1, $2, $3, $4, $5)
	`, s.table("ticket_history"))

	if _, err := tx.Exec(ctx, query, ticketID, field, old, new, changedBy); err != nil {
		return wrapDBError("write ticket history", err)
	}
	return nil
}
