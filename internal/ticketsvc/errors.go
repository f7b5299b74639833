package ticketsvc

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/banton/stompy-ticketing/internal/types"
)

// uniqueViolation is the Postgres SQLSTATE for a unique-constraint failure.
const uniqueViolation = "23505"

// foreignKeyViolation is the Postgres SQLSTATE for a foreign-key-constraint
// failure, raised when a ticket_link row names a source_id/target_id that
// does not exist in ticket.
const foreignKeyViolation = "23503"

// wrapDBError classifies a raw pgx/pgconn error into the *types.Error
// taxonomy: pgx.ErrNoRows becomes NotFound, a unique-violation becomes
// Conflict, a foreign-key-violation becomes NotFound (the referenced
// ticket does not exist), and anything else becomes InternalError
// wrapping the original.
func wrapDBError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return types.NewNotFound("%s: not found", op)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return types.NewConflict("%s: %s", op, pgErr.Message)
		case foreignKeyViolation:
			return types.NewNotFound("%s: referenced ticket does not exist", op)
		}
	}
	return types.WrapInternal(err, "%s failed", op)
}
