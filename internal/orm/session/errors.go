package session

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Common session error types
var (
	// ErrNotFound is the explicit absence returned when a point fetch
	// matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrSessionActive is returned when Begin is called on an already
	// active unit of work.
	ErrSessionActive = errors.New("unit of work already active")

	// ErrSessionInactive is returned when an operation requires an active
	// unit of work.
	ErrSessionInactive = errors.New("no active unit of work")

	// ErrSessionClosed is returned when a lazy reference is accessed after
	// its owning unit of work has ended.
	ErrSessionClosed = errors.New("owning unit of work has ended")

	// ErrNotManaged is returned when MarkDirty is called on a record that
	// is not in the identity map.
	ErrNotManaged = errors.New("record is not managed by this unit of work")

	// ErrUniqueViolation is returned when a unique constraint is violated.
	ErrUniqueViolation = errors.New("unique constraint violation")

	// ErrForeignKeyViolation is returned when a foreign key constraint is violated.
	ErrForeignKeyViolation = errors.New("foreign key constraint violation")

	// ErrCheckViolation is returned when a check constraint is violated.
	ErrCheckViolation = errors.New("check constraint violation")

	// ErrNotNullViolation is returned when a NOT NULL constraint is violated.
	ErrNotNullViolation = errors.New("not null constraint violation")
)

// ConvertStorageError normalizes storage collaborator errors into the
// session's error types.
func ConvertStorageError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	// PostgreSQL errors carry SQLSTATE codes via pgconn.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", ErrUniqueViolation, pgErr.Detail)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s", ErrForeignKeyViolation, pgErr.Detail)
		case "23514": // check_violation
			return fmt.Errorf("%w: %s", ErrCheckViolation, pgErr.Detail)
		case "23502": // not_null_violation
			return fmt.Errorf("%w: column %s", ErrNotNullViolation, pgErr.ColumnName)
		}
	}

	return err
}

// IsNotFound returns true if the error is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsSessionClosed returns true if the error is ErrSessionClosed.
func IsSessionClosed(err error) bool {
	return errors.Is(err, ErrSessionClosed)
}
