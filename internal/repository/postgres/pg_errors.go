package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ardenlx/book-go/internal/repository"
)

// Unique constraint names from migrations/0001_init.sql. The calendar date
// key constraint is what converts a concurrent double-booking into a typed
// conflict instead of a silent last-writer-wins.
const constraintCalendarDate = "calendar_days_pkey"

// IsRetryable reports whether the error is a serialization or deadlock
// failure that a fresh transaction attempt may resolve.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return true
		}
	}
	return false
}

// wrapDBErr maps common pgx errors onto repository sentinels and wraps them
// with the operation name. A unique violation on the calendar date key means
// the date was taken; any other unique violation (in practice the booking
// reference constraint) surfaces as a generic conflict the caller resolves
// by regenerating the reference.
func wrapDBErr(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	var pge *pgconn.PgError
	if errors.As(err, &pge) && pge.Code == "23505" {
		if pge.ConstraintName == constraintCalendarDate {
			return fmt.Errorf("%s: %w", op, repository.ErrDateUnavailable)
		}
		return fmt.Errorf("%s: %w", op, repository.ErrConflict)
	}

	return fmt.Errorf("%s: %w", op, err)
}
