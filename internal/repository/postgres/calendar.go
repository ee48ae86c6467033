package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ardenlx/book-go/internal/domain"
	"github.com/ardenlx/book-go/internal/repository"
)

type CalendarRepo struct {
	store *Store
}

// Hold claims a date for a booking: the row is upserted with
// is_available = false and a back-reference to the booking. A date already
// held by another booking or blocked by an administrator is not overwritten.
//
// Returns:
//   - error: repository.ErrDateUnavailable if the date is already taken.
func (r *CalendarRepo) Hold(
	ctx context.Context,
	date time.Time,
	bookingID uuid.UUID,
	reason string,
) error {
	const op = "postgres.CalendarRepo.Hold"

	db := r.store.executor(ctx)

	tag, err := db.Exec(ctx,
		`INSERT INTO calendar_days(date, is_available, blocked_reason, booking_id)
		 VALUES ($1, false, $2, $3)
		 ON CONFLICT (date) DO UPDATE
		 SET is_available = false, blocked_reason = $2, booking_id = $3
		 WHERE calendar_days.is_available = true`,
		date, reason, bookingID)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrDateUnavailable)
	}

	return nil
}

// Release frees every date held by the given booking: the row is reopened
// and the booking link and reason are cleared. Releasing a booking that
// holds no date is a no-op.
func (r *CalendarRepo) Release(ctx context.Context, bookingID uuid.UUID) error {
	const op = "postgres.CalendarRepo.Release"

	db := r.store.executor(ctx)

	if _, err := db.Exec(ctx,
		`UPDATE calendar_days
		 SET is_available = true, blocked_reason = NULL, booking_id = NULL
		 WHERE booking_id = $1`,
		bookingID); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// Block applies an administrative block (no booking link) to a date. A date
// held by a booking is never overwritten.
//
// Returns:
//   - error: repository.ErrDateHeldByBooking if a booking holds the date.
func (r *CalendarRepo) Block(ctx context.Context, date time.Time, reason string) error {
	const op = "postgres.CalendarRepo.Block"

	db := r.store.executor(ctx)

	tag, err := db.Exec(ctx,
		`INSERT INTO calendar_days(date, is_available, blocked_reason, booking_id)
		 VALUES ($1, false, $2, NULL)
		 ON CONFLICT (date) DO UPDATE
		 SET is_available = false, blocked_reason = $2
		 WHERE calendar_days.booking_id IS NULL`,
		date, reason)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrDateHeldByBooking)
	}

	return nil
}

// Unblock lifts an administrative block. Booking-held dates are released
// only through booking deletion, never here.
//
// Returns:
//   - error: repository.ErrNotFound if the date has no row.
//   - error: repository.ErrDateHeldByBooking if a booking holds the date.
func (r *CalendarRepo) Unblock(ctx context.Context, date time.Time) error {
	const op = "postgres.CalendarRepo.Unblock"

	db := r.store.executor(ctx)

	tag, err := db.Exec(ctx,
		`UPDATE calendar_days
		 SET is_available = true, blocked_reason = NULL
		 WHERE date = $1 AND booking_id IS NULL`,
		date)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		var held bool
		err := db.QueryRow(ctx,
			`SELECT booking_id IS NOT NULL FROM calendar_days WHERE date = $1`,
			date).Scan(&held)
		if err != nil {
			return wrapDBErr(op, err)
		}
		if held {
			return wrapDBErr(op, repository.ErrDateHeldByBooking)
		}
	}

	return nil
}

// BlockRange blocks every date in [from, to] inclusive. The whole range is
// rejected if any date in it is held by a booking.
func (r *CalendarRepo) BlockRange(ctx context.Context, from, to time.Time, reason string) error {
	const op = "postgres.CalendarRepo.BlockRange"

	db := r.store.executor(ctx)

	var held int64
	err := db.QueryRow(ctx,
		`SELECT count(*) FROM calendar_days
		 WHERE date >= $1 AND date <= $2 AND booking_id IS NOT NULL`,
		from, to).Scan(&held)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if held > 0 {
		return wrapDBErr(op, repository.ErrDateHeldByBooking)
	}

	if _, err := db.Exec(ctx,
		`INSERT INTO calendar_days(date, is_available, blocked_reason, booking_id)
		 SELECT d::date, false, $3, NULL
		 FROM generate_series($1::date, $2::date, interval '1 day') AS d
		 ON CONFLICT (date) DO UPDATE
		 SET is_available = false, blocked_reason = $3
		 WHERE calendar_days.booking_id IS NULL`,
		from, to, reason); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// GetDay retrieves the availability row for a date.
//
// Returns:
//   - error: repository.ErrNotFound if the date has no row.
func (r *CalendarRepo) GetDay(ctx context.Context, date time.Time) (*domain.CalendarDay, error) {
	const op = "postgres.CalendarRepo.GetDay"

	db := r.store.executor(ctx)

	var d domain.CalendarDay
	err := db.QueryRow(ctx,
		`SELECT date, is_available, blocked_reason, booking_id
		 FROM calendar_days WHERE date = $1`,
		date).Scan(&d.Date, &d.Available, &d.BlockedReason, &d.BookingID)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &d, nil
}

// AvailableDatesInMonth lists the dates in the given month whose rows are
// marked available. Months with no rows yield an empty list.
func (r *CalendarRepo) AvailableDatesInMonth(ctx context.Context, year, month int) ([]time.Time, error) {
	const op = "postgres.CalendarRepo.AvailableDatesInMonth"

	db := r.store.executor(ctx)

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	rows, err := db.Query(ctx,
		`SELECT date FROM calendar_days
		 WHERE date >= $1 AND date < $2 AND is_available = true
		 ORDER BY date`,
		first, next)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	out := []time.Time{}
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
