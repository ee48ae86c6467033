package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ardenlx/book-go/internal/domain"
	"github.com/ardenlx/book-go/internal/repository"
)

type BookingRepo struct {
	store *Store
}

const bookingColumns = `id, reference, client_name, client_email, client_phone,
	event_date, start_time, end_time, event_type, services,
	venue_name, venue_address, guest_count, special_requests,
	total_cents, deposit_cents, status, payment_status, created_at, updated_at`

// Insert persists a new booking. Timestamps are assigned by the database and
// scanned back into b.
//
// Returns:
//   - error: repository.ErrConflict if the reference is already taken.
func (r *BookingRepo) Insert(ctx context.Context, b *domain.Booking) error {
	const op = "postgres.BookingRepo.Insert"

	db := r.store.executor(ctx)

	err := db.QueryRow(ctx,
		`INSERT INTO bookings(
			id, reference, client_name, client_email, client_phone,
			event_date, start_time, end_time, event_type, services,
			venue_name, venue_address, guest_count, special_requests,
			total_cents, deposit_cents, status, payment_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		         $11, $12, $13, $14, $15, $16, $17, $18)
		 RETURNING created_at, updated_at`,
		b.ID, b.Reference, b.ClientName, b.ClientEmail, b.ClientPhone,
		b.EventDate, b.StartTime, b.EndTime, b.EventType, b.Services,
		b.VenueName, b.VenueAddress, b.GuestCount, b.SpecialRequests,
		b.TotalCents, b.DepositCents, b.Status, b.PaymentStatus,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// Get retrieves a booking by its internal ID.
//
// Returns:
//   - error: repository.ErrNotFound if no booking exists with the ID.
func (r *BookingRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	const op = "postgres.BookingRepo.Get"

	db := r.store.executor(ctx)

	row := db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)

	b, err := scanBooking(row)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return b, nil
}

// GetByReference retrieves a booking by its human-facing reference.
func (r *BookingRepo) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	const op = "postgres.BookingRepo.GetByReference"

	db := r.store.executor(ctx)

	row := db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE reference = $1`, ref)

	b, err := scanBooking(row)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return b, nil
}

// UpdateStatus persists a new status and refreshes updated_at. The state
// machine check happens in the service layer before this call.
func (r *BookingRepo) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.BookingStatus,
) (*domain.Booking, error) {
	const op = "postgres.BookingRepo.UpdateStatus"

	db := r.store.executor(ctx)

	row := db.QueryRow(ctx,
		`UPDATE bookings
		 SET status = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+bookingColumns,
		id, status)

	b, err := scanBooking(row)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return b, nil
}

// Update applies a partial field update. Nil fields in upd are left
// untouched; updated_at is always refreshed.
func (r *BookingRepo) Update(
	ctx context.Context,
	id uuid.UUID,
	upd domain.BookingUpdate,
) (*domain.Booking, error) {
	const op = "postgres.BookingRepo.Update"

	db := r.store.executor(ctx)

	row := db.QueryRow(ctx,
		`UPDATE bookings SET
			client_name      = COALESCE($2,  client_name),
			client_email     = COALESCE($3,  client_email),
			client_phone     = COALESCE($4,  client_phone),
			start_time       = COALESCE($5,  start_time),
			end_time         = COALESCE($6,  end_time),
			event_type       = COALESCE($7,  event_type),
			services         = COALESCE($8,  services),
			venue_name       = COALESCE($9,  venue_name),
			venue_address    = COALESCE($10, venue_address),
			guest_count      = COALESCE($11, guest_count),
			special_requests = COALESCE($12, special_requests),
			total_cents      = COALESCE($13, total_cents),
			deposit_cents    = COALESCE($14, deposit_cents),
			payment_status   = COALESCE($15, payment_status),
			updated_at       = now()
		 WHERE id = $1
		 RETURNING `+bookingColumns,
		id, upd.ClientName, upd.ClientEmail, upd.ClientPhone,
		upd.StartTime, upd.EndTime, upd.EventType, upd.Services,
		upd.VenueName, upd.VenueAddress, upd.GuestCount, upd.SpecialRequests,
		upd.TotalCents, upd.DepositCents, upd.PaymentStatus)

	b, err := scanBooking(row)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return b, nil
}

// Delete removes a booking row. The status policy check and the calendar
// release happen in the service layer inside the same transaction.
func (r *BookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.BookingRepo.Delete"

	db := r.store.executor(ctx)

	tag, err := db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

// ListRange lists bookings whose event date falls within [from, to]
// inclusive, ordered by event date ascending.
func (r *BookingRepo) ListRange(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	const op = "postgres.BookingRepo.ListRange"

	db := r.store.executor(ctx)

	rows, err := db.Query(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings
		 WHERE event_date >= $1 AND event_date <= $2
		 ORDER BY event_date`,
		from, to)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.Reference, &b.ClientName, &b.ClientEmail, &b.ClientPhone,
		&b.EventDate, &b.StartTime, &b.EndTime, &b.EventType, &b.Services,
		&b.VenueName, &b.VenueAddress, &b.GuestCount, &b.SpecialRequests,
		&b.TotalCents, &b.DepositCents, &b.Status, &b.PaymentStatus,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
