package postgres

import (
	"context"
	"time"

	"github.com/ardenlx/book-go/internal/domain"
)

type QueryRepo struct {
	store *Store
}

// CountsByStatus counts bookings per lifecycle status.
func (r *QueryRepo) CountsByStatus(ctx context.Context) (*domain.StatusCounts, error) {
	const op = "postgres.QueryRepo.CountsByStatus"

	db := r.store.executor(ctx)

	var sc domain.StatusCounts
	err := db.QueryRow(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN status = 'PENDING'     THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'CONFIRMED'   THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'IN_PROGRESS' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'COMPLETED'   THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'CANCELLED'   THEN 1 ELSE 0 END), 0)
		 FROM bookings`,
	).Scan(&sc.Pending, &sc.Confirmed, &sc.InProgress, &sc.Completed, &sc.Cancelled)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	sc.Total = sc.Pending + sc.Confirmed + sc.InProgress + sc.Completed + sc.Cancelled

	return &sc, nil
}

// Revenue sums and averages total_cents over non-cancelled bookings.
func (r *QueryRepo) Revenue(ctx context.Context) (sumCents, avgCents int64, err error) {
	const op = "postgres.QueryRepo.Revenue"

	db := r.store.executor(ctx)

	err = db.QueryRow(ctx,
		`SELECT
			COALESCE(SUM(total_cents), 0),
			COALESCE(ROUND(AVG(total_cents)), 0)
		 FROM bookings
		 WHERE status <> 'CANCELLED' AND total_cents IS NOT NULL`,
	).Scan(&sumCents, &avgCents)
	if err != nil {
		return 0, 0, wrapDBErr(op, err)
	}

	return sumCents, avgCents, nil
}

// MonthCounts returns booking creation counts for the month containing now
// and for the month before it.
func (r *QueryRepo) MonthCounts(ctx context.Context, now time.Time) (thisMonth, lastMonth int64, err error) {
	const op = "postgres.QueryRepo.MonthCounts"

	db := r.store.executor(ctx)

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevStart := monthStart.AddDate(0, -1, 0)
	nextStart := monthStart.AddDate(0, 1, 0)

	err = db.QueryRow(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN created_at >= $2 AND created_at < $3 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN created_at >= $1 AND created_at < $2 THEN 1 ELSE 0 END), 0)
		 FROM bookings
		 WHERE created_at >= $1 AND created_at < $3`,
		prevStart, monthStart, nextStart,
	).Scan(&thisMonth, &lastMonth)
	if err != nil {
		return 0, 0, wrapDBErr(op, err)
	}

	return thisMonth, lastMonth, nil
}
