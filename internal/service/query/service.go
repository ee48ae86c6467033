// Package query is the read-only reporting layer: date-range listings,
// month availability, and dashboard aggregates. It never mutates either
// store.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/ardenlx/book-go/internal/domain"
	redisrepo "github.com/ardenlx/book-go/internal/repository/redis"
)

const (
	minYear = 2020
	maxYear = 2100
)

// Store is the read surface the reporting layer needs. Satisfied by the
// postgres repos taken together.
type Store interface {
	ListRange(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
	AvailableDatesInMonth(ctx context.Context, year, month int) ([]time.Time, error)
	CountsByStatus(ctx context.Context) (*domain.StatusCounts, error)
	Revenue(ctx context.Context) (sumCents, avgCents int64, err error)
	MonthCounts(ctx context.Context, now time.Time) (thisMonth, lastMonth int64, err error)
}

type Config struct {
	AvailabilityTTL time.Duration
	DashboardTTL    time.Duration
}

type Service struct {
	store Store
	cache *redisrepo.Cache
	cfg   Config
	now   func() time.Time
}

func New(store Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 60 * time.Second
	}

	if cfg.DashboardTTL <= 0 {
		cfg.DashboardTTL = 30 * time.Second
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
		now:   time.Now,
	}
}

// ListRange lists bookings with event dates inside [from, to] inclusive,
// ordered by event date ascending. Dates arrive as YYYY-MM-DD strings and
// inverted or unparseable ranges are rejected before any query runs.
func (s *Service) ListRange(ctx context.Context, from, to string) ([]domain.Booking, error) {
	const op = "service.query.ListRange"

	start, err := time.Parse(domain.DateFormat, from)
	if err != nil {
		return nil, fmt.Errorf("%w: bad start date %q", ErrInvalidRange, from)
	}

	end, err := time.Parse(domain.DateFormat, to)
	if err != nil {
		return nil, fmt.Errorf("%w: bad end date %q", ErrInvalidRange, to)
	}

	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date precedes start date", ErrInvalidRange)
	}

	bookings, err := s.store.ListRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

// AvailableDates lists the dates marked available in the given month,
// reading through the cache. A month with no calendar rows yields an empty
// list, not an error.
//
// Returns:
//   - error: query.ErrInvalidMonth / query.ErrInvalidYear before any query.
func (s *Service) AvailableDates(ctx context.Context, year, month int) ([]string, error) {
	const op = "service.query.AvailableDates"

	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}

	if year < minYear || year > maxYear {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidYear, year)
	}

	load := func(ctx context.Context) ([]string, error) {
		dates, err := s.store.AvailableDatesInMonth(ctx, year, month)
		if err != nil {
			return nil, err
		}

		out := make([]string, 0, len(dates))
		for _, d := range dates {
			out = append(out, d.Format(domain.DateFormat))
		}
		return out, nil
	}

	if s.cache == nil {
		dates, err := load(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return dates, nil
	}

	dates, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyAvailableDates(year, month),
		s.cfg.AvailabilityTTL,
		load,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return dates, nil
}

// DashboardStats aggregates status counts, revenue, and month-over-month
// growth. On storage failure it degrades to zero-value stats instead of
// erroring so the dashboard renders a blank state rather than crashing. The
// degraded stats are never cached: the loader propagates the storage error,
// so the next request after the store recovers sees real numbers.
func (s *Service) DashboardStats(ctx context.Context) *domain.DashboardStats {
	if s.cache == nil {
		stats, err := s.loadStats(ctx)
		if err != nil {
			return &domain.DashboardStats{}
		}
		return stats
	}

	stats, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyDashboardStats(),
		s.cfg.DashboardTTL,
		s.loadStats,
	)
	if err != nil || stats == nil {
		return &domain.DashboardStats{}
	}

	return stats
}

func (s *Service) loadStats(ctx context.Context) (*domain.DashboardStats, error) {
	counts, err := s.store.CountsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	sum, avg, err := s.store.Revenue(ctx)
	if err != nil {
		return nil, err
	}

	thisMonth, lastMonth, err := s.store.MonthCounts(ctx, s.now())
	if err != nil {
		return nil, err
	}

	return &domain.DashboardStats{
		Counts:            *counts,
		RevenueCents:      sum,
		AvgBookingCents:   avg,
		MonthGrowthPct:    growthPct(thisMonth, lastMonth),
		BookingsThisMonth: thisMonth,
		BookingsLastMonth: lastMonth,
	}, nil
}

func growthPct(thisMonth, lastMonth int64) float64 {
	if lastMonth == 0 {
		if thisMonth > 0 {
			return 100
		}
		return 0
	}
	return float64(thisMonth-lastMonth) / float64(lastMonth) * 100
}
