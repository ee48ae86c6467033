// Package calendar implements the administrative calendar operations:
// manual blocks and unblocks independent of any booking. Booking-held dates
// are never touched here; only booking deletion releases them.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ardenlx/book-go/internal/domain"
	"github.com/ardenlx/book-go/internal/repository"
	"github.com/ardenlx/book-go/internal/uow"
)

// DefaultBlockReason is used when an admin blocks a date without a reason.
const DefaultBlockReason = "Maintenance"

// maxRangeDays bounds a single range block.
const maxRangeDays = 366

// CalendarStore is the persistence surface for admin calendar operations.
// Satisfied by *postgres.CalendarRepo.
type CalendarStore interface {
	Block(ctx context.Context, date time.Time, reason string) error
	Unblock(ctx context.Context, date time.Time) error
	BlockRange(ctx context.Context, from, to time.Time, reason string) error
	GetDay(ctx context.Context, date time.Time) (*domain.CalendarDay, error)
}

// TxRunner wraps multi-statement calendar mutations. Satisfied by *uow.UoW.
type TxRunner interface {
	Do(ctx context.Context, fn func(ctx context.Context, after func(uow.AfterCommit)) error) error
}

// CacheInvalidator drops cached availability for the month a date falls in.
type CacheInvalidator interface {
	InvalidateMonth(ctx context.Context, date time.Time) error
}

// ChangePublisher broadcasts a calendar mutation after commit.
type ChangePublisher interface {
	PublishCalendarChanged(ctx context.Context, date time.Time) error
}

type Service struct {
	calendar CalendarStore
	tx       TxRunner
	cache    CacheInvalidator
	pubsub   ChangePublisher
}

func New(calendar CalendarStore, tx TxRunner, cache CacheInvalidator, pubsub ChangePublisher) *Service {
	return &Service{
		calendar: calendar,
		tx:       tx,
		cache:    cache,
		pubsub:   pubsub,
	}
}

// Block marks a date unavailable with an administrative reason. A date held
// by a booking is rejected: overwriting it would orphan the booking's hold.
//
// Returns:
//   - error: calendar.ErrInvalidDate on an unparseable date.
//   - error: calendar.ErrDateHasBooking if a booking holds the date.
func (s *Service) Block(ctx context.Context, date, reason string) error {
	const op = "service.calendar.Block"

	d, err := parseDate(date)
	if err != nil {
		return err
	}

	if strings.TrimSpace(reason) == "" {
		reason = DefaultBlockReason
	}

	err = s.tx.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		if err := s.calendar.Block(ctx, d, reason); err != nil {
			if errors.Is(err, repository.ErrDateHeldByBooking) {
				return ErrDateHasBooking
			}
			return err
		}

		after(func(ctx context.Context) {
			s.afterChange(ctx, d)
		})

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDateHasBooking) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Unblock lifts an administrative block from a date.
//
// Returns:
//   - error: calendar.ErrDateNotFound if the date has no row.
//   - error: calendar.ErrDateHasBooking if a booking holds the date.
func (s *Service) Unblock(ctx context.Context, date string) error {
	const op = "service.calendar.Unblock"

	d, err := parseDate(date)
	if err != nil {
		return err
	}

	err = s.tx.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		if err := s.calendar.Unblock(ctx, d); err != nil {
			switch {
			case errors.Is(err, repository.ErrDateHeldByBooking):
				return ErrDateHasBooking
			case errors.Is(err, repository.ErrNotFound):
				return ErrDateNotFound
			}
			return err
		}

		after(func(ctx context.Context) {
			s.afterChange(ctx, d)
		})

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDateHasBooking) || errors.Is(err, ErrDateNotFound) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// BlockRange blocks every date in [from, to] inclusive. The whole range is
// rejected if any date in it is booking-held, so a partial block never
// happens.
func (s *Service) BlockRange(ctx context.Context, from, to, reason string) error {
	const op = "service.calendar.BlockRange"

	start, err := parseDate(from)
	if err != nil {
		return err
	}

	end, err := parseDate(to)
	if err != nil {
		return err
	}

	if end.Before(start) {
		return fmt.Errorf("%w: end date precedes start date", ErrInvalidRange)
	}

	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return fmt.Errorf("%w: range exceeds %d days", ErrInvalidRange, maxRangeDays)
	}

	if strings.TrimSpace(reason) == "" {
		reason = DefaultBlockReason
	}

	err = s.tx.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		if err := s.calendar.BlockRange(ctx, start, end, reason); err != nil {
			if errors.Is(err, repository.ErrDateHeldByBooking) {
				return ErrDateHasBooking
			}
			return err
		}

		after(func(ctx context.Context) {
			for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
				s.afterChange(ctx, d)
			}
		})

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDateHasBooking) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetDay returns the availability row for a date.
func (s *Service) GetDay(ctx context.Context, date string) (*domain.CalendarDay, error) {
	const op = "service.calendar.GetDay"

	d, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	day, err := s.calendar.GetDay(ctx, d)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDateNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return day, nil
}

func (s *Service) afterChange(ctx context.Context, date time.Time) {
	if s.cache != nil {
		_ = s.cache.InvalidateMonth(ctx, date)
	}
	if s.pubsub != nil {
		_ = s.pubsub.PublishCalendarChanged(ctx, date)
	}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}
