package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ardenlx/book-go/internal/domain"
	"github.com/ardenlx/book-go/internal/repository"
	"github.com/ardenlx/book-go/internal/uow"
)

// BlockedReasonBooked marks a calendar date held by a booking, as opposed to
// an administrative block.
const BlockedReasonBooked = "Booked Event"

// refRetries bounds reference regeneration when the time-derived component
// collides under concurrent creation.
const refRetries = 3

// Service is the booking lifecycle manager. It owns the invariant that a
// booking and its calendar date move together: a create holds the date, a
// delete releases it, and neither write is ever applied without the other.
type Service struct {
	bookings BookingStore
	calendar CalendarStore
	tx       TxRunner
	gen      ReferenceGenerator
	cache    CacheInvalidator
	pubsub   ChangePublisher
	notifier Notifier
	now      func() time.Time
}

func New(
	bookings BookingStore,
	calendar CalendarStore,
	tx TxRunner,
	gen ReferenceGenerator,
	cache CacheInvalidator,
	pubsub ChangePublisher,
	notifier Notifier,
) *Service {
	return &Service{
		bookings: bookings,
		calendar: calendar,
		tx:       tx,
		gen:      gen,
		cache:    cache,
		pubsub:   pubsub,
		notifier: notifier,
		now:      time.Now,
	}
}

// Create validates the request, then inserts a PENDING booking and holds its
// calendar date in one transaction. A collision on the generated reference
// restarts the transaction with a fresh reference; a taken date surfaces as
// booking.ErrDateConflict with the first booking left intact.
//
// Returns:
//   - *domain.Booking: the created booking including its reference.
//   - error: booking.ErrValidation on malformed input (no writes).
//   - error: booking.ErrDateConflict if the date is already held or blocked.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Booking, error) {
	const op = "service.booking.Create"

	// Validation failures carry the aggregated field violations verbatim:
	// the transport surfaces them to the client unchanged.
	b, err := validate(req, s.now())
	if err != nil {
		return nil, err
	}

	b.ID = uuid.New()

	for attempt := 0; attempt < refRetries; attempt++ {
		b.Reference = s.gen.New()

		err = s.tx.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
			if err := s.bookings.Insert(ctx, b); err != nil {
				return err
			}

			if err := s.calendar.Hold(ctx, b.EventDate, b.ID, BlockedReasonBooked); err != nil {
				return err
			}

			after(func(ctx context.Context) {
				s.afterCalendarChange(ctx, b.EventDate)
				if s.notifier != nil {
					_ = s.notifier.SendBookingConfirmation(ctx, b)
					_ = s.notifier.SendAdminNotification(ctx, b)
				}
			})

			return nil
		})

		// Only the reference carries a plain unique constraint on the
		// bookings table; retry with a fresh one.
		if errors.Is(err, repository.ErrConflict) {
			continue
		}

		break
	}
	if err != nil {
		if errors.Is(err, repository.ErrDateUnavailable) {
			return nil, ErrDateConflict
		}
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%s: reference collision persisted after %d attempts: %w", op, refRetries, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// Get retrieves a booking by internal ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	const op = "service.booking.Get"

	b, err := s.bookings.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// GetByReference retrieves a booking by its human-facing reference.
func (s *Service) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	const op = "service.booking.GetByReference"

	b, err := s.bookings.GetByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// UpdateStatus transitions a booking through the lifecycle state machine.
// The read-check-write runs in one transaction so concurrent transitions
// cannot interleave. A self-transition persists (refreshing updated_at) but
// changes nothing else. The calendar is deliberately untouched: a CANCELLED
// booking keeps its date held until it is deleted, preserving the record of
// why the date is unavailable.
//
// Returns:
//   - error: booking.ErrInvalidStatus for values outside the enum.
//   - error: booking.ErrBookingNotFound if the ID is unknown.
//   - error: booking.ErrInvalidTransition if the state machine forbids it.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Booking, error) {
	const op = "service.booking.UpdateStatus"

	target, err := domain.ParseBookingStatus(status)
	if err != nil {
		return nil, ErrInvalidStatus
	}

	var updated *domain.Booking

	err = s.tx.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		current, err := s.bookings.Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if !current.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: cannot transition from %s to %s",
				ErrInvalidTransition, current.Status, target)
		}

		updated, err = s.bookings.UpdateStatus(ctx, id, target)
		return err
	})
	if err != nil {
		// Policy failures stay unwrapped: their messages go to the client.
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

// Update applies a partial field update, bypassing the state machine for
// non-status fields. Status changes must go through UpdateStatus.
//
// Returns:
//   - error: booking.ErrInvalidPayment for payment values outside the enum.
//   - error: booking.ErrBookingNotFound if the ID is unknown.
func (s *Service) Update(ctx context.Context, id uuid.UUID, upd domain.BookingUpdate) (*domain.Booking, error) {
	const op = "service.booking.Update"

	if upd.PaymentStatus != nil {
		if _, err := domain.ParsePaymentStatus(string(*upd.PaymentStatus)); err != nil {
			return nil, ErrInvalidPayment
		}
	}

	b, err := s.bookings.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// Delete removes a booking and releases its calendar date atomically.
// Deletion is only permitted from PENDING, COMPLETED, or CANCELLED; active
// bookings must be cancelled first.
//
// Returns:
//   - error: booking.ErrBookingNotFound if the ID is unknown.
//   - error: booking.ErrActiveBooking if the booking is CONFIRMED or IN_PROGRESS.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "service.booking.Delete"

	err := s.tx.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		b, err := s.bookings.Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if !b.Status.Deletable() {
			return fmt.Errorf("%w (current status: %s)", ErrActiveBooking, b.Status)
		}

		if err := s.calendar.Release(ctx, b.ID); err != nil {
			return err
		}

		if err := s.bookings.Delete(ctx, b.ID); err != nil {
			return err
		}

		after(func(ctx context.Context) {
			s.afterCalendarChange(ctx, b.EventDate)
		})

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrActiveBooking) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) afterCalendarChange(ctx context.Context, date time.Time) {
	if s.cache != nil {
		_ = s.cache.InvalidateMonth(ctx, date)
	}
	if s.pubsub != nil {
		_ = s.pubsub.PublishCalendarChanged(ctx, date)
	}
}
