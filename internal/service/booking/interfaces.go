package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ardenlx/book-go/internal/domain"
	"github.com/ardenlx/book-go/internal/uow"
)

// BookingStore is the booking-row persistence the lifecycle manager needs.
// Satisfied by *postgres.BookingRepo.
type BookingStore interface {
	Insert(ctx context.Context, b *domain.Booking) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetByReference(ctx context.Context, ref string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error)
	Update(ctx context.Context, id uuid.UUID, upd domain.BookingUpdate) (*domain.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CalendarStore is the calendar-row persistence the lifecycle manager needs.
// Satisfied by *postgres.CalendarRepo.
type CalendarStore interface {
	Hold(ctx context.Context, date time.Time, bookingID uuid.UUID, reason string) error
	Release(ctx context.Context, bookingID uuid.UUID) error
}

// TxRunner wraps the booking and calendar writes of one lifecycle operation
// into a single transaction. Satisfied by *uow.UoW.
type TxRunner interface {
	Do(ctx context.Context, fn func(ctx context.Context, after func(uow.AfterCommit)) error) error
}

// ReferenceGenerator produces candidate booking references.
type ReferenceGenerator interface {
	New() string
}

// CacheInvalidator drops cached availability for the month a date falls in.
type CacheInvalidator interface {
	InvalidateMonth(ctx context.Context, date time.Time) error
}

// ChangePublisher broadcasts a calendar mutation after commit.
type ChangePublisher interface {
	PublishCalendarChanged(ctx context.Context, date time.Time) error
}

// Notifier delivers outbound booking notifications. Delivery is
// fire-and-forget after commit; failures never fail the operation.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, b *domain.Booking) error
	SendAdminNotification(ctx context.Context, b *domain.Booking) error
}
