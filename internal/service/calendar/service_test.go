package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ardenlx/book-go/internal/domain"
	"github.com/ardenlx/book-go/internal/repository"
	"github.com/ardenlx/book-go/internal/uow"
)

type MockCalendarStore struct {
	mock.Mock
}

func (m *MockCalendarStore) Block(ctx context.Context, date time.Time, reason string) error {
	args := m.Called(ctx, date, reason)
	return args.Error(0)
}

func (m *MockCalendarStore) Unblock(ctx context.Context, date time.Time) error {
	args := m.Called(ctx, date)
	return args.Error(0)
}

func (m *MockCalendarStore) BlockRange(ctx context.Context, from, to time.Time, reason string) error {
	args := m.Called(ctx, from, to, reason)
	return args.Error(0)
}

func (m *MockCalendarStore) GetDay(ctx context.Context, date time.Time) (*domain.CalendarDay, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendarDay), args.Error(1)
}

type immediateTx struct{}

func (immediateTx) Do(ctx context.Context, fn func(ctx context.Context, after func(uow.AfterCommit)) error) error {
	var hooks []uow.AfterCommit
	if err := fn(ctx, func(h uow.AfterCommit) { hooks = append(hooks, h) }); err != nil {
		return err
	}
	for _, h := range hooks {
		h(ctx)
	}
	return nil
}

func TestBlock(t *testing.T) {
	date := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)

	t.Run("blocks with given reason", func(t *testing.T) {
		store := new(MockCalendarStore)
		svc := New(store, immediateTx{}, nil, nil)

		store.On("Block", mock.Anything, date, "Team offsite").Return(nil).Once()

		err := svc.Block(context.Background(), "2026-07-04", "Team offsite")

		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("empty reason gets the default", func(t *testing.T) {
		store := new(MockCalendarStore)
		svc := New(store, immediateTx{}, nil, nil)

		store.On("Block", mock.Anything, date, DefaultBlockReason).Return(nil).Once()

		err := svc.Block(context.Background(), "2026-07-04", "  ")

		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("unparseable date rejected before any write", func(t *testing.T) {
		store := new(MockCalendarStore)
		svc := New(store, immediateTx{}, nil, nil)

		err := svc.Block(context.Background(), "July 4th", "whatever")

		require.ErrorIs(t, err, ErrInvalidDate)
		store.AssertNotCalled(t, "Block", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("booking-held date rejected", func(t *testing.T) {
		store := new(MockCalendarStore)
		svc := New(store, immediateTx{}, nil, nil)

		store.On("Block", mock.Anything, date, DefaultBlockReason).
			Return(repository.ErrDateHeldByBooking).Once()

		err := svc.Block(context.Background(), "2026-07-04", "")

		require.ErrorIs(t, err, ErrDateHasBooking)
	})
}

func TestUnblock(t *testing.T) {
	date := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)

	t.Run("unblocks an admin block", func(t *testing.T) {
		store := new(MockCalendarStore)
		svc := New(store, immediateTx{}, nil, nil)

		store.On("Unblock", mock.Anything, date).Return(nil).Once()

		err := svc.Unblock(context.Background(), "2026-07-04")

		require.NoError(t, err)
	})

	t.Run("booking-held date rejected", func(t *testing.T) {
		store := new(MockCalendarStore)
		svc := New(store, immediateTx{}, nil, nil)

		store.On("Unblock", mock.Anything, date).
			Return(repository.ErrDateHeldByBooking).Once()

		err := svc.Unblock(context.Background(), "2026-07-04")

		require.ErrorIs(t, err, ErrDateHasBooking)
	})

	t.Run("unknown date", func(t *testing.T) {
		store := new(MockCalendarStore)
		svc := New(store, immediateTx{}, nil, nil)

		store.On("Unblock", mock.Anything, date).
			Return(repository.ErrNotFound).Once()

		err := svc.Unblock(context.Background(), "2026-07-04")

		require.ErrorIs(t, err, ErrDateNotFound)
	})
}

func TestBlockRange(t *testing.T) {
	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)

	t.Run("blocks the whole range", func(t *testing.T) {
		store := new(MockCalendarStore)
		svc := New(store, immediateTx{}, nil, nil)

		store.On("BlockRange", mock.Anything, from, to, "Renovation").Return(nil).Once()

		err := svc.BlockRange(context.Background(), "2026-07-01", "2026-07-10", "Renovation")

		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		store := new(MockCalendarStore)
		svc := New(store, immediateTx{}, nil, nil)

		err := svc.BlockRange(context.Background(), "2026-07-10", "2026-07-01", "")

		require.ErrorIs(t, err, ErrInvalidRange)
		store.AssertNotCalled(t, "BlockRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("oversized range rejected", func(t *testing.T) {
		store := new(MockCalendarStore)
		svc := New(store, immediateTx{}, nil, nil)

		err := svc.BlockRange(context.Background(), "2026-01-01", "2028-01-01", "")

		require.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("range containing a booked date rejected whole", func(t *testing.T) {
		store := new(MockCalendarStore)
		svc := New(store, immediateTx{}, nil, nil)

		store.On("BlockRange", mock.Anything, from, to, DefaultBlockReason).
			Return(repository.ErrDateHeldByBooking).Once()

		err := svc.BlockRange(context.Background(), "2026-07-01", "2026-07-10", "")

		require.ErrorIs(t, err, ErrDateHasBooking)
	})
}

func TestGetDay(t *testing.T) {
	date := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)

	t.Run("returns the day", func(t *testing.T) {
		store := new(MockCalendarStore)
		svc := New(store, immediateTx{}, nil, nil)

		bid := uuid.New()
		store.On("GetDay", mock.Anything, date).
			Return(&domain.CalendarDay{Date: date, Available: false, BookingID: &bid}, nil).Once()

		day, err := svc.GetDay(context.Background(), "2026-07-04")

		require.NoError(t, err)
		assert.False(t, day.Available)
		assert.True(t, day.HeldByBooking())
	})

	t.Run("unknown date", func(t *testing.T) {
		store := new(MockCalendarStore)
		svc := New(store, immediateTx{}, nil, nil)

		store.On("GetDay", mock.Anything, date).Return(nil, repository.ErrNotFound).Once()

		_, err := svc.GetDay(context.Background(), "2026-07-04")

		require.ErrorIs(t, err, ErrDateNotFound)
	})
}
