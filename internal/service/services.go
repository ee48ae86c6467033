package service

import (
	postgres "github.com/ardenlx/book-go/internal/repository/postgres"
	redisrepo "github.com/ardenlx/book-go/internal/repository/redis"
	"github.com/ardenlx/book-go/internal/service/booking"
	"github.com/ardenlx/book-go/internal/service/calendar"
	"github.com/ardenlx/book-go/internal/service/query"
	"github.com/ardenlx/book-go/internal/uow"
)

type Services struct {
	Booking  *booking.Service
	Calendar *calendar.Service
	Query    *query.Service
}

type Config struct {
	Query query.Config
}

// queryStore composes the read surface of the three postgres repos into the
// single interface the reporting layer consumes.
type queryStore struct {
	*postgres.BookingRepo
	*postgres.CalendarRepo
	*postgres.QueryRepo
}

func NewServices(
	store *postgres.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.CalendarPubSub,
	notifier booking.Notifier,
	gen booking.ReferenceGenerator,
	cfg Config,
) *Services {
	txRunner := uow.NewUoW(store)

	return &Services{
		Booking: booking.New(
			store.Bookings(),
			store.Calendar(),
			txRunner,
			gen,
			cache,
			pubsub,
			notifier,
		),
		Calendar: calendar.New(store.Calendar(), txRunner, cache, pubsub),
		Query: query.New(
			&queryStore{store.Bookings(), store.Calendar(), store.Query()},
			cache,
			cfg.Query,
		),
	}
}
