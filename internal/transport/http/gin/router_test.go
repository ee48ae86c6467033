package httpgin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardenlx/book-go/internal/domain"
	"github.com/ardenlx/book-go/internal/repository"
	redisrepo "github.com/ardenlx/book-go/internal/repository/redis"
	"github.com/ardenlx/book-go/internal/service"
	"github.com/ardenlx/book-go/internal/service/booking"
	"github.com/ardenlx/book-go/internal/uow"
)

// Fakes: func fields override the happy-path defaults per test.

type fakeBookingStore struct {
	insert func(ctx context.Context, b *domain.Booking) error
	get    func(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
}

func (f *fakeBookingStore) Insert(ctx context.Context, b *domain.Booking) error {
	if f.insert != nil {
		return f.insert(ctx, b)
	}
	return nil
}

func (f *fakeBookingStore) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	if f.get != nil {
		return f.get(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBookingStore) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeBookingStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error) {
	return &domain.Booking{ID: id, Status: status}, nil
}

func (f *fakeBookingStore) Update(ctx context.Context, id uuid.UUID, upd domain.BookingUpdate) (*domain.Booking, error) {
	return &domain.Booking{ID: id}, nil
}

func (f *fakeBookingStore) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type fakeCalendarStore struct {
	hold func(ctx context.Context, date time.Time, bookingID uuid.UUID, reason string) error
}

func (f *fakeCalendarStore) Hold(ctx context.Context, date time.Time, bookingID uuid.UUID, reason string) error {
	if f.hold != nil {
		return f.hold(ctx, date, bookingID, reason)
	}
	return nil
}

func (f *fakeCalendarStore) Release(ctx context.Context, bookingID uuid.UUID) error {
	return nil
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context, after func(uow.AfterCommit)) error) error {
	var hooks []uow.AfterCommit
	if err := fn(ctx, func(h uow.AfterCommit) { hooks = append(hooks, h) }); err != nil {
		return err
	}
	for _, h := range hooks {
		h(ctx)
	}
	return nil
}

type staticGen struct{}

func (staticGen) New() string { return "EVT-123456-XYZ" }

type allowVerifier struct{}

func (allowVerifier) Verify(*http.Request) (*AdminUser, error) {
	return &AdminUser{ID: "admin"}, nil
}

type denyVerifier struct{}

func (denyVerifier) Verify(*http.Request) (*AdminUser, error) {
	return nil, errors.New("no session")
}

type stubLimiter struct {
	res redisrepo.RateLimitResult
	err error
}

func (s stubLimiter) Allow(ctx context.Context, identity string) (redisrepo.RateLimitResult, error) {
	return s.res, s.err
}

func newTestRouter(t *testing.T, bs *fakeBookingStore, cs *fakeCalendarStore, limiter RateLimiter, verifier AuthVerifier) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svcs := &service.Services{
		Booking: booking.New(bs, cs, inlineTx{}, staticGen{}, nil, nil, nil),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(svcs, limiter, verifier, logger)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const createBody = `{
	"clientName": "Jamie Rivera",
	"clientEmail": "jamie@example.com",
	"clientPhone": "+1-555-0100",
	"eventDate": "2030-06-15",
	"eventType": "Birthday Party",
	"services": ["Magic Show"]
}`

func TestCreateBookingEndpoint(t *testing.T) {
	t.Run("201 with envelope and reference", func(t *testing.T) {
		r := newTestRouter(t, &fakeBookingStore{}, &fakeCalendarStore{}, nil, allowVerifier{})

		w := doJSON(t, r, http.MethodPost, "/bookings", createBody)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Booking)
		assert.Equal(t, "EVT-123456-XYZ", resp.Booking.Reference)
		assert.Equal(t, domain.StatusPending, resp.Booking.Status)
	})

	t.Run("400 with the validation message", func(t *testing.T) {
		r := newTestRouter(t, &fakeBookingStore{}, &fakeCalendarStore{}, nil, allowVerifier{})

		body := strings.Replace(createBody, "jamie@example.com", "not-an-email", 1)
		w := doJSON(t, r, http.MethodPost, "/bookings", body)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "client email is not a valid address")
		assert.NotContains(t, resp.Error, "service.booking")
	})

	t.Run("409 when the date is taken", func(t *testing.T) {
		cs := &fakeCalendarStore{
			hold: func(context.Context, time.Time, uuid.UUID, string) error {
				return repository.ErrDateUnavailable
			},
		}
		r := newTestRouter(t, &fakeBookingStore{}, cs, nil, allowVerifier{})

		w := doJSON(t, r, http.MethodPost, "/bookings", createBody)

		require.Equal(t, http.StatusConflict, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "date is no longer available", resp.Error)
	})

	t.Run("429 with Retry-After when rate limited", func(t *testing.T) {
		limiter := stubLimiter{res: redisrepo.RateLimitResult{
			Allowed:    false,
			RetryAfter: 30 * time.Second,
		}}
		r := newTestRouter(t, &fakeBookingStore{}, &fakeCalendarStore{}, limiter, allowVerifier{})

		w := doJSON(t, r, http.MethodPost, "/bookings", createBody)

		require.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "30", w.Header().Get("Retry-After"))
	})

	t.Run("limiter failure does not block creation", func(t *testing.T) {
		limiter := stubLimiter{err: errors.New("redis down")}
		r := newTestRouter(t, &fakeBookingStore{}, &fakeCalendarStore{}, limiter, allowVerifier{})

		w := doJSON(t, r, http.MethodPost, "/bookings", createBody)

		require.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestAdminBookingEndpoints(t *testing.T) {
	t.Run("404 body for an unknown booking", func(t *testing.T) {
		r := newTestRouter(t, &fakeBookingStore{}, &fakeCalendarStore{}, nil, allowVerifier{})

		w := doJSON(t, r, http.MethodGet, "/admin/bookings/"+uuid.NewString(), "")

		require.Equal(t, http.StatusNotFound, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "Booking not found", resp.Error)
	})

	t.Run("400 for a malformed id", func(t *testing.T) {
		r := newTestRouter(t, &fakeBookingStore{}, &fakeCalendarStore{}, nil, allowVerifier{})

		w := doJSON(t, r, http.MethodGet, "/admin/bookings/not-a-uuid", "")

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("400 for an unknown status value", func(t *testing.T) {
		bs := &fakeBookingStore{
			get: func(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
				return &domain.Booking{ID: id, Status: domain.StatusPending}, nil
			},
		}
		r := newTestRouter(t, bs, &fakeCalendarStore{}, nil, allowVerifier{})

		w := doJSON(t, r, http.MethodPut, "/admin/bookings/"+uuid.NewString(),
			`{"status": "SHIPPED"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "invalid status value", resp.Error)
	})

	t.Run("400 for an unknown payment status value", func(t *testing.T) {
		r := newTestRouter(t, &fakeBookingStore{}, &fakeCalendarStore{}, nil, allowVerifier{})

		w := doJSON(t, r, http.MethodPut, "/admin/bookings/"+uuid.NewString(),
			`{"paymentStatus": "TOTALLY_BOGUS"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "invalid payment status value", resp.Error)
	})

	t.Run("401 without a verified session", func(t *testing.T) {
		r := newTestRouter(t, &fakeBookingStore{}, &fakeCalendarStore{}, nil, denyVerifier{})

		w := doJSON(t, r, http.MethodGet, "/admin/bookings/"+uuid.NewString(), "")

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
