package httpgin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ardenlx/book-go/internal/domain"
	redisrepo "github.com/ardenlx/book-go/internal/repository/redis"
	"github.com/ardenlx/book-go/internal/service"
	"github.com/ardenlx/book-go/internal/service/booking"
	"github.com/ardenlx/book-go/internal/service/calendar"
	"github.com/ardenlx/book-go/internal/service/query"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RateLimiter gates booking creation per client identity. Satisfied by
// *redisrepo.SlidingWindowLimiter.
type RateLimiter interface {
	Allow(ctx context.Context, identity string) (redisrepo.RateLimitResult, error)
}

func NewRouter(
	svcs *service.Services,
	limiter RateLimiter,
	verifier AuthVerifier,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.POST("/bookings", handleCreateBooking(svcs, limiter))
	r.GET("/bookings/reference/:ref", handleGetBookingByReference(svcs))
	r.GET("/calendar/available", handleAvailableDates(svcs))

	// Admin API
	admin := r.Group("/admin", AdminOnly(verifier))
	{
		admin.GET("/bookings", handleListBookings(svcs))
		admin.GET("/bookings/:id", handleGetBooking(svcs))
		admin.PUT("/bookings/:id", handleUpdateBooking(svcs))
		admin.DELETE("/bookings/:id", handleDeleteBooking(svcs))

		admin.GET("/calendar/day/:date", handleGetCalendarDay(svcs))
		admin.POST("/calendar/block", handleBlockDate(svcs))
		admin.POST("/calendar/unblock", handleUnblockDate(svcs))
		admin.POST("/calendar/block-range", handleBlockRange(svcs))

		admin.GET("/dashboard", handleDashboard(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Create booking
// @Param    req body  CreateBookingRequest true "payload"
// @Success  201 {object} BookingResponse
// @Failure  400 {object} ErrorResponse "validation failed"
// @Failure  409 {object} ErrorResponse "date unavailable"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /bookings [post]
func handleCreateBooking(
	svcs *service.Services,
	limiter RateLimiter,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil {
			res, err := limiter.Allow(c.Request.Context(), "ip:"+c.ClientIP())
			if err == nil && !res.Allowed {
				retry := int64(res.RetryAfter / time.Second)
				if retry < 1 {
					retry = 1
				}
				c.Header("Retry-After", strconv.FormatInt(retry, 10))
				c.JSON(http.StatusTooManyRequests, ErrorResponse{
					Error: "too many booking attempts, slow down",
				})
				return
			}
			// limiter errors fail open: a redis hiccup must not block bookings
		}

		var req CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		b, err := svcs.Booking.Create(c.Request.Context(), req.toServiceRequest())
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, BookingResponse{Success: true, Booking: b})
	}
}

// @Summary  Get booking by reference
// @Param    ref  path  string  true  "Booking reference"
// @Success  200 {object} BookingResponse
// @Failure  404 {object} ErrorResponse
// @Router   /bookings/reference/{ref} [get]
func handleGetBookingByReference(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := svcs.Booking.GetByReference(c.Request.Context(), c.Param("ref"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, BookingResponse{Success: true, Booking: b})
	}
}

// @Summary  List bookings in a date range
// @Param    from  query  string  true  "YYYY-MM-DD"
// @Param    to    query  string  true  "YYYY-MM-DD"
// @Success  200 {object} BookingListResponse
// @Failure  400 {object} ErrorResponse
// @Router   /admin/bookings [get]
func handleListBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		from := c.Query("from")
		to := c.Query("to")
		if from == "" || to == "" {
			badRequest(c, "from and to query params are required (YYYY-MM-DD)")
			return
		}

		bookings, err := svcs.Query.ListRange(c.Request.Context(), from, to)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, BookingListResponse{Success: true, Bookings: bookings})
	}
}

// @Summary  Get booking
// @Param    id  path  string  true  "Booking ID (uuid)"
// @Success  200 {object} BookingResponse
// @Failure  404 {object} ErrorResponse
// @Router   /admin/bookings/{id} [get]
func handleGetBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		b, err := svcs.Booking.Get(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, BookingResponse{Success: true, Booking: b})
	}
}

// @Summary  Update booking status or fields
// @Param    id   path  string  true  "Booking ID (uuid)"
// @Param    req  body  UpdateBookingRequest true "payload"
// @Success  200 {object} BookingResponse
// @Failure  400 {object} ErrorResponse "invalid status / transition"
// @Failure  404 {object} ErrorResponse
// @Router   /admin/bookings/{id} [put]
func handleUpdateBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		var req UpdateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if req.Status == nil && !req.hasFieldUpdates() {
			badRequest(c, "empty update")
			return
		}

		var (
			b   *domain.Booking
			err error
		)
		if req.Status != nil {
			b, err = svcs.Booking.UpdateStatus(c.Request.Context(), id, *req.Status)
			if err != nil {
				respondErr(c, err)
				return
			}
		}
		if req.hasFieldUpdates() {
			b, err = svcs.Booking.Update(c.Request.Context(), id, req.toUpdate())
			if err != nil {
				respondErr(c, err)
				return
			}
		}

		c.JSON(http.StatusOK, BookingResponse{Success: true, Booking: b})
	}
}

// @Summary  Delete booking and release its date
// @Param    id  path  string  true  "Booking ID (uuid)"
// @Success  200 {object} SuccessResponse
// @Failure  400 {object} ErrorResponse "booking is active"
// @Failure  404 {object} ErrorResponse
// @Router   /admin/bookings/{id} [delete]
func handleDeleteBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := svcs.Booking.Delete(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, SuccessResponse{Success: true})
	}
}

// @Summary  Available dates of a month
// @Param    month  query  int  true  "1-12"
// @Param    year   query  int  true  "e.g. 2026"
// @Success  200 {object} AvailableDatesResponse
// @Failure  400 {object} ErrorResponse
// @Router   /calendar/available [get]
func handleAvailableDates(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		month, err := strconv.Atoi(c.Query("month"))
		if err != nil {
			badRequest(c, "invalid month")
			return
		}
		year, err := strconv.Atoi(c.Query("year"))
		if err != nil {
			badRequest(c, "invalid year")
			return
		}

		dates, err := svcs.Query.AvailableDates(c.Request.Context(), year, month)
		if err != nil {
			respondErr(c, err)
			return
		}

		// ETag + Cache-Control 60s
		writeJSONWithCache(
			c,
			http.StatusOK,
			AvailableDatesResponse{Success: true, Dates: dates},
			"public, max-age=60",
			true,
		)
	}
}

// @Summary  Get a calendar day
// @Param    date  path  string  true  "YYYY-MM-DD"
// @Success  200 {object} domain.CalendarDay
// @Failure  404 {object} ErrorResponse
// @Router   /admin/calendar/day/{date} [get]
func handleGetCalendarDay(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, err := svcs.Calendar.GetDay(c.Request.Context(), c.Param("date"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, day)
	}
}

// @Summary  Block a date
// @Param    req body  BlockDateRequest true "payload"
// @Success  200 {object} SuccessResponse
// @Failure  409 {object} ErrorResponse "date held by a booking"
// @Router   /admin/calendar/block [post]
func handleBlockDate(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BlockDateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Calendar.Block(c.Request.Context(), req.Date, req.Reason); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, SuccessResponse{Success: true})
	}
}

// @Summary  Unblock a date
// @Param    req body  UnblockDateRequest true "payload"
// @Success  200 {object} SuccessResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "date held by a booking"
// @Router   /admin/calendar/unblock [post]
func handleUnblockDate(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UnblockDateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Calendar.Unblock(c.Request.Context(), req.Date); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, SuccessResponse{Success: true})
	}
}

// @Summary  Block a date range
// @Param    req body  BlockRangeRequest true "payload"
// @Success  200 {object} SuccessResponse
// @Failure  409 {object} ErrorResponse "range contains a booked date"
// @Router   /admin/calendar/block-range [post]
func handleBlockRange(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BlockRangeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		err := svcs.Calendar.BlockRange(
			c.Request.Context(),
			req.StartDate,
			req.EndDate,
			req.Reason,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, SuccessResponse{Success: true})
	}
}

// @Summary  Dashboard aggregates
// @Success  200 {object} DashboardResponse
// @Router   /admin/dashboard [get]
func handleDashboard(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := svcs.Query.DashboardStats(c.Request.Context())
		writeJSONWithCache(
			c,
			http.StatusOK,
			DashboardResponse{Success: true, Stats: stats},
			"private, max-age=30",
			true,
		)
	}
}

// --- Helpers ---

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// booking service
	case errors.Is(err, booking.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
	case errors.Is(err, booking.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
	case errors.Is(err, booking.ErrInvalidPayment):
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
	case errors.Is(err, booking.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
	case errors.Is(err, booking.ErrActiveBooking):
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
	case errors.Is(err, booking.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Success: false, Error: "Booking not found"})
	case errors.Is(err, booking.ErrDateConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Success: false, Error: err.Error()})
	// calendar service
	case errors.Is(err, calendar.ErrInvalidDate),
		errors.Is(err, calendar.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
	case errors.Is(err, calendar.ErrDateNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Success: false, Error: "Date not found"})
	case errors.Is(err, calendar.ErrDateHasBooking):
		c.JSON(http.StatusConflict, ErrorResponse{Success: false, Error: err.Error()})
	// query service
	case errors.Is(err, query.ErrInvalidMonth),
		errors.Is(err, query.ErrInvalidYear),
		errors.Is(err, query.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Error:   "internal server error",
		})
	}
}
