package httpgin

import (
	"github.com/ardenlx/book-go/internal/domain"
	"github.com/ardenlx/book-go/internal/service/booking"
)

// CreateBookingRequest is the booking-form payload. A status field in the
// raw JSON is simply not bound: initial status is always PENDING regardless
// of input.
type CreateBookingRequest struct {
	ClientName  string `json:"clientName" binding:"required"`
	ClientEmail string `json:"clientEmail" binding:"required"`
	ClientPhone string `json:"clientPhone" binding:"required"`

	EventDate       string   `json:"eventDate" binding:"required"`
	StartTime       *string  `json:"startTime"`
	EndTime         *string  `json:"endTime"`
	EventType       string   `json:"eventType" binding:"required"`
	Services        []string `json:"services" binding:"required"`
	VenueName       *string  `json:"venueName"`
	VenueAddress    *string  `json:"venueAddress"`
	GuestCount      *int     `json:"guestCount"`
	SpecialRequests *string  `json:"specialRequests"`

	TotalCents   *int64 `json:"totalCents"`
	DepositCents *int64 `json:"depositCents"`
}

func (r CreateBookingRequest) toServiceRequest() booking.CreateRequest {
	return booking.CreateRequest{
		ClientName:      r.ClientName,
		ClientEmail:     r.ClientEmail,
		ClientPhone:     r.ClientPhone,
		EventDate:       r.EventDate,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		EventType:       r.EventType,
		Services:        r.Services,
		VenueName:       r.VenueName,
		VenueAddress:    r.VenueAddress,
		GuestCount:      r.GuestCount,
		SpecialRequests: r.SpecialRequests,
		TotalCents:      r.TotalCents,
		DepositCents:    r.DepositCents,
	}
}

// UpdateBookingRequest covers both PUT shapes: a status-only body routes
// through the lifecycle state machine, a multi-field body applies a direct
// field update.
type UpdateBookingRequest struct {
	Status *string `json:"status"`

	ClientName      *string  `json:"clientName"`
	ClientEmail     *string  `json:"clientEmail"`
	ClientPhone     *string  `json:"clientPhone"`
	StartTime       *string  `json:"startTime"`
	EndTime         *string  `json:"endTime"`
	EventType       *string  `json:"eventType"`
	Services        []string `json:"services"`
	VenueName       *string  `json:"venueName"`
	VenueAddress    *string  `json:"venueAddress"`
	GuestCount      *int     `json:"guestCount"`
	SpecialRequests *string  `json:"specialRequests"`
	TotalCents      *int64   `json:"totalCents"`
	DepositCents    *int64   `json:"depositCents"`
	PaymentStatus   *string  `json:"paymentStatus"`
}

// hasFieldUpdates reports whether anything besides status is present.
func (r UpdateBookingRequest) hasFieldUpdates() bool {
	return r.ClientName != nil || r.ClientEmail != nil || r.ClientPhone != nil ||
		r.StartTime != nil || r.EndTime != nil || r.EventType != nil ||
		r.Services != nil || r.VenueName != nil || r.VenueAddress != nil ||
		r.GuestCount != nil || r.SpecialRequests != nil ||
		r.TotalCents != nil || r.DepositCents != nil || r.PaymentStatus != nil
}

func (r UpdateBookingRequest) toUpdate() domain.BookingUpdate {
	upd := domain.BookingUpdate{
		ClientName:      r.ClientName,
		ClientEmail:     r.ClientEmail,
		ClientPhone:     r.ClientPhone,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		EventType:       r.EventType,
		Services:        r.Services,
		VenueName:       r.VenueName,
		VenueAddress:    r.VenueAddress,
		GuestCount:      r.GuestCount,
		SpecialRequests: r.SpecialRequests,
		TotalCents:      r.TotalCents,
		DepositCents:    r.DepositCents,
	}
	if r.PaymentStatus != nil {
		ps := domain.PaymentStatus(*r.PaymentStatus)
		upd.PaymentStatus = &ps
	}
	return upd
}

type BlockDateRequest struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason"`
}

type UnblockDateRequest struct {
	Date string `json:"date" binding:"required"`
}

type BlockRangeRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Reason    string `json:"reason"`
}

type BookingResponse struct {
	Success bool            `json:"success"`
	Booking *domain.Booking `json:"booking"`
}

type BookingListResponse struct {
	Success  bool             `json:"success"`
	Bookings []domain.Booking `json:"bookings"`
}

type AvailableDatesResponse struct {
	Success bool     `json:"success"`
	Dates   []string `json:"dates"`
}

type DashboardResponse struct {
	Success bool                   `json:"success"`
	Stats   *domain.DashboardStats `json:"stats"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
