package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateFormat is the wire format for day-granularity event dates.
const DateFormat = "2006-01-02"

type PaymentStatus string

const (
	PaymentUnpaid      PaymentStatus = "UNPAID"
	PaymentDepositPaid PaymentStatus = "DEPOSIT_PAID"
	PaymentPaid        PaymentStatus = "PAID"
	PaymentRefunded    PaymentStatus = "REFUNDED"
)

// ParsePaymentStatus maps untrusted input onto the closed payment enum.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentUnpaid, PaymentDepositPaid, PaymentPaid, PaymentRefunded:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("invalid payment status value: %q", s)
}

type Booking struct {
	ID        uuid.UUID `json:"id"`
	Reference string    `json:"bookingReference"`

	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
	ClientPhone string `json:"clientPhone"`

	EventDate       time.Time `json:"eventDate"`
	StartTime       *string   `json:"startTime,omitempty"`
	EndTime         *string   `json:"endTime,omitempty"`
	EventType       string    `json:"eventType"`
	Services        []string  `json:"services"`
	VenueName       *string   `json:"venueName,omitempty"`
	VenueAddress    *string   `json:"venueAddress,omitempty"`
	GuestCount      *int      `json:"guestCount,omitempty"`
	SpecialRequests *string   `json:"specialRequests,omitempty"`

	TotalCents   *int64 `json:"totalCents,omitempty"`
	DepositCents *int64 `json:"depositCents,omitempty"`

	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingUpdate carries a partial field update for a booking. Nil fields are
// left untouched. Status is deliberately absent: status changes go through
// the lifecycle state machine, not through field updates.
type BookingUpdate struct {
	ClientName      *string
	ClientEmail     *string
	ClientPhone     *string
	StartTime       *string
	EndTime         *string
	EventType       *string
	Services        []string
	VenueName       *string
	VenueAddress    *string
	GuestCount      *int
	SpecialRequests *string
	TotalCents      *int64
	DepositCents    *int64
	PaymentStatus   *PaymentStatus
}

// CalendarDay is the per-date availability record. A day is either open,
// held by a booking (BookingID set), or blocked by an administrator
// (BookingID nil, BlockedReason set).
type CalendarDay struct {
	Date          time.Time  `json:"date"`
	Available     bool       `json:"isAvailable"`
	BlockedReason *string    `json:"blockedReason,omitempty"`
	BookingID     *uuid.UUID `json:"bookingId,omitempty"`
}

// HeldByBooking reports whether the day is held by a booking rather than
// open or admin-blocked.
func (d CalendarDay) HeldByBooking() bool {
	return !d.Available && d.BookingID != nil
}

type StatusCounts struct {
	Pending    int64 `json:"pending"`
	Confirmed  int64 `json:"confirmed"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
	Total      int64 `json:"total"`
}

type DashboardStats struct {
	Counts            StatusCounts `json:"counts"`
	RevenueCents      int64        `json:"revenueCents"`
	AvgBookingCents   int64        `json:"avgBookingCents"`
	MonthGrowthPct    float64      `json:"monthGrowthPct"`
	BookingsThisMonth int64        `json:"bookingsThisMonth"`
	BookingsLastMonth int64        `json:"bookingsLastMonth"`
}
