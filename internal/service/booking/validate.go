package booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/ardenlx/book-go/internal/domain"
)

const (
	maxNameLen    = 120
	maxPhoneLen   = 30
	maxVenueLen   = 200
	maxRequestLen = 2000
)

// CreateRequest is the validated-input shape for booking creation. Any
// status field present in the raw payload is stripped before this point:
// initial status is always PENDING.
type CreateRequest struct {
	ClientName  string
	ClientEmail string
	ClientPhone string

	EventDate       string
	StartTime       *string
	EndTime         *string
	EventType       string
	Services        []string
	VenueName       *string
	VenueAddress    *string
	GuestCount      *int
	SpecialRequests *string

	TotalCents   *int64
	DepositCents *int64
}

// validate normalizes the request into a booking skeleton or returns a
// single aggregated validation error. Pure function of (req, now); nothing
// is persisted on failure.
func validate(req CreateRequest, now time.Time) (*domain.Booking, error) {
	var violations []string

	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		violations = append(violations, "client name is required")
	} else if len(name) > maxNameLen {
		violations = append(violations, fmt.Sprintf("client name exceeds %d characters", maxNameLen))
	}

	email := strings.TrimSpace(req.ClientEmail)
	if email == "" {
		violations = append(violations, "client email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		violations = append(violations, "client email is not a valid address")
	}

	phone := strings.TrimSpace(req.ClientPhone)
	if phone == "" {
		violations = append(violations, "client phone is required")
	} else if len(phone) > maxPhoneLen {
		violations = append(violations, fmt.Sprintf("client phone exceeds %d characters", maxPhoneLen))
	}

	var eventDate time.Time
	if req.EventDate == "" {
		violations = append(violations, "event date is required")
	} else {
		d, err := time.Parse(domain.DateFormat, req.EventDate)
		if err != nil {
			violations = append(violations, "event date must be formatted as YYYY-MM-DD")
		} else if dayBefore(d, now) {
			violations = append(violations, "event date must be in the future")
		} else {
			eventDate = d
		}
	}

	eventType := strings.TrimSpace(req.EventType)
	if eventType == "" {
		violations = append(violations, "event type is required")
	}

	services := make([]string, 0, len(req.Services))
	for _, s := range req.Services {
		if t := strings.TrimSpace(s); t != "" {
			services = append(services, t)
		}
	}
	if len(services) == 0 {
		violations = append(violations, "at least one service is required")
	}

	if req.GuestCount != nil && *req.GuestCount <= 0 {
		violations = append(violations, "guest count must be a positive integer")
	}

	if req.TotalCents != nil && *req.TotalCents <= 0 {
		violations = append(violations, "total amount must be positive")
	}

	if req.DepositCents != nil && *req.DepositCents <= 0 {
		violations = append(violations, "deposit amount must be positive")
	}

	if req.VenueName != nil && len(*req.VenueName) > maxVenueLen {
		violations = append(violations, fmt.Sprintf("venue name exceeds %d characters", maxVenueLen))
	}

	if req.VenueAddress != nil && len(*req.VenueAddress) > maxVenueLen {
		violations = append(violations, fmt.Sprintf("venue address exceeds %d characters", maxVenueLen))
	}

	if req.SpecialRequests != nil && len(*req.SpecialRequests) > maxRequestLen {
		violations = append(violations, fmt.Sprintf("special requests exceed %d characters", maxRequestLen))
	}

	if len(violations) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(violations, "; "))
	}

	return &domain.Booking{
		ClientName:      name,
		ClientEmail:     email,
		ClientPhone:     phone,
		EventDate:       eventDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		EventType:       eventType,
		Services:        services,
		VenueName:       req.VenueName,
		VenueAddress:    req.VenueAddress,
		GuestCount:      req.GuestCount,
		SpecialRequests: req.SpecialRequests,
		TotalCents:      req.TotalCents,
		DepositCents:    req.DepositCents,
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentUnpaid,
	}, nil
}

// dayBefore reports whether d falls on a calendar day strictly before now's.
func dayBefore(d, now time.Time) bool {
	dOnly := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dOnly.Before(nowOnly)
}
