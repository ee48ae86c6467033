package domain

import "fmt"

type BookingStatus string

const (
	StatusPending    BookingStatus = "PENDING"
	StatusConfirmed  BookingStatus = "CONFIRMED"
	StatusInProgress BookingStatus = "IN_PROGRESS"
	StatusCompleted  BookingStatus = "COMPLETED"
	StatusCancelled  BookingStatus = "CANCELLED"
)

// transitions is the closed set of permitted status changes. Self-transitions
// are handled separately as no-ops and are not listed here.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// ParseBookingStatus maps untrusted input onto the closed status enum.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return BookingStatus(s), nil
	}
	return "", fmt.Errorf("invalid status value: %q", s)
}

// CanTransitionTo reports whether the state machine permits moving from s to
// target. A self-transition is always permitted (callers treat it as a no-op).
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	if s == target {
		return true
	}
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Terminal reports whether the status has no outgoing transitions.
func (s BookingStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// Deletable reports whether a booking in this status may be hard-deleted.
// Active bookings must be cancelled first.
func (s BookingStatus) Deletable() bool {
	return s != StatusConfirmed && s != StatusInProgress
}
