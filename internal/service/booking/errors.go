package booking

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidStatus     = errors.New("invalid status value")
	ErrInvalidPayment    = errors.New("invalid payment status value")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrDateConflict      = errors.New("date is no longer available")
	ErrActiveBooking     = errors.New("cannot delete an active booking: cancel it first")
)
