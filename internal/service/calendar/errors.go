package calendar

import "errors"

var (
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidRange   = errors.New("invalid date range")
	ErrDateNotFound   = errors.New("date not found")
	ErrDateHasBooking = errors.New("date is held by a booking: delete the booking to release it")
)
