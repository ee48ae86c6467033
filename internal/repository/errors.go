package repository

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrDateUnavailable   = errors.New("date is not available")
	ErrDateHeldByBooking = errors.New("date is held by a booking")
)
