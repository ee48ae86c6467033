package query

import "errors"

var (
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	ErrInvalidYear  = errors.New("year is outside the supported range")
	ErrInvalidRange = errors.New("invalid date range")
)
