package schedule

import "errors"

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrSpaceConflict    = errors.New("space already reserved for that time")
	ErrInvalidTimeRange = errors.New("invalid reservation time range")
	ErrInvalidWindow    = errors.New("invalid date window")
)
