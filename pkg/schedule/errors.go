package schedule

import "errors"

var (
	ErrInvalidParameters = errors.New("schedule: invalid parameters")

	ErrDoubleBooking    = errors.New("schedule: teacher double booked")
	ErrOutsideWindow    = errors.New("schedule: lesson outside the daily windows")
	ErrLunchOverlap     = errors.New("schedule: lesson overlaps the lunch break")
	ErrCapacityExceeded = errors.New("schedule: teacher capacity exceeded")
	ErrContinuity       = errors.New("schedule: same teacher and student on consecutive days")
	ErrUnknownRecord    = errors.New("schedule: lesson references an unknown record")
)
