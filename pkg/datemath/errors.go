package datemath

import "errors"

var (
	// ErrUnsupportedDate indicates the date string matched no known format.
	ErrUnsupportedDate = errors.New("unsupported date format, use YYYY-MM-DD or 'today'/'tomorrow'")

	// ErrUnsupportedTime indicates the time string is not 24-hour HH:MM.
	ErrUnsupportedTime = errors.New("unsupported time format, use HH:MM (24-hour)")

	// ErrPastEvent indicates the resolved start time is already in the past.
	ErrPastEvent = errors.New("cannot schedule events in the past")
)
