package event

import "errors"

// Domain-specific errors for the event package.
var (
	ErrEmptyInput          = errors.New("input text is empty")
	ErrNotUnderstood       = errors.New("could not understand the event description")
	ErrMissingStart        = errors.New("event has no resolvable start time")
	ErrCalendarUnavailable = errors.New("calendar is not configured")
)
