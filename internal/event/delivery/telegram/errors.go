package telegram

import (
	"errors"
	"strings"

	"calendar-assistant/internal/event"
	"calendar-assistant/pkg/datemath"
	"calendar-assistant/pkg/llmprovider"
)

const calendarRejectPrefix = "calendar rejected the event: "

// userMessage maps pipeline errors to the single reply the user receives.
func userMessage(err error) string {
	switch {
	case errors.Is(err, event.ErrEmptyInput), errors.Is(err, event.ErrNotUnderstood):
		return "Sorry, I couldn't understand that. Try something like:\n\"Set a meeting with Mikhail today at 17:00\""

	case errors.Is(err, datemath.ErrPastEvent):
		return "That time has already passed today. Please pick a future time."

	case errors.Is(err, event.ErrMissingStart),
		errors.Is(err, datemath.ErrUnsupportedDate),
		errors.Is(err, datemath.ErrUnsupportedTime):
		return "I couldn't work out when the event starts. Use a date like \"today\", \"tomorrow\" or 2026-09-15, and a 24-hour time like 17:00."

	case errors.Is(err, event.ErrCalendarUnavailable):
		return "Google Calendar is not connected yet. Ask the bot operator to finish the calendar setup."

	case errors.Is(err, llmprovider.ErrAllProvidersFailed):
		return "Sorry, I couldn't process that request right now. Please try again in a moment."
	}

	// Provider-side rejection: surface the provider message so the user can
	// fix credentials, quota, or the event itself.
	if msg := err.Error(); strings.Contains(msg, calendarRejectPrefix) {
		detail := msg[strings.Index(msg, calendarRejectPrefix)+len(calendarRejectPrefix):]
		return "Google Calendar rejected the event: " + detail
	}

	return "Sorry, something went wrong while processing your request. Please try again."
}
