package event

import (
	"context"

	"calendar-assistant/internal/model"
)

// UseCase defines the business logic interface for the event domain.
type UseCase interface {
	// Schedule extracts a calendar event from free-form text and creates it
	// in Google Calendar.
	Schedule(ctx context.Context, sc model.Scope, input ScheduleInput) (ScheduleOutput, error)

	// Agenda returns the remaining events of the current day.
	Agenda(ctx context.Context, sc model.Scope) (AgendaOutput, error)
}
