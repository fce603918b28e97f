package usecase

import (
	"context"
	"time"

	"calendar-assistant/pkg/datemath"
	"calendar-assistant/pkg/gcalendar"
	"calendar-assistant/pkg/llmprovider"
	pkgLog "calendar-assistant/pkg/log"
)

// LLM is the generation surface of the provider manager.
type LLM interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

// Calendar is the slice of the Google Calendar client the usecase needs.
type Calendar interface {
	CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error)
	ListEvents(ctx context.Context, req gcalendar.ListEventsRequest) ([]gcalendar.Event, error)
}

type implUseCase struct {
	l          pkgLog.Logger
	llm        LLM
	calendar   Calendar
	dateMath   *datemath.Normalizer
	timezone   string
	calendarID string
	now        func() time.Time // swappable in tests
}

// New creates a new event UseCase instance.
func New(
	l pkgLog.Logger,
	llm LLM,
	calendar Calendar,
	dateMath *datemath.Normalizer,
	timezone string,
	calendarID string,
) *implUseCase {
	return &implUseCase{
		l:          l,
		llm:        llm,
		calendar:   calendar,
		dateMath:   dateMath,
		timezone:   timezone,
		calendarID: calendarID,
		now:        time.Now,
	}
}
