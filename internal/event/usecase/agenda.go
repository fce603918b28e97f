package usecase

import (
	"context"
	"fmt"

	"calendar-assistant/internal/event"
	"calendar-assistant/internal/model"
	"calendar-assistant/pkg/gcalendar"
)

// Agenda lists the remaining events of the current day.
func (uc *implUseCase) Agenda(ctx context.Context, sc model.Scope) (event.AgendaOutput, error) {
	if uc.calendar == nil {
		return event.AgendaOutput{}, event.ErrCalendarUnavailable
	}

	now := uc.now().In(uc.dateMath.Location())

	events, err := uc.calendar.ListEvents(ctx, gcalendar.ListEventsRequest{
		CalendarID: uc.calendarID,
		TimeMin:    now,
		TimeMax:    uc.dateMath.EndOfDay(now),
	})
	if err != nil {
		return event.AgendaOutput{}, fmt.Errorf("failed to load agenda: %w", err)
	}

	uc.l.Infof(ctx, "Agenda: user=%s events=%d", sc.UserID, len(events))

	items := make([]event.AgendaItem, 0, len(events))
	for _, ev := range events {
		items = append(items, event.AgendaItem{
			Title:     ev.Summary,
			StartTime: ev.StartTime,
			HTMLLink:  ev.HtmlLink,
		})
	}

	return event.AgendaOutput{Items: items, Count: len(items)}, nil
}
