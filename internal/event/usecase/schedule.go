package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"calendar-assistant/internal/event"
	"calendar-assistant/internal/model"
	"calendar-assistant/pkg/gcalendar"
	"calendar-assistant/pkg/llmprovider"
)

const (
	defaultDuration = time.Hour
	minDuration     = 15 * time.Minute
	maxDuration     = 8 * time.Hour
)

// Schedule extracts a calendar event from raw text and creates it in Google Calendar.
func (uc *implUseCase) Schedule(ctx context.Context, sc model.Scope, input event.ScheduleInput) (event.ScheduleOutput, error) {
	if strings.TrimSpace(input.RawText) == "" {
		return event.ScheduleOutput{}, event.ErrEmptyInput
	}
	if uc.calendar == nil {
		return event.ScheduleOutput{}, event.ErrCalendarUnavailable
	}

	uc.l.Infof(ctx, "Schedule: user=%s input_length=%d", sc.UserID, len(input.RawText))

	now := uc.now().In(uc.dateMath.Location())

	// Step 1: extract event fields via LLM
	resp, err := uc.llm.GenerateContent(ctx, &llmprovider.Request{
		SystemInstruction: extractionSystemPrompt,
		Messages: []llmprovider.Message{
			{Role: "user", Text: buildExtractionPrompt(input.RawText, now, uc.timezone)},
		},
		Temperature: 0.1,
		MaxTokens:   512,
	})
	if err != nil {
		return event.ScheduleOutput{}, fmt.Errorf("llm extraction failed: %w", err)
	}

	uc.l.Debugf(ctx, "Schedule: completion provider=%s model=%s", resp.ProviderName, resp.ModelName)

	extracted, err := parseExtraction(resp.Text)
	if err != nil {
		return event.ScheduleOutput{}, err
	}

	// Step 2: resolve start time. The calendar is never called without one.
	startTime, err := uc.dateMath.Resolve(extracted.Date, extracted.Time, now)
	if err != nil {
		return event.ScheduleOutput{}, fmt.Errorf("%w: %w", event.ErrMissingStart, err)
	}

	endTime := startTime.Add(clampDuration(extracted.DurationHours))

	// Step 3: one calendar insert, no retry
	req := gcalendar.CreateEventRequest{
		CalendarID: uc.calendarID,
		Summary:    extracted.Title,
		StartTime:  startTime,
		EndTime:    endTime,
		Timezone:   uc.timezone,
	}
	if extracted.Person != "" {
		if strings.Contains(extracted.Person, "@") {
			req.AttendeeMails = []string{extracted.Person}
		} else {
			req.Description = fmt.Sprintf("Meeting with %s", extracted.Person)
		}
	}

	created, err := uc.calendar.CreateEvent(ctx, req)
	if err != nil {
		return event.ScheduleOutput{}, fmt.Errorf("calendar rejected the event: %w", err)
	}

	uc.l.Infof(ctx, "Schedule: created event %q id=%s start=%s", extracted.Title, created.ID, startTime.Format(time.RFC3339))

	return event.ScheduleOutput{
		Title:     extracted.Title,
		StartTime: startTime,
		EndTime:   endTime,
		Attendee:  extracted.Person,
		HTMLLink:  created.HtmlLink,
	}, nil
}

// clampDuration converts the extracted duration in hours to a bounded time.Duration.
func clampDuration(hours float64) time.Duration {
	if hours <= 0 {
		return defaultDuration
	}
	d := time.Duration(hours * float64(time.Hour))
	if d < minDuration {
		return minDuration
	}
	if d > maxDuration {
		return maxDuration
	}
	return d
}
