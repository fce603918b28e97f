package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"calendar-assistant/internal/event"
)

// parseExtraction decodes the LLM completion into an extractedEvent.
// Models frequently wrap JSON in markdown fences or prose despite
// instructions, so everything outside the outermost braces is discarded.
func parseExtraction(completion string) (extractedEvent, error) {
	var ev extractedEvent

	raw := strings.TrimSpace(completion)
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ev, fmt.Errorf("%w: no JSON object in completion", event.ErrNotUnderstood)
	}

	if err := json.Unmarshal([]byte(raw[start:end+1]), &ev); err != nil {
		return ev, fmt.Errorf("%w: %v", event.ErrNotUnderstood, err)
	}

	ev.Title = strings.TrimSpace(ev.Title)
	ev.Date = strings.TrimSpace(ev.Date)
	ev.Time = strings.TrimSpace(ev.Time)
	ev.Person = strings.TrimSpace(ev.Person)

	if ev.Title == "" && ev.Time == "" {
		return ev, event.ErrNotUnderstood
	}
	if ev.Time == "" {
		return ev, event.ErrMissingStart
	}
	if ev.Title == "" {
		ev.Title = "New event"
	}

	return ev, nil
}
