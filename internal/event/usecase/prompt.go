package usecase

import (
	"fmt"
	"time"
)

// extractionSystemPrompt is the system instruction sent to the LLM for event extraction.
const extractionSystemPrompt = `You are a calendar event extraction assistant. Extract event information from the user's message.

RULES:
1. Return ONLY a single valid JSON object. No markdown, no code blocks, no explanation text.
2. The object has exactly these fields:
   - event_type: type of event ("meeting", "task", "reminder", ...), or "" if unclear
   - title: short title of the event, or "" if none can be derived
   - date: the event date as written by the user ("today", "tomorrow", "2026-09-01", "01.09.2026", ...), or "" if missing
   - time: the event time in 24-hour HH:MM format, or "" if missing
   - person: the name or email of the other participant, or "" if none
   - duration_hours: event duration in hours as a number; 0 if not mentioned
3. Keep relative dates relative: if the user says "tomorrow", return "tomorrow", do not resolve it yourself.
4. If the message does not describe a calendar event at all, return all string fields empty.

EXAMPLE INPUT:
"Set a meeting with Mikhail today at 17:00"

EXAMPLE OUTPUT:
{"event_type":"meeting","title":"Meeting with Mikhail","date":"today","time":"17:00","person":"Mikhail","duration_hours":0}`

// buildExtractionPrompt builds the user message with current-time context so
// the model knows what day "today" is.
func buildExtractionPrompt(text string, now time.Time, timezone string) string {
	return fmt.Sprintf(
		"CURRENT CONTEXT:\ndate: %s\nweekday: %s\ntimezone: %s\n\nExtract the event from the following message and return ONLY the JSON object:\n%s",
		now.Format("2006-01-02"),
		now.Weekday().String(),
		timezone,
		text,
	)
}
