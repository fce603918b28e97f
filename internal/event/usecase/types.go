package usecase

// extractedEvent is the structure the LLM is instructed to return.
type extractedEvent struct {
	EventType     string  `json:"event_type"`
	Title         string  `json:"title"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Person        string  `json:"person"`
	DurationHours float64 `json:"duration_hours"`
}
