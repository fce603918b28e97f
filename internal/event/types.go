package event

import "time"

// ScheduleInput is the input for scheduling a single event from raw text.
type ScheduleInput struct {
	RawText        string // Natural language instruction from the user
	TelegramChatID int64  // Used to send the reply back to the user
}

// ScheduleOutput is the result of a successful scheduling operation.
type ScheduleOutput struct {
	Title     string
	StartTime time.Time
	EndTime   time.Time
	Attendee  string // As extracted, may be empty
	HTMLLink  string // Provider link included verbatim in the reply
}

// AgendaItem is a single event in the day's agenda.
type AgendaItem struct {
	Title     string
	StartTime time.Time
	HTMLLink  string
}

// AgendaOutput is the result of the agenda operation.
type AgendaOutput struct {
	Items []AgendaItem
	Count int
}
