package datemath

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the accepted absolute date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02.01.2006",
	"02/01/2006",
}

const timeLayout = "15:04"

// Normalizer converts date and time strings into absolute time.Time values
// in a fixed IANA timezone.
type Normalizer struct {
	location *time.Location
}

// NewNormalizer creates a new date normalizer for the given IANA timezone
// string, e.g. "Asia/Yekaterinburg".
func NewNormalizer(timezone string) (*Normalizer, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Normalizer{location: loc}, nil
}

// Location returns the normalizer's timezone.
func (n *Normalizer) Location() *time.Location {
	return n.location
}

// Resolve combines a date string and a 24-hour HH:MM time string into an
// absolute time in the normalizer's timezone. The baseTime is the reference
// for relative keywords (usually time.Now()).
//
// Accepted dates: "today"/"tomorrow" (also Russian "сегодня"/"завтра"), an
// empty string (treated as today), and the absolute layouts YYYY-MM-DD,
// DD-MM-YYYY, DD.MM.YYYY, DD/MM/YYYY.
//
// A "today" event earlier than baseTime is rejected with ErrPastEvent.
func (n *Normalizer) Resolve(dateStr, timeStr string, baseTime time.Time) (time.Time, error) {
	base := baseTime.In(n.location)

	day, isToday, err := n.resolveDate(dateStr, base)
	if err != nil {
		return time.Time{}, err
	}

	clock, err := time.Parse(timeLayout, strings.TrimSpace(timeStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedTime, timeStr)
	}

	resolved := time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, n.location)

	if isToday && resolved.Before(base) {
		return time.Time{}, ErrPastEvent
	}

	return resolved, nil
}

// resolveDate returns the target calendar day and whether it is "today".
func (n *Normalizer) resolveDate(dateStr string, base time.Time) (time.Time, bool, error) {
	switch strings.ToLower(strings.TrimSpace(dateStr)) {
	case "", "today", "сегодня":
		return base, true, nil
	case "tomorrow", "завтра":
		return base.AddDate(0, 0, 1), false, nil
	}

	for _, layout := range dateLayouts {
		if day, err := time.ParseInLocation(layout, strings.TrimSpace(dateStr), n.location); err == nil {
			return day, sameDay(day, base), nil
		}
	}

	return time.Time{}, false, fmt.Errorf("%w: %q", ErrUnsupportedDate, dateStr)
}

// StartOfDay returns midnight of the given instant in the normalizer's timezone.
func (n *Normalizer) StartOfDay(t time.Time) time.Time {
	t = t.In(n.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, n.location)
}

// EndOfDay returns 23:59:59 of the given instant in the normalizer's timezone.
func (n *Normalizer) EndOfDay(t time.Time) time.Time {
	return n.StartOfDay(t).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
