package models

import (
	"fmt"
	"time"
)

// DayLayout is the calendar-day encoding used throughout: local date,
// time of day irrelevant to identity.
const DayLayout = "2006-01-02"

// ClockLayout is the scheduled-time encoding (24h local).
const ClockLayout = "15:04"

// DayOf returns the calendar day of t in t's location.
func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a YYYY-MM-DD day in the local location.
func ParseDay(day string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, day, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing day %q: %w", day, err)
	}
	return t, nil
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DueInstant combines a calendar day and an HH:MM clock time into the
// local instant a scheduled workout becomes due.
func DueInstant(day, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout+" "+ClockLayout, day+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing due time %q %q: %w", day, clock, err)
	}
	return t, nil
}
