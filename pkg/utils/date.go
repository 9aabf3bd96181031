package utils

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// LoadLocation resolves an IANA zone name, falling back to UTC for "".
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load location %q: %w", name, err)
	}
	return loc, nil
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the last nanosecond of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// IsSameDay reports whether t falls within [startOfDay(now), endOfDay(now)] in loc.
func IsSameDay(t, now time.Time, loc *time.Location) bool {
	if t.IsZero() {
		return false
	}
	start := StartOfDay(now, loc)
	end := EndOfDay(now, loc)
	return !t.Before(start) && !t.After(end)
}
