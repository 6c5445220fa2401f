package util

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date representation used at every API boundary.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date, with RFC3339 as a fallback
// for clients that send full timestamps. Returns (t, true) if any worked.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Midnight(t), true
	}
	return time.Time{}, false
}

// Midnight truncates a timestamp to its UTC calendar date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDateRange resolves a predefined range name into (start, end) dates
// relative to now. Supported names: last_7_days, last_30_days, last_90_days,
// last_year, year_to_date, all_time. A custom "YYYY-MM-DD:YYYY-MM-DD" range
// is also accepted. all_time (or empty) returns nil bounds, meaning no
// filtering. Unrecognized input defaults to the last 30 days.
func ParseDateRange(name string, now time.Time) (start, end *time.Time) {
	back := func(days int) (*time.Time, *time.Time) {
		e := Midnight(now)
		s := e.AddDate(0, 0, -days)
		return &s, &e
	}

	switch name {
	case "", "all_time":
		return nil, nil
	case "last_7_days":
		return back(7)
	case "last_30_days":
		return back(30)
	case "last_90_days":
		return back(90)
	case "last_year":
		return back(365)
	case "year_to_date":
		e := Midnight(now)
		s := time.Date(e.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return &s, &e
	}

	if from, to, ok := strings.Cut(name, ":"); ok {
		s, okS := ParseDate(from)
		e, okE := ParseDate(to)
		if okS && okE {
			return &s, &e
		}
	}

	return back(30)
}
