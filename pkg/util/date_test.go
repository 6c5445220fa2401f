package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseDateRFC3339(t *testing.T) {
	got, ok := ParseDate("2024-10-10T15:04:05Z")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Hour() != 0 || got.Day() != 10 {
		t.Fatalf("expected midnight truncation, got %v", got)
	}
}

func TestParseDateInvalid(t *testing.T) {
	if _, ok := ParseDate("not-a-date"); ok {
		t.Fatalf("expected not ok")
	}
	if _, ok := ParseDate(""); ok {
		t.Fatalf("expected not ok for empty input")
	}
}

func TestParseDateRangePresets(t *testing.T) {
	now := time.Date(2024, 6, 15, 13, 30, 0, 0, time.UTC)

	start, end := ParseDateRange("last_7_days", now)
	if start == nil || end == nil {
		t.Fatalf("expected bounds")
	}
	if end.Sub(*start) != 7*24*time.Hour {
		t.Fatalf("unexpected span %v", end.Sub(*start))
	}

	start, end = ParseDateRange("year_to_date", now)
	if start.Month() != time.January || start.Day() != 1 || start.Year() != 2024 {
		t.Fatalf("unexpected start %v", start)
	}
	if !end.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %v", end)
	}
}

func TestParseDateRangeAllTime(t *testing.T) {
	start, end := ParseDateRange("all_time", time.Now())
	if start != nil || end != nil {
		t.Fatalf("expected nil bounds")
	}
}

func TestParseDateRangeCustom(t *testing.T) {
	start, end := ParseDateRange("2024-01-01:2024-03-31", time.Now())
	if start == nil || end == nil {
		t.Fatalf("expected bounds")
	}
	if start.Format(DateLayout) != "2024-01-01" || end.Format(DateLayout) != "2024-03-31" {
		t.Fatalf("unexpected range %v - %v", start, end)
	}
}

func TestParseDateRangeFallback(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	start, end := ParseDateRange("bogus", now)
	if start == nil || end == nil {
		t.Fatalf("expected bounds")
	}
	if end.Sub(*start) != 30*24*time.Hour {
		t.Fatalf("expected 30 day default, got %v", end.Sub(*start))
	}
}
