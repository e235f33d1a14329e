package domain

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC)

func TestResolvePeriodDefaults(t *testing.T) {
	start, end, period, err := ResolvePeriod("", "", testNow)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !end.Equal(testNow) {
		t.Fatalf("expected end = now, got %v", end)
	}
	if !start.Equal(testNow.AddDate(0, 0, -30)) {
		t.Fatalf("expected start = now - 30d, got %v", start)
	}
	if period.Start != "2024-05-16" || period.End != "2024-06-15" {
		t.Fatalf("unexpected period %+v", period)
	}
}

func TestResolvePeriodDateOnlyExpansion(t *testing.T) {
	start, end, _, err := ResolvePeriod("2024-01-01", "2024-01-31", testNow)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 || start.Nanosecond() != 0 {
		t.Fatalf("expected start at beginning of day, got %v", start)
	}
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Fatalf("expected end at end of day, got %v", end)
	}
	if end.Nanosecond() != 999999000 {
		t.Fatalf("expected microsecond end-of-day precision, got %d ns", end.Nanosecond())
	}
}

func TestResolvePeriodSingleDay(t *testing.T) {
	// A single-day window: start 00:00:00, end 23:59:59.999999 of the same day.
	start, end, period, err := ResolvePeriod("2024-01-01", "2024-01-01", testNow)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if start.After(end) {
		t.Fatalf("single-day window inverted: %v > %v", start, end)
	}
	if period.Start != "2024-01-01" || period.End != "2024-01-01" {
		t.Fatalf("unexpected period %+v", period)
	}
	if PeriodDays(start, end) != 1 {
		t.Fatalf("expected 1 day, got %d", PeriodDays(start, end))
	}
}

func TestResolvePeriodStartOnly(t *testing.T) {
	start, end, _, err := ResolvePeriod("2024-06-01", "", testNow)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if start.Format("2006-01-02") != "2024-06-01" {
		t.Fatalf("unexpected start %v", start)
	}
	if !end.Equal(testNow) {
		t.Fatalf("expected end = now, got %v", end)
	}
}

func TestResolvePeriodEndOnly(t *testing.T) {
	start, end, _, err := ResolvePeriod("", "2024-06-10", testNow)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if end.Format("2006-01-02") != "2024-06-10" {
		t.Fatalf("unexpected end %v", end)
	}
	if !start.Equal(end.AddDate(0, 0, -30)) {
		t.Fatalf("expected start = end - 30d, got %v", start)
	}
}

func TestResolvePeriodDatetime(t *testing.T) {
	start, _, _, err := ResolvePeriod("2024-06-01T08:30:00Z", "", testNow)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if start.Hour() != 8 || start.Minute() != 30 {
		t.Fatalf("expected datetime preserved, got %v", start)
	}
}

func TestResolvePeriodInvalidDate(t *testing.T) {
	_, _, _, err := ResolvePeriod("not-a-date", "", testNow)
	var dateErr *InvalidDateError
	if !errors.As(err, &dateErr) {
		t.Fatalf("expected InvalidDateError, got %v", err)
	}
	if dateErr.Field != "start" || dateErr.Value != "not-a-date" {
		t.Fatalf("expected field/value carried, got %+v", dateErr)
	}
}

func TestResolvePeriodStartAfterEnd(t *testing.T) {
	_, _, _, err := ResolvePeriod("2024-02-01", "2024-01-01", testNow)
	var periodErr *InvalidPeriodError
	if !errors.As(err, &periodErr) {
		t.Fatalf("expected InvalidPeriodError, got %v", err)
	}
}

func TestPreviousPeriod(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 23, 59, 59, 999999000, time.UTC)

	prevStart, prevEnd := PreviousPeriod(start, end)
	if !prevEnd.Before(start) {
		t.Fatalf("previous window must end before current starts: %v", prevEnd)
	}
	if prevEnd.Sub(prevStart) != end.Sub(start) {
		t.Fatalf("previous window length differs: %v vs %v", prevEnd.Sub(prevStart), end.Sub(start))
	}
}

func TestPeriodDays(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 23, 59, 59, 999999000, time.UTC)
	if got := PeriodDays(start, end); got != 30 {
		t.Fatalf("expected 30 days, got %d", got)
	}
	if got := PeriodDays(end, end); got != 1 {
		t.Fatalf("expected minimum of 1 day, got %d", got)
	}
}
