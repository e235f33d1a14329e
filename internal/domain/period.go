package domain

import (
	"fmt"
	"strings"
	"time"
)

// Period is the calendar-date display form of a resolved reporting window.
// Not persisted; recomputed per request.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// InvalidDateError reports a start/end string that parses as neither a bare
// date nor an ISO-8601 timestamp.
type InvalidDateError struct {
	Field string
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid %s date: %q (expected YYYY-MM-DD or ISO datetime)", e.Field, e.Value)
}

// InvalidPeriodError reports start > end.
type InvalidPeriodError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("invalid period: start %s is after end %s",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

const defaultPeriodDays = 30

// endOfDay microseconds mirror the persisted timestamp precision so a
// date-only end bound covers the whole day inclusively.
func startOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999999000, time.UTC)
}

// parseInstant accepts a bare date (YYYY-MM-DD) or an ISO-8601 timestamp,
// optionally Z-suffixed or with a numeric UTC offset. Offset-aware inputs are
// converted to naive UTC. Date-only values expand to the start or end of the
// day depending on isEnd.
func parseInstant(field, raw string, isEnd bool) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, &InvalidDateError{Field: field, Value: raw}
	}
	s = strings.Replace(s, " ", "T", 1)

	if strings.Contains(s, "T") {
		for _, layout := range []string{
			time.RFC3339Nano,
			"2006-01-02T15:04:05.999999999",
			"2006-01-02T15:04:05",
			"2006-01-02T15:04",
		} {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
	}

	// Date-only: take the first 10 chars so "YYYY-MM-DD..." is tolerated.
	if len(s) >= 10 {
		if d, err := time.Parse("2006-01-02", s[:10]); err == nil {
			if isEnd {
				return endOfDay(d), nil
			}
			return startOfDay(d), nil
		}
	}

	return time.Time{}, &InvalidDateError{Field: field, Value: raw}
}

// ResolvePeriod normalizes user-supplied date/datetime strings into an
// inclusive [start, end] instant range.
//
// Defaulting: both absent -> last 30 days ending now; only start -> end = now;
// only end -> start = end - 30 days.
func ResolvePeriod(start, end string, now time.Time) (time.Time, time.Time, Period, error) {
	now = now.UTC()

	var startDt, endDt time.Time
	var err error

	switch {
	case start == "" && end == "":
		endDt = now
		startDt = now.AddDate(0, 0, -defaultPeriodDays)
	case start != "" && end == "":
		startDt, err = parseInstant("start", start, false)
		if err != nil {
			return time.Time{}, time.Time{}, Period{}, err
		}
		endDt = now
	case start == "" && end != "":
		endDt, err = parseInstant("end", end, true)
		if err != nil {
			return time.Time{}, time.Time{}, Period{}, err
		}
		startDt = endDt.AddDate(0, 0, -defaultPeriodDays)
	default:
		startDt, err = parseInstant("start", start, false)
		if err != nil {
			return time.Time{}, time.Time{}, Period{}, err
		}
		endDt, err = parseInstant("end", end, true)
		if err != nil {
			return time.Time{}, time.Time{}, Period{}, err
		}
	}

	if startDt.After(endDt) {
		return time.Time{}, time.Time{}, Period{}, &InvalidPeriodError{Start: startDt, End: endDt}
	}

	period := Period{
		Start: startDt.Format("2006-01-02"),
		End:   endDt.Format("2006-01-02"),
	}
	return startDt, endDt, period, nil
}

// PreviousPeriod returns the immediately preceding window of equal length:
// [start - length, start - 1µs].
func PreviousPeriod(start, end time.Time) (time.Time, time.Time) {
	length := end.Sub(start)
	prevEnd := start.Add(-time.Microsecond)
	prevStart := prevEnd.Add(-length)
	return prevStart, prevEnd
}

// PeriodDays is the number of calendar days the window spans, minimum 1.
func PeriodDays(start, end time.Time) int64 {
	days := int64(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}
