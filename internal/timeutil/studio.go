package timeutil

import (
	"time"
)

// Studio is the studio's local timezone (US Eastern)
var Studio *time.Location

func init() {
	var err error
	Studio, err = time.LoadLocation("America/New_York")
	if err != nil {
		// Fallback: create fixed zone if America/New_York not available
		Studio = time.FixedZone("EST", -5*60*60) // UTC-5
	}
}

// Now returns the current time in the studio timezone
func Now() time.Time {
	return time.Now().In(Studio)
}

// Today returns the current calendar date at midnight studio time.
// Scheduling and overdue math must use this, never time.Now() directly,
// so collision and lead-time checks stay date-only.
func Today() time.Time {
	return DateOnly(Now())
}

// DateOnly strips the time-of-day component, keeping the studio-local date
func DateOnly(t time.Time) time.Time {
	local := t.In(Studio)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Studio)
}

// ParseDate parses a YYYY-MM-DD string as a studio-local date
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, Studio)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// AddDays shifts a date by n whole days, preserving date-only granularity
func AddDays(t time.Time, n int) time.Time {
	d := DateOnly(t)
	return time.Date(d.Year(), d.Month(), d.Day()+n, 0, 0, 0, 0, Studio)
}

// DaysBetween returns the number of whole days from a to b (b - a).
// Both arguments are truncated to dates first. The calendar difference is
// computed in UTC so DST transitions cannot shave an hour off a day.
func DaysBetween(a, b time.Time) int {
	from := a.In(Studio)
	to := b.In(Studio)
	fromUTC := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toUTC := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toUTC.Sub(fromUTC).Hours() / 24)
}

// SameDate reports whether two times fall on the same studio-local date
func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// FormatDate formats a time as a studio-local YYYY-MM-DD date
func FormatDate(t time.Time) string {
	return t.In(Studio).Format(DateLayout)
}

// DateLayout is the wire format for all date-only fields
const DateLayout = "2006-01-02"
