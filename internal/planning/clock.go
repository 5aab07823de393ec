package planning

import (
	"fmt"
	"time"
)

// ClockTime is a wall-clock time of day in minutes since midnight.
// All times are local to the salon; there is no timezone handling.
type ClockTime int

const minutesPerDay = 24 * 60

// ParseClock parses strict "HH:MM", both parts zero-padded. Anything
// looser ("9:30", trailing text) is rejected so stored schedule strings
// stay canonical.
func ParseClock(s string) (ClockTime, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	for _, i := range [...]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("invalid clock time %q", s)
		}
	}

	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return ClockTime(h*60 + m), nil
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t ClockTime) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

// On anchors the clock time to a calendar date, producing an instant.
func (t ClockTime) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(t)/60, int(t)%60, 0, 0, date.Location())
}

// ClockOf extracts the minutes-since-midnight component of an instant.
func ClockOf(instant time.Time) ClockTime {
	return ClockTime(instant.Hour()*60 + instant.Minute())
}

// DateLayout is the calendar-date wire format used across documents.
const DateLayout = "2006-01-02"

// ParseDate parses "YYYY-MM-DD" into a local midnight instant.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// SameDay reports whether two instants fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// WithinDateRange reports whether date falls inside [start,end], both
// bounds inclusive; the end date counts through end of day. Malformed
// bounds fail closed (treated as not containing the date).
func WithinDateRange(date time.Time, startDate, endDate string) bool {
	start, err := ParseDate(startDate)
	if err != nil {
		return false
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return false
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return !day.Before(start) && !day.After(end)
}
