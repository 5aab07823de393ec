package model

import "time"

// Weekday is the key type for schedule maps. Values are lowercase English
// day names, matching the document shapes in the store.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// WeekdayOf returns the schedule key for a calendar date.
func WeekdayOf(t time.Time) Weekday {
	return weekdayNames[t.Weekday()]
}

func (d Weekday) Valid() bool {
	for _, w := range AllWeekdays {
		if d == w {
			return true
		}
	}
	return false
}
