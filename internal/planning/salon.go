package planning

import (
	"time"

	"github.com/Luckywi/admin-balzac/pkg/model"
)

// SalonSchedule answers whether the salon is open at a given date and
// what its hours and breaks are. Built once per computation from the
// stored config; malformed entries are dropped so queries fail closed.
type SalonSchedule struct {
	workDays  map[model.Weekday]bool
	workHours map[model.Weekday]Range
	breaks    map[model.Weekday][]Range
	vacations []model.DateRange
}

func NewSalonSchedule(cfg *model.SalonConfig) *SalonSchedule {
	s := &SalonSchedule{
		workDays:  map[model.Weekday]bool{},
		workHours: map[model.Weekday]Range{},
		breaks:    map[model.Weekday][]Range{},
	}
	if cfg == nil {
		return s
	}

	for day, open := range cfg.WorkDays {
		s.workDays[day] = open
	}
	for day, hours := range cfg.WorkHours {
		if r, ok := parseRange(hours.Start, hours.End); ok {
			s.workHours[day] = r
		}
	}
	for _, b := range cfg.Breaks {
		if r, ok := parseRange(b.Start, b.End); ok {
			s.breaks[b.Day] = append(s.breaks[b.Day], r)
		}
	}
	s.vacations = cfg.Vacations
	return s
}

// IsOpen reports whether the salon takes bookings on the date. Vacation
// ranges exclude whole days, including partial boundary days.
func (s *SalonSchedule) IsOpen(date time.Time) bool {
	day := model.WeekdayOf(date)
	if !s.workDays[day] {
		return false
	}
	if _, ok := s.workHours[day]; !ok {
		return false
	}
	for _, v := range s.vacations {
		if WithinDateRange(date, v.StartDate, v.EndDate) {
			return false
		}
	}
	return true
}

// HoursFor returns the salon's working window for the date.
func (s *SalonSchedule) HoursFor(date time.Time) (Range, bool) {
	if !s.IsOpen(date) {
		return Range{}, false
	}
	r, ok := s.workHours[model.WeekdayOf(date)]
	return r, ok
}

// BreaksFor returns the recurring salon breaks falling on the date's weekday.
func (s *SalonSchedule) BreaksFor(date time.Time) []Range {
	return s.breaks[model.WeekdayOf(date)]
}
