package planning

import (
	"time"

	"github.com/Luckywi/admin-balzac/pkg/model"
)

// StaffSchedule is the per-staff counterpart of SalonSchedule. A weekday
// may hold several disjoint working ranges (split shifts). Documents with
// missing or malformed fields normalize to "not working".
type StaffSchedule struct {
	working   map[model.Weekday]bool
	ranges    map[model.Weekday][]Range
	breaks    map[model.Weekday][]Range
	vacations []model.StaffVacation
}

func NewStaffSchedule(staff *model.StaffMember) *StaffSchedule {
	s := &StaffSchedule{
		working: map[model.Weekday]bool{},
		ranges:  map[model.Weekday][]Range{},
		breaks:  map[model.Weekday][]Range{},
	}
	if staff == nil {
		return s
	}

	for day, d := range staff.WorkingHours {
		if !d.Working {
			continue
		}
		var parsed []Range
		for _, h := range d.Ranges {
			if r, ok := parseRange(h.Start, h.End); ok {
				parsed = append(parsed, r)
			}
		}
		if len(parsed) == 0 {
			continue
		}
		s.working[day] = true
		s.ranges[day] = parsed
	}
	for _, b := range staff.Breaks {
		if r, ok := parseRange(b.Start, b.End); ok {
			s.breaks[b.Day] = append(s.breaks[b.Day], r)
		}
	}
	s.vacations = staff.Vacations
	return s
}

// IsWorking reports whether the staff member works on the date at all.
// Staff vacations exclude whole days, same as salon vacations.
func (s *StaffSchedule) IsWorking(date time.Time) bool {
	if !s.working[model.WeekdayOf(date)] {
		return false
	}
	for _, v := range s.vacations {
		if WithinDateRange(date, v.StartDate, v.EndDate) {
			return false
		}
	}
	return true
}

// WorkingRangesFor returns the staff member's windows for the date,
// empty when not working.
func (s *StaffSchedule) WorkingRangesFor(date time.Time) []Range {
	if !s.IsWorking(date) {
		return nil
	}
	return s.ranges[model.WeekdayOf(date)]
}

// BreaksFor returns the staff breaks falling on the date's weekday.
func (s *StaffSchedule) BreaksFor(date time.Time) []Range {
	return s.breaks[model.WeekdayOf(date)]
}
