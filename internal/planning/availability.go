package planning

import (
	"sort"
	"time"
)

// SlotStep is the spacing between candidate start times, in minutes.
// Fixed policy, not configurable.
const SlotStep = 15

// GenerateSlots computes every bookable start time for a service of the
// given duration on the date, for the staff member described by staff,
// within the salon's hours. The result is ascending and deduplicated;
// an empty result is a normal outcome, not an error.
//
// The same function backs both the slot display and the pre-commit
// re-validation of a booking, so both paths agree on the rules.
func GenerateSlots(date time.Time, durationMin int, salon *SalonSchedule, staff *StaffSchedule, conflicts *ConflictIndex) []ClockTime {
	if durationMin <= 0 {
		return nil
	}
	if !salon.IsOpen(date) {
		return nil
	}
	if !staff.IsWorking(date) {
		return nil
	}

	salonHours, ok := salon.HoursFor(date)
	if !ok {
		return nil
	}

	var windows []Range
	for _, staffRange := range staff.WorkingRangesFor(date) {
		if w, ok := staffRange.Intersect(salonHours); ok {
			windows = append(windows, w)
		}
	}
	if len(windows) == 0 {
		return nil
	}

	// A break from either the salon or the staff member excludes that
	// time for everyone.
	excluded := append(salon.BreaksFor(date), staff.BreaksFor(date)...)

	duration := ClockTime(durationMin)
	seen := map[ClockTime]struct{}{}
	var slots []ClockTime

	for _, window := range windows {
		for start := window.Start; start+duration <= window.End; start += SlotStep {
			candidate := Range{Start: start, End: start + duration}

			if overlapsAny(candidate, excluded) {
				continue
			}
			if conflicts != nil && conflicts.Conflicts(candidate) {
				continue
			}
			if _, dup := seen[start]; dup {
				continue
			}
			seen[start] = struct{}{}
			slots = append(slots, start)
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}

func overlapsAny(candidate Range, ranges []Range) bool {
	for _, r := range ranges {
		if candidate.Overlaps(r) {
			return true
		}
	}
	return false
}

// FormatSlots renders slot start times as "HH:MM" strings for transport.
func FormatSlots(slots []ClockTime) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.String())
	}
	return out
}
