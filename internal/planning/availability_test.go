package planning

import (
	"testing"
	"time"

	"github.com/Luckywi/admin-balzac/pkg/model"
)

// monday2025 is a known Monday used throughout these tests.
var monday2025 = time.Date(2025, time.July, 7, 0, 0, 0, 0, time.Local)

func openSalon(t *testing.T) *SalonSchedule {
	t.Helper()
	return NewSalonSchedule(&model.SalonConfig{
		WorkDays: map[model.Weekday]bool{model.Monday: true},
		WorkHours: map[model.Weekday]model.Hours{
			model.Monday: {Start: "09:00", End: "18:00"},
		},
	})
}

func workingStaff(t *testing.T) *StaffSchedule {
	t.Helper()
	return NewStaffSchedule(&model.StaffMember{
		ID: "beatrice",
		WorkingHours: map[model.Weekday]model.StaffDay{
			model.Monday: {Working: true, Ranges: []model.Hours{{Start: "09:00", End: "18:00"}}},
		},
	})
}

func emptyConflicts(date time.Time) *ConflictIndex {
	return NewConflictIndex("beatrice", date, nil)
}

func slotStrings(slots []ClockTime) []string {
	return FormatSlots(slots)
}

func assertSlots(t *testing.T, got []ClockTime, want []string) {
	t.Helper()
	gotStr := slotStrings(got)
	if len(gotStr) != len(want) {
		t.Fatalf("expected %d slots, got %d: %v", len(want), len(gotStr), gotStr)
	}
	for i := range want {
		if gotStr[i] != want[i] {
			t.Errorf("slot %d: expected %s, got %s", i, want[i], gotStr[i])
		}
	}
}

func containsSlot(slots []ClockTime, s string) bool {
	for _, slot := range slots {
		if slot.String() == s {
			return true
		}
	}
	return false
}

func TestGenerateSlots_FullOpenDay(t *testing.T) {
	// Scenario: salon and staff both 09:00-18:00, no breaks, no rdvs,
	// 30-minute service. Last valid start is 17:30.
	slots := GenerateSlots(monday2025, 30, openSalon(t), workingStaff(t), emptyConflicts(monday2025))

	var want []string
	for c := mustClock(t, "09:00"); c <= mustClock(t, "17:30"); c += SlotStep {
		want = append(want, c.String())
	}
	assertSlots(t, slots, want)
}

func TestGenerateSlots_BoundarySlot(t *testing.T) {
	slots := GenerateSlots(monday2025, 30, openSalon(t), workingStaff(t), emptyConflicts(monday2025))

	if !containsSlot(slots, "17:30") {
		t.Error("slot ending exactly at closing time must be included")
	}
	if containsSlot(slots, "17:45") {
		t.Error("slot spilling past closing time must be excluded")
	}
}

func TestGenerateSlots_SalonBreak(t *testing.T) {
	// Scenario: salon break 12:00-13:00, duration 30. A slot ending
	// exactly at 12:00 is legal; one overlapping the break is not.
	salon := NewSalonSchedule(&model.SalonConfig{
		WorkDays: map[model.Weekday]bool{model.Monday: true},
		WorkHours: map[model.Weekday]model.Hours{
			model.Monday: {Start: "09:00", End: "18:00"},
		},
		Breaks: []model.SalonBreak{
			{Day: model.Monday, Start: "12:00", End: "13:00"},
		},
	})

	slots := GenerateSlots(monday2025, 30, salon, workingStaff(t), emptyConflicts(monday2025))

	if !containsSlot(slots, "11:30") {
		t.Error("11:30 ends exactly at the break start and must be included")
	}
	if containsSlot(slots, "11:45") {
		t.Error("11:45 ends 12:15, overlapping the break, and must be excluded")
	}
	if containsSlot(slots, "12:00") || containsSlot(slots, "12:45") {
		t.Error("starts inside the break must be excluded")
	}
	if !containsSlot(slots, "13:00") {
		t.Error("13:00 starts exactly at the break end and must be included")
	}
}

func TestGenerateSlots_ExistingRdv(t *testing.T) {
	// Scenario: existing rdv 10:00-10:45, duration 30.
	rdvs := []*model.Rdv{
		{
			StaffID: "beatrice",
			Start:   mustClock(t, "10:00").On(monday2025),
			End:     mustClock(t, "10:45").On(monday2025),
		},
	}
	conflicts := NewConflictIndex("beatrice", monday2025, rdvs)

	slots := GenerateSlots(monday2025, 30, openSalon(t), workingStaff(t), conflicts)

	if containsSlot(slots, "09:45") {
		t.Error("09:45 ends 10:15 inside the rdv and must be excluded")
	}
	if containsSlot(slots, "10:30") {
		t.Error("10:30 starts inside the rdv and must be excluded")
	}
	if !containsSlot(slots, "09:30") {
		t.Error("09:30 ends exactly when the rdv starts and must be included")
	}
	if !containsSlot(slots, "10:45") {
		t.Error("10:45 starts exactly when the rdv ends and must be included")
	}
}

func TestGenerateSlots_OtherStaffRdvIgnored(t *testing.T) {
	rdvs := []*model.Rdv{
		{
			StaffID: "cyrille",
			Start:   mustClock(t, "10:00").On(monday2025),
			End:     mustClock(t, "10:45").On(monday2025),
		},
	}
	conflicts := NewConflictIndex("beatrice", monday2025, rdvs)

	slots := GenerateSlots(monday2025, 30, openSalon(t), workingStaff(t), conflicts)

	if !containsSlot(slots, "10:00") {
		t.Error("a different staff member's rdv must not block the slot")
	}
}

func TestGenerateSlots_StaffVacation(t *testing.T) {
	staff := NewStaffSchedule(&model.StaffMember{
		ID: "beatrice",
		WorkingHours: map[model.Weekday]model.StaffDay{
			model.Monday: {Working: true, Ranges: []model.Hours{{Start: "09:00", End: "18:00"}}},
		},
		Vacations: []model.StaffVacation{
			{StartDate: "2025-07-01", EndDate: "2025-07-14"},
		},
	})

	slots := GenerateSlots(monday2025, 30, openSalon(t), staff, emptyConflicts(monday2025))
	if len(slots) != 0 {
		t.Errorf("expected no slots during staff vacation, got %v", slotStrings(slots))
	}
}

func TestGenerateSlots_SalonClosedBeatsStaff(t *testing.T) {
	closed := NewSalonSchedule(&model.SalonConfig{
		WorkDays: map[model.Weekday]bool{model.Tuesday: true},
		WorkHours: map[model.Weekday]model.Hours{
			model.Tuesday: {Start: "09:00", End: "18:00"},
		},
	})

	slots := GenerateSlots(monday2025, 30, closed, workingStaff(t), emptyConflicts(monday2025))
	if len(slots) != 0 {
		t.Errorf("expected no slots on a closed salon day, got %v", slotStrings(slots))
	}
}

func TestGenerateSlots_SplitShift(t *testing.T) {
	staff := NewStaffSchedule(&model.StaffMember{
		ID: "beatrice",
		WorkingHours: map[model.Weekday]model.StaffDay{
			model.Monday: {Working: true, Ranges: []model.Hours{
				{Start: "09:00", End: "12:00"},
				{Start: "14:00", End: "18:00"},
			}},
		},
	})

	slots := GenerateSlots(monday2025, 60, openSalon(t), staff, emptyConflicts(monday2025))

	if !containsSlot(slots, "11:00") {
		t.Error("11:00 fits the morning window and must be included")
	}
	if containsSlot(slots, "11:15") {
		t.Error("11:15 spills past the morning window and must be excluded")
	}
	if containsSlot(slots, "13:00") {
		t.Error("no slot may fall in the gap between shifts")
	}
	if !containsSlot(slots, "14:00") {
		t.Error("14:00 opens the afternoon window and must be included")
	}
	for i := 1; i < len(slots); i++ {
		if slots[i] <= slots[i-1] {
			t.Fatalf("slots not strictly ascending: %v", slotStrings(slots))
		}
	}
}

func TestGenerateSlots_StaffHoursClippedBySalon(t *testing.T) {
	staff := NewStaffSchedule(&model.StaffMember{
		ID: "beatrice",
		WorkingHours: map[model.Weekday]model.StaffDay{
			model.Monday: {Working: true, Ranges: []model.Hours{{Start: "07:00", End: "20:00"}}},
		},
	})

	slots := GenerateSlots(monday2025, 30, openSalon(t), staff, emptyConflicts(monday2025))

	if containsSlot(slots, "08:45") {
		t.Error("slots before salon opening must be excluded")
	}
	if !containsSlot(slots, "09:00") {
		t.Error("salon opening must be the first slot")
	}
	if containsSlot(slots, "17:45") {
		t.Error("slots ending after salon closing must be excluded")
	}
}

func TestGenerateSlots_WindowConsumedByBreak(t *testing.T) {
	staff := NewStaffSchedule(&model.StaffMember{
		ID: "beatrice",
		WorkingHours: map[model.Weekday]model.StaffDay{
			model.Monday: {Working: true, Ranges: []model.Hours{{Start: "10:00", End: "11:00"}}},
		},
		Breaks: []model.StaffBreak{
			{Day: model.Monday, Start: "10:00", End: "11:00"},
		},
	})

	slots := GenerateSlots(monday2025, 30, openSalon(t), staff, emptyConflicts(monday2025))
	if len(slots) != 0 {
		t.Errorf("expected no slots in a window fully consumed by a break, got %v", slotStrings(slots))
	}
}

func TestGenerateSlots_DurationLargerThanWindow(t *testing.T) {
	staff := NewStaffSchedule(&model.StaffMember{
		ID: "beatrice",
		WorkingHours: map[model.Weekday]model.StaffDay{
			model.Monday: {Working: true, Ranges: []model.Hours{{Start: "09:00", End: "10:00"}}},
		},
	})

	slots := GenerateSlots(monday2025, 90, openSalon(t), staff, emptyConflicts(monday2025))
	if len(slots) != 0 {
		t.Errorf("expected no slots for a duration longer than the window, got %v", slotStrings(slots))
	}
}

func TestGenerateSlots_Idempotent(t *testing.T) {
	first := GenerateSlots(monday2025, 45, openSalon(t), workingStaff(t), emptyConflicts(monday2025))
	second := GenerateSlots(monday2025, 45, openSalon(t), workingStaff(t), emptyConflicts(monday2025))

	if len(first) != len(second) {
		t.Fatalf("expected identical results, got %d vs %d slots", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("slot %d differs: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestGenerateSlots_LongerDurationNeverAddsSlots(t *testing.T) {
	salon := NewSalonSchedule(&model.SalonConfig{
		WorkDays: map[model.Weekday]bool{model.Monday: true},
		WorkHours: map[model.Weekday]model.Hours{
			model.Monday: {Start: "09:00", End: "18:00"},
		},
		Breaks: []model.SalonBreak{
			{Day: model.Monday, Start: "12:30", End: "13:30"},
		},
	})

	for _, pair := range [][2]int{{15, 30}, {30, 60}, {60, 120}} {
		short := GenerateSlots(monday2025, pair[0], salon, workingStaff(t), emptyConflicts(monday2025))
		long := GenerateSlots(monday2025, pair[1], salon, workingStaff(t), emptyConflicts(monday2025))

		shortSet := map[ClockTime]struct{}{}
		for _, s := range short {
			shortSet[s] = struct{}{}
		}
		for _, s := range long {
			if _, ok := shortSet[s]; !ok {
				t.Errorf("duration %d produced slot %s absent for duration %d", pair[1], s, pair[0])
			}
		}
	}
}

func TestGenerateSlots_MalformedStaffDocFailsClosed(t *testing.T) {
	// Missing ranges array: normalized to "not working" instead of crashing.
	staff := NewStaffSchedule(&model.StaffMember{
		ID: "beatrice",
		WorkingHours: map[model.Weekday]model.StaffDay{
			model.Monday: {Working: true, Ranges: nil},
		},
	})

	slots := GenerateSlots(monday2025, 30, openSalon(t), staff, emptyConflicts(monday2025))
	if len(slots) != 0 {
		t.Errorf("expected no slots for a staff day without ranges, got %v", slotStrings(slots))
	}

	if staff.IsWorking(monday2025) {
		t.Error("a working day without usable ranges must report not working")
	}
}

func TestGenerateSlots_NilConfigs(t *testing.T) {
	slots := GenerateSlots(monday2025, 30, NewSalonSchedule(nil), NewStaffSchedule(nil), emptyConflicts(monday2025))
	if len(slots) != 0 {
		t.Errorf("expected no slots with empty schedules, got %v", slotStrings(slots))
	}
}
