package model

import "time"

// StaffDay is one weekday of a staff member's schedule. Ranges may hold
// several disjoint windows (split shifts); empty ranges with Working=true
// still mean no bookable time that day.
type StaffDay struct {
	Working bool    `json:"working" bson:"working"`
	Ranges  []Hours `json:"ranges" bson:"ranges" validate:"omitempty,dive"`
}

type StaffBreak struct {
	ID    string  `json:"id" bson:"id" validate:"omitempty,uuid4"`
	Day   Weekday `json:"day" bson:"day" validate:"required,day_of_week"`
	Start string  `json:"start" bson:"start" validate:"required,clock_time"`
	End   string  `json:"end" bson:"end" validate:"required,clock_time"`
}

type StaffVacation struct {
	ID          string `json:"id" bson:"id" validate:"omitempty,uuid4"`
	StartDate   string `json:"start_date" bson:"start_date" validate:"required,date_iso"`
	EndDate     string `json:"end_date" bson:"end_date" validate:"required,date_iso"`
	Description string `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=200"`
}

// StaffMember is one document per staff member; the document id doubles
// as the staff member's display name.
type StaffMember struct {
	ID           string                `json:"id" bson:"_id" validate:"required,min=1,max=50"`
	WorkingHours map[Weekday]StaffDay  `json:"working_hours" bson:"working_hours" validate:"omitempty,dive"`
	Breaks       []StaffBreak          `json:"breaks" bson:"breaks" validate:"omitempty,dive"`
	Vacations    []StaffVacation       `json:"vacations" bson:"vacations" validate:"omitempty,dive"`
	UpdatedAt    time.Time             `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// StaffAvailabilityUpdate replaces a staff member's full schedule.
type StaffAvailabilityUpdate struct {
	WorkingHours map[Weekday]StaffDay `json:"working_hours" validate:"required,dive"`
	Breaks       []StaffBreak         `json:"breaks" validate:"omitempty,dive"`
	Vacations    []StaffVacation      `json:"vacations" validate:"omitempty,dive"`
}
