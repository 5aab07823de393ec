package model

import "time"

// Hours is a [start,end) clock-time range, both bounds in "HH:MM".
type Hours struct {
	Start string `json:"start" bson:"start" validate:"required,clock_time"`
	End   string `json:"end" bson:"end" validate:"required,clock_time"`
}

// DateRange is an inclusive calendar-date range in "YYYY-MM-DD".
// The end date counts through end of day.
type DateRange struct {
	StartDate string `json:"start_date" bson:"start_date" validate:"required,date_iso"`
	EndDate   string `json:"end_date" bson:"end_date" validate:"required,date_iso"`
}

type SalonBreak struct {
	Day   Weekday `json:"day" bson:"day" validate:"required,day_of_week"`
	Start string  `json:"start" bson:"start" validate:"required,clock_time"`
	End   string  `json:"end" bson:"end" validate:"required,clock_time"`
}

// SalonConfig is the single salon-wide configuration document.
// A day absent from WorkDays or WorkHours is a closed day.
type SalonConfig struct {
	ID        string                `json:"id,omitempty" bson:"_id,omitempty"`
	WorkDays  map[Weekday]bool      `json:"work_days" bson:"work_days" validate:"required"`
	WorkHours map[Weekday]Hours     `json:"work_hours" bson:"work_hours" validate:"required,dive"`
	Breaks    []SalonBreak          `json:"breaks" bson:"breaks" validate:"omitempty,dive"`
	Vacations []DateRange           `json:"vacations" bson:"vacations" validate:"omitempty,dive"`
	UpdatedAt time.Time             `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// SalonConfigID is the fixed _id of the configuration document.
const SalonConfigID = "config"
