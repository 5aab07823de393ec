package model

import "time"

// Rdv is a booked appointment. Service title, duration and price are
// copied at creation time so later catalog edits do not rewrite history.
// Invariant: End == Start + ServiceDuration minutes.
type Rdv struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ServiceID       string    `json:"service_id" bson:"service_id" validate:"required,mongodb"`
	ServiceTitle    string    `json:"service_title" bson:"service_title" validate:"required,min=1,max=100"`
	ServiceDuration int       `json:"service_duration" bson:"service_duration" validate:"required,min=1,max=480"`
	StaffID         string    `json:"staff_id" bson:"staff_id" validate:"required,min=1,max=50"`
	Start           time.Time `json:"start" bson:"start" validate:"required"`
	End             time.Time `json:"end" bson:"end" validate:"required,gtfield=Start"`
	ClientName      string    `json:"client_name" bson:"client_name" validate:"required,min=1,max=100"`
	ClientPhone     string    `json:"client_phone,omitempty" bson:"client_phone,omitempty" validate:"omitempty,max=20"`
	Notes           string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=1000"`
	Price           float64   `json:"price" bson:"price" validate:"min=0"`
	Source          string    `json:"source" bson:"source" validate:"omitempty,max=50"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// RdvRequest is the booking candidate: a start time picked from the
// published availability for (date, staff, service).
type RdvRequest struct {
	ServiceID   string `json:"service_id" validate:"required,mongodb"`
	StaffID     string `json:"staff_id" validate:"required,min=1,max=50"`
	Date        string `json:"date" validate:"required,date_iso"`
	StartTime   string `json:"start_time" validate:"required,clock_time"`
	ClientName  string `json:"client_name" validate:"required,min=1,max=100"`
	ClientPhone string `json:"client_phone,omitempty" validate:"omitempty,max=20"`
	Notes       string `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Source      string `json:"source,omitempty" validate:"omitempty,max=50"`
}

// RdvUpdate is a partial edit. Changing Date, StartTime or StaffID
// re-runs the availability check against the rdv's stored duration.
type RdvUpdate struct {
	ClientName  *string `json:"client_name,omitempty" validate:"omitempty,min=1,max=100"`
	ClientPhone *string `json:"client_phone,omitempty" validate:"omitempty,max=20"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
	StaffID     string  `json:"staff_id,omitempty" validate:"omitempty,min=1,max=50"`
	Date        string  `json:"date,omitempty" validate:"omitempty,date_iso"`
	StartTime   string  `json:"start_time,omitempty" validate:"omitempty,clock_time"`
}

// Reschedules reports whether the update moves the rdv in time or to
// another staff member, which forces availability re-validation.
func (u *RdvUpdate) Reschedules() bool {
	return u.StaffID != "" || u.Date != "" || u.StartTime != ""
}
