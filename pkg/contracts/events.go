package contracts

import "time"

// EventTypeRdvCreated identifies booking creation events on the wire.
const EventTypeRdvCreated = "rdv.created"

// RdvCreatedEvent is the payload published when a booking is created.
// Consumers (the notifier) use it to fan out push notifications without
// re-reading the booking from the database.
type RdvCreatedEvent struct {
	RdvID        string    `json:"rdv_id"`
	StaffID      string    `json:"staff_id"`
	ServiceTitle string    `json:"service_title"`
	ClientName   string    `json:"client_name"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Source       string    `json:"source"`
}
