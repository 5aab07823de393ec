package model

import "time"

// RdvLock is an advisory lock keyed by (staff, start instant). It keeps
// two concurrent booking requests for the same slot from racing between
// the availability re-check and the insert.
type RdvLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
