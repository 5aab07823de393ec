package model

import "time"

// DeviceToken registers one push-capable device. The token value is the
// document id, which makes registration idempotent.
type DeviceToken struct {
	Token     string    `json:"token" bson:"_id" validate:"required,min=10,max=4096"`
	Platform  string    `json:"platform,omitempty" bson:"platform,omitempty" validate:"omitempty,oneof=ios android web"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
