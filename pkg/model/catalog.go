package model

import "time"

// Section groups services for display. No effect on availability.
type Section struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title     string    `json:"title" bson:"title" validate:"required,min=1,max=100"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type Service struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title       string    `json:"title" bson:"title" validate:"required,min=1,max=100"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	Duration    int       `json:"duration" bson:"duration" validate:"required,min=1,max=480"`
	Price       float64   `json:"price" bson:"price" validate:"min=0"`
	SectionID   string    `json:"section_id" bson:"section_id" validate:"required,mongodb"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ServiceUpdate struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Duration    *int     `json:"duration,omitempty" validate:"omitempty,min=1,max=480"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	SectionID   string   `json:"section_id,omitempty" validate:"omitempty,mongodb"`
}
