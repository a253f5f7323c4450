package model

import "time"

// Space is a bookable physical room managed by a space manager.
type Space struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Building     string    `json:"building" bson:"building" validate:"required,min=1,max=100"`
	RoomNumber   string    `json:"room_number" bson:"room_number" validate:"required,min=1,max=20"`
	Capacity     int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=10000"`
	ManagerPhone string    `json:"manager_phone" bson:"manager_phone" validate:"omitempty,e164"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type SpaceUpdate struct {
	Name         string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Building     string `json:"building,omitempty" validate:"omitempty,min=1,max=100"`
	RoomNumber   string `json:"room_number,omitempty" validate:"omitempty,min=1,max=20"`
	Capacity     *int   `json:"capacity,omitempty" validate:"omitempty,min=1,max=10000"`
	ManagerPhone string `json:"manager_phone,omitempty" validate:"omitempty,e164"`
	IsActive     *bool  `json:"is_active,omitempty"`
}
