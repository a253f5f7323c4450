package model

import "time"

// Event is a publishable activity occupying a schedule. The organizer
// is exactly one of a student or a staff member, matching
// OrganizerType. ScheduleID is optional but exclusive; when the
// schedule dies in a cascade the event dies with it.
type Event struct {
	ID            string  `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title         string  `json:"title" bson:"title" validate:"required,min=2,max=200"`
	EventType     string  `json:"event_type" bson:"event_type" validate:"required,oneof=event class gathering"`
	SpaceID       string  `json:"space_id" bson:"space_id" validate:"required,mongodb"`
	OrganizerType string  `json:"organizer_type" bson:"organizer_type" validate:"required,oneof=student staff"`
	StudentID     *string `json:"student_id,omitempty" bson:"student_id,omitempty" validate:"omitempty,min=1"`
	StaffID       *string `json:"staff_id,omitempty" bson:"staff_id,omitempty" validate:"omitempty,min=1"`
	ScheduleID    *string `json:"schedule_id,omitempty" bson:"schedule_id,omitempty" validate:"omitempty,mongodb"`
	PosterRef     string  `json:"poster_ref,omitempty" bson:"poster_ref,omitempty" validate:"omitempty,max=500"`
	Description   string  `json:"description" bson:"description" validate:"required,min=2,max=1000"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// OrganizerDisplay is the public-facing organizer label derived from
// the owning reference.
func (e *Event) OrganizerDisplay() string {
	switch e.OrganizerType {
	case ReserveeStudent:
		if e.StudentID != nil {
			return "student:" + *e.StudentID
		}
	case ReserveeStaff:
		if e.StaffID != nil {
			return "staff:" + *e.StaffID
		}
	}
	return ""
}
