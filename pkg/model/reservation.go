package model

import "time"

const (
	BookingTypeEvent     = "event"
	BookingTypeClass     = "class"
	BookingTypeGathering = "gathering"
)

const (
	ReserveeStudent = "student"
	ReserveeStaff   = "staff"
)

const (
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
)

// Reservation holds a schedule for exactly one reservee: a student or
// a staff member, matching ReserveeType. ScheduleID is one-to-one; no
// two reservations share a schedule.
type Reservation struct {
	ID              string  `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ReservationType string  `json:"reservation_type" bson:"reservation_type" validate:"required,oneof=event class gathering"`
	ReserveeType    string  `json:"reservee_type" bson:"reservee_type" validate:"required,oneof=student staff"`
	StudentID       *string `json:"student_id,omitempty" bson:"student_id,omitempty" validate:"omitempty,min=1"`
	StaffID         *string `json:"staff_id,omitempty" bson:"staff_id,omitempty" validate:"omitempty,min=1"`
	SpaceID         string  `json:"space_id" bson:"space_id" validate:"required,mongodb"`
	ScheduleID      string  `json:"schedule_id,omitempty" bson:"schedule_id,omitempty" validate:"omitempty,mongodb"`
	// Date is denormalized from the owning schedule so listings sort
	// without a join.
	Date           string `json:"date,omitempty" bson:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status         string `json:"status" bson:"status" validate:"required,oneof=under_review approved rejected"`
	ManagerComment string `json:"manager_comment,omitempty" bson:"manager_comment,omitempty" validate:"omitempty,max=500"`
	Description    string `json:"description" bson:"description" validate:"required,min=2,max=1000"`
	PhoneNumber    string `json:"phone_number" bson:"phone_number" validate:"required,e164"`

	// Event-hosting metadata, filled when the reservation backs a
	// public event.
	EventName         string `json:"event_name,omitempty" bson:"event_name,omitempty" validate:"omitempty,max=200"`
	OrganizationName  string `json:"organization_name,omitempty" bson:"organization_name,omitempty" validate:"omitempty,max=200"`
	ExpectedAttendees int    `json:"expected_attendees,omitempty" bson:"expected_attendees,omitempty" validate:"omitempty,min=1,max=10000"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ReservationReview is the manager-side mutation: a status decision
// plus an optional comment.
type ReservationReview struct {
	Status         string `json:"status" validate:"required,oneof=approved rejected"`
	ManagerComment string `json:"manager_comment,omitempty" validate:"omitempty,max=500"`
}

// StatusDisplay maps the stored status to its user-facing label.
func StatusDisplay(status string) string {
	switch status {
	case StatusUnderReview:
		return "Under review"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	default:
		return status
	}
}
