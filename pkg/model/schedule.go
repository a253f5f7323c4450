package model

import "time"

// Schedule is a space+date+hour-code-range booking of time. Hour codes
// reference the fixed slot registry; the inclusive [StartCode, EndCode]
// interval must not overlap any sibling schedule on the same space and
// date.
type Schedule struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SpaceID   string    `json:"space_id" bson:"space_id" validate:"required,mongodb"`
	Date      string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	StartCode int       `json:"start_code" bson:"start_code" validate:"required,min=1"`
	EndCode   int       `json:"end_code" bson:"end_code" validate:"required,min=1"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ScheduleUpdate re-times an existing schedule. Both bounds travel
// together so the sibling re-scan always sees the full new interval.
type ScheduleUpdate struct {
	StartCode *int `json:"start_code,omitempty" validate:"omitempty,min=1"`
	EndCode   *int `json:"end_code,omitempty" validate:"omitempty,min=1"`
}

// Overlaps applies the inclusive interval test: two ranges conflict
// when a.start <= b.end AND a.end >= b.start.
func (s *Schedule) Overlaps(other *Schedule) bool {
	return s.StartCode <= other.EndCode && s.EndCode >= other.StartCode
}
