package validator

import (
	"strings"
	"testing"

	"unispace/pkg/logger"
	"unispace/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.TEXT, Service: "test"})
}

func strPtr(s string) *string {
	return &s
}

func validEvent() *model.Event {
	return &model.Event{
		Title:         "Robotics Club Demo",
		EventType:     model.BookingTypeEvent,
		SpaceID:       "65f000000000000000000002",
		OrganizerType: model.ReserveeStudent,
		StudentID:     strPtr("s-1001"),
		Description:   "End of semester showcase",
	}
}

func TestValidateAcceptsExclusiveOrganizer(t *testing.T) {
	v := NewEventValidator(testLogger())

	if err := v.Validate(validEvent()); err != nil {
		t.Fatalf("expected student event to pass, got %v", err)
	}

	staff := validEvent()
	staff.OrganizerType = model.ReserveeStaff
	staff.StudentID = nil
	staff.StaffID = strPtr("e-2001")
	if err := v.Validate(staff); err != nil {
		t.Fatalf("expected staff event to pass, got %v", err)
	}
}

func TestValidateRejectsAmbiguousOrganizer(t *testing.T) {
	v := NewEventValidator(testLogger())

	event := validEvent()
	event.StaffID = strPtr("e-2001")

	err := v.Validate(event)
	if err == nil {
		t.Fatal("expected error for event with both owner references")
	}
	if !strings.Contains(err.Error(), "ambiguous organizer") {
		t.Errorf("expected ambiguous organizer message, got %q", err.Error())
	}
}

func TestValidateRejectsMismatchedOrganizer(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *model.Event)
		want   string
	}{
		{
			name: "student type without student reference",
			mutate: func(e *model.Event) {
				e.StudentID = nil
			},
			want: "requires a student reference",
		},
		{
			name: "staff type without staff reference",
			mutate: func(e *model.Event) {
				e.OrganizerType = model.ReserveeStaff
				e.StudentID = nil
			},
			want: "requires a staff reference",
		},
		{
			name: "staff type with student reference",
			mutate: func(e *model.Event) {
				e.OrganizerType = model.ReserveeStaff
			},
			want: "requires a staff reference",
		},
	}

	v := NewEventValidator(testLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := validEvent()
			tt.mutate(event)

			err := v.Validate(event)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected message containing %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestValidateRejectsBadStructFields(t *testing.T) {
	v := NewEventValidator(testLogger())

	event := validEvent()
	event.Title = "x"
	if err := v.Validate(event); err == nil {
		t.Error("expected error for too-short title")
	}

	event = validEvent()
	event.EventType = "rave"
	if err := v.Validate(event); err == nil {
		t.Error("expected error for unknown event type")
	}
}
