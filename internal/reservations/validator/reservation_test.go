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

func validReservation() *model.Reservation {
	return &model.Reservation{
		ReservationType: model.BookingTypeClass,
		ReserveeType:    model.ReserveeStudent,
		StudentID:       strPtr("s-1001"),
		SpaceID:         "65f000000000000000000002",
		Status:          model.StatusUnderReview,
		Description:     "Weekly study group",
		PhoneNumber:     "+12025550123",
	}
}

func TestValidateAcceptsExclusiveReservee(t *testing.T) {
	v := NewReservationValidator(testLogger())

	student := validReservation()
	if err := v.Validate(student); err != nil {
		t.Fatalf("expected student reservation to pass, got %v", err)
	}

	staff := validReservation()
	staff.ReserveeType = model.ReserveeStaff
	staff.StudentID = nil
	staff.StaffID = strPtr("e-2001")
	if err := v.Validate(staff); err != nil {
		t.Fatalf("expected staff reservation to pass, got %v", err)
	}
}

func TestValidateRejectsAmbiguousReservee(t *testing.T) {
	v := NewReservationValidator(testLogger())

	reservation := validReservation()
	reservation.StaffID = strPtr("e-2001")

	err := v.Validate(reservation)
	if err == nil {
		t.Fatal("expected error for reservation with both owner references")
	}
	if !strings.Contains(err.Error(), "ambiguous reservee") {
		t.Errorf("expected ambiguous reservee message, got %q", err.Error())
	}
}

func TestValidateRejectsMismatchedReservee(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.Reservation)
		want   string
	}{
		{
			name: "student type without student reference",
			mutate: func(r *model.Reservation) {
				r.StudentID = nil
			},
			want: "requires a student reference",
		},
		{
			name: "student type with staff reference",
			mutate: func(r *model.Reservation) {
				r.StudentID = nil
				r.StaffID = strPtr("e-2001")
			},
			want: "requires a student reference",
		},
		{
			name: "staff type without staff reference",
			mutate: func(r *model.Reservation) {
				r.ReserveeType = model.ReserveeStaff
				r.StudentID = nil
			},
			want: "requires a staff reference",
		},
		{
			name: "staff type with student reference",
			mutate: func(r *model.Reservation) {
				r.ReserveeType = model.ReserveeStaff
			},
			want: "requires a staff reference",
		},
	}

	v := NewReservationValidator(testLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reservation := validReservation()
			tt.mutate(reservation)

			err := v.Validate(reservation)
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
	v := NewReservationValidator(testLogger())

	reservation := validReservation()
	reservation.PhoneNumber = "not-a-phone"
	if err := v.Validate(reservation); err == nil {
		t.Error("expected error for malformed phone number")
	}

	reservation = validReservation()
	reservation.ReservationType = "banquet"
	if err := v.Validate(reservation); err == nil {
		t.Error("expected error for unknown reservation type")
	}
}

func TestValidateReview(t *testing.T) {
	v := NewReservationValidator(testLogger())

	if err := v.ValidateReview(&model.ReservationReview{Status: model.StatusApproved}); err != nil {
		t.Fatalf("expected approved review to pass, got %v", err)
	}
	if err := v.ValidateReview(&model.ReservationReview{Status: model.StatusUnderReview}); err == nil {
		t.Error("expected error for review that does not decide")
	}
}
