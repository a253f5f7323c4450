package validator

import (
	"errors"
	"fmt"
	"strings"

	"unispace/pkg/logger"
	"unispace/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ReservationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	return &ReservationValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// Validate runs the struct rules and then the reservee exclusivity
// rules the tags cannot express: exactly one of the student and staff
// references is set, and it matches ReserveeType.
func (v *ReservationValidator) Validate(reservation *model.Reservation) error {
	if err := v.validate.Struct(reservation); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateReservee(reservation)
}

func (v *ReservationValidator) ValidateReview(review *model.ReservationReview) error {
	if err := v.validate.Struct(review); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ReservationValidator) validateReservee(reservation *model.Reservation) error {
	hasStudent := reservation.StudentID != nil && *reservation.StudentID != ""
	hasStaff := reservation.StaffID != nil && *reservation.StaffID != ""

	var validationErrors ValidationErrors

	if hasStudent && hasStaff {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "ReserveeType",
			Message: "ambiguous reservee: both student and staff references are set",
		})
		return validationErrors
	}

	switch reservation.ReserveeType {
	case model.ReserveeStudent:
		if !hasStudent {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "StudentID",
				Message: "student reservee requires a student reference",
			})
		}
		if hasStaff {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "StaffID",
				Message: "student reservee cannot carry a staff reference",
			})
		}
	case model.ReserveeStaff:
		if !hasStaff {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "StaffID",
				Message: "staff reservee requires a staff reference",
			})
		}
		if hasStudent {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "StudentID",
				Message: "staff reservee cannot carry a student reference",
			})
		}
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}
	return nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of [%s]", err.Field(), err.Param())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +12025550123)", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "datetime":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
