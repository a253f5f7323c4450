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

type EventValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewEventValidator(log *logger.Logger) *EventValidator {
	return &EventValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// Validate runs the struct rules, then the organizer exclusivity rules:
// exactly one owning reference, matching OrganizerType.
func (v *EventValidator) Validate(event *model.Event) error {
	if err := v.validate.Struct(event); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateOrganizer(event)
}

func (v *EventValidator) validateOrganizer(event *model.Event) error {
	hasStudent := event.StudentID != nil && *event.StudentID != ""
	hasStaff := event.StaffID != nil && *event.StaffID != ""

	var validationErrors ValidationErrors

	if hasStudent && hasStaff {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "OrganizerType",
			Message: "ambiguous organizer: both student and staff references are set",
		})
		return validationErrors
	}

	switch event.OrganizerType {
	case model.ReserveeStudent:
		if !hasStudent {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "StudentID",
				Message: "student organizer requires a student reference",
			})
		}
		if hasStaff {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "StaffID",
				Message: "student organizer cannot carry a staff reference",
			})
		}
	case model.ReserveeStaff:
		if !hasStaff {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "StaffID",
				Message: "staff organizer requires a staff reference",
			})
		}
		if hasStudent {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "StudentID",
				Message: "staff organizer cannot carry a student reference",
			})
		}
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}
	return nil
}

func (v *EventValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
