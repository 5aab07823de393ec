// Package validation wires the custom struct-tag validations shared by
// every domain validator: clock times ("HH:MM"), ISO dates ("YYYY-MM-DD")
// and lowercase weekday names.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Luckywi/admin-balzac/pkg/model"
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

// New returns a validator with the domain tags registered.
func New() (*validator.Validate, error) {
	v := validator.New()

	for tag, fn := range map[string]validator.Func{
		"clock_time":  validateClockTime,
		"date_iso":    validateDateISO,
		"day_of_week": validateDayOfWeek,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("failed to register %q validation: %w", tag, err)
		}
	}

	return v, nil
}

// Strict zero-padded HH:MM; looser forms would leak non-canonical
// strings into stored schedules.
var clockTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func validateClockTime(fl validator.FieldLevel) bool {
	return clockTimePattern.MatchString(fl.Field().String())
}

func validateDateISO(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func validateDayOfWeek(fl validator.FieldLevel) bool {
	return model.Weekday(fl.Field().String()).Valid()
}

// Translate converts validator errors to field-level messages.
func Translate(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "clock_time":
			message = fmt.Sprintf("%s must be a clock time in HH:MM format", err.Field())
		case "date_iso":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "day_of_week":
			message = fmt.Sprintf("%s must be a lowercase weekday name (monday..sunday)", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
