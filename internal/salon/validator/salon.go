package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/Luckywi/admin-balzac/internal/planning"
	"github.com/Luckywi/admin-balzac/pkg/logger"
	"github.com/Luckywi/admin-balzac/pkg/model"
	"github.com/Luckywi/admin-balzac/pkg/validation"
)

type SalonValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSalonValidator(log *logger.Logger) *SalonValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize salon validator", "error", err)
	}

	return &SalonValidator{
		validate: v,
		logger:   log,
	}
}

func (v *SalonValidator) Validate(cfg *model.SalonConfig) error {
	if err := v.validate.Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	// Every declared workday needs coherent opening hours.
	for day, working := range cfg.WorkDays {
		if !working {
			continue
		}
		hours, ok := cfg.WorkHours[day]
		if !ok {
			return validation.ValidationErrors{
				validation.ValidationError{
					Field:   "WorkHours",
					Message: string(day) + " is a workday but has no opening hours",
				},
			}
		}
		if !wellFormedHours(hours) {
			return validation.ValidationErrors{
				validation.ValidationError{
					Field:   "WorkHours",
					Message: string(day) + " opening hours must satisfy start < end",
				},
			}
		}
	}

	for _, b := range cfg.Breaks {
		if !wellFormedHours(model.Hours{Start: b.Start, End: b.End}) {
			return validation.ValidationErrors{
				validation.ValidationError{
					Field:   "Breaks",
					Message: "break on " + string(b.Day) + " must satisfy start < end",
				},
			}
		}
	}

	for _, vac := range cfg.Vacations {
		if vac.EndDate < vac.StartDate {
			return validation.ValidationErrors{
				validation.ValidationError{
					Field:   "Vacations",
					Message: "vacation end_date must not be before start_date",
				},
			}
		}
	}

	return nil
}

func wellFormedHours(h model.Hours) bool {
	start, err := planning.ParseClock(h.Start)
	if err != nil {
		return false
	}
	end, err := planning.ParseClock(h.End)
	if err != nil {
		return false
	}
	return start < end
}
