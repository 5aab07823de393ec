package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/Luckywi/admin-balzac/internal/planning"
	"github.com/Luckywi/admin-balzac/pkg/logger"
	"github.com/Luckywi/admin-balzac/pkg/model"
	"github.com/Luckywi/admin-balzac/pkg/validation"
)

type StaffValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewStaffValidator(log *logger.Logger) *StaffValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize staff validator", "error", err)
	}

	return &StaffValidator{
		validate: v,
		logger:   log,
	}
}

func (v *StaffValidator) Validate(member *model.StaffMember) error {
	if err := v.validate.Struct(member); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	return v.checkSchedule(member.WorkingHours, member.Breaks, member.Vacations)
}

func (v *StaffValidator) ValidateAvailability(update *model.StaffAvailabilityUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	return v.checkSchedule(update.WorkingHours, update.Breaks, update.Vacations)
}

func (v *StaffValidator) checkSchedule(workingHours map[model.Weekday]model.StaffDay, breaks []model.StaffBreak, vacations []model.StaffVacation) error {
	for day, sched := range workingHours {
		if !day.Valid() {
			return validation.ValidationErrors{
				validation.ValidationError{
					Field:   "WorkingHours",
					Message: string(day) + " is not a weekday name",
				},
			}
		}
		if !sched.Working {
			continue
		}
		for _, h := range sched.Ranges {
			if !wellFormedHours(h) {
				return validation.ValidationErrors{
					validation.ValidationError{
						Field:   "WorkingHours",
						Message: string(day) + " working ranges must satisfy start < end",
					},
				}
			}
		}
	}

	for _, b := range breaks {
		if !wellFormedHours(model.Hours{Start: b.Start, End: b.End}) {
			return validation.ValidationErrors{
				validation.ValidationError{
					Field:   "Breaks",
					Message: "break on " + string(b.Day) + " must satisfy start < end",
				},
			}
		}
	}

	for _, vac := range vacations {
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
