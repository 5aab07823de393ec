package validator

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Luckywi/admin-balzac/pkg/logger"
	"github.com/Luckywi/admin-balzac/pkg/model"
	"github.com/Luckywi/admin-balzac/pkg/validation"
)

type RdvValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRdvValidator(log *logger.Logger) *RdvValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize rdv validator", "error", err)
	}

	return &RdvValidator{
		validate: v,
		logger:   log,
	}
}

func (v *RdvValidator) ValidateRequest(req *model.RdvRequest) error {
	return v.check(req)
}

func (v *RdvValidator) ValidateUpdate(update *model.RdvUpdate) error {
	return v.check(update)
}

func (v *RdvValidator) Validate(rdv *model.Rdv) error {
	if err := v.check(rdv); err != nil {
		return err
	}

	if !rdv.End.Equal(rdv.Start.Add(time.Duration(rdv.ServiceDuration) * time.Minute)) {
		return validation.ValidationErrors{
			validation.ValidationError{
				Field:   "End",
				Message: "end must equal start plus the service duration",
			},
		}
	}

	return nil
}

func (v *RdvValidator) check(value any) error {
	if err := v.validate.Struct(value); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}

