package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/Luckywi/admin-balzac/pkg/logger"
	"github.com/Luckywi/admin-balzac/pkg/model"
	"github.com/Luckywi/admin-balzac/pkg/validation"
)

type CatalogValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCatalogValidator(log *logger.Logger) *CatalogValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize catalog validator", "error", err)
	}

	return &CatalogValidator{
		validate: v,
		logger:   log,
	}
}

func (v *CatalogValidator) ValidateSection(section *model.Section) error {
	return v.check(section)
}

func (v *CatalogValidator) ValidateService(svc *model.Service) error {
	return v.check(svc)
}

func (v *CatalogValidator) ValidateServiceUpdate(update *model.ServiceUpdate) error {
	return v.check(update)
}

func (v *CatalogValidator) check(value any) error {
	if err := v.validate.Struct(value); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}
