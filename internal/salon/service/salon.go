package service

import (
	"context"
	"errors"

	salonerrors "github.com/Luckywi/admin-balzac/internal/salon/errors"
	"github.com/Luckywi/admin-balzac/internal/salon/repository"
	"github.com/Luckywi/admin-balzac/internal/salon/validator"
	"github.com/Luckywi/admin-balzac/pkg/config"
	apperrors "github.com/Luckywi/admin-balzac/pkg/errors"
	"github.com/Luckywi/admin-balzac/pkg/model"
)

type SalonService interface {
	Get(ctx context.Context) (*model.SalonConfig, error)
	Update(ctx context.Context, cfg *model.SalonConfig) error
}

type salonService struct {
	repo      repository.SalonRepository
	validator *validator.SalonValidator
	cfg       *config.Config
}

func NewSalonService(repo repository.SalonRepository, validator *validator.SalonValidator, cfg *config.Config) SalonService {
	return &salonService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *salonService) Get(ctx context.Context) (*model.SalonConfig, error) {
	salonCfg, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, salonerrors.ErrNotFound) {
			return nil, apperrors.NotFound("Salon configuration not found")
		}
		return nil, apperrors.Internal("Failed to retrieve salon configuration", err)
	}

	return salonCfg, nil
}

func (s *salonService) Update(ctx context.Context, salonCfg *model.SalonConfig) error {
	if err := s.validator.Validate(salonCfg); err != nil {
		s.cfg.Log.Warn("Salon configuration validation failed", "error", err)
		return apperrors.Validation("Salon configuration validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Upsert(ctx, salonCfg); err != nil {
		s.cfg.Log.Error("Failed to update salon configuration", "error", err)
		return apperrors.Internal("Failed to update salon configuration", err)
	}

	s.cfg.Log.Info("Salon configuration updated",
		"workdays", len(salonCfg.WorkDays),
		"breaks", len(salonCfg.Breaks),
		"vacations", len(salonCfg.Vacations),
	)
	return nil
}
