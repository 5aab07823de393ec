package service

import (
	"context"
	"errors"

	catalogerrors "github.com/Luckywi/admin-balzac/internal/catalog/errors"
	"github.com/Luckywi/admin-balzac/internal/catalog/repository"
	"github.com/Luckywi/admin-balzac/internal/catalog/validator"
	"github.com/Luckywi/admin-balzac/pkg/config"
	apperrors "github.com/Luckywi/admin-balzac/pkg/errors"
	"github.com/Luckywi/admin-balzac/pkg/model"
	"github.com/Luckywi/admin-balzac/pkg/sanitizer"
)

type CatalogService interface {
	CreateSection(ctx context.Context, section *model.Section) error
	GetSections(ctx context.Context) ([]*model.Section, error)
	DeleteSection(ctx context.Context, id string) error

	CreateService(ctx context.Context, svc *model.Service) error
	GetServices(ctx context.Context, sectionID string) ([]*model.Service, error)
	GetServiceByID(ctx context.Context, id string) (*model.Service, error)
	UpdateService(ctx context.Context, id string, update *model.ServiceUpdate) error
	DeleteService(ctx context.Context, id string) error
}

type catalogService struct {
	sections  repository.SectionRepository
	services  repository.ServiceRepository
	validator *validator.CatalogValidator
	cfg       *config.Config
}

func NewCatalogService(
	sections repository.SectionRepository,
	services repository.ServiceRepository,
	validator *validator.CatalogValidator,
	cfg *config.Config,
) CatalogService {
	return &catalogService{
		sections:  sections,
		services:  services,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *catalogService) CreateSection(ctx context.Context, section *model.Section) error {
	section.Title = sanitizer.TrimAndNormalize(section.Title)

	if err := s.validator.ValidateSection(section); err != nil {
		s.cfg.Log.Warn("Section validation failed", "error", err)
		return apperrors.Validation("Section validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.sections.Create(ctx, section); err != nil {
		s.cfg.Log.Error("Failed to create section", "error", err)
		return apperrors.Internal("Failed to create section", err)
	}

	s.cfg.Log.Info("Section created", "id", section.ID, "title", section.Title)
	return nil
}

func (s *catalogService) GetSections(ctx context.Context) ([]*model.Section, error) {
	sections, err := s.sections.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list sections", "error", err)
		return nil, apperrors.Internal("Failed to retrieve sections", err)
	}
	return sections, nil
}

// DeleteSection refuses to remove a section that still has services, so
// no service is ever left pointing at a missing section.
func (s *catalogService) DeleteSection(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Section ID cannot be empty")
	}

	count, err := s.services.CountBySection(ctx, id)
	if err != nil {
		return apperrors.Internal("Failed to check section usage", err)
	}
	if count > 0 {
		return apperrors.Conflict("Section still has services attached, delete or move them first")
	}

	if err := s.sections.Delete(ctx, id); err != nil {
		if errors.Is(err, catalogerrors.ErrSectionNotFound) {
			return apperrors.NotFoundWithID("Section", id)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid section ID format")
		}
		s.cfg.Log.Error("Failed to delete section", "id", id, "error", err)
		return apperrors.Internal("Failed to delete section", err)
	}

	s.cfg.Log.Info("Section deleted", "id", id)
	return nil
}

func (s *catalogService) CreateService(ctx context.Context, svc *model.Service) error {
	svc.Title = sanitizer.TrimAndNormalize(svc.Title)
	svc.Description = sanitizer.TrimAndNormalize(svc.Description)

	if err := s.validator.ValidateService(svc); err != nil {
		s.cfg.Log.Warn("Service validation failed", "error", err)
		return apperrors.Validation("Service validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.sections.FindByID(ctx, svc.SectionID); err != nil {
		if errors.Is(err, catalogerrors.ErrSectionNotFound) {
			return apperrors.NotFoundWithID("Section", svc.SectionID)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid section ID format")
		}
		return apperrors.Internal("Failed to check section existence", err)
	}

	if err := s.services.Create(ctx, svc); err != nil {
		s.cfg.Log.Error("Failed to create service", "error", err)
		return apperrors.Internal("Failed to create service", err)
	}

	s.cfg.Log.Info("Service created",
		"id", svc.ID,
		"title", svc.Title,
		"duration", svc.Duration,
		"section_id", svc.SectionID,
	)
	return nil
}

func (s *catalogService) GetServices(ctx context.Context, sectionID string) ([]*model.Service, error) {
	var services []*model.Service
	var err error

	if sectionID != "" {
		services, err = s.services.FindBySection(ctx, sectionID)
	} else {
		services, err = s.services.FindAll(ctx)
	}
	if err != nil {
		s.cfg.Log.Error("Failed to list services", "section_id", sectionID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve services", err)
	}

	return services, nil
}

func (s *catalogService) GetServiceByID(ctx context.Context, id string) (*model.Service, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Service ID cannot be empty")
	}

	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrServiceNotFound) {
			return nil, apperrors.NotFoundWithID("Service", id)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid service ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve service", err)
	}

	return svc, nil
}

func (s *catalogService) UpdateService(ctx context.Context, id string, update *model.ServiceUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Service ID cannot be empty")
	}

	if err := s.validator.ValidateServiceUpdate(update); err != nil {
		s.cfg.Log.Warn("Service update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.GetServiceByID(ctx, id)
	if err != nil {
		return err
	}

	merged := s.mergeServiceUpdates(existing, update)

	if merged.SectionID != existing.SectionID {
		if _, err := s.sections.FindByID(ctx, merged.SectionID); err != nil {
			if errors.Is(err, catalogerrors.ErrSectionNotFound) {
				return apperrors.NotFoundWithID("Section", merged.SectionID)
			}
			if errors.Is(err, catalogerrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid section ID format")
			}
			return apperrors.Internal("Failed to check section existence", err)
		}
	}

	if err := s.validator.ValidateService(merged); err != nil {
		s.cfg.Log.Warn("Service validation failed after merge", "id", id, "error", err)
		return apperrors.Validation("Service validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.services.Update(ctx, id, merged); err != nil {
		if errors.Is(err, catalogerrors.ErrServiceNotFound) {
			return apperrors.NotFoundWithID("Service", id)
		}
		s.cfg.Log.Error("Failed to update service", "id", id, "error", err)
		return apperrors.Internal("Failed to update service", err)
	}

	s.cfg.Log.Info("Service updated", "id", id)
	return nil
}

func (s *catalogService) DeleteService(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Service ID cannot be empty")
	}

	if err := s.services.Delete(ctx, id); err != nil {
		if errors.Is(err, catalogerrors.ErrServiceNotFound) {
			return apperrors.NotFoundWithID("Service", id)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid service ID format")
		}
		s.cfg.Log.Error("Failed to delete service", "id", id, "error", err)
		return apperrors.Internal("Failed to delete service", err)
	}

	s.cfg.Log.Info("Service deleted", "id", id)
	return nil
}

// Bookings keep their own copy of title/duration/price, so catalog
// edits never rewrite existing rdvs.
func (s *catalogService) mergeServiceUpdates(existing *model.Service, update *model.ServiceUpdate) *model.Service {
	merged := *existing

	if update.Title != "" {
		merged.Title = sanitizer.TrimAndNormalize(update.Title)
	}
	if update.Description != nil {
		merged.Description = sanitizer.TrimAndNormalize(*update.Description)
	}
	if update.Duration != nil {
		merged.Duration = *update.Duration
	}
	if update.Price != nil {
		merged.Price = *update.Price
	}
	if update.SectionID != "" {
		merged.SectionID = update.SectionID
	}

	return &merged
}
