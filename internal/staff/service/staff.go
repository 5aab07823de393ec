package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	stafferrors "github.com/Luckywi/admin-balzac/internal/staff/errors"
	"github.com/Luckywi/admin-balzac/internal/staff/repository"
	"github.com/Luckywi/admin-balzac/internal/staff/validator"
	"github.com/Luckywi/admin-balzac/pkg/config"
	apperrors "github.com/Luckywi/admin-balzac/pkg/errors"
	"github.com/Luckywi/admin-balzac/pkg/model"
	"github.com/Luckywi/admin-balzac/pkg/sanitizer"
)

type StaffService interface {
	Create(ctx context.Context, member *model.StaffMember) error
	GetByID(ctx context.Context, id string) (*model.StaffMember, error)
	GetAll(ctx context.Context) ([]*model.StaffMember, error)
	UpdateAvailability(ctx context.Context, id string, update *model.StaffAvailabilityUpdate) error
	Delete(ctx context.Context, id string) error
}

type staffService struct {
	repo      repository.StaffRepository
	validator *validator.StaffValidator
	cfg       *config.Config
}

func NewStaffService(repo repository.StaffRepository, validator *validator.StaffValidator, cfg *config.Config) StaffService {
	return &staffService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *staffService) Create(ctx context.Context, member *model.StaffMember) error {
	member.ID = sanitizer.NormalizeName(member.ID)
	s.normalizeSchedule(member.WorkingHours, member.Breaks, member.Vacations)

	if err := s.validator.Validate(member); err != nil {
		s.cfg.Log.Warn("Staff validation failed", "error", err)
		return apperrors.Validation("Staff validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, member); err != nil {
		if errors.Is(err, stafferrors.ErrAlreadyExists) {
			return apperrors.Conflict("A staff member with this name already exists")
		}
		s.cfg.Log.Error("Failed to create staff member", "id", member.ID, "error", err)
		return apperrors.Internal("Failed to create staff member", err)
	}

	s.cfg.Log.Info("Staff member created", "id", member.ID)
	return nil
}

func (s *staffService) GetByID(ctx context.Context, id string) (*model.StaffMember, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Staff ID cannot be empty")
	}

	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, stafferrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Staff member", id)
		}
		return nil, apperrors.Internal("Failed to retrieve staff member", err)
	}

	normalizeDefaults(member)
	return member, nil
}

func (s *staffService) GetAll(ctx context.Context) ([]*model.StaffMember, error) {
	members, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list staff members", "error", err)
		return nil, apperrors.Internal("Failed to retrieve staff members", err)
	}

	for _, member := range members {
		normalizeDefaults(member)
	}
	return members, nil
}

func (s *staffService) UpdateAvailability(ctx context.Context, id string, update *model.StaffAvailabilityUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Staff ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, stafferrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Staff member", id)
		}
		return apperrors.Internal("Failed to check staff member existence", err)
	}

	s.normalizeSchedule(update.WorkingHours, update.Breaks, update.Vacations)

	if err := s.validator.ValidateAvailability(update); err != nil {
		s.cfg.Log.Warn("Staff availability validation failed", "id", id, "error", err)
		return apperrors.Validation("Staff availability validation failed", map[string]any{"error": err.Error()})
	}

	existing.WorkingHours = update.WorkingHours
	existing.Breaks = update.Breaks
	existing.Vacations = update.Vacations

	if err := s.repo.Replace(ctx, id, existing); err != nil {
		if errors.Is(err, stafferrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Staff member", id)
		}
		s.cfg.Log.Error("Failed to update staff availability", "id", id, "error", err)
		return apperrors.Internal("Failed to update staff availability", err)
	}

	s.cfg.Log.Info("Staff availability updated",
		"id", id,
		"breaks", len(update.Breaks),
		"vacations", len(update.Vacations),
	)
	return nil
}

func (s *staffService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Staff ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, stafferrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Staff member", id)
		}
		s.cfg.Log.Error("Failed to delete staff member", "id", id, "error", err)
		return apperrors.Internal("Failed to delete staff member", err)
	}

	s.cfg.Log.Info("Staff member deleted", "id", id)
	return nil
}

// normalizeSchedule assigns ids to new breaks and vacations so the
// frontend can address them individually.
func (s *staffService) normalizeSchedule(_ map[model.Weekday]model.StaffDay, breaks []model.StaffBreak, vacations []model.StaffVacation) {
	for i := range breaks {
		if breaks[i].ID == "" {
			breaks[i].ID = uuid.New().String()
		}
	}
	for i := range vacations {
		if vacations[i].ID == "" {
			vacations[i].ID = uuid.New().String()
		}
	}
}

// normalizeDefaults fills nil collections so API consumers always see a
// complete schedule shape.
func normalizeDefaults(member *model.StaffMember) {
	if member.WorkingHours == nil {
		member.WorkingHours = make(map[model.Weekday]model.StaffDay, len(model.AllWeekdays))
	}
	for _, day := range model.AllWeekdays {
		if _, ok := member.WorkingHours[day]; !ok {
			member.WorkingHours[day] = model.StaffDay{Working: false}
		}
	}
	if member.Breaks == nil {
		member.Breaks = []model.StaffBreak{}
	}
	if member.Vacations == nil {
		member.Vacations = []model.StaffVacation{}
	}
}
