package service

import (
	"context"
	"errors"
	"time"

	catalogerrors "github.com/Luckywi/admin-balzac/internal/catalog/errors"
	catalogrepo "github.com/Luckywi/admin-balzac/internal/catalog/repository"
	"github.com/Luckywi/admin-balzac/internal/planning"
	rdvsrepo "github.com/Luckywi/admin-balzac/internal/rdvs/repository"
	salonerrors "github.com/Luckywi/admin-balzac/internal/salon/errors"
	salonrepo "github.com/Luckywi/admin-balzac/internal/salon/repository"
	stafferrors "github.com/Luckywi/admin-balzac/internal/staff/errors"
	staffrepo "github.com/Luckywi/admin-balzac/internal/staff/repository"
	"github.com/Luckywi/admin-balzac/pkg/config"
	apperrors "github.com/Luckywi/admin-balzac/pkg/errors"
)

// Availability is the bookable-slot list for one (date, staff, service)
// triple. Slots are "HH:MM" start times in ascending order.
type Availability struct {
	Date            string   `json:"date"`
	StaffID         string   `json:"staff_id"`
	ServiceID       string   `json:"service_id"`
	ServiceDuration int      `json:"service_duration"`
	Open            bool     `json:"open"`
	Slots           []string `json:"slots"`
}

// AvailabilityService computes bookable slots. The booking path calls
// SlotsForDay inside its transaction with fresh reads, so the published
// lists and the create-time re-check can never disagree on semantics.
type AvailabilityService interface {
	SlotsFor(ctx context.Context, dateStr, staffID, serviceID string) (*Availability, error)
	SlotsForDay(ctx context.Context, date time.Time, staffID string, durationMin int, excludeRdvID string) ([]planning.ClockTime, error)
}

type availabilityService struct {
	salon    salonrepo.SalonRepository
	staff    staffrepo.StaffRepository
	services catalogrepo.ServiceRepository
	rdvs     rdvsrepo.RdvRepository
	cfg      *config.Config
}

func NewAvailabilityService(
	salon salonrepo.SalonRepository,
	staff staffrepo.StaffRepository,
	services catalogrepo.ServiceRepository,
	rdvs rdvsrepo.RdvRepository,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		salon:    salon,
		staff:    staff,
		services: services,
		rdvs:     rdvs,
		cfg:      cfg,
	}
}

func (s *availabilityService) SlotsFor(ctx context.Context, dateStr, staffID, serviceID string) (*Availability, error) {
	if staffID == "" {
		return nil, apperrors.InvalidInput("Staff ID cannot be empty")
	}
	if serviceID == "" {
		return nil, apperrors.InvalidInput("Service ID cannot be empty")
	}

	date, err := planning.ParseDate(dateStr)
	if err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	svc, err := s.services.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrServiceNotFound) {
			return nil, apperrors.NotFoundWithID("Service", serviceID)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid service ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve service", err)
	}

	slots, err := s.SlotsForDay(ctx, date, staffID, svc.Duration, "")
	if err != nil {
		return nil, err
	}

	result := &Availability{
		Date:            dateStr,
		StaffID:         staffID,
		ServiceID:       serviceID,
		ServiceDuration: svc.Duration,
		Open:            len(slots) > 0,
		Slots:           planning.FormatSlots(slots),
	}

	s.cfg.Log.Debug("Availability computed",
		"date", dateStr,
		"staff_id", staffID,
		"service_id", serviceID,
		"slots", len(result.Slots),
	)
	return result, nil
}

// SlotsForDay loads the schedules and the day's bookings, then runs the
// slot generator. A missing salon configuration means no published
// opening hours, which reads as closed. excludeRdvID drops one rdv from
// the conflict set, so a reschedule does not collide with itself.
func (s *availabilityService) SlotsForDay(ctx context.Context, date time.Time, staffID string, durationMin int, excludeRdvID string) ([]planning.ClockTime, error) {
	salonCfg, err := s.salon.Get(ctx)
	if err != nil {
		if errors.Is(err, salonerrors.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("Failed to retrieve salon configuration", err)
	}

	member, err := s.staff.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, stafferrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Staff member", staffID)
		}
		return nil, apperrors.Internal("Failed to retrieve staff member", err)
	}

	dayRdvs, err := s.rdvs.FindByDay(ctx, date, staffID)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve rdvs for the day", err)
	}

	if excludeRdvID != "" {
		kept := dayRdvs[:0]
		for _, rdv := range dayRdvs {
			if rdv.ID != excludeRdvID {
				kept = append(kept, rdv)
			}
		}
		dayRdvs = kept
	}

	salonSchedule := planning.NewSalonSchedule(salonCfg)
	staffSchedule := planning.NewStaffSchedule(member)
	conflicts := planning.NewConflictIndex(staffID, date, dayRdvs)

	return planning.GenerateSlots(date, durationMin, salonSchedule, staffSchedule, conflicts), nil
}
