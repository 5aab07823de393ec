package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	availabilityservice "github.com/Luckywi/admin-balzac/internal/availability/service"
	catalogservice "github.com/Luckywi/admin-balzac/internal/catalog/service"
	"github.com/Luckywi/admin-balzac/internal/planning"
	rdvserrors "github.com/Luckywi/admin-balzac/internal/rdvs/errors"
	"github.com/Luckywi/admin-balzac/internal/rdvs/repository"
	"github.com/Luckywi/admin-balzac/internal/rdvs/validator"
	"github.com/Luckywi/admin-balzac/pkg/config"
	"github.com/Luckywi/admin-balzac/pkg/contracts"
	apperrors "github.com/Luckywi/admin-balzac/pkg/errors"
	"github.com/Luckywi/admin-balzac/pkg/kafka"
	"github.com/Luckywi/admin-balzac/pkg/model"
	"github.com/Luckywi/admin-balzac/pkg/sanitizer"
)

// DefaultSource tags rdvs booked through the admin calendar.
const DefaultSource = "RdvCalendar"

// EventPublisher is the slice of the Kafka producer the service needs.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type RdvService interface {
	Create(ctx context.Context, req *model.RdvRequest) (*model.Rdv, error)
	GetByID(ctx context.Context, id string) (*model.Rdv, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Rdv, int64, error)
	GetByDay(ctx context.Context, dateStr string, staffID string) ([]*model.Rdv, error)
	Update(ctx context.Context, id string, update *model.RdvUpdate) error
	Delete(ctx context.Context, id string) error
}

type rdvService struct {
	repo         repository.RdvRepository
	lockRepo     repository.RdvLockRepository
	validator    *validator.RdvValidator
	availability availabilityservice.AvailabilityService
	catalog      catalogservice.CatalogService
	publisher    EventPublisher
	cfg          *config.Config
}

func NewRdvService(
	repo repository.RdvRepository,
	lockRepo repository.RdvLockRepository,
	validator *validator.RdvValidator,
	availability availabilityservice.AvailabilityService,
	catalog catalogservice.CatalogService,
	publisher EventPublisher,
	cfg *config.Config,
) RdvService {
	return &rdvService{
		repo:         repo,
		lockRepo:     lockRepo,
		validator:    validator,
		availability: availability,
		catalog:      catalog,
		publisher:    publisher,
		cfg:          cfg,
	}
}

func (s *rdvService) Create(ctx context.Context, req *model.RdvRequest) (*model.Rdv, error) {
	s.sanitizeRequest(req)

	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Rdv request validation failed", "error", err)
		return nil, apperrors.Validation("Rdv request validation failed", map[string]any{"error": err.Error()})
	}

	svc, err := s.catalog.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	date, err := planning.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}
	startClock, err := planning.ParseClock(req.StartTime)
	if err != nil {
		return nil, apperrors.InvalidInput("Start time must be in HH:MM format")
	}

	start := startClock.On(date)
	rdv := &model.Rdv{
		ServiceID:       svc.ID,
		ServiceTitle:    svc.Title,
		ServiceDuration: svc.Duration,
		StaffID:         req.StaffID,
		Start:           start,
		End:             start.Add(time.Duration(svc.Duration) * time.Minute),
		ClientName:      req.ClientName,
		ClientPhone:     req.ClientPhone,
		Notes:           req.Notes,
		Price:           svc.Price,
		Source:          req.Source,
	}
	if rdv.Source == "" {
		rdv.Source = DefaultSource
	}

	// Advisory lock so two requests for the same slot cannot both pass
	// the availability re-check below.
	lockID, err := s.acquireSlotLock(ctx, rdv.StaffID, rdv.Start)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release rdv lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.checkSlotAvailable(sessCtx, date, rdv.StaffID, svc.Duration, startClock, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, rdv); err != nil {
			return apperrors.Internal("Failed to create rdv", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create rdv", "staff_id", rdv.StaffID, "start", rdv.Start, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Rdv created",
		"id", rdv.ID,
		"staff_id", rdv.StaffID,
		"service_id", rdv.ServiceID,
		"start", rdv.Start,
	)

	s.publishCreated(ctx, rdv)
	return rdv, nil
}

func (s *rdvService) GetByID(ctx context.Context, id string) (*model.Rdv, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Rdv ID cannot be empty")
	}

	rdv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, rdvserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Rdv", id)
		}
		if errors.Is(err, rdvserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid rdv ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve rdv", err)
	}

	return rdv, nil
}

func (s *rdvService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Rdv, int64, error) {
	var count int64
	var rdvs []*model.Rdv
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count rdvs", "error", errCount)
			errCount = apperrors.Internal("Failed to count rdvs", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		rdvs, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list rdvs", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve rdvs", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rdvs, count, nil
}

func (s *rdvService) GetByDay(ctx context.Context, dateStr string, staffID string) ([]*model.Rdv, error) {
	date, err := planning.ParseDate(dateStr)
	if err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	rdvs, err := s.repo.FindByDay(ctx, date, staffID)
	if err != nil {
		s.cfg.Log.Error("Failed to list rdvs by day", "date", dateStr, "staff_id", staffID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve rdvs", err)
	}

	return rdvs, nil
}

func (s *rdvService) Update(ctx context.Context, id string, update *model.RdvUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Rdv ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	s.sanitizeUpdate(update)

	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Rdv update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged, err := s.mergeRdvUpdates(existing, update)
	if err != nil {
		return err
	}

	if !update.Reschedules() {
		if err := s.repo.Update(ctx, id, merged); err != nil {
			if errors.Is(err, rdvserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Rdv", id)
			}
			s.cfg.Log.Error("Failed to update rdv", "id", id, "error", err)
			return apperrors.Internal("Failed to update rdv", err)
		}
		s.cfg.Log.Info("Rdv updated", "id", id)
		return nil
	}

	// The move targets a new (staff, start) pair, which gets the same
	// lock and re-check as a fresh booking.
	date := time.Date(merged.Start.Year(), merged.Start.Month(), merged.Start.Day(), 0, 0, 0, 0, merged.Start.Location())
	startClock := planning.ClockOf(merged.Start)

	lockID, err := s.acquireSlotLock(ctx, merged.StaffID, merged.Start)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release rdv lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.checkSlotAvailable(sessCtx, date, merged.StaffID, merged.ServiceDuration, startClock, id); err != nil {
			return err
		}
		if err := s.repo.Update(sessCtx, id, merged); err != nil {
			if errors.Is(err, rdvserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Rdv", id)
			}
			return apperrors.Internal("Failed to update rdv", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to reschedule rdv", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Rdv rescheduled",
		"id", id,
		"staff_id", merged.StaffID,
		"start", merged.Start,
	)
	return nil
}

func (s *rdvService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Rdv ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, rdvserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Rdv", id)
		}
		if errors.Is(err, rdvserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid rdv ID format")
		}
		s.cfg.Log.Error("Failed to delete rdv", "id", id, "error", err)
		return apperrors.Internal("Failed to delete rdv", err)
	}

	s.cfg.Log.Info("Rdv deleted", "id", id)
	return nil
}

// --- Helpers ---

func (s *rdvService) sanitizeRequest(req *model.RdvRequest) {
	req.ClientName = sanitizer.NormalizeName(req.ClientName)
	req.Notes = sanitizer.TrimAndNormalize(req.Notes)
	if normalized := sanitizer.NormalizePhone(req.ClientPhone); normalized != "" {
		req.ClientPhone = normalized
	} else {
		req.ClientPhone = sanitizer.TrimAndNormalize(req.ClientPhone)
	}
}

func (s *rdvService) sanitizeUpdate(update *model.RdvUpdate) {
	if update.ClientName != nil {
		name := sanitizer.NormalizeName(*update.ClientName)
		update.ClientName = &name
	}
	if update.Notes != nil {
		notes := sanitizer.TrimAndNormalize(*update.Notes)
		update.Notes = &notes
	}
	if update.ClientPhone != nil {
		phone := sanitizer.NormalizePhone(*update.ClientPhone)
		if phone == "" {
			phone = sanitizer.TrimAndNormalize(*update.ClientPhone)
		}
		update.ClientPhone = &phone
	}
}

// mergeRdvUpdates applies the partial edit onto a copy of the stored
// rdv. A reschedule recomputes start/end from the rdv's stored duration.
func (s *rdvService) mergeRdvUpdates(existing *model.Rdv, update *model.RdvUpdate) (*model.Rdv, error) {
	merged := *existing

	if update.ClientName != nil {
		merged.ClientName = *update.ClientName
	}
	if update.ClientPhone != nil {
		merged.ClientPhone = *update.ClientPhone
	}
	if update.Notes != nil {
		merged.Notes = *update.Notes
	}
	if update.StaffID != "" {
		merged.StaffID = update.StaffID
	}

	if update.Date != "" || update.StartTime != "" {
		dateStr := update.Date
		if dateStr == "" {
			dateStr = existing.Start.Format(planning.DateLayout)
		}
		date, err := planning.ParseDate(dateStr)
		if err != nil {
			return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
		}

		startClock := planning.ClockOf(existing.Start)
		if update.StartTime != "" {
			startClock, err = planning.ParseClock(update.StartTime)
			if err != nil {
				return nil, apperrors.InvalidInput("Start time must be in HH:MM format")
			}
		}

		merged.Start = startClock.On(date)
		merged.End = merged.Start.Add(time.Duration(merged.ServiceDuration) * time.Minute)
	}

	return &merged, nil
}

// checkSlotAvailable re-runs the slot generator with fresh reads and
// rejects the booking when the requested start is not in the result.
func (s *rdvService) checkSlotAvailable(ctx context.Context, date time.Time, staffID string, durationMin int, start planning.ClockTime, excludeRdvID string) error {
	slots, err := s.availability.SlotsForDay(ctx, date, staffID, durationMin, excludeRdvID)
	if err != nil {
		return err
	}

	for _, slot := range slots {
		if slot == start {
			return nil
		}
	}

	return apperrors.SlotUnavailable("The requested slot is no longer available")
}

func (s *rdvService) publishCreated(ctx context.Context, rdv *model.Rdv) {
	if s.publisher == nil {
		return
	}

	event := contracts.RdvCreatedEvent{
		RdvID:        rdv.ID,
		StaffID:      rdv.StaffID,
		ServiceTitle: rdv.ServiceTitle,
		ClientName:   rdv.ClientName,
		Start:        rdv.Start,
		End:          rdv.End,
		Source:       rdv.Source,
	}

	msg := kafka.NewMessage().
		WithKey(rdv.StaffID).
		WithValue(event).
		WithEventType(contracts.EventTypeRdvCreated).
		WithSource("admin").
		Build()

	// Best effort: the booking is already committed, a lost event only
	// costs a push notification.
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish rdv.created event", "rdv_id", rdv.ID, "error", err)
	}
}

const lockHeldMessage = "This slot is currently being booked by another request. Please try again."

// acquireSlotLock creates an advisory lock keyed by staff and start instant.
func (s *rdvService) acquireSlotLock(ctx context.Context, staffID string, start time.Time) (string, error) {
	lockID := fmt.Sprintf("rdv_lock_%s_%d", staffID, start.Unix())

	lock := &model.RdvLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.SlotLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return s.takeOverExpiredLock(ctx, lock)
		}
		return "", apperrors.Internal("Failed to acquire rdv lock", err)
	}

	return lockID, nil
}

// takeOverExpiredLock claims a lock left behind by a crashed request.
// Mongo's TTL reaper runs on a coarse interval, so waiting for it would
// block the slot for up to a minute after the lock expired.
func (s *rdvService) takeOverExpiredLock(ctx context.Context, lock *model.RdvLock) (string, error) {
	existing, err := s.lockRepo.FindByID(ctx, lock.ID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		// The holder released between our insert and this read.
	case err != nil:
		return "", apperrors.Internal("Failed to inspect rdv lock", err)
	case time.Now().Before(existing.ExpiresAt):
		return "", apperrors.Conflict(lockHeldMessage)
	default:
		s.cfg.Log.Warn("Taking over expired rdv lock", "lock_id", lock.ID, "expired_at", existing.ExpiresAt)
		if err := s.lockRepo.Delete(ctx, lock.ID); err != nil {
			return "", apperrors.Internal("Failed to remove expired rdv lock", err)
		}
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict(lockHeldMessage)
		}
		return "", apperrors.Internal("Failed to acquire rdv lock", err)
	}

	return lock.ID, nil
}

func (s *rdvService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
