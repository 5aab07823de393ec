package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	availabilityservice "github.com/Luckywi/admin-balzac/internal/availability/service"
	"github.com/Luckywi/admin-balzac/internal/planning"
	rdvserrors "github.com/Luckywi/admin-balzac/internal/rdvs/errors"
	"github.com/Luckywi/admin-balzac/internal/rdvs/repository"
	"github.com/Luckywi/admin-balzac/internal/rdvs/validator"
	"github.com/Luckywi/admin-balzac/pkg/config"
	mongotx "github.com/Luckywi/admin-balzac/pkg/db/mongo"
	apperrors "github.com/Luckywi/admin-balzac/pkg/errors"
	"github.com/Luckywi/admin-balzac/pkg/kafka"
	"github.com/Luckywi/admin-balzac/pkg/logger"
	"github.com/Luckywi/admin-balzac/pkg/model"
)

const (
	testServiceID = "507f1f77bcf86cd799439011"
	testRdvID     = "507f1f77bcf86cd799439022"
)

// --- Mocks ---

type mockRdvRepo struct {
	createFn    func(ctx context.Context, rdv *model.Rdv) error
	findByIDFn  func(ctx context.Context, id string) (*model.Rdv, error)
	findAllFn   func(ctx context.Context, limit int, offset int64) ([]*model.Rdv, error)
	findByDayFn func(ctx context.Context, day time.Time, staffID string) ([]*model.Rdv, error)
	updateFn    func(ctx context.Context, id string, rdv *model.Rdv) error
	deleteFn    func(ctx context.Context, id string) error
	countFn     func(ctx context.Context) (int64, error)
}

func (m *mockRdvRepo) Create(ctx context.Context, rdv *model.Rdv) error {
	return m.createFn(ctx, rdv)
}

func (m *mockRdvRepo) FindByID(ctx context.Context, id string) (*model.Rdv, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockRdvRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Rdv, error) {
	return m.findAllFn(ctx, limit, offset)
}

func (m *mockRdvRepo) FindByDay(ctx context.Context, day time.Time, staffID string) ([]*model.Rdv, error) {
	return m.findByDayFn(ctx, day, staffID)
}

func (m *mockRdvRepo) Update(ctx context.Context, id string, rdv *model.Rdv) error {
	return m.updateFn(ctx, id, rdv)
}

func (m *mockRdvRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockRdvRepo) Count(ctx context.Context) (int64, error) {
	return m.countFn(ctx)
}

func (m *mockRdvRepo) Watch(ctx context.Context) (<-chan repository.RdvChange, error) {
	panic("not used")
}

func (m *mockRdvRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepo struct {
	createFn   func(ctx context.Context, lock *model.RdvLock) (*model.RdvLock, error)
	findByIDFn func(ctx context.Context, lockID string) (*model.RdvLock, error)
	deleteFn   func(ctx context.Context, lockID string) error
}

func (m *mockLockRepo) Create(ctx context.Context, lock *model.RdvLock) (*model.RdvLock, error) {
	if m.createFn != nil {
		return m.createFn(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepo) FindByID(ctx context.Context, lockID string) (*model.RdvLock, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, lockID)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockLockRepo) Delete(ctx context.Context, lockID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, lockID)
	}
	return nil
}

type mockAvailability struct {
	slotsForDayFn func(ctx context.Context, date time.Time, staffID string, durationMin int, excludeRdvID string) ([]planning.ClockTime, error)
	called        bool
}

func (m *mockAvailability) SlotsFor(ctx context.Context, dateStr, staffID, serviceID string) (*availabilityservice.Availability, error) {
	panic("not used")
}

func (m *mockAvailability) SlotsForDay(ctx context.Context, date time.Time, staffID string, durationMin int, excludeRdvID string) ([]planning.ClockTime, error) {
	m.called = true
	return m.slotsForDayFn(ctx, date, staffID, durationMin, excludeRdvID)
}

type mockCatalog struct {
	getServiceFn func(ctx context.Context, id string) (*model.Service, error)
}

func (m *mockCatalog) CreateSection(ctx context.Context, section *model.Section) error { panic("not used") }
func (m *mockCatalog) GetSections(ctx context.Context) ([]*model.Section, error)       { panic("not used") }
func (m *mockCatalog) DeleteSection(ctx context.Context, id string) error              { panic("not used") }
func (m *mockCatalog) CreateService(ctx context.Context, svc *model.Service) error     { panic("not used") }
func (m *mockCatalog) GetServices(ctx context.Context, sectionID string) ([]*model.Service, error) {
	panic("not used")
}

func (m *mockCatalog) GetServiceByID(ctx context.Context, id string) (*model.Service, error) {
	return m.getServiceFn(ctx, id)
}

func (m *mockCatalog) UpdateService(ctx context.Context, id string, update *model.ServiceUpdate) error {
	panic("not used")
}
func (m *mockCatalog) DeleteService(ctx context.Context, id string) error { panic("not used") }

type mockPublisher struct {
	messages []kafka.Message
	err      error
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	m.messages = append(m.messages, msg)
	return m.err
}

// --- Helpers ---

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		SlotLockTTL: 10 * time.Second,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func testCatalog() *mockCatalog {
	return &mockCatalog{
		getServiceFn: func(ctx context.Context, id string) (*model.Service, error) {
			if id != testServiceID {
				return nil, apperrors.NotFoundWithID("Service", id)
			}
			return &model.Service{
				ID:       testServiceID,
				Title:    "Coupe homme",
				Duration: 30,
				Price:    25,
			}, nil
		},
	}
}

func slotsAt(t *testing.T, times ...string) []planning.ClockTime {
	t.Helper()
	slots := make([]planning.ClockTime, 0, len(times))
	for _, s := range times {
		c, err := planning.ParseClock(s)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", s, err)
		}
		slots = append(slots, c)
	}
	return slots
}

func validRequest() *model.RdvRequest {
	return &model.RdvRequest{
		ServiceID:  testServiceID,
		StaffID:    "Julie",
		Date:       "2025-07-07",
		StartTime:  "10:00",
		ClientName: "Marie Dupont",
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError with code %s, got %T: %v", code, err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code, err)
	}
}

// --- Tests ---

func TestRdvService_Create_Success(t *testing.T) {
	cfg := testConfig(t)

	var created *model.Rdv
	repo := &mockRdvRepo{
		createFn: func(ctx context.Context, rdv *model.Rdv) error {
			rdv.ID = testRdvID
			created = rdv
			return nil
		},
	}
	avail := &mockAvailability{
		slotsForDayFn: func(ctx context.Context, date time.Time, staffID string, durationMin int, excludeRdvID string) ([]planning.ClockTime, error) {
			if excludeRdvID != "" {
				t.Errorf("expected no exclusion on create, got %q", excludeRdvID)
			}
			return slotsAt(t, "09:00", "09:30", "10:00", "10:30"), nil
		},
	}
	publisher := &mockPublisher{}

	svc := NewRdvService(repo, &mockLockRepo{}, validator.NewRdvValidator(cfg.Log), avail, testCatalog(), publisher, cfg)

	rdv, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if created == nil {
		t.Fatal("repository Create was not called")
	}
	if rdv.ServiceTitle != "Coupe homme" || rdv.ServiceDuration != 30 || rdv.Price != 25 {
		t.Errorf("service snapshot not copied: %+v", rdv)
	}
	if rdv.Source != DefaultSource {
		t.Errorf("expected default source %q, got %q", DefaultSource, rdv.Source)
	}
	if got := rdv.End.Sub(rdv.Start); got != 30*time.Minute {
		t.Errorf("expected 30m duration, got %s", got)
	}
	if planning.ClockOf(rdv.Start).String() != "10:00" {
		t.Errorf("expected start at 10:00, got %s", planning.ClockOf(rdv.Start))
	}

	if len(publisher.messages) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(publisher.messages))
	}
	if publisher.messages[0].Key != "Julie" {
		t.Errorf("expected event keyed by staff, got %q", publisher.messages[0].Key)
	}
}

func TestRdvService_Create_SlotUnavailable(t *testing.T) {
	cfg := testConfig(t)

	repo := &mockRdvRepo{
		createFn: func(ctx context.Context, rdv *model.Rdv) error {
			t.Fatal("Create must not be called for an unavailable slot")
			return nil
		},
	}
	avail := &mockAvailability{
		slotsForDayFn: func(ctx context.Context, date time.Time, staffID string, durationMin int, excludeRdvID string) ([]planning.ClockTime, error) {
			return slotsAt(t, "09:00", "09:30"), nil
		},
	}

	svc := NewRdvService(repo, &mockLockRepo{}, validator.NewRdvValidator(cfg.Log), avail, testCatalog(), nil, cfg)

	_, err := svc.Create(context.Background(), validRequest())
	assertAppErrorCode(t, err, apperrors.CodeSlotUnavailable)
}

func TestRdvService_Create_LockHeld(t *testing.T) {
	cfg := testConfig(t)

	repo := &mockRdvRepo{
		createFn: func(ctx context.Context, rdv *model.Rdv) error {
			t.Fatal("Create must not be called when the lock is held")
			return nil
		},
	}
	lockRepo := &mockLockRepo{
		createFn: func(ctx context.Context, lock *model.RdvLock) (*model.RdvLock, error) {
			return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		},
		findByIDFn: func(ctx context.Context, lockID string) (*model.RdvLock, error) {
			return &model.RdvLock{ID: lockID, ExpiresAt: time.Now().Add(5 * time.Second)}, nil
		},
	}
	avail := &mockAvailability{
		slotsForDayFn: func(ctx context.Context, date time.Time, staffID string, durationMin int, excludeRdvID string) ([]planning.ClockTime, error) {
			return slotsAt(t, "10:00"), nil
		},
	}

	svc := NewRdvService(repo, lockRepo, validator.NewRdvValidator(cfg.Log), avail, testCatalog(), nil, cfg)

	_, err := svc.Create(context.Background(), validRequest())
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestRdvService_Create_TakesOverExpiredLock(t *testing.T) {
	cfg := testConfig(t)

	var created *model.Rdv
	repo := &mockRdvRepo{
		createFn: func(ctx context.Context, rdv *model.Rdv) error {
			rdv.ID = testRdvID
			created = rdv
			return nil
		},
	}

	var lockCreates int
	var deletedLock string
	lockRepo := &mockLockRepo{
		createFn: func(ctx context.Context, lock *model.RdvLock) (*model.RdvLock, error) {
			lockCreates++
			if lockCreates == 1 {
				return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
			}
			return lock, nil
		},
		findByIDFn: func(ctx context.Context, lockID string) (*model.RdvLock, error) {
			return &model.RdvLock{ID: lockID, ExpiresAt: time.Now().Add(-time.Minute)}, nil
		},
		deleteFn: func(ctx context.Context, lockID string) error {
			deletedLock = lockID
			return nil
		},
	}
	avail := &mockAvailability{
		slotsForDayFn: func(ctx context.Context, date time.Time, staffID string, durationMin int, excludeRdvID string) ([]planning.ClockTime, error) {
			return slotsAt(t, "10:00"), nil
		},
	}

	svc := NewRdvService(repo, lockRepo, validator.NewRdvValidator(cfg.Log), avail, testCatalog(), nil, cfg)

	if _, err := svc.Create(context.Background(), validRequest()); err != nil {
		t.Fatalf("an expired leftover lock must not block the booking: %v", err)
	}

	if created == nil {
		t.Fatal("repository Create was not called")
	}
	if deletedLock == "" {
		t.Error("the expired lock must be removed before re-acquiring")
	}
	if lockCreates != 2 {
		t.Errorf("expected the lock re-acquired after takeover, got %d creates", lockCreates)
	}
}

func TestRdvService_Create_ServiceNotFound(t *testing.T) {
	cfg := testConfig(t)

	svc := NewRdvService(&mockRdvRepo{}, &mockLockRepo{}, validator.NewRdvValidator(cfg.Log), &mockAvailability{}, testCatalog(), nil, cfg)

	req := validRequest()
	req.ServiceID = "507f1f77bcf86cd799439099"

	_, err := svc.Create(context.Background(), req)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestRdvService_Create_ValidationFailure(t *testing.T) {
	cfg := testConfig(t)

	svc := NewRdvService(&mockRdvRepo{}, &mockLockRepo{}, validator.NewRdvValidator(cfg.Log), &mockAvailability{}, testCatalog(), nil, cfg)

	req := validRequest()
	req.ClientName = "   "

	_, err := svc.Create(context.Background(), req)
	assertAppErrorCode(t, err, apperrors.CodeValidation)
}

func TestRdvService_Create_PublishFailureDoesNotFailBooking(t *testing.T) {
	cfg := testConfig(t)

	repo := &mockRdvRepo{
		createFn: func(ctx context.Context, rdv *model.Rdv) error {
			rdv.ID = testRdvID
			return nil
		},
	}
	avail := &mockAvailability{
		slotsForDayFn: func(ctx context.Context, date time.Time, staffID string, durationMin int, excludeRdvID string) ([]planning.ClockTime, error) {
			return slotsAt(t, "10:00"), nil
		},
	}
	publisher := &mockPublisher{err: kafka.ErrProducerClosed}

	svc := NewRdvService(repo, &mockLockRepo{}, validator.NewRdvValidator(cfg.Log), avail, testCatalog(), publisher, cfg)

	if _, err := svc.Create(context.Background(), validRequest()); err != nil {
		t.Fatalf("booking must succeed even when the event publish fails, got: %v", err)
	}
}

func existingRdv() *model.Rdv {
	start := time.Date(2025, 7, 7, 10, 0, 0, 0, time.Local)
	return &model.Rdv{
		ID:              testRdvID,
		ServiceID:       testServiceID,
		ServiceTitle:    "Coupe homme",
		ServiceDuration: 30,
		StaffID:         "Julie",
		Start:           start,
		End:             start.Add(30 * time.Minute),
		ClientName:      "Marie Dupont",
		Source:          DefaultSource,
	}
}

func TestRdvService_Update_ClientFieldsOnly(t *testing.T) {
	cfg := testConfig(t)

	var updated *model.Rdv
	repo := &mockRdvRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Rdv, error) {
			return existingRdv(), nil
		},
		updateFn: func(ctx context.Context, id string, rdv *model.Rdv) error {
			updated = rdv
			return nil
		},
	}
	avail := &mockAvailability{
		slotsForDayFn: func(ctx context.Context, date time.Time, staffID string, durationMin int, excludeRdvID string) ([]planning.ClockTime, error) {
			return nil, nil
		},
	}

	svc := NewRdvService(repo, &mockLockRepo{}, validator.NewRdvValidator(cfg.Log), avail, testCatalog(), nil, cfg)

	name := "Chloé Lefèvre"
	err := svc.Update(context.Background(), testRdvID, &model.RdvUpdate{ClientName: &name})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if avail.called {
		t.Error("availability must not be re-checked for client-only edits")
	}
	if updated == nil || updated.ClientName != name {
		t.Errorf("client name not updated: %+v", updated)
	}
	if !updated.Start.Equal(existingRdv().Start) {
		t.Errorf("start must not change on client-only edits")
	}
}

func TestRdvService_Update_RescheduleRevalidates(t *testing.T) {
	cfg := testConfig(t)

	var updated *model.Rdv
	repo := &mockRdvRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Rdv, error) {
			return existingRdv(), nil
		},
		updateFn: func(ctx context.Context, id string, rdv *model.Rdv) error {
			updated = rdv
			return nil
		},
	}
	avail := &mockAvailability{
		slotsForDayFn: func(ctx context.Context, date time.Time, staffID string, durationMin int, excludeRdvID string) ([]planning.ClockTime, error) {
			if excludeRdvID != testRdvID {
				t.Errorf("reschedule must exclude the moved rdv, got %q", excludeRdvID)
			}
			if durationMin != 30 {
				t.Errorf("reschedule must reuse the stored duration, got %d", durationMin)
			}
			return slotsAt(t, "14:00"), nil
		},
	}

	svc := NewRdvService(repo, &mockLockRepo{}, validator.NewRdvValidator(cfg.Log), avail, testCatalog(), nil, cfg)

	err := svc.Update(context.Background(), testRdvID, &model.RdvUpdate{StartTime: "14:00"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if !avail.called {
		t.Fatal("availability must be re-checked on reschedule")
	}
	if planning.ClockOf(updated.Start).String() != "14:00" {
		t.Errorf("expected new start 14:00, got %s", planning.ClockOf(updated.Start))
	}
	if got := updated.End.Sub(updated.Start); got != 30*time.Minute {
		t.Errorf("expected end recomputed from duration, got %s", got)
	}
}

func TestRdvService_Update_RescheduleToTakenSlot(t *testing.T) {
	cfg := testConfig(t)

	repo := &mockRdvRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Rdv, error) {
			return existingRdv(), nil
		},
		updateFn: func(ctx context.Context, id string, rdv *model.Rdv) error {
			t.Fatal("Update must not persist a move to a taken slot")
			return nil
		},
	}
	avail := &mockAvailability{
		slotsForDayFn: func(ctx context.Context, date time.Time, staffID string, durationMin int, excludeRdvID string) ([]planning.ClockTime, error) {
			return slotsAt(t, "09:00"), nil
		},
	}

	svc := NewRdvService(repo, &mockLockRepo{}, validator.NewRdvValidator(cfg.Log), avail, testCatalog(), nil, cfg)

	err := svc.Update(context.Background(), testRdvID, &model.RdvUpdate{StartTime: "14:00"})
	assertAppErrorCode(t, err, apperrors.CodeSlotUnavailable)
}

func TestRdvService_Delete_NotFound(t *testing.T) {
	cfg := testConfig(t)

	repo := &mockRdvRepo{
		deleteFn: func(ctx context.Context, id string) error {
			return rdvserrors.ErrNotFound
		},
	}

	svc := NewRdvService(repo, &mockLockRepo{}, validator.NewRdvValidator(cfg.Log), &mockAvailability{}, testCatalog(), nil, cfg)

	err := svc.Delete(context.Background(), testRdvID)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}
