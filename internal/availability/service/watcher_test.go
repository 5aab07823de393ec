package service

import (
	"context"
	"testing"
	"time"

	rdvsrepo "github.com/Luckywi/admin-balzac/internal/rdvs/repository"
	"github.com/Luckywi/admin-balzac/pkg/config"
	"github.com/Luckywi/admin-balzac/pkg/logger"
	"github.com/Luckywi/admin-balzac/pkg/model"
)

func receiveSnapshot(t *testing.T, updates <-chan *Availability) *Availability {
	t.Helper()
	select {
	case snapshot := <-updates:
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an availability snapshot")
		return nil
	}
}

func assertNoSnapshot(t *testing.T, updates <-chan *Availability) {
	t.Helper()
	select {
	case snapshot := <-updates:
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_RepublishesOnChange(t *testing.T) {
	salon, staff, services, rdvs := defaultMocks()
	changes := make(chan rdvsrepo.RdvChange)
	rdvs.watchFn = func(ctx context.Context) (<-chan rdvsrepo.RdvChange, error) {
		return changes, nil
	}

	cfg := &config.Config{
		Log: logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"}),
	}
	availability := NewAvailabilityService(salon, staff, services, rdvs, cfg)
	watcher := NewWatcher(rdvs, availability, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = watcher.Run(ctx)
	}()

	updates, unsubscribe, err := watcher.Subscribe(ctx, "2025-07-07", "Julie", testServiceID)
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	defer unsubscribe()

	initial := receiveSnapshot(t, updates)
	if !initial.Open {
		t.Fatal("expected the initial snapshot to be open")
	}
	baseline := len(initial.Slots)

	// A booking lands on the watched staff day.
	rdvs.findByDayFn = func(ctx context.Context, day time.Time, staffID string) ([]*model.Rdv, error) {
		return []*model.Rdv{bookedRdv("a", "10:00", "10:30")}, nil
	}
	changes <- rdvsrepo.RdvChange{StaffID: "Julie", Day: testDate, Known: true}

	refreshed := receiveSnapshot(t, updates)
	if len(refreshed.Slots) >= baseline {
		t.Errorf("expected fewer slots after the booking: %d vs %d", len(refreshed.Slots), baseline)
	}

	// A change on another staff member's day is not republished.
	changes <- rdvsrepo.RdvChange{StaffID: "Marc", Day: testDate, Known: true}
	assertNoSnapshot(t, updates)

	// A delete carries no document, so every subscriber refreshes.
	rdvs.findByDayFn = func(ctx context.Context, day time.Time, staffID string) ([]*model.Rdv, error) {
		return nil, nil
	}
	changes <- rdvsrepo.RdvChange{}

	restored := receiveSnapshot(t, updates)
	if len(restored.Slots) != baseline {
		t.Errorf("expected all slots back after the delete: %d vs %d", len(restored.Slots), baseline)
	}

	cancel()
	close(changes)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestWatcher_UnsubscribeStopsUpdates(t *testing.T) {
	salon, staff, services, rdvs := defaultMocks()
	changes := make(chan rdvsrepo.RdvChange)
	rdvs.watchFn = func(ctx context.Context) (<-chan rdvsrepo.RdvChange, error) {
		return changes, nil
	}

	cfg := &config.Config{
		Log: logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"}),
	}
	availability := NewAvailabilityService(salon, staff, services, rdvs, cfg)
	watcher := NewWatcher(rdvs, availability, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = watcher.Run(ctx) }()

	updates, unsubscribe, err := watcher.Subscribe(ctx, "2025-07-07", "Julie", testServiceID)
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	receiveSnapshot(t, updates)

	unsubscribe()
	changes <- rdvsrepo.RdvChange{StaffID: "Julie", Day: testDate, Known: true}
	assertNoSnapshot(t, updates)
	close(changes)
}
