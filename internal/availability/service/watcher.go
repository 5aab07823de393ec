package service

import (
	"context"
	"sync"
	"time"

	"github.com/Luckywi/admin-balzac/internal/planning"
	rdvsrepo "github.com/Luckywi/admin-balzac/internal/rdvs/repository"
	"github.com/Luckywi/admin-balzac/pkg/config"
)

// Watcher turns rdvs collection changes into recomputed availability
// snapshots. Subscribers register for one (date, staff, service) triple
// and receive a fresh Availability whenever a booking write touches that
// staff day. The slot computation stays in AvailabilityService; the
// watcher only decides when to re-run it.
type Watcher struct {
	rdvs         rdvsrepo.RdvRepository
	availability AvailabilityService
	cfg          *config.Config

	mu     sync.Mutex
	subs   map[int]*subscription
	nextID int
}

type subscription struct {
	dateStr   string
	staffID   string
	serviceID string
	day       time.Time
	updates   chan *Availability
}

func NewWatcher(rdvs rdvsrepo.RdvRepository, availability AvailabilityService, cfg *config.Config) *Watcher {
	return &Watcher{
		rdvs:         rdvs,
		availability: availability,
		cfg:          cfg,
		subs:         make(map[int]*subscription),
	}
}

// Run consumes the change stream and fans recomputed snapshots out to
// subscribers until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	changes, err := w.rdvs.Watch(ctx)
	if err != nil {
		return err
	}

	w.cfg.Log.Info("Availability watcher started")
	for change := range changes {
		w.notify(ctx, change)
	}

	return ctx.Err()
}

// Subscribe registers for updates on one (date, staff, service) triple
// and returns a channel that immediately carries the current snapshot.
// The cancel func must be called when the subscriber goes away.
func (w *Watcher) Subscribe(ctx context.Context, dateStr, staffID, serviceID string) (<-chan *Availability, func(), error) {
	snapshot, err := w.availability.SlotsFor(ctx, dateStr, staffID, serviceID)
	if err != nil {
		return nil, nil, err
	}

	day, err := planning.ParseDate(dateStr)
	if err != nil {
		return nil, nil, err
	}

	sub := &subscription{
		dateStr:   dateStr,
		staffID:   staffID,
		serviceID: serviceID,
		day:       day,
		updates:   make(chan *Availability, 1),
	}
	sub.updates <- snapshot

	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = sub
	w.mu.Unlock()

	cancel := func() {
		w.mu.Lock()
		delete(w.subs, id)
		w.mu.Unlock()
	}
	return sub.updates, cancel, nil
}

func (w *Watcher) notify(ctx context.Context, change rdvsrepo.RdvChange) {
	w.mu.Lock()
	var affected []*subscription
	for _, sub := range w.subs {
		if !change.Known || (change.StaffID == sub.staffID && planning.SameDay(change.Day, sub.day)) {
			affected = append(affected, sub)
		}
	}
	w.mu.Unlock()

	for _, sub := range affected {
		snapshot, err := w.availability.SlotsFor(ctx, sub.dateStr, sub.staffID, sub.serviceID)
		if err != nil {
			w.cfg.Log.Warn("Failed to recompute availability after change",
				"date", sub.dateStr,
				"staff_id", sub.staffID,
				"error", err,
			)
			continue
		}

		// Latest snapshot wins; a slow subscriber only ever sees the
		// most recent state.
		select {
		case sub.updates <- snapshot:
		default:
			select {
			case <-sub.updates:
			default:
			}
			sub.updates <- snapshot
		}
	}
}
