package service

import (
	"context"
	"errors"
	"testing"
	"time"

	notificationserrors "github.com/Luckywi/admin-balzac/internal/notifications/errors"
	"github.com/Luckywi/admin-balzac/pkg/config"
	"github.com/Luckywi/admin-balzac/pkg/contracts"
	"github.com/Luckywi/admin-balzac/pkg/kafka"
	"github.com/Luckywi/admin-balzac/pkg/logger"
	"github.com/Luckywi/admin-balzac/pkg/model"
)

type mockTokenRepo struct {
	findAllFn func(ctx context.Context) ([]*model.DeviceToken, error)
	deleted   []string
}

func (m *mockTokenRepo) Upsert(ctx context.Context, token *model.DeviceToken) error {
	panic("not used")
}

func (m *mockTokenRepo) FindAll(ctx context.Context) ([]*model.DeviceToken, error) {
	return m.findAllFn(ctx)
}

func (m *mockTokenRepo) Delete(ctx context.Context, token string) error {
	m.deleted = append(m.deleted, token)
	return nil
}

type mockSender struct {
	sendFn func(ctx context.Context, push Push) error
	sent   []Push
}

func (m *mockSender) Send(ctx context.Context, push Push) error {
	m.sent = append(m.sent, push)
	if m.sendFn != nil {
		return m.sendFn(ctx, push)
	}
	return nil
}

func testDispatcher(tokens *mockTokenRepo, sender *mockSender) *Dispatcher {
	cfg := &config.Config{
		Log: logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"}),
	}
	return NewDispatcher(tokens, sender, cfg)
}

func testEvent() contracts.RdvCreatedEvent {
	start := time.Date(2025, 7, 7, 10, 0, 0, 0, time.Local)
	return contracts.RdvCreatedEvent{
		RdvID:        "507f1f77bcf86cd799439022",
		StaffID:      "Julie",
		ServiceTitle: "Coupe homme",
		ClientName:   "Marie Dupont",
		Start:        start,
		End:          start.Add(30 * time.Minute),
		Source:       "RdvCalendar",
	}
}

func tokenList(tokens ...string) []*model.DeviceToken {
	list := make([]*model.DeviceToken, 0, len(tokens))
	for _, t := range tokens {
		list = append(list, &model.DeviceToken{Token: t, Platform: "ios"})
	}
	return list
}

func TestDispatch_AllDevices(t *testing.T) {
	repo := &mockTokenRepo{
		findAllFn: func(ctx context.Context) ([]*model.DeviceToken, error) {
			return tokenList("device-token-one", "device-token-two"), nil
		},
	}
	sender := &mockSender{}

	err := testDispatcher(repo, sender).Dispatch(context.Background(), testEvent())
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 pushes, got %d", len(sender.sent))
	}

	push := sender.sent[0]
	if push.Title != "Nouveau RDV" {
		t.Errorf("unexpected title %q", push.Title)
	}
	want := "Marie Dupont a pris un RDV le 07/07/2025 à 10:00"
	if push.Body != want {
		t.Errorf("expected body %q, got %q", want, push.Body)
	}
}

func TestDispatch_OneDeadTokenDoesNotBlockOthers(t *testing.T) {
	repo := &mockTokenRepo{
		findAllFn: func(ctx context.Context) ([]*model.DeviceToken, error) {
			return tokenList("dead-device-token", "live-device-token"), nil
		},
	}
	sender := &mockSender{
		sendFn: func(ctx context.Context, push Push) error {
			if push.Token == "dead-device-token" {
				return errors.New("registration token not valid")
			}
			return nil
		},
	}

	err := testDispatcher(repo, sender).Dispatch(context.Background(), testEvent())
	if err != nil {
		t.Fatalf("a per-device failure must not fail the dispatch: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected delivery attempted on both devices, got %d", len(sender.sent))
	}
}

func TestDispatch_PrunesUnregisteredTokens(t *testing.T) {
	repo := &mockTokenRepo{
		findAllFn: func(ctx context.Context) ([]*model.DeviceToken, error) {
			return tokenList("stale-device-token", "live-device-token"), nil
		},
	}
	sender := &mockSender{
		sendFn: func(ctx context.Context, push Push) error {
			if push.Token == "stale-device-token" {
				return notificationserrors.ErrUnregistered
			}
			return nil
		},
	}

	if err := testDispatcher(repo, sender).Dispatch(context.Background(), testEvent()); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}

	if len(repo.deleted) != 1 || repo.deleted[0] != "stale-device-token" {
		t.Errorf("expected the stale token removed, got %v", repo.deleted)
	}
}

func TestDispatch_NoDevices(t *testing.T) {
	repo := &mockTokenRepo{
		findAllFn: func(ctx context.Context) ([]*model.DeviceToken, error) {
			return nil, nil
		},
	}
	sender := &mockSender{}

	if err := testDispatcher(repo, sender).Dispatch(context.Background(), testEvent()); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("no devices registered, nothing should be sent")
	}
}

func TestHandleMessage_UndecodablePayloadIsPermanent(t *testing.T) {
	sender := &mockSender{}
	dispatcher := testDispatcher(&mockTokenRepo{}, sender)

	msg := kafka.Message{Value: []byte("not json")}
	err := dispatcher.HandleMessage(context.Background(), msg)
	if err == nil {
		t.Fatal("expected an error for an undecodable payload")
	}

	var kafkaErr *kafka.KafkaError
	if !errors.As(err, &kafkaErr) || kafkaErr.Type != kafka.ErrorTypePermanent {
		t.Fatalf("expected a permanent error, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Error("nothing should be dispatched for a bad payload")
	}
}
