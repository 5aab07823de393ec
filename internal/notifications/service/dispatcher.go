package service

import (
	"context"
	"errors"
	"fmt"

	notificationserrors "github.com/Luckywi/admin-balzac/internal/notifications/errors"
	"github.com/Luckywi/admin-balzac/internal/notifications/repository"
	"github.com/Luckywi/admin-balzac/pkg/config"
	"github.com/Luckywi/admin-balzac/pkg/contracts"
	"github.com/Luckywi/admin-balzac/pkg/kafka"
)

// Dispatcher fans a booking event out to every registered device. The
// app is French-facing, so the notification body is French.
type Dispatcher struct {
	tokens repository.DeviceTokenRepository
	sender Sender
	cfg    *config.Config
}

func NewDispatcher(tokens repository.DeviceTokenRepository, sender Sender, cfg *config.Config) *Dispatcher {
	return &Dispatcher{
		tokens: tokens,
		sender: sender,
		cfg:    cfg,
	}
}

// HandleMessage is the Kafka consumer entry point.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var event contracts.RdvCreatedEvent
	if err := msg.DecodeValue(&event); err != nil {
		// A payload we cannot decode will never decode on retry.
		return kafka.NewPermanentError("failed to decode rdv.created event", err)
	}

	return d.Dispatch(ctx, event)
}

// Dispatch sends the notification to all registered devices. Delivery is
// best effort per device: one dead token must not block the others.
func (d *Dispatcher) Dispatch(ctx context.Context, event contracts.RdvCreatedEvent) error {
	tokens, err := d.tokens.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load device tokens: %w", err)
	}

	if len(tokens) == 0 {
		d.cfg.Log.Debug("No registered devices, skipping notification", "rdv_id", event.RdvID)
		return nil
	}

	push := Push{
		Title: "Nouveau RDV",
		Body:  notificationBody(event),
	}

	var delivered, failed int
	for _, token := range tokens {
		push.Token = token.Token
		if err := d.sender.Send(ctx, push); err != nil {
			failed++
			if errors.Is(err, notificationserrors.ErrUnregistered) {
				if delErr := d.tokens.Delete(ctx, token.Token); delErr != nil {
					d.cfg.Log.Warn("Failed to remove unregistered device token", "error", delErr)
				} else {
					d.cfg.Log.Info("Removed unregistered device token", "platform", token.Platform)
				}
				continue
			}
			d.cfg.Log.Warn("Failed to deliver push notification",
				"rdv_id", event.RdvID,
				"platform", token.Platform,
				"error", err,
			)
			continue
		}
		delivered++
	}

	d.cfg.Log.Info("Booking notification dispatched",
		"rdv_id", event.RdvID,
		"delivered", delivered,
		"failed", failed,
	)
	return nil
}

func notificationBody(event contracts.RdvCreatedEvent) string {
	return fmt.Sprintf("%s a pris un RDV le %s à %s",
		event.ClientName,
		event.Start.Format("02/01/2006"),
		event.Start.Format("15:04"),
	)
}
