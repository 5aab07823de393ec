package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	notificationserrors "github.com/Luckywi/admin-balzac/internal/notifications/errors"
	"github.com/Luckywi/admin-balzac/pkg/config"
)

// Push is one notification addressed to one device.
type Push struct {
	Token string
	Title string
	Body  string
}

// Sender delivers a push notification to a single device.
type Sender interface {
	Send(ctx context.Context, push Push) error
}

// fcmSender posts to the FCM legacy HTTP endpoint, the transport the
// mobile app already registers its tokens for.
type fcmSender struct {
	endpoint  string
	serverKey string
	client    *http.Client
}

func NewFCMSender(cfg *config.Config) Sender {
	return &fcmSender{
		endpoint:  cfg.PushEndpoint,
		serverKey: cfg.PushServerKey,
		client: &http.Client{
			Timeout: cfg.PushTimeout,
		},
	}
}

type fcmRequest struct {
	To           string          `json:"to"`
	Notification fcmNotification `json:"notification"`
	Priority     string          `json:"priority"`
	TTL          string          `json:"time_to_live,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound,omitempty"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		Error string `json:"error"`
	} `json:"results"`
}

func (s *fcmSender) Send(ctx context.Context, push Push) error {
	payload := fcmRequest{
		To: push.Token,
		Notification: fcmNotification{
			Title: push.Title,
			Body:  push.Body,
			Sound: "default",
		},
		Priority: "high",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.serverKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push endpoint returned %d: %s", resp.StatusCode, string(snippet))
	}

	// FCM reports per-token failures with a 200 status.
	var result fcmResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&result); err != nil {
		return nil
	}
	if result.Failure > 0 && len(result.Results) > 0 {
		switch result.Results[0].Error {
		case "NotRegistered", "InvalidRegistration", "MismatchSenderId":
			return fmt.Errorf("%w: %s", notificationserrors.ErrUnregistered, result.Results[0].Error)
		default:
			return fmt.Errorf("push rejected: %s", result.Results[0].Error)
		}
	}

	return nil
}
