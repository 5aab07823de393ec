package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	notificationserrors "github.com/Luckywi/admin-balzac/internal/notifications/errors"
	"github.com/Luckywi/admin-balzac/internal/notifications/repository"
	apperrors "github.com/Luckywi/admin-balzac/pkg/errors"
	httputil "github.com/Luckywi/admin-balzac/pkg/http"
	"github.com/Luckywi/admin-balzac/pkg/logger"
	"github.com/Luckywi/admin-balzac/pkg/model"
	"github.com/Luckywi/admin-balzac/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type DeviceTokenHandler struct {
	tokens   repository.DeviceTokenRepository
	validate *validator.Validate
	log      *logger.Logger
}

func NewDeviceTokenHandler(tokens repository.DeviceTokenRepository, log *logger.Logger) *DeviceTokenHandler {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize device token validator", "error", err)
	}

	return &DeviceTokenHandler{
		tokens:   tokens,
		validate: v,
		log:      log,
	}
}

func (h *DeviceTokenHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var token model.DeviceToken
	if err := json.NewDecoder(r.Body).Decode(&token); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Register", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.validate.Struct(&token); err != nil {
		var validationErrs validator.ValidationErrors
		message := "Device token validation failed"
		if errors.As(err, &validationErrs) {
			message = validation.Translate(validationErrs).Error()
		}
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput(message)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Register", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.tokens.Upsert(r.Context(), &token); err != nil {
		h.log.Error("Failed to register device token", "error", err)
		if writeErr := httputil.WriteError(w, apperrors.Internal("Failed to register device token", err)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Register", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, token); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

func (h *DeviceTokenHandler) Unregister(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	token := ps.ByName("token")

	if err := h.tokens.Delete(r.Context(), token); err != nil {
		if errors.Is(err, notificationserrors.ErrTokenNotFound) {
			if writeErr := httputil.WriteError(w, apperrors.NotFound("Device token")); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Unregister", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		h.log.Error("Failed to delete device token", "error", err)
		if writeErr := httputil.WriteError(w, apperrors.Internal("Failed to delete device token", err)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Unregister", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *DeviceTokenHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/device-tokens", h.Register)
	router.DELETE("/api/v1/device-tokens/token/:token", h.Unregister)
}
