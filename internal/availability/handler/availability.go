package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/Luckywi/admin-balzac/internal/availability/service"
	httputil "github.com/Luckywi/admin-balzac/pkg/http"
	"github.com/Luckywi/admin-balzac/pkg/logger"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	watcher *service.Watcher
	log     *logger.Logger
}

func NewAvailabilityHandler(availability service.AvailabilityService, watcher *service.Watcher, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: availability,
		watcher: watcher,
		log:     log,
	}
}

func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	date := query.Get("date")
	staffID := query.Get("staff_id")
	serviceID := query.Get("service_id")

	if date == "" || staffID == "" || serviceID == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "'date', 'staff_id' and 'service_id' query parameters are required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Get", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	availability, err := h.service.SlotsFor(r.Context(), date, staffID, serviceID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

// Watch streams availability snapshots for one (date, staff, service)
// triple as server-sent events: the current state on connect, then a
// fresh snapshot after every booking change on that staff day.
func (h *AvailabilityHandler) Watch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	date := query.Get("date")
	staffID := query.Get("staff_id")
	serviceID := query.Get("service_id")

	if date == "" || staffID == "" || serviceID == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "'date', 'staff_id' and 'service_id' query parameters are required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Watch", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	updates, cancel, err := h.watcher.Subscribe(r.Context(), date, staffID, serviceID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Watch", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot := <-updates:
			payload, err := json.Marshal(snapshot)
			if err != nil {
				h.log.Error("failed to encode availability snapshot", "handler", "Watch", "error", err)
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.Get)
	router.GET("/api/v1/availability/watch", h.Watch)
}
