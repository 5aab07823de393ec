package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/Luckywi/admin-balzac/internal/salon/service"
	httputil "github.com/Luckywi/admin-balzac/pkg/http"
	"github.com/Luckywi/admin-balzac/pkg/logger"
	"github.com/Luckywi/admin-balzac/pkg/model"
)

type SalonHandler struct {
	service service.SalonService
	log     *logger.Logger
}

func NewSalonHandler(service service.SalonService, log *logger.Logger) *SalonHandler {
	return &SalonHandler{
		service: service,
		log:     log,
	}
}

func (h *SalonHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	salonCfg, err := h.service.Get(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, salonCfg); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SalonHandler) Update(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var salonCfg model.SalonConfig
	if err := json.NewDecoder(r.Body).Decode(&salonCfg); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), &salonCfg); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SalonHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/salon", h.Get)
	router.PUT("/api/v1/salon", h.Update)
}
