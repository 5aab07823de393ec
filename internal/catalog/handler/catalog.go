package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/Luckywi/admin-balzac/internal/catalog/service"
	httputil "github.com/Luckywi/admin-balzac/pkg/http"
	"github.com/Luckywi/admin-balzac/pkg/logger"
	"github.com/Luckywi/admin-balzac/pkg/model"
)

type CatalogHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(service service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log,
	}
}

func (h *CatalogHandler) CreateSection(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var section model.Section
	if err := json.NewDecoder(r.Body).Decode(&section); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateSection", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.CreateSection(r.Context(), &section); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateSection", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, section); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateSection", "operation", "WriteCreated", "error", err)
	}
}

func (h *CatalogHandler) GetSections(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sections, err := h.service.GetSections(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetSections", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, sections); err != nil {
		h.log.Error("failed to write success response", "handler", "GetSections", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) DeleteSection(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.DeleteSection(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DeleteSection", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var svc model.Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateService", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.CreateService(r.Context(), &svc); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateService", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, svc); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateService", "operation", "WriteCreated", "error", err)
	}
}

func (h *CatalogHandler) GetServices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sectionID := r.URL.Query().Get("section_id")

	services, err := h.service.GetServices(r.Context(), sectionID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetServices", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, services); err != nil {
		h.log.Error("failed to write success response", "handler", "GetServices", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) GetServiceByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	svc, err := h.service.GetServiceByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetServiceByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, svc); err != nil {
		h.log.Error("failed to write success response", "handler", "GetServiceByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) UpdateService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var update model.ServiceUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateService", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.UpdateService(r.Context(), id, &update); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateService", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CatalogHandler) DeleteService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.DeleteService(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DeleteService", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/sections", h.CreateSection)
	router.GET("/api/v1/sections", h.GetSections)
	router.DELETE("/api/v1/sections/id/:id", h.DeleteSection)

	router.POST("/api/v1/services", h.CreateService)
	router.GET("/api/v1/services", h.GetServices)
	router.GET("/api/v1/services/id/:id", h.GetServiceByID)
	router.PATCH("/api/v1/services/id/:id", h.UpdateService)
	router.DELETE("/api/v1/services/id/:id", h.DeleteService)
}
