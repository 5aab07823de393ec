package app

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"

	httputil "github.com/Luckywi/admin-balzac/pkg/http"
	"github.com/Luckywi/admin-balzac/pkg/logger"
)

type healthHandler struct {
	mongo *mongo.Client
	log   *logger.Logger
}

func newHealthHandler(mongoClient *mongo.Client, log *logger.Logger) *healthHandler {
	return &healthHandler{
		mongo: mongoClient,
		log:   log,
	}
}

// Health reports process liveness.
func (h *healthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		h.log.Error("failed to write health response", "error", err)
	}
}

// Ready reports readiness: the database must answer a ping.
func (h *healthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.mongo == nil {
		if err := httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "no database"}); err != nil {
			h.log.Error("failed to write readiness response", "error", err)
		}
		return
	}

	if err := h.mongo.Ping(r.Context(), nil); err != nil {
		h.log.Warn("Readiness check failed", "error", err)
		if writeErr := httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "database unreachable"}); writeErr != nil {
			h.log.Error("failed to write readiness response", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"}); err != nil {
		h.log.Error("failed to write readiness response", "error", err)
	}
}

func (h *healthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
