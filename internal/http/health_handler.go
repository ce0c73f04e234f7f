package http

import (
	"net/http"

	"github.com/Identilink/identilink/internal/domain"
	"github.com/Identilink/identilink/pkg/logger"
)

type HealthHandler struct {
	store  domain.ContactStore
	logger logger.Logger
}

func NewHealthHandler(store domain.ContactStore, logger logger.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		logger: logger,
	}
}

func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)
}

func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.WithField("error", err.Error()).Error("Health check failed")
		WriteJSONError(w, "database unreachable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
