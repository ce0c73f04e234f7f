package http

import (
	"errors"
	"net/http"

	"github.com/Identilink/identilink/internal/domain"
	"github.com/Identilink/identilink/pkg/logger"
)

type ReconcileHandler struct {
	service domain.ReconcileService
	logger  logger.Logger
}

func NewReconcileHandler(service domain.ReconcileService, logger logger.Logger) *ReconcileHandler {
	return &ReconcileHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ReconcileHandler) RegisterRoutes(mux *http.ServeMux) {
	// Register RPC-style endpoints with dot notation
	mux.HandleFunc("/api/contacts.identify", h.handleIdentify)
}

func (h *ReconcileHandler) handleIdentify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req := &domain.IdentifyRequest{}
	if err := req.FromJSON(r.Body); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	contact, err := h.service.Reconcile(r.Context(), req)
	if err != nil {
		var validation domain.ValidationError
		if errors.As(err, &validation) {
			WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		var unavailable *domain.ErrStoreUnavailable
		if errors.As(err, &unavailable) {
			WriteJSONError(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to reconcile contact")
		WriteJSONError(w, "Failed to reconcile contact", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"contact": contact,
	})
}
