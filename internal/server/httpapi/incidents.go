package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mpfc/securebanking/internal/server/services"
)

type IncidentsHandler struct {
	incidents *services.IncidentService
}

func NewIncidentsHandler(incidents *services.IncidentService) *IncidentsHandler {
	return &IncidentsHandler{incidents: incidents}
}

// Acknowledge marks one incident as reviewed.
func (h *IncidentsHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid incident id", http.StatusBadRequest)
		return
	}

	if err := h.incidents.Acknowledge(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
