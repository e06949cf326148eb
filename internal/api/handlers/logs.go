package handlers

import (
	"net/http"

	"github.com/ashgrove-hs/housepoints/internal/api/respond"
	"github.com/ashgrove-hs/housepoints/internal/audit"
	"github.com/ashgrove-hs/housepoints/internal/storage"
)

// logsLimit caps the audit listing; older entries are only reachable
// through the database.
const logsLimit = 500

type LogsHandler struct {
	Store storage.AuditRepository
	Audit *audit.Logger
}

func NewLogsHandler(store storage.AuditRepository, auditor *audit.Logger) *LogsHandler {
	return &LogsHandler{Store: store, Audit: auditor}
}

// List returns the newest audit entries.
func (h *LogsHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.List(r.Context(), logsLimit)
	if err != nil {
		h.Audit.Failure(r.Context(), r, "Error retrieving logs", nil, nil, http.StatusInternalServerError, err)
		respond.JSON(w, http.StatusInternalServerError, []storage.AuditEntry{})
		return
	}

	h.Audit.Info(r.Context(), r, "Logs retrieved successfully", nil, nil, http.StatusOK)
	respond.JSON(w, http.StatusOK, orEmpty(entries))
}
