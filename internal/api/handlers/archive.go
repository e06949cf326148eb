package handlers

import (
	"net/http"

	"github.com/ashgrove-hs/housepoints/internal/api/middleware"
	"github.com/ashgrove-hs/housepoints/internal/api/respond"
	"github.com/ashgrove-hs/housepoints/internal/audit"
	"github.com/ashgrove-hs/housepoints/internal/domain/archive"
)

type ArchiveHandler struct {
	Archive *archive.Service
	Audit   *audit.Logger
}

func NewArchiveHandler(archiveService *archive.Service, auditor *audit.Logger) *ArchiveHandler {
	return &ArchiveHandler{Archive: archiveService, Audit: auditor}
}

type archiveRequest struct {
	ResetStats bool `json:"resetstats"`
}

// Create snapshots the current standings. resetstats additionally zeroes
// all balances, but only when the caller is an admin; for anyone else the
// snapshot is taken and the reset silently skipped.
func (h *ArchiveHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req archiveRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respond.Error(w, r, http.StatusBadRequest, "Invalid request", err)
			return
		}
	}

	captured, err := h.Archive.Create(r.Context(), req.ResetStats, identity != nil && identity.Admin)
	if err != nil {
		h.Audit.Failure(r.Context(), r, "Error archiving", actorID(identity), actorName(identity), http.StatusInternalServerError, err)
		respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	h.Audit.Info(r.Context(), r, "Data archived successfully", actorID(identity), actorName(identity), http.StatusCreated)
	respond.JSON(w, http.StatusCreated, map[string]any{
		"status":        "success",
		"archived_data": captured,
	})
}

// List returns every snapshot newest first.
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.Archive.List(r.Context())
	if err != nil {
		h.Audit.Failure(r.Context(), r, "Error retrieving archives", nil, nil, http.StatusInternalServerError, err)
		respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	respond.JSON(w, http.StatusOK, orEmpty(snapshots))
}
