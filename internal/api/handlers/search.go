package handlers

import (
	"net/http"
	"strings"

	"github.com/ashgrove-hs/housepoints/internal/api/respond"
	"github.com/ashgrove-hs/housepoints/internal/audit"
	"github.com/ashgrove-hs/housepoints/internal/domain/roster"
	"github.com/ashgrove-hs/housepoints/internal/storage"
)

type SearchHandler struct {
	Roster *roster.Service
	Audit  *audit.Logger
}

func NewSearchHandler(rosterService *roster.Service, auditor *audit.Logger) *SearchHandler {
	return &SearchHandler{Roster: rosterService, Audit: auditor}
}

// Users searches students by default; userType=teacher searches teacher
// accounts instead. Matching is a case-insensitive substring match.
func (h *SearchHandler) Users(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	userType := strings.ToLower(r.URL.Query().Get("userType"))

	var (
		refs []storage.UserRef
		err  error
	)
	if userType == "teacher" {
		refs, err = h.Roster.SearchTeachers(r.Context(), query)
	} else {
		refs, err = h.Roster.SearchStudents(r.Context(), query)
	}
	if err != nil {
		h.Audit.Failure(r.Context(), r, "Error searching users", nil, nil, http.StatusInternalServerError, err)
		respond.JSON(w, http.StatusInternalServerError, []storage.UserRef{})
		return
	}

	h.Audit.Info(r.Context(), r, "User search executed successfully", nil, nil, http.StatusOK)
	respond.JSON(w, http.StatusOK, orEmpty(refs))
}

// Teachers is the standalone teacher search endpoint with the same match
// contract as Users with userType=teacher.
func (h *SearchHandler) Teachers(w http.ResponseWriter, r *http.Request) {
	refs, err := h.Roster.SearchTeachers(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.Audit.Failure(r.Context(), r, "Error searching teachers", nil, nil, http.StatusInternalServerError, err)
		respond.JSON(w, http.StatusInternalServerError, []storage.UserRef{})
		return
	}

	h.Audit.Info(r.Context(), r, "Teacher search executed successfully", nil, nil, http.StatusOK)
	respond.JSON(w, http.StatusOK, orEmpty(refs))
}
