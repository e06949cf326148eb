package handlers

import (
	"net/http"
	"strconv"

	"github.com/ashgrove-hs/housepoints/internal/api/middleware"
	"github.com/ashgrove-hs/housepoints/internal/api/respond"
	"github.com/ashgrove-hs/housepoints/internal/audit"
	"github.com/ashgrove-hs/housepoints/internal/domain/points"
	"github.com/ashgrove-hs/housepoints/internal/storage"
)

type HousesHandler struct {
	Points *points.Service
	Audit  *audit.Logger
}

func NewHousesHandler(pointsService *points.Service, auditor *audit.Logger) *HousesHandler {
	return &HousesHandler{Points: pointsService, Audit: auditor}
}

func (h *HousesHandler) List(w http.ResponseWriter, r *http.Request) {
	houses, err := h.Points.Houses(r.Context())
	if err != nil {
		h.Audit.Failure(r.Context(), r, "Error listing houses", nil, nil, http.StatusInternalServerError, err)
		respond.JSON(w, http.StatusInternalServerError, []storage.House{})
		return
	}

	h.Audit.Info(r.Context(), r, "Houses listed successfully", nil, nil, http.StatusOK)
	respond.JSON(w, http.StatusOK, orEmpty(houses))
}

// HousePoints returns the derived point sum for the house named by the
// houseId query parameter. A missing or unparseable id sums to zero, it is
// not an error.
func (h *HousesHandler) HousePoints(w http.ResponseWriter, r *http.Request) {
	houseID, _ := strconv.ParseInt(r.URL.Query().Get("houseId"), 10, 64)

	total, err := h.Points.HousePoints(r.Context(), houseID)
	if err != nil {
		h.Audit.Failure(r.Context(), r, "Error summing house points", nil, nil, http.StatusInternalServerError, err)
		respond.JSON(w, http.StatusInternalServerError, map[string]int64{"points": 0})
		return
	}

	h.Audit.Info(r.Context(), r, "House points summed successfully", nil, nil, http.StatusOK)
	respond.JSON(w, http.StatusOK, map[string]int64{"points": total})
}

func (h *HousesHandler) TopTeachers(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Points.TopTeachers(r.Context())
	if err != nil {
		h.Audit.Failure(r.Context(), r, "Error ranking teachers", nil, nil, http.StatusInternalServerError, err)
		respond.JSON(w, http.StatusInternalServerError, []points.Entry{})
		return
	}

	h.Audit.Info(r.Context(), r, "Top teachers ranked successfully", nil, nil, http.StatusOK)
	respond.JSON(w, http.StatusOK, orEmpty(entries))
}

func (h *HousesHandler) TopStudents(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Points.TopStudents(r.Context())
	if err != nil {
		h.Audit.Failure(r.Context(), r, "Error ranking students", nil, nil, http.StatusInternalServerError, err)
		respond.JSON(w, http.StatusInternalServerError, []points.Entry{})
		return
	}

	h.Audit.Info(r.Context(), r, "Top students ranked successfully", nil, nil, http.StatusOK)
	respond.JSON(w, http.StatusOK, orEmpty(entries))
}

// ClearAll zeroes every student balance. The transaction log keeps its
// history.
func (h *HousesHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	if err := h.Points.ClearAll(r.Context()); err != nil {
		h.Audit.Failure(r.Context(), r, "Error clearing house points", actorID(identity), actorName(identity), http.StatusInternalServerError, err)
		respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	h.Audit.Info(r.Context(), r, "House points cleared successfully", actorID(identity), actorName(identity), http.StatusOK)
	respond.JSON(w, http.StatusOK, statusSuccess)
}
