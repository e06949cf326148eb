package handlers

import (
	"net/http"

	"github.com/ashgrove-hs/housepoints/internal/api/middleware"
	"github.com/ashgrove-hs/housepoints/internal/api/respond"
	"github.com/ashgrove-hs/housepoints/internal/audit"
	"github.com/ashgrove-hs/housepoints/internal/domain/points"
)

type PointsHandler struct {
	Points *points.Service
	Audit  *audit.Logger
}

func NewPointsHandler(pointsService *points.Service, auditor *audit.Logger) *PointsHandler {
	return &PointsHandler{Points: pointsService, Audit: auditor}
}

type awardRequest struct {
	StudentID int64  `json:"studentId" validate:"required"`
	Points    int64  `json:"points"`
	Reason    string `json:"reason"`
}

// Award credits (or debits, the amount may be negative) a student's balance
// and appends the matching transaction-log row in one transaction. The
// acting teacher comes from the gate, never from the body.
func (h *PointsHandler) Award(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req awardRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if err := h.Points.Award(r.Context(), identity.ID, req.StudentID, req.Points, req.Reason); err != nil {
		h.Audit.Failure(r.Context(), r, "Error awarding points", actorID(identity), actorName(identity), http.StatusInternalServerError, err)
		respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	h.Audit.Info(r.Context(), r, "Points awarded successfully", actorID(identity), actorName(identity), http.StatusCreated)
	respond.JSON(w, http.StatusCreated, statusSuccess)
}
