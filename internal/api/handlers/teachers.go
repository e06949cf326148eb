package handlers

import (
	"net/http"

	"github.com/ashgrove-hs/housepoints/internal/api/middleware"
	"github.com/ashgrove-hs/housepoints/internal/api/respond"
	"github.com/ashgrove-hs/housepoints/internal/audit"
	"github.com/ashgrove-hs/housepoints/internal/domain/roster"
)

type TeachersHandler struct {
	Roster *roster.Service
	Audit  *audit.Logger
}

func NewTeachersHandler(rosterService *roster.Service, auditor *audit.Logger) *TeachersHandler {
	return &TeachersHandler{Roster: rosterService, Audit: auditor}
}

type teacherResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}

func (h *TeachersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Roster.Teachers(r.Context())
	if err != nil {
		h.Audit.Failure(r.Context(), r, "Error listing teachers", nil, nil, http.StatusInternalServerError, err)
		respond.JSON(w, http.StatusInternalServerError, []teacherResponse{})
		return
	}

	teachers := make([]teacherResponse, 0, len(users))
	for _, user := range users {
		teachers = append(teachers, teacherResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Admin: user.Admin,
		})
	}

	h.Audit.Info(r.Context(), r, "Teachers listed successfully", nil, nil, http.StatusOK)
	respond.JSON(w, http.StatusOK, teachers)
}

type addTeacherRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *TeachersHandler) Add(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req addTeacherRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if err := h.Roster.AddTeacher(r.Context(), req.Name, req.Email, req.Password); err != nil {
		h.Audit.Failure(r.Context(), r, "Error adding teacher", actorID(identity), actorName(identity), http.StatusInternalServerError, err)
		respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	h.Audit.Info(r.Context(), r, "Teacher added successfully", actorID(identity), actorName(identity), http.StatusCreated)
	respond.JSON(w, http.StatusCreated, statusSuccess)
}

type editTeacherRequest struct {
	ID       int64   `json:"id"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Admin    *bool   `json:"admin"`
	Password *string `json:"password"`
}

func (h *TeachersHandler) Edit(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req editTeacherRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}
	if req.ID == 0 {
		respond.Error(w, r, http.StatusBadRequest, "User ID is missing", nil)
		return
	}

	changed, err := h.Roster.EditTeacher(r.Context(), req.ID, roster.TeacherUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Admin:    req.Admin,
		Password: req.Password,
	})
	if err != nil {
		h.Audit.Failure(r.Context(), r, "Error editing teacher", actorID(identity), actorName(identity), http.StatusInternalServerError, err)
		respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	if !changed {
		h.Audit.Info(r.Context(), r, "No changes made for teacher edit", actorID(identity), actorName(identity), http.StatusOK)
		respond.JSON(w, http.StatusOK, map[string]string{"status": "no changes made"})
		return
	}
	h.Audit.Info(r.Context(), r, "Teacher edited successfully", actorID(identity), actorName(identity), http.StatusOK)
	respond.JSON(w, http.StatusOK, statusSuccess)
}

// Delete removes a teacher account after reassigning their students to the
// fallback teacher. Student rows are never removed here.
func (h *TeachersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req deleteRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}
	if req.UserID == 0 {
		h.Audit.Failure(r.Context(), r, "User ID is missing for delete", actorID(identity), actorName(identity), http.StatusBadRequest, nil)
		respond.Error(w, r, http.StatusBadRequest, "User ID is missing", nil)
		return
	}

	if err := h.Roster.DeleteTeacher(r.Context(), req.UserID); err != nil {
		h.Audit.Failure(r.Context(), r, "Error deleting teacher", actorID(identity), actorName(identity), http.StatusInternalServerError, err)
		respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	h.Audit.Info(r.Context(), r, "Teacher deleted successfully", actorID(identity), actorName(identity), http.StatusOK)
	respond.JSON(w, http.StatusOK, statusSuccess)
}
