package handlers

import (
	"net/http"

	"github.com/ashgrove-hs/housepoints/internal/api/middleware"
	"github.com/ashgrove-hs/housepoints/internal/api/respond"
	"github.com/ashgrove-hs/housepoints/internal/audit"
	"github.com/ashgrove-hs/housepoints/internal/domain/roster"
	"github.com/ashgrove-hs/housepoints/internal/storage"
)

type StudentsHandler struct {
	Roster *roster.Service
	Audit  *audit.Logger
}

func NewStudentsHandler(rosterService *roster.Service, auditor *audit.Logger) *StudentsHandler {
	return &StudentsHandler{Roster: rosterService, Audit: auditor}
}

// List returns every student joined with the owning teacher's name.
func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.Roster.Students(r.Context())
	if err != nil {
		h.Audit.Failure(r.Context(), r, "Error listing students", nil, nil, http.StatusInternalServerError, err)
		respond.JSON(w, http.StatusInternalServerError, []storage.StudentWithTeacher{})
		return
	}

	h.Audit.Info(r.Context(), r, "Students listed successfully", nil, nil, http.StatusOK)
	respond.JSON(w, http.StatusOK, orEmpty(students))
}

type addStudentRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	GradYear  *int64 `json:"grad_year"`
	Points    int64  `json:"points"`
	TeacherID *int64 `json:"teacher_id"`
	House     *int64 `json:"house"`
}

func (h *StudentsHandler) Add(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req addStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}

	err := h.Roster.AddStudent(r.Context(), storage.NewStudent{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		GradYear:  req.GradYear,
		Points:    req.Points,
		TeacherID: req.TeacherID,
		House:     req.House,
	})
	if err != nil {
		h.Audit.Failure(r.Context(), r, "Error adding student", actorID(identity), actorName(identity), http.StatusInternalServerError, err)
		respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	h.Audit.Info(r.Context(), r, "Student added successfully", actorID(identity), actorName(identity), http.StatusCreated)
	respond.JSON(w, http.StatusCreated, statusSuccess)
}

type editStudentRequest struct {
	ID        int64   `json:"id"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	GradYear  *int64  `json:"grad_year"`
	Points    *int64  `json:"points"`
	TeacherID *int64  `json:"teacher"`
	House     *int64  `json:"house"`
}

// Edit applies a partial student update. A body with no recognized fields
// succeeds without touching the store.
func (h *StudentsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req editStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}
	if req.ID == 0 {
		respond.Error(w, r, http.StatusBadRequest, "Student ID is missing", nil)
		return
	}

	changed, err := h.Roster.EditStudent(r.Context(), req.ID, storage.StudentUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		GradYear:  req.GradYear,
		Points:    req.Points,
		TeacherID: req.TeacherID,
		House:     req.House,
	})
	if err != nil {
		h.Audit.Failure(r.Context(), r, "Error editing student", actorID(identity), actorName(identity), http.StatusInternalServerError, err)
		respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	if !changed {
		h.Audit.Info(r.Context(), r, "No changes made for student edit", actorID(identity), actorName(identity), http.StatusOK)
		respond.JSON(w, http.StatusOK, map[string]string{"status": "no changes made"})
		return
	}
	h.Audit.Info(r.Context(), r, "Student edited successfully", actorID(identity), actorName(identity), http.StatusOK)
	respond.JSON(w, http.StatusOK, statusSuccess)
}

type deleteRequest struct {
	UserID int64 `json:"userId"`
}

// Delete removes one student and their transaction history together.
func (h *StudentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req deleteRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}
	if req.UserID == 0 {
		h.Audit.Failure(r.Context(), r, "Student ID is missing for delete", actorID(identity), actorName(identity), http.StatusBadRequest, nil)
		respond.Error(w, r, http.StatusBadRequest, "Student ID is missing", nil)
		return
	}

	if err := h.Roster.DeleteStudent(r.Context(), req.UserID); err != nil {
		h.Audit.Failure(r.Context(), r, "Error deleting student", actorID(identity), actorName(identity), http.StatusInternalServerError, err)
		respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	h.Audit.Info(r.Context(), r, "Student deleted successfully", actorID(identity), actorName(identity), http.StatusOK)
	respond.JSON(w, http.StatusOK, statusSuccess)
}

// DeleteAll clears the whole roster and its transaction history.
func (h *StudentsHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	if err := h.Roster.DeleteAllStudents(r.Context()); err != nil {
		h.Audit.Failure(r.Context(), r, "Error deleting all students", actorID(identity), actorName(identity), http.StatusInternalServerError, err)
		respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	h.Audit.Info(r.Context(), r, "All students deleted successfully", actorID(identity), actorName(identity), http.StatusOK)
	respond.JSON(w, http.StatusOK, statusSuccess)
}

func actorID(identity *middleware.Identity) *int64 {
	if identity == nil {
		return nil
	}
	return &identity.ID
}

func actorName(identity *middleware.Identity) *string {
	if identity == nil {
		return nil
	}
	return &identity.Name
}
