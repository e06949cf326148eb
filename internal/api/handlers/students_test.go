package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ashgrove-hs/housepoints/internal/api/middleware"
	"github.com/ashgrove-hs/housepoints/internal/domain/roster"
	"github.com/ashgrove-hs/housepoints/internal/storage"
	"github.com/ashgrove-hs/housepoints/internal/storage/storagetest"
	"github.com/stretchr/testify/require"
)

func newStudentsHandler(repo *storagetest.Repository) *StudentsHandler {
	return NewStudentsHandler(roster.NewService(repo, 1), noopAudit())
}

func asTeacher(req *http.Request) *http.Request {
	return req.WithContext(middleware.ContextWithIdentity(req.Context(),
		&middleware.Identity{ID: 2, Name: "Ada Brown"}))
}

func TestStudentsListIncludesTeacherName(t *testing.T) {
	teacherName := "Ada Brown"
	repo := &storagetest.Repository{}
	repo.StudentsRepo.ListWithTeacherFunc = func(ctx context.Context) ([]storage.StudentWithTeacher, error) {
		return []storage.StudentWithTeacher{
			{ID: 1, FirstName: "Milo", LastName: "Finch", Points: 40, TeacherName: &teacherName},
		}, nil
	}

	rec := httptest.NewRecorder()
	newStudentsHandler(repo).List(rec, httptest.NewRequest(http.MethodGet, "/api/getstudents", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var students []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &students))
	require.Len(t, students, 1)
	require.Equal(t, "Milo", students[0]["first_name"])
	require.Equal(t, "Ada Brown", students[0]["teacher_name"])
	require.NotContains(t, students[0], "teacher", "only the joined name is exposed")
}

func TestStudentsListEmptyIsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	newStudentsHandler(&storagetest.Repository{}).List(rec, httptest.NewRequest(http.MethodGet, "/api/getstudents", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestAddStudentRequiresNames(t *testing.T) {
	rec := httptest.NewRecorder()
	req := asTeacher(httptest.NewRequest(http.MethodPost, "/api/addstudent",
		strings.NewReader(`{"first_name":"","last_name":"Finch"}`)))
	newStudentsHandler(&storagetest.Repository{}).Add(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddStudentSuccess(t *testing.T) {
	var created storage.NewStudent
	repo := &storagetest.Repository{}
	repo.StudentsRepo.CreateFunc = func(ctx context.Context, student storage.NewStudent) error {
		created = student
		return nil
	}

	rec := httptest.NewRecorder()
	req := asTeacher(httptest.NewRequest(http.MethodPost, "/api/addstudent",
		strings.NewReader(`{"first_name":"Milo","last_name":"Finch","grad_year":2027,"points":0,"teacher_id":2,"house":1}`)))
	newStudentsHandler(repo).Add(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "success", decodeBody(t, rec)["status"])
	require.Equal(t, "Milo", created.FirstName)
	require.NotNil(t, created.House)
	require.Equal(t, int64(1), *created.House)
}

func TestEditStudentMissingID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := asTeacher(httptest.NewRequest(http.MethodPut, "/api/editstudent",
		strings.NewReader(`{"first_name":"Milo"}`)))
	newStudentsHandler(&storagetest.Repository{}).Edit(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Student ID is missing", decodeBody(t, rec)["error"])
}

func TestEditStudentNoRecognizedFields(t *testing.T) {
	repo := &storagetest.Repository{}
	repo.StudentsRepo.UpdateFunc = func(ctx context.Context, id int64, update storage.StudentUpdate) error {
		t.Fatal("update should not run")
		return nil
	}

	rec := httptest.NewRecorder()
	req := asTeacher(httptest.NewRequest(http.MethodPut, "/api/editstudent",
		strings.NewReader(`{"id":4}`)))
	newStudentsHandler(repo).Edit(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no changes made", decodeBody(t, rec)["status"])
}

func TestEditStudentPartialUpdate(t *testing.T) {
	var gotID int64
	var applied storage.StudentUpdate
	repo := &storagetest.Repository{}
	repo.StudentsRepo.UpdateFunc = func(ctx context.Context, id int64, update storage.StudentUpdate) error {
		gotID = id
		applied = update
		return nil
	}

	rec := httptest.NewRecorder()
	req := asTeacher(httptest.NewRequest(http.MethodPut, "/api/editstudent",
		strings.NewReader(`{"id":4,"points":55,"house":2}`)))
	newStudentsHandler(repo).Edit(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(4), gotID)
	require.Nil(t, applied.FirstName)
	require.Equal(t, int64(55), *applied.Points)
	require.Equal(t, int64(2), *applied.House)
}

func TestDeleteStudentMissingID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := asTeacher(httptest.NewRequest(http.MethodDelete, "/api/deletestudent",
		strings.NewReader(`{}`)))
	newStudentsHandler(&storagetest.Repository{}).Delete(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Student ID is missing", decodeBody(t, rec)["error"])
}

func TestDeleteStudentSuccess(t *testing.T) {
	var calls []string
	repo := &storagetest.Repository{}
	repo.PointsRepo.DeleteByStudentFunc = func(ctx context.Context, studentID int64) error {
		calls = append(calls, "points")
		return nil
	}
	repo.StudentsRepo.DeleteFunc = func(ctx context.Context, id int64) error {
		calls = append(calls, "student")
		return nil
	}

	rec := httptest.NewRecorder()
	req := asTeacher(httptest.NewRequest(http.MethodDelete, "/api/deletestudent",
		strings.NewReader(`{"userId":9}`)))
	newStudentsHandler(repo).Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"points", "student"}, calls)
}

func TestDeleteAllStudents(t *testing.T) {
	cleared := false
	repo := &storagetest.Repository{}
	repo.StudentsRepo.DeleteAllFunc = func(ctx context.Context) error {
		cleared = true
		return nil
	}

	rec := httptest.NewRecorder()
	req := asTeacher(httptest.NewRequest(http.MethodDelete, "/api/deleteallstudents", nil))
	newStudentsHandler(repo).DeleteAll(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, cleared)
}
