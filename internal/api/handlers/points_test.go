package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ashgrove-hs/housepoints/internal/domain/points"
	"github.com/ashgrove-hs/housepoints/internal/storage/storagetest"
	"github.com/stretchr/testify/require"
)

func newPointsHandler(repo *storagetest.Repository) *PointsHandler {
	return NewPointsHandler(points.NewService(repo), noopAudit())
}

func TestAwardUsesActingTeacher(t *testing.T) {
	var gotTeacherID int64
	repo := &storagetest.Repository{}
	repo.PointsRepo.InsertFunc = func(ctx context.Context, studentID int64, amount int64, reason string, teacherID int64) error {
		require.Equal(t, int64(4), studentID)
		require.Equal(t, int64(25), amount)
		gotTeacherID = teacherID
		return nil
	}

	rec := httptest.NewRecorder()
	req := asTeacher(httptest.NewRequest(http.MethodPost, "/api/awardpoints",
		strings.NewReader(`{"studentId":4,"points":25,"reason":"helping"}`)))
	newPointsHandler(repo).Award(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "success", decodeBody(t, rec)["status"])
	require.Equal(t, int64(2), gotTeacherID, "teacher id must come from the gate identity")
}

func TestAwardRequiresStudentID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := asTeacher(httptest.NewRequest(http.MethodPost, "/api/awardpoints",
		strings.NewReader(`{"points":25,"reason":"helping"}`)))
	newPointsHandler(&storagetest.Repository{}).Award(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAwardRejectsBadJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := asTeacher(httptest.NewRequest(http.MethodPost, "/api/awardpoints",
		strings.NewReader(`{not json`)))
	newPointsHandler(&storagetest.Repository{}).Award(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
