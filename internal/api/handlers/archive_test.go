package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ashgrove-hs/housepoints/internal/api/middleware"
	"github.com/ashgrove-hs/housepoints/internal/domain/archive"
	"github.com/ashgrove-hs/housepoints/internal/storage"
	"github.com/ashgrove-hs/housepoints/internal/storage/storagetest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newArchiveHandler(repo *storagetest.Repository) *ArchiveHandler {
	return NewArchiveHandler(archive.NewService(repo, zerolog.Nop(), noopAudit()), noopAudit())
}

func archiveRepo() *storagetest.Repository {
	repo := &storagetest.Repository{}
	repo.HousesRepo.TotalsFunc = func(ctx context.Context) ([]storage.HouseTotal, error) {
		return []storage.HouseTotal{{HouseID: 1, HouseName: "Ash", TotalPoints: 120}}, nil
	}
	repo.StudentsRepo.CountFunc = func(ctx context.Context) (int64, error) {
		return 42, nil
	}
	return repo
}

func asAdmin(req *http.Request) *http.Request {
	return req.WithContext(middleware.ContextWithIdentity(req.Context(),
		&middleware.Identity{ID: 1, Name: "Head Teacher", Admin: true}))
}

func TestArchiveCreateReturnsCapturedData(t *testing.T) {
	repo := archiveRepo()

	rec := httptest.NewRecorder()
	req := asTeacher(httptest.NewRequest(http.MethodPost, "/api/archive",
		strings.NewReader(`{"resetstats":false}`)))
	newArchiveHandler(repo).Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "success", body["status"])
	archived := body["archived_data"].([]any)
	require.Len(t, archived, 1)
	house := archived[0].(map[string]any)
	require.Equal(t, "Ash", house["house_name"])
	require.Equal(t, float64(120), house["total_points"])
}

func TestArchiveCreateNonAdminResetSkipped(t *testing.T) {
	repo := archiveRepo()
	repo.StudentsRepo.ZeroAllPointsFunc = func(ctx context.Context) error {
		t.Fatal("non-admin reset must be skipped")
		return nil
	}

	rec := httptest.NewRecorder()
	req := asTeacher(httptest.NewRequest(http.MethodPost, "/api/archive",
		strings.NewReader(`{"resetstats":true}`)))
	newArchiveHandler(repo).Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestArchiveCreateAdminResetApplies(t *testing.T) {
	repo := archiveRepo()
	zeroed := false
	repo.StudentsRepo.ZeroAllPointsFunc = func(ctx context.Context) error {
		zeroed = true
		return nil
	}

	rec := httptest.NewRecorder()
	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/archive",
		strings.NewReader(`{"resetstats":true}`)))
	newArchiveHandler(repo).Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, zeroed)
}

func TestArchiveCreateEmptyBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := asTeacher(httptest.NewRequest(http.MethodPost, "/api/archive", nil))
	newArchiveHandler(archiveRepo()).Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestArchiveListEmptyIsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	newArchiveHandler(&storagetest.Repository{}).List(rec, httptest.NewRequest(http.MethodGet, "/api/archive", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}
