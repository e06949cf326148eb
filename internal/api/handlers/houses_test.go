package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ashgrove-hs/housepoints/internal/domain/points"
	"github.com/ashgrove-hs/housepoints/internal/storage"
	"github.com/ashgrove-hs/housepoints/internal/storage/storagetest"
	"github.com/stretchr/testify/require"
)

func newHousesHandler(repo *storagetest.Repository) *HousesHandler {
	return NewHousesHandler(points.NewService(repo), noopAudit())
}

func TestHousesListEmptyIsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	newHousesHandler(&storagetest.Repository{}).List(rec, httptest.NewRequest(http.MethodGet, "/api/gethouses", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestHousePointsSumsRequestedHouse(t *testing.T) {
	repo := &storagetest.Repository{}
	repo.HousesRepo.SumPointsFunc = func(ctx context.Context, houseID int64) (int64, error) {
		require.Equal(t, int64(3), houseID)
		return 140, nil
	}

	rec := httptest.NewRecorder()
	newHousesHandler(repo).HousePoints(rec, httptest.NewRequest(http.MethodGet, "/api/gethousepoints?houseId=3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(140), decodeBody(t, rec)["points"])
}

func TestHousePointsUnparseableIDSumsZero(t *testing.T) {
	repo := &storagetest.Repository{}
	repo.HousesRepo.SumPointsFunc = func(ctx context.Context, houseID int64) (int64, error) {
		require.Equal(t, int64(0), houseID)
		return 0, nil
	}

	rec := httptest.NewRecorder()
	newHousesHandler(repo).HousePoints(rec, httptest.NewRequest(http.MethodGet, "/api/gethousepoints?houseId=abc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(0), decodeBody(t, rec)["points"])
}

func TestTopStudentsRanked(t *testing.T) {
	repo := &storagetest.Repository{}
	repo.StudentsRepo.TopStudentsFunc = func(ctx context.Context, limit int32) ([]storage.NameValue, error) {
		require.Equal(t, int32(10), limit)
		return []storage.NameValue{
			{Name: "Milo Finch", Value: 90},
			{Name: "June Park", Value: 70},
		}, nil
	}

	rec := httptest.NewRecorder()
	newHousesHandler(repo).TopStudents(rec, httptest.NewRequest(http.MethodGet, "/api/topstudents", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var entries []points.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, "Milo Finch", entries[0].Name)
	require.Equal(t, 2, entries[1].Rank)
}

func TestClearAllZeroesBalances(t *testing.T) {
	zeroed := false
	repo := &storagetest.Repository{}
	repo.StudentsRepo.ZeroAllPointsFunc = func(ctx context.Context) error {
		zeroed = true
		return nil
	}
	repo.PointsRepo.DeleteAllFunc = func(ctx context.Context) error {
		t.Fatal("clearing balances must keep the transaction log")
		return nil
	}

	rec := httptest.NewRecorder()
	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/clearhousepoints", nil))
	newHousesHandler(repo).ClearAll(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, zeroed)
}
