package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ashgrove-hs/housepoints/internal/audit"
	"github.com/ashgrove-hs/housepoints/internal/storage"
	"github.com/ashgrove-hs/housepoints/internal/storage/storagetest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLogsListCapsLimit(t *testing.T) {
	store := &storagetest.Audit{}
	store.ListFunc = func(ctx context.Context, limit int32) ([]storage.AuditEntry, error) {
		require.Equal(t, int32(500), limit)
		return []storage.AuditEntry{{ID: 1, Level: "INFO", Message: "Points awarded successfully"}}, nil
	}

	rec := httptest.NewRecorder()
	NewLogsHandler(store, noopAudit()).List(rec, httptest.NewRequest(http.MethodGet, "/api/logs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var entries []storage.AuditEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	require.Equal(t, "Points awarded successfully", entries[0].Message)
}

func TestLogsListEmptyIsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	NewLogsHandler(&storagetest.Audit{}, noopAudit()).List(rec, httptest.NewRequest(http.MethodGet, "/api/logs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestLogsListWritesAuditEntry(t *testing.T) {
	store := &storagetest.Audit{}
	var recorded []storage.AuditEntry
	sink := &storagetest.Audit{}
	sink.InsertFunc = func(ctx context.Context, entry storage.AuditEntry) error {
		recorded = append(recorded, entry)
		return nil
	}

	rec := httptest.NewRecorder()
	handler := NewLogsHandler(store, audit.NewLogger(sink, zerolog.Nop()))
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/logs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, recorded, 1)
	require.Equal(t, audit.LevelInfo, recorded[0].Level)
	require.Equal(t, "Logs retrieved successfully", recorded[0].Message)
}

func TestLogsListStoreErrorIsAudited(t *testing.T) {
	store := &storagetest.Audit{}
	store.ListFunc = func(ctx context.Context, limit int32) ([]storage.AuditEntry, error) {
		return nil, errors.New("logs table gone")
	}
	var recorded []storage.AuditEntry
	sink := &storagetest.Audit{}
	sink.InsertFunc = func(ctx context.Context, entry storage.AuditEntry) error {
		recorded = append(recorded, entry)
		return nil
	}

	rec := httptest.NewRecorder()
	handler := NewLogsHandler(store, audit.NewLogger(sink, zerolog.Nop()))
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/logs", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	require.Len(t, recorded, 1)
	require.Equal(t, audit.LevelError, recorded[0].Level)
}
