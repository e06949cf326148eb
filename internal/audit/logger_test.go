package audit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ashgrove-hs/housepoints/internal/storage"
	"github.com/ashgrove-hs/housepoints/internal/storage/storagetest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRecordPersistsRequestContext(t *testing.T) {
	var got storage.AuditEntry
	store := &storagetest.Audit{}
	store.InsertFunc = func(ctx context.Context, entry storage.AuditEntry) error {
		got = entry
		return nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/awardpoints", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	userID := int64(2)
	username := "Ada Brown"
	NewLogger(store, zerolog.Nop()).Info(context.Background(), req, "Points awarded successfully", &userID, &username, http.StatusCreated)

	require.Equal(t, LevelInfo, got.Level)
	require.Equal(t, "Points awarded successfully", got.Message)
	require.Equal(t, "api", got.Module)
	require.Equal(t, int64(2), *got.UserID)
	require.Equal(t, "Ada Brown", *got.Username)
	require.Equal(t, int32(201), *got.StatusCode)
	require.Equal(t, "POST", *got.Method)
	require.Equal(t, "/api/awardpoints", *got.URL)
	require.Equal(t, "203.0.113.9", *got.IPAddress)
	require.Equal(t, "windows", *got.Device)
	require.False(t, got.Timestamp.IsZero())
}

func TestFailureCapturesErrorDetail(t *testing.T) {
	var got storage.AuditEntry
	store := &storagetest.Audit{}
	store.InsertFunc = func(ctx context.Context, entry storage.AuditEntry) error {
		got = entry
		return nil
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/deleteteacher", nil)
	NewLogger(store, zerolog.Nop()).Failure(context.Background(), req, "Error deleting teacher", nil, nil, http.StatusInternalServerError, errors.New("fallback teacher missing"))

	require.Equal(t, LevelError, got.Level)
	require.Equal(t, "fallback teacher missing", *got.StackTrace)
	require.Nil(t, got.UserID)
}

func TestFailedInsertIsSwallowed(t *testing.T) {
	store := &storagetest.Audit{}
	store.InsertFunc = func(ctx context.Context, entry storage.AuditEntry) error {
		return errors.New("logs table gone")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/gethouses", nil)
	logger := NewLogger(store, zerolog.Nop())
	require.NotPanics(t, func() {
		logger.Info(context.Background(), req, "Houses listed successfully", nil, nil, http.StatusOK)
	})
}

func TestNilStoreIsNoop(t *testing.T) {
	logger := NewLogger(nil, zerolog.Nop())
	require.NotPanics(t, func() {
		logger.Warning(context.Background(), nil, "skipping malformed archive row")
	})
}

func TestClientIPFallsBackToSocket(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	req.RemoteAddr = "192.0.2.4:51234"
	require.Equal(t, "192.0.2.4", clientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	require.Equal(t, "198.51.100.7", clientIP(req))
}

func TestClientPlatform(t *testing.T) {
	cases := map[string]string{
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)": "ios",
		"Mozilla/5.0 (Linux; Android 14; Pixel 8)":               "android",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)":        "macos",
		"Mozilla/5.0 (X11; Linux x86_64)":                        "linux",
		"curl/8.4.0":                                             "",
	}
	for ua, want := range cases {
		require.Equal(t, want, clientPlatform(ua), ua)
	}
}
