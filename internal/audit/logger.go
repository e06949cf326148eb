// Package audit writes the append-only request audit trail. One entry is
// recorded per handler invocation, success or failure. Writes are
// best-effort: a failed insert is reported to telemetry and swallowed so it
// can never change the outcome of the request being logged.
package audit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ashgrove-hs/housepoints/internal/storage"
	"github.com/ashgrove-hs/housepoints/internal/telemetry"
	"github.com/rs/zerolog"
)

// Severity levels stored in the log_level column.
const (
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

const module = "api"

type Logger struct {
	store  storage.AuditRepository
	logger zerolog.Logger
}

func NewLogger(store storage.AuditRepository, logger zerolog.Logger) *Logger {
	return &Logger{store: store, logger: logger}
}

// Event describes one audit entry. Request, actor, and status fields are
// optional; absent values are stored as NULL.
type Event struct {
	Level      string
	Message    string
	UserID     *int64
	Username   *string
	Status     int
	StackTrace string
	Request    *http.Request
}

// Record persists the event. It never returns an error.
func (l *Logger) Record(ctx context.Context, event Event) {
	if l == nil || l.store == nil {
		return
	}

	entry := storage.AuditEntry{
		Timestamp:  time.Now().UTC(),
		Level:      event.Level,
		Message:    event.Message,
		Module:     module,
		UserID:     event.UserID,
		Username:   event.Username,
		StackTrace: optional(event.StackTrace),
	}
	if event.Status != 0 {
		status := int32(event.Status)
		entry.StatusCode = &status
	}
	if r := event.Request; r != nil {
		entry.Method = optional(r.Method)
		entry.URL = optional(requestURL(r))
		entry.IPAddress = optional(clientIP(r))
		entry.Device = optional(clientPlatform(r.UserAgent()))
	}

	if err := l.store.Insert(ctx, entry); err != nil {
		telemetry.CaptureException(ctx, err)
		l.logger.Warn().Err(err).Str("message", event.Message).Msg("audit write failed")
	}
}

// Info records a success entry for the given request and actor.
func (l *Logger) Info(ctx context.Context, r *http.Request, message string, userID *int64, username *string, status int) {
	l.Record(ctx, Event{
		Level:    LevelInfo,
		Message:  message,
		UserID:   userID,
		Username: username,
		Status:   status,
		Request:  r,
	})
}

// Failure records an error entry, capturing the error text as the stack
// detail when present.
func (l *Logger) Failure(ctx context.Context, r *http.Request, message string, userID *int64, username *string, status int, err error) {
	event := Event{
		Level:    LevelError,
		Message:  message,
		UserID:   userID,
		Username: username,
		Status:   status,
		Request:  r,
	}
	if err != nil {
		event.StackTrace = err.Error()
	}
	l.Record(ctx, event)
}

// Warning records a non-fatal anomaly (for example a skipped archive row).
func (l *Logger) Warning(ctx context.Context, r *http.Request, message string) {
	l.Record(ctx, Event{Level: LevelWarning, Message: message, Request: r})
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func requestURL(r *http.Request) string {
	if r.URL == nil {
		return ""
	}
	return r.URL.String()
}

// clientIP prefers proxy headers, falling back to the socket address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// clientPlatform extracts a coarse platform name from the User-Agent, which
// is all the logs table has ever stored for the device column.
func clientPlatform(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "android"):
		return "android"
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"):
		return "ios"
	case strings.Contains(ua, "windows"):
		return "windows"
	case strings.Contains(ua, "mac os"), strings.Contains(ua, "macintosh"):
		return "macos"
	case strings.Contains(ua, "linux"):
		return "linux"
	default:
		return ""
	}
}
