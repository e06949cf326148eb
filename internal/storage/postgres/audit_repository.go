package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ashgrove-hs/housepoints/internal/storage"
)

func (r *AuditRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *AuditRepository) Insert(ctx context.Context, entry storage.AuditEntry) error {
	timestamp := entry.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}
	_, err := r.queryer().Exec(ctx, `
INSERT INTO logs (timestamp, log_level, message, module, user_id, username,
                  method, url, status_code, stack_trace, ip_address, device)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		timestamp,
		entry.Level,
		entry.Message,
		entry.Module,
		entry.UserID,
		entry.Username,
		entry.Method,
		entry.URL,
		entry.StatusCode,
		entry.StackTrace,
		entry.IPAddress,
		entry.Device,
	)
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) List(ctx context.Context, limit int32) ([]storage.AuditEntry, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, timestamp, log_level, message, module, user_id, username,
       method, url, status_code, stack_trace, ip_address, device
  FROM logs
 ORDER BY timestamp DESC
 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list log entries: %w", err)
	}
	defer rows.Close()

	var entries []storage.AuditEntry
	for rows.Next() {
		var entry storage.AuditEntry
		var module *string
		if err := rows.Scan(
			&entry.ID,
			&entry.Timestamp,
			&entry.Level,
			&entry.Message,
			&module,
			&entry.UserID,
			&entry.Username,
			&entry.Method,
			&entry.URL,
			&entry.StatusCode,
			&entry.StackTrace,
			&entry.IPAddress,
			&entry.Device,
		); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		if module != nil {
			entry.Module = *module
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
