package postgres

import (
	"context"
	"fmt"

	"github.com/ashgrove-hs/housepoints/internal/storage"
)

func (r *ArchiveRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *ArchiveRepository) Insert(ctx context.Context, data []byte, studentCount int64) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO archive (data, studentammount, timestamp)
VALUES ($1, $2, now())`, string(data), studentCount)
	if err != nil {
		return fmt.Errorf("insert archive: %w", err)
	}
	return nil
}

func (r *ArchiveRepository) List(ctx context.Context) ([]storage.ArchiveSnapshot, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, timestamp, data, studentammount
  FROM archive
 ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	defer rows.Close()

	var snapshots []storage.ArchiveSnapshot
	for rows.Next() {
		var snapshot storage.ArchiveSnapshot
		var data string
		if err := rows.Scan(&snapshot.ID, &snapshot.Timestamp, &data, &snapshot.StudentCount); err != nil {
			return nil, fmt.Errorf("scan archive: %w", err)
		}
		snapshot.Data = []byte(data)
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}
