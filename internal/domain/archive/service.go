// Package archive captures point-in-time standings: per-house totals plus
// the student count, stored as an append-only snapshot row.
package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ashgrove-hs/housepoints/internal/audit"
	"github.com/ashgrove-hs/housepoints/internal/storage"
	"github.com/rs/zerolog"
)

// timestampLayout matches the format archived rows have always used.
const timestampLayout = "2006-01-02 15:04:05"

// HouseTotal is the fixed serialized shape of one house's standing inside a
// snapshot. TotalPoints is a float in the stored payload for compatibility
// with existing rows.
type HouseTotal struct {
	HouseID     int64   `json:"house_id"`
	HouseName   string  `json:"house_name"`
	TotalPoints float64 `json:"total_points"`
}

// Snapshot is one archived standing as returned by the listing.
type Snapshot struct {
	ID           int64        `json:"id"`
	Timestamp    *string      `json:"timestamp"`
	Houses       []HouseTotal `json:"houses"`
	StudentCount int64        `json:"student_count"`
}

type Service struct {
	repo   storage.Repository
	logger zerolog.Logger
	audit  *audit.Logger
}

func NewService(repo storage.Repository, logger zerolog.Logger, auditor *audit.Logger) *Service {
	return &Service{repo: repo, logger: logger, audit: auditor}
}

// Create snapshots the current per-house totals and student count. When
// reset is requested by an admin, all student balances are zeroed in the
// same transaction, after the pre-reset totals are captured. A reset
// requested by a non-admin is silently skipped, not an error.
func (s *Service) Create(ctx context.Context, reset, isAdmin bool) ([]HouseTotal, error) {
	var captured []HouseTotal
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		totals, err := tx.Houses().Totals(ctx)
		if err != nil {
			return err
		}
		captured = make([]HouseTotal, 0, len(totals))
		for _, total := range totals {
			captured = append(captured, HouseTotal{
				HouseID:     total.HouseID,
				HouseName:   total.HouseName,
				TotalPoints: float64(total.TotalPoints),
			})
		}

		count, err := tx.Students().Count(ctx)
		if err != nil {
			return err
		}

		data, err := json.Marshal(captured)
		if err != nil {
			return fmt.Errorf("serialize snapshot: %w", err)
		}
		if err := tx.Archive().Insert(ctx, data, count); err != nil {
			return err
		}

		if reset && isAdmin {
			return tx.Students().ZeroAllPoints(ctx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return captured, nil
}

// List returns snapshots newest first. A row whose stored payload fails to
// decode is skipped with a WARNING audit entry; one bad row never fails
// the listing.
func (s *Service) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.repo.Archive().List(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make([]Snapshot, 0, len(rows))
	for _, row := range rows {
		var houses []HouseTotal
		if err := json.Unmarshal(row.Data, &houses); err != nil {
			s.logger.Warn().Err(err).Int64("archive_id", row.ID).Msg("skipping malformed archive row")
			s.audit.Warning(ctx, nil, fmt.Sprintf("Error parsing archive row %d, skipping", row.ID))
			continue
		}
		snapshot := Snapshot{
			ID:           row.ID,
			Houses:       houses,
			StudentCount: row.StudentCount,
		}
		if !row.Timestamp.IsZero() {
			formatted := row.Timestamp.Format(timestampLayout)
			snapshot.Timestamp = &formatted
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}
