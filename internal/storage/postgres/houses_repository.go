package postgres

import (
	"context"
	"fmt"

	"github.com/ashgrove-hs/housepoints/internal/storage"
)

func (r *HouseRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *HouseRepository) List(ctx context.Context) ([]storage.House, error) {
	rows, err := r.queryer().Query(ctx, `SELECT id, name FROM houses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list houses: %w", err)
	}
	defer rows.Close()

	var houses []storage.House
	for rows.Next() {
		var house storage.House
		if err := rows.Scan(&house.ID, &house.Name); err != nil {
			return nil, fmt.Errorf("scan house: %w", err)
		}
		houses = append(houses, house)
	}
	return houses, rows.Err()
}

func (r *HouseRepository) SumPoints(ctx context.Context, houseID int64) (int64, error) {
	var points int64
	err := r.queryer().QueryRow(ctx,
		`SELECT COALESCE(SUM(points), 0) FROM students WHERE house = $1`, houseID).Scan(&points)
	if err != nil {
		return 0, fmt.Errorf("sum house points: %w", err)
	}
	return points, nil
}

// Totals returns one row per house with its derived point sum, including
// houses that currently have no students.
func (r *HouseRepository) Totals(ctx context.Context) ([]storage.HouseTotal, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT houses.id, houses.name, COALESCE(SUM(students.points), 0) AS total_points
  FROM houses
  LEFT JOIN students ON students.house = houses.id
 GROUP BY houses.id, houses.name
 ORDER BY houses.id`)
	if err != nil {
		return nil, fmt.Errorf("house totals: %w", err)
	}
	defer rows.Close()

	var totals []storage.HouseTotal
	for rows.Next() {
		var total storage.HouseTotal
		if err := rows.Scan(&total.HouseID, &total.HouseName, &total.TotalPoints); err != nil {
			return nil, fmt.Errorf("scan house total: %w", err)
		}
		totals = append(totals, total)
	}
	return totals, rows.Err()
}
