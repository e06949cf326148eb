// Package points awards house points and serves the derived aggregates:
// per-house sums and the teacher/student leaderboards.
package points

import (
	"context"

	"github.com/ashgrove-hs/housepoints/internal/sanitize"
	"github.com/ashgrove-hs/housepoints/internal/storage"
)

const leaderboardSize = 10

type Service struct {
	repo storage.Repository
}

func NewService(repo storage.Repository) *Service {
	return &Service{repo: repo}
}

// Award appends one transaction-log row and applies the balance increment
// as a single unit: on any failure neither write survives. The increment is
// relative ("points + n"), so concurrent awards to the same student are
// serialized by the store.
func (s *Service) Award(ctx context.Context, teacherID, studentID int64, amount int64, reason string) error {
	reason = sanitize.Text(reason)
	return s.repo.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		if err := tx.Points().Insert(ctx, studentID, amount, reason, teacherID); err != nil {
			return err
		}
		return tx.Students().AddPoints(ctx, studentID, amount)
	})
}

func (s *Service) Houses(ctx context.Context) ([]storage.House, error) {
	return s.repo.Houses().List(ctx)
}

// HousePoints returns the derived point sum for one house; a house with no
// students sums to zero.
func (s *Service) HousePoints(ctx context.Context, houseID int64) (int64, error) {
	return s.repo.Houses().SumPoints(ctx, houseID)
}

// Entry is a ranked leaderboard row.
type Entry struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

func (s *Service) TopTeachers(ctx context.Context) ([]Entry, error) {
	rows, err := s.repo.Students().TopTeachers(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}
	return rank(rows), nil
}

func (s *Service) TopStudents(ctx context.Context) ([]Entry, error) {
	rows, err := s.repo.Students().TopStudents(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}
	return rank(rows), nil
}

// ClearAll zeroes every student balance. The transaction log is left
// intact; only live balances reset.
func (s *Service) ClearAll(ctx context.Context) error {
	return s.repo.Students().ZeroAllPoints(ctx)
}

func rank(rows []storage.NameValue) []Entry {
	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, Entry{Rank: i + 1, Name: row.Name, Value: row.Value})
	}
	return entries
}
