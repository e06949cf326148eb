package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ashgrove-hs/housepoints/internal/storage"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryLookups(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	id := insertTeacher(t, ctx, pool, "Ada Brown", "ada@school.test", "token-ada", true)

	byEmail, err := repo.Users().GetByEmail(ctx, "ada@school.test")
	require.NoError(t, err)
	require.Equal(t, id, byEmail.ID)
	require.True(t, byEmail.Admin)
	require.NotNil(t, byEmail.Token)
	require.Equal(t, "token-ada", *byEmail.Token)

	byToken, err := repo.Users().GetByToken(ctx, "token-ada")
	require.NoError(t, err)
	require.Equal(t, id, byToken.ID)

	_, err = repo.Users().GetByToken(ctx, "no-such-token")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserRepositorySearchIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	insertTeacher(t, ctx, pool, "Ada Brown", "ada@school.test", "t1", false)
	insertTeacher(t, ctx, pool, "Ben Okafor", "ben@school.test", "t2", false)

	refs, err := repo.Users().Search(ctx, "BROWN")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, "Ada Brown", refs[0].Name)

	byEmail, err := repo.Users().Search(ctx, "ben@")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	require.Equal(t, "Ben Okafor", byEmail[0].Name)
}

func TestStudentRepositoryListJoinsTeacherName(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	teacherID := insertTeacher(t, ctx, pool, "Ada Brown", "ada@school.test", "t1", false)
	houseID := insertHouse(t, ctx, pool, "Ash")
	insertStudent(t, ctx, pool, "Milo", "Finch", 40, houseID, teacherID)

	students, err := repo.Students().ListWithTeacher(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, "Milo", students[0].FirstName)
	require.NotNil(t, students[0].TeacherName)
	require.Equal(t, "Ada Brown", *students[0].TeacherName)
}

func TestStudentRepositoryUpdateWritesOnlySetFields(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	teacherID := insertTeacher(t, ctx, pool, "Ada Brown", "ada@school.test", "t1", false)
	houseID := insertHouse(t, ctx, pool, "Ash")
	id := insertStudent(t, ctx, pool, "Milo", "Finch", 40, houseID, teacherID)

	points := int64(75)
	require.NoError(t, repo.Students().Update(ctx, id, storage.StudentUpdate{Points: &points}))

	students, err := repo.Students().ListWithTeacher(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, int64(75), students[0].Points)
	require.Equal(t, "Milo", students[0].FirstName, "unset fields stay untouched")
}

func TestStudentRepositoryReassignTeacher(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	fromID := insertTeacher(t, ctx, pool, "Ada Brown", "ada@school.test", "t1", false)
	toID := insertTeacher(t, ctx, pool, "Ben Okafor", "ben@school.test", "t2", false)
	houseID := insertHouse(t, ctx, pool, "Ash")
	insertStudent(t, ctx, pool, "Milo", "Finch", 40, houseID, fromID)

	require.NoError(t, repo.Students().ReassignTeacher(ctx, fromID, toID))

	students, err := repo.Students().ListWithTeacher(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.NotNil(t, students[0].TeacherID)
	require.Equal(t, toID, *students[0].TeacherID)
}

func TestHouseRepositoryTotalsIncludeEmptyHouses(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	teacherID := insertTeacher(t, ctx, pool, "Ada Brown", "ada@school.test", "t1", false)
	ashID := insertHouse(t, ctx, pool, "Ash")
	elmID := insertHouse(t, ctx, pool, "Elm")
	insertStudent(t, ctx, pool, "Milo", "Finch", 40, ashID, teacherID)
	insertStudent(t, ctx, pool, "June", "Park", 30, ashID, teacherID)

	totals, err := repo.Houses().Totals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	byID := map[int64]storage.HouseTotal{}
	for _, total := range totals {
		byID[total.HouseID] = total
	}
	require.Equal(t, int64(70), byID[ashID].TotalPoints)
	require.Equal(t, int64(0), byID[elmID].TotalPoints)

	sum, err := repo.Houses().SumPoints(ctx, ashID)
	require.NoError(t, err)
	require.Equal(t, int64(70), sum)

	empty, err := repo.Houses().SumPoints(ctx, 999)
	require.NoError(t, err)
	require.Equal(t, int64(0), empty)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	teacherID := insertTeacher(t, ctx, pool, "Ada Brown", "ada@school.test", "t1", false)
	houseID := insertHouse(t, ctx, pool, "Ash")
	studentID := insertStudent(t, ctx, pool, "Milo", "Finch", 40, houseID, teacherID)

	boom := errors.New("boom")
	err = repo.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		if err := tx.Points().Insert(ctx, studentID, 10, "helping", teacherID); err != nil {
			return err
		}
		if err := tx.Students().AddPoints(ctx, studentID, 10); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	students, err := repo.Students().ListWithTeacher(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(40), students[0].Points, "rolled back increment must not persist")

	var txCount int64
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM transaction_log`).Scan(&txCount))
	require.Zero(t, txCount)
}

func TestWithTxCommitsAwards(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	teacherID := insertTeacher(t, ctx, pool, "Ada Brown", "ada@school.test", "t1", false)
	houseID := insertHouse(t, ctx, pool, "Ash")
	studentID := insertStudent(t, ctx, pool, "Milo", "Finch", 40, houseID, teacherID)

	err = repo.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		if err := tx.Points().Insert(ctx, studentID, 10, "helping", teacherID); err != nil {
			return err
		}
		return tx.Students().AddPoints(ctx, studentID, 10)
	})
	require.NoError(t, err)

	students, err := repo.Students().ListWithTeacher(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(50), students[0].Points)

	var amount int64
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT ammount FROM transaction_log WHERE student_id = $1`, studentID).Scan(&amount))
	require.Equal(t, int64(10), amount)
}

func TestArchiveRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	payload := []byte(`[{"house_id":1,"house_name":"Ash","total_points":70}]`)
	require.NoError(t, repo.Archive().Insert(ctx, payload, 2))

	snapshots, err := repo.Archive().List(ctx)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	require.JSONEq(t, string(payload), string(snapshots[0].Data))
	require.Equal(t, int64(2), snapshots[0].StudentCount)
	require.False(t, snapshots[0].Timestamp.IsZero())
}

func TestAuditRepositoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	base := time.Now().UTC().Add(-time.Hour)
	for i, message := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Audit().Insert(ctx, storage.AuditEntry{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Level:     "INFO",
			Message:   message,
			Module:    "api",
		}))
	}

	entries, err := repo.Audit().List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "third", entries[0].Message)
	require.Equal(t, "second", entries[1].Message)
}
