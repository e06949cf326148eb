package postgres

import (
	"context"
	"fmt"

	"github.com/ashgrove-hs/housepoints/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// queryer is satisfied by both *pgxpool.Pool and pgx.Tx, letting every
// repository run against the pool or inside a shared transaction.
type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Users() storage.UserRepository {
	return &UserRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) Students() storage.StudentRepository {
	return &StudentRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) Houses() storage.HouseRepository {
	return &HouseRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) Points() storage.PointRepository {
	return &PointRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) Archive() storage.ArchiveRepository {
	return &ArchiveRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) Audit() storage.AuditRepository {
	return &AuditRepository{pool: r.pool, tx: r.tx}
}

// WithTx runs fn against a repository whose sub-repositories all share one
// transaction. Nested calls reuse the outer transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, storage.Repository) error) error {
	if r.tx != nil {
		return fn(ctx, r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	wrapped := &Repository{pool: r.pool, tx: tx}
	if err := fn(ctx, wrapped); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type UserRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

type StudentRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

type HouseRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

type PointRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

type ArchiveRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

type AuditRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}
