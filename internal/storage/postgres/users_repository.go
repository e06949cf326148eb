package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ashgrove-hs/housepoints/internal/storage"
	"github.com/jackc/pgx/v5"
)

func (r *UserRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

const userColumns = `id, name, email, password, admin, token, google_sub`

func scanUser(row pgx.Row) (*storage.User, error) {
	var user storage.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Admin,
		&user.Token,
		&user.GoogleSubject,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}

// GetByEmail is a case-sensitive exact match on the stored email, matching
// the login contract.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*storage.User, error) {
	row := r.queryer().QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) GetByToken(ctx context.Context, token string) (*storage.User, error) {
	row := r.queryer().QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE token = $1`, token)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context) ([]storage.User, error) {
	rows, err := r.queryer().Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []storage.User
	for rows.Next() {
		var user storage.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Admin,
			&user.Token,
			&user.GoogleSubject,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Search(ctx context.Context, query string) ([]storage.UserRef, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := r.queryer().Query(ctx, `
SELECT id, name, email
  FROM users
 WHERE LOWER(name) LIKE $1 OR LOWER(email) LIKE $1
 ORDER BY id`, pattern)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	var refs []storage.UserRef
	for rows.Next() {
		var ref storage.UserRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Email); err != nil {
			return nil, fmt.Errorf("scan user ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, name, email, passwordHash, token string) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO users (name, email, password, admin, token)
VALUES ($1, $2, $3, FALSE, $4)`, name, email, passwordHash, token)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update writes only the fields present in the update. Callers are expected
// to have checked that at least one field is set.
func (r *UserRepository) Update(ctx context.Context, id int64, update storage.UserUpdate) error {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Email != nil {
		add("email", *update.Email)
	}
	if update.Admin != nil {
		add("admin", *update.Admin)
	}
	if update.PasswordHash != nil {
		add("password", *update.PasswordHash)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	sql := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := r.queryer().Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepository) SetToken(ctx context.Context, id int64, token string) error {
	if _, err := r.queryer().Exec(ctx, `UPDATE users SET token = $1 WHERE id = $2`, token, id); err != nil {
		return fmt.Errorf("set token: %w", err)
	}
	return nil
}

func (r *UserRepository) SetGoogleSubject(ctx context.Context, id int64, subject string) error {
	if _, err := r.queryer().Exec(ctx, `UPDATE users SET google_sub = $1 WHERE id = $2`, subject, id); err != nil {
		return fmt.Errorf("set google subject: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.queryer().Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
