// Package roster manages student and teacher records: listing, search,
// creation, partial edits, and the referential cleanup that deletion
// requires.
package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/ashgrove-hs/housepoints/internal/domain/auth"
	"github.com/ashgrove-hs/housepoints/internal/sanitize"
	"github.com/ashgrove-hs/housepoints/internal/storage"
)

// ErrWrongPassword is returned by EditSelf when the supplied current
// password does not match the stored hash.
var ErrWrongPassword = errors.New("current password mismatch")

type Service struct {
	repo storage.Repository
	// fallbackTeacherID receives the students of any deleted teacher.
	fallbackTeacherID int64
}

func NewService(repo storage.Repository, fallbackTeacherID int64) *Service {
	return &Service{repo: repo, fallbackTeacherID: fallbackTeacherID}
}

func (s *Service) Students(ctx context.Context) ([]storage.StudentWithTeacher, error) {
	return s.repo.Students().ListWithTeacher(ctx)
}

func (s *Service) SearchStudents(ctx context.Context, query string) ([]storage.UserRef, error) {
	return s.repo.Students().Search(ctx, query)
}

func (s *Service) Teachers(ctx context.Context) ([]storage.User, error) {
	return s.repo.Users().List(ctx)
}

func (s *Service) SearchTeachers(ctx context.Context, query string) ([]storage.UserRef, error) {
	return s.repo.Users().Search(ctx, query)
}

func (s *Service) AddStudent(ctx context.Context, student storage.NewStudent) error {
	student.FirstName = sanitize.Text(student.FirstName)
	student.LastName = sanitize.Text(student.LastName)
	return s.repo.Students().Create(ctx, student)
}

// EditStudent applies a partial update. When no recognized fields are
// present it succeeds as a no-op without touching the store, and reports
// changed=false.
func (s *Service) EditStudent(ctx context.Context, id int64, update storage.StudentUpdate) (bool, error) {
	if update.FirstName != nil {
		clean := sanitize.Text(*update.FirstName)
		update.FirstName = &clean
	}
	if update.LastName != nil {
		clean := sanitize.Text(*update.LastName)
		update.LastName = &clean
	}
	if update == (storage.StudentUpdate{}) {
		return false, nil
	}
	if err := s.repo.Students().Update(ctx, id, update); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteStudent removes the student's transaction rows before the student
// row itself, atomically.
func (s *Service) DeleteStudent(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		if err := tx.Points().DeleteByStudent(ctx, id); err != nil {
			return err
		}
		return tx.Students().Delete(ctx, id)
	})
}

// DeleteAllStudents clears the transaction log, then every student row.
func (s *Service) DeleteAllStudents(ctx context.Context) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		if err := tx.Points().DeleteAll(ctx); err != nil {
			return err
		}
		return tx.Students().DeleteAll(ctx)
	})
}

// AddTeacher creates a non-admin teacher account with a hashed password and
// a freshly issued token.
func (s *Service) AddTeacher(ctx context.Context, name, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.repo.Users().Create(ctx, sanitize.Text(name), email, hash, auth.NewToken())
}

// TeacherUpdate is the partial-edit payload for a teacher row. A non-nil
// Password is hashed before storage.
type TeacherUpdate struct {
	Name     *string
	Email    *string
	Admin    *bool
	Password *string
}

func (s *Service) EditTeacher(ctx context.Context, id int64, update TeacherUpdate) (bool, error) {
	stored := storage.UserUpdate{
		Name:  update.Name,
		Email: update.Email,
		Admin: update.Admin,
	}
	if stored.Name != nil {
		clean := sanitize.Text(*stored.Name)
		stored.Name = &clean
	}
	if update.Password != nil {
		hash, err := auth.HashPassword(*update.Password)
		if err != nil {
			return false, err
		}
		stored.PasswordHash = &hash
	}
	if stored == (storage.UserUpdate{}) {
		return false, nil
	}
	if err := s.repo.Users().Update(ctx, id, stored); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteTeacher reassigns the teacher's students to the fallback teacher
// before removing the account, atomically. No student rows are removed.
func (s *Service) DeleteTeacher(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		if err := tx.Students().ReassignTeacher(ctx, id, s.fallbackTeacherID); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, id)
	})
}

// SelfUpdate is the partial-edit payload for the acting user. A password
// change requires the current password; both fields must be present.
type SelfUpdate struct {
	Name            *string
	Email           *string
	CurrentPassword *string
	NewPassword     *string
}

// EditSelf applies a partial update to the acting user's own account. The
// current password is verified before any password change; a mismatch
// fails the whole edit with ErrWrongPassword.
func (s *Service) EditSelf(ctx context.Context, user *storage.User, update SelfUpdate) (bool, error) {
	stored := storage.UserUpdate{
		Name:  update.Name,
		Email: update.Email,
	}
	if stored.Name != nil {
		clean := sanitize.Text(*stored.Name)
		stored.Name = &clean
	}
	if update.CurrentPassword != nil && update.NewPassword != nil {
		if !auth.CheckPassword(user.PasswordHash, *update.CurrentPassword) {
			return false, ErrWrongPassword
		}
		hash, err := auth.HashPassword(*update.NewPassword)
		if err != nil {
			return false, err
		}
		stored.PasswordHash = &hash
	}
	if stored == (storage.UserUpdate{}) {
		return false, nil
	}
	if err := s.repo.Users().Update(ctx, user.ID, stored); err != nil {
		return false, fmt.Errorf("update self: %w", err)
	}
	return true, nil
}
