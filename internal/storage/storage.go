// Package storage defines the persistence model and the repository
// interfaces the domain services depend on. The concrete implementation
// lives in storage/postgres.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// User is a teacher account. Token and GoogleSubject are nullable columns;
// Admin gates the admin-only operations.
type User struct {
	ID            int64
	Name          string
	Email         string
	PasswordHash  string
	Admin         bool
	Token         *string
	GoogleSubject *string
}

// UserRef is a search result row: student matches carry only id and first
// name, teacher matches also carry the email.
type UserRef struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
}

// StudentWithTeacher is a student row joined with the owning teacher's name.
// The pointer fields mirror nullable columns. TeacherID is internal; the
// listing exposes only the joined teacher_name.
type StudentWithTeacher struct {
	ID          int64   `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Points      int64   `json:"points"`
	GradYear    *int64  `json:"grad_year"`
	House       *int64  `json:"house"`
	TeacherID   *int64  `json:"-"`
	TeacherName *string `json:"teacher_name"`
}

// NewStudent is the insert payload for a student row.
type NewStudent struct {
	FirstName string
	LastName  string
	GradYear  *int64
	Points    int64
	TeacherID *int64
	House     *int64
}

// StudentUpdate is a partial update; nil fields are left untouched.
type StudentUpdate struct {
	FirstName *string
	LastName  *string
	GradYear  *int64
	Points    *int64
	TeacherID *int64
	House     *int64
}

// UserUpdate is a partial update for a user row; nil fields are left
// untouched. PasswordHash must already be hashed.
type UserUpdate struct {
	Name         *string
	Email        *string
	Admin        *bool
	PasswordHash *string
}

type House struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// HouseTotal is one house's derived point sum.
type HouseTotal struct {
	HouseID     int64
	HouseName   string
	TotalPoints int64
}

// NameValue is one leaderboard row before ranking.
type NameValue struct {
	Name  string
	Value int64
}

// ArchiveSnapshot is one stored standings snapshot. Data holds the
// serialized per-house totals exactly as written.
type ArchiveSnapshot struct {
	ID           int64
	Timestamp    time.Time
	Data         []byte
	StudentCount int64
}

// AuditEntry is one row of the append-only request log. Pointer fields map
// to nullable columns.
type AuditEntry struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Level      string    `json:"level"`
	Message    string    `json:"message"`
	Module     string    `json:"module"`
	UserID     *int64    `json:"user_id"`
	Username   *string   `json:"username"`
	Method     *string   `json:"method"`
	URL        *string   `json:"url"`
	StatusCode *int32    `json:"status_code"`
	StackTrace *string   `json:"stack_trace"`
	IPAddress  *string   `json:"ip_address"`
	Device     *string   `json:"device"`
}

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByToken(ctx context.Context, token string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Search(ctx context.Context, query string) ([]UserRef, error)
	Create(ctx context.Context, name, email, passwordHash, token string) error
	Update(ctx context.Context, id int64, update UserUpdate) error
	SetToken(ctx context.Context, id int64, token string) error
	SetGoogleSubject(ctx context.Context, id int64, subject string) error
	Delete(ctx context.Context, id int64) error
}

type StudentRepository interface {
	ListWithTeacher(ctx context.Context) ([]StudentWithTeacher, error)
	Search(ctx context.Context, query string) ([]UserRef, error)
	Create(ctx context.Context, student NewStudent) error
	Update(ctx context.Context, id int64, update StudentUpdate) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	AddPoints(ctx context.Context, id int64, delta int64) error
	ZeroAllPoints(ctx context.Context) error
	ReassignTeacher(ctx context.Context, from, to int64) error
	Count(ctx context.Context) (int64, error)
	TopStudents(ctx context.Context, limit int32) ([]NameValue, error)
	TopTeachers(ctx context.Context, limit int32) ([]NameValue, error)
}

type HouseRepository interface {
	List(ctx context.Context) ([]House, error)
	SumPoints(ctx context.Context, houseID int64) (int64, error)
	Totals(ctx context.Context) ([]HouseTotal, error)
}

type PointRepository interface {
	Insert(ctx context.Context, studentID int64, amount int64, reason string, teacherID int64) error
	DeleteByStudent(ctx context.Context, studentID int64) error
	DeleteAll(ctx context.Context) error
}

type ArchiveRepository interface {
	Insert(ctx context.Context, data []byte, studentCount int64) error
	List(ctx context.Context) ([]ArchiveSnapshot, error)
}

type AuditRepository interface {
	Insert(ctx context.Context, entry AuditEntry) error
	List(ctx context.Context, limit int32) ([]AuditEntry, error)
}

// Repository bundles the sub-repositories behind one handle. WithTx runs fn
// against a repository whose sub-repositories share a single transaction;
// the transaction commits when fn returns nil and rolls back otherwise.
type Repository interface {
	Users() UserRepository
	Students() StudentRepository
	Houses() HouseRepository
	Points() PointRepository
	Archive() ArchiveRepository
	Audit() AuditRepository
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
}
