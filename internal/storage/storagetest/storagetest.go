// Package storagetest provides hand-wired fakes for the storage
// interfaces. Each fake method delegates to an optional func field; unset
// lookups report not-found and unset mutations succeed.
package storagetest

import (
	"context"

	"github.com/ashgrove-hs/housepoints/internal/storage"
)

type Users struct {
	GetByEmailFunc       func(ctx context.Context, email string) (*storage.User, error)
	GetByTokenFunc       func(ctx context.Context, token string) (*storage.User, error)
	ListFunc             func(ctx context.Context) ([]storage.User, error)
	SearchFunc           func(ctx context.Context, query string) ([]storage.UserRef, error)
	CreateFunc           func(ctx context.Context, name, email, passwordHash, token string) error
	UpdateFunc           func(ctx context.Context, id int64, update storage.UserUpdate) error
	SetTokenFunc         func(ctx context.Context, id int64, token string) error
	SetGoogleSubjectFunc func(ctx context.Context, id int64, subject string) error
	DeleteFunc           func(ctx context.Context, id int64) error
}

func (u *Users) GetByEmail(ctx context.Context, email string) (*storage.User, error) {
	if u.GetByEmailFunc != nil {
		return u.GetByEmailFunc(ctx, email)
	}
	return nil, storage.ErrNotFound
}

func (u *Users) GetByToken(ctx context.Context, token string) (*storage.User, error) {
	if u.GetByTokenFunc != nil {
		return u.GetByTokenFunc(ctx, token)
	}
	return nil, storage.ErrNotFound
}

func (u *Users) List(ctx context.Context) ([]storage.User, error) {
	if u.ListFunc != nil {
		return u.ListFunc(ctx)
	}
	return nil, nil
}

func (u *Users) Search(ctx context.Context, query string) ([]storage.UserRef, error) {
	if u.SearchFunc != nil {
		return u.SearchFunc(ctx, query)
	}
	return nil, nil
}

func (u *Users) Create(ctx context.Context, name, email, passwordHash, token string) error {
	if u.CreateFunc != nil {
		return u.CreateFunc(ctx, name, email, passwordHash, token)
	}
	return nil
}

func (u *Users) Update(ctx context.Context, id int64, update storage.UserUpdate) error {
	if u.UpdateFunc != nil {
		return u.UpdateFunc(ctx, id, update)
	}
	return nil
}

func (u *Users) SetToken(ctx context.Context, id int64, token string) error {
	if u.SetTokenFunc != nil {
		return u.SetTokenFunc(ctx, id, token)
	}
	return nil
}

func (u *Users) SetGoogleSubject(ctx context.Context, id int64, subject string) error {
	if u.SetGoogleSubjectFunc != nil {
		return u.SetGoogleSubjectFunc(ctx, id, subject)
	}
	return nil
}

func (u *Users) Delete(ctx context.Context, id int64) error {
	if u.DeleteFunc != nil {
		return u.DeleteFunc(ctx, id)
	}
	return nil
}

type Students struct {
	ListWithTeacherFunc func(ctx context.Context) ([]storage.StudentWithTeacher, error)
	SearchFunc          func(ctx context.Context, query string) ([]storage.UserRef, error)
	CreateFunc          func(ctx context.Context, student storage.NewStudent) error
	UpdateFunc          func(ctx context.Context, id int64, update storage.StudentUpdate) error
	DeleteFunc          func(ctx context.Context, id int64) error
	DeleteAllFunc       func(ctx context.Context) error
	AddPointsFunc       func(ctx context.Context, id int64, delta int64) error
	ZeroAllPointsFunc   func(ctx context.Context) error
	ReassignTeacherFunc func(ctx context.Context, from, to int64) error
	CountFunc           func(ctx context.Context) (int64, error)
	TopStudentsFunc     func(ctx context.Context, limit int32) ([]storage.NameValue, error)
	TopTeachersFunc     func(ctx context.Context, limit int32) ([]storage.NameValue, error)
}

func (s *Students) ListWithTeacher(ctx context.Context) ([]storage.StudentWithTeacher, error) {
	if s.ListWithTeacherFunc != nil {
		return s.ListWithTeacherFunc(ctx)
	}
	return nil, nil
}

func (s *Students) Search(ctx context.Context, query string) ([]storage.UserRef, error) {
	if s.SearchFunc != nil {
		return s.SearchFunc(ctx, query)
	}
	return nil, nil
}

func (s *Students) Create(ctx context.Context, student storage.NewStudent) error {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, student)
	}
	return nil
}

func (s *Students) Update(ctx context.Context, id int64, update storage.StudentUpdate) error {
	if s.UpdateFunc != nil {
		return s.UpdateFunc(ctx, id, update)
	}
	return nil
}

func (s *Students) Delete(ctx context.Context, id int64) error {
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, id)
	}
	return nil
}

func (s *Students) DeleteAll(ctx context.Context) error {
	if s.DeleteAllFunc != nil {
		return s.DeleteAllFunc(ctx)
	}
	return nil
}

func (s *Students) AddPoints(ctx context.Context, id int64, delta int64) error {
	if s.AddPointsFunc != nil {
		return s.AddPointsFunc(ctx, id, delta)
	}
	return nil
}

func (s *Students) ZeroAllPoints(ctx context.Context) error {
	if s.ZeroAllPointsFunc != nil {
		return s.ZeroAllPointsFunc(ctx)
	}
	return nil
}

func (s *Students) ReassignTeacher(ctx context.Context, from, to int64) error {
	if s.ReassignTeacherFunc != nil {
		return s.ReassignTeacherFunc(ctx, from, to)
	}
	return nil
}

func (s *Students) Count(ctx context.Context) (int64, error) {
	if s.CountFunc != nil {
		return s.CountFunc(ctx)
	}
	return 0, nil
}

func (s *Students) TopStudents(ctx context.Context, limit int32) ([]storage.NameValue, error) {
	if s.TopStudentsFunc != nil {
		return s.TopStudentsFunc(ctx, limit)
	}
	return nil, nil
}

func (s *Students) TopTeachers(ctx context.Context, limit int32) ([]storage.NameValue, error) {
	if s.TopTeachersFunc != nil {
		return s.TopTeachersFunc(ctx, limit)
	}
	return nil, nil
}

type Houses struct {
	ListFunc      func(ctx context.Context) ([]storage.House, error)
	SumPointsFunc func(ctx context.Context, houseID int64) (int64, error)
	TotalsFunc    func(ctx context.Context) ([]storage.HouseTotal, error)
}

func (h *Houses) List(ctx context.Context) ([]storage.House, error) {
	if h.ListFunc != nil {
		return h.ListFunc(ctx)
	}
	return nil, nil
}

func (h *Houses) SumPoints(ctx context.Context, houseID int64) (int64, error) {
	if h.SumPointsFunc != nil {
		return h.SumPointsFunc(ctx, houseID)
	}
	return 0, nil
}

func (h *Houses) Totals(ctx context.Context) ([]storage.HouseTotal, error) {
	if h.TotalsFunc != nil {
		return h.TotalsFunc(ctx)
	}
	return nil, nil
}

type Points struct {
	InsertFunc          func(ctx context.Context, studentID int64, amount int64, reason string, teacherID int64) error
	DeleteByStudentFunc func(ctx context.Context, studentID int64) error
	DeleteAllFunc       func(ctx context.Context) error
}

func (p *Points) Insert(ctx context.Context, studentID int64, amount int64, reason string, teacherID int64) error {
	if p.InsertFunc != nil {
		return p.InsertFunc(ctx, studentID, amount, reason, teacherID)
	}
	return nil
}

func (p *Points) DeleteByStudent(ctx context.Context, studentID int64) error {
	if p.DeleteByStudentFunc != nil {
		return p.DeleteByStudentFunc(ctx, studentID)
	}
	return nil
}

func (p *Points) DeleteAll(ctx context.Context) error {
	if p.DeleteAllFunc != nil {
		return p.DeleteAllFunc(ctx)
	}
	return nil
}

type Archive struct {
	InsertFunc func(ctx context.Context, data []byte, studentCount int64) error
	ListFunc   func(ctx context.Context) ([]storage.ArchiveSnapshot, error)
}

func (a *Archive) Insert(ctx context.Context, data []byte, studentCount int64) error {
	if a.InsertFunc != nil {
		return a.InsertFunc(ctx, data, studentCount)
	}
	return nil
}

func (a *Archive) List(ctx context.Context) ([]storage.ArchiveSnapshot, error) {
	if a.ListFunc != nil {
		return a.ListFunc(ctx)
	}
	return nil, nil
}

type Audit struct {
	InsertFunc func(ctx context.Context, entry storage.AuditEntry) error
	ListFunc   func(ctx context.Context, limit int32) ([]storage.AuditEntry, error)
}

func (a *Audit) Insert(ctx context.Context, entry storage.AuditEntry) error {
	if a.InsertFunc != nil {
		return a.InsertFunc(ctx, entry)
	}
	return nil
}

func (a *Audit) List(ctx context.Context, limit int32) ([]storage.AuditEntry, error) {
	if a.ListFunc != nil {
		return a.ListFunc(ctx, limit)
	}
	return nil, nil
}

// Repository bundles the fakes. WithTx runs fn against the same fake set,
// so call-order assertions see transactional and direct calls alike.
type Repository struct {
	UsersRepo    Users
	StudentsRepo Students
	HousesRepo   Houses
	PointsRepo   Points
	ArchiveRepo  Archive
	AuditRepo    Audit
	WithTxFunc   func(ctx context.Context, fn func(context.Context, storage.Repository) error) error
}

func (r *Repository) Users() storage.UserRepository       { return &r.UsersRepo }
func (r *Repository) Students() storage.StudentRepository { return &r.StudentsRepo }
func (r *Repository) Houses() storage.HouseRepository     { return &r.HousesRepo }
func (r *Repository) Points() storage.PointRepository     { return &r.PointsRepo }
func (r *Repository) Archive() storage.ArchiveRepository  { return &r.ArchiveRepo }
func (r *Repository) Audit() storage.AuditRepository      { return &r.AuditRepo }

func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, storage.Repository) error) error {
	if r.WithTxFunc != nil {
		return r.WithTxFunc(ctx, fn)
	}
	return fn(ctx, r)
}
