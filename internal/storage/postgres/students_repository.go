package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/ashgrove-hs/housepoints/internal/storage"
)

func (r *StudentRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *StudentRepository) ListWithTeacher(ctx context.Context) ([]storage.StudentWithTeacher, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT students.id, students.first_name, students.last_name, students.points,
       students.grad_year, students.house, students.teacher, users.name AS teacher_name
  FROM students
  LEFT JOIN users ON students.teacher = users.id
 ORDER BY students.id`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []storage.StudentWithTeacher
	for rows.Next() {
		var s storage.StudentWithTeacher
		if err := rows.Scan(
			&s.ID,
			&s.FirstName,
			&s.LastName,
			&s.Points,
			&s.GradYear,
			&s.House,
			&s.TeacherID,
			&s.TeacherName,
		); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Search matches on first or last name but returns the first name alone,
// matching the search contract the frontend expects.
func (r *StudentRepository) Search(ctx context.Context, query string) ([]storage.UserRef, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := r.queryer().Query(ctx, `
SELECT id, first_name
  FROM students
 WHERE LOWER(first_name) LIKE $1 OR LOWER(last_name) LIKE $1
 ORDER BY id`, pattern)
	if err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	defer rows.Close()

	var refs []storage.UserRef
	for rows.Next() {
		var ref storage.UserRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("scan student ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *StudentRepository) Create(ctx context.Context, student storage.NewStudent) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO students (first_name, last_name, grad_year, points, teacher, house)
VALUES ($1, $2, $3, $4, $5, $6)`,
		student.FirstName,
		student.LastName,
		student.GradYear,
		student.Points,
		student.TeacherID,
		student.House,
	)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

func (r *StudentRepository) Update(ctx context.Context, id int64, update storage.StudentUpdate) error {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.FirstName != nil {
		add("first_name", *update.FirstName)
	}
	if update.LastName != nil {
		add("last_name", *update.LastName)
	}
	if update.GradYear != nil {
		add("grad_year", *update.GradYear)
	}
	if update.Points != nil {
		add("points", *update.Points)
	}
	if update.TeacherID != nil {
		add("teacher", *update.TeacherID)
	}
	if update.House != nil {
		add("house", *update.House)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	sql := fmt.Sprintf("UPDATE students SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := r.queryer().Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.queryer().Exec(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}

func (r *StudentRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.queryer().Exec(ctx, `DELETE FROM students`); err != nil {
		return fmt.Errorf("delete all students: %w", err)
	}
	return nil
}

// AddPoints is a single relative update; two concurrent awards to the same
// student serialize on the row, never on process memory.
func (r *StudentRepository) AddPoints(ctx context.Context, id int64, delta int64) error {
	if _, err := r.queryer().Exec(ctx, `UPDATE students SET points = points + $1 WHERE id = $2`, delta, id); err != nil {
		return fmt.Errorf("add points: %w", err)
	}
	return nil
}

func (r *StudentRepository) ZeroAllPoints(ctx context.Context) error {
	if _, err := r.queryer().Exec(ctx, `UPDATE students SET points = 0`); err != nil {
		return fmt.Errorf("zero points: %w", err)
	}
	return nil
}

func (r *StudentRepository) ReassignTeacher(ctx context.Context, from, to int64) error {
	if _, err := r.queryer().Exec(ctx, `UPDATE students SET teacher = $1 WHERE teacher = $2`, to, from); err != nil {
		return fmt.Errorf("reassign teacher: %w", err)
	}
	return nil
}

func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.queryer().QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}

func (r *StudentRepository) TopStudents(ctx context.Context, limit int32) ([]storage.NameValue, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT first_name || ' ' || last_name, points
  FROM students
 ORDER BY points DESC
 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top students: %w", err)
	}
	defer rows.Close()

	var out []storage.NameValue
	for rows.Next() {
		var nv storage.NameValue
		if err := rows.Scan(&nv.Name, &nv.Value); err != nil {
			return nil, fmt.Errorf("scan top student: %w", err)
		}
		out = append(out, nv)
	}
	return out, rows.Err()
}

func (r *StudentRepository) TopTeachers(ctx context.Context, limit int32) ([]storage.NameValue, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT users.name, SUM(students.points) AS total_points
  FROM students
  JOIN users ON students.teacher = users.id
 GROUP BY users.name
 ORDER BY total_points DESC
 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top teachers: %w", err)
	}
	defer rows.Close()

	var out []storage.NameValue
	for rows.Next() {
		var nv storage.NameValue
		if err := rows.Scan(&nv.Name, &nv.Value); err != nil {
			return nil, fmt.Errorf("scan top teacher: %w", err)
		}
		out = append(out, nv)
	}
	return out, rows.Err()
}
