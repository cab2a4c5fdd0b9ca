// ABOUTME: Student CRUD operations for SQLite storage.
// ABOUTME: Students belong to a family and are listed by name.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/daybook/internal/models"
)

const studentColumns = `id, family_id, name, date_of_birth, notes, created_at, updated_at`

// CreateStudent stores a new student and sets its ID.
func (d *DB) CreateStudent(ctx context.Context, s *models.Student) error {
	result, err := d.q.ExecContext(ctx, `
		INSERT INTO students (family_id, name, date_of_birth, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		s.FamilyID, s.Name, formatDatePtr(s.DateOfBirth), s.Notes,
		formatTime(s.CreatedAt), formatTimePtr(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create student: %w", classify(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	s.ID = id
	return nil
}

// GetStudent retrieves a student by ID.
func (d *DB) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	row := d.q.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE id = ?`, id)
	s, err := scanStudent(row)
	if err != nil {
		return nil, notFound(err, "student", id)
	}
	return s, nil
}

// ListStudents returns the students of a family ordered by name.
func (d *DB) ListStudents(ctx context.Context, familyID int64) ([]*models.Student, error) {
	return d.queryStudents(ctx,
		`SELECT `+studentColumns+` FROM students WHERE family_id = ? ORDER BY name, id`, familyID)
}

// UpdateStudent saves name, date of birth and notes.
func (d *DB) UpdateStudent(ctx context.Context, s *models.Student) error {
	now := time.Now().UTC()
	result, err := d.q.ExecContext(ctx, `
		UPDATE students SET name = ?, date_of_birth = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, s.Name, formatDatePtr(s.DateOfBirth), s.Notes, formatTime(now), s.ID)
	if err != nil {
		return fmt.Errorf("update student: %w", classify(err))
	}
	if err := checkAffected(result, "student", s.ID); err != nil {
		return err
	}
	s.UpdatedAt = &now
	return nil
}

// DeleteStudent removes a student with their logs and configuration.
func (d *DB) DeleteStudent(ctx context.Context, id int64) error {
	result, err := d.q.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return checkAffected(result, "student", id)
}

func (d *DB) queryStudents(ctx context.Context, query string, args ...any) ([]*models.Student, error) {
	rows, err := d.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func scanStudent(row scanner) (*models.Student, error) {
	var s models.Student
	var dob, notes, updatedAt sql.NullString
	var createdAt string

	if err := row.Scan(&s.ID, &s.FamilyID, &s.Name, &dob, &notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	s.DateOfBirth = parseDatePtr(dob)
	s.Notes = nullString(notes)
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTimePtr(updatedAt)
	return &s, nil
}

func formatDate(t time.Time) string {
	return models.NormalizeDate(t).Format(models.DateLayout)
}

func formatDatePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatDate(*t)
}

func parseDate(s string) time.Time {
	t, _ := time.Parse(models.DateLayout, s)
	return t
}

func parseDatePtr(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t := parseDate(s.String)
	return &t
}
