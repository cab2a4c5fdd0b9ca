// ABOUTME: Subject CRUD operations for SQLite storage.
// ABOUTME: Subjects belong to a family and sort case-insensitively by name.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/daybook/internal/models"
)

const subjectColumns = `id, family_id, name, description, created_at, updated_at`

// CreateSubject stores a new subject and sets its ID.
func (d *DB) CreateSubject(ctx context.Context, s *models.Subject) error {
	result, err := d.q.ExecContext(ctx, `
		INSERT INTO subjects (family_id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.FamilyID, s.Name, s.Description, formatTime(s.CreatedAt), formatTimePtr(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create subject: %w", classify(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	s.ID = id
	return nil
}

// GetSubject retrieves a subject by ID.
func (d *DB) GetSubject(ctx context.Context, id int64) (*models.Subject, error) {
	row := d.q.QueryRowContext(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE id = ?`, id)
	s, err := scanSubject(row)
	if err != nil {
		return nil, notFound(err, "subject", id)
	}
	return s, nil
}

// ListSubjects returns the subjects of a family ordered by name, ignoring case.
func (d *DB) ListSubjects(ctx context.Context, familyID int64) ([]*models.Subject, error) {
	return d.querySubjects(ctx,
		`SELECT `+subjectColumns+` FROM subjects WHERE family_id = ? ORDER BY LOWER(name), id`, familyID)
}

// UpdateSubject saves name and description.
func (d *DB) UpdateSubject(ctx context.Context, s *models.Subject) error {
	now := time.Now().UTC()
	result, err := d.q.ExecContext(ctx,
		`UPDATE subjects SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		s.Name, s.Description, formatTime(now), s.ID,
	)
	if err != nil {
		return fmt.Errorf("update subject: %w", classify(err))
	}
	if err := checkAffected(result, "subject", s.ID); err != nil {
		return err
	}
	s.UpdatedAt = &now
	return nil
}

// DeleteSubject removes a subject with its logs, assignments and overrides.
func (d *DB) DeleteSubject(ctx context.Context, id int64) error {
	result, err := d.q.ExecContext(ctx, `DELETE FROM subjects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return checkAffected(result, "subject", id)
}

func (d *DB) querySubjects(ctx context.Context, query string, args ...any) ([]*models.Subject, error) {
	rows, err := d.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func scanSubject(row scanner) (*models.Subject, error) {
	var s models.Subject
	var desc, updatedAt sql.NullString
	var createdAt string

	if err := row.Scan(&s.ID, &s.FamilyID, &s.Name, &desc, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	s.Description = nullString(desc)
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTimePtr(updatedAt)
	return &s, nil
}
