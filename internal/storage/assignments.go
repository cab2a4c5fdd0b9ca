// ABOUTME: Student-subject assignment storage.
// ABOUTME: Links students to the subjects they study.
package storage

import (
	"context"
	"fmt"

	"github.com/harperreed/daybook/internal/models"
)

// CreateStudentSubject assigns a subject to a student. A repeated assignment
// returns ErrConflict.
func (d *DB) CreateStudentSubject(ctx context.Context, ss *models.StudentSubject) error {
	result, err := d.q.ExecContext(ctx,
		`INSERT INTO student_subjects (student_id, subject_id, created_at) VALUES (?, ?, ?)`,
		ss.StudentID, ss.SubjectID, formatTime(ss.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create student subject: %w", classify(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create student subject: %w", err)
	}
	ss.ID = id
	return nil
}

// GetStudentSubject retrieves the assignment of a subject to a student.
func (d *DB) GetStudentSubject(ctx context.Context, studentID, subjectID int64) (*models.StudentSubject, error) {
	var ss models.StudentSubject
	var createdAt string
	err := d.q.QueryRowContext(ctx, `
		SELECT id, student_id, subject_id, created_at FROM student_subjects
		WHERE student_id = ? AND subject_id = ?
	`, studentID, subjectID).Scan(&ss.ID, &ss.StudentID, &ss.SubjectID, &createdAt)
	if err != nil {
		return nil, notFound(err, "student subject for student", studentID)
	}
	ss.CreatedAt = parseTime(createdAt)
	return &ss, nil
}

// DeleteStudentSubject removes an assignment.
func (d *DB) DeleteStudentSubject(ctx context.Context, studentID, subjectID int64) error {
	result, err := d.q.ExecContext(ctx,
		`DELETE FROM student_subjects WHERE student_id = ? AND subject_id = ?`,
		studentID, subjectID,
	)
	if err != nil {
		return fmt.Errorf("delete student subject: %w", err)
	}
	return checkAffected(result, "student subject for student", studentID)
}

// ListSubjectsForStudent returns the subjects assigned to a student by name.
func (d *DB) ListSubjectsForStudent(ctx context.Context, studentID int64) ([]*models.Subject, error) {
	return d.querySubjects(ctx, `
		SELECT s.id, s.family_id, s.name, s.description, s.created_at, s.updated_at
		FROM subjects s
		JOIN student_subjects ss ON ss.subject_id = s.id
		WHERE ss.student_id = ?
		ORDER BY LOWER(s.name), s.id
	`, studentID)
}

// ListStudentsForSubject returns the students studying a subject by name.
func (d *DB) ListStudentsForSubject(ctx context.Context, subjectID int64) ([]*models.Student, error) {
	return d.queryStudents(ctx, `
		SELECT s.id, s.family_id, s.name, s.date_of_birth, s.notes, s.created_at, s.updated_at
		FROM students s
		JOIN student_subjects ss ON ss.student_id = s.id
		WHERE ss.subject_id = ?
		ORDER BY s.name, s.id
	`, subjectID)
}
