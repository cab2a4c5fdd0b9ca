// ABOUTME: Storage for student-level metric configuration and per-subject overrides.
// ABOUTME: Both tables are keyed by their natural composite keys.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/daybook/internal/models"
)

// CreateStudentMetric stores a student-level configuration.
func (d *DB) CreateStudentMetric(ctx context.Context, sm *models.StudentMetric) error {
	result, err := d.q.ExecContext(ctx, `
		INSERT INTO student_metrics (student_id, metric_id, is_enabled, applies_to_all_subjects, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		sm.StudentID, sm.MetricID, sm.IsEnabled, sm.AppliesToAllSubjects,
		formatTime(sm.CreatedAt), formatTimePtr(sm.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create student metric: %w", classify(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create student metric: %w", err)
	}
	sm.ID = id
	return nil
}

// GetStudentMetric retrieves the configuration of a metric for a student.
func (d *DB) GetStudentMetric(ctx context.Context, studentID, metricID int64) (*models.StudentMetric, error) {
	row := d.q.QueryRowContext(ctx, `
		SELECT id, student_id, metric_id, is_enabled, applies_to_all_subjects, created_at, updated_at
		FROM student_metrics
		WHERE student_id = ? AND metric_id = ?
	`, studentID, metricID)
	sm, err := scanStudentMetric(row)
	if err != nil {
		return nil, notFound(err, "student metric for metric", metricID)
	}
	return sm, nil
}

// ListStudentMetrics returns every metric configuration of a student.
func (d *DB) ListStudentMetrics(ctx context.Context, studentID int64) ([]*models.StudentMetric, error) {
	rows, err := d.q.QueryContext(ctx, `
		SELECT id, student_id, metric_id, is_enabled, applies_to_all_subjects, created_at, updated_at
		FROM student_metrics
		WHERE student_id = ?
		ORDER BY metric_id
	`, studentID)
	if err != nil {
		return nil, fmt.Errorf("list student metrics: %w", err)
	}
	defer rows.Close()

	var configs []*models.StudentMetric
	for rows.Next() {
		sm, err := scanStudentMetric(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, sm)
	}
	return configs, rows.Err()
}

// UpdateStudentMetric saves the enabled and applies-to-all flags.
func (d *DB) UpdateStudentMetric(ctx context.Context, sm *models.StudentMetric) error {
	now := time.Now().UTC()
	result, err := d.q.ExecContext(ctx, `
		UPDATE student_metrics SET is_enabled = ?, applies_to_all_subjects = ?, updated_at = ?
		WHERE student_id = ? AND metric_id = ?
	`, sm.IsEnabled, sm.AppliesToAllSubjects, formatTime(now), sm.StudentID, sm.MetricID)
	if err != nil {
		return fmt.Errorf("update student metric: %w", err)
	}
	if err := checkAffected(result, "student metric for metric", sm.MetricID); err != nil {
		return err
	}
	sm.UpdatedAt = &now
	return nil
}

// DeleteStudentMetric removes a student-level configuration.
func (d *DB) DeleteStudentMetric(ctx context.Context, studentID, metricID int64) error {
	result, err := d.q.ExecContext(ctx,
		`DELETE FROM student_metrics WHERE student_id = ? AND metric_id = ?`,
		studentID, metricID,
	)
	if err != nil {
		return fmt.Errorf("delete student metric: %w", err)
	}
	return checkAffected(result, "student metric for metric", metricID)
}

// CreateStudentSubjectMetric stores a per-subject override.
func (d *DB) CreateStudentSubjectMetric(ctx context.Context, o *models.StudentSubjectMetric) error {
	result, err := d.q.ExecContext(ctx, `
		INSERT INTO student_subject_metrics (student_id, subject_id, metric_id, is_enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		o.StudentID, o.SubjectID, o.MetricID, o.IsEnabled,
		formatTime(o.CreatedAt), formatTimePtr(o.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create student subject metric: %w", classify(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create student subject metric: %w", err)
	}
	o.ID = id
	return nil
}

// GetStudentSubjectMetric retrieves the override for (student, subject, metric).
func (d *DB) GetStudentSubjectMetric(ctx context.Context, studentID, subjectID, metricID int64) (*models.StudentSubjectMetric, error) {
	row := d.q.QueryRowContext(ctx, `
		SELECT id, student_id, subject_id, metric_id, is_enabled, created_at, updated_at
		FROM student_subject_metrics
		WHERE student_id = ? AND subject_id = ? AND metric_id = ?
	`, studentID, subjectID, metricID)
	o, err := scanStudentSubjectMetric(row)
	if err != nil {
		return nil, notFound(err, "student subject metric for metric", metricID)
	}
	return o, nil
}

// ListStudentSubjectMetrics returns the overrides of a student for one subject.
func (d *DB) ListStudentSubjectMetrics(ctx context.Context, studentID, subjectID int64) ([]*models.StudentSubjectMetric, error) {
	rows, err := d.q.QueryContext(ctx, `
		SELECT id, student_id, subject_id, metric_id, is_enabled, created_at, updated_at
		FROM student_subject_metrics
		WHERE student_id = ? AND subject_id = ?
		ORDER BY metric_id
	`, studentID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list student subject metrics: %w", err)
	}
	defer rows.Close()

	var overrides []*models.StudentSubjectMetric
	for rows.Next() {
		o, err := scanStudentSubjectMetric(rows)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

// UpdateStudentSubjectMetric saves the enabled flag of an override.
func (d *DB) UpdateStudentSubjectMetric(ctx context.Context, o *models.StudentSubjectMetric) error {
	now := time.Now().UTC()
	result, err := d.q.ExecContext(ctx, `
		UPDATE student_subject_metrics SET is_enabled = ?, updated_at = ?
		WHERE student_id = ? AND subject_id = ? AND metric_id = ?
	`, o.IsEnabled, formatTime(now), o.StudentID, o.SubjectID, o.MetricID)
	if err != nil {
		return fmt.Errorf("update student subject metric: %w", err)
	}
	if err := checkAffected(result, "student subject metric for metric", o.MetricID); err != nil {
		return err
	}
	o.UpdatedAt = &now
	return nil
}

// DeleteStudentSubjectMetric removes an override.
func (d *DB) DeleteStudentSubjectMetric(ctx context.Context, studentID, subjectID, metricID int64) error {
	result, err := d.q.ExecContext(ctx, `
		DELETE FROM student_subject_metrics
		WHERE student_id = ? AND subject_id = ? AND metric_id = ?
	`, studentID, subjectID, metricID)
	if err != nil {
		return fmt.Errorf("delete student subject metric: %w", err)
	}
	return checkAffected(result, "student subject metric for metric", metricID)
}

func scanStudentMetric(row scanner) (*models.StudentMetric, error) {
	var sm models.StudentMetric
	var createdAt string
	var updatedAt sql.NullString

	err := row.Scan(&sm.ID, &sm.StudentID, &sm.MetricID, &sm.IsEnabled,
		&sm.AppliesToAllSubjects, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	sm.CreatedAt = parseTime(createdAt)
	sm.UpdatedAt = parseTimePtr(updatedAt)
	return &sm, nil
}

func scanStudentSubjectMetric(row scanner) (*models.StudentSubjectMetric, error) {
	var o models.StudentSubjectMetric
	var createdAt string
	var updatedAt sql.NullString

	err := row.Scan(&o.ID, &o.StudentID, &o.SubjectID, &o.MetricID, &o.IsEnabled, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	o.CreatedAt = parseTime(createdAt)
	o.UpdatedAt = parseTimePtr(updatedAt)
	return &o, nil
}
