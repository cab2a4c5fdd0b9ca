// ABOUTME: Daily log and daily log value storage.
// ABOUTME: Reads join student, subject and metric names for display.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/daybook/internal/models"
)

const dailyLogSelect = `
	SELECT l.id, l.student_id, l.subject_id, l.date, l.notes, l.created_at, l.updated_at,
		st.name, su.name
	FROM daily_logs l
	JOIN students st ON st.id = l.student_id
	JOIN subjects su ON su.id = l.subject_id
`

// CreateDailyLog stores a new log and sets its ID. A second log for the same
// student, subject and date returns ErrConflict.
func (d *DB) CreateDailyLog(ctx context.Context, l *models.DailyLog) error {
	result, err := d.q.ExecContext(ctx, `
		INSERT INTO daily_logs (student_id, subject_id, date, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		l.StudentID, l.SubjectID, formatDate(l.Date), l.Notes,
		formatTime(l.CreatedAt), formatTimePtr(l.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create daily log: %w", classify(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create daily log: %w", err)
	}
	l.ID = id
	return nil
}

// GetDailyLog retrieves a log with names and values populated.
func (d *DB) GetDailyLog(ctx context.Context, id int64) (*models.DailyLog, error) {
	l, err := scanDailyLog(d.q.QueryRowContext(ctx, dailyLogSelect+` WHERE l.id = ?`, id))
	if err != nil {
		return nil, notFound(err, "daily log", id)
	}
	if l.Values, err = d.ListDailyLogValues(ctx, l.ID); err != nil {
		return nil, err
	}
	return l, nil
}

// FindDailyLog retrieves the log for (student, subject, date) with values.
func (d *DB) FindDailyLog(ctx context.Context, studentID, subjectID int64, date time.Time) (*models.DailyLog, error) {
	row := d.q.QueryRowContext(ctx,
		dailyLogSelect+` WHERE l.student_id = ? AND l.subject_id = ? AND l.date = ?`,
		studentID, subjectID, formatDate(date),
	)
	l, err := scanDailyLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("daily log on %s: %w", formatDate(date), ErrNotFound)
		}
		return nil, err
	}
	if l.Values, err = d.ListDailyLogValues(ctx, l.ID); err != nil {
		return nil, err
	}
	return l, nil
}

// DailyLogExists reports whether a log other than excludeID exists for
// (student, subject, date). Pass 0 to exclude nothing.
func (d *DB) DailyLogExists(ctx context.Context, studentID, subjectID int64, date time.Time, excludeID int64) (bool, error) {
	var n int
	err := d.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM daily_logs
		WHERE student_id = ? AND subject_id = ? AND date = ? AND id != ?
	`, studentID, subjectID, formatDate(date), excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check daily log: %w", err)
	}
	return n > 0, nil
}

// ListDailyLogsForStudent returns a student's logs, newest date first, then by
// subject name. Values are not populated.
func (d *DB) ListDailyLogsForStudent(ctx context.Context, studentID int64) ([]*models.DailyLog, error) {
	return d.queryDailyLogs(ctx,
		dailyLogSelect+` WHERE l.student_id = ? ORDER BY l.date DESC, su.name, l.id`, studentID)
}

// ListDailyLogsForStudentSubject returns a student's logs for one subject,
// newest first. Values are not populated.
func (d *DB) ListDailyLogsForStudentSubject(ctx context.Context, studentID, subjectID int64) ([]*models.DailyLog, error) {
	return d.queryDailyLogs(ctx,
		dailyLogSelect+` WHERE l.student_id = ? AND l.subject_id = ? ORDER BY l.date DESC, l.id`,
		studentID, subjectID)
}

// ListDailyLogsForFamily returns every log of a family's students with values
// populated, newest first. since, when set, drops logs before that date.
func (d *DB) ListDailyLogsForFamily(ctx context.Context, familyID int64, since *time.Time) ([]*models.DailyLog, error) {
	query := dailyLogSelect + ` WHERE st.family_id = ?`
	args := []any{familyID}
	if since != nil {
		query += ` AND l.date >= ?`
		args = append(args, formatDate(*since))
	}
	query += ` ORDER BY l.date DESC, st.name, su.name, l.id`

	logs, err := d.queryDailyLogs(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for _, l := range logs {
		if l.Values, err = d.ListDailyLogValues(ctx, l.ID); err != nil {
			return nil, err
		}
	}
	return logs, nil
}

// UpdateDailyLog saves the date and notes of a log.
func (d *DB) UpdateDailyLog(ctx context.Context, l *models.DailyLog) error {
	now := time.Now().UTC()
	result, err := d.q.ExecContext(ctx,
		`UPDATE daily_logs SET date = ?, notes = ?, updated_at = ? WHERE id = ?`,
		formatDate(l.Date), l.Notes, formatTime(now), l.ID,
	)
	if err != nil {
		return fmt.Errorf("update daily log: %w", classify(err))
	}
	if err := checkAffected(result, "daily log", l.ID); err != nil {
		return err
	}
	l.UpdatedAt = &now
	return nil
}

// DeleteDailyLog removes a log and its values.
func (d *DB) DeleteDailyLog(ctx context.Context, id int64) error {
	result, err := d.q.ExecContext(ctx, `DELETE FROM daily_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete daily log: %w", err)
	}
	return checkAffected(result, "daily log", id)
}

// AddDailyLogValue stores one value on a log and sets its ID.
func (d *DB) AddDailyLogValue(ctx context.Context, v *models.DailyLogValue) error {
	var boolean, categorical, numeric any
	switch v.Value.Kind() {
	case models.KindBoolean:
		b, _ := v.Value.Bool()
		boolean = b
	case models.KindCategorical:
		categorical, _ = v.Value.Categorical()
	case models.KindNumeric:
		numeric, _ = v.Value.Numeric()
	default:
		return fmt.Errorf("add daily log value: metric %d has no value", v.MetricID)
	}

	result, err := d.q.ExecContext(ctx, `
		INSERT INTO daily_log_values (daily_log_id, metric_id, boolean_value, categorical_value, numeric_value)
		VALUES (?, ?, ?, ?, ?)
	`, v.DailyLogID, v.MetricID, boolean, categorical, numeric)
	if err != nil {
		return fmt.Errorf("add daily log value: %w", classify(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("add daily log value: %w", err)
	}
	v.ID = id
	v.Kind = v.Value.Kind()
	return nil
}

// ListDailyLogValues returns the values of a log ordered by metric name.
func (d *DB) ListDailyLogValues(ctx context.Context, dailyLogID int64) ([]models.DailyLogValue, error) {
	rows, err := d.q.QueryContext(ctx, `
		SELECT v.id, v.daily_log_id, v.metric_id, m.name, m.kind,
			v.boolean_value, v.categorical_value, v.numeric_value
		FROM daily_log_values v
		JOIN metrics m ON m.id = v.metric_id
		WHERE v.daily_log_id = ?
		ORDER BY m.name, v.id
	`, dailyLogID)
	if err != nil {
		return nil, fmt.Errorf("list daily log values: %w", err)
	}
	defer rows.Close()

	var values []models.DailyLogValue
	for rows.Next() {
		var v models.DailyLogValue
		var kind string
		var boolean sql.NullBool
		var categorical sql.NullString
		var numeric sql.NullFloat64

		err := rows.Scan(&v.ID, &v.DailyLogID, &v.MetricID, &v.MetricName, &kind,
			&boolean, &categorical, &numeric)
		if err != nil {
			return nil, err
		}

		switch {
		case boolean.Valid:
			v.Value = models.BoolValue(boolean.Bool)
		case categorical.Valid:
			v.Value = models.CategoricalValue(categorical.String)
		case numeric.Valid:
			v.Value = models.NumericValue(numeric.Float64)
		}
		v.Kind = v.Value.Kind()
		values = append(values, v)
	}
	return values, rows.Err()
}

// DeleteDailyLogValues removes every value of a log.
func (d *DB) DeleteDailyLogValues(ctx context.Context, dailyLogID int64) error {
	if _, err := d.q.ExecContext(ctx, `DELETE FROM daily_log_values WHERE daily_log_id = ?`, dailyLogID); err != nil {
		return fmt.Errorf("delete daily log values: %w", err)
	}
	return nil
}

func (d *DB) queryDailyLogs(ctx context.Context, query string, args ...any) ([]*models.DailyLog, error) {
	rows, err := d.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.DailyLog
	for rows.Next() {
		l, err := scanDailyLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func scanDailyLog(row scanner) (*models.DailyLog, error) {
	var l models.DailyLog
	var date, createdAt string
	var notes, updatedAt sql.NullString

	err := row.Scan(&l.ID, &l.StudentID, &l.SubjectID, &date, &notes, &createdAt, &updatedAt,
		&l.StudentName, &l.SubjectName)
	if err != nil {
		return nil, err
	}
	l.Date = parseDate(date)
	l.Notes = nullString(notes)
	l.CreatedAt = parseTime(createdAt)
	l.UpdatedAt = parseTimePtr(updatedAt)
	return &l, nil
}
