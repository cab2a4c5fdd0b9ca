// ABOUTME: Metric CRUD operations for SQLite storage.
// ABOUTME: Covers template and family metrics plus the visible-catalog queries.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/daybook/internal/models"
)

const metricColumns = `id, name, description, kind, category, family_id, is_template,
	possible_values, numeric_config, created_at, updated_at`

// CreateMetric stores a new metric and sets its ID.
func (d *DB) CreateMetric(ctx context.Context, m *models.Metric) error {
	result, err := d.q.ExecContext(ctx, `
		INSERT INTO metrics (name, description, kind, category, family_id, is_template,
			possible_values, numeric_config, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.Name, m.Description, string(m.Kind), m.Category, m.FamilyID, m.IsTemplate,
		m.PossibleValuesJSON, m.NumericConfigJSON,
		formatTime(m.CreatedAt), formatTimePtr(m.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create metric: %w", classify(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create metric: %w", err)
	}
	m.ID = id
	return nil
}

// GetMetric retrieves a metric by ID.
func (d *DB) GetMetric(ctx context.Context, id int64) (*models.Metric, error) {
	row := d.q.QueryRowContext(ctx, `SELECT `+metricColumns+` FROM metrics WHERE id = ?`, id)
	m, err := scanMetric(row)
	if err != nil {
		return nil, notFound(err, "metric", id)
	}
	return m, nil
}

// UpdateMetric saves the editable fields of a metric. Ownership and template
// status are never changed by an update.
func (d *DB) UpdateMetric(ctx context.Context, m *models.Metric) error {
	now := time.Now().UTC()
	result, err := d.q.ExecContext(ctx, `
		UPDATE metrics
		SET name = ?, description = ?, kind = ?, category = ?,
			possible_values = ?, numeric_config = ?, updated_at = ?
		WHERE id = ?
	`,
		m.Name, m.Description, string(m.Kind), m.Category,
		m.PossibleValuesJSON, m.NumericConfigJSON, formatTime(now), m.ID,
	)
	if err != nil {
		return fmt.Errorf("update metric: %w", classify(err))
	}
	if err := checkAffected(result, "metric", m.ID); err != nil {
		return err
	}
	m.UpdatedAt = &now
	return nil
}

// DeleteMetric removes a metric along with its student configuration,
// overrides and recorded values.
func (d *DB) DeleteMetric(ctx context.Context, id int64) error {
	result, err := d.q.ExecContext(ctx, `DELETE FROM metrics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete metric: %w", err)
	}
	return checkAffected(result, "metric", id)
}

// ListVisibleMetrics returns every template plus the family's own metrics.
// Templates come first; each group is ordered by category then name.
func (d *DB) ListVisibleMetrics(ctx context.Context, familyID int64) ([]*models.Metric, error) {
	return d.queryMetrics(ctx, `
		SELECT `+metricColumns+` FROM metrics
		WHERE is_template = 1 OR family_id = ?
		ORDER BY is_template DESC, COALESCE(category, ''), name, id
	`, familyID)
}

// ListTemplateMetrics returns the global templates ordered by category then name.
func (d *DB) ListTemplateMetrics(ctx context.Context) ([]*models.Metric, error) {
	return d.queryMetrics(ctx, `
		SELECT `+metricColumns+` FROM metrics
		WHERE is_template = 1
		ORDER BY COALESCE(category, ''), name, id
	`)
}

// ListCustomMetrics returns a family's own metrics ordered by category then name.
func (d *DB) ListCustomMetrics(ctx context.Context, familyID int64) ([]*models.Metric, error) {
	return d.queryMetrics(ctx, `
		SELECT `+metricColumns+` FROM metrics
		WHERE is_template = 0 AND family_id = ?
		ORDER BY COALESCE(category, ''), name, id
	`, familyID)
}

// FindTemplateByName returns the template with the given name.
func (d *DB) FindTemplateByName(ctx context.Context, name string) (*models.Metric, error) {
	row := d.q.QueryRowContext(ctx, `
		SELECT `+metricColumns+` FROM metrics
		WHERE is_template = 1 AND name = ?
		ORDER BY id LIMIT 1
	`, name)
	m, err := scanMetric(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("template %q: %w", name, ErrNotFound)
		}
		return nil, err
	}
	return m, nil
}

func (d *DB) queryMetrics(ctx context.Context, query string, args ...any) ([]*models.Metric, error) {
	rows, err := d.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	defer rows.Close()

	var metrics []*models.Metric
	for rows.Next() {
		m, err := scanMetric(rows)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

func scanMetric(row scanner) (*models.Metric, error) {
	var m models.Metric
	var kind, createdAt string
	var description, category, possibleValues, numericConfig, updatedAt sql.NullString
	var familyID sql.NullInt64

	err := row.Scan(
		&m.ID, &m.Name, &description, &kind, &category, &familyID, &m.IsTemplate,
		&possibleValues, &numericConfig, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Kind = models.MetricKind(kind)
	m.Description = nullString(description)
	m.Category = nullString(category)
	if familyID.Valid {
		id := familyID.Int64
		m.FamilyID = &id
	}
	m.PossibleValuesJSON = nullString(possibleValues)
	m.NumericConfigJSON = nullString(numericConfig)
	m.CreatedAt = parseTime(createdAt)
	m.UpdatedAt = parseTimePtr(updatedAt)
	return &m, nil
}
