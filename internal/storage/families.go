// ABOUTME: Family CRUD operations for SQLite storage.
// ABOUTME: Deleting a family cascades to everything it owns.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/daybook/internal/models"
)

// CreateFamily stores a new family and sets its ID.
func (d *DB) CreateFamily(ctx context.Context, f *models.Family) error {
	result, err := d.q.ExecContext(ctx,
		`INSERT INTO families (name, created_at, updated_at) VALUES (?, ?, ?)`,
		f.Name, formatTime(f.CreatedAt), formatTimePtr(f.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create family: %w", classify(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create family: %w", err)
	}
	f.ID = id
	return nil
}

// GetFamily retrieves a family by ID.
func (d *DB) GetFamily(ctx context.Context, id int64) (*models.Family, error) {
	row := d.q.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM families WHERE id = ?`, id)
	f, err := scanFamily(row)
	if err != nil {
		return nil, notFound(err, "family", id)
	}
	return f, nil
}

// ListFamilies returns all families ordered by name.
func (d *DB) ListFamilies(ctx context.Context) ([]*models.Family, error) {
	rows, err := d.q.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM families ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}
	defer rows.Close()

	var families []*models.Family
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, err
		}
		families = append(families, f)
	}
	return families, rows.Err()
}

// UpdateFamily renames a family.
func (d *DB) UpdateFamily(ctx context.Context, f *models.Family) error {
	now := time.Now().UTC()
	result, err := d.q.ExecContext(ctx,
		`UPDATE families SET name = ?, updated_at = ? WHERE id = ?`,
		f.Name, formatTime(now), f.ID,
	)
	if err != nil {
		return fmt.Errorf("update family: %w", classify(err))
	}
	if err := checkAffected(result, "family", f.ID); err != nil {
		return err
	}
	f.UpdatedAt = &now
	return nil
}

// DeleteFamily removes a family with its students, subjects, custom metrics
// and every record hanging off them.
func (d *DB) DeleteFamily(ctx context.Context, id int64) error {
	result, err := d.q.ExecContext(ctx, `DELETE FROM families WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete family: %w", err)
	}
	return checkAffected(result, "family", id)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFamily(row scanner) (*models.Family, error) {
	var f models.Family
	var createdAt string
	var updatedAt sql.NullString

	if err := row.Scan(&f.ID, &f.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	f.CreatedAt = parseTime(createdAt)
	f.UpdatedAt = parseTimePtr(updatedAt)
	return &f, nil
}
