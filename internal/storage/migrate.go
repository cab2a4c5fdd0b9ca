// ABOUTME: Data migration between daybook databases.
// ABOUTME: Copies every family graph from source to destination with fresh IDs.

package storage

import (
	"context"
	"fmt"

	"github.com/harperreed/daybook/internal/models"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Families  int
	Templates int
	Students  int
	Subjects  int
	Metrics   int
	DailyLogs int
	Values    int
	Skipped   int
}

// MigrateData copies all data from src to dst. Templates are seeded into dst
// first and any source template missing there is created, so template
// references survive the move. The destination should hold no families.
func MigrateData(ctx context.Context, src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	existing, err := dst.ListFamilies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list destination families: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("destination already has %d families: %w", len(existing), ErrConflict)
	}

	if _, err := dst.SeedTemplates(ctx); err != nil {
		return nil, fmt.Errorf("seed destination templates: %w", err)
	}

	templates, err := src.ListTemplateMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source templates: %w", err)
	}
	for _, t := range templates {
		if _, err := dst.FindTemplateByName(ctx, t.Name); err == nil {
			continue
		}
		n := *t
		n.ID = 0
		if err := dst.CreateMetric(ctx, &n); err != nil {
			return nil, fmt.Errorf("create template %q: %w", t.Name, err)
		}
		summary.Templates++
	}

	families, err := src.ListFamilies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source families: %w", err)
	}

	for _, f := range families {
		data, err := src.ExportFamily(ctx, f.ID)
		if err != nil {
			return nil, fmt.Errorf("export family %d: %w", f.ID, err)
		}

		nf := &models.Family{Name: f.Name, CreatedAt: f.CreatedAt}
		if err := dst.CreateFamily(ctx, nf); err != nil {
			return nil, fmt.Errorf("create family %q: %w", f.Name, err)
		}

		stats, err := dst.ImportFamily(ctx, nf.ID, data)
		if err != nil {
			return nil, fmt.Errorf("import family %q: %w", f.Name, err)
		}

		summary.Families++
		summary.Students += stats.Students
		summary.Subjects += stats.Subjects
		summary.Metrics += stats.Metrics
		summary.DailyLogs += stats.DailyLogs
		summary.Values += stats.Values
		summary.Skipped += stats.Skipped
	}

	return summary, nil
}
