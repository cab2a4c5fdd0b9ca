// ABOUTME: Built-in template metrics and idempotent seeding.
// ABOUTME: Templates are matched by name so reseeding never duplicates them.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/daybook/internal/models"
)

// DefaultTemplates returns the template metrics shipped with daybook.
func DefaultTemplates() []*models.Metric {
	return []*models.Metric{
		models.NewTemplateMetric("Completed", models.KindBoolean).
			WithCategory("Progress").
			WithDescription("The planned work for the day was finished"),
		models.NewTemplateMetric("Worked independently", models.KindBoolean).
			WithCategory("Progress").
			WithDescription("Work was done without help"),
		models.NewTemplateMetric("Focus", models.KindCategorical).
			WithCategory("Engagement").
			WithPossibleValues(`["Low","Medium","High"]`),
		models.NewTemplateMetric("Mood", models.KindCategorical).
			WithCategory("Engagement").
			WithPossibleValues(`["Frustrated","Okay","Happy"]`),
		models.NewTemplateMetric("Time of day", models.KindCategorical).
			WithCategory("Schedule").
			WithPossibleValues(`["Morning","Afternoon","Evening"]`),
		models.NewTemplateMetric("Minutes spent", models.KindNumeric).
			WithCategory("Effort").
			WithNumericConfig(`{"min":0,"max":600,"unit":"minutes"}`),
		models.NewTemplateMetric("Pages read", models.KindNumeric).
			WithCategory("Effort").
			WithNumericConfig(`{"min":0,"unit":"pages"}`),
	}
}

// SeedTemplates inserts any default template that does not exist yet and
// returns how many were created.
func (d *DB) SeedTemplates(ctx context.Context) (int, error) {
	created := 0
	err := d.WithTx(ctx, func(repo Repository) error {
		for _, m := range DefaultTemplates() {
			_, err := repo.FindTemplateByName(ctx, m.Name)
			if err == nil {
				continue
			}
			if !errors.Is(err, ErrNotFound) {
				return fmt.Errorf("seed templates: %w", err)
			}
			if err := repo.CreateMetric(ctx, m); err != nil {
				return fmt.Errorf("seed template %q: %w", m.Name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
