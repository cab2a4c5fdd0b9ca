// ABOUTME: Metric catalog: visible metrics per family and custom metric CRUD.
// ABOUTME: Templates are read-only here; only seeding creates them.
package daybook

import (
	"context"
	"strings"

	"github.com/harperreed/daybook/internal/models"
)

// ListVisibleMetrics returns every template plus the family's custom metrics.
// Templates come first; each group is ordered by category then name.
func (s *Service) ListVisibleMetrics(ctx context.Context, familyID int64) ([]*models.Metric, error) {
	metrics, err := s.repo.ListVisibleMetrics(ctx, familyID)
	if err != nil {
		return nil, s.internal("ListVisibleMetrics", err)
	}
	return metrics, nil
}

// ListTemplates returns the global template metrics.
func (s *Service) ListTemplates(ctx context.Context) ([]*models.Metric, error) {
	metrics, err := s.repo.ListTemplateMetrics(ctx)
	if err != nil {
		return nil, s.internal("ListTemplates", err)
	}
	return metrics, nil
}

// ListCustomMetrics returns the metrics owned by a family.
func (s *Service) ListCustomMetrics(ctx context.Context, familyID int64) ([]*models.Metric, error) {
	metrics, err := s.repo.ListCustomMetrics(ctx, familyID)
	if err != nil {
		return nil, s.internal("ListCustomMetrics", err)
	}
	return metrics, nil
}

// GetMetric returns a metric by ID.
func (s *Service) GetMetric(ctx context.Context, id int64) (*models.Metric, error) {
	return lookup(ctx, s, "GetMetric", msgMetricNotFound, s.repo.GetMetric, id)
}

// CreateMetric adds a custom metric owned by familyID.
func (s *Service) CreateMetric(ctx context.Context, familyID int64, in MetricInput) (Result, error) {
	const op = "CreateMetric"
	in = normalizeMetricInput(in)
	if err := s.check(op, in); err != nil {
		return Result{}, err
	}
	if _, err := lookup(ctx, s, op, msgFamilyNotFound, s.repo.GetFamily, familyID); err != nil {
		return Result{}, err
	}

	m := models.NewMetric(familyID, in.Name, in.Kind)
	applyMetricInput(m, in)
	if err := s.repo.CreateMetric(ctx, m); err != nil {
		return Result{}, s.fail(op, err, msgFamilyNotFound, "")
	}
	s.log.Debug("metric created", "family_id", familyID, "metric_id", m.ID, "kind", m.Kind)
	return Result{ID: m.ID, Message: "Metric created successfully!"}, nil
}

// UpdateMetric edits a custom metric. Templates cannot be updated.
func (s *Service) UpdateMetric(ctx context.Context, id int64, in MetricInput) (Result, error) {
	const op = "UpdateMetric"
	in = normalizeMetricInput(in)
	if err := s.check(op, in); err != nil {
		return Result{}, err
	}

	m, err := lookup(ctx, s, op, msgMetricNotFound, s.repo.GetMetric, id)
	if err != nil {
		return Result{}, err
	}
	if m.IsTemplate {
		return Result{}, invalidOperation(op, "Cannot update template metrics")
	}

	m.Name = in.Name
	m.Kind = in.Kind
	applyMetricInput(m, in)
	if err := s.repo.UpdateMetric(ctx, m); err != nil {
		return Result{}, s.fail(op, err, msgMetricNotFound, "")
	}
	s.log.Debug("metric updated", "metric_id", id)
	return Result{ID: id, Message: "Metric updated successfully!"}, nil
}

// DeleteMetric removes a custom metric with its configuration and recorded
// values. Templates cannot be deleted.
func (s *Service) DeleteMetric(ctx context.Context, id int64) (Result, error) {
	const op = "DeleteMetric"
	m, err := lookup(ctx, s, op, msgMetricNotFound, s.repo.GetMetric, id)
	if err != nil {
		return Result{}, err
	}
	if m.IsTemplate {
		return Result{}, invalidOperation(op, "Cannot delete template metrics")
	}

	if err := s.repo.DeleteMetric(ctx, id); err != nil {
		return Result{}, s.fail(op, err, msgMetricNotFound, "")
	}
	s.log.Debug("metric deleted", "metric_id", id)
	return Result{ID: id, Message: "Metric deleted successfully!"}, nil
}

// SeedTemplates installs the built-in template metrics that are missing.
func (s *Service) SeedTemplates(ctx context.Context) (int, error) {
	n, err := s.repo.SeedTemplates(ctx)
	if err != nil {
		return 0, s.internal("SeedTemplates", err)
	}
	if n > 0 {
		s.log.Info("template metrics seeded", "count", n)
	}
	return n, nil
}

func normalizeMetricInput(in MetricInput) MetricInput {
	in.Name = strings.TrimSpace(in.Name)
	if kind, err := models.ParseMetricKind(string(in.Kind)); err == nil {
		in.Kind = kind
	}
	in.Description = trimmed(in.Description)
	in.Category = trimmed(in.Category)
	in.PossibleValues = trimmed(in.PossibleValues)
	in.NumericConfig = trimmed(in.NumericConfig)
	return in
}

// applyMetricInput copies optional fields. Configuration that does not match
// the kind is dropped.
func applyMetricInput(m *models.Metric, in MetricInput) {
	m.Description = in.Description
	m.Category = in.Category
	m.PossibleValuesJSON = nil
	m.NumericConfigJSON = nil
	switch in.Kind {
	case models.KindCategorical:
		m.PossibleValuesJSON = in.PossibleValues
	case models.KindNumeric:
		m.NumericConfigJSON = in.NumericConfig
	}
}
