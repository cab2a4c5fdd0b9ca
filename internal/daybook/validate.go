// ABOUTME: Metric value validation against a metric's kind and configuration.
// ABOUTME: Pure function; malformed configuration fails open.
package daybook

import (
	"fmt"
	"math"
	"slices"

	"github.com/harperreed/daybook/internal/models"
)

// ValidateMetricValue checks a submitted value against a metric and returns
// the typed value to store. Failures are *Error with kind ErrInvalidMetricValue.
// Callers skip inputs where IsSet reports false before calling this.
func ValidateMetricValue(m *models.Metric, in models.MetricValueInput) (models.Value, error) {
	switch m.Kind {
	case models.KindBoolean:
		if in.Boolean == nil {
			return models.Value{}, invalidValue(fmt.Sprintf("Boolean value is required for metric '%s'", m.Name))
		}
		if in.HasCategorical() || in.Numeric != nil {
			return models.Value{}, invalidValue(fmt.Sprintf("Only boolean value should be set for metric '%s'", m.Name))
		}
		return models.BoolValue(*in.Boolean), nil

	case models.KindCategorical:
		if !in.HasCategorical() {
			return models.Value{}, invalidValue(fmt.Sprintf("Categorical value is required for metric '%s'", m.Name))
		}
		if in.Boolean != nil || in.Numeric != nil {
			return models.Value{}, invalidValue(fmt.Sprintf("Only categorical value should be set for metric '%s'", m.Name))
		}
		if allowed, ok := m.PossibleValues(); ok && !slices.Contains(allowed, *in.Categorical) {
			return models.Value{}, invalidValue(fmt.Sprintf("Categorical value '%s' is not valid for metric '%s'", *in.Categorical, m.Name))
		}
		return models.CategoricalValue(*in.Categorical), nil

	case models.KindNumeric:
		if in.Numeric == nil {
			return models.Value{}, invalidValue(fmt.Sprintf("Numeric value is required for metric '%s'", m.Name))
		}
		if in.Boolean != nil || in.HasCategorical() {
			return models.Value{}, invalidValue(fmt.Sprintf("Only numeric value should be set for metric '%s'", m.Name))
		}
		if math.IsNaN(*in.Numeric) || math.IsInf(*in.Numeric, 0) {
			return models.Value{}, invalidValue(fmt.Sprintf("Numeric value must be a finite number for metric '%s'", m.Name))
		}
		if cfg, ok := m.NumericBounds(); ok {
			if cfg.Min != nil && *in.Numeric < *cfg.Min {
				return models.Value{}, invalidValue(fmt.Sprintf("Numeric value must be at least %s for metric '%s'", models.FormatNumber(*cfg.Min), m.Name))
			}
			if cfg.Max != nil && *in.Numeric > *cfg.Max {
				return models.Value{}, invalidValue(fmt.Sprintf("Numeric value must be at most %s for metric '%s'", models.FormatNumber(*cfg.Max), m.Name))
			}
		}
		return models.NumericValue(*in.Numeric), nil

	default:
		return models.Value{}, invalidValue(fmt.Sprintf("Unknown metric type for metric '%s'", m.Name))
	}
}
