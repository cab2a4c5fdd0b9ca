// ABOUTME: Metric model and MetricKind enum for daybook measurements.
// ABOUTME: Covers template vs family metrics and kind-specific config parsing.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MetricKind is the closed set of measurement shapes a metric can record.
type MetricKind string

const (
	KindBoolean     MetricKind = "boolean"
	KindCategorical MetricKind = "categorical"
	KindNumeric     MetricKind = "numeric"
)

// AllMetricKinds returns all valid metric kinds.
var AllMetricKinds = []MetricKind{KindBoolean, KindCategorical, KindNumeric}

// ParseMetricKind converts a case-insensitive string into a MetricKind.
func ParseMetricKind(s string) (MetricKind, error) {
	k := MetricKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllMetricKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown metric kind: %s", s)
}

// Metric is a measurement definition. Templates have no family and are shared
// by every family; custom metrics belong to exactly one family.
type Metric struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Kind        MetricKind `json:"kind"`
	Category    *string    `json:"category,omitempty"`
	FamilyID    *int64     `json:"family_id,omitempty"`
	IsTemplate  bool       `json:"is_template"`

	// PossibleValuesJSON holds a JSON array of allowed categorical values,
	// e.g. ["Morning", "Afternoon", "Evening"].
	PossibleValuesJSON *string `json:"possible_values,omitempty"`

	// NumericConfigJSON holds a JSON object with optional min, max and unit,
	// e.g. {"min": 0, "max": 10, "unit": "minutes"}.
	NumericConfigJSON *string `json:"numeric_config,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NewMetric creates a custom metric owned by familyID.
func NewMetric(familyID int64, name string, kind MetricKind) *Metric {
	return &Metric{
		Name:      name,
		Kind:      kind,
		FamilyID:  &familyID,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTemplateMetric creates a global template metric with no owning family.
func NewTemplateMetric(name string, kind MetricKind) *Metric {
	return &Metric{
		Name:       name,
		Kind:       kind,
		IsTemplate: true,
		CreatedAt:  time.Now().UTC(),
	}
}

// WithDescription sets the description.
func (m *Metric) WithDescription(desc string) *Metric {
	m.Description = &desc
	return m
}

// WithCategory sets the category label.
func (m *Metric) WithCategory(category string) *Metric {
	m.Category = &category
	return m
}

// WithPossibleValues sets the raw categorical config.
func (m *Metric) WithPossibleValues(raw string) *Metric {
	m.PossibleValuesJSON = &raw
	return m
}

// WithNumericConfig sets the raw numeric config.
func (m *Metric) WithNumericConfig(raw string) *Metric {
	m.NumericConfigJSON = &raw
	return m
}

// CategoryOrEmpty returns the category, or "" when unset.
func (m *Metric) CategoryOrEmpty() string {
	if m.Category == nil {
		return ""
	}
	return *m.Category
}

// VisibleTo reports whether the metric can be used by the given family.
func (m *Metric) VisibleTo(familyID int64) bool {
	return m.IsTemplate || (m.FamilyID != nil && *m.FamilyID == familyID)
}

// PossibleValues parses the categorical config. ok is false when no config is
// present or when it cannot be parsed; callers then skip membership checks.
func (m *Metric) PossibleValues() (values []string, ok bool) {
	if m.PossibleValuesJSON == nil || strings.TrimSpace(*m.PossibleValuesJSON) == "" {
		return nil, false
	}
	if err := json.Unmarshal([]byte(*m.PossibleValuesJSON), &values); err != nil {
		return nil, false
	}
	if values == nil {
		return nil, false
	}
	return values, true
}

// NumericConfig is the parsed form of a numeric metric's config.
type NumericConfig struct {
	Min  *float64
	Max  *float64
	Unit string
}

// NumericBounds parses the numeric config. Keys are matched case-insensitively
// and bounds may be JSON numbers or numeric strings. ok is false when no config
// is present or the JSON is malformed; a single unparseable bound is dropped.
func (m *Metric) NumericBounds() (cfg NumericConfig, ok bool) {
	if m.NumericConfigJSON == nil || strings.TrimSpace(*m.NumericConfigJSON) == "" {
		return cfg, false
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(*m.NumericConfigJSON), &raw); err != nil || raw == nil {
		return cfg, false
	}

	for key, val := range raw {
		switch strings.ToLower(key) {
		case "min":
			cfg.Min = toFloat(val)
		case "max":
			cfg.Max = toFloat(val)
		case "unit":
			if s, isStr := val.(string); isStr {
				cfg.Unit = s
			}
		}
	}
	return cfg, true
}

func toFloat(v any) *float64 {
	switch x := v.(type) {
	case float64:
		return &x
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// FormatNumber renders a numeric value without trailing zeros.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// EncodePossibleValues serializes an allowed-values list for storage.
func EncodePossibleValues(values []string) (string, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode possible values: %w", err)
	}
	return string(data), nil
}

// EncodeNumericConfig serializes numeric bounds for storage. Unset fields are
// left out.
func EncodeNumericConfig(cfg NumericConfig) (string, error) {
	raw := make(map[string]any, 3)
	if cfg.Min != nil {
		raw["min"] = *cfg.Min
	}
	if cfg.Max != nil {
		raw["max"] = *cfg.Max
	}
	if cfg.Unit != "" {
		raw["unit"] = cfg.Unit
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("encode numeric config: %w", err)
	}
	return string(data), nil
}
