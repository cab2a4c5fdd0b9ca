// ABOUTME: Shared helpers for CLI commands.
// ABOUTME: Parses IDs, dates and metric values; pads and truncates table cells.
package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/harperreed/daybook/internal/models"
)

var faint = color.New(color.Faint).SprintFunc()

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", what, s)
	}
	return id, nil
}

// parseDate accepts a calendar date, a date with time or an RFC 3339
// timestamp and returns the calendar date.
func parseDate(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return models.NormalizeDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

// dateOrToday parses s, or returns today's date when s is empty.
func dateOrToday(s string) (time.Time, error) {
	if s == "" {
		return models.NormalizeDate(time.Now()), nil
	}
	t, err := parseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", s)
	}
	return t, nil
}

// optional returns nil for an empty string so blank flags clear nothing.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// parseBool accepts the usual spellings of yes and no.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "on":
		return true, nil
	case "n", "no", "off":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}

// findMetric matches a metric by ID or case-insensitive name.
func findMetric(metrics []*models.Metric, ref string) (*models.Metric, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, m := range metrics {
			if m.ID == id {
				return m, nil
			}
		}
	}
	for _, m := range metrics {
		if strings.EqualFold(m.Name, ref) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("unknown metric: %s", ref)
}

// parseValueFlags turns "metric=value" pairs into value inputs, reading each
// value according to the metric's kind. Range and option checks are left to
// the service.
func parseValueFlags(metrics []*models.Metric, pairs []string) ([]models.MetricValueInput, error) {
	inputs := make([]models.MetricValueInput, 0, len(pairs))
	for _, pair := range pairs {
		ref, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid value %q: use metric=value", pair)
		}
		m, err := findMetric(metrics, ref)
		if err != nil {
			return nil, err
		}

		in := models.MetricValueInput{MetricID: m.ID}
		switch m.Kind {
		case models.KindBoolean:
			b, err := parseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid value for %s: %s (use yes or no)", m.Name, raw)
			}
			in.Boolean = &b
		case models.KindCategorical:
			v := strings.TrimSpace(raw)
			in.Categorical = &v
		case models.KindNumeric:
			f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("invalid value for %s: %s", m.Name, raw)
			}
			in.Numeric = &f
		default:
			return nil, fmt.Errorf("metric %s has unknown type %s", m.Name, m.Kind)
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
