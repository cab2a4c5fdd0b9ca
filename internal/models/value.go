// ABOUTME: Metric value variant and the loose input shape it is built from.
// ABOUTME: A Value holds exactly one of boolean, categorical or numeric.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Value is a recorded metric value. Exactly one variant is populated and its
// kind always matches the metric it was validated against.
type Value struct {
	kind        MetricKind
	boolean     bool
	categorical string
	numeric     float64
}

// BoolValue creates a boolean value.
func BoolValue(b bool) Value {
	return Value{kind: KindBoolean, boolean: b}
}

// CategoricalValue creates a categorical value.
func CategoricalValue(s string) Value {
	return Value{kind: KindCategorical, categorical: s}
}

// NumericValue creates a numeric value.
func NumericValue(f float64) Value {
	return Value{kind: KindNumeric, numeric: f}
}

// Kind returns which variant is populated. The zero Value has no kind.
func (v Value) Kind() MetricKind { return v.kind }

// Bool returns the boolean variant.
func (v Value) Bool() (bool, bool) { return v.boolean, v.kind == KindBoolean }

// Categorical returns the categorical variant.
func (v Value) Categorical() (string, bool) { return v.categorical, v.kind == KindCategorical }

// Numeric returns the numeric variant.
func (v Value) Numeric() (float64, bool) { return v.numeric, v.kind == KindNumeric }

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindBoolean:
		if v.boolean {
			return "yes"
		}
		return "no"
	case KindCategorical:
		return v.categorical
	case KindNumeric:
		return FormatNumber(v.numeric)
	default:
		return ""
	}
}

// Input converts the value back to the three-field wire shape.
func (v Value) Input(metricID int64) MetricValueInput {
	in := MetricValueInput{MetricID: metricID}
	switch v.kind {
	case KindBoolean:
		b := v.boolean
		in.Boolean = &b
	case KindCategorical:
		s := v.categorical
		in.Categorical = &s
	case KindNumeric:
		n := v.numeric
		in.Numeric = &n
	}
	return in
}

type valueJSON struct {
	Boolean     *bool    `json:"boolean,omitempty"`
	Categorical *string  `json:"categorical,omitempty"`
	Numeric     *float64 `json:"numeric,omitempty"`
}

// MarshalJSON encodes the value as an object with a single populated field.
func (v Value) MarshalJSON() ([]byte, error) {
	in := v.Input(0)
	return json.Marshal(valueJSON{Boolean: in.Boolean, Categorical: in.Categorical, Numeric: in.Numeric})
}

// UnmarshalJSON decodes an object with exactly one populated field.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw valueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	set := 0
	if raw.Boolean != nil {
		*v = BoolValue(*raw.Boolean)
		set++
	}
	if raw.Categorical != nil {
		*v = CategoricalValue(*raw.Categorical)
		set++
	}
	if raw.Numeric != nil {
		*v = NumericValue(*raw.Numeric)
		set++
	}
	if set != 1 {
		return fmt.Errorf("metric value must set exactly one field, got %d", set)
	}
	return nil
}

// MetricValueInput is the submitted form of a metric value: up to one of the
// three fields is expected to be set, matching the metric's kind.
type MetricValueInput struct {
	MetricID    int64    `json:"metric_id"`
	Boolean     *bool    `json:"boolean_value,omitempty"`
	Categorical *string  `json:"categorical_value,omitempty"`
	Numeric     *float64 `json:"numeric_value,omitempty"`
}

// HasCategorical reports whether a non-blank categorical value was supplied.
func (in MetricValueInput) HasCategorical() bool {
	return in.Categorical != nil && strings.TrimSpace(*in.Categorical) != ""
}

// IsSet reports whether any field carries a value. Unset inputs are skipped
// entirely, which is how optional metrics are left blank.
func (in MetricValueInput) IsSet() bool {
	return in.Boolean != nil || in.HasCategorical() || in.Numeric != nil
}
