// ABOUTME: Flat JSON views of daybook records for MCP tool output.
// ABOUTME: Dates are strings and metric values are rendered as text.
package mcp

import (
	"time"

	"github.com/harperreed/daybook/internal/daybook"
	"github.com/harperreed/daybook/internal/models"
)

type resultOutput struct {
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message"`
}

func fromResult(r daybook.Result) resultOutput {
	return resultOutput{ID: r.ID, Message: r.Message}
}

type familyView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type studentView struct {
	ID          int64  `json:"id"`
	FamilyID    int64  `json:"family_id"`
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type subjectView struct {
	ID          int64  `json:"id"`
	FamilyID    int64  `json:"family_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type metricView struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Kind           string   `json:"kind"`
	Category       string   `json:"category,omitempty"`
	Description    string   `json:"description,omitempty"`
	IsTemplate     bool     `json:"is_template"`
	PossibleValues []string `json:"possible_values,omitempty"`
	Min            *float64 `json:"min,omitempty"`
	Max            *float64 `json:"max,omitempty"`
	Unit           string   `json:"unit,omitempty"`
}

type configView struct {
	Metric               metricView `json:"metric"`
	IsEnabled            bool       `json:"is_enabled"`
	AppliesToAllSubjects bool       `json:"applies_to_all_subjects"`
	HasOverride          bool       `json:"has_override,omitempty"`
}

type valueView struct {
	MetricID   int64  `json:"metric_id"`
	MetricName string `json:"metric_name"`
	Kind       string `json:"kind"`
	Value      string `json:"value"`
}

type logView struct {
	ID          int64       `json:"id"`
	StudentID   int64       `json:"student_id"`
	SubjectID   int64       `json:"subject_id"`
	StudentName string      `json:"student_name,omitempty"`
	SubjectName string      `json:"subject_name,omitempty"`
	Date        string      `json:"date"`
	Notes       string      `json:"notes,omitempty"`
	Values      []valueView `json:"values,omitempty"`
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func viewFamilies(families []*models.Family) []familyView {
	out := make([]familyView, 0, len(families))
	for _, f := range families {
		out = append(out, familyView{ID: f.ID, Name: f.Name})
	}
	return out
}

func viewStudent(st *models.Student) studentView {
	v := studentView{ID: st.ID, FamilyID: st.FamilyID, Name: st.Name, Notes: deref(st.Notes)}
	if st.DateOfBirth != nil {
		v.DateOfBirth = st.DateOfBirth.Format(models.DateLayout)
	}
	return v
}

func viewSubject(su *models.Subject) subjectView {
	return subjectView{ID: su.ID, FamilyID: su.FamilyID, Name: su.Name, Description: deref(su.Description)}
}

func viewMetric(m *models.Metric) metricView {
	v := metricView{
		ID:          m.ID,
		Name:        m.Name,
		Kind:        string(m.Kind),
		Category:    m.CategoryOrEmpty(),
		Description: deref(m.Description),
		IsTemplate:  m.IsTemplate,
	}
	if values, ok := m.PossibleValues(); ok {
		v.PossibleValues = values
	}
	if cfg, ok := m.NumericBounds(); ok {
		v.Min, v.Max, v.Unit = cfg.Min, cfg.Max, cfg.Unit
	}
	return v
}

func viewMetrics(metrics []*models.Metric) []metricView {
	out := make([]metricView, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, viewMetric(m))
	}
	return out
}

func viewConfigs(rows []daybook.MetricConfig) []configView {
	out := make([]configView, 0, len(rows))
	for _, r := range rows {
		out = append(out, configView{
			Metric:               viewMetric(r.Metric),
			IsEnabled:            r.IsEnabled,
			AppliesToAllSubjects: r.AppliesToAllSubjects,
			HasOverride:          r.HasOverride,
		})
	}
	return out
}

func viewLog(l *models.DailyLog) logView {
	v := logView{
		ID:          l.ID,
		StudentID:   l.StudentID,
		SubjectID:   l.SubjectID,
		StudentName: l.StudentName,
		SubjectName: l.SubjectName,
		Date:        l.Date.Format(models.DateLayout),
		Notes:       deref(l.Notes),
	}
	for _, val := range l.Values {
		v.Values = append(v.Values, valueView{
			MetricID:   val.MetricID,
			MetricName: val.MetricName,
			Kind:       string(val.Value.Kind()),
			Value:      val.Value.String(),
		})
	}
	return v
}

// parseDate accepts a calendar date or an RFC 3339 timestamp. Empty means today.
func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return models.NormalizeDate(now), nil
	}
	if t, err := time.Parse(models.DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
