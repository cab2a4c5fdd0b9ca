// ABOUTME: Export and import functionality for daybook data.
// ABOUTME: Supports JSON and YAML family exports plus a Markdown student journal.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/daybook/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for one family.
type ExportData struct {
	Version        string                         `json:"version" yaml:"version"`
	ExportedAt     time.Time                      `json:"exported_at" yaml:"exported_at"`
	Tool           string                         `json:"tool" yaml:"tool"`
	Family         *models.Family                 `json:"family" yaml:"family"`
	Students       []*models.Student              `json:"students" yaml:"students"`
	Subjects       []*models.Subject              `json:"subjects" yaml:"subjects"`
	Templates      []*models.Metric               `json:"templates" yaml:"templates"`
	Metrics        []*models.Metric               `json:"metrics" yaml:"metrics"`
	Assignments    []*models.StudentSubject       `json:"assignments" yaml:"assignments"`
	StudentMetrics []*models.StudentMetric        `json:"student_metrics" yaml:"student_metrics"`
	Overrides      []*models.StudentSubjectMetric `json:"overrides" yaml:"overrides"`
	DailyLogs      []*models.DailyLog             `json:"daily_logs" yaml:"daily_logs"`
}

// ImportStats counts what an import created and skipped.
type ImportStats struct {
	Students       int `json:"students"`
	Subjects       int `json:"subjects"`
	Metrics        int `json:"metrics"`
	Assignments    int `json:"assignments"`
	StudentMetrics int `json:"student_metrics"`
	Overrides      int `json:"overrides"`
	DailyLogs      int `json:"daily_logs"`
	Values         int `json:"values"`
	Skipped        int `json:"skipped"`
}

// ExportFamily gathers a family and everything it owns. Templates are included
// so that references to them can be matched by name on import.
func (d *DB) ExportFamily(ctx context.Context, familyID int64) (*ExportData, error) {
	family, err := d.GetFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}

	students, err := d.ListStudents(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	subjects, err := d.ListSubjects(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	templates, err := d.ListTemplateMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	custom, err := d.ListCustomMetrics(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}

	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
		Tool:       "daybook",
		Family:     family,
		Students:   students,
		Subjects:   subjects,
		Templates:  templates,
		Metrics:    custom,
	}

	for _, st := range students {
		assigned, err := d.ListSubjectsForStudent(ctx, st.ID)
		if err != nil {
			return nil, fmt.Errorf("list assignments: %w", err)
		}
		for _, su := range assigned {
			ss, err := d.GetStudentSubject(ctx, st.ID, su.ID)
			if err != nil {
				return nil, fmt.Errorf("get assignment: %w", err)
			}
			data.Assignments = append(data.Assignments, ss)

			overrides, err := d.ListStudentSubjectMetrics(ctx, st.ID, su.ID)
			if err != nil {
				return nil, fmt.Errorf("list overrides: %w", err)
			}
			data.Overrides = append(data.Overrides, overrides...)
		}

		configs, err := d.ListStudentMetrics(ctx, st.ID)
		if err != nil {
			return nil, fmt.Errorf("list student metrics: %w", err)
		}
		data.StudentMetrics = append(data.StudentMetrics, configs...)
	}

	// Overrides can outlive an assignment, so collect them per subject too.
	seen := make(map[int64]bool, len(data.Overrides))
	for _, o := range data.Overrides {
		seen[o.ID] = true
	}
	for _, st := range students {
		for _, su := range subjects {
			overrides, err := d.ListStudentSubjectMetrics(ctx, st.ID, su.ID)
			if err != nil {
				return nil, fmt.Errorf("list overrides: %w", err)
			}
			for _, o := range overrides {
				if !seen[o.ID] {
					seen[o.ID] = true
					data.Overrides = append(data.Overrides, o)
				}
			}
		}
	}

	logs, err := d.ListDailyLogsForFamily(ctx, familyID, nil)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	data.DailyLogs = logs

	return data, nil
}

// ImportFamily recreates an exported family graph inside an empty family.
// Every record gets a fresh ID; template references are matched by name and
// records pointing at unknown templates are skipped.
//
//nolint:gocognit,gocyclo // Linear remapping of each table in dependency order.
func (d *DB) ImportFamily(ctx context.Context, familyID int64, data *ExportData) (*ImportStats, error) {
	stats := &ImportStats{}

	err := d.WithTx(ctx, func(repo Repository) error {
		if _, err := repo.GetFamily(ctx, familyID); err != nil {
			return err
		}
		if err := ensureEmptyFamily(ctx, repo, familyID); err != nil {
			return err
		}

		studentIDs := make(map[int64]int64, len(data.Students))
		for _, st := range data.Students {
			n := *st
			n.ID, n.FamilyID = 0, familyID
			if err := repo.CreateStudent(ctx, &n); err != nil {
				return fmt.Errorf("import student: %w", err)
			}
			studentIDs[st.ID] = n.ID
			stats.Students++
		}

		subjectIDs := make(map[int64]int64, len(data.Subjects))
		for _, su := range data.Subjects {
			n := *su
			n.ID, n.FamilyID = 0, familyID
			if err := repo.CreateSubject(ctx, &n); err != nil {
				return fmt.Errorf("import subject: %w", err)
			}
			subjectIDs[su.ID] = n.ID
			stats.Subjects++
		}

		metricIDs := make(map[int64]int64, len(data.Templates)+len(data.Metrics))
		for _, t := range data.Templates {
			existing, err := repo.FindTemplateByName(ctx, t.Name)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("import template reference: %w", err)
			}
			metricIDs[t.ID] = existing.ID
		}
		for _, m := range data.Metrics {
			n := *m
			n.ID, n.FamilyID, n.IsTemplate = 0, &familyID, false
			if err := repo.CreateMetric(ctx, &n); err != nil {
				return fmt.Errorf("import metric: %w", err)
			}
			metricIDs[m.ID] = n.ID
			stats.Metrics++
		}

		for _, ss := range data.Assignments {
			stID, ok1 := studentIDs[ss.StudentID]
			suID, ok2 := subjectIDs[ss.SubjectID]
			if !ok1 || !ok2 {
				stats.Skipped++
				continue
			}
			n := &models.StudentSubject{StudentID: stID, SubjectID: suID, CreatedAt: ss.CreatedAt}
			if err := repo.CreateStudentSubject(ctx, n); err != nil {
				return fmt.Errorf("import assignment: %w", err)
			}
			stats.Assignments++
		}

		for _, sm := range data.StudentMetrics {
			stID, ok1 := studentIDs[sm.StudentID]
			mID, ok2 := metricIDs[sm.MetricID]
			if !ok1 || !ok2 {
				stats.Skipped++
				continue
			}
			n := *sm
			n.ID, n.StudentID, n.MetricID = 0, stID, mID
			if err := repo.CreateStudentMetric(ctx, &n); err != nil {
				return fmt.Errorf("import student metric: %w", err)
			}
			stats.StudentMetrics++
		}

		for _, o := range data.Overrides {
			stID, ok1 := studentIDs[o.StudentID]
			suID, ok2 := subjectIDs[o.SubjectID]
			mID, ok3 := metricIDs[o.MetricID]
			if !ok1 || !ok2 || !ok3 {
				stats.Skipped++
				continue
			}
			n := *o
			n.ID, n.StudentID, n.SubjectID, n.MetricID = 0, stID, suID, mID
			if err := repo.CreateStudentSubjectMetric(ctx, &n); err != nil {
				return fmt.Errorf("import override: %w", err)
			}
			stats.Overrides++
		}

		for _, l := range data.DailyLogs {
			stID, ok1 := studentIDs[l.StudentID]
			suID, ok2 := subjectIDs[l.SubjectID]
			if !ok1 || !ok2 {
				stats.Skipped++
				continue
			}
			n := *l
			n.ID, n.StudentID, n.SubjectID, n.Values = 0, stID, suID, nil
			if err := repo.CreateDailyLog(ctx, &n); err != nil {
				return fmt.Errorf("import daily log: %w", err)
			}
			stats.DailyLogs++

			for _, v := range l.Values {
				mID, ok := metricIDs[v.MetricID]
				if !ok {
					stats.Skipped++
					continue
				}
				if err := repo.AddDailyLogValue(ctx, models.NewDailyLogValue(n.ID, mID, v.Value)); err != nil {
					return fmt.Errorf("import daily log value: %w", err)
				}
				stats.Values++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func ensureEmptyFamily(ctx context.Context, repo Repository, familyID int64) error {
	students, err := repo.ListStudents(ctx, familyID)
	if err != nil {
		return err
	}
	subjects, err := repo.ListSubjects(ctx, familyID)
	if err != nil {
		return err
	}
	metrics, err := repo.ListCustomMetrics(ctx, familyID)
	if err != nil {
		return err
	}
	if len(students)+len(subjects)+len(metrics) > 0 {
		return fmt.Errorf("import into family %d: %w", familyID, ErrFamilyNotEmpty)
	}
	return nil
}

// EncodeJSON renders an export as indented JSON.
func EncodeJSON(data *ExportData) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}

// DecodeJSON parses a JSON export.
func DecodeJSON(raw []byte) (*ExportData, error) {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return &data, nil
}

// EncodeYAML renders an export as YAML, nested by student for readability.
func EncodeYAML(data *ExportData) ([]byte, error) {
	if data.Family == nil {
		return nil, errors.New("export has no family")
	}

	subjectNames := make(map[int64]string, len(data.Subjects))
	for _, su := range data.Subjects {
		subjectNames[su.ID] = su.Name
	}
	metricNames := make(map[int64]string, len(data.Templates)+len(data.Metrics))
	for _, m := range append(append([]*models.Metric{}, data.Templates...), data.Metrics...) {
		metricNames[m.ID] = m.Name
	}

	yamlData := yamlFamily{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Family:     data.Family.Name,
		Metrics:    make([]yamlMetric, 0, len(data.Metrics)),
		Students:   make([]yamlStudent, 0, len(data.Students)),
	}
	for _, su := range data.Subjects {
		yamlData.Subjects = append(yamlData.Subjects, su.Name)
	}
	for _, m := range data.Metrics {
		ym := yamlMetric{Name: m.Name, Kind: string(m.Kind), Category: m.CategoryOrEmpty()}
		if values, ok := m.PossibleValues(); ok {
			ym.PossibleValues = values
		}
		if cfg, ok := m.NumericBounds(); ok {
			ym.Min, ym.Max, ym.Unit = cfg.Min, cfg.Max, cfg.Unit
		}
		yamlData.Metrics = append(yamlData.Metrics, ym)
	}

	byStudent := make(map[int64]*yamlStudent, len(data.Students))
	for _, st := range data.Students {
		yamlData.Students = append(yamlData.Students, yamlStudent{Name: st.Name})
		byStudent[st.ID] = &yamlData.Students[len(yamlData.Students)-1]
	}
	for _, ss := range data.Assignments {
		if ys, ok := byStudent[ss.StudentID]; ok {
			ys.Subjects = append(ys.Subjects, subjectNames[ss.SubjectID])
		}
	}
	for _, sm := range data.StudentMetrics {
		if ys, ok := byStudent[sm.StudentID]; ok && sm.IsEnabled {
			ys.Metrics = append(ys.Metrics, metricNames[sm.MetricID])
		}
	}
	for _, l := range data.DailyLogs {
		ys, ok := byStudent[l.StudentID]
		if !ok {
			continue
		}
		yl := yamlLog{Date: l.Date.Format(models.DateLayout), Subject: l.SubjectName}
		if l.Notes != nil {
			yl.Notes = *l.Notes
		}
		if len(l.Values) > 0 {
			yl.Values = make(map[string]string, len(l.Values))
			for _, v := range l.Values {
				yl.Values[v.MetricName] = v.Value.String()
			}
		}
		ys.Logs = append(ys.Logs, yl)
	}

	return yaml.Marshal(yamlData)
}

type yamlFamily struct {
	Version    string        `yaml:"version"`
	ExportedAt string        `yaml:"exported_at"`
	Tool       string        `yaml:"tool"`
	Family     string        `yaml:"family"`
	Subjects   []string      `yaml:"subjects"`
	Metrics    []yamlMetric  `yaml:"metrics"`
	Students   []yamlStudent `yaml:"students"`
}

type yamlMetric struct {
	Name           string   `yaml:"name"`
	Kind           string   `yaml:"kind"`
	Category       string   `yaml:"category,omitempty"`
	PossibleValues []string `yaml:"possible_values,omitempty"`
	Min            *float64 `yaml:"min,omitempty"`
	Max            *float64 `yaml:"max,omitempty"`
	Unit           string   `yaml:"unit,omitempty"`
}

type yamlStudent struct {
	Name     string    `yaml:"name"`
	Subjects []string  `yaml:"subjects,omitempty"`
	Metrics  []string  `yaml:"metrics,omitempty"`
	Logs     []yamlLog `yaml:"logs,omitempty"`
}

type yamlLog struct {
	Date    string            `yaml:"date"`
	Subject string            `yaml:"subject"`
	Notes   string            `yaml:"notes,omitempty"`
	Values  map[string]string `yaml:"values,omitempty"`
}

// ExportJournal renders a student's logs as a Markdown journal, newest day
// first. since, when set, drops earlier days.
func (d *DB) ExportJournal(ctx context.Context, studentID int64, since *time.Time) (string, error) {
	student, err := d.GetStudent(ctx, studentID)
	if err != nil {
		return "", err
	}
	logs, err := d.ListDailyLogsForStudent(ctx, studentID)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# %s - Daybook Journal\n\n", student.Name))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	currentDay := ""
	for _, l := range logs {
		if since != nil && l.Date.Before(models.NormalizeDate(*since)) {
			continue
		}

		day := l.Date.Format(models.DateLayout)
		if day != currentDay {
			sb.WriteString(fmt.Sprintf("## %s\n\n", day))
			currentDay = day
		}

		sb.WriteString(fmt.Sprintf("### %s\n\n", l.SubjectName))
		if l.Notes != nil && *l.Notes != "" {
			sb.WriteString(*l.Notes)
			sb.WriteString("\n\n")
		}

		values, err := d.ListDailyLogValues(ctx, l.ID)
		if err != nil {
			return "", err
		}
		if len(values) > 0 {
			sb.WriteString("| Metric | Value |\n")
			sb.WriteString("|--------|-------|\n")
			for _, v := range values {
				sb.WriteString(fmt.Sprintf("| %s | %s |\n", v.MetricName, v.Value.String()))
			}
			sb.WriteString("\n")
		}
	}

	if currentDay == "" {
		sb.WriteString("_No entries._\n")
	}

	return sb.String(), nil
}
