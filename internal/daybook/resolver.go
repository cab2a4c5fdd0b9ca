// ABOUTME: Applicability resolver: which metrics apply to a student and subject.
// ABOUTME: Student-level rows set the default; per-subject overrides win when present.
package daybook

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/storage"
)

// MetricConfig is one configuration row shown for a metric.
type MetricConfig struct {
	Metric               *models.Metric `json:"metric"`
	IsEnabled            bool           `json:"is_enabled"`
	AppliesToAllSubjects bool           `json:"applies_to_all_subjects"`
	HasOverride          bool           `json:"has_override,omitempty"`
}

// MetricsForDailyLog returns the metrics active for recording values on a
// (student, subject) log, ordered by category then name. A metric is active
// when the student has it enabled and either it applies to all subjects with
// no disabling override, or an enabling override exists for the subject.
func (s *Service) MetricsForDailyLog(ctx context.Context, studentID, subjectID, familyID int64) ([]*models.Metric, error) {
	const op = "MetricsForDailyLog"
	rows, err := s.subjectConfig(ctx, op, studentID, subjectID, familyID)
	if err != nil {
		return nil, err
	}

	var active []*models.Metric
	for _, r := range rows {
		if r.IsEnabled {
			active = append(active, r.Metric)
		}
	}
	return active, nil
}

// AvailableMetricsForStudentSubject returns the configuration rows for every
// metric the student has enabled. Each row is enabled when its override says
// so, or by default when the metric applies to all subjects.
func (s *Service) AvailableMetricsForStudentSubject(ctx context.Context, studentID, subjectID, familyID int64) ([]MetricConfig, error) {
	return s.subjectConfig(ctx, "AvailableMetricsForStudentSubject", studentID, subjectID, familyID)
}

func (s *Service) subjectConfig(ctx context.Context, op string, studentID, subjectID, familyID int64) ([]MetricConfig, error) {
	if _, err := lookup(ctx, s, op, msgStudentNotFound, s.repo.GetStudent, studentID); err != nil {
		return nil, err
	}
	if _, err := lookup(ctx, s, op, msgSubjectNotFound, s.repo.GetSubject, subjectID); err != nil {
		return nil, err
	}

	studentRows, err := s.repo.ListStudentMetrics(ctx, studentID)
	if err != nil {
		return nil, s.internal(op, err)
	}
	overrides, err := s.repo.ListStudentSubjectMetrics(ctx, studentID, subjectID)
	if err != nil {
		return nil, s.internal(op, err)
	}
	byMetric := make(map[int64]*models.StudentSubjectMetric, len(overrides))
	for _, o := range overrides {
		byMetric[o.MetricID] = o
	}

	var rows []MetricConfig
	for _, sm := range studentRows {
		if !sm.IsEnabled {
			continue
		}
		m, err := s.repo.GetMetric(ctx, sm.MetricID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, s.internal(op, err)
		}
		if !m.VisibleTo(familyID) {
			continue
		}

		row := MetricConfig{Metric: m, AppliesToAllSubjects: sm.AppliesToAllSubjects, IsEnabled: sm.AppliesToAllSubjects}
		if o, ok := byMetric[m.ID]; ok {
			row.IsEnabled = o.IsEnabled
			row.HasOverride = true
		}
		rows = append(rows, row)
	}
	sortConfigs(rows)
	return rows, nil
}

// SaveStudentSubjectMetricConfig applies per-subject settings. Enabling a
// metric that applies to all subjects removes its override; every other
// setting is stored as an explicit override row.
func (s *Service) SaveStudentSubjectMetricConfig(ctx context.Context, studentID, subjectID int64, settings []SubjectMetricSetting) (Result, error) {
	const op = "SaveStudentSubjectMetricConfig"
	student, err := lookup(ctx, s, op, msgStudentNotFound, s.repo.GetStudent, studentID)
	if err != nil {
		return Result{}, err
	}
	if _, err := lookup(ctx, s, op, msgSubjectNotFound, s.repo.GetSubject, subjectID); err != nil {
		return Result{}, err
	}

	err = s.repo.WithTx(ctx, func(tx storage.Repository) error {
		for _, set := range settings {
			if err := checkVisible(ctx, tx, op, student.FamilyID, set.MetricID); err != nil {
				return err
			}
			if err := applySubjectSetting(ctx, tx, studentID, subjectID, set); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, s.fail(op, err, msgMetricNotFound, "")
	}
	s.log.Debug("subject metrics configured", "student_id", studentID, "subject_id", subjectID, "count", len(settings))
	return Result{Message: "Student-subject metrics configured successfully!"}, nil
}

func applySubjectSetting(ctx context.Context, tx storage.Repository, studentID, subjectID int64, set SubjectMetricSetting) error {
	appliesToAll := false
	sm, err := tx.GetStudentMetric(ctx, studentID, set.MetricID)
	switch {
	case err == nil:
		appliesToAll = sm.AppliesToAllSubjects
	case !errors.Is(err, storage.ErrNotFound):
		return err
	}

	existing, err := tx.GetStudentSubjectMetric(ctx, studentID, subjectID, set.MetricID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	if set.IsEnabled && appliesToAll {
		if existing == nil {
			return nil
		}
		return tx.DeleteStudentSubjectMetric(ctx, studentID, subjectID, set.MetricID)
	}

	if existing != nil {
		existing.IsEnabled = set.IsEnabled
		return tx.UpdateStudentSubjectMetric(ctx, existing)
	}
	return tx.CreateStudentSubjectMetric(ctx, models.NewStudentSubjectMetric(studentID, subjectID, set.MetricID, set.IsEnabled))
}

// MetricsForStudent returns one configuration row per metric visible to the
// family. A metric without a stored row is disabled and defaults to applying
// to all subjects.
func (s *Service) MetricsForStudent(ctx context.Context, studentID, familyID int64) ([]MetricConfig, error) {
	const op = "MetricsForStudent"
	metrics, err := s.repo.ListVisibleMetrics(ctx, familyID)
	if err != nil {
		return nil, s.internal(op, err)
	}
	studentRows, err := s.repo.ListStudentMetrics(ctx, studentID)
	if err != nil {
		return nil, s.internal(op, err)
	}
	byMetric := make(map[int64]*models.StudentMetric, len(studentRows))
	for _, sm := range studentRows {
		byMetric[sm.MetricID] = sm
	}

	rows := make([]MetricConfig, 0, len(metrics))
	for _, m := range metrics {
		row := MetricConfig{Metric: m, AppliesToAllSubjects: true}
		if sm, ok := byMetric[m.ID]; ok {
			row.IsEnabled = sm.IsEnabled
			row.AppliesToAllSubjects = sm.AppliesToAllSubjects
		}
		rows = append(rows, row)
	}
	sortConfigs(rows)
	return rows, nil
}

// SaveStudentMetricConfig applies student-level settings. Enabling creates or
// updates the row; disabling deletes it.
func (s *Service) SaveStudentMetricConfig(ctx context.Context, studentID int64, settings []StudentMetricSetting) (Result, error) {
	const op = "SaveStudentMetricConfig"
	student, err := lookup(ctx, s, op, msgStudentNotFound, s.repo.GetStudent, studentID)
	if err != nil {
		return Result{}, err
	}

	err = s.repo.WithTx(ctx, func(tx storage.Repository) error {
		for _, set := range settings {
			if err := checkVisible(ctx, tx, op, student.FamilyID, set.MetricID); err != nil {
				return err
			}
			if err := applyStudentSetting(ctx, tx, studentID, set); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, s.fail(op, err, msgMetricNotFound, "")
	}
	s.log.Debug("student metrics configured", "student_id", studentID, "count", len(settings))
	return Result{Message: "Student metrics configured successfully!"}, nil
}

// UpdateStudentMetric sets one student-level metric. Disabling deletes the row.
func (s *Service) UpdateStudentMetric(ctx context.Context, studentID int64, set StudentMetricSetting) (Result, error) {
	const op = "UpdateStudentMetric"
	student, err := lookup(ctx, s, op, msgStudentNotFound, s.repo.GetStudent, studentID)
	if err != nil {
		return Result{}, err
	}
	if err := checkVisible(ctx, s.repo, op, student.FamilyID, set.MetricID); err != nil {
		return Result{}, s.fail(op, err, msgMetricNotFound, "")
	}

	err = s.repo.WithTx(ctx, func(tx storage.Repository) error {
		return applyStudentSetting(ctx, tx, studentID, set)
	})
	if err != nil {
		return Result{}, s.fail(op, err, msgMetricNotFound, "")
	}
	s.log.Debug("student metric updated", "student_id", studentID, "metric_id", set.MetricID, "enabled", set.IsEnabled)
	return Result{Message: "Metric configuration updated successfully!"}, nil
}

// EnableMetricForStudent turns a metric on for a student.
func (s *Service) EnableMetricForStudent(ctx context.Context, studentID, metricID int64, appliesToAll bool) (Result, error) {
	return s.UpdateStudentMetric(ctx, studentID, StudentMetricSetting{MetricID: metricID, IsEnabled: true, AppliesToAllSubjects: appliesToAll})
}

// DisableMetricForStudent turns a metric off for a student.
func (s *Service) DisableMetricForStudent(ctx context.Context, studentID, metricID int64) (Result, error) {
	return s.UpdateStudentMetric(ctx, studentID, StudentMetricSetting{MetricID: metricID})
}

// checkVisible reports NotFound unless the metric exists and is a template
// or belongs to the family.
func checkVisible(ctx context.Context, repo storage.Repository, op string, familyID, metricID int64) error {
	m, err := repo.GetMetric(ctx, metricID)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && !m.VisibleTo(familyID)) {
		return notFound(op, msgMetricNotFound)
	}
	return err
}

func applyStudentSetting(ctx context.Context, tx storage.Repository, studentID int64, set StudentMetricSetting) error {
	existing, err := tx.GetStudentMetric(ctx, studentID, set.MetricID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	if !set.IsEnabled {
		if existing == nil {
			return nil
		}
		return tx.DeleteStudentMetric(ctx, studentID, set.MetricID)
	}

	if existing != nil {
		existing.IsEnabled = true
		existing.AppliesToAllSubjects = set.AppliesToAllSubjects
		return tx.UpdateStudentMetric(ctx, existing)
	}
	return tx.CreateStudentMetric(ctx, models.NewStudentMetric(studentID, set.MetricID, set.AppliesToAllSubjects))
}

// sortConfigs orders rows by category, empty first, then by name.
func sortConfigs(rows []MetricConfig) {
	slices.SortStableFunc(rows, func(a, b MetricConfig) int {
		return compareMetrics(a.Metric, b.Metric)
	})
}

func compareMetrics(a, b *models.Metric) int {
	return cmp.Or(
		cmp.Compare(a.CategoryOrEmpty(), b.CategoryOrEmpty()),
		cmp.Compare(a.Name, b.Name),
	)
}
