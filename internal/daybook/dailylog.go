// ABOUTME: Daily log coordinator: create, update, delete and query logs with values.
// ABOUTME: Values are validated before any write and stored in one transaction.
package daybook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/storage"
)

// CreateDailyLog records a log for (student, subject, date) with its values.
// The date is reduced to its calendar day before the uniqueness check.
func (s *Service) CreateDailyLog(ctx context.Context, in DailyLogInput) (Result, error) {
	const op = "CreateDailyLog"
	in.Notes = trimmed(in.Notes)
	if err := s.checkLogInput(op, in); err != nil {
		return Result{}, err
	}
	if _, err := lookup(ctx, s, op, msgStudentNotFound, s.repo.GetStudent, in.StudentID); err != nil {
		return Result{}, err
	}
	if _, err := lookup(ctx, s, op, msgSubjectNotFound, s.repo.GetSubject, in.SubjectID); err != nil {
		return Result{}, err
	}

	date := models.NormalizeDate(in.Date)
	exists, err := s.repo.DailyLogExists(ctx, in.StudentID, in.SubjectID, date, 0)
	if err != nil {
		return Result{}, s.internal(op, err)
	}
	if exists {
		return Result{}, conflict(op, msgDailyLogExists)
	}

	values, err := s.resolveValues(ctx, op, in.Values)
	if err != nil {
		return Result{}, err
	}

	l := models.NewDailyLog(in.StudentID, in.SubjectID, date)
	l.Notes = in.Notes
	err = s.repo.WithTx(ctx, func(tx storage.Repository) error {
		if err := tx.CreateDailyLog(ctx, l); err != nil {
			return err
		}
		return addValues(ctx, tx, l.ID, values)
	})
	if err != nil {
		return Result{}, s.fail(op, err, "", msgDailyLogExists)
	}
	s.log.Debug("daily log created",
		"daily_log_id", l.ID, "student_id", l.StudentID, "subject_id", l.SubjectID,
		"date", date.Format(models.DateLayout), "values", len(values))
	return Result{ID: l.ID, Message: "Daily log created successfully!"}, nil
}

// UpdateDailyLog replaces a log's date, notes and full value set. The log
// keeps its student and subject.
func (s *Service) UpdateDailyLog(ctx context.Context, id int64, in DailyLogInput) (Result, error) {
	const op = "UpdateDailyLog"
	in.Notes = trimmed(in.Notes)
	if err := s.checkLogInput(op, in); err != nil {
		return Result{}, err
	}

	l, err := lookup(ctx, s, op, msgDailyLogNotFound, s.repo.GetDailyLog, id)
	if err != nil {
		return Result{}, err
	}

	date := models.NormalizeDate(in.Date)
	if !date.Equal(l.Date) {
		exists, err := s.repo.DailyLogExists(ctx, l.StudentID, l.SubjectID, date, id)
		if err != nil {
			return Result{}, s.internal(op, err)
		}
		if exists {
			return Result{}, conflict(op, msgDailyLogExists)
		}
	}

	values, err := s.resolveValues(ctx, op, in.Values)
	if err != nil {
		return Result{}, err
	}

	l.Date = date
	l.Notes = in.Notes
	err = s.repo.WithTx(ctx, func(tx storage.Repository) error {
		if err := tx.UpdateDailyLog(ctx, l); err != nil {
			return err
		}
		if err := tx.DeleteDailyLogValues(ctx, id); err != nil {
			return err
		}
		return addValues(ctx, tx, id, values)
	})
	if err != nil {
		return Result{}, s.fail(op, err, msgDailyLogNotFound, msgDailyLogExists)
	}
	s.log.Debug("daily log updated", "daily_log_id", id, "values", len(values))
	return Result{ID: id, Message: "Daily log updated successfully!"}, nil
}

// DeleteDailyLog removes a log and its values.
func (s *Service) DeleteDailyLog(ctx context.Context, id int64) (Result, error) {
	const op = "DeleteDailyLog"
	if err := s.repo.DeleteDailyLog(ctx, id); err != nil {
		return Result{}, s.fail(op, err, msgDailyLogNotFound, "")
	}
	s.log.Debug("daily log deleted", "daily_log_id", id)
	return Result{ID: id, Message: "Daily log deleted successfully!"}, nil
}

// GetDailyLog returns a log with its values.
func (s *Service) GetDailyLog(ctx context.Context, id int64) (*models.DailyLog, error) {
	return lookup(ctx, s, "GetDailyLog", msgDailyLogNotFound, s.repo.GetDailyLog, id)
}

// FindDailyLog returns the log for (student, subject) on the calendar day of date.
func (s *Service) FindDailyLog(ctx context.Context, studentID, subjectID int64, date time.Time) (*models.DailyLog, error) {
	l, err := s.repo.FindDailyLog(ctx, studentID, subjectID, models.NormalizeDate(date))
	if err != nil {
		return nil, s.fail("FindDailyLog", err, msgDailyLogNotFound, "")
	}
	return l, nil
}

// ListDailyLogsForStudent returns a student's logs, newest first and then by
// subject name.
func (s *Service) ListDailyLogsForStudent(ctx context.Context, studentID int64) ([]*models.DailyLog, error) {
	logs, err := s.repo.ListDailyLogsForStudent(ctx, studentID)
	if err != nil {
		return nil, s.internal("ListDailyLogsForStudent", err)
	}
	return logs, nil
}

// ListDailyLogsForStudentSubject returns the logs of one student and subject,
// newest first.
func (s *Service) ListDailyLogsForStudentSubject(ctx context.Context, studentID, subjectID int64) ([]*models.DailyLog, error) {
	logs, err := s.repo.ListDailyLogsForStudentSubject(ctx, studentID, subjectID)
	if err != nil {
		return nil, s.internal("ListDailyLogsForStudentSubject", err)
	}
	return logs, nil
}

// AvailableMetrics returns the metrics a log for (student, subject) can record.
func (s *Service) AvailableMetrics(ctx context.Context, studentID, subjectID, familyID int64) ([]*models.Metric, error) {
	return s.MetricsForDailyLog(ctx, studentID, subjectID, familyID)
}

func (s *Service) checkLogInput(op string, in DailyLogInput) error {
	if in.Date.IsZero() {
		return invalidInput(op, "Date is required")
	}
	return s.check(op, in)
}

// resolveValues validates every set value against its metric. Unset values and
// values for unknown metrics are skipped.
func (s *Service) resolveValues(ctx context.Context, op string, inputs []models.MetricValueInput) ([]*models.DailyLogValue, error) {
	seen := make(map[int64]bool, len(inputs))
	var out []*models.DailyLogValue
	for _, in := range inputs {
		if !in.IsSet() {
			continue
		}
		m, err := s.repo.GetMetric(ctx, in.MetricID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				s.log.Debug("skipping value for unknown metric", "op", op, "metric_id", in.MetricID)
				continue
			}
			return nil, s.internal(op, err)
		}
		if seen[m.ID] {
			return nil, newError(op, ErrInvalidMetricValue, fmt.Sprintf("Metric '%s' has more than one value", m.Name))
		}
		seen[m.ID] = true

		v, err := ValidateMetricValue(m, in)
		if err != nil {
			var de *Error
			if errors.As(err, &de) {
				de.Op = op
			}
			return nil, err
		}
		out = append(out, &models.DailyLogValue{MetricID: m.ID, MetricName: m.Name, Kind: v.Kind(), Value: v})
	}
	return out, nil
}

func addValues(ctx context.Context, tx storage.Repository, logID int64, values []*models.DailyLogValue) error {
	for _, v := range values {
		v.DailyLogID = logID
		if err := tx.AddDailyLogValue(ctx, v); err != nil {
			return err
		}
	}
	return nil
}
