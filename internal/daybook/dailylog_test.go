// ABOUTME: Tests for the daily log coordinator.
// ABOUTME: Covers round trips, uniqueness, value replacement and all-or-nothing writes.
package daybook

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/daybook/internal/models"
)

func TestDailyLogRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	h := newHousehold(t, svc)
	completed := templateID(t, svc, "Completed")
	focus := templateID(t, svc, "Focus")
	minutes := templateID(t, svc, "Minutes spent")

	res, err := svc.CreateDailyLog(ctx, DailyLogInput{
		StudentID: h.studentID,
		SubjectID: h.mathID,
		Date:      time.Date(2024, 1, 15, 16, 45, 0, 0, time.UTC),
		Notes:     ptr("  fractions  "),
		Values: []models.MetricValueInput{
			{MetricID: completed, Boolean: ptr(true)},
			{MetricID: focus, Categorical: ptr("High")},
			{MetricID: minutes, Numeric: ptr(42.5)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Daily log created successfully!", res.Message)

	l, err := svc.GetDailyLog(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", l.Date.Format(models.DateLayout))
	require.NotNil(t, l.Notes)
	assert.Equal(t, "fractions", *l.Notes)
	assert.Equal(t, "Ada", l.StudentName)
	assert.Equal(t, "Math", l.SubjectName)
	require.Len(t, l.Values, 3)

	v, ok := l.Value(completed)
	require.True(t, ok)
	b, _ := v.Bool()
	assert.True(t, b)
	v, ok = l.Value(focus)
	require.True(t, ok)
	c, _ := v.Categorical()
	assert.Equal(t, "High", c)
	v, ok = l.Value(minutes)
	require.True(t, ok)
	n, _ := v.Numeric()
	assert.Equal(t, 42.5, n)

	found, err := svc.FindDailyLog(ctx, h.studentID, h.mathID, time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, res.ID, found.ID)
}

func TestDailyLogDuplicateConflict(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	h := newHousehold(t, svc)

	in := DailyLogInput{StudentID: h.studentID, SubjectID: h.mathID, Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}
	_, err := svc.CreateDailyLog(ctx, in)
	require.NoError(t, err)

	in.Date = in.Date.Add(10 * time.Hour)
	_, err = svc.CreateDailyLog(ctx, in)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "already exists")

	in.SubjectID = h.readingID
	_, err = svc.CreateDailyLog(ctx, in)
	assert.NoError(t, err, "same date in another subject is allowed")
}

func TestDailyLogNumericBounds(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	h := newHousehold(t, svc)
	m2 := customMetric(t, svc, h.familyID, MetricInput{Name: "Problems solved", Kind: "numeric", NumericConfig: ptr(`{"min":10}`)})

	_, err := svc.CreateDailyLog(ctx, DailyLogInput{
		StudentID: h.studentID, SubjectID: h.mathID, Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Values: []models.MetricValueInput{{MetricID: m2, Numeric: ptr(5.0)}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMetricValue)
	assert.Contains(t, err.Error(), "must be at least 10")

	logs, err := svc.ListDailyLogsForStudent(ctx, h.studentID)
	require.NoError(t, err)
	assert.Empty(t, logs, "a rejected value must not leave a log behind")

	_, err = svc.CreateDailyLog(ctx, DailyLogInput{
		StudentID: h.studentID, SubjectID: h.mathID, Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Values: []models.MetricValueInput{{MetricID: m2, Numeric: ptr(15.0)}},
	})
	assert.NoError(t, err)
}

func TestDailyLogRejectsNaN(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	h := newHousehold(t, svc)
	bounded := customMetric(t, svc, h.familyID, MetricInput{Name: "Problems solved", Kind: "numeric", NumericConfig: ptr(`{"min":10,"max":20}`)})

	_, err := svc.CreateDailyLog(ctx, DailyLogInput{
		StudentID: h.studentID, SubjectID: h.mathID, Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Values: []models.MetricValueInput{{MetricID: bounded, Numeric: ptr(math.NaN())}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMetricValue)
	assert.Contains(t, err.Error(), "'Problems solved'")

	logs, err := svc.ListDailyLogsForStudent(ctx, h.studentID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestDailyLogSkipsUnsetAndUnknownValues(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	h := newHousehold(t, svc)
	focus := templateID(t, svc, "Focus")

	res, err := svc.CreateDailyLog(ctx, DailyLogInput{
		StudentID: h.studentID, SubjectID: h.mathID, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Values: []models.MetricValueInput{
			{MetricID: focus},
			{MetricID: 9999, Boolean: ptr(true)},
		},
	})
	require.NoError(t, err)

	l, err := svc.GetDailyLog(ctx, res.ID)
	require.NoError(t, err)
	assert.Empty(t, l.Values)
}

func TestDailyLogDuplicateMetricRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	h := newHousehold(t, svc)
	focus := templateID(t, svc, "Focus")

	_, err := svc.CreateDailyLog(ctx, DailyLogInput{
		StudentID: h.studentID, SubjectID: h.mathID, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Values: []models.MetricValueInput{
			{MetricID: focus, Categorical: ptr("Low")},
			{MetricID: focus, Categorical: ptr("High")},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidMetricValue)
}

func TestDailyLogCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	h := newHousehold(t, svc)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      DailyLogInput
		kind    error
		message string
	}{
		{name: "missing date", in: DailyLogInput{StudentID: h.studentID, SubjectID: h.mathID}, kind: ErrInvalidInput, message: "Date is required"},
		{name: "unknown student", in: DailyLogInput{StudentID: 9999, SubjectID: h.mathID, Date: date}, kind: ErrNotFound, message: "Student not found"},
		{name: "unknown subject", in: DailyLogInput{StudentID: h.studentID, SubjectID: 9999, Date: date}, kind: ErrNotFound, message: "Subject not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateDailyLog(ctx, tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.EqualError(t, err, tt.message)
		})
	}
}

func TestDailyLogUpdateReplacesValues(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	h := newHousehold(t, svc)
	completed := templateID(t, svc, "Completed")
	mood := templateID(t, svc, "Mood")

	res, err := svc.CreateDailyLog(ctx, DailyLogInput{
		StudentID: h.studentID, SubjectID: h.mathID, Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Values: []models.MetricValueInput{{MetricID: completed, Boolean: ptr(false)}},
	})
	require.NoError(t, err)

	upd, err := svc.UpdateDailyLog(ctx, res.ID, DailyLogInput{
		Date:   time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
		Notes:  ptr("moved"),
		Values: []models.MetricValueInput{{MetricID: mood, Categorical: ptr("Happy")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Daily log updated successfully!", upd.Message)

	l, err := svc.GetDailyLog(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-04-02", l.Date.Format(models.DateLayout))
	assert.Equal(t, h.mathID, l.SubjectID)
	require.Len(t, l.Values, 1)
	assert.Equal(t, mood, l.Values[0].MetricID)
	assert.NotNil(t, l.UpdatedAt)
}

func TestDailyLogUpdateConflictAndRollback(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	h := newHousehold(t, svc)
	completed := templateID(t, svc, "Completed")
	focus := templateID(t, svc, "Focus")

	first, err := svc.CreateDailyLog(ctx, DailyLogInput{StudentID: h.studentID, SubjectID: h.mathID, Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	second, err := svc.CreateDailyLog(ctx, DailyLogInput{
		StudentID: h.studentID, SubjectID: h.mathID, Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Values: []models.MetricValueInput{{MetricID: completed, Boolean: ptr(true)}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateDailyLog(ctx, second.ID, DailyLogInput{Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.UpdateDailyLog(ctx, second.ID, DailyLogInput{
		Date:   time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Values: []models.MetricValueInput{{MetricID: focus, Categorical: ptr("Sleepy")}},
	})
	assert.ErrorIs(t, err, ErrInvalidMetricValue)

	l, err := svc.GetDailyLog(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, l.Values, 1, "a failed update keeps the previous values")
	assert.Equal(t, completed, l.Values[0].MetricID)

	_, err = svc.UpdateDailyLog(ctx, first.ID, DailyLogInput{Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Notes: ptr("same day")})
	assert.NoError(t, err, "keeping the date does not conflict with itself")

	_, err = svc.UpdateDailyLog(ctx, 9999, DailyLogInput{Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)})
	assert.EqualError(t, err, "Daily log not found")
}

func TestDailyLogDeleteAndLists(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	h := newHousehold(t, svc)

	mk := func(subjectID int64, day int) int64 {
		res, err := svc.CreateDailyLog(ctx, DailyLogInput{StudentID: h.studentID, SubjectID: subjectID, Date: time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC)})
		require.NoError(t, err)
		return res.ID
	}
	readingOld := mk(h.readingID, 1)
	mathNew := mk(h.mathID, 2)
	readingNew := mk(h.readingID, 2)

	logs, err := svc.ListDailyLogsForStudent(ctx, h.studentID)
	require.NoError(t, err)
	var ids []int64
	for _, l := range logs {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []int64{mathNew, readingNew, readingOld}, ids)

	reading, err := svc.ListDailyLogsForStudentSubject(ctx, h.studentID, h.readingID)
	require.NoError(t, err)
	require.Len(t, reading, 2)
	assert.Equal(t, readingNew, reading[0].ID)

	res, err := svc.DeleteDailyLog(ctx, readingNew)
	require.NoError(t, err)
	assert.Equal(t, "Daily log deleted successfully!", res.Message)

	_, err = svc.GetDailyLog(ctx, readingNew)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.DeleteDailyLog(ctx, readingNew)
	assert.EqualError(t, err, "Daily log not found")
}

func TestAvailableMetricsMatchesResolver(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	h := newHousehold(t, svc)
	_, err := svc.EnableMetricForStudent(ctx, h.studentID, templateID(t, svc, "Completed"), true)
	require.NoError(t, err)

	got, err := svc.AvailableMetrics(ctx, h.studentID, h.mathID, h.familyID)
	require.NoError(t, err)
	want, err := svc.MetricsForDailyLog(ctx, h.studentID, h.mathID, h.familyID)
	require.NoError(t, err)
	assert.Equal(t, metricIDs(want), metricIDs(got))
}
