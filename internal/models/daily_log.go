// ABOUTME: DailyLog and DailyLogValue models.
// ABOUTME: One log per student, subject and calendar date, carrying metric values.
package models

import "time"

// DateLayout is the storage and display format for date-only fields.
const DateLayout = "2006-01-02"

// NormalizeDate discards the time of day, keeping the calendar date as written,
// and returns midnight UTC of that date.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DailyLog is one entry for a (student, subject, date).
type DailyLog struct {
	ID        int64      `json:"id"`
	StudentID int64      `json:"student_id"`
	SubjectID int64      `json:"subject_id"`
	Date      time.Time  `json:"date"`
	Notes     *string    `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Populated on read
	StudentName string          `json:"student_name,omitempty"`
	SubjectName string          `json:"subject_name,omitempty"`
	Values      []DailyLogValue `json:"values,omitempty"`
}

// NewDailyLog creates a DailyLog with the date normalized.
func NewDailyLog(studentID, subjectID int64, date time.Time) *DailyLog {
	return &DailyLog{
		StudentID: studentID,
		SubjectID: subjectID,
		Date:      NormalizeDate(date),
		CreatedAt: time.Now().UTC(),
	}
}

// WithNotes sets notes on the log.
func (l *DailyLog) WithNotes(notes string) *DailyLog {
	l.Notes = &notes
	return l
}

// Value returns the recorded value for a metric, if any.
func (l *DailyLog) Value(metricID int64) (Value, bool) {
	for _, v := range l.Values {
		if v.MetricID == metricID {
			return v.Value, true
		}
	}
	return Value{}, false
}

// DailyLogValue is one metric value recorded on a log.
type DailyLogValue struct {
	ID         int64      `json:"id"`
	DailyLogID int64      `json:"daily_log_id"`
	MetricID   int64      `json:"metric_id"`
	MetricName string     `json:"metric_name,omitempty"`
	Kind       MetricKind `json:"kind"`
	Value      Value      `json:"value"`
}

// NewDailyLogValue creates a value for a metric on a log.
func NewDailyLogValue(dailyLogID, metricID int64, v Value) *DailyLogValue {
	return &DailyLogValue{DailyLogID: dailyLogID, MetricID: metricID, Kind: v.Kind(), Value: v}
}
