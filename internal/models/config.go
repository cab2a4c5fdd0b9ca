// ABOUTME: Student-subject assignment and metric applicability records.
// ABOUTME: StudentMetric is the student default, StudentSubjectMetric the per-subject override.
package models

import "time"

// StudentSubject records that a student studies a subject.
type StudentSubject struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"student_id"`
	SubjectID int64     `json:"subject_id"`
	CreatedAt time.Time `json:"created_at"`
}

// StudentMetric is the student-level configuration of a metric. A missing row
// means the metric is not enabled for the student.
type StudentMetric struct {
	ID                   int64      `json:"id"`
	StudentID            int64      `json:"student_id"`
	MetricID             int64      `json:"metric_id"`
	IsEnabled            bool       `json:"is_enabled"`
	AppliesToAllSubjects bool       `json:"applies_to_all_subjects"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
}

// NewStudentMetric creates an enabled student-level configuration.
func NewStudentMetric(studentID, metricID int64, appliesToAll bool) *StudentMetric {
	return &StudentMetric{
		StudentID:            studentID,
		MetricID:             metricID,
		IsEnabled:            true,
		AppliesToAllSubjects: appliesToAll,
		CreatedAt:            time.Now().UTC(),
	}
}

// StudentSubjectMetric overrides the student-level default for one subject.
// When present its IsEnabled always wins.
type StudentSubjectMetric struct {
	ID        int64      `json:"id"`
	StudentID int64      `json:"student_id"`
	SubjectID int64      `json:"subject_id"`
	MetricID  int64      `json:"metric_id"`
	IsEnabled bool       `json:"is_enabled"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NewStudentSubjectMetric creates a per-subject override.
func NewStudentSubjectMetric(studentID, subjectID, metricID int64, enabled bool) *StudentSubjectMetric {
	return &StudentSubjectMetric{
		StudentID: studentID,
		SubjectID: subjectID,
		MetricID:  metricID,
		IsEnabled: enabled,
		CreatedAt: time.Now().UTC(),
	}
}
