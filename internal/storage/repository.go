// ABOUTME: Repository interface for daybook data storage.
// ABOUTME: Defines the contract for families, metrics, applicability and daily logs.
package storage

import (
	"context"
	"time"

	"github.com/harperreed/daybook/internal/models"
)

// Repository defines the storage interface for daybook data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Family operations
	CreateFamily(ctx context.Context, f *models.Family) error
	GetFamily(ctx context.Context, id int64) (*models.Family, error)
	ListFamilies(ctx context.Context) ([]*models.Family, error)
	UpdateFamily(ctx context.Context, f *models.Family) error
	DeleteFamily(ctx context.Context, id int64) error

	// Student operations
	CreateStudent(ctx context.Context, s *models.Student) error
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	ListStudents(ctx context.Context, familyID int64) ([]*models.Student, error)
	UpdateStudent(ctx context.Context, s *models.Student) error
	DeleteStudent(ctx context.Context, id int64) error

	// Subject operations
	CreateSubject(ctx context.Context, s *models.Subject) error
	GetSubject(ctx context.Context, id int64) (*models.Subject, error)
	ListSubjects(ctx context.Context, familyID int64) ([]*models.Subject, error)
	UpdateSubject(ctx context.Context, s *models.Subject) error
	DeleteSubject(ctx context.Context, id int64) error

	// Metric operations
	CreateMetric(ctx context.Context, m *models.Metric) error
	GetMetric(ctx context.Context, id int64) (*models.Metric, error)
	UpdateMetric(ctx context.Context, m *models.Metric) error
	DeleteMetric(ctx context.Context, id int64) error
	ListVisibleMetrics(ctx context.Context, familyID int64) ([]*models.Metric, error)
	ListTemplateMetrics(ctx context.Context) ([]*models.Metric, error)
	ListCustomMetrics(ctx context.Context, familyID int64) ([]*models.Metric, error)
	FindTemplateByName(ctx context.Context, name string) (*models.Metric, error)

	// Student subject assignments
	CreateStudentSubject(ctx context.Context, ss *models.StudentSubject) error
	GetStudentSubject(ctx context.Context, studentID, subjectID int64) (*models.StudentSubject, error)
	DeleteStudentSubject(ctx context.Context, studentID, subjectID int64) error
	ListSubjectsForStudent(ctx context.Context, studentID int64) ([]*models.Subject, error)
	ListStudentsForSubject(ctx context.Context, subjectID int64) ([]*models.Student, error)

	// Student-level metric configuration
	CreateStudentMetric(ctx context.Context, sm *models.StudentMetric) error
	GetStudentMetric(ctx context.Context, studentID, metricID int64) (*models.StudentMetric, error)
	ListStudentMetrics(ctx context.Context, studentID int64) ([]*models.StudentMetric, error)
	UpdateStudentMetric(ctx context.Context, sm *models.StudentMetric) error
	DeleteStudentMetric(ctx context.Context, studentID, metricID int64) error

	// Per-subject overrides
	CreateStudentSubjectMetric(ctx context.Context, o *models.StudentSubjectMetric) error
	GetStudentSubjectMetric(ctx context.Context, studentID, subjectID, metricID int64) (*models.StudentSubjectMetric, error)
	ListStudentSubjectMetrics(ctx context.Context, studentID, subjectID int64) ([]*models.StudentSubjectMetric, error)
	UpdateStudentSubjectMetric(ctx context.Context, o *models.StudentSubjectMetric) error
	DeleteStudentSubjectMetric(ctx context.Context, studentID, subjectID, metricID int64) error

	// Daily log operations
	CreateDailyLog(ctx context.Context, l *models.DailyLog) error
	GetDailyLog(ctx context.Context, id int64) (*models.DailyLog, error)
	FindDailyLog(ctx context.Context, studentID, subjectID int64, date time.Time) (*models.DailyLog, error)
	DailyLogExists(ctx context.Context, studentID, subjectID int64, date time.Time, excludeID int64) (bool, error)
	ListDailyLogsForStudent(ctx context.Context, studentID int64) ([]*models.DailyLog, error)
	ListDailyLogsForStudentSubject(ctx context.Context, studentID, subjectID int64) ([]*models.DailyLog, error)
	ListDailyLogsForFamily(ctx context.Context, familyID int64, since *time.Time) ([]*models.DailyLog, error)
	UpdateDailyLog(ctx context.Context, l *models.DailyLog) error
	DeleteDailyLog(ctx context.Context, id int64) error

	// Daily log values
	AddDailyLogValue(ctx context.Context, v *models.DailyLogValue) error
	ListDailyLogValues(ctx context.Context, dailyLogID int64) ([]models.DailyLogValue, error)
	DeleteDailyLogValues(ctx context.Context, dailyLogID int64) error

	// Templates, export and import
	SeedTemplates(ctx context.Context) (int, error)
	ExportFamily(ctx context.Context, familyID int64) (*ExportData, error)
	ImportFamily(ctx context.Context, familyID int64, data *ExportData) (*ImportStats, error)
	ExportJournal(ctx context.Context, studentID int64, since *time.Time) (string, error)

	// Transactions and lifecycle
	WithTx(ctx context.Context, fn func(Repository) error) error
	Close() error
}

// Compile-time check that DB implements Repository.
var _ Repository = (*DB)(nil)
