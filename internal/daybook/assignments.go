// ABOUTME: Student-subject assignment operations.
// ABOUTME: The store's unique index settles concurrent duplicate assignments.
package daybook

import (
	"context"
	"errors"

	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/storage"
)

// SubjectsForStudent returns the subjects assigned to a student.
func (s *Service) SubjectsForStudent(ctx context.Context, studentID int64) ([]*models.Subject, error) {
	subjects, err := s.repo.ListSubjectsForStudent(ctx, studentID)
	if err != nil {
		return nil, s.internal("SubjectsForStudent", err)
	}
	return subjects, nil
}

// StudentsForSubject returns the students assigned to a subject.
func (s *Service) StudentsForSubject(ctx context.Context, subjectID int64) ([]*models.Student, error) {
	students, err := s.repo.ListStudentsForSubject(ctx, subjectID)
	if err != nil {
		return nil, s.internal("StudentsForSubject", err)
	}
	return students, nil
}

// StudentHasSubject reports whether a subject is assigned to a student.
func (s *Service) StudentHasSubject(ctx context.Context, studentID, subjectID int64) (bool, error) {
	_, err := s.repo.GetStudentSubject(ctx, studentID, subjectID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, s.internal("StudentHasSubject", err)
	}
	return true, nil
}

// AssignSubject assigns a subject to a student.
func (s *Service) AssignSubject(ctx context.Context, studentID, subjectID int64) (Result, error) {
	const op = "AssignSubject"
	if _, err := lookup(ctx, s, op, msgStudentNotFound, s.repo.GetStudent, studentID); err != nil {
		return Result{}, err
	}
	if _, err := lookup(ctx, s, op, msgSubjectNotFound, s.repo.GetSubject, subjectID); err != nil {
		return Result{}, err
	}

	has, err := s.StudentHasSubject(ctx, studentID, subjectID)
	if err != nil {
		return Result{}, err
	}
	if has {
		return Result{}, conflict(op, msgAlreadyAssigned)
	}

	ss := &models.StudentSubject{StudentID: studentID, SubjectID: subjectID, CreatedAt: s.now()}
	if err := s.repo.CreateStudentSubject(ctx, ss); err != nil {
		return Result{}, s.fail(op, err, "", msgAlreadyAssigned)
	}
	s.log.Debug("subject assigned", "student_id", studentID, "subject_id", subjectID)
	return Result{ID: ss.ID, Message: "Subject assigned successfully!"}, nil
}

// UnassignSubject removes a subject from a student. Logs and overrides for the
// pair are kept.
func (s *Service) UnassignSubject(ctx context.Context, studentID, subjectID int64) (Result, error) {
	const op = "UnassignSubject"
	if err := s.repo.DeleteStudentSubject(ctx, studentID, subjectID); err != nil {
		return Result{}, s.fail(op, err, msgAssignmentNotFound, "")
	}
	s.log.Debug("subject unassigned", "student_id", studentID, "subject_id", subjectID)
	return Result{Message: "Subject removed successfully!"}, nil
}
