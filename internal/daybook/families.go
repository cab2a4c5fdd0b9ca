// ABOUTME: Family, student and subject operations.
// ABOUTME: Deletes cascade through the store to everything the record owns.
package daybook

import (
	"context"
	"strings"

	"github.com/harperreed/daybook/internal/models"
)

// CreateFamily registers a new family.
func (s *Service) CreateFamily(ctx context.Context, in FamilyInput) (Result, error) {
	const op = "CreateFamily"
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(op, in); err != nil {
		return Result{}, err
	}

	f := models.NewFamily(in.Name)
	if err := s.repo.CreateFamily(ctx, f); err != nil {
		return Result{}, s.internal(op, err)
	}
	s.log.Debug("family created", "family_id", f.ID)
	return Result{ID: f.ID, Message: "Family created successfully!"}, nil
}

// GetFamily returns a family by ID.
func (s *Service) GetFamily(ctx context.Context, id int64) (*models.Family, error) {
	return lookup(ctx, s, "GetFamily", msgFamilyNotFound, s.repo.GetFamily, id)
}

// ListFamilies returns every family by name.
func (s *Service) ListFamilies(ctx context.Context) ([]*models.Family, error) {
	families, err := s.repo.ListFamilies(ctx)
	if err != nil {
		return nil, s.internal("ListFamilies", err)
	}
	return families, nil
}

// RenameFamily changes a family's name.
func (s *Service) RenameFamily(ctx context.Context, id int64, in FamilyInput) (Result, error) {
	const op = "RenameFamily"
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(op, in); err != nil {
		return Result{}, err
	}

	f, err := lookup(ctx, s, op, msgFamilyNotFound, s.repo.GetFamily, id)
	if err != nil {
		return Result{}, err
	}
	f.Name = in.Name
	if err := s.repo.UpdateFamily(ctx, f); err != nil {
		return Result{}, s.fail(op, err, msgFamilyNotFound, "")
	}
	s.log.Debug("family renamed", "family_id", id)
	return Result{ID: id, Message: "Family updated successfully!"}, nil
}

// DeleteFamily removes a family with its students, subjects, custom metrics
// and all their logs. Template metrics are untouched.
func (s *Service) DeleteFamily(ctx context.Context, id int64) (Result, error) {
	const op = "DeleteFamily"
	if err := s.repo.DeleteFamily(ctx, id); err != nil {
		return Result{}, s.fail(op, err, msgFamilyNotFound, "")
	}
	s.log.Debug("family deleted", "family_id", id)
	return Result{ID: id, Message: "Family deleted successfully!"}, nil
}

// ListStudents returns a family's students by name.
func (s *Service) ListStudents(ctx context.Context, familyID int64) ([]*models.Student, error) {
	students, err := s.repo.ListStudents(ctx, familyID)
	if err != nil {
		return nil, s.internal("ListStudents", err)
	}
	return students, nil
}

// GetStudent returns a student by ID.
func (s *Service) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return lookup(ctx, s, "GetStudent", msgStudentNotFound, s.repo.GetStudent, id)
}

// CreateStudent adds a student to a family.
func (s *Service) CreateStudent(ctx context.Context, familyID int64, in StudentInput) (Result, error) {
	const op = "CreateStudent"
	in.Name = strings.TrimSpace(in.Name)
	in.Notes = trimmed(in.Notes)
	if err := s.check(op, in); err != nil {
		return Result{}, err
	}
	if _, err := lookup(ctx, s, op, msgFamilyNotFound, s.repo.GetFamily, familyID); err != nil {
		return Result{}, err
	}

	st := models.NewStudent(familyID, in.Name)
	if in.DateOfBirth != nil {
		st.WithDateOfBirth(*in.DateOfBirth)
	}
	st.Notes = in.Notes

	if err := s.repo.CreateStudent(ctx, st); err != nil {
		return Result{}, s.fail(op, err, msgFamilyNotFound, "")
	}
	s.log.Debug("student created", "family_id", familyID, "student_id", st.ID)
	return Result{ID: st.ID, Message: "Student created successfully!"}, nil
}

// UpdateStudent saves a student's name, date of birth and notes.
func (s *Service) UpdateStudent(ctx context.Context, id int64, in StudentInput) (Result, error) {
	const op = "UpdateStudent"
	in.Name = strings.TrimSpace(in.Name)
	in.Notes = trimmed(in.Notes)
	if err := s.check(op, in); err != nil {
		return Result{}, err
	}

	st, err := lookup(ctx, s, op, msgStudentNotFound, s.repo.GetStudent, id)
	if err != nil {
		return Result{}, err
	}
	st.Name = in.Name
	st.DateOfBirth = nil
	if in.DateOfBirth != nil {
		st.WithDateOfBirth(*in.DateOfBirth)
	}
	st.Notes = in.Notes

	if err := s.repo.UpdateStudent(ctx, st); err != nil {
		return Result{}, s.fail(op, err, msgStudentNotFound, "")
	}
	s.log.Debug("student updated", "student_id", id)
	return Result{ID: id, Message: "Student updated successfully!"}, nil
}

// DeleteStudent removes a student with their logs and configuration.
func (s *Service) DeleteStudent(ctx context.Context, id int64) (Result, error) {
	const op = "DeleteStudent"
	if err := s.repo.DeleteStudent(ctx, id); err != nil {
		return Result{}, s.fail(op, err, msgStudentNotFound, "")
	}
	s.log.Debug("student deleted", "student_id", id)
	return Result{ID: id, Message: "Student deleted successfully!"}, nil
}

// ListSubjects returns a family's subjects ordered by name, ignoring case.
func (s *Service) ListSubjects(ctx context.Context, familyID int64) ([]*models.Subject, error) {
	subjects, err := s.repo.ListSubjects(ctx, familyID)
	if err != nil {
		return nil, s.internal("ListSubjects", err)
	}
	return subjects, nil
}

// GetSubject returns a subject by ID.
func (s *Service) GetSubject(ctx context.Context, id int64) (*models.Subject, error) {
	return lookup(ctx, s, "GetSubject", msgSubjectNotFound, s.repo.GetSubject, id)
}

// CreateSubject adds a subject to a family.
func (s *Service) CreateSubject(ctx context.Context, familyID int64, in SubjectInput) (Result, error) {
	const op = "CreateSubject"
	in.Name = strings.TrimSpace(in.Name)
	in.Description = trimmed(in.Description)
	if err := s.check(op, in); err != nil {
		return Result{}, err
	}
	if _, err := lookup(ctx, s, op, msgFamilyNotFound, s.repo.GetFamily, familyID); err != nil {
		return Result{}, err
	}

	su := models.NewSubject(familyID, in.Name)
	su.Description = in.Description
	if err := s.repo.CreateSubject(ctx, su); err != nil {
		return Result{}, s.fail(op, err, msgFamilyNotFound, "")
	}
	s.log.Debug("subject created", "family_id", familyID, "subject_id", su.ID)
	return Result{ID: su.ID, Message: "Subject created successfully!"}, nil
}

// UpdateSubject saves a subject's name and description.
func (s *Service) UpdateSubject(ctx context.Context, id int64, in SubjectInput) (Result, error) {
	const op = "UpdateSubject"
	in.Name = strings.TrimSpace(in.Name)
	in.Description = trimmed(in.Description)
	if err := s.check(op, in); err != nil {
		return Result{}, err
	}

	su, err := lookup(ctx, s, op, msgSubjectNotFound, s.repo.GetSubject, id)
	if err != nil {
		return Result{}, err
	}
	su.Name = in.Name
	su.Description = in.Description
	if err := s.repo.UpdateSubject(ctx, su); err != nil {
		return Result{}, s.fail(op, err, msgSubjectNotFound, "")
	}
	s.log.Debug("subject updated", "subject_id", id)
	return Result{ID: id, Message: "Subject updated successfully!"}, nil
}

// DeleteSubject removes a subject with its logs, assignments and overrides.
func (s *Service) DeleteSubject(ctx context.Context, id int64) (Result, error) {
	const op = "DeleteSubject"
	if err := s.repo.DeleteSubject(ctx, id); err != nil {
		return Result{}, s.fail(op, err, msgSubjectNotFound, "")
	}
	s.log.Debug("subject deleted", "subject_id", id)
	return Result{ID: id, Message: "Subject deleted successfully!"}, nil
}
