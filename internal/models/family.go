// ABOUTME: Family, Student and Subject models.
// ABOUTME: A family owns its students, subjects and custom metrics.
package models

import "time"

// Family is the top-level owner of all records.
type Family struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NewFamily creates a Family with the current timestamp.
func NewFamily(name string) *Family {
	return &Family{Name: name, CreatedAt: time.Now().UTC()}
}

// Student belongs to exactly one family.
type Student struct {
	ID          int64      `json:"id"`
	FamilyID    int64      `json:"family_id"`
	Name        string     `json:"name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// NewStudent creates a Student in the given family.
func NewStudent(familyID int64, name string) *Student {
	return &Student{FamilyID: familyID, Name: name, CreatedAt: time.Now().UTC()}
}

// WithDateOfBirth sets the date of birth, normalized to a UTC date.
func (s *Student) WithDateOfBirth(t time.Time) *Student {
	d := NormalizeDate(t)
	s.DateOfBirth = &d
	return s
}

// WithNotes sets notes on the student.
func (s *Student) WithNotes(notes string) *Student {
	s.Notes = &notes
	return s
}

// Subject belongs to exactly one family.
type Subject struct {
	ID          int64      `json:"id"`
	FamilyID    int64      `json:"family_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// NewSubject creates a Subject in the given family.
func NewSubject(familyID int64, name string) *Subject {
	return &Subject{FamilyID: familyID, Name: name, CreatedAt: time.Now().UTC()}
}

// WithDescription sets the description.
func (s *Subject) WithDescription(desc string) *Subject {
	s.Description = &desc
	return s
}
