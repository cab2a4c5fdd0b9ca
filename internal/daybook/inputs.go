// ABOUTME: Input models for create and update operations with validation tags.
// ABOUTME: Validation failures become ErrInvalidInput with readable messages.
package daybook

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/harperreed/daybook/internal/models"
)

// FamilyInput creates or renames a family.
type FamilyInput struct {
	Name string `json:"name" validate:"required,max=200" label:"Family name"`
}

// StudentInput creates or updates a student.
type StudentInput struct {
	Name        string     `json:"name" validate:"required,max=200" label:"Name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Notes       *string    `json:"notes,omitempty" validate:"omitempty,max=2000" label:"Notes"`
}

// SubjectInput creates or updates a subject.
type SubjectInput struct {
	Name        string  `json:"name" validate:"required,max=200" label:"Name"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000" label:"Description"`
}

// MetricInput creates or updates a custom metric.
type MetricInput struct {
	Name           string            `json:"name" validate:"required,max=200" label:"Name"`
	Description    *string           `json:"description,omitempty" validate:"omitempty,max=2000" label:"Description"`
	Kind           models.MetricKind `json:"kind" validate:"required,oneof=boolean categorical numeric" label:"Metric type"`
	Category       *string           `json:"category,omitempty" validate:"omitempty,max=100" label:"Category"`
	PossibleValues *string           `json:"possible_values,omitempty" validate:"omitempty,max=2000" label:"Possible values"`
	NumericConfig  *string           `json:"numeric_config,omitempty" validate:"omitempty,max=500" label:"Numeric config"`
}

// DailyLogInput creates or updates a daily log. On update the student and
// subject of the stored log are kept.
type DailyLogInput struct {
	StudentID int64                     `json:"student_id"`
	SubjectID int64                     `json:"subject_id"`
	Date      time.Time                 `json:"date"`
	Notes     *string                   `json:"notes,omitempty" validate:"omitempty,max=2000" label:"Notes"`
	Values    []models.MetricValueInput `json:"values,omitempty"`
}

// StudentMetricSetting is one row of a student-level metric configuration.
type StudentMetricSetting struct {
	MetricID             int64 `json:"metric_id"`
	IsEnabled            bool  `json:"is_enabled"`
	AppliesToAllSubjects bool  `json:"applies_to_all_subjects"`
}

// SubjectMetricSetting is one row of a per-subject metric configuration.
type SubjectMetricSetting struct {
	MetricID  int64 `json:"metric_id"`
	IsEnabled bool  `json:"is_enabled"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	return v
}

// check validates a struct and returns the first failure as ErrInvalidInput.
func (s *Service) check(op string, in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalidInput(op, err.Error())
	}

	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", fe.Field())
	case "max":
		msg = fmt.Sprintf("%s cannot exceed %s characters", fe.Field(), fe.Param())
	case "oneof":
		msg = fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return invalidInput(op, msg)
}

// trimmed returns a copy of p with surrounding whitespace removed, or nil
// when p is nil or blank.
func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
