// ABOUTME: Service is the entry point for every daybook operation.
// ABOUTME: It owns the repository, logger and input validator.
package daybook

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/harperreed/daybook/internal/logging"
	"github.com/harperreed/daybook/internal/storage"
)

// Result is the outcome of a successful mutation.
type Result struct {
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message"`
}

// Service implements the metric catalog, applicability resolver and daily log
// coordinator on top of a Repository. The acting family is always passed in
// explicitly by the caller.
type Service struct {
	repo     storage.Repository
	log      *logging.Logger
	validate *validator.Validate
	now      func() time.Time
}

// New creates a Service. A nil logger discards output.
func New(repo storage.Repository, log *logging.Logger) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{
		repo:     repo,
		log:      log,
		validate: newValidator(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Repository exposes the underlying store for read-only presentation needs
// such as export.
func (s *Service) Repository() storage.Repository {
	return s.repo
}

// fail converts a store error into an *Error. Known storage sentinels become
// the given not-found or conflict messages; anything else is internal.
func (s *Service) fail(op string, err error, notFoundMsg, conflictMsg string) error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	if notFoundMsg != "" && errors.Is(err, storage.ErrNotFound) {
		return notFound(op, notFoundMsg)
	}
	if conflictMsg != "" && errors.Is(err, storage.ErrConflict) {
		return conflict(op, conflictMsg)
	}
	return s.internal(op, err)
}

// internal logs an unexpected store failure and wraps it.
func (s *Service) internal(op string, err error) error {
	e := &Error{Op: op, Kind: ErrInternal, Message: "An error occurred: " + err.Error(), Err: err}
	s.log.With("op", op).Error("operation failed", "detail", e.Detail())
	return e
}

// lookup runs a getter and maps storage.ErrNotFound to the given message.
func lookup[T any](ctx context.Context, s *Service, op, notFoundMsg string, get func(context.Context, int64) (T, error), id int64) (T, error) {
	v, err := get(ctx, id)
	if err != nil {
		var zero T
		return zero, s.fail(op, err, notFoundMsg, "")
	}
	return v, nil
}

const (
	msgFamilyNotFound     = "Family not found"
	msgStudentNotFound    = "Student not found"
	msgSubjectNotFound    = "Subject not found"
	msgMetricNotFound     = "Metric not found"
	msgDailyLogNotFound   = "Daily log not found"
	msgAssignmentNotFound = "Subject assignment not found"
	msgDailyLogExists     = "A daily log already exists for this student, subject, and date"
	msgAlreadyAssigned    = "Subject is already assigned to this student"
)
