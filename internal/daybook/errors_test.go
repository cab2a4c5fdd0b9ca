// ABOUTME: Tests for the daybook error taxonomy.
// ABOUTME: Covers kind matching, kind labels, log detail and internal error logging.
package daybook

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/harperreed/daybook/internal/logging"
)

func TestKindName(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{notFound("GetStudent", msgStudentNotFound), "not_found"},
		{conflict("CreateDailyLog", msgDailyLogExists), "conflict"},
		{invalidValue("bad"), "invalid_metric_value"},
		{invalidOperation("DeleteMetric", "templates are read-only"), "invalid_operation"},
		{invalidInput("CreateFamily", "Name is required"), "invalid_input"},
		{&Error{Op: "ListFamilies", Kind: ErrInternal, Message: "An error occurred"}, "internal"},
		{fmt.Errorf("tool: %w", notFound("GetDailyLog", msgDailyLogNotFound)), "not_found"},
		{errors.New("plain"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, KindName(tt.err))
		})
	}
}

func TestErrorDetail(t *testing.T) {
	e := notFound("GetStudent", msgStudentNotFound)
	assert.Equal(t, "GetStudent: Student not found", e.Detail())
	assert.Equal(t, "Student not found", e.Error())

	cause := errors.New("disk full")
	wrapped := &Error{Op: "CreateFamily", Kind: ErrInternal, Message: "An error occurred", Err: cause}
	assert.Equal(t, "CreateFamily: An error occurred: disk full", wrapped.Detail())
	assert.ErrorIs(t, wrapped, cause)
	assert.ErrorIs(t, wrapped, ErrInternal)
}

func TestInternalLogsDetail(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := New(nil, &logging.Logger{SugaredLogger: zap.New(core).Sugar()})

	err := svc.internal("ExportFamily", errors.New("database is locked"))
	require.Error(t, err)
	assert.Equal(t, "internal", KindName(err))

	entries := logs.FilterMessage("operation failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "ExportFamily", fields["op"])
	assert.Equal(t, "ExportFamily: An error occurred: database is locked: database is locked", fields["detail"])
}
