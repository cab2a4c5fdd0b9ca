// ABOUTME: MCP tool implementations for the daybook.
// ABOUTME: Families, students, subjects, metric configuration and daily logs.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/daybook/internal/daybook"
	"github.com/harperreed/daybook/internal/models"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_families",
		Description: "List every family",
	}, s.handleListFamilies)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_family",
		Description: "Create a family",
	}, s.handleCreateFamily)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_students",
		Description: "List the students of a family",
	}, s.handleListStudents)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_student",
		Description: "Add a student to a family",
	}, s.handleCreateStudent)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_subjects",
		Description: "List the subjects of a family, or those assigned to one student",
	}, s.handleListSubjects)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_subject",
		Description: "Add a subject to a family",
	}, s.handleCreateSubject)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "assign_subject",
		Description: "Assign a subject to a student",
	}, s.handleAssignSubject)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_metrics",
		Description: "List the template and custom metrics visible to a family",
	}, s.handleListMetrics)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_metric",
		Description: "Create a custom metric for a family",
	}, s.handleCreateMetric)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "student_metrics",
		Description: "Show which metrics are enabled for a student",
	}, s.handleStudentMetrics)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "configure_student_metric",
		Description: "Enable or disable a metric for a student; disabling removes its configuration",
	}, s.handleConfigureStudentMetric)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "configure_subject_metric",
		Description: "Enable or disable a metric for one student and subject",
	}, s.handleConfigureSubjectMetric)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "metrics_for_log",
		Description: "List the metrics that can be recorded on a student's log for a subject",
	}, s.handleMetricsForLog)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_daily_log",
		Description: "Record a daily log for a student and subject with metric values",
	}, s.handleCreateDailyLog)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_daily_log",
		Description: "Replace a daily log's date, notes and values",
	}, s.handleUpdateDailyLog)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_daily_log",
		Description: "Get a daily log with its values",
	}, s.handleGetDailyLog)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_daily_logs",
		Description: "List a student's daily logs, newest first, optionally for one subject",
	}, s.handleListDailyLogs)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_daily_log",
		Description: "Delete a daily log and its values",
	}, s.handleDeleteDailyLog)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "export_journal",
		Description: "Render a student's daily logs as a Markdown journal",
	}, s.handleExportJournal)
}

// Tool input/output types

type familyIDInput struct {
	FamilyID int64 `json:"family_id" jsonschema:"the family ID"`
}

type createFamilyInput struct {
	Name string `json:"name" jsonschema:"name of the family"`
}

type familiesOutput struct {
	Families []familyView `json:"families"`
}

type createStudentInput struct {
	FamilyID    int64  `json:"family_id" jsonschema:"the family ID"`
	Name        string `json:"name" jsonschema:"the student's name"`
	DateOfBirth string `json:"date_of_birth,omitempty" jsonschema:"date of birth as YYYY-MM-DD"`
	Notes       string `json:"notes,omitempty" jsonschema:"optional notes"`
}

type studentsOutput struct {
	Students []studentView `json:"students"`
}

type listSubjectsInput struct {
	FamilyID  int64 `json:"family_id,omitempty" jsonschema:"list every subject of this family"`
	StudentID int64 `json:"student_id,omitempty" jsonschema:"list only the subjects assigned to this student"`
}

type createSubjectInput struct {
	FamilyID    int64  `json:"family_id" jsonschema:"the family ID"`
	Name        string `json:"name" jsonschema:"name of the subject"`
	Description string `json:"description,omitempty" jsonschema:"optional description"`
}

type subjectsOutput struct {
	Subjects []subjectView `json:"subjects"`
}

type assignSubjectInput struct {
	StudentID int64 `json:"student_id" jsonschema:"the student ID"`
	SubjectID int64 `json:"subject_id" jsonschema:"the subject ID"`
}

type createMetricInput struct {
	FamilyID       int64    `json:"family_id" jsonschema:"the owning family ID"`
	Name           string   `json:"name" jsonschema:"name of the metric"`
	Kind           string   `json:"kind" jsonschema:"one of boolean, categorical, numeric"`
	Category       string   `json:"category,omitempty" jsonschema:"optional grouping label"`
	Description    string   `json:"description,omitempty" jsonschema:"optional description"`
	PossibleValues []string `json:"possible_values,omitempty" jsonschema:"allowed values for a categorical metric"`
	Min            *float64 `json:"min,omitempty" jsonschema:"lower bound for a numeric metric"`
	Max            *float64 `json:"max,omitempty" jsonschema:"upper bound for a numeric metric"`
	Unit           string   `json:"unit,omitempty" jsonschema:"unit label for a numeric metric"`
}

type metricsOutput struct {
	Metrics []metricView `json:"metrics"`
}

type studentMetricsInput struct {
	StudentID int64 `json:"student_id" jsonschema:"the student ID"`
	FamilyID  int64 `json:"family_id" jsonschema:"the student's family ID"`
	SubjectID int64 `json:"subject_id,omitempty" jsonschema:"show the per-subject configuration for this subject"`
}

type configsOutput struct {
	Configs []configView `json:"configs"`
}

type configureStudentMetricInput struct {
	StudentID            int64 `json:"student_id" jsonschema:"the student ID"`
	MetricID             int64 `json:"metric_id" jsonschema:"the metric ID"`
	Enabled              bool  `json:"enabled" jsonschema:"whether the metric is enabled"`
	AppliesToAllSubjects bool  `json:"applies_to_all_subjects,omitempty" jsonschema:"active for every subject unless overridden"`
}

type configureSubjectMetricInput struct {
	StudentID int64 `json:"student_id" jsonschema:"the student ID"`
	SubjectID int64 `json:"subject_id" jsonschema:"the subject ID"`
	MetricID  int64 `json:"metric_id" jsonschema:"the metric ID"`
	Enabled   bool  `json:"enabled" jsonschema:"whether the metric is enabled for this subject"`
}

type metricsForLogInput struct {
	StudentID int64 `json:"student_id" jsonschema:"the student ID"`
	SubjectID int64 `json:"subject_id" jsonschema:"the subject ID"`
	FamilyID  int64 `json:"family_id" jsonschema:"the student's family ID"`
}

type valueInput struct {
	MetricID    int64    `json:"metric_id" jsonschema:"the metric ID"`
	Boolean     *bool    `json:"boolean,omitempty" jsonschema:"value for a boolean metric"`
	Categorical *string  `json:"categorical,omitempty" jsonschema:"value for a categorical metric"`
	Numeric     *float64 `json:"numeric,omitempty" jsonschema:"value for a numeric metric"`
}

type dailyLogInput struct {
	StudentID int64        `json:"student_id,omitempty" jsonschema:"the student ID (create only)"`
	SubjectID int64        `json:"subject_id,omitempty" jsonschema:"the subject ID (create only)"`
	ID        int64        `json:"id,omitempty" jsonschema:"the log ID (update only)"`
	Date      string       `json:"date,omitempty" jsonschema:"date as YYYY-MM-DD, defaults to today"`
	Notes     string       `json:"notes,omitempty" jsonschema:"optional notes"`
	Values    []valueInput `json:"values,omitempty" jsonschema:"metric values; leave a value out to skip it"`
}

type logIDInput struct {
	ID int64 `json:"id" jsonschema:"the log ID"`
}

type listDailyLogsInput struct {
	StudentID int64 `json:"student_id" jsonschema:"the student ID"`
	SubjectID int64 `json:"subject_id,omitempty" jsonschema:"only logs for this subject"`
	Limit     int   `json:"limit,omitempty" jsonschema:"max results (default 20)"`
}

type logsOutput struct {
	Logs []logView `json:"logs"`
}

type exportJournalInput struct {
	StudentID int64  `json:"student_id" jsonschema:"the student ID"`
	Since     string `json:"since,omitempty" jsonschema:"only days on or after this date (YYYY-MM-DD)"`
}

type journalOutput struct {
	Markdown string `json:"markdown"`
}

// Tool handlers

func (s *Server) handleListFamilies(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, familiesOutput, error) {
	families, err := s.svc.ListFamilies(ctx)
	if err != nil {
		return nil, familiesOutput{}, s.toolErr(err)
	}
	return nil, familiesOutput{Families: viewFamilies(families)}, nil
}

func (s *Server) handleCreateFamily(ctx context.Context, req *mcp.CallToolRequest, input createFamilyInput) (*mcp.CallToolResult, resultOutput, error) {
	res, err := s.svc.CreateFamily(ctx, daybook.FamilyInput{Name: input.Name})
	if err != nil {
		return nil, resultOutput{}, s.toolErr(err)
	}
	return nil, fromResult(res), nil
}

func (s *Server) handleListStudents(ctx context.Context, req *mcp.CallToolRequest, input familyIDInput) (*mcp.CallToolResult, studentsOutput, error) {
	students, err := s.svc.ListStudents(ctx, input.FamilyID)
	if err != nil {
		return nil, studentsOutput{}, s.toolErr(err)
	}
	out := studentsOutput{Students: make([]studentView, 0, len(students))}
	for _, st := range students {
		out.Students = append(out.Students, viewStudent(st))
	}
	return nil, out, nil
}

func (s *Server) handleCreateStudent(ctx context.Context, req *mcp.CallToolRequest, input createStudentInput) (*mcp.CallToolResult, resultOutput, error) {
	in := daybook.StudentInput{Name: input.Name}
	if input.DateOfBirth != "" {
		dob, err := time.Parse(models.DateLayout, input.DateOfBirth)
		if err != nil {
			return nil, resultOutput{}, fmt.Errorf("invalid date_of_birth %q: use YYYY-MM-DD", input.DateOfBirth)
		}
		in.DateOfBirth = &dob
	}
	if input.Notes != "" {
		in.Notes = &input.Notes
	}

	res, err := s.svc.CreateStudent(ctx, input.FamilyID, in)
	if err != nil {
		return nil, resultOutput{}, s.toolErr(err)
	}
	return nil, fromResult(res), nil
}

func (s *Server) handleListSubjects(ctx context.Context, req *mcp.CallToolRequest, input listSubjectsInput) (*mcp.CallToolResult, subjectsOutput, error) {
	var (
		subjects []*models.Subject
		err      error
	)
	switch {
	case input.StudentID != 0:
		subjects, err = s.svc.SubjectsForStudent(ctx, input.StudentID)
	case input.FamilyID != 0:
		subjects, err = s.svc.ListSubjects(ctx, input.FamilyID)
	default:
		return nil, subjectsOutput{}, fmt.Errorf("family_id or student_id is required")
	}
	if err != nil {
		return nil, subjectsOutput{}, s.toolErr(err)
	}

	out := subjectsOutput{Subjects: make([]subjectView, 0, len(subjects))}
	for _, su := range subjects {
		out.Subjects = append(out.Subjects, viewSubject(su))
	}
	return nil, out, nil
}

func (s *Server) handleCreateSubject(ctx context.Context, req *mcp.CallToolRequest, input createSubjectInput) (*mcp.CallToolResult, resultOutput, error) {
	in := daybook.SubjectInput{Name: input.Name}
	if input.Description != "" {
		in.Description = &input.Description
	}
	res, err := s.svc.CreateSubject(ctx, input.FamilyID, in)
	if err != nil {
		return nil, resultOutput{}, s.toolErr(err)
	}
	return nil, fromResult(res), nil
}

func (s *Server) handleAssignSubject(ctx context.Context, req *mcp.CallToolRequest, input assignSubjectInput) (*mcp.CallToolResult, resultOutput, error) {
	res, err := s.svc.AssignSubject(ctx, input.StudentID, input.SubjectID)
	if err != nil {
		return nil, resultOutput{}, s.toolErr(err)
	}
	return nil, fromResult(res), nil
}

func (s *Server) handleListMetrics(ctx context.Context, req *mcp.CallToolRequest, input familyIDInput) (*mcp.CallToolResult, metricsOutput, error) {
	metrics, err := s.svc.ListVisibleMetrics(ctx, input.FamilyID)
	if err != nil {
		return nil, metricsOutput{}, s.toolErr(err)
	}
	return nil, metricsOutput{Metrics: viewMetrics(metrics)}, nil
}

func (s *Server) handleCreateMetric(ctx context.Context, req *mcp.CallToolRequest, input createMetricInput) (*mcp.CallToolResult, resultOutput, error) {
	in, err := metricInputFrom(input)
	if err != nil {
		return nil, resultOutput{}, s.toolErr(err)
	}
	res, err := s.svc.CreateMetric(ctx, input.FamilyID, in)
	if err != nil {
		return nil, resultOutput{}, s.toolErr(err)
	}
	return nil, fromResult(res), nil
}

func metricInputFrom(input createMetricInput) (daybook.MetricInput, error) {
	in := daybook.MetricInput{Name: input.Name, Kind: models.MetricKind(input.Kind)}
	if input.Category != "" {
		in.Category = &input.Category
	}
	if input.Description != "" {
		in.Description = &input.Description
	}
	if len(input.PossibleValues) > 0 {
		raw, err := models.EncodePossibleValues(input.PossibleValues)
		if err != nil {
			return in, err
		}
		in.PossibleValues = &raw
	}
	if input.Min != nil || input.Max != nil || input.Unit != "" {
		raw, err := models.EncodeNumericConfig(models.NumericConfig{Min: input.Min, Max: input.Max, Unit: input.Unit})
		if err != nil {
			return in, err
		}
		in.NumericConfig = &raw
	}
	return in, nil
}

func (s *Server) handleStudentMetrics(ctx context.Context, req *mcp.CallToolRequest, input studentMetricsInput) (*mcp.CallToolResult, configsOutput, error) {
	var (
		rows []daybook.MetricConfig
		err  error
	)
	if input.SubjectID != 0 {
		rows, err = s.svc.AvailableMetricsForStudentSubject(ctx, input.StudentID, input.SubjectID, input.FamilyID)
	} else {
		rows, err = s.svc.MetricsForStudent(ctx, input.StudentID, input.FamilyID)
	}
	if err != nil {
		return nil, configsOutput{}, s.toolErr(err)
	}
	return nil, configsOutput{Configs: viewConfigs(rows)}, nil
}

func (s *Server) handleConfigureStudentMetric(ctx context.Context, req *mcp.CallToolRequest, input configureStudentMetricInput) (*mcp.CallToolResult, resultOutput, error) {
	res, err := s.svc.UpdateStudentMetric(ctx, input.StudentID, daybook.StudentMetricSetting{
		MetricID:             input.MetricID,
		IsEnabled:            input.Enabled,
		AppliesToAllSubjects: input.AppliesToAllSubjects,
	})
	if err != nil {
		return nil, resultOutput{}, s.toolErr(err)
	}
	return nil, fromResult(res), nil
}

func (s *Server) handleConfigureSubjectMetric(ctx context.Context, req *mcp.CallToolRequest, input configureSubjectMetricInput) (*mcp.CallToolResult, resultOutput, error) {
	res, err := s.svc.SaveStudentSubjectMetricConfig(ctx, input.StudentID, input.SubjectID, []daybook.SubjectMetricSetting{
		{MetricID: input.MetricID, IsEnabled: input.Enabled},
	})
	if err != nil {
		return nil, resultOutput{}, s.toolErr(err)
	}
	return nil, fromResult(res), nil
}

func (s *Server) handleMetricsForLog(ctx context.Context, req *mcp.CallToolRequest, input metricsForLogInput) (*mcp.CallToolResult, metricsOutput, error) {
	metrics, err := s.svc.MetricsForDailyLog(ctx, input.StudentID, input.SubjectID, input.FamilyID)
	if err != nil {
		return nil, metricsOutput{}, s.toolErr(err)
	}
	return nil, metricsOutput{Metrics: viewMetrics(metrics)}, nil
}

func (s *Server) logInputFrom(input dailyLogInput) (daybook.DailyLogInput, error) {
	date, err := parseDate(input.Date, time.Now())
	if err != nil {
		return daybook.DailyLogInput{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", input.Date)
	}
	in := daybook.DailyLogInput{StudentID: input.StudentID, SubjectID: input.SubjectID, Date: date}
	if input.Notes != "" {
		in.Notes = &input.Notes
	}
	for _, v := range input.Values {
		in.Values = append(in.Values, models.MetricValueInput{
			MetricID:    v.MetricID,
			Boolean:     v.Boolean,
			Categorical: v.Categorical,
			Numeric:     v.Numeric,
		})
	}
	return in, nil
}

func (s *Server) handleCreateDailyLog(ctx context.Context, req *mcp.CallToolRequest, input dailyLogInput) (*mcp.CallToolResult, resultOutput, error) {
	in, err := s.logInputFrom(input)
	if err != nil {
		return nil, resultOutput{}, s.toolErr(err)
	}
	res, err := s.svc.CreateDailyLog(ctx, in)
	if err != nil {
		return nil, resultOutput{}, s.toolErr(err)
	}
	return nil, fromResult(res), nil
}

func (s *Server) handleUpdateDailyLog(ctx context.Context, req *mcp.CallToolRequest, input dailyLogInput) (*mcp.CallToolResult, resultOutput, error) {
	if input.ID == 0 {
		return nil, resultOutput{}, fmt.Errorf("id is required")
	}
	in, err := s.logInputFrom(input)
	if err != nil {
		return nil, resultOutput{}, s.toolErr(err)
	}
	res, err := s.svc.UpdateDailyLog(ctx, input.ID, in)
	if err != nil {
		return nil, resultOutput{}, s.toolErr(err)
	}
	return nil, fromResult(res), nil
}

func (s *Server) handleGetDailyLog(ctx context.Context, req *mcp.CallToolRequest, input logIDInput) (*mcp.CallToolResult, logView, error) {
	l, err := s.svc.GetDailyLog(ctx, input.ID)
	if err != nil {
		return nil, logView{}, s.toolErr(err)
	}
	return nil, viewLog(l), nil
}

func (s *Server) handleListDailyLogs(ctx context.Context, req *mcp.CallToolRequest, input listDailyLogsInput) (*mcp.CallToolResult, logsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	var (
		logs []*models.DailyLog
		err  error
	)
	if input.SubjectID != 0 {
		logs, err = s.svc.ListDailyLogsForStudentSubject(ctx, input.StudentID, input.SubjectID)
	} else {
		logs, err = s.svc.ListDailyLogsForStudent(ctx, input.StudentID)
	}
	if err != nil {
		return nil, logsOutput{}, s.toolErr(err)
	}
	if len(logs) > input.Limit {
		logs = logs[:input.Limit]
	}

	out := logsOutput{Logs: make([]logView, 0, len(logs))}
	for _, l := range logs {
		out.Logs = append(out.Logs, viewLog(l))
	}
	return nil, out, nil
}

func (s *Server) handleDeleteDailyLog(ctx context.Context, req *mcp.CallToolRequest, input logIDInput) (*mcp.CallToolResult, resultOutput, error) {
	res, err := s.svc.DeleteDailyLog(ctx, input.ID)
	if err != nil {
		return nil, resultOutput{}, s.toolErr(err)
	}
	return nil, fromResult(res), nil
}

func (s *Server) handleExportJournal(ctx context.Context, req *mcp.CallToolRequest, input exportJournalInput) (*mcp.CallToolResult, journalOutput, error) {
	var since *time.Time
	if input.Since != "" {
		t, err := time.Parse(models.DateLayout, input.Since)
		if err != nil {
			return nil, journalOutput{}, fmt.Errorf("invalid since %q: use YYYY-MM-DD", input.Since)
		}
		since = &t
	}
	md, err := s.svc.ExportJournal(ctx, input.StudentID, since)
	if err != nil {
		return nil, journalOutput{}, s.toolErr(err)
	}
	return nil, journalOutput{Markdown: md}, nil
}
