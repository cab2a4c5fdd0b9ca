// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Tests parsing helpers, command wiring and end-to-end flows against SQLite.
package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/harperreed/daybook/internal/config"
	"github.com/harperreed/daybook/internal/daybook"
	"github.com/harperreed/daybook/internal/logging"
	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/storage"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "date only",
			input:   "2025-01-31",
			wantErr: false,
		},
		{
			name:    "date and time with space",
			input:   "2025-01-31 08:30",
			wantErr: false,
		},
		{
			name:    "date and time with T",
			input:   "2025-01-31T08:30",
			wantErr: false,
		},
		{
			name:    "RFC3339",
			input:   "2025-01-31T08:30:00Z",
			wantErr: false,
		},
		{
			name:    "invalid format",
			input:   "31-01-2025",
			wantErr: true,
		},
		{
			name:    "invalid random string",
			input:   "not a date",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseDate(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("parseDate(%q) expected error, got nil", tt.input)
				}
				return
			}

			if err != nil {
				t.Errorf("parseDate(%q) unexpected error: %v", tt.input, err)
				return
			}

			if result.Hour() != 0 || result.Minute() != 0 {
				t.Errorf("parseDate(%q) = %v, want midnight", tt.input, result)
			}
		})
	}
}

func TestParseDateValues(t *testing.T) {
	result, err := parseDate("2025-06-15 18:45")
	if err != nil {
		t.Fatalf("parseDate failed: %v", err)
	}

	if result.Year() != 2025 || result.Month() != time.June || result.Day() != 15 {
		t.Errorf("parseDate returned wrong date: got %v", result)
	}
}

func TestDateOrToday(t *testing.T) {
	got, err := dateOrToday("")
	if err != nil {
		t.Fatalf("dateOrToday failed: %v", err)
	}
	if !got.Equal(models.NormalizeDate(time.Now())) {
		t.Errorf("dateOrToday(\"\") = %v, want today", got)
	}

	if _, err := dateOrToday("yesterday"); err == nil {
		t.Error("Expected error for unparseable date")
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID(" 42 ", "student"); err != nil || id != 42 {
		t.Errorf("parseID(\" 42 \") = %d, %v", id, err)
	}
	for _, bad := range []string{"", "0", "-3", "abc"} {
		if _, err := parseID(bad, "student"); err == nil {
			t.Errorf("parseID(%q) expected error", bad)
		}
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"yes", true, false},
		{"Y", true, false},
		{"on", true, false},
		{"true", true, false},
		{"no", false, false},
		{"off", false, false},
		{"0", false, false},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseBool(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseBool(%q) expected error", tt.input)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("parseBool(%q) = %v, %v; want %v", tt.input, got, err, tt.want)
			}
		})
	}
}

func testMetrics() []*models.Metric {
	completed := models.NewTemplateMetric("Completed", models.KindBoolean)
	completed.ID = 1
	focus := models.NewTemplateMetric("Focus", models.KindCategorical).
		WithPossibleValues(`["Low","Medium","High"]`)
	focus.ID = 2
	minutes := models.NewTemplateMetric("Minutes spent", models.KindNumeric).
		WithNumericConfig(`{"min":0,"max":600,"unit":"minutes"}`)
	minutes.ID = 3
	return []*models.Metric{completed, focus, minutes}
}

func TestParseValueFlags(t *testing.T) {
	inputs, err := parseValueFlags(testMetrics(), []string{
		"completed=yes",
		"2=High",
		"Minutes spent=45.5",
	})
	if err != nil {
		t.Fatalf("parseValueFlags failed: %v", err)
	}
	if len(inputs) != 3 {
		t.Fatalf("Expected 3 inputs, got %d", len(inputs))
	}

	if inputs[0].MetricID != 1 || inputs[0].Boolean == nil || !*inputs[0].Boolean {
		t.Errorf("boolean input wrong: %+v", inputs[0])
	}
	if inputs[1].MetricID != 2 || inputs[1].Categorical == nil || *inputs[1].Categorical != "High" {
		t.Errorf("categorical input wrong: %+v", inputs[1])
	}
	if inputs[2].MetricID != 3 || inputs[2].Numeric == nil || *inputs[2].Numeric != 45.5 {
		t.Errorf("numeric input wrong: %+v", inputs[2])
	}
}

func TestParseValueFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		pair string
	}{
		{"missing equals", "Completed"},
		{"unknown metric", "Spelling=yes"},
		{"bad boolean", "Completed=perhaps"},
		{"bad number", "Minutes spent=lots"},
		{"not a number", "Minutes spent=NaN"},
		{"infinite", "Minutes spent=+Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseValueFlags(testMetrics(), []string{tt.pair}); err == nil {
				t.Errorf("parseValueFlags(%q) expected error", tt.pair)
			}
		})
	}
}

func TestMergeValues(t *testing.T) {
	stored := []models.DailyLogValue{
		{MetricID: 1, Value: models.BoolValue(true)},
		{MetricID: 3, Value: models.NumericValue(30)},
	}
	fifty := 50.0
	merged := mergeValues(stored, []models.MetricValueInput{{MetricID: 3, Numeric: &fifty}})

	if len(merged) != 2 {
		t.Fatalf("Expected 2 values, got %d", len(merged))
	}
	if merged[0].MetricID != 1 || merged[0].Boolean == nil || !*merged[0].Boolean {
		t.Errorf("stored value not kept: %+v", merged[0])
	}
	if merged[1].MetricID != 3 || *merged[1].Numeric != 50 {
		t.Errorf("changed value not applied: %+v", merged[1])
	}
}

func TestMetricDetails(t *testing.T) {
	metrics := testMetrics()
	if got := metricDetails(metrics[0]); got != "yes/no" {
		t.Errorf("boolean details = %q", got)
	}
	if got := metricDetails(metrics[1]); got != "Low | Medium | High" {
		t.Errorf("categorical details = %q", got)
	}
	if got := metricDetails(metrics[2]); got != "min 0, max 600, minutes" {
		t.Errorf("numeric details = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{
			name:   "short string no truncation",
			input:  "hello",
			maxLen: 10,
			want:   "hello",
		},
		{
			name:   "exact length",
			input:  "hello",
			maxLen: 5,
			want:   "hello",
		},
		{
			name:   "needs truncation",
			input:  "hello world this is a long string",
			maxLen: 10,
			want:   "hello w...",
		},
		{
			name:   "empty string",
			input:  "",
			maxLen: 10,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		length int
		want   string
	}{
		{
			name:   "needs padding",
			input:  "hi",
			length: 5,
			want:   "hi   ",
		},
		{
			name:   "longer than length",
			input:  "hello world",
			length: 5,
			want:   "hello world",
		},
		{
			name:   "empty string",
			input:  "",
			length: 3,
			want:   "   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := padRight(tt.input, tt.length)
			if got != tt.want {
				t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
			}
		})
	}
}

func TestRootCmdFlags(t *testing.T) {
	if rootCmd.Use != "daybook" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "daybook")
	}
	for _, name := range []string{"db", "family"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent --%s flag on root command", name)
		}
	}
}

func TestCommandGroupsHaveSubcommands(t *testing.T) {
	groups := map[*cobra.Command][]string{
		familyCmd:  {"add", "list", "rename", "delete"},
		studentCmd: {"add", "list", "show", "update", "delete", "assign", "unassign"},
		subjectCmd: {"add", "list", "update", "delete"},
		metricCmd:  {"add", "list", "show", "update", "delete"},
		configCmd:  {"show", "enable", "disable", "subject", "set"},
		logCmd:     {"add", "update", "show", "list", "delete", "metrics"},
	}

	for parent, expected := range groups {
		names := make(map[string]bool)
		for _, c := range parent.Commands() {
			names[c.Name()] = true
		}
		for _, want := range expected {
			if !names[want] {
				t.Errorf("Expected %s subcommand %q not found", parent.Name(), want)
			}
		}
	}
}

func TestLogCmdFlags(t *testing.T) {
	for _, name := range []string{"date", "notes", "value"} {
		if logAddCmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected --%s flag on log add command", name)
		}
	}

	limitFlag := logListCmd.Flags().Lookup("limit")
	if limitFlag == nil {
		t.Fatal("Expected --limit flag on log list command")
	}
	if limitFlag.DefValue != "20" {
		t.Errorf("Expected default limit 20, got %s", limitFlag.DefValue)
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	expected := map[string]bool{"json": false, "yaml": false, "markdown": false}
	for _, arg := range exportCmd.ValidArgs {
		if _, ok := expected[arg]; ok {
			expected[arg] = true
		}
	}
	for arg, found := range expected {
		if !found {
			t.Errorf("Expected valid arg %q for exportCmd", arg)
		}
	}
}

func TestTopLevelCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"family", "student", "subject", "metric", "config", "log", "export", "import", "migrate", "mcp", "settings"} {
		if !names[want] {
			t.Errorf("Expected %s command to be registered", want)
		}
	}
}

// setupTestCLI points the CLI at a fresh data directory and returns a
// service over the same database for assertions.
func setupTestCLI(t *testing.T) *daybook.Service {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("DAYBOOK_DATA_DIR", "")
	t.Setenv("DAYBOOK_LOG_MODE", "")

	testDB, err := storage.Open(filepath.Join(tmpDir, "daybook", "daybook.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if db != nil {
			db.Close()
			db = nil
		}
		testDB.Close()
	})

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	return daybook.New(testDB, logging.Nop())
}

// resetFlags restores every flag to its default so one run cannot leak into
// the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace([]string{})
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI with args. The database is closed afterwards even
// when the command fails and PersistentPostRunE is skipped.
func run(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if db != nil {
		db.Close()
		db = nil
	}
	return err
}

func mustRun(t *testing.T, args ...string) {
	t.Helper()
	if err := run(t, args...); err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
}

func templateID(t *testing.T, s *daybook.Service, name string) int64 {
	t.Helper()
	templates, err := s.ListTemplates(context.Background())
	if err != nil {
		t.Fatalf("ListTemplates failed: %v", err)
	}
	for _, m := range templates {
		if m.Name == name {
			return m.ID
		}
	}
	t.Fatalf("template %q not found", name)
	return 0
}

func TestFamilyStudentSubjectFlow(t *testing.T) {
	s := setupTestCLI(t)
	ctx := context.Background()

	mustRun(t, "family", "add", "Reed Family")
	mustRun(t, "student", "add", "Ada", "--dob", "2015-06-03", "--notes", "Loves maps")
	mustRun(t, "subject", "add", "Math", "--description", "Singapore 4A")
	mustRun(t, "student", "assign", "1", "1")

	families, err := s.ListFamilies(ctx)
	if err != nil || len(families) != 1 {
		t.Fatalf("Expected 1 family, got %d (%v)", len(families), err)
	}
	students, err := s.ListStudents(ctx, families[0].ID)
	if err != nil || len(students) != 1 {
		t.Fatalf("Expected 1 student, got %d (%v)", len(students), err)
	}
	if students[0].DateOfBirth == nil || students[0].DateOfBirth.Format(models.DateLayout) != "2015-06-03" {
		t.Errorf("date of birth not stored: %v", students[0].DateOfBirth)
	}

	has, err := s.StudentHasSubject(ctx, students[0].ID, 1)
	if err != nil || !has {
		t.Errorf("Expected subject to be assigned (%v)", err)
	}

	if err := run(t, "student", "assign", "1", "1"); err == nil {
		t.Error("Expected error assigning the same subject twice")
	}

	// Update keeps fields that were not given
	mustRun(t, "student", "update", "1", "--name", "Ada L.")
	st, err := s.GetStudent(ctx, 1)
	if err != nil {
		t.Fatalf("GetStudent failed: %v", err)
	}
	if st.Name != "Ada L." || st.Notes == nil || *st.Notes != "Loves maps" {
		t.Errorf("update changed the wrong fields: %+v", st)
	}

	mustRun(t, "student", "delete", "1")
	if _, err := s.GetStudent(ctx, 1); err == nil {
		t.Error("Expected student to be deleted")
	}
}

func TestCurrentFamilyNeedsChoice(t *testing.T) {
	s := setupTestCLI(t)

	if err := run(t, "student", "add", "Ada"); err == nil {
		t.Error("Expected error with no families")
	}

	mustRun(t, "family", "add", "Reed Family")
	mustRun(t, "family", "add", "Lovelace Family")

	if err := run(t, "student", "add", "Ada"); err == nil {
		t.Error("Expected error choosing between two families")
	}
	mustRun(t, "student", "add", "Ada", "--family", "2")

	students, err := s.ListStudents(context.Background(), 2)
	if err != nil || len(students) != 1 {
		t.Errorf("Expected student in family 2, got %d (%v)", len(students), err)
	}
	if err := run(t, "student", "add", "Bob", "--family", "9"); err == nil {
		t.Error("Expected error for unknown family")
	}
}

func TestMetricAddAndUpdate(t *testing.T) {
	s := setupTestCLI(t)
	ctx := context.Background()

	mustRun(t, "family", "add", "Reed Family")
	mustRun(t, "metric", "add", "Chapters read", "--kind", "numeric", "--min", "0", "--unit", "chapters")

	custom, err := s.ListCustomMetrics(ctx, 1)
	if err != nil || len(custom) != 1 {
		t.Fatalf("Expected 1 custom metric, got %d (%v)", len(custom), err)
	}
	cfg, ok := custom[0].NumericBounds()
	if !ok || cfg.Min == nil || *cfg.Min != 0 || cfg.Max != nil || cfg.Unit != "chapters" {
		t.Errorf("numeric config wrong: %+v", cfg)
	}

	id := custom[0].ID
	mustRun(t, "metric", "update", formatID(id), "--max", "20")
	m, err := s.GetMetric(ctx, id)
	if err != nil {
		t.Fatalf("GetMetric failed: %v", err)
	}
	cfg, _ = m.NumericBounds()
	if cfg.Max == nil || *cfg.Max != 20 || cfg.Min == nil || cfg.Unit != "chapters" {
		t.Errorf("update lost existing bounds: %+v", cfg)
	}

	if err := run(t, "metric", "add", "Mystery"); err == nil {
		t.Error("Expected error without --kind")
	}
	if err := run(t, "metric", "delete", formatID(templateID(t, s, "Focus"))); err == nil {
		t.Error("Expected error deleting a template metric")
	}

	mustRun(t, "metric", "delete", formatID(id))
	if _, err := s.GetMetric(ctx, id); err == nil {
		t.Error("Expected custom metric to be deleted")
	}
}

func TestLogFlow(t *testing.T) {
	s := setupTestCLI(t)
	ctx := context.Background()

	mustRun(t, "family", "add", "Reed Family")
	mustRun(t, "student", "add", "Ada")
	mustRun(t, "subject", "add", "Math")

	minutes := templateID(t, s, "Minutes spent")
	mustRun(t, "config", "enable", "1", formatID(minutes))

	metrics, err := s.AvailableMetrics(ctx, 1, 1, 1)
	if err != nil || len(metrics) != 1 || metrics[0].ID != minutes {
		t.Fatalf("Expected Minutes spent to apply, got %v (%v)", metrics, err)
	}

	mustRun(t, "log", "add", "1", "1", "--date", "2025-09-01",
		"--value", "Minutes spent=45", "--value", "Focus=High", "--notes", "Fractions")

	date := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	l, err := s.FindDailyLog(ctx, 1, 1, date)
	if err != nil {
		t.Fatalf("FindDailyLog failed: %v", err)
	}
	if v, ok := l.Value(minutes); !ok || v.String() != "45" {
		t.Errorf("minutes value = %v, %v", v, ok)
	}
	if len(l.Values) != 2 {
		t.Errorf("Expected 2 values, got %d", len(l.Values))
	}

	if err := run(t, "log", "add", "1", "1", "--date", "2025-09-01"); err == nil {
		t.Error("Expected conflict for a second log on the same day")
	}
	if err := run(t, "log", "add", "1", "1", "--date", "2025-09-02", "--value", "Minutes spent=900"); err == nil {
		t.Error("Expected error for a value above the maximum")
	}

	mustRun(t, "log", "update", formatID(l.ID), "--value", "Minutes spent=50")
	l, err = s.GetDailyLog(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetDailyLog failed: %v", err)
	}
	if v, _ := l.Value(minutes); v.String() != "50" {
		t.Errorf("minutes after update = %v", v)
	}
	if len(l.Values) != 2 || l.Notes == nil || *l.Notes != "Fractions" {
		t.Errorf("update dropped other fields: %+v", l)
	}

	mustRun(t, "log", "list", "1")
	mustRun(t, "log", "show", formatID(l.ID))

	mustRun(t, "log", "delete", formatID(l.ID))
	if _, err := s.GetDailyLog(ctx, l.ID); err == nil {
		t.Error("Expected log to be deleted")
	}
}

func TestConfigSubjectOverride(t *testing.T) {
	s := setupTestCLI(t)
	ctx := context.Background()

	mustRun(t, "family", "add", "Reed Family")
	mustRun(t, "student", "add", "Ada")
	mustRun(t, "subject", "add", "Math")
	mustRun(t, "subject", "add", "Reading")

	focus := templateID(t, s, "Focus")
	mustRun(t, "config", "enable", "1", formatID(focus))
	mustRun(t, "config", "set", "1", "1", formatID(focus), "off")

	math, err := s.AvailableMetrics(ctx, 1, 1, 1)
	if err != nil {
		t.Fatalf("AvailableMetrics failed: %v", err)
	}
	if len(math) != 0 {
		t.Errorf("Expected no metrics for Math, got %d", len(math))
	}
	reading, err := s.AvailableMetrics(ctx, 1, 2, 1)
	if err != nil || len(reading) != 1 {
		t.Errorf("Expected Focus for Reading, got %d (%v)", len(reading), err)
	}

	mustRun(t, "config", "disable", "1", formatID(focus))
	reading, _ = s.AvailableMetrics(ctx, 1, 2, 1)
	if len(reading) != 0 {
		t.Errorf("Expected no metrics after disable, got %d", len(reading))
	}

	if err := run(t, "config", "set", "1", "1", formatID(focus), "sometimes"); err == nil {
		t.Error("Expected error for an invalid on/off setting")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s := setupTestCLI(t)
	ctx := context.Background()

	mustRun(t, "family", "add", "Reed Family")
	mustRun(t, "student", "add", "Ada")
	mustRun(t, "subject", "add", "Math")
	mustRun(t, "log", "add", "1", "1", "--date", "2025-09-01", "--notes", "Fractions")

	out := filepath.Join(t.TempDir(), "backup.json")
	mustRun(t, "export", "json", "-o", out)
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("export file missing: %v", err)
	}

	yamlOut := filepath.Join(t.TempDir(), "backup.yaml")
	mustRun(t, "export", "yaml", "-o", yamlOut)

	mdOut := filepath.Join(t.TempDir(), "journal.md")
	mustRun(t, "export", "markdown", "-s", "1", "-o", mdOut)
	md, err := os.ReadFile(mdOut)
	if err != nil || !bytes.Contains(md, []byte("Fractions")) {
		t.Errorf("journal missing notes (%v)", err)
	}

	if err := run(t, "export", "markdown"); err == nil {
		t.Error("Expected error for markdown export without --student")
	}

	// Importing into the populated family is refused
	if err := run(t, "import", out, "--family", "1"); err == nil {
		t.Error("Expected error importing into a family with data")
	}

	mustRun(t, "import", out, "--create")
	families, err := s.ListFamilies(ctx)
	if err != nil || len(families) != 2 {
		t.Fatalf("Expected 2 families after import, got %d (%v)", len(families), err)
	}
	var imported int64
	for _, f := range families {
		if f.ID != 1 {
			imported = f.ID
		}
	}
	students, err := s.ListStudents(ctx, imported)
	if err != nil || len(students) != 1 || students[0].Name != "Ada" {
		t.Fatalf("imported students wrong: %v (%v)", students, err)
	}
	logs, err := s.ListDailyLogsForStudent(ctx, students[0].ID)
	if err != nil || len(logs) != 1 {
		t.Errorf("Expected 1 imported log, got %d (%v)", len(logs), err)
	}
}

func TestImportCreateCleansUpOnFailure(t *testing.T) {
	s := setupTestCLI(t)
	ctx := context.Background()

	mustRun(t, "family", "add", "Reed Family")
	mustRun(t, "student", "add", "Ada")
	mustRun(t, "subject", "add", "Math")
	mustRun(t, "log", "add", "1", "1", "--date", "2025-09-01")

	export, err := s.ExportFamily(ctx, 1)
	if err != nil {
		t.Fatalf("ExportFamily failed: %v", err)
	}
	dup := *export.DailyLogs[0]
	dup.ID += 100
	export.DailyLogs = append(export.DailyLogs, &dup)
	raw, err := storage.EncodeJSON(export)
	if err != nil {
		t.Fatalf("EncodeJSON failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "dup.json")
	if err := os.WriteFile(path, raw, 0600); err != nil {
		t.Fatalf("write export: %v", err)
	}

	err = run(t, "import", path, "--create")
	if err == nil || err.Error() != "Import data contains duplicate records" {
		t.Fatalf("import error = %v", err)
	}
	families, err := s.ListFamilies(ctx)
	if err != nil || len(families) != 1 {
		t.Errorf("Expected only the original family after a failed import, got %d (%v)", len(families), err)
	}
}

func TestMigrateFromAnotherDatabase(t *testing.T) {
	s := setupTestCLI(t)
	ctx := context.Background()

	srcPath := filepath.Join(t.TempDir(), "old.db")
	src, err := storage.Open(srcPath)
	if err != nil {
		t.Fatalf("Failed to open source: %v", err)
	}
	old := daybook.New(src, logging.Nop())
	if _, err := old.SeedTemplates(ctx); err != nil {
		t.Fatalf("SeedTemplates failed: %v", err)
	}
	fam, err := old.CreateFamily(ctx, daybook.FamilyInput{Name: "Reed Family"})
	if err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}
	if _, err := old.CreateStudent(ctx, fam.ID, daybook.StudentInput{Name: "Ada"}); err != nil {
		t.Fatalf("CreateStudent failed: %v", err)
	}
	src.Close()

	mustRun(t, "migrate", "--from", srcPath, "--dry-run")
	if families, _ := s.ListFamilies(ctx); len(families) != 0 {
		t.Fatalf("dry run wrote %d families", len(families))
	}

	mustRun(t, "migrate", "--from", srcPath)
	families, err := s.ListFamilies(ctx)
	if err != nil || len(families) != 1 || families[0].Name != "Reed Family" {
		t.Fatalf("migrated families wrong: %v (%v)", families, err)
	}
	students, err := s.ListStudents(ctx, families[0].ID)
	if err != nil || len(students) != 1 {
		t.Errorf("Expected 1 migrated student, got %d (%v)", len(students), err)
	}

	if err := run(t, "migrate", "--from", srcPath); err == nil {
		t.Error("Expected error migrating into a database that has families")
	}
}

func TestDBFlagOverridesDataDir(t *testing.T) {
	setupTestCLI(t)

	path := filepath.Join(t.TempDir(), "elsewhere", "daybook.db")
	mustRun(t, "--db", path, "family", "add", "Reed Family")

	other, err := storage.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer other.Close()
	families, err := other.ListFamilies(context.Background())
	if err != nil || len(families) != 1 {
		t.Errorf("Expected family in --db database, got %d (%v)", len(families), err)
	}
}

func TestSettingsSavesConfig(t *testing.T) {
	setupTestCLI(t)

	dataDir := filepath.Join(t.TempDir(), "school")
	mustRun(t, "settings", "--data-dir", dataDir, "--log-mode", "PROD")

	cfg, err := config.LoadFile()
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.DataDir != dataDir || cfg.LogMode != "prod" {
		t.Errorf("saved config = %+v", cfg)
	}

	mustRun(t, "family", "add", "Reed Family")
	if _, err := os.Stat(filepath.Join(dataDir, "daybook.db")); err != nil {
		t.Errorf("Expected database in the configured data dir: %v", err)
	}

	if err := run(t, "settings", "--log-mode", "loud"); err == nil {
		t.Error("Expected error for unknown log mode")
	}
	mustRun(t, "settings")
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
