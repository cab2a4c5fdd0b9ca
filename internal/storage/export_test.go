// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON, YAML, and Markdown exports plus JSON import remapping.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/daybook/internal/models"
	"gopkg.in/yaml.v3"
)

// populate adds an assignment, configuration and one log with two values.
func populate(t *testing.T, fx *fixture) *models.DailyLog {
	t.Helper()
	ctx := context.Background()
	db := fx.db

	completed := fx.template(t, "Completed")

	if err := db.CreateStudentSubject(ctx, &models.StudentSubject{
		StudentID: fx.student.ID, SubjectID: fx.math.ID, CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("CreateStudentSubject failed: %v", err)
	}
	if err := db.CreateStudentMetric(ctx, models.NewStudentMetric(fx.student.ID, completed.ID, true)); err != nil {
		t.Fatalf("CreateStudentMetric failed: %v", err)
	}
	if err := db.CreateStudentMetric(ctx, models.NewStudentMetric(fx.student.ID, fx.metric.ID, false)); err != nil {
		t.Fatalf("CreateStudentMetric failed: %v", err)
	}
	if err := db.CreateStudentSubjectMetric(ctx,
		models.NewStudentSubjectMetric(fx.student.ID, fx.reading.ID, fx.metric.ID, true)); err != nil {
		t.Fatalf("CreateStudentSubjectMetric failed: %v", err)
	}

	l := models.NewDailyLog(fx.student.ID, fx.math.ID, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)).
		WithNotes("long division")
	if err := db.CreateDailyLog(ctx, l); err != nil {
		t.Fatalf("CreateDailyLog failed: %v", err)
	}
	for _, v := range []*models.DailyLogValue{
		models.NewDailyLogValue(l.ID, completed.ID, models.BoolValue(true)),
		models.NewDailyLogValue(l.ID, fx.metric.ID, models.NumericValue(25)),
	} {
		if err := db.AddDailyLogValue(ctx, v); err != nil {
			t.Fatalf("AddDailyLogValue failed: %v", err)
		}
	}
	return l
}

func exportJSON(t *testing.T, db *DB, familyID int64) ([]byte, error) {
	t.Helper()
	data, err := db.ExportFamily(context.Background(), familyID)
	if err != nil {
		return nil, err
	}
	return EncodeJSON(data)
}

func TestExportJSON(t *testing.T) {
	db := setupTestDB(t)
	fx := newFixture(t, db)
	populate(t, fx)

	data, err := exportJSON(t, db, fx.family.ID)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if export.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", export.Version)
	}
	if export.Tool != "daybook" {
		t.Errorf("Expected tool daybook, got %s", export.Tool)
	}
	if export.Family == nil || export.Family.Name != "Reed" {
		t.Errorf("Family = %v, want Reed", export.Family)
	}
	if len(export.Students) != 1 || len(export.Subjects) != 2 || len(export.Metrics) != 1 {
		t.Errorf("got %d students, %d subjects, %d metrics; want 1, 2, 1",
			len(export.Students), len(export.Subjects), len(export.Metrics))
	}
	if len(export.Assignments) != 1 {
		t.Errorf("got %d assignments, want 1", len(export.Assignments))
	}
	if len(export.StudentMetrics) != 2 {
		t.Errorf("got %d student metrics, want 2", len(export.StudentMetrics))
	}
	if len(export.Overrides) != 1 {
		t.Errorf("got %d overrides, want 1", len(export.Overrides))
	}
	if len(export.DailyLogs) != 1 || len(export.DailyLogs[0].Values) != 2 {
		t.Fatalf("expected one log with two values, got %+v", export.DailyLogs)
	}
}

func TestExportYAML(t *testing.T) {
	db := setupTestDB(t)
	fx := newFixture(t, db)
	populate(t, fx)

	export, err := db.ExportFamily(context.Background(), fx.family.ID)
	if err != nil {
		t.Fatalf("ExportFamily failed: %v", err)
	}
	data, err := EncodeYAML(export)
	if err != nil {
		t.Fatalf("EncodeYAML failed: %v", err)
	}

	var parsed map[string]interface{}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}

	if parsed["family"] != "Reed" {
		t.Errorf("family = %v, want Reed", parsed["family"])
	}
	out := string(data)
	for _, want := range []string{"Ada", "long division", "Completed: \"yes\"", "Reading minutes: \"25\""} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML missing %q:\n%s", want, out)
		}
	}
}

func TestExportJournal(t *testing.T) {
	db := setupTestDB(t)
	fx := newFixture(t, db)
	populate(t, fx)

	md, err := db.ExportJournal(context.Background(), fx.student.ID, nil)
	if err != nil {
		t.Fatalf("ExportJournal failed: %v", err)
	}

	for _, want := range []string{"# Ada - Daybook Journal", "## 2024-01-15", "### Math", "long division", "| Completed | yes |"} {
		if !strings.Contains(md, want) {
			t.Errorf("journal missing %q:\n%s", want, md)
		}
	}

	since := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	md, err = db.ExportJournal(context.Background(), fx.student.ID, &since)
	if err != nil {
		t.Fatalf("ExportJournal with since failed: %v", err)
	}
	if !strings.Contains(md, "_No entries._") {
		t.Errorf("expected empty journal after since filter:\n%s", md)
	}
}

func TestImportJSONRemapsIDs(t *testing.T) {
	src := setupTestDB(t)
	fx := newFixture(t, src)
	populate(t, fx)
	ctx := context.Background()

	raw, err := exportJSON(t, src, fx.family.ID)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	dst := setupTestDB(t)
	// Shift IDs in the destination so a naive copy would point at the wrong rows.
	decoy := models.NewFamily("Decoy")
	if err := dst.CreateFamily(ctx, decoy); err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}
	if err := dst.CreateStudent(ctx, models.NewStudent(decoy.ID, "Decoy")); err != nil {
		t.Fatalf("CreateStudent failed: %v", err)
	}

	target := models.NewFamily("Imported")
	if err := dst.CreateFamily(ctx, target); err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}

	decoded, err := DecodeJSON(raw)
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	stats, err := dst.ImportFamily(ctx, target.ID, decoded)
	if err != nil {
		t.Fatalf("ImportFamily failed: %v", err)
	}
	if stats.Students != 1 || stats.Subjects != 2 || stats.Metrics != 1 || stats.DailyLogs != 1 || stats.Values != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", stats.Skipped)
	}

	students, err := dst.ListStudents(ctx, target.ID)
	if err != nil || len(students) != 1 {
		t.Fatalf("ListStudents = %v, %v", students, err)
	}
	logs, err := dst.ListDailyLogsForStudent(ctx, students[0].ID)
	if err != nil || len(logs) != 1 {
		t.Fatalf("ListDailyLogsForStudent = %v, %v", logs, err)
	}
	got, err := dst.GetDailyLog(ctx, logs[0].ID)
	if err != nil {
		t.Fatalf("GetDailyLog failed: %v", err)
	}
	if got.SubjectName != "Math" || got.Notes == nil || *got.Notes != "long division" {
		t.Errorf("imported log = %+v", got)
	}

	completed, err := dst.FindTemplateByName(ctx, "Completed")
	if err != nil {
		t.Fatalf("FindTemplateByName failed: %v", err)
	}
	if v, ok := got.Value(completed.ID); !ok || v.String() != "yes" {
		t.Errorf("template value not remapped: %v, %v", v, ok)
	}

	// A second import into the now populated family is refused.
	if _, err := dst.ImportFamily(ctx, target.ID, decoded); !errors.Is(err, ErrFamilyNotEmpty) {
		t.Errorf("second import: got %v, want ErrFamilyNotEmpty", err)
	}
}

func TestDecodeJSONRejectsGarbage(t *testing.T) {
	if _, err := DecodeJSON([]byte("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestEncodeYAMLNeedsFamily(t *testing.T) {
	if _, err := EncodeYAML(&ExportData{}); err == nil {
		t.Error("expected error for export without a family")
	}
}
