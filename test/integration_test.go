// ABOUTME: Integration tests for the daybook CLI.
// ABOUTME: Builds the binary and runs a full family-to-journal workflow.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}

	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	binary := filepath.Join(t.TempDir(), "daybook")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/daybook")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}

	// Use temp database and keep user config out of the way
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	run := func(args ...string) (string, error) {
		fullArgs := append([]string{"--db", dbPath}, args...)
		cmd := exec.Command(binary, fullArgs...)
		cmd.Dir = tmpDir
		cmd.Env = append(os.Environ(),
			"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
			"DAYBOOK_LOG_MODE=prod",
		)
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	mustContain := func(output, want string) {
		t.Helper()
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output, got: %s", want, output)
		}
	}

	output, err := run("family", "add", "Reed Family")
	if err != nil {
		t.Fatalf("Failed to add family: %v\n%s", err, output)
	}
	mustContain(output, "Family created successfully!")

	output, err = run("student", "add", "Ada", "--dob", "2015-06-03")
	if err != nil {
		t.Fatalf("Failed to add student: %v\n%s", err, output)
	}
	mustContain(output, "Student created successfully!")

	output, err = run("subject", "add", "Math")
	if err != nil {
		t.Fatalf("Failed to add subject: %v\n%s", err, output)
	}

	// Template metrics are seeded on first use
	output, err = run("metric", "list", "--templates")
	if err != nil {
		t.Fatalf("Failed to list metrics: %v\n%s", err, output)
	}
	mustContain(output, "Minutes spent")

	output, err = run("log", "add", "1", "1", "--date", "2025-09-01",
		"--value", "Minutes spent=45", "--notes", "Long division")
	if err != nil {
		t.Fatalf("Failed to add log: %v\n%s", err, output)
	}
	mustContain(output, "Daily log created successfully!")

	output, err = run("log", "add", "1", "1", "--date", "2025-09-01")
	if err == nil {
		t.Fatalf("Expected duplicate log to fail, got: %s", output)
	}
	mustContain(output, "A daily log already exists for this student, subject, and date")

	output, err = run("log", "list", "1")
	if err != nil {
		t.Fatalf("Failed to list logs: %v\n%s", err, output)
	}
	mustContain(output, "2025-09-01")
	mustContain(output, "Minutes spent=45")

	output, err = run("export", "markdown", "--student", "1")
	if err != nil {
		t.Fatalf("Failed to export journal: %v\n%s", err, output)
	}
	mustContain(output, "# Ada - Daybook Journal")
	mustContain(output, "Long division")
}
