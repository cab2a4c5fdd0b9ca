// ABOUTME: Family export, import and the Markdown journal.
// ABOUTME: Thin wrappers that map store errors into the daybook taxonomy.
package daybook

import (
	"context"
	"errors"
	"time"

	"github.com/harperreed/daybook/internal/storage"
)

// ExportFamily returns everything a family owns.
func (s *Service) ExportFamily(ctx context.Context, familyID int64) (*storage.ExportData, error) {
	data, err := s.repo.ExportFamily(ctx, familyID)
	if err != nil {
		return nil, s.fail("ExportFamily", err, msgFamilyNotFound, "")
	}
	return data, nil
}

// ImportFamily recreates an export inside an empty family with fresh IDs.
func (s *Service) ImportFamily(ctx context.Context, familyID int64, data *storage.ExportData) (*storage.ImportStats, error) {
	const op = "ImportFamily"
	if data == nil {
		return nil, invalidInput(op, "Import data is required")
	}
	if _, err := lookup(ctx, s, op, msgFamilyNotFound, s.repo.GetFamily, familyID); err != nil {
		return nil, err
	}

	stats, err := s.repo.ImportFamily(ctx, familyID, data)
	if errors.Is(err, storage.ErrFamilyNotEmpty) {
		return nil, conflict(op, "Family already has data; import requires an empty family")
	}
	if err != nil {
		return nil, s.fail(op, err, "", "Import data contains duplicate records")
	}
	s.log.Info("family imported",
		"family_id", familyID, "students", stats.Students, "subjects", stats.Subjects,
		"daily_logs", stats.DailyLogs, "skipped", stats.Skipped)
	if stats.Skipped > 0 {
		s.log.Warn("import skipped records", "family_id", familyID, "skipped", stats.Skipped)
	}
	return stats, nil
}

// ExportJournal renders a student's logs as Markdown. since, when set, drops
// earlier days.
func (s *Service) ExportJournal(ctx context.Context, studentID int64, since *time.Time) (string, error) {
	md, err := s.repo.ExportJournal(ctx, studentID, since)
	if err != nil {
		return "", s.fail("ExportJournal", err, msgStudentNotFound, "")
	}
	return md, nil
}
