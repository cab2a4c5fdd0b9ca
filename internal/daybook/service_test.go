// ABOUTME: Shared test helpers for the daybook service.
// ABOUTME: Each test gets a seeded SQLite database in a temp directory.
package daybook

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := New(db, nil)
	_, err = svc.SeedTemplates(context.Background())
	require.NoError(t, err)
	return svc
}

// household is a family with one student and two subjects.
type household struct {
	familyID  int64
	studentID int64
	mathID    int64
	readingID int64
}

func newHousehold(t *testing.T, svc *Service) household {
	t.Helper()
	ctx := context.Background()

	f, err := svc.CreateFamily(ctx, FamilyInput{Name: "Reed"})
	require.NoError(t, err)
	st, err := svc.CreateStudent(ctx, f.ID, StudentInput{Name: "Ada"})
	require.NoError(t, err)
	math, err := svc.CreateSubject(ctx, f.ID, SubjectInput{Name: "Math"})
	require.NoError(t, err)
	reading, err := svc.CreateSubject(ctx, f.ID, SubjectInput{Name: "Reading"})
	require.NoError(t, err)

	return household{familyID: f.ID, studentID: st.ID, mathID: math.ID, readingID: reading.ID}
}

func templateID(t *testing.T, svc *Service, name string) int64 {
	t.Helper()
	m, err := svc.Repository().FindTemplateByName(context.Background(), name)
	require.NoError(t, err)
	return m.ID
}

func customMetric(t *testing.T, svc *Service, familyID int64, in MetricInput) int64 {
	t.Helper()
	res, err := svc.CreateMetric(context.Background(), familyID, in)
	require.NoError(t, err)
	return res.ID
}

func metricIDs(metrics []*models.Metric) []int64 {
	ids := make([]int64, len(metrics))
	for i, m := range metrics {
		ids[i] = m.ID
	}
	return ids
}

func ptr[T any](v T) *T { return &v }
