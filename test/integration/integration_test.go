package integration_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/prodsched/internal/domain/activity"
	"github.com/rpggio/prodsched/internal/domain/importer"
	"github.com/rpggio/prodsched/internal/domain/overview"
	"github.com/rpggio/prodsched/internal/domain/project"
	"github.com/rpggio/prodsched/internal/domain/schedule"
	"github.com/rpggio/prodsched/internal/domain/stats"
	"github.com/rpggio/prodsched/internal/holiday"
	"github.com/rpggio/prodsched/internal/sqlite"
	"github.com/stretchr/testify/require"
)

// Monday, 2026-03-02.
var fixedNow = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	db          *sqlite.DB
	projectSvc  *project.Service
	activitySvc *activity.Service
	importSvc   *importer.Service
}

func newTestEnv(t *testing.T, path string) *testEnv {
	t.Helper()
	db, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	activityRepo := sqlite.NewActivityRepository(db)
	projectSvc := project.NewService(sqlite.NewProjectRepository(db), activityRepo, nil,
		project.WithClock(func() time.Time { return fixedNow }),
		project.WithLocation(time.UTC))

	return &testEnv{
		db:          db,
		projectSvc:  projectSvc,
		activitySvc: activity.NewService(activityRepo, nil),
		importSvc:   importer.NewService(projectSvc, time.UTC, nil),
	}
}

func TestIntegration_ImportEditReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "schedule.db")
	env := newTestEnv(t, path)

	csv := "거래처명,제품명,수량,일자,납기일,진행률\n" +
		"Acme,Coating,500,2026/03/02,2026/03/06,10%\n" +
		"Beta,Sauce,\"2,000\",2026/03/03,2026/03/05,100\n"
	report, err := env.importSvc.Import(ctx, "orders.csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 2, report.Count)
	require.Empty(t, report.Skipped)

	doc, err := env.projectSvc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), doc.Version)
	require.Equal(t, []int64{1, 2}, []int64{doc.Projects[0].ID, doc.Projects[1].ID})

	edit := doc.Projects[0]
	edit.Progress = 55
	_, err = env.projectSvc.Update(ctx, edit.ID, edit, doc.Version)
	require.NoError(t, err)

	// A client still on version 1 is turned away.
	_, err = env.projectSvc.Update(ctx, edit.ID, edit, doc.Version)
	require.ErrorIs(t, err, project.ErrVersionConflict)

	require.NoError(t, env.db.Close())
	reopened := newTestEnv(t, path)

	doc, err = reopened.projectSvc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), doc.Version)
	require.Len(t, doc.Projects, 2)
	require.Equal(t, 55, doc.Projects[0].Progress)
	require.Equal(t, 2000.0, doc.Projects[1].Capacity)

	entries, err := reopened.activitySvc.GetRecentActivity(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeProjectUpdated, entries[0].ActivityType)
	require.Equal(t, activity.TypeProjectsImported, entries[1].ActivityType)
}

func TestIntegration_HolidayFileReloadChangesSchedule(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, filepath.Join(t.TempDir(), "schedule.db"))

	holidaysPath := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(holidaysPath, []byte("holidays:\n  - \"2026-03-01\"\n"), 0o644))
	src, err := holiday.NewFromFile(holidaysPath)
	require.NoError(t, err)

	progress := 0
	_, err = env.projectSvc.Add(ctx, project.CreateRequest{
		Client:    "Acme",
		StartDate: "2026-03-02",
		EndDate:   "2026-03-06",
		DueDate:   "2026-03-06",
		Progress:  &progress,
	})
	require.NoError(t, err)

	views := overview.NewService(env.projectSvc, src, time.UTC,
		overview.WithClock(func() time.Time { return fixedNow }))

	wed := schedule.MustParseDate("2026-03-04")
	day, err := views.Schedule(ctx, wed)
	require.NoError(t, err)
	require.False(t, day.NonWorkingDay)
	require.Len(t, day.Projects, 1)

	require.NoError(t, os.WriteFile(holidaysPath, []byte("holidays:\n  - \"2026-03-04\"\n"), 0o644))
	require.NoError(t, src.Reload())

	day, err = views.Schedule(ctx, wed)
	require.NoError(t, err)
	require.True(t, day.NonWorkingDay)
	require.True(t, day.Holiday)
	require.Empty(t, day.Projects)

	board, err := views.Progress(ctx, stats.DefaultFilter(), stats.DefaultSort())
	require.NoError(t, err)
	require.Len(t, board.Rows, 1)
	// 03-02..03-06 minus the new holiday.
	require.Equal(t, 4, board.Rows[0].RemainingWorkingDays)
}
