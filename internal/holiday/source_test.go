package holiday_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/prodsched/internal/domain/schedule"
	"github.com/rpggio/prodsched/internal/holiday"
	"github.com/stretchr/testify/require"
)

func TestNewStatic(t *testing.T) {
	src, err := holiday.NewStatic(holiday.Defaults2026)
	require.NoError(t, err)

	set := src.Current()
	require.Equal(t, 17, set.Len())
	require.True(t, set.Contains(schedule.MustParseDate("2026-02-17")))
	require.False(t, set.Contains(schedule.MustParseDate("2026-02-19")))
	require.Empty(t, src.Path())

	_, err = holiday.NewStatic([]string{"2026-02-31"})
	require.ErrorIs(t, err, schedule.ErrInvalidDate)
}

func TestNewFromFile_MissingFileIsEmpty(t *testing.T) {
	src, err := holiday.NewFromFile(filepath.Join(t.TempDir(), "holidays.yaml"))
	require.NoError(t, err)
	require.Equal(t, 0, src.Current().Len())
}

func TestNewFromFile_Malformed(t *testing.T) {
	path := writeHolidays(t, t.TempDir(), "holidays: [not-a-date]\n")
	_, err := holiday.NewFromFile(path)
	require.Error(t, err)
}

func TestReload_KeepsPreviousSetOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeHolidays(t, dir, "holidays:\n  - 2026-03-01\n  - 2026-03-02\n")

	var reloads int
	src, err := holiday.NewFromFile(path, holiday.WithReloadHook(func(schedule.HolidaySet) { reloads++ }))
	require.NoError(t, err)
	require.Equal(t, 2, src.Current().Len())
	require.Equal(t, 1, reloads)

	writeHolidays(t, dir, "holidays: {broken")
	require.Error(t, src.Reload())
	require.Equal(t, 2, src.Current().Len())
	require.Equal(t, 1, reloads)
}

func TestWatch_PicksUpChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeHolidays(t, dir, "holidays:\n  - 2026-01-01\n")

	src, err := holiday.NewFromFile(path, holiday.WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, src.Watch(ctx))

	writeHolidays(t, dir, "holidays:\n  - 2026-01-01\n  - 2026-12-25\n")

	require.Eventually(t, func() bool {
		return src.Current().Contains(schedule.MustParseDate("2026-12-25"))
	}, 3*time.Second, 20*time.Millisecond)
}

func writeHolidays(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}
