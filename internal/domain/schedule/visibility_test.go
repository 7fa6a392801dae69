package schedule_test

import (
	"testing"
	"time"

	"github.com/rpggio/prodsched/internal/domain/project"
	"github.com/rpggio/prodsched/internal/domain/schedule"
	"github.com/stretchr/testify/require"
)

func holidays(t *testing.T, dates ...string) schedule.HolidaySet {
	t.Helper()
	set, err := schedule.NewHolidaySet(dates...)
	require.NoError(t, err)
	return set
}

func day(s string) schedule.Date {
	return schedule.MustParseDate(s)
}

func TestIsNonWorkingDay_Weekends(t *testing.T) {
	set := holidays(t, "2026-02-16", "2026-02-17")

	for d := day("2026-01-01"); d.Before(day("2027-01-01")); d = d.AddDays(1) {
		wd := d.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			require.True(t, schedule.IsNonWorkingDay(d, set), d.String())
			require.True(t, schedule.IsNonWorkingDay(d, schedule.HolidaySet{}), d.String())
		}
	}
}

func TestIsNonWorkingDay_Holidays(t *testing.T) {
	set := holidays(t, "2026-02-16", "2026-02-17", "2026-02-18")

	// Mon-Wed of the lunar new year break.
	require.True(t, schedule.IsNonWorkingDay(day("2026-02-16"), set))
	require.True(t, schedule.IsNonWorkingDay(day("2026-02-17"), set))
	require.True(t, schedule.IsNonWorkingDay(day("2026-02-18"), set))
	require.False(t, schedule.IsNonWorkingDay(day("2026-02-19"), set))
}

func TestIsNonWorkingDay_EmptySet(t *testing.T) {
	require.False(t, schedule.IsNonWorkingDay(day("2026-02-16"), schedule.HolidaySet{}))
	require.True(t, schedule.IsNonWorkingDay(day("2026-02-15"), schedule.HolidaySet{}))
}

func TestIsProjectVisibleOnDate_HiddenOnNonWorkingDayOutsideWindow(t *testing.T) {
	set := holidays(t, "2026-02-18")
	p := project.Project{StartDate: "2026-02-09", EndDate: "2026-02-13", DueDate: "2026-02-13"}

	require.False(t, schedule.IsProjectVisibleOnDate(p, day("2026-02-14"), set))
	require.False(t, schedule.IsProjectVisibleOnDate(p, day("2026-02-18"), set))
}

func TestIsProjectVisibleOnDate_IncludeHolidaysIgnoresWorkingStatus(t *testing.T) {
	set := holidays(t, "2026-02-16", "2026-02-17", "2026-02-18")
	p := project.Project{
		StartDate:       "2026-02-12",
		EndDate:         "2026-02-20",
		DueDate:         "2026-02-25",
		IncludeHolidays: true,
	}

	for d := day("2026-02-01"); d.Before(day("2026-03-01")); d = d.AddDays(1) {
		want := (!d.Before(day("2026-02-12")) && !d.After(day("2026-02-20"))) || d == day("2026-02-25")
		require.Equal(t, want, schedule.IsProjectVisibleOnDate(p, d, set), d.String())
	}
}

func TestIsProjectVisibleOnDate_DueDateAfterWindow(t *testing.T) {
	p := project.Project{StartDate: "2026-02-02", EndDate: "2026-02-04", DueDate: "2026-02-10"}

	require.True(t, schedule.IsProjectVisibleOnDate(p, day("2026-02-10"), schedule.HolidaySet{}))
	require.False(t, schedule.IsProjectVisibleOnDate(p, day("2026-02-09"), schedule.HolidaySet{}))
}

func TestIsProjectVisibleOnDate_SingleDayProject(t *testing.T) {
	p := project.Project{StartDate: "2026-02-06", EndDate: "2026-02-06", DueDate: "2026-02-11"}
	set := holidays(t)

	require.True(t, schedule.IsProjectVisibleOnDate(p, day("2026-02-06"), set))
	require.False(t, schedule.IsProjectVisibleOnDate(p, day("2026-02-07"), set))
	require.True(t, schedule.IsProjectVisibleOnDate(p, day("2026-02-11"), set))
}

func TestIsProjectVisibleOnDate_WindowAcrossWeekendAndHoliday(t *testing.T) {
	set := holidays(t, "2026-03-01")
	p := project.Project{StartDate: "2026-02-28", EndDate: "2026-03-02", DueDate: "2026-03-02"}

	require.False(t, schedule.IsProjectVisibleOnDate(p, day("2026-02-28"), set))
	require.False(t, schedule.IsProjectVisibleOnDate(p, day("2026-03-01"), set))
	require.True(t, schedule.IsProjectVisibleOnDate(p, day("2026-03-02"), set))
}

func TestIsProjectVisibleOnDate_OneDayWindowOnNonWorkingDay(t *testing.T) {
	p := project.Project{StartDate: "2026-02-07", EndDate: "2026-02-07", DueDate: "2026-02-07"}

	visibleDays := 0
	for d := day("2026-02-01"); d.Before(day("2026-03-01")); d = d.AddDays(1) {
		if schedule.IsProjectVisibleOnDate(p, d, schedule.HolidaySet{}) {
			visibleDays++
		}
	}
	require.Zero(t, visibleDays)

	p.IncludeHolidays = true
	require.True(t, schedule.IsProjectVisibleOnDate(p, day("2026-02-07"), schedule.HolidaySet{}))
}

func TestIsProjectVisibleOnDate_MalformedProjectDates(t *testing.T) {
	d := day("2026-02-10")

	badWindow := project.Project{StartDate: "2026/02/01", EndDate: "2026-02-20", DueDate: "2026-02-10"}
	require.True(t, schedule.IsProjectVisibleOnDate(badWindow, d, schedule.HolidaySet{}))

	badWindow.DueDate = "soon"
	require.False(t, schedule.IsProjectVisibleOnDate(badWindow, d, schedule.HolidaySet{}))

	badDue := project.Project{StartDate: "2026-02-01", EndDate: "2026-02-20", DueDate: ""}
	require.True(t, schedule.IsProjectVisibleOnDate(badDue, d, schedule.HolidaySet{}))

	impossible := project.Project{StartDate: "2026-02-01", EndDate: "2026-02-30", DueDate: "2026-02-30"}
	require.False(t, schedule.IsProjectVisibleOnDate(impossible, d, schedule.HolidaySet{}))
}

func TestProjectsByDate_StableAndPure(t *testing.T) {
	set := holidays(t, "2026-02-16")
	projects := []project.Project{
		{ID: 3, StartDate: "2026-02-01", EndDate: "2026-02-28", DueDate: "2026-02-28"},
		{ID: 1, StartDate: "2026-03-01", EndDate: "2026-03-10", DueDate: "2026-02-11"},
		{ID: 2, StartDate: "2026-01-01", EndDate: "2026-01-31", DueDate: "2026-02-01"},
		{ID: 5, StartDate: "2026-02-11", EndDate: "2026-02-11", DueDate: "2026-02-11", IncludeHolidays: true},
	}
	before := make([]project.Project, len(projects))
	copy(before, projects)

	first := schedule.ProjectsByDate(day("2026-02-11"), projects, set)
	second := schedule.ProjectsByDate(day("2026-02-11"), projects, set)

	require.Equal(t, first, second)
	require.Len(t, first, 3)
	require.Equal(t, int64(3), first[0].ID)
	require.Equal(t, int64(1), first[1].ID)
	require.Equal(t, int64(5), first[2].ID)
	require.Equal(t, before, projects)
}

func TestProjectsByDate_Empty(t *testing.T) {
	got := schedule.ProjectsByDate(day("2026-02-11"), nil, schedule.HolidaySet{})
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestWorkingDaysBetween(t *testing.T) {
	require.Equal(t, 5, schedule.WorkingDaysBetween(day("2026-02-02"), day("2026-02-08"), schedule.HolidaySet{}))
	require.Equal(t, 4, schedule.WorkingDaysBetween(day("2026-02-02"), day("2026-02-08"), holidays(t, "2026-02-04")))
	require.Equal(t, 0, schedule.WorkingDaysBetween(day("2026-02-08"), day("2026-02-02"), schedule.HolidaySet{}))
	require.Equal(t, 1, schedule.WorkingDaysBetween(day("2026-02-06"), day("2026-02-06"), schedule.HolidaySet{}))
	require.Equal(t, 0, schedule.WorkingDaysBetween(day("2026-02-07"), day("2026-02-08"), schedule.HolidaySet{}))
	// Holidays outside the range or on a weekend change nothing.
	require.Equal(t, 5, schedule.WorkingDaysBetween(day("2026-02-02"), day("2026-02-08"), holidays(t, "2026-02-07", "2026-02-09")))
}

func TestWorkingDaysBetween_MatchesDayByDayCount(t *testing.T) {
	set := holidays(t, "2026-02-16", "2026-02-17", "2026-02-18", "2026-03-01", "2026-03-02")
	from := day("2026-01-28")
	for span := 0; span < 60; span++ {
		to := from.AddDays(span)
		want := 0
		for d := from; !d.After(to); d = d.AddDays(1) {
			if !schedule.IsNonWorkingDay(d, set) {
				want++
			}
		}
		require.Equal(t, want, schedule.WorkingDaysBetween(from, to, set), "span %d", span)
	}
}

func TestWorkingDaysBetween_LongSpans(t *testing.T) {
	// A 400-year Gregorian cycle is exactly 20871 weeks.
	from := day("2026-02-09")
	to := from.AddDays(146097 - 1)
	require.Equal(t, 104355, schedule.WorkingDaysBetween(from, to, schedule.HolidaySet{}))
	require.Equal(t, 104354, schedule.WorkingDaysBetween(from, to, holidays(t, "2300-06-01")))

	start := time.Now()
	schedule.WorkingDaysBetween(day("0001-01-01"), day("9999-12-31"), schedule.HolidaySet{})
	require.Less(t, time.Since(start), 50*time.Millisecond)
}
