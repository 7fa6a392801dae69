package schedule_test

import (
	"testing"
	"time"

	"github.com/rpggio/prodsched/internal/domain/project"
	"github.com/rpggio/prodsched/internal/domain/schedule"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := schedule.ParseDate("2026-02-06")
	require.NoError(t, err)
	require.Equal(t, schedule.Date{Year: 2026, Month: time.February, Day: 6}, d)
	require.Equal(t, time.Friday, d.Weekday())
	require.Equal(t, "2026-02-06", d.String())

	for _, bad := range []string{"", "2026-02-30", "2026/02/06", "2026-2-6", "tomorrow"} {
		_, err := schedule.ParseDate(bad)
		require.ErrorIs(t, err, schedule.ErrInvalidDate, bad)
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := day("2026-02-28")
	require.Equal(t, day("2026-03-01"), d.AddDays(1))
	require.Equal(t, day("2026-02-27"), d.AddDays(-1))
	require.Equal(t, 3, d.DaysUntil(day("2026-03-03")))
	require.Equal(t, -1, d.Compare(day("2026-03-01")))
	require.Equal(t, 0, d.Compare(day("2026-02-28")))
	require.True(t, d.After(day("2025-12-31")))
}

func TestNewHolidaySet(t *testing.T) {
	set, err := schedule.NewHolidaySet("2026-03-01", "2026-01-01", "2026-03-01")
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
	require.Equal(t, []string{"2026-01-01", "2026-03-01"}, set.Strings())

	_, err = schedule.NewHolidaySet("2026-13-01")
	require.ErrorIs(t, err, schedule.ErrInvalidDate)
}

func TestMonthCalendar(t *testing.T) {
	set := holidays(t, "2026-02-16")
	projects := []project.Project{
		{ID: 1, StartDate: "2026-02-13", EndDate: "2026-02-17", DueDate: "2026-02-20"},
	}

	month := schedule.MonthCalendar(2026, time.February, day("2026-02-10"), projects, set)
	require.Equal(t, 0, month.LeadingBlanks)
	require.Len(t, month.Days, 28)

	byDate := map[string]schedule.DayCell{}
	for _, cell := range month.Days {
		byDate[cell.Date] = cell
	}
	require.True(t, byDate["2026-02-10"].Today)
	require.True(t, byDate["2026-02-16"].Holiday)
	require.True(t, byDate["2026-02-14"].Weekend)
	require.Len(t, byDate["2026-02-13"].Projects, 1)
	require.Empty(t, byDate["2026-02-14"].Projects)
	require.Empty(t, byDate["2026-02-16"].Projects)
	require.Len(t, byDate["2026-02-17"].Projects, 1)
	require.Len(t, byDate["2026-02-20"].Projects, 1)

	march := schedule.MonthCalendar(2026, time.March, day("2026-02-10"), nil, set)
	require.Equal(t, 0, march.LeadingBlanks)
	require.Len(t, march.Days, 31)
}

func TestParseMonth(t *testing.T) {
	y, m, err := schedule.ParseMonth("2026-09")
	require.NoError(t, err)
	require.Equal(t, 2026, y)
	require.Equal(t, time.September, m)

	_, _, err = schedule.ParseMonth("2026-13")
	require.ErrorIs(t, err, schedule.ErrInvalidDate)
}

func TestDate_DaysUntilAcrossCenturies(t *testing.T) {
	require.Equal(t, 3652058, day("0001-01-01").DaysUntil(day("9999-12-31")))
	require.Equal(t, -3652058, day("9999-12-31").DaysUntil(day("0001-01-01")))
	require.Equal(t, 146097, day("2000-01-01").DaysUntil(day("2400-01-01")))
	require.Equal(t, 29, day("2026-02-01").DaysUntil(day("2026-03-02")))
}
