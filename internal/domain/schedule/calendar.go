package schedule

import (
	"fmt"
	"time"

	"github.com/rpggio/prodsched/internal/domain/project"
)

// DayCell is one day of a month calendar.
type DayCell struct {
	Date       string            `json:"date"`
	Weekday    time.Weekday      `json:"weekday"`
	Weekend    bool              `json:"weekend"`
	Holiday    bool              `json:"holiday"`
	NonWorking bool              `json:"nonWorking"`
	Today      bool              `json:"today"`
	Projects   []project.Project `json:"projects"`
}

// Month is a calendar month with the projects visible on each day.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	// LeadingBlanks is the weekday of the 1st (Sunday = 0), the number of
	// empty cells before it in a Sunday-first grid.
	LeadingBlanks int       `json:"leadingBlanks"`
	Days          []DayCell `json:"days"`
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month %q", ErrInvalidDate, s)
	}
	return t.Year(), t.Month(), nil
}

// MonthCalendar lays out every day of the month with its visible projects.
func MonthCalendar(year int, month time.Month, today Date, projects []project.Project, holidays HolidaySet) Month {
	first := Date{Year: year, Month: month, Day: 1}
	out := Month{
		Year:          year,
		Month:         month,
		LeadingBlanks: int(first.Weekday()),
	}
	for d := first; d.Month == month; d = d.AddDays(1) {
		wd := d.Weekday()
		weekend := wd == time.Saturday || wd == time.Sunday
		holiday := holidays.Contains(d)
		out.Days = append(out.Days, DayCell{
			Date:       d.String(),
			Weekday:    wd,
			Weekend:    weekend,
			Holiday:    holiday,
			NonWorking: weekend || holiday,
			Today:      d == today,
			Projects:   ProjectsByDate(d, projects, holidays),
		})
	}
	return out
}
