package schedule

import (
	"time"

	"github.com/rpggio/prodsched/internal/domain/project"
)

// IsNonWorkingDay reports whether d falls on a weekend or a listed holiday.
func IsNonWorkingDay(d Date, holidays HolidaySet) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return holidays.Contains(d)
}

// IsProjectVisibleOnDate reports whether p is active on d.
//
// On a non-working day a project is hidden unless it opts in with
// IncludeHolidays. Otherwise it is visible inside its inclusive
// [StartDate, EndDate] window and on its DueDate, even when the due date lies
// outside the window. A project date that does not parse disables only the
// clause it belongs to.
func IsProjectVisibleOnDate(p project.Project, d Date, holidays HolidaySet) bool {
	if IsNonWorkingDay(d, holidays) && !p.IncludeHolidays {
		return false
	}
	return inWindow(p, d) || isDueOn(p, d)
}

// ProjectsByDate returns the projects visible on d in their input order.
// The input slice is not modified.
func ProjectsByDate(d Date, projects []project.Project, holidays HolidaySet) []project.Project {
	visible := make([]project.Project, 0)
	for _, p := range projects {
		if IsProjectVisibleOnDate(p, d, holidays) {
			visible = append(visible, p)
		}
	}
	return visible
}

// WorkingDaysBetween counts working days in the inclusive range [from, to].
// It returns 0 when to is before from.
func WorkingDaysBetween(from, to Date, holidays HolidaySet) int {
	if to.Before(from) {
		return 0
	}
	days := from.DaysUntil(to) + 1
	count := days / 7 * 5
	first := from.Weekday()
	for i := 0; i < days%7; i++ {
		switch (first + time.Weekday(i)) % 7 {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	for d := range holidays.days {
		if d.Before(from) || d.After(to) {
			continue
		}
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count--
		}
	}
	return count
}

func inWindow(p project.Project, d Date) bool {
	start, err := ParseDate(p.StartDate)
	if err != nil {
		return false
	}
	end, err := ParseDate(p.EndDate)
	if err != nil {
		return false
	}
	return !d.Before(start) && !d.After(end)
}

func isDueOn(p project.Project, d Date) bool {
	due, err := ParseDate(p.DueDate)
	if err != nil {
		return false
	}
	return due == d
}
