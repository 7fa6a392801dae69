// Package overview answers the read-side questions asked of the schedule:
// what runs on a day, the month grid, the dashboard and the progress board.
package overview

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/prodsched/internal/domain/project"
	"github.com/rpggio/prodsched/internal/domain/schedule"
	"github.com/rpggio/prodsched/internal/domain/stats"
)

// ProjectLister loads the current project document.
type ProjectLister interface {
	List(ctx context.Context) (*project.Document, error)
}

// HolidaySource yields the active holiday set.
type HolidaySource interface {
	Current() schedule.HolidaySet
}

// DaySchedule is the answer to "what is running on this date".
type DaySchedule struct {
	Date          string            `json:"date"`
	Weekday       string            `json:"weekday"`
	NonWorkingDay bool              `json:"nonWorkingDay"`
	Holiday       bool              `json:"holiday"`
	Projects      []project.Project `json:"projects"`
}

// Service composes the schedule engine and stats over the stored projects.
type Service struct {
	projects ProjectLister
	holidays HolidaySource
	loc      *time.Location
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source that decides "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an overview service. "Today" is evaluated in loc.
func NewService(projects ProjectLister, holidays HolidaySource, loc *time.Location, opts ...Option) *Service {
	if loc == nil {
		loc = time.Local
	}
	s := &Service{projects: projects, holidays: holidays, loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar day in the configured zone.
func (s *Service) Today() schedule.Date {
	return schedule.DateOf(s.now().In(s.loc))
}

// Holidays returns the active holiday set.
func (s *Service) Holidays() schedule.HolidaySet {
	if s.holidays == nil {
		return schedule.HolidaySet{}
	}
	return s.holidays.Current()
}

// IsWorkingDay reports whether d is a working day.
func (s *Service) IsWorkingDay(d schedule.Date) (working bool, holiday bool) {
	set := s.Holidays()
	return !schedule.IsNonWorkingDay(d, set), set.Contains(d)
}

// Schedule lists the projects visible on d.
func (s *Service) Schedule(ctx context.Context, d schedule.Date) (*DaySchedule, error) {
	doc, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	set := s.Holidays()
	return &DaySchedule{
		Date:          d.String(),
		Weekday:       d.Weekday().String(),
		NonWorkingDay: schedule.IsNonWorkingDay(d, set),
		Holiday:       set.Contains(d),
		Projects:      schedule.ProjectsByDate(d, doc.Projects, set),
	}, nil
}

// Calendar builds the month grid.
func (s *Service) Calendar(ctx context.Context, year int, month time.Month) (*schedule.Month, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d", schedule.ErrInvalidDate, month)
	}
	doc, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	m := schedule.MonthCalendar(year, month, s.Today(), doc.Projects, s.Holidays())
	return &m, nil
}

// Dashboard summarizes the collection as of today.
func (s *Service) Dashboard(ctx context.Context) (*stats.Summary, error) {
	doc, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	summary := stats.Summarize(doc.Projects, s.Today())
	return &summary, nil
}

// Progress builds the filtered and sorted progress board.
func (s *Service) Progress(ctx context.Context, f stats.Filter, sort stats.Sort) (*stats.ProgressBoard, error) {
	doc, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	board, err := stats.BuildProgressBoard(doc.Projects, f, sort, s.Today(), s.Holidays())
	if err != nil {
		return nil, err
	}
	return &board, nil
}
