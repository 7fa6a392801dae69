package stats

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rpggio/prodsched/internal/domain/project"
	"github.com/rpggio/prodsched/internal/domain/schedule"
)

// ErrInvalidQuery is returned for unknown sort keys, directions or ranges.
var ErrInvalidQuery = errors.New("invalid progress query")

// ProgressStatus buckets completion percentage.
type ProgressStatus string

const (
	ProgressDanger  ProgressStatus = "danger"
	ProgressWarning ProgressStatus = "warning"
	ProgressInfo    ProgressStatus = "info"
	ProgressSuccess ProgressStatus = "success"
)

// TimeStatus buckets how much of the start-to-due window has elapsed.
type TimeStatus string

const (
	TimeUpcoming   TimeStatus = "upcoming"
	TimeOverdue    TimeStatus = "overdue"
	TimeRelaxed    TimeStatus = "relaxed"
	TimeInProgress TimeStatus = "in_progress"
	TimeImminent   TimeStatus = "imminent"
	TimeUnknown    TimeStatus = "unknown"
)

// Filter narrows the progress board.
type Filter struct {
	Client      string
	MinProgress int
	MaxProgress int
}

// DefaultFilter matches every project.
func DefaultFilter() Filter {
	return Filter{MinProgress: 0, MaxProgress: 100}
}

// SortKey names a sortable project field.
type SortKey string

const (
	SortID          SortKey = "id"
	SortClient      SortKey = "client"
	SortProductName SortKey = "productName"
	SortCapacity    SortKey = "capacity"
	SortStartDate   SortKey = "startDate"
	SortDueDate     SortKey = "dueDate"
	SortProgress    SortKey = "progress"
)

// Direction is "asc" or "desc".
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort orders the progress board.
type Sort struct {
	Key       SortKey
	Direction Direction
}

// DefaultSort lists the most advanced projects first.
func DefaultSort() Sort {
	return Sort{Key: SortProgress, Direction: Desc}
}

// ProgressRow is one project annotated for the progress board. It is
// encode-only: the embedded Project's UnmarshalJSON would drop the status
// fields on decode.
type ProgressRow struct {
	project.Project
	ProgressStatus       ProgressStatus `json:"progressStatus"`
	TimeStatus           TimeStatus     `json:"timeStatus"`
	RemainingWorkingDays int            `json:"remainingWorkingDays"`
}

// ProgressBoard is the filtered, sorted board plus its footer totals.
type ProgressBoard struct {
	Rows              []ProgressRow `json:"rows"`
	AverageProgress   int           `json:"averageProgress"`
	CompletedProjects int           `json:"completedProjects"`
	DelayedProjects   int           `json:"delayedProjects"`
}

// BuildProgressBoard filters, sorts and annotates projects. Footer totals
// cover the whole collection, not only the filtered rows.
func BuildProgressBoard(projects []project.Project, f Filter, s Sort, today schedule.Date, holidays schedule.HolidaySet) (ProgressBoard, error) {
	if f.MinProgress > f.MaxProgress {
		return ProgressBoard{}, fmt.Errorf("%w: minProgress %d exceeds maxProgress %d", ErrInvalidQuery, f.MinProgress, f.MaxProgress)
	}
	compare, err := comparator(s)
	if err != nil {
		return ProgressBoard{}, err
	}

	needle := strings.ToLower(f.Client)
	rows := []ProgressRow{}
	for _, p := range projects {
		if needle != "" && !strings.Contains(strings.ToLower(p.Client), needle) {
			continue
		}
		if p.Progress < f.MinProgress || p.Progress > f.MaxProgress {
			continue
		}
		rows = append(rows, annotate(p, today, holidays))
	}
	slices.SortStableFunc(rows, func(a, b ProgressRow) int {
		return compare(a.Project, b.Project)
	})

	summary := Summarize(projects, today)
	return ProgressBoard{
		Rows:              rows,
		AverageProgress:   summary.AverageProgress,
		CompletedProjects: summary.CompletedProjects,
		DelayedProjects:   summary.OverdueProjects,
	}, nil
}

// StatusForProgress buckets a completion percentage.
func StatusForProgress(progress int) ProgressStatus {
	switch {
	case progress < 25:
		return ProgressDanger
	case progress < 50:
		return ProgressWarning
	case progress < 75:
		return ProgressInfo
	default:
		return ProgressSuccess
	}
}

// StatusForTime compares today against the start-to-due window.
func StatusForTime(startDate, dueDate string, today schedule.Date) TimeStatus {
	start, err := schedule.ParseDate(startDate)
	if err != nil {
		return TimeUnknown
	}
	due, err := schedule.ParseDate(dueDate)
	if err != nil {
		return TimeUnknown
	}

	if today.Before(start) {
		return TimeUpcoming
	}
	if today.After(due) {
		return TimeOverdue
	}

	total := start.DaysUntil(due)
	if total <= 0 {
		return TimeImminent
	}
	elapsed := start.DaysUntil(today)
	switch pct := float64(elapsed) * 100 / float64(total); {
	case pct < 50:
		return TimeRelaxed
	case pct < 75:
		return TimeInProgress
	default:
		return TimeImminent
	}
}

func annotate(p project.Project, today schedule.Date, holidays schedule.HolidaySet) ProgressRow {
	row := ProgressRow{
		Project:        p,
		ProgressStatus: StatusForProgress(p.Progress),
		TimeStatus:     StatusForTime(p.StartDate, p.DueDate, today),
	}
	if due, err := schedule.ParseDate(p.DueDate); err == nil && !due.Before(today) {
		row.RemainingWorkingDays = schedule.WorkingDaysBetween(today, due, holidays)
	}
	return row
}

func comparator(s Sort) (func(a, b project.Project) int, error) {
	var base func(a, b project.Project) int
	switch s.Key {
	case SortID:
		base = func(a, b project.Project) int { return cmp.Compare(a.ID, b.ID) }
	case SortClient:
		base = func(a, b project.Project) int { return cmp.Compare(a.Client, b.Client) }
	case SortProductName:
		base = func(a, b project.Project) int { return cmp.Compare(a.ProductName, b.ProductName) }
	case SortCapacity:
		base = func(a, b project.Project) int { return cmp.Compare(a.Capacity, b.Capacity) }
	case SortStartDate:
		base = func(a, b project.Project) int { return cmp.Compare(a.StartDate, b.StartDate) }
	case SortDueDate:
		base = func(a, b project.Project) int { return cmp.Compare(a.DueDate, b.DueDate) }
	case SortProgress:
		base = func(a, b project.Project) int { return cmp.Compare(a.Progress, b.Progress) }
	default:
		return nil, fmt.Errorf("%w: unknown sort key %q", ErrInvalidQuery, s.Key)
	}

	switch s.Direction {
	case Asc:
		return base, nil
	case Desc:
		return func(a, b project.Project) int { return base(b, a) }, nil
	default:
		return nil, fmt.Errorf("%w: unknown sort direction %q", ErrInvalidQuery, s.Direction)
	}
}
