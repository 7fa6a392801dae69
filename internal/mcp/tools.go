package mcp

import (
	"context"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/prodsched/internal/domain/activity"
	"github.com/rpggio/prodsched/internal/domain/overview"
	"github.com/rpggio/prodsched/internal/domain/project"
	"github.com/rpggio/prodsched/internal/domain/schedule"
	"github.com/rpggio/prodsched/internal/domain/stats"
)

type emptyInput struct{}

type listProjectsInput struct {
	Client string `json:"client,omitempty" jsonschema:"case-insensitive substring of the client name"`
}

type listProjectsOutput struct {
	Version  int64             `json:"version"`
	Count    int               `json:"count"`
	Projects []project.Project `json:"projects"`
}

type dateInput struct {
	Date string `json:"date,omitempty" jsonschema:"calendar date as YYYY-MM-DD; defaults to today"`
}

type workingDayOutput struct {
	Date       string `json:"date"`
	Weekday    string `json:"weekday"`
	WorkingDay bool   `json:"workingDay"`
	Weekend    bool   `json:"weekend"`
	Holiday    bool   `json:"holiday"`
}

type monthInput struct {
	Month string `json:"month,omitempty" jsonschema:"month as YYYY-MM; defaults to the current month"`
}

type progressInput struct {
	Client      string `json:"client,omitempty" jsonschema:"case-insensitive substring of the client name"`
	MinProgress *int   `json:"minProgress,omitempty" jsonschema:"lowest progress percentage to include"`
	MaxProgress *int   `json:"maxProgress,omitempty" jsonschema:"highest progress percentage to include"`
	Sort        string `json:"sort,omitempty" jsonschema:"one of id, client, productName, capacity, startDate, dueDate, progress"`
	Direction   string `json:"direction,omitempty" jsonschema:"asc or desc"`
}

type progressRow struct {
	ID                   int64   `json:"id"`
	Client               string  `json:"client"`
	ProductName          string  `json:"productName"`
	Capacity             float64 `json:"capacity"`
	StartDate            string  `json:"startDate"`
	DueDate              string  `json:"dueDate"`
	Progress             int     `json:"progress"`
	ProgressStatus       string  `json:"progressStatus"`
	TimeStatus           string  `json:"timeStatus"`
	RemainingWorkingDays int     `json:"remainingWorkingDays"`
}

type progressBoardOutput struct {
	Rows              []progressRow `json:"rows"`
	AverageProgress   int           `json:"averageProgress"`
	CompletedProjects int           `json:"completedProjects"`
	DelayedProjects   int           `json:"delayedProjects"`
}

type activityInput struct {
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum entries to return (default 50)"`
	ProjectID *int64 `json:"projectId,omitempty" jsonschema:"only entries for this project"`
}

type activityEntry struct {
	ID        int64  `json:"id"`
	ProjectID *int64 `json:"projectId,omitempty"`
	Type      string `json:"type"`
	Summary   string `json:"summary"`
	Version   int64  `json:"version"`
	CreatedAt string `json:"createdAt"`
}

type activityOutput struct {
	Entries []activityEntry `json:"entries"`
}

func registerTools(server *sdkmcp.Server, services Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List every project in the schedule with the current document version",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in listProjectsInput) (*sdkmcp.CallToolResult, listProjectsOutput, error) {
		doc, err := services.Projects.List(ctx)
		if err != nil {
			return nil, listProjectsOutput{}, toolError(err)
		}
		projects := doc.Projects
		if needle := strings.ToLower(strings.TrimSpace(in.Client)); needle != "" {
			filtered := []project.Project{}
			for _, p := range projects {
				if strings.Contains(strings.ToLower(p.Client), needle) {
					filtered = append(filtered, p)
				}
			}
			projects = filtered
		}
		return nil, listProjectsOutput{Version: doc.Version, Count: len(projects), Projects: projects}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_projects_by_date",
		Description: "List the projects scheduled on a date. Non-working days only show projects that include holidays",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in dateInput) (*sdkmcp.CallToolResult, overview.DaySchedule, error) {
		d, err := resolveDate(services.Views, in.Date)
		if err != nil {
			return nil, overview.DaySchedule{}, toolError(err)
		}
		day, err := services.Views.Schedule(ctx, d)
		if err != nil {
			return nil, overview.DaySchedule{}, toolError(err)
		}
		return nil, *day, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "check_working_day",
		Description: "Report whether a date is a working day, a weekend or a configured holiday",
	}, func(_ context.Context, _ *sdkmcp.CallToolRequest, in dateInput) (*sdkmcp.CallToolResult, workingDayOutput, error) {
		d, err := resolveDate(services.Views, in.Date)
		if err != nil {
			return nil, workingDayOutput{}, toolError(err)
		}
		working, holiday := services.Views.IsWorkingDay(d)
		weekday := d.Weekday()
		return nil, workingDayOutput{
			Date:       d.String(),
			Weekday:    weekday.String(),
			WorkingDay: working,
			Weekend:    weekday == time.Saturday || weekday == time.Sunday,
			Holiday:    holiday,
		}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_dashboard_summary",
		Description: "Summarize the schedule: totals, completion, top clients and products, monthly starts",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, stats.Summary, error) {
		summary, err := services.Views.Dashboard(ctx)
		if err != nil {
			return nil, stats.Summary{}, toolError(err)
		}
		return nil, *summary, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_progress_board",
		Description: "List projects with progress and deadline status, filtered and sorted",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in progressInput) (*sdkmcp.CallToolResult, progressBoardOutput, error) {
		filter := stats.DefaultFilter()
		filter.Client = in.Client
		if in.MinProgress != nil {
			filter.MinProgress = *in.MinProgress
		}
		if in.MaxProgress != nil {
			filter.MaxProgress = *in.MaxProgress
		}
		sort := stats.DefaultSort()
		if in.Sort != "" {
			sort.Key = stats.SortKey(in.Sort)
		}
		if in.Direction != "" {
			sort.Direction = stats.Direction(in.Direction)
		}
		board, err := services.Views.Progress(ctx, filter, sort)
		if err != nil {
			return nil, progressBoardOutput{}, toolError(err)
		}
		out := progressBoardOutput{
			Rows:              make([]progressRow, 0, len(board.Rows)),
			AverageProgress:   board.AverageProgress,
			CompletedProjects: board.CompletedProjects,
			DelayedProjects:   board.DelayedProjects,
		}
		for _, r := range board.Rows {
			out.Rows = append(out.Rows, progressRow{
				ID:                   r.ID,
				Client:               r.Client,
				ProductName:          r.ProductName,
				Capacity:             r.Capacity,
				StartDate:            r.StartDate,
				DueDate:              r.DueDate,
				Progress:             r.Progress,
				ProgressStatus:       string(r.ProgressStatus),
				TimeStatus:           string(r.TimeStatus),
				RemainingWorkingDays: r.RemainingWorkingDays,
			})
		}
		return nil, out, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_month_calendar",
		Description: "Lay out a month day by day with weekend and holiday flags and the projects visible on each day",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in monthInput) (*sdkmcp.CallToolResult, schedule.Month, error) {
		today := services.Views.Today()
		year, month := today.Year, today.Month
		if in.Month != "" {
			y, m, err := schedule.ParseMonth(in.Month)
			if err != nil {
				return nil, schedule.Month{}, toolError(err)
			}
			year, month = y, m
		}
		cal, err := services.Views.Calendar(ctx, year, month)
		if err != nil {
			return nil, schedule.Month{}, toolError(err)
		}
		return nil, *cal, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent changes to the schedule, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in activityInput) (*sdkmcp.CallToolResult, activityOutput, error) {
		entries, err := services.Activity.GetRecentActivity(ctx, activity.ListActivityOptions{
			ProjectID: in.ProjectID,
			Limit:     in.Limit,
		})
		if err != nil {
			return nil, activityOutput{}, toolError(err)
		}
		out := activityOutput{Entries: make([]activityEntry, 0, len(entries))}
		for _, e := range entries {
			out.Entries = append(out.Entries, activityEntry{
				ID:        e.ID,
				ProjectID: e.ProjectID,
				Type:      string(e.ActivityType),
				Summary:   e.Summary,
				Version:   e.Version,
				CreatedAt: e.CreatedAt.Format(time.RFC3339),
			})
		}
		return nil, out, nil
	})
}

func resolveDate(views ViewService, raw string) (schedule.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return views.Today(), nil
	}
	return schedule.ParseDate(strings.TrimSpace(raw))
}

func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
