package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `prodsched tracks client production orders (projects) on a working-day calendar.

Core concepts:
- Project: an order with client, product, capacity, startDate, endDate, dueDate, progress (0-100) and includeHolidays.
- Non-working day: Saturday, Sunday or a configured holiday.
- Visibility: a project shows on a date when startDate <= date <= endDate, or when date == dueDate.
  On non-working days only projects with includeHolidays=true are shown.

Suggested workflow:
1) check_working_day to see how a date is classified.
2) get_projects_by_date for "what runs today / on date X".
3) get_month_calendar for a month overview.
4) get_dashboard_summary and get_progress_board for status and deadlines.
5) get_recent_activity to see what changed.

All dates are plain calendar dates in YYYY-MM-DD form. "Today" is evaluated in the server's configured time zone.

Docs:
- prodsched://docs/scheduling-rules
- prodsched://docs/progress-status
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "prodsched://docs/scheduling-rules",
		Name:        "docs_scheduling_rules",
		Title:       "Scheduling rules",
		Description: "How working days and project visibility are decided.",
		Content: `# Scheduling rules

## Working days

A date is a **non-working day** when it is a Saturday, a Sunday, or listed in the holiday set.
Everything else is a working day. The holiday set comes from configuration (or a watched holidays file)
and can be read with ` + "`GET /api/holidays`" + `.

## Visibility

For a date D and a project P:

1. If D is non-working and P.includeHolidays is false, P is **not** shown.
2. Otherwise P is shown when P.startDate <= D <= P.endDate, **or** when D == P.dueDate.

The due date is shown even when it falls after the production window, so a delivery day
is never hidden. A malformed date on a project only disables its own rule; it never hides other projects.

## Ordering

Listings keep the stored project order; nothing is re-sorted by the schedule engine.
`,
	},
	{
		URI:         "prodsched://docs/progress-status",
		Name:        "docs_progress_status",
		Title:       "Progress and deadline status",
		Description: "Buckets used by the progress board and dashboard.",
		Content: `# Progress and deadline status

## Progress status

| progress | status |
|---|---|
| < 25 | danger |
| < 50 | warning |
| < 75 | info |
| otherwise | success |

## Time status

Measured from startDate to dueDate as of today:

- before startDate: ` + "`upcoming`" + `
- after dueDate: ` + "`overdue`" + `
- less than 50% of the window elapsed: ` + "`relaxed`" + `
- less than 75%: ` + "`in_progress`" + `
- otherwise (including same-day windows): ` + "`imminent`" + `

## Dashboard counts

- completed: progress == 100
- in progress: startDate <= today <= endDate and progress < 100
- upcoming: startDate > today
- overdue: dueDate < today and progress < 100
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
