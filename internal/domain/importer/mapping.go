package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/prodsched/internal/domain/project"
	"github.com/rpggio/prodsched/internal/domain/schedule"
	"github.com/xuri/excelize/v2"
)

// Palette is cycled by row index to colour imported projects.
var Palette = []string{
	"#3b82f6", "#10b981", "#ef4444", "#f59e0b", "#8b5cf6",
	"#ec4899", "#14b8a6", "#f97316", "#6366f1", "#84cc16",
}

// Candidate source headers per field, in priority order.
var (
	clientColumns      = []string{"고객사", "거래처명", "client"}
	productColumns     = []string{"품목명", "제품명", "productName"}
	capacityColumns    = []string{"수량", "capacity"}
	startColumns       = []string{"시작일", "일자", "startDate"}
	dueColumns         = []string{"납기일", "종료일", "dueDate"}
	endColumns         = []string{"endDate"}
	rawMaterialColumns = []string{"원자재", "rawMaterial"}
	noteColumns        = []string{"비고", "note"}
	progressColumns    = []string{"진행률", "progress"}
	sharedManager      = "담당자"
	productionColumns  = []string{"생산담당"}
	adminColumns       = []string{"관리담당"}
	deliveryColumns    = []string{"배송담당"}
)

// RowError reports a rejected row by its sheet row number.
type RowError struct {
	Line int    `json:"row"`
	Err  string `json:"error"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Line, e.Err)
}

// Result holds the converted projects and the rows that were skipped.
type Result struct {
	Projects []project.Project
	Skipped  []RowError
}

// Convert maps records to projects. IDs continue from maxID by row index and
// the colour cycles through Palette by the same index.
func Convert(records []Record, maxID int64, today schedule.Date) Result {
	res := Result{Projects: []project.Project{}}
	for i, rec := range records {
		p, err := convertRow(rec, today)
		if err != nil {
			res.Skipped = append(res.Skipped, RowError{Line: rec.Line, Err: err.Error()})
			continue
		}
		p.ID = maxID + int64(i) + 1
		p.Color = Palette[i%len(Palette)]
		res.Projects = append(res.Projects, p)
	}
	return res
}

func convertRow(rec Record, today schedule.Date) (project.Project, error) {
	start := today.String()
	if raw := first(rec, startColumns); raw != "" {
		d, err := normalizeDate(raw)
		if err != nil {
			return project.Project{}, fmt.Errorf("start date %q: %w", raw, err)
		}
		start = d
	}

	due := start
	if raw := first(rec, dueColumns); raw != "" {
		d, err := normalizeDate(raw)
		if err != nil {
			return project.Project{}, fmt.Errorf("due date %q: %w", raw, err)
		}
		due = d
	}

	end := due
	if raw := first(rec, endColumns); raw != "" {
		d, err := normalizeDate(raw)
		if err != nil {
			return project.Project{}, fmt.Errorf("end date %q: %w", raw, err)
		}
		end = d
	}

	progress := 0
	if raw := first(rec, progressColumns); raw != "" {
		v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
		if err != nil || v < 0 || v > 100 {
			return project.Project{}, fmt.Errorf("progress %q must be a number between 0 and 100", raw)
		}
		progress = int(math.Round(v))
	}

	return project.Project{
		Client:          first(rec, clientColumns),
		ProductName:     first(rec, productColumns),
		RawMaterial:     first(rec, rawMaterialColumns),
		Capacity:        parseCapacity(first(rec, capacityColumns)),
		StartDate:       start,
		EndDate:         end,
		DueDate:         due,
		IncludeHolidays: false,
		Progress:        progress,
		Manager:         managers(rec),
		Note:            first(rec, noteColumns),
		DailyProduction: []project.ProductionEntry{},
	}, nil
}

// managers resolves the three roles. A shared "담당자" cell of the form
// "a, b" assigns production to a and admin and delivery to b.
func managers(rec Record) project.Manager {
	var shared []string
	for _, part := range strings.Split(rec.Value(sharedManager), ",") {
		if part = strings.TrimSpace(part); part != "" {
			shared = append(shared, part)
		}
	}
	lead, second := "", ""
	if len(shared) > 0 {
		lead, second = shared[0], shared[0]
	}
	if len(shared) > 1 {
		second = shared[1]
	}

	return project.Manager{
		Production: firstNonEmpty(lead, first(rec, productionColumns)),
		Admin:      firstNonEmpty(first(rec, adminColumns), second),
		Delivery:   firstNonEmpty(first(rec, deliveryColumns), second),
	}
}

var dateLayouts = []string{"2006-01-02", "2006-1-2", "20060102"}

// normalizeDate accepts "2026/02/06", "2026-2-6", an order number such as
// "2026/02/06 -1" or an Excel serial day number.
func normalizeDate(raw string) (string, error) {
	token := strings.Fields(raw)[0]
	token = strings.ReplaceAll(token, "/", "-")
	token = strings.ReplaceAll(token, ".", "-")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t.Format(schedule.DateLayout), nil
		}
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 && serial < 2958466 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return t.Format(schedule.DateLayout), nil
		}
	}
	return "", schedule.ErrInvalidDate
}

func parseCapacity(raw string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func first(rec Record, headers []string) string {
	for _, h := range headers {
		if v := rec.Value(h); v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
