package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultColor is assigned to projects created without a display color.
const DefaultColor = "#3b82f6"

// Project is a client order tracked on the production schedule.
type Project struct {
	ID              int64             `json:"id" validate:"gt=0"`
	Client          string            `json:"client"`
	ProductName     string            `json:"productName"`
	RawMaterial     string            `json:"rawMaterial,omitempty"`
	Capacity        float64           `json:"capacity" validate:"gte=0"`
	StartDate       string            `json:"startDate" validate:"isodate"`
	EndDate         string            `json:"endDate" validate:"isodate"`
	DueDate         string            `json:"dueDate" validate:"isodate"`
	IncludeHolidays bool              `json:"includeHolidays"`
	Progress        int               `json:"progress" validate:"gte=0,lte=100"`
	Color           string            `json:"color" validate:"omitempty,hexcolor"`
	Manager         Manager           `json:"manager"`
	Note            string            `json:"note"`
	DailyProduction []ProductionEntry `json:"dailyProduction" validate:"dive"`
}

// UnmarshalJSON accepts capacity and progress either as JSON numbers or as
// numeric strings. Documents written by the old browser form hold the raw
// input values, such as "capacity":"500". Empty strings and null read as 0.
func (p *Project) UnmarshalJSON(data []byte) error {
	type plain Project
	var raw struct {
		plain
		Capacity json.RawMessage `json:"capacity"`
		Progress json.RawMessage `json:"progress"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	capacity, err := looseNumber(raw.Capacity)
	if err != nil {
		return fmt.Errorf("project %d capacity: %w", raw.ID, err)
	}
	progress, err := looseNumber(raw.Progress)
	if err != nil {
		return fmt.Errorf("project %d progress: %w", raw.ID, err)
	}

	*p = Project(raw.plain)
	p.Capacity = capacity
	p.Progress = int(math.Round(progress))
	return nil
}

func looseNumber(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] != '"' {
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, err
		}
		return n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return n, nil
}

// Manager names the people responsible for each stage of an order.
type Manager struct {
	Production string `json:"production"`
	Admin      string `json:"admin"`
	Delivery   string `json:"delivery"`
}

// ProductionEntry is one day of recorded output.
type ProductionEntry struct {
	Date   string  `json:"date" validate:"isodate"`
	Amount float64 `json:"amount" validate:"gte=0"`
}

// Document is the whole stored project collection with its write version.
type Document struct {
	Projects  []Project `json:"projects"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MaxID returns the largest project ID in the collection, or 0 when empty.
func MaxID(projects []Project) int64 {
	var highest int64
	for _, p := range projects {
		if p.ID > highest {
			highest = p.ID
		}
	}
	return highest
}
