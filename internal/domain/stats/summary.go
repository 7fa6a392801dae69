// Package stats derives the dashboard and progress-board views from the
// project collection. All functions are pure.
package stats

import (
	"cmp"
	"math"
	"slices"

	"github.com/rpggio/prodsched/internal/domain/project"
	"github.com/rpggio/prodsched/internal/domain/schedule"
)

// TopN bounds the client and product rankings.
const TopN = 5

// Summary is the dashboard overview.
type Summary struct {
	TotalProjects      int            `json:"totalProjects"`
	CompletedProjects  int            `json:"completedProjects"`
	InProgressProjects int            `json:"inProgressProjects"`
	UpcomingProjects   int            `json:"upcomingProjects"`
	OverdueProjects    int            `json:"overdueProjects"`
	AverageProgress    int            `json:"averageProgress"`
	ClientStats        []ClientStat   `json:"clientStats"`
	ProductStats       []ProductStat  `json:"productStats"`
	MonthlyProjects    []MonthlyCount `json:"monthlyProjects"`
}

type ClientStat struct {
	Client        string  `json:"client"`
	Count         int     `json:"count"`
	TotalCapacity float64 `json:"totalCapacity"`
}

type ProductStat struct {
	ProductName   string  `json:"productName"`
	Count         int     `json:"count"`
	TotalCapacity float64 `json:"totalCapacity"`
}

// MonthlyCount is the number of projects starting in a YYYY-MM month.
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Summarize computes the dashboard overview as of today.
func Summarize(projects []project.Project, today schedule.Date) Summary {
	s := Summary{
		TotalProjects:   len(projects),
		ClientStats:     []ClientStat{},
		ProductStats:    []ProductStat{},
		MonthlyProjects: []MonthlyCount{},
	}
	if len(projects) == 0 {
		return s
	}

	clients := newTally()
	products := newTally()
	monthly := map[string]int{}
	totalProgress := 0

	for _, p := range projects {
		totalProgress += p.Progress
		if p.Progress == 100 {
			s.CompletedProjects++
		}

		start, startErr := schedule.ParseDate(p.StartDate)
		end, endErr := schedule.ParseDate(p.EndDate)
		if startErr == nil && endErr == nil && !today.Before(start) && !today.After(end) && p.Progress < 100 {
			s.InProgressProjects++
		}
		if startErr == nil && start.After(today) {
			s.UpcomingProjects++
		}
		if due, err := schedule.ParseDate(p.DueDate); err == nil && today.After(due) && p.Progress < 100 {
			s.OverdueProjects++
		}
		if startErr == nil {
			monthly[start.String()[:7]]++
		}

		clients.add(p.Client, p.Capacity)
		products.add(p.ProductName, p.Capacity)
	}

	s.AverageProgress = int(math.Round(float64(totalProgress) / float64(len(projects))))

	for _, e := range clients.top(TopN) {
		s.ClientStats = append(s.ClientStats, ClientStat{Client: e.key, Count: e.count, TotalCapacity: e.capacity})
	}
	for _, e := range products.top(TopN) {
		s.ProductStats = append(s.ProductStats, ProductStat{ProductName: e.key, Count: e.count, TotalCapacity: e.capacity})
	}

	for month, count := range monthly {
		s.MonthlyProjects = append(s.MonthlyProjects, MonthlyCount{Month: month, Count: count})
	}
	slices.SortFunc(s.MonthlyProjects, func(a, b MonthlyCount) int {
		return cmp.Compare(a.Month, b.Month)
	})

	return s
}

type tallyEntry struct {
	key      string
	count    int
	capacity float64
}

// tally counts occurrences while remembering first-seen order so equal
// counts rank stably.
type tally struct {
	index   map[string]int
	entries []tallyEntry
}

func newTally() *tally {
	return &tally{index: map[string]int{}}
}

func (t *tally) add(key string, capacity float64) {
	i, ok := t.index[key]
	if !ok {
		i = len(t.entries)
		t.index[key] = i
		t.entries = append(t.entries, tallyEntry{key: key})
	}
	t.entries[i].count++
	if !math.IsNaN(capacity) && !math.IsInf(capacity, 0) {
		t.entries[i].capacity += capacity
	}
}

func (t *tally) top(n int) []tallyEntry {
	ranked := slices.Clone(t.entries)
	slices.SortStableFunc(ranked, func(a, b tallyEntry) int {
		return cmp.Compare(b.count, a.count)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
