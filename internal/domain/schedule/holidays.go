package schedule

import (
	"fmt"
	"sort"
)

// HolidaySet is a fixed set of non-working calendar days. The zero value is
// an empty set, so weekends are the only non-working days.
type HolidaySet struct {
	days map[Date]struct{}
}

// NewHolidaySet builds a set from YYYY-MM-DD strings.
func NewHolidaySet(dates ...string) (HolidaySet, error) {
	set := HolidaySet{days: make(map[Date]struct{}, len(dates))}
	for _, s := range dates {
		d, err := ParseDate(s)
		if err != nil {
			return HolidaySet{}, fmt.Errorf("holiday %q: %w", s, err)
		}
		set.days[d] = struct{}{}
	}
	return set, nil
}

// Contains reports whether d is a listed holiday.
func (h HolidaySet) Contains(d Date) bool {
	_, ok := h.days[d]
	return ok
}

func (h HolidaySet) Len() int {
	return len(h.days)
}

// Dates returns the holidays in ascending order.
func (h HolidaySet) Dates() []Date {
	out := make([]Date, 0, len(h.days))
	for d := range h.days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Strings returns the holidays in ascending order as YYYY-MM-DD.
func (h HolidaySet) Strings() []string {
	dates := h.Dates()
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}
