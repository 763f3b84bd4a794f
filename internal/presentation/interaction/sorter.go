package interaction

import (
	"sort"

	"github.com/penwyp/go-focus-monitor/internal/core/model"
)

// AppSorter orders usage rows for the live view and reports
type AppSorter struct {
	field model.SortField
}

// NewAppSorter creates a sorter for field
func NewAppSorter(field model.SortField) *AppSorter {
	return &AppSorter{field: field}
}

func (s *AppSorter) Field() model.SortField {
	return s.field
}

// Toggle switches between duration and last-used ordering
func (s *AppSorter) Toggle() model.SortField {
	if s.field == model.SortByDuration {
		s.field = model.SortByLastUsed
	} else {
		s.field = model.SortByDuration
	}
	return s.field
}

// Sort orders rows descending by the selected field. Ties fall back to the other
// field and then the application name so output is stable.
func (s *AppSorter) Sort(rows []model.AppUsage) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]

		switch s.field {
		case model.SortByLastUsed:
			if !a.LastUsed.Equal(b.LastUsed) {
				return a.LastUsed.After(b.LastUsed)
			}
			if a.Seconds != b.Seconds {
				return a.Seconds > b.Seconds
			}
		default:
			if a.Seconds != b.Seconds {
				return a.Seconds > b.Seconds
			}
			if !a.LastUsed.Equal(b.LastUsed) {
				return a.LastUsed.After(b.LastUsed)
			}
		}
		return a.App < b.App
	})
}

// Limit truncates rows to n entries; n <= 0 keeps everything
func Limit(rows []model.AppUsage, n int) []model.AppUsage {
	if n <= 0 || len(rows) <= n {
		return rows
	}
	return rows[:n]
}
