/*
consistency.go - Trailing-window activity aggregation

PURPOSE:
  Buckets task-completion rows by date and derives the 90-day consistency
  grid: one intensity score per trailing calendar day ending today, oldest
  first. Intensity is a derived, bucketed visualization score - it is
  never persisted.

THRESHOLDS:
  completions 0    -> 0
  completions 1-3  -> 0.4
  completions 4    -> 0.7
  completions >=5  -> 1.0
  Evaluated in ascending order; a later threshold overrides an earlier
  one. The per-day completion count is bounded by the template size, so
  these cutoffs assume a five-task template.
*/
package mission

import (
	"github.com/shopspring/decimal"

	"github.com/ghostmode/ninety/tracker"
)

// WindowDays is the length of the consistency grid.
const WindowDays = 90

// DayIntensity is one cell of the consistency grid.
type DayIntensity struct {
	Date      tracker.Date
	Intensity decimal.Decimal
}

var (
	intensityLow  = decimal.NewFromFloat(0.4)
	intensityMid  = decimal.NewFromFloat(0.7)
	intensityFull = decimal.NewFromInt(1)
)

// Intensity maps a day's completion count to its grid score.
func Intensity(completions int) decimal.Decimal {
	score := decimal.Zero
	if completions > 0 {
		score = intensityLow
	}
	if completions > 3 {
		score = intensityMid
	}
	if completions >= 5 {
		score = intensityFull
	}
	return score
}

// ConsistencyGrid builds the trailing window from per-date completion
// buckets. Index 0 is the oldest of the WindowDays days; the last index
// is today.
func ConsistencyGrid(buckets map[string]int, today tracker.Date) []DayIntensity {
	grid := make([]DayIntensity, 0, WindowDays)
	for i := 0; i < WindowDays; i++ {
		date := today.AddDays(-i)
		grid = append(grid, DayIntensity{
			Date:      date,
			Intensity: Intensity(buckets[date.String()]),
		})
	}

	// Built newest-first; flip so the grid reads oldest to newest.
	for i, j := 0, len(grid)-1; i < j; i, j = i+1, j-1 {
		grid[i], grid[j] = grid[j], grid[i]
	}
	return grid
}

// ActiveDays counts dates with at least one completion.
func ActiveDays(buckets map[string]int) int {
	count := 0
	for _, completions := range buckets {
		if completions > 0 {
			count++
		}
	}
	return count
}

// CompletionRate returns activeDays over the program length as a rounded
// percentage.
func CompletionRate(activeDays int) decimal.Decimal {
	return decimal.NewFromInt(int64(activeDays)).
		Div(decimal.NewFromInt(ProgramDays)).
		Mul(decimal.NewFromInt(100)).
		Round(0)
}
