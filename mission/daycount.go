package mission

import (
	"context"
	"time"

	"github.com/ghostmode/ninety/tracker"
)

// ProgramDays is the length of the program.
const ProgramDays = 90

// DayCount derives "day N of 90" from the user's earliest task row. There
// is no persisted program start date; the start is implicitly the first
// day any task was created, so the count is only retroactively stable
// once task history exists. No tasks yet means day 1.
func DayCount(ctx context.Context, store tracker.TaskStore, user tracker.UserID, now time.Time) (int, error) {
	earliest, err := store.EarliestTaskDate(ctx, user)
	if err != nil {
		return 1, err
	}
	if earliest.IsZero() {
		return 1, nil
	}

	days := earliest.DaysUntil(now)
	if days < 1 {
		days = 1
	}
	return days, nil
}
