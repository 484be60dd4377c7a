/*
sync.go - Daily task synchronization

PURPOSE:
  Reconciles the fixed daily template against the persisted rows for one
  (user, day): creates missing rows with default fields, merges template
  metadata with persisted state, and exposes the optimistic mutation
  operations (toggle, field edit, blur save) over the merged list.

SYNCHRONIZATION PROTOCOL:
  1. Fetch all task rows for (user, day).
  2. Compute the template titles missing from the fetched set.
  3. If any are missing, insert one default row per missing title and
     re-fetch. This is a bounded loop of two passes, not unbounded
     recursion: the second fetch finds zero missing titles unless a
     concurrent writer is racing, and a duplicate-key rejection from such
     a race is absorbed by re-fetching.
  4. Merge: each template entry takes all fields from its persisted
     counterpart; template-only metadata (key, grouping, target) always
     comes from the template. Result order = template order.

MUTATIONS:
  Toggle:      optimistic flip, one write attempt, revert on failure.
  UpdateField: local only (per keystroke); never writes.
  SaveField:   explicit write-through (on blur); the local value is kept
               even when the write fails - freeform text, not a counter.

SEE ALSO:
  - tracker/optimistic.go: The two-phase mutation helper Toggle uses
  - store/sqlite/sqlite.go: The uniqueness constraint backing step 3
*/
package mission

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ghostmode/ninety/tracker"
)

// TaskView is one merged checklist entry: the persisted row (when one
// exists) plus the template metadata it was reconciled against.
type TaskView struct {
	tracker.Task
	Key     string
	HasTime bool
	Target  string
}

// DayState is the in-memory ordered task list for one (user, day).
// Mutations apply here first, then write through to the store.
type DayState struct {
	User  tracker.UserID
	Date  tracker.Date
	Tasks []TaskView
}

// Synchronizer reconciles daily state against the task store.
type Synchronizer struct {
	store tracker.TaskStore
}

func NewSynchronizer(store tracker.TaskStore) *Synchronizer {
	return &Synchronizer{store: store}
}

// syncPasses bounds the fetch/insert/re-fetch loop. Two passes suffice:
// the second fetch sees every row the first pass inserted.
const syncPasses = 2

// SyncDay produces the merged, template-ordered task list for (user, day),
// creating any rows the day is missing. Running it twice in a row inserts
// nothing the second time.
func (s *Synchronizer) SyncDay(ctx context.Context, user tracker.UserID, date tracker.Date) (*DayState, error) {
	var rows []tracker.Task

	for pass := 0; pass < syncPasses; pass++ {
		var err error
		rows, err = s.store.TasksForDay(ctx, user, date)
		if err != nil {
			return nil, err
		}

		missing := missingTitles(rows)
		if len(missing) == 0 {
			break
		}

		defaults := make([]tracker.Task, 0, len(missing))
		for _, title := range missing {
			defaults = append(defaults, tracker.Task{
				UserID:    user,
				Title:     title,
				Date:      date,
				Completed: false,
				TimeSpent: "",
				Note:      "",
			})
		}

		if err := s.store.InsertTasks(ctx, defaults); err != nil {
			// A concurrent synchronizer for the same user already created
			// the rows; the re-fetch picks them up.
			if !tracker.IsDuplicate(err) {
				return nil, err
			}
		}
	}

	return &DayState{User: user, Date: date, Tasks: merge(rows)}, nil
}

// missingTitles returns template titles absent from the fetched rows.
func missingTitles(rows []tracker.Task) []string {
	present := make(map[string]bool, len(rows))
	for _, r := range rows {
		present[r.Title] = true
	}

	var missing []string
	for _, tt := range Template() {
		if !present[tt.Title] {
			missing = append(missing, tt.Title)
		}
	}
	return missing
}

// merge pairs each template entry with its persisted row by title. A
// template entry with no row (should not occur after SyncDay converges)
// yields a view with an empty ID; mutations on it are silently ignored.
func merge(rows []tracker.Task) []TaskView {
	byTitle := make(map[string]tracker.Task, len(rows))
	for _, r := range rows {
		byTitle[r.Title] = r
	}

	views := make([]TaskView, 0, TemplateSize())
	for _, tt := range Template() {
		view := TaskView{Key: tt.Key, HasTime: tt.HasTime, Target: tt.Target}
		if row, ok := byTitle[tt.Title]; ok {
			view.Task = row
		} else {
			view.Task = tracker.Task{Title: tt.Title}
		}
		views = append(views, view)
	}
	return views
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Toggle flips the completion state of the task with the given id:
// optimistically in the day state, then persisted. On write failure the
// local flip is reverted and the error returned. A task with no persisted
// id ignores the request.
func (s *Synchronizer) Toggle(ctx context.Context, day *DayState, id string, current bool) error {
	i := day.indexOf(id)
	if i < 0 {
		return nil
	}

	mut := tracker.Apply(current, !current)
	day.Tasks[i].Completed = mut.Tentative

	err := s.store.SetCompleted(ctx, id, !current)
	day.Tasks[i].Completed = mut.Resolve(err)
	return err
}

// UpdateField updates a freeform field in the day state only. Called per
// keystroke; the write happens later through SaveField.
func (s *Synchronizer) UpdateField(day *DayState, id, field, value string) {
	i := day.indexOf(id)
	if i < 0 {
		return
	}
	day.Tasks[i].setField(field, value)
}

// SaveField persists a freeform field. The local value survives a failed
// write; there is nothing derived to corrupt.
func (s *Synchronizer) SaveField(ctx context.Context, day *DayState, id, field, value string) error {
	i := day.indexOf(id)
	if i < 0 {
		return nil
	}
	day.Tasks[i].setField(field, value)
	return s.store.SetField(ctx, id, field, value)
}

func (v *TaskView) setField(field, value string) {
	switch field {
	case "time_spent":
		v.TimeSpent = value
	case "note":
		v.Note = value
	}
}

func (d *DayState) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// =============================================================================
// PROGRESS
// =============================================================================

// CompletedCount counts completed tasks in the merged list. Progress is
// always derived from here, never fetched as a separate aggregate.
func (d *DayState) CompletedCount() int {
	count := 0
	for _, t := range d.Tasks {
		if t.Completed {
			count++
		}
	}
	return count
}

// Progress returns completed/template-size as a percentage.
func (d *DayState) Progress() decimal.Decimal {
	return decimal.NewFromInt(int64(d.CompletedCount())).
		Div(decimal.NewFromInt(int64(TemplateSize()))).
		Mul(decimal.NewFromInt(100))
}

// MissionComplete reports whether every template task is done.
func (d *DayState) MissionComplete() bool {
	return d.CompletedCount() == TemplateSize()
}
