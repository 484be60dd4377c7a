package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghostmode/ninety/store/sqlite"
	"github.com/ghostmode/ninety/tracker"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const testUser = tracker.UserID("u-1")

var testDay = tracker.NewDate(2026, time.February, 2)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func task(title string) tracker.Task {
	return tracker.Task{UserID: testUser, Title: title, Date: testDay}
}

// =============================================================================
// TASKS
// =============================================================================

func TestInsertAndFetchTasks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.InsertTasks(ctx, []tracker.Task{task("Deep Work"), task("Reading")})
	require.NoError(t, err)

	rows, err := store.TasksForDay(ctx, testUser, testDay)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.NotEmpty(t, row.ID)
		assert.Equal(t, testUser, row.UserID)
		assert.Equal(t, testDay.String(), row.Date.String())
		assert.False(t, row.Completed)
	}
}

func TestDuplicateTaskRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertTasks(ctx, []tracker.Task{task("Deep Work")}))

	// Same (user, date, title) again
	err := store.InsertTasks(ctx, []tracker.Task{task("Deep Work")})
	assert.ErrorIs(t, err, tracker.ErrDuplicateTask)

	// The failed batch must not have left partial rows
	rows, err := store.TasksForDay(ctx, testUser, testDay)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestDuplicateBatchIsAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertTasks(ctx, []tracker.Task{task("Deep Work")}))

	// A batch where only the second row collides rolls back entirely
	err := store.InsertTasks(ctx, []tracker.Task{task("Exercise"), task("Deep Work")})
	assert.ErrorIs(t, err, tracker.ErrDuplicateTask)

	rows, err := store.TasksForDay(ctx, testUser, testDay)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSameTitleDifferentDayAllowed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertTasks(ctx, []tracker.Task{task("Deep Work")}))

	next := task("Deep Work")
	next.Date = testDay.AddDays(1)
	assert.NoError(t, store.InsertTasks(ctx, []tracker.Task{next}))
}

func TestSetCompletedAndAggregates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertTasks(ctx, []tracker.Task{task("Deep Work"), task("Reading")}))
	rows, err := store.TasksForDay(ctx, testUser, testDay)
	require.NoError(t, err)

	require.NoError(t, store.SetCompleted(ctx, rows[0].ID, true))

	count, err := store.CountCompleted(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	buckets, err := store.CompletionsByDate(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, buckets[testDay.String()])
}

func TestSetCompletedUnknownIDIsNotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.SetCompleted(context.Background(), "missing", true)
	assert.ErrorIs(t, err, tracker.ErrNotFound)
}

func TestSetFieldWhitelist(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertTasks(ctx, []tracker.Task{task("Deep Work")}))
	rows, err := store.TasksForDay(ctx, testUser, testDay)
	require.NoError(t, err)
	id := rows[0].ID

	require.NoError(t, store.SetField(ctx, id, "note", "finished early"))
	require.NoError(t, store.SetField(ctx, id, "time_spent", "4 hrs"))
	assert.Error(t, store.SetField(ctx, id, "completed", "true"))

	rows, err = store.TasksForDay(ctx, testUser, testDay)
	require.NoError(t, err)
	assert.Equal(t, "finished early", rows[0].Note)
	assert.Equal(t, "4 hrs", rows[0].TimeSpent)
}

func TestEarliestTaskDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Empty store: zero date, no error
	earliest, err := store.EarliestTaskDate(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, earliest.IsZero())

	later := task("Deep Work")
	later.Date = testDay.AddDays(5)
	require.NoError(t, store.InsertTasks(ctx, []tracker.Task{later, task("Reading")}))

	earliest, err = store.EarliestTaskDate(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, testDay.String(), earliest.String())
}

// =============================================================================
// JOURNAL
// =============================================================================

func TestJournalSingletonPerDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry, err := store.InsertEntry(ctx, tracker.JournalEntry{
		UserID: testUser, Date: testDay, Well: "v1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)

	// Second insert for the same day is rejected
	_, err = store.InsertEntry(ctx, tracker.JournalEntry{
		UserID: testUser, Date: testDay, Well: "v2",
	})
	assert.ErrorIs(t, err, tracker.ErrDuplicateEntry)

	// Update by id is the only second write path
	entry.Lesson = "Start earlier"
	require.NoError(t, store.UpdateEntry(ctx, entry))

	got, err := store.EntryForDay(ctx, testUser, testDay)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, "Start earlier", got.Lesson)
}

func TestEntryForDayAbsentIsNilNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.EntryForDay(context.Background(), testUser, testDay)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// =============================================================================
// EXAM UNITS
// =============================================================================

func TestUpsertUnitOverwritesStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	unit := tracker.ExamUnit{
		UserID: testUser, Subject: "Engineering Physics", UnitNumber: 3,
		Status: tracker.UnitCompleted,
	}

	require.NoError(t, store.UpsertUnit(ctx, unit))

	unit.Status = tracker.UnitNotStarted
	require.NoError(t, store.UpsertUnit(ctx, unit))

	units, err := store.UnitsByUser(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, 3, units[0].UnitNumber)
	assert.Equal(t, tracker.UnitNotStarted, units[0].Status)
}

// =============================================================================
// BOOKS
// =============================================================================

func TestBookLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	b, err := store.InsertBook(ctx, tracker.Book{
		UserID: testUser, Title: "Deep Work", Status: tracker.BookToRead,
	})
	require.NoError(t, err)
	require.NotEmpty(t, b.ID)

	require.NoError(t, store.SetBookStatus(ctx, b.ID, tracker.BookFinished))
	require.NoError(t, store.SetBookLesson(ctx, b.ID, "focus is a skill"))

	count, err := store.CountFinished(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	list, err := store.BooksByUser(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "focus is a skill", list[0].Lesson)

	require.NoError(t, store.DeleteBook(ctx, b.ID))
	list, err = store.BooksByUser(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// =============================================================================
// USERS
// =============================================================================

func TestUserSaveAndLookup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, tracker.User{
		ID: "u-1", Email: "ghost@example.com", PasswordHash: "hash",
	}))

	byEmail, err := store.UserByEmail(ctx, "ghost@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "u-1", byEmail.ID)

	byID, err := store.UserByID(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, byID)

	missing, err := store.UserByID(ctx, "u-2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
