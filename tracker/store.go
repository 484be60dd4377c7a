/*
store.go - Persistence interfaces for all tracker entities

PURPOSE:
  Defines the boundary between the domain packages and the database.
  Every filter in this system is an equality filter on user_id plus at
  most one secondary field (date, id, status) - the interfaces encode
  exactly that shape and nothing more general.

KEY INTERFACES:
  TaskStore:    Daily checklist rows (select by user+date, insert batch,
                patch by id, earliest-date probe, completion aggregates)
  BookStore:    Reading log CRUD
  JournalStore: Singleton-per-day entries (zero-or-one fetch)
  ExamStore:    Upsert-only unit statuses
  UserStore:    Accounts for the session layer

NOT-FOUND CONVENTION:
  Single-row getters return (nil, nil) when no row matches. Absence is a
  normal empty state, not an error.

IMPLEMENTATIONS:
  - store/sqlite:  Production SQLite
  - tracker/store: In-memory for tests, with write-failure injection

SEE ALSO:
  - store/sqlite/sqlite.go: Concrete implementation and schema
  - mission/sync.go: The only multi-step protocol over these interfaces
*/
package tracker

import "context"

// TaskStore persists daily checklist rows.
type TaskStore interface {
	// TasksForDay returns all tasks for (user, date), in no particular
	// order; callers merge against the template to impose ordering.
	TasksForDay(ctx context.Context, user UserID, date Date) ([]Task, error)

	// InsertTasks creates the given rows. Fails with ErrDuplicateTask if
	// any (user, date, title) already exists.
	InsertTasks(ctx context.Context, tasks []Task) error

	// SetCompleted updates the completion flag of one task by id.
	SetCompleted(ctx context.Context, id string, completed bool) error

	// SetField updates one freeform text field ("time_spent" or "note").
	SetField(ctx context.Context, id, field, value string) error

	// EarliestTaskDate returns the date of the user's oldest task row,
	// or a zero Date when the user has no tasks yet.
	EarliestTaskDate(ctx context.Context, user UserID) (Date, error)

	// CompletionsByDate returns completed-task counts bucketed by date.
	CompletionsByDate(ctx context.Context, user UserID) (map[string]int, error)

	// CountCompleted returns the total number of completed tasks.
	CountCompleted(ctx context.Context, user UserID) (int, error)
}

// BookStore persists reading-log entries.
type BookStore interface {
	// BooksByUser returns all books, newest first.
	BooksByUser(ctx context.Context, user UserID) ([]Book, error)

	// InsertBook creates a book and returns it with its assigned id.
	InsertBook(ctx context.Context, b Book) (Book, error)

	// SetBookStatus updates the status of one book by id.
	SetBookStatus(ctx context.Context, id, status string) error

	// SetBookLesson updates the lesson text of one book by id.
	SetBookLesson(ctx context.Context, id, lesson string) error

	// DeleteBook removes a book by id.
	DeleteBook(ctx context.Context, id string) error

	// CountFinished returns the number of books with status Finished.
	CountFinished(ctx context.Context, user UserID) (int, error)
}

// JournalStore persists the singleton-per-day entries.
type JournalStore interface {
	// EntryForDay returns the entry for (user, date), or (nil, nil) when
	// none exists.
	EntryForDay(ctx context.Context, user UserID, date Date) (*JournalEntry, error)

	// InsertEntry creates an entry and returns it with its assigned id.
	// Fails with ErrDuplicateEntry if the day already has one.
	InsertEntry(ctx context.Context, e JournalEntry) (JournalEntry, error)

	// UpdateEntry overwrites the text fields of an entry by id.
	UpdateEntry(ctx context.Context, e JournalEntry) error
}

// ExamStore persists unit statuses. Upsert-only: conflict on the
// (user, subject, unit_number) triple overwrites status.
type ExamStore interface {
	// UnitsByUser returns all persisted unit statuses for a user.
	UnitsByUser(ctx context.Context, user UserID) ([]ExamUnit, error)

	// UpsertUnit writes a unit status, inserting or overwriting.
	UpsertUnit(ctx context.Context, u ExamUnit) error
}

// UserStore persists accounts.
type UserStore interface {
	// UserByEmail returns the account for an email, or (nil, nil).
	UserByEmail(ctx context.Context, email string) (*User, error)

	// UserByID returns the account for an id, or (nil, nil).
	UserByID(ctx context.Context, id string) (*User, error)

	// SaveUser inserts or updates an account.
	SaveUser(ctx context.Context, u User) error
}

// Store aggregates every interface; both implementations satisfy it.
type Store interface {
	TaskStore
	BookStore
	JournalStore
	ExamStore
	UserStore
}
