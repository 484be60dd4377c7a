/*
Package sqlite provides the SQLite-backed implementation of the tracker
storage interfaces.

PURPOSE:
  Implements tracker.Store (tasks, books, journal entries, exam units,
  users) on SQLite. In production the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

KEY TABLES:
  tasks:           One row per (user, date, template title)
  books:           Reading log
  journal_entries: At most one row per (user, date)
  exam_units:      Upserted unit statuses, keyed (user, subject, unit)
  users:           Accounts for the session layer

UNIQUENESS:
  Composite constraints back the synchronization loops:
  - idx_tasks_user_date_title: UNIQUE(user_id, date, title). Two sessions
    synchronizing the same day race on insert; the loser gets a
    constraint violation and re-fetches instead of double-inserting.
  - idx_journal_user_date: UNIQUE(user_id, date). One journal entry
    per day, enforced at the store rather than trusted to callers.
  Violations surface as tracker.ErrDuplicateTask / tracker.ErrDuplicateEntry.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety plus WAL mode for concurrent
  readers at the file level.

USAGE:
  store, err := sqlite.New("./data/ninety.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - tracker/store.go: Interface definitions
  - tracker/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ghostmode/ninety/tracker"
)

// Store implements tracker.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store backed by the database at path. Use ":memory:" for
// an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Daily checklist rows
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		date TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		time_spent TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	-- CRITICAL: one row per (user, date, template title)
	CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_user_date_title
		ON tasks(user_id, date, title);

	CREATE INDEX IF NOT EXISTS idx_tasks_user_date
		ON tasks(user_id, date);

	-- Completion aggregates (stats hot path)
	CREATE INDEX IF NOT EXISTS idx_tasks_user_completed
		ON tasks(user_id, completed);

	-- Reading log
	CREATE TABLE IF NOT EXISTS books (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		author TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'To Read',
		lesson TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_books_user
		ON books(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_books_user_status
		ON books(user_id, status);

	-- Journal: at most one entry per (user, day)
	CREATE TABLE IF NOT EXISTS journal_entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		well TEXT NOT NULL DEFAULT '',
		avoided TEXT NOT NULL DEFAULT '',
		lesson TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_journal_user_date
		ON journal_entries(user_id, date);

	-- Exam unit statuses, the identity is the triple itself
	CREATE TABLE IF NOT EXISTS exam_units (
		user_id TEXT NOT NULL,
		subject TEXT NOT NULL,
		unit_number INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'Not Started',
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, subject, unit_number)
	);

	-- Accounts
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TASK STORE (tracker.TaskStore interface)
// =============================================================================

// TasksForDay returns all tasks for (user, date), oldest insert first.
func (s *Store) TasksForDay(ctx context.Context, user tracker.UserID, date tracker.Date) ([]tracker.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, user_id, title, date, completed, time_spent, note
		FROM tasks
		WHERE user_id = ? AND date = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, string(user), date.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []tracker.Task
	for rows.Next() {
		var t tracker.Task
		var dateStr string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &dateStr, &t.Completed, &t.TimeSpent, &t.Note); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.Date, _ = tracker.ParseDate(dateStr)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// InsertTasks creates the given rows atomically. A uniqueness violation
// on any row aborts the whole batch with ErrDuplicateTask.
func (s *Store) InsertTasks(ctx context.Context, tasks []tracker.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	query := `
		INSERT INTO tasks (id, user_id, title, date, completed, time_spent, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC().Format(time.RFC3339)
	for _, t := range tasks {
		id := t.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := sqlTx.ExecContext(ctx, query,
			id, string(t.UserID), t.Title, t.Date.String(),
			t.Completed, t.TimeSpent, t.Note, now,
		); err != nil {
			if isUniqueConstraintError(err) {
				return tracker.ErrDuplicateTask
			}
			return fmt.Errorf("failed to insert task: %w", err)
		}
	}

	return sqlTx.Commit()
}

// SetCompleted updates the completion flag of one task.
func (s *Store) SetCompleted(ctx context.Context, id string, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET completed = ? WHERE id = ?", completed, id)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireRow(res)
}

// SetField updates one freeform text field of a task. Only whitelisted
// columns are writable this way.
func (s *Store) SetField(ctx context.Context, id, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var query string
	switch field {
	case "time_spent":
		query = "UPDATE tasks SET time_spent = ? WHERE id = ?"
	case "note":
		query = "UPDATE tasks SET note = ? WHERE id = ?"
	default:
		return fmt.Errorf("unknown task field %q", field)
	}

	res, err := s.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", field, err)
	}
	return requireRow(res)
}

// EarliestTaskDate returns the user's oldest task date, zero when the
// user has no tasks at all.
func (s *Store) EarliestTaskDate(ctx context.Context, user tracker.UserID) (tracker.Date, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var dateStr string
	err := s.db.QueryRowContext(ctx,
		"SELECT date FROM tasks WHERE user_id = ? ORDER BY date ASC LIMIT 1",
		string(user),
	).Scan(&dateStr)

	if err == sql.ErrNoRows {
		return tracker.Date{}, nil
	}
	if err != nil {
		return tracker.Date{}, err
	}
	return tracker.ParseDate(dateStr)
}

// CompletionsByDate returns completed-task counts bucketed by date
// string. Dates with rows but no completions appear with a zero count.
func (s *Store) CompletionsByDate(ctx context.Context, user tracker.UserID) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT date, SUM(CASE WHEN completed THEN 1 ELSE 0 END)
		FROM tasks
		WHERE user_id = ?
		GROUP BY date
	`

	rows, err := s.db.QueryContext(ctx, query, string(user))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := make(map[string]int)
	for rows.Next() {
		var date string
		var count int
		if err := rows.Scan(&date, &count); err != nil {
			return nil, err
		}
		buckets[date] = count
	}
	return buckets, rows.Err()
}

// CountCompleted returns the total number of completed tasks across all
// days.
func (s *Store) CountCompleted(ctx context.Context, user tracker.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tasks WHERE user_id = ? AND completed = TRUE",
		string(user),
	).Scan(&count)
	return count, err
}

// =============================================================================
// BOOK STORE (tracker.BookStore interface)
// =============================================================================

// BooksByUser returns all books for a user, newest first.
func (s *Store) BooksByUser(ctx context.Context, user tracker.UserID) ([]tracker.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, user_id, title, author, status, lesson, created_at
		FROM books
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, string(user))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []tracker.Book
	for rows.Next() {
		var b tracker.Book
		var createdAt string
		if err := rows.Scan(&b.ID, &b.UserID, &b.Title, &b.Author, &b.Status, &b.Lesson, &createdAt); err != nil {
			return nil, err
		}
		b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		books = append(books, b)
	}
	return books, rows.Err()
}

// InsertBook creates a book and returns it with its assigned id.
func (s *Store) InsertBook(ctx context.Context, b tracker.Book) (tracker.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO books (id, user_id, title, author, status, lesson, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, string(b.UserID), b.Title, b.Author, b.Status, b.Lesson,
		b.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return tracker.Book{}, fmt.Errorf("failed to insert book: %w", err)
	}
	return b, nil
}

// SetBookStatus updates a book's status.
func (s *Store) SetBookStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE books SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("failed to update book status: %w", err)
	}
	return requireRow(res)
}

// SetBookLesson updates a book's lesson text.
func (s *Store) SetBookLesson(ctx context.Context, id, lesson string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE books SET lesson = ? WHERE id = ?", lesson, id)
	if err != nil {
		return fmt.Errorf("failed to update book lesson: %w", err)
	}
	return requireRow(res)
}

// DeleteBook removes a book. Deleting an absent id is not an error.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM books WHERE id = ?", id)
	return err
}

// CountFinished returns the number of finished books.
func (s *Store) CountFinished(ctx context.Context, user tracker.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM books WHERE user_id = ? AND status = ?",
		string(user), tracker.BookFinished,
	).Scan(&count)
	return count, err
}

// =============================================================================
// JOURNAL STORE (tracker.JournalStore interface)
// =============================================================================

// EntryForDay returns the entry for (user, date), or (nil, nil) when the
// day has no entry yet.
func (s *Store) EntryForDay(ctx context.Context, user tracker.UserID, date tracker.Date) (*tracker.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var e tracker.JournalEntry
	var dateStr string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, date, well, avoided, lesson
		 FROM journal_entries WHERE user_id = ? AND date = ?`,
		string(user), date.String(),
	).Scan(&e.ID, &e.UserID, &dateStr, &e.Well, &e.Avoided, &e.Lesson)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	e.Date, _ = tracker.ParseDate(dateStr)
	return &e, nil
}

// InsertEntry creates a journal entry and returns it with its id. A
// second insert for the same (user, day) fails with ErrDuplicateEntry.
func (s *Store) InsertEntry(ctx context.Context, e tracker.JournalEntry) (tracker.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO journal_entries (id, user_id, date, well, avoided, lesson, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.UserID), e.Date.String(), e.Well, e.Avoided, e.Lesson, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return tracker.JournalEntry{}, tracker.ErrDuplicateEntry
		}
		return tracker.JournalEntry{}, fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return e, nil
}

// UpdateEntry overwrites the text fields of an entry by id.
func (s *Store) UpdateEntry(ctx context.Context, e tracker.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE journal_entries SET well = ?, avoided = ?, lesson = ?, updated_at = ?
		 WHERE id = ?`,
		e.Well, e.Avoided, e.Lesson, time.Now().UTC().Format(time.RFC3339), e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update journal entry: %w", err)
	}
	return requireRow(res)
}

// =============================================================================
// EXAM STORE (tracker.ExamStore interface)
// =============================================================================

// UnitsByUser returns all persisted unit statuses for a user.
func (s *Store) UnitsByUser(ctx context.Context, user tracker.UserID) ([]tracker.ExamUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT user_id, subject, unit_number, status
		FROM exam_units
		WHERE user_id = ?
		ORDER BY subject ASC, unit_number ASC
	`

	rows, err := s.db.QueryContext(ctx, query, string(user))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []tracker.ExamUnit
	for rows.Next() {
		var u tracker.ExamUnit
		if err := rows.Scan(&u.UserID, &u.Subject, &u.UnitNumber, &u.Status); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// UpsertUnit writes a unit status. A conflict on the identity triple
// overwrites the status in place.
func (s *Store) UpsertUnit(ctx context.Context, u tracker.ExamUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO exam_units (user_id, subject, unit_number, status, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, subject, unit_number) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		string(u.UserID), u.Subject, u.UnitNumber, u.Status,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// =============================================================================
// USER STORE (tracker.UserStore interface)
// =============================================================================

// UserByEmail returns the account for an email, or (nil, nil).
func (s *Store) UserByEmail(ctx context.Context, email string) (*tracker.User, error) {
	return s.userBy(ctx, "email", email)
}

// UserByID returns the account for an id, or (nil, nil).
func (s *Store) UserByID(ctx context.Context, id string) (*tracker.User, error) {
	return s.userBy(ctx, "id", id)
}

func (s *Store) userBy(ctx context.Context, column, value string) (*tracker.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u tracker.User
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE "+column+" = ?",
		value,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &u, nil
}

// SaveUser inserts or updates an account.
func (s *Store) SaveUser(ctx context.Context, u tracker.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			password_hash = excluded.password_hash
	`

	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt.Format(time.RFC3339))
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

// requireRow maps a zero-row update to ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return tracker.ErrNotFound
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
