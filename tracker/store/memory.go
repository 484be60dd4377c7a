// Package store provides an in-memory tracker.Store for tests and dev.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ghostmode/ninety/tracker"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements tracker.Store with maps. WriteErr, when set, makes
// every write fail with that error - used to exercise revert paths.
type Memory struct {
	mu      sync.RWMutex
	tasks   map[string]*tracker.Task // by id
	books   map[string]*tracker.Book
	entries map[string]*tracker.JournalEntry
	units   map[unitKey]tracker.ExamUnit
	users   map[string]tracker.User // by id

	// WriteErr injects a failure into every mutating call.
	WriteErr error
}

type unitKey struct {
	User    tracker.UserID
	Subject string
	Unit    int
}

func NewMemory() *Memory {
	return &Memory{
		tasks:   make(map[string]*tracker.Task),
		books:   make(map[string]*tracker.Book),
		entries: make(map[string]*tracker.JournalEntry),
		units:   make(map[unitKey]tracker.ExamUnit),
		users:   make(map[string]tracker.User),
	}
}

// =============================================================================
// TASK STORE
// =============================================================================

func (m *Memory) TasksForDay(_ context.Context, user tracker.UserID, date tracker.Date) ([]tracker.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []tracker.Task
	for _, t := range m.tasks {
		if t.UserID == user && t.Date.Equal(date) {
			out = append(out, *t)
		}
	}
	// Stable order for deterministic tests; callers re-order by template.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) InsertTasks(_ context.Context, tasks []tracker.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}

	// Enforce (user, date, title) uniqueness before writing anything.
	for _, nt := range tasks {
		for _, t := range m.tasks {
			if t.UserID == nt.UserID && t.Date.Equal(nt.Date) && t.Title == nt.Title {
				return tracker.ErrDuplicateTask
			}
		}
	}

	for _, nt := range tasks {
		t := nt
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		m.tasks[t.ID] = &t
	}
	return nil
}

func (m *Memory) SetCompleted(_ context.Context, id string, completed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	t, ok := m.tasks[id]
	if !ok {
		return tracker.ErrNotFound
	}
	t.Completed = completed
	return nil
}

func (m *Memory) SetField(_ context.Context, id, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	t, ok := m.tasks[id]
	if !ok {
		return tracker.ErrNotFound
	}
	switch field {
	case "time_spent":
		t.TimeSpent = value
	case "note":
		t.Note = value
	}
	return nil
}

func (m *Memory) EarliestTaskDate(_ context.Context, user tracker.UserID) (tracker.Date, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var earliest tracker.Date
	for _, t := range m.tasks {
		if t.UserID != user {
			continue
		}
		if earliest.IsZero() || t.Date.Before(earliest) {
			earliest = t.Date
		}
	}
	return earliest, nil
}

func (m *Memory) CompletionsByDate(_ context.Context, user tracker.UserID) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	buckets := make(map[string]int)
	for _, t := range m.tasks {
		if t.UserID != user {
			continue
		}
		day := t.Date.String()
		if _, ok := buckets[day]; !ok {
			buckets[day] = 0
		}
		if t.Completed {
			buckets[day]++
		}
	}
	return buckets, nil
}

func (m *Memory) CountCompleted(_ context.Context, user tracker.UserID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, t := range m.tasks {
		if t.UserID == user && t.Completed {
			count++
		}
	}
	return count, nil
}

// =============================================================================
// BOOK STORE
// =============================================================================

func (m *Memory) BooksByUser(_ context.Context, user tracker.UserID) ([]tracker.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []tracker.Book
	for _, b := range m.books {
		if b.UserID == user {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) InsertBook(_ context.Context, b tracker.Book) (tracker.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return tracker.Book{}, m.WriteErr
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	m.books[b.ID] = &b
	return b, nil
}

func (m *Memory) SetBookStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	b, ok := m.books[id]
	if !ok {
		return tracker.ErrNotFound
	}
	b.Status = status
	return nil
}

func (m *Memory) SetBookLesson(_ context.Context, id, lesson string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	b, ok := m.books[id]
	if !ok {
		return tracker.ErrNotFound
	}
	b.Lesson = lesson
	return nil
}

func (m *Memory) DeleteBook(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	delete(m.books, id)
	return nil
}

func (m *Memory) CountFinished(_ context.Context, user tracker.UserID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, b := range m.books {
		if b.UserID == user && b.Status == tracker.BookFinished {
			count++
		}
	}
	return count, nil
}

// =============================================================================
// JOURNAL STORE
// =============================================================================

func (m *Memory) EntryForDay(_ context.Context, user tracker.UserID, date tracker.Date) (*tracker.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.entries {
		if e.UserID == user && e.Date.Equal(date) {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (m *Memory) InsertEntry(_ context.Context, e tracker.JournalEntry) (tracker.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return tracker.JournalEntry{}, m.WriteErr
	}
	for _, existing := range m.entries {
		if existing.UserID == e.UserID && existing.Date.Equal(e.Date) {
			return tracker.JournalEntry{}, tracker.ErrDuplicateEntry
		}
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m.entries[e.ID] = &e
	return e, nil
}

func (m *Memory) UpdateEntry(_ context.Context, e tracker.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	existing, ok := m.entries[e.ID]
	if !ok {
		return tracker.ErrNotFound
	}
	existing.Well = e.Well
	existing.Avoided = e.Avoided
	existing.Lesson = e.Lesson
	return nil
}

// =============================================================================
// EXAM STORE
// =============================================================================

func (m *Memory) UnitsByUser(_ context.Context, user tracker.UserID) ([]tracker.ExamUnit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []tracker.ExamUnit
	for k, u := range m.units {
		if k.User == user {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Subject != out[j].Subject {
			return out[i].Subject < out[j].Subject
		}
		return out[i].UnitNumber < out[j].UnitNumber
	})
	return out, nil
}

func (m *Memory) UpsertUnit(_ context.Context, u tracker.ExamUnit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.units[unitKey{User: u.UserID, Subject: u.Subject, Unit: u.UnitNumber}] = u
	return nil
}

// =============================================================================
// USER STORE
// =============================================================================

func (m *Memory) UserByEmail(_ context.Context, email string) (*tracker.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			c := u
			return &c, nil
		}
	}
	return nil, nil
}

func (m *Memory) UserByID(_ context.Context, id string) (*tracker.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	c := u
	return &c, nil
}

func (m *Memory) SaveUser(_ context.Context, u tracker.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	m.users[u.ID] = u
	return nil
}
