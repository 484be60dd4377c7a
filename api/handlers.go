/*
handlers.go - HTTP API handlers for the accountability tracker

PURPOSE:
  Exposes the tracker via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to domain logic.

ENDPOINTS:
  Session:
    POST   /api/auth/login             Open a session (JWT cookie)
    POST   /api/auth/logout            Clear the session cookie
    GET    /api/auth/me                Current account

  Daily mission:
    GET    /api/daily                  Synchronize and return the day's tasks
    POST   /api/daily/tasks/{id}/toggle  Flip a task's completion flag
    PUT    /api/daily/tasks/{id}/field   Save time_spent or note
    All three take ?date=YYYY-MM-DD, defaulting to today, so a mutation
    always resolves the same day state the task id came from.

  Dashboard:
    GET    /api/home                   Day counter and plan of the day
    GET    /api/stats                  All-time aggregates and grid

  Exams:
    GET    /api/exams                  Syllabus board with unit statuses
    POST   /api/exams/toggle           Flip one unit's status

  Journal:
    GET    /api/journal/today          Today's entry (may be blank)
    PUT    /api/journal/today          Save today's entry

  Books:
    GET    /api/books                  Reading log, newest first
    POST   /api/books                  Add a book
    PUT    /api/books/{id}/status      Move between reading states
    PUT    /api/books/{id}/lesson      Save lesson text
    DELETE /api/books/{id}             Remove a book

  Rules:
    GET    /api/rules                  Static ruleset

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Sessions: Cookie JWT layer
  - Cached session state (exam boards, notebooks, libraries, day
    states) for optimistic toggle semantics. Day-scoped state (days,
    notebooks) is keyed by (user, date) so a date rollover starts a
    fresh synchronization instead of reusing yesterday's state.

LOCKING:
  mu serializes ALL access to the cached session state: cache lookup,
  domain mutation, and DTO construction happen under the lock. Store
  implementations carry their own locks, so holding mu across a store
  call cannot deadlock.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 401: Missing or invalid session
  - 404: Resource not found
  - 409: Conflict (duplicate day entry)
  - 500: Internal errors
  State-bearing toggles (task completed, exam status) revert the cached
  value on a failed write; the response then carries the reverted truth.

SECURITY NOTE:
  Identity comes from the session cookie, but NO enforcement middleware
  is mounted: every data route answers without a valid session being
  required by the router. Sessions.RequireUser exists for when that
  changes.

SEE ALSO:
  - dto.go: Request/response data structures
  - session.go: Cookie JWT and password hashing
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ghostmode/ninety/books"
	"github.com/ghostmode/ninety/exams"
	"github.com/ghostmode/ninety/journal"
	"github.com/ghostmode/ninety/mission"
	"github.com/ghostmode/ninety/rules"
	"github.com/ghostmode/ninety/tracker"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// dayKey identifies one user's view of one day. Every day-scoped cache
// uses it; caching day-scoped state by user alone would leak yesterday's
// state (and a stale journal entry id) past midnight.
type dayKey struct {
	user tracker.UserID
	date string
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    tracker.Store
	Sessions *Sessions

	// Now is the clock; tests pin it.
	Now func() time.Time

	missions *mission.Synchronizer

	// Cached session state. Optimistic toggles mutate these and revert
	// on write failure; fetch handlers rebuild them from the store.
	// mu must be held for every read or write of the maps AND of the
	// cached values themselves.
	mu        sync.Mutex
	days      map[dayKey]*mission.DayState
	boards    map[tracker.UserID]*exams.Board
	notebooks map[dayKey]*journal.Notebook
	libraries map[tracker.UserID]*books.Library
}

// NewHandler creates a new handler with the given store and sessions.
func NewHandler(store tracker.Store, sessions *Sessions) *Handler {
	return &Handler{
		Store:     store,
		Sessions:  sessions,
		Now:       time.Now,
		missions:  mission.NewSynchronizer(store),
		days:      make(map[dayKey]*mission.DayState),
		boards:    make(map[tracker.UserID]*exams.Board),
		notebooks: make(map[dayKey]*journal.Notebook),
		libraries: make(map[tracker.UserID]*books.Library),
	}
}

// currentUser resolves the requesting user, writing a 401 on failure.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (*tracker.User, bool) {
	u, err := h.Sessions.CurrentUser(r.Context(), r, h.Store)
	if err != nil {
		if errors.Is(err, tracker.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		} else {
			writeError(w, http.StatusInternalServerError, "Failed to resolve session", err)
		}
		return nil, false
	}
	return u, true
}

// requestDate resolves the ?date= query parameter, defaulting to today.
func (h *Handler) requestDate(r *http.Request) (tracker.Date, error) {
	if q := r.URL.Query().Get("date"); q != "" {
		return tracker.ParseDate(q)
	}
	return tracker.DateOf(h.Now()), nil
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

// Login checks credentials and sets the session cookie.
// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required", nil)
		return
	}

	u, err := h.Store.UserByEmail(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to look up user", err)
		return
	}
	if u == nil || !CheckPassword(u.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	token, err := h.Sessions.Sign(u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to sign session", err)
		return
	}
	h.Sessions.SetCookie(w, token)

	writeJSON(w, http.StatusOK, UserDTO{ID: u.ID, Email: u.Email})
}

// Logout clears the session cookie.
// POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the current account.
// GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, UserDTO{ID: u.ID, Email: u.Email})
}

// =============================================================================
// DAILY MISSION HANDLERS
// =============================================================================

// GetDaily synchronizes the day's checklist against the template and
// returns it. Missing template rows are created; nothing is deleted.
// GET /api/daily?date=2006-01-02 (defaults to today)
func (h *Handler) GetDaily(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	date, err := h.requestDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, want YYYY-MM-DD", err)
		return
	}
	user := tracker.UserID(u.ID)

	day, err := h.missions.SyncDay(r.Context(), user, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to synchronize day", err)
		return
	}

	// Encode before publishing to the cache so no concurrent mutation
	// can race the encoding.
	dto := toDailyDTO(day)

	h.mu.Lock()
	h.days[dayKey{user, date.String()}] = day
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, dto)
}

// ToggleTask flips a task's completion flag relative to the client's
// current view, against the same day the id was synchronized from. A
// failed write reverts the cached value; the response carries whatever
// the flag actually is afterwards.
// POST /api/daily/tasks/{id}/toggle?date=2006-01-02 (defaults to today)
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req ToggleTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := h.requestDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, want YYYY-MM-DD", err)
		return
	}

	h.mu.Lock()
	day, err := h.dayFor(r.Context(), tracker.UserID(u.ID), date)
	if err != nil {
		h.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "Failed to load day", err)
		return
	}
	terr := h.missions.Toggle(r.Context(), day, id, req.Completed)
	dto := toDailyDTO(day)
	h.mu.Unlock()

	if terr != nil {
		log.Printf("toggle task %s: write failed, reverted: %v", id, terr)
	}
	writeJSON(w, http.StatusOK, dto)
}

// SaveTaskField persists time_spent or note. Freeform text keeps the
// local value even when the write fails.
// PUT /api/daily/tasks/{id}/field?date=2006-01-02 (defaults to today)
func (h *Handler) SaveTaskField(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req SaveFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Field != "time_spent" && req.Field != "note" {
		writeError(w, http.StatusBadRequest, "Field must be time_spent or note", nil)
		return
	}
	date, err := h.requestDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, want YYYY-MM-DD", err)
		return
	}

	h.mu.Lock()
	day, err := h.dayFor(r.Context(), tracker.UserID(u.ID), date)
	if err != nil {
		h.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "Failed to load day", err)
		return
	}
	serr := h.missions.SaveField(r.Context(), day, id, req.Field, req.Value)
	dto := toDailyDTO(day)
	h.mu.Unlock()

	if serr != nil {
		log.Printf("save task %s %s: write failed, keeping local value: %v", id, req.Field, serr)
	}
	writeJSON(w, http.StatusOK, dto)
}

// dayFor returns the cached day state for (user, date), synchronizing
// on a cache miss (fresh process, or the date rolled over). Caller
// holds mu.
func (h *Handler) dayFor(ctx context.Context, user tracker.UserID, date tracker.Date) (*mission.DayState, error) {
	key := dayKey{user, date.String()}
	if day := h.days[key]; day != nil {
		return day, nil
	}

	day, err := h.missions.SyncDay(ctx, user, date)
	if err != nil {
		return nil, err
	}
	h.days[key] = day
	return day, nil
}

func toDailyDTO(day *mission.DayState) DailyDTO {
	dtos := make([]TaskDTO, len(day.Tasks))
	for i, t := range day.Tasks {
		dtos[i] = TaskDTO{
			ID:        t.ID,
			Key:       t.Key,
			Title:     t.Title,
			Date:      t.Date.String(),
			Completed: t.Completed,
			TimeSpent: t.TimeSpent,
			Note:      t.Note,
			HasTime:   t.HasTime,
			Target:    t.Target,
		}
	}
	return DailyDTO{
		Date:            day.Date.String(),
		Tasks:           dtos,
		CompletedCount:  day.CompletedCount(),
		Progress:        day.Progress().StringFixed(0),
		MissionComplete: day.MissionComplete(),
	}
}

// =============================================================================
// DASHBOARD HANDLERS
// =============================================================================

// GetHome returns the day counter and the plan banner.
// GET /api/home
func (h *Handler) GetHome(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	now := h.Now()
	count, err := mission.DayCount(r.Context(), h.Store, tracker.UserID(u.ID), now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute day count", err)
		return
	}

	writeJSON(w, http.StatusOK, HomeDTO{
		DayCount:    count,
		ProgramDays: mission.ProgramDays,
		PlanOfDay:   exams.PlanOfDay(now),
		Date:        tracker.DateOf(now).String(),
	})
}

// GetStats returns all-time aggregates and the consistency grid.
// GET /api/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	user := tracker.UserID(u.ID)

	missions, err := h.Store.CountCompleted(ctx, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count completions", err)
		return
	}

	finished, err := h.Store.CountFinished(ctx, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count books", err)
		return
	}

	buckets, err := h.Store.CompletionsByDate(ctx, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load completion history", err)
		return
	}

	active := mission.ActiveDays(buckets)
	grid := mission.ConsistencyGrid(buckets, tracker.DateOf(h.Now()))

	cells := make([]GridCellDTO, len(grid))
	for i, g := range grid {
		cells[i] = GridCellDTO{
			Date:      g.Date.String(),
			Intensity: g.Intensity.String(),
		}
	}

	writeJSON(w, http.StatusOK, StatsDTO{
		MissionsCompleted: missions,
		BooksFinished:     finished,
		ActiveDays:        active,
		CompletionRate:    mission.CompletionRate(active).StringFixed(0),
		Grid:              cells,
	})
}

// =============================================================================
// EXAM HANDLERS
// =============================================================================

// GetExams returns the syllabus board with persisted unit statuses.
// GET /api/exams
func (h *Handler) GetExams(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	board, err := h.boardFor(r.Context(), tracker.UserID(u.ID))
	if err != nil {
		h.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "Failed to load exam board", err)
		return
	}
	dto := h.toBoardDTO(board)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, dto)
}

// ToggleUnit flips one unit between Not Started and Completed. A failed
// write reverts the cached status.
// POST /api/exams/toggle
func (h *Handler) ToggleUnit(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req ToggleUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !validUnit(req.Subject, req.Index) {
		writeError(w, http.StatusBadRequest, "Unknown subject or unit index", nil)
		return
	}

	user := tracker.UserID(u.ID)

	h.mu.Lock()
	board, err := h.boardFor(r.Context(), user)
	if err != nil {
		h.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "Failed to load exam board", err)
		return
	}
	done := board.Done(req.Subject, req.Index)
	terr := board.Toggle(r.Context(), user, req.Subject, req.Index, done)
	dto := h.toBoardDTO(board)
	h.mu.Unlock()

	if terr != nil {
		log.Printf("toggle unit %s: write failed, reverted: %v", exams.Key(req.Subject, req.Index), terr)
	}
	writeJSON(w, http.StatusOK, dto)
}

// boardFor returns the cached board, loading from the store on a cache
// miss. Caller holds mu.
func (h *Handler) boardFor(ctx context.Context, user tracker.UserID) (*exams.Board, error) {
	if board := h.boards[user]; board != nil {
		return board, nil
	}

	board := exams.NewBoard(h.Store)
	if err := board.Load(ctx, user); err != nil {
		return nil, err
	}
	h.boards[user] = board
	return board, nil
}

func validUnit(subject string, index int) bool {
	for _, s := range exams.Syllabus() {
		if s.Name == subject {
			return index >= 0 && index < len(s.Units)
		}
	}
	return false
}

func (h *Handler) toBoardDTO(board *exams.Board) ExamBoardDTO {
	syllabus := exams.Syllabus()
	subjects := make([]ExamSubjectDTO, len(syllabus))
	for i, s := range syllabus {
		units := make([]ExamUnitDTO, len(s.Units))
		for j, title := range s.Units {
			units[j] = ExamUnitDTO{
				Title:  title,
				Status: board.Status(s.Name, j),
				Done:   board.Done(s.Name, j),
			}
		}
		subjects[i] = ExamSubjectDTO{Name: s.Name, Units: units}
	}
	return ExamBoardDTO{
		Subjects:  subjects,
		PlanOfDay: exams.PlanOfDay(h.Now()),
	}
}

// =============================================================================
// JOURNAL HANDLERS
// =============================================================================

// GetJournal returns today's entry draft. A missing entry is a normal
// blank state, not a 404.
// GET /api/journal/today
func (h *Handler) GetJournal(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	now := h.Now()
	today := tracker.DateOf(now)

	h.mu.Lock()
	nb, err := h.notebookFor(r.Context(), tracker.UserID(u.ID), today)
	if err != nil {
		h.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "Failed to load journal", err)
		return
	}
	dto := toJournalDTO(nb, today, now)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, dto)
}

// SaveJournal overwrites today's draft and persists it. The first save
// of a day inserts; every later save of the same day updates that row.
// PUT /api/journal/today
func (h *Handler) SaveJournal(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req SaveJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	now := h.Now()
	today := tracker.DateOf(now)
	user := tracker.UserID(u.ID)

	h.mu.Lock()
	nb, err := h.notebookFor(r.Context(), user, today)
	if err != nil {
		h.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "Failed to load journal", err)
		return
	}

	nb.Edit("well", req.Well)
	nb.Edit("avoided", req.Avoided)
	nb.Edit("lesson", req.Lesson)

	if serr := nb.Save(r.Context(), user, today, now); serr != nil {
		if tracker.IsDuplicate(serr) {
			// Lost an insert race with another session; the day already
			// has a row. Rebuild from the store and report the conflict.
			delete(h.notebooks, dayKey{user, today.String()})
			h.mu.Unlock()
			writeError(w, http.StatusConflict, "Entry already exists for today", serr)
			return
		}
		h.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "Failed to save entry", serr)
		return
	}

	dto := toJournalDTO(nb, today, now)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, dto)
}

// notebookFor returns the cached notebook for (user, today), fetching
// the day's entry on a cache miss. Keyed by day: yesterday's notebook
// holds yesterday's entry id, and reusing it past midnight would update
// yesterday's row instead of inserting today's. Caller holds mu.
func (h *Handler) notebookFor(ctx context.Context, user tracker.UserID, today tracker.Date) (*journal.Notebook, error) {
	key := dayKey{user, today.String()}
	if nb := h.notebooks[key]; nb != nil {
		return nb, nil
	}

	nb := journal.NewNotebook(h.Store)
	if err := nb.FetchToday(ctx, user, today); err != nil {
		return nil, err
	}
	h.notebooks[key] = nb
	return nb, nil
}

func toJournalDTO(nb *journal.Notebook, today tracker.Date, now time.Time) JournalDTO {
	return JournalDTO{
		Date:    today.String(),
		Well:    nb.Entry.Well,
		Avoided: nb.Entry.Avoided,
		Lesson:  nb.Entry.Lesson,
		Saved:   nb.Saved(now),
	}
}

// =============================================================================
// BOOK HANDLERS
// =============================================================================

// ListBooks returns the reading log, newest first.
// GET /api/books
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	lib, err := h.libraryFor(r.Context(), tracker.UserID(u.ID), true)
	if err != nil {
		h.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "Failed to load books", err)
		return
	}
	dto := toBookDTOs(lib.Books)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, dto)
}

// AddBook creates a book in status "To Read". A blank title is ignored
// without an error, matching the quick-add affordance.
// POST /api/books
func (h *Handler) AddBook(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req AddBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user := tracker.UserID(u.ID)

	h.mu.Lock()
	lib, err := h.libraryFor(r.Context(), user, false)
	if err != nil {
		h.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "Failed to load books", err)
		return
	}
	if _, err := lib.Add(r.Context(), user, req.Title, req.Author); err != nil {
		h.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "Failed to add book", err)
		return
	}
	dto := toBookDTOs(lib.Books)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, dto)
}

// SetBookStatus moves a book between reading states. On a failed write
// the list is rebuilt from the store, discarding the optimistic change.
// PUT /api/books/{id}/status
func (h *Handler) SetBookStatus(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req SetBookStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !validBookStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "Unknown book status", nil)
		return
	}

	user := tracker.UserID(u.ID)

	h.mu.Lock()
	lib, err := h.libraryFor(r.Context(), user, false)
	if err != nil {
		h.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "Failed to load books", err)
		return
	}
	serr := lib.SetStatus(r.Context(), user, id, req.Status)
	dto := toBookDTOs(lib.Books)
	h.mu.Unlock()

	if serr != nil {
		log.Printf("set book %s status: write failed, re-fetched: %v", id, serr)
	}
	writeJSON(w, http.StatusOK, dto)
}

// SetBookLesson saves the lesson text of a book. Freeform text, so no
// rollback on failure.
// PUT /api/books/{id}/lesson
func (h *Handler) SetBookLesson(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req SetBookLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	lib, err := h.libraryFor(r.Context(), tracker.UserID(u.ID), false)
	if err != nil {
		h.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "Failed to load books", err)
		return
	}
	serr := lib.SaveLesson(r.Context(), id, req.Lesson)
	dto := toBookDTOs(lib.Books)
	h.mu.Unlock()

	if serr != nil {
		log.Printf("save book %s lesson: write failed, keeping local value: %v", id, serr)
	}
	writeJSON(w, http.StatusOK, dto)
}

// DeleteBook removes a book. On a failed delete the list is rebuilt
// from the store, restoring the row.
// DELETE /api/books/{id}
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	user := tracker.UserID(u.ID)

	h.mu.Lock()
	lib, err := h.libraryFor(r.Context(), user, false)
	if err != nil {
		h.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "Failed to load books", err)
		return
	}
	derr := lib.Delete(r.Context(), user, id)
	dto := toBookDTOs(lib.Books)
	h.mu.Unlock()

	if derr != nil {
		log.Printf("delete book %s: write failed, re-fetched: %v", id, derr)
	}
	writeJSON(w, http.StatusOK, dto)
}

// libraryFor returns the cached library. refresh forces a re-fetch so
// GET always reflects the store. Caller holds mu.
func (h *Handler) libraryFor(ctx context.Context, user tracker.UserID, refresh bool) (*books.Library, error) {
	lib := h.libraries[user]
	if lib == nil {
		lib = books.NewLibrary(h.Store)
		refresh = true
	}
	if refresh {
		if err := lib.Fetch(ctx, user); err != nil {
			return nil, err
		}
	}
	h.libraries[user] = lib
	return lib, nil
}

func validBookStatus(status string) bool {
	switch status {
	case tracker.BookToRead, tracker.BookReading, tracker.BookFinished:
		return true
	}
	return false
}

func toBookDTOs(list []tracker.Book) []BookDTO {
	dtos := make([]BookDTO, len(list))
	for i, b := range list {
		dtos[i] = BookDTO{
			ID:     b.ID,
			Title:  b.Title,
			Author: b.Author,
			Status: b.Status,
			Lesson: b.Lesson,
		}
	}
	return dtos
}

// =============================================================================
// RULES HANDLER
// =============================================================================

// GetRules returns the static ruleset.
// GET /api/rules
func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RulesDTO{
		Rules:  rules.List(),
		Status: rules.Status,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
