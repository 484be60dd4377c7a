/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

// =============================================================================
// SESSION
// =============================================================================

// LoginRequest is the request to open a session.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserDTO represents the authenticated user in API responses. The
// password hash never leaves the store.
type UserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// =============================================================================
// DAILY MISSION
// =============================================================================

// TaskDTO represents one checklist row.
type TaskDTO struct {
	ID        string `json:"id"`
	Key       string `json:"key"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	TimeSpent string `json:"time_spent"`
	Note      string `json:"note"`
	HasTime   bool   `json:"has_time"`
	Target    string `json:"target"`
}

// DailyDTO is the full state of one day's mission.
type DailyDTO struct {
	Date            string    `json:"date"`
	Tasks           []TaskDTO `json:"tasks"`
	CompletedCount  int       `json:"completed_count"`
	Progress        string    `json:"progress"`
	MissionComplete bool      `json:"mission_complete"`
}

// ToggleTaskRequest carries the client's current view of the flag, so
// the server flips relative to what the client saw.
type ToggleTaskRequest struct {
	Completed bool `json:"completed"`
}

// SaveFieldRequest sets one freeform text field on a task.
type SaveFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// =============================================================================
// HOME / STATS
// =============================================================================

// HomeDTO is the dashboard header state.
type HomeDTO struct {
	DayCount    int    `json:"day_count"`
	ProgramDays int    `json:"program_days"`
	PlanOfDay   string `json:"plan_of_day"`
	Date        string `json:"date"`
}

// GridCellDTO is one day of the consistency grid.
type GridCellDTO struct {
	Date      string `json:"date"`
	Intensity string `json:"intensity"`
}

// StatsDTO aggregates all-time progress.
type StatsDTO struct {
	MissionsCompleted int           `json:"missions_completed"`
	BooksFinished     int           `json:"books_finished"`
	ActiveDays        int           `json:"active_days"`
	CompletionRate    string        `json:"completion_rate"`
	Grid              []GridCellDTO `json:"grid"`
}

// =============================================================================
// EXAMS
// =============================================================================

// ExamUnitDTO is one unit cell of the exam board.
type ExamUnitDTO struct {
	Title  string `json:"title"`
	Status string `json:"status"`
	Done   bool   `json:"done"`
}

// ExamSubjectDTO is one subject row with its units in syllabus order.
type ExamSubjectDTO struct {
	Name  string        `json:"name"`
	Units []ExamUnitDTO `json:"units"`
}

// ExamBoardDTO is the whole board plus the plan banner.
type ExamBoardDTO struct {
	Subjects  []ExamSubjectDTO `json:"subjects"`
	PlanOfDay string           `json:"plan_of_day"`
}

// ToggleUnitRequest identifies a unit by subject name and zero-based
// position within the subject.
type ToggleUnitRequest struct {
	Subject string `json:"subject"`
	Index   int    `json:"index"`
}

// =============================================================================
// JOURNAL
// =============================================================================

// JournalDTO is today's entry draft and save state.
type JournalDTO struct {
	Date    string `json:"date"`
	Well    string `json:"well"`
	Avoided string `json:"avoided"`
	Lesson  string `json:"lesson"`
	Saved   bool   `json:"saved"`
}

// SaveJournalRequest overwrites the whole draft and persists it.
type SaveJournalRequest struct {
	Well    string `json:"well"`
	Avoided string `json:"avoided"`
	Lesson  string `json:"lesson"`
}

// =============================================================================
// BOOKS
// =============================================================================

// BookDTO represents one reading-log row.
type BookDTO struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Status string `json:"status"`
	Lesson string `json:"lesson"`
}

// AddBookRequest creates a book in status "To Read".
type AddBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// SetBookStatusRequest moves a book between reading states.
type SetBookStatusRequest struct {
	Status string `json:"status"`
}

// SetBookLessonRequest saves the lesson text of a book.
type SetBookLessonRequest struct {
	Lesson string `json:"lesson"`
}

// =============================================================================
// RULES
// =============================================================================

// RulesDTO is the static ruleset and lock banner.
type RulesDTO struct {
	Rules  []string `json:"rules"`
	Status string   `json:"status"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
