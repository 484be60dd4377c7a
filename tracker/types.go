/*
types.go - Core entity types for the accountability tracker

PURPOSE:
  Defines the persisted entities shared by every domain package. All rows
  are owned by exactly one UserID; there is no cross-user visibility and
  no entity references another except through the store.

ENTITIES:
  Task:         One row per (user, date, template title). Created by the
                daily synchronizer, toggled and annotated through the day.
  Book:         Reading-log entry with a three-state status.
  JournalEntry: At most one free-text entry per (user, date).
  ExamUnit:     Status of one syllabus unit, keyed (user, subject, unit).
  User:         Account record for the session layer.

SEE ALSO:
  - store.go: Persistence interfaces over these types
  - mission/, exams/, journal/, books/: Domain logic
*/
package tracker

import "time"

// UserID identifies the owner of every row. Opaque to the core logic;
// every operation takes it explicitly rather than reading ambient state.
type UserID string

// Task is one daily checklist row. Title is unique within (user, date).
type Task struct {
	ID        string
	UserID    UserID
	Title     string
	Date      Date
	Completed bool
	TimeSpent string
	Note      string
}

// Book statuses. Stored as strings, never as enums in the schema.
const (
	BookToRead   = "To Read"
	BookReading  = "Reading"
	BookFinished = "Finished"
)

// Book is a reading-log entry.
type Book struct {
	ID        string
	UserID    UserID
	Title     string
	Author    string
	Status    string
	Lesson    string
	CreatedAt time.Time
}

// JournalEntry is the singleton-per-day reflection record.
type JournalEntry struct {
	ID      string
	UserID  UserID
	Date    Date
	Well    string
	Avoided string
	Lesson  string
}

// Exam unit statuses.
const (
	UnitNotStarted = "Not Started"
	UnitCompleted  = "Completed"
)

// ExamUnit is the persisted status of one syllabus unit.
// Identity is the (UserID, Subject, UnitNumber) triple; UnitNumber is
// 1-based.
type ExamUnit struct {
	UserID     UserID
	Subject    string
	UnitNumber int
	Status     string
}

// User is an account for the session layer.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
