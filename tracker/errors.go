/*
errors.go - Centralized error types for the tracker core

PURPOSE:
  All sentinel errors in one place. Domain packages wrap these with
  additional context; handlers map them to HTTP statuses.

ERROR CATEGORIES:
  1. Not-found - A zero-or-one fetch returned nothing. This is a normal
     empty state almost everywhere (journal, single-row getters) and is
     only an error when a caller insists on presence.
  2. Write failures - Inserts/updates/upserts rejected by the store.
     State-bearing optimistic mutations revert on these.
  3. Uniqueness violations - The composite keys that keep the daily
     template and the journal singleton honest.

USAGE:
    if errors.Is(err, tracker.ErrDuplicateTask) {
        // second writer already created this (user, date, title) row
    }
*/
package tracker

import "errors"

var (
	// ErrNotFound is returned when a row expected by id does not exist.
	// Zero-or-one fetches (journal today, earliest task) return (nil, nil)
	// instead; absence there is not an error.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateTask is returned when an insert collides with the
	// (user_id, date, title) uniqueness constraint. A concurrent
	// synchronizer pass already created the row; safe to re-fetch.
	ErrDuplicateTask = errors.New("task already exists for this user, date and title")

	// ErrDuplicateEntry is returned when a second journal entry is
	// inserted for the same (user_id, date).
	ErrDuplicateEntry = errors.New("journal entry already exists for this day")

	// ErrNoTaskID guards mutations against task views that were never
	// persisted. Should not occur after synchronization converges.
	ErrNoTaskID = errors.New("task has no persisted id")

	// ErrInvalidCredentials is returned by the session layer on a failed
	// sign-in. Deliberately does not distinguish unknown user from bad
	// password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// IsDuplicate reports whether err is one of the composite-uniqueness
// violations. Callers treat these as "another writer got there first".
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateTask) || errors.Is(err, ErrDuplicateEntry)
}
