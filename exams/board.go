/*
board.go - Exam unit progress tracking

PURPOSE:
  Maps the flat (subject, unit-index) key space onto persisted unit
  statuses. Each unit is independent: toggling one never touches another.
  The board holds the local status mapping that mutations update
  optimistically before the upsert is issued.

KEY CONTRACT:
  Storage keys use 1-based unit numbers; callers pass 0-based indexes
  into a subject's unit slice. Key() performs the translation exactly
  once - everything else works in one space or the other, never both.
*/
package exams

import (
	"context"
	"fmt"

	"github.com/ghostmode/ninety/tracker"
)

// Board is the in-memory status mapping for one user, keyed
// "subject-unitNumber".
type Board struct {
	store tracker.ExamStore
	units map[string]string
}

func NewBoard(store tracker.ExamStore) *Board {
	return &Board{store: store, units: make(map[string]string)}
}

// Key builds the flat map key for a subject and 0-based unit index.
func Key(subject string, index int) string {
	return fmt.Sprintf("%s-%d", subject, index+1)
}

// Load replaces the local mapping with the persisted statuses.
func (b *Board) Load(ctx context.Context, user tracker.UserID) error {
	units, err := b.store.UnitsByUser(ctx, user)
	if err != nil {
		return err
	}

	b.units = make(map[string]string, len(units))
	for _, u := range units {
		b.units[fmt.Sprintf("%s-%d", u.Subject, u.UnitNumber)] = u.Status
	}
	return nil
}

// Status returns a unit's status, defaulting to Not Started when the
// unit has never been written.
func (b *Board) Status(subject string, index int) string {
	if s, ok := b.units[Key(subject, index)]; ok {
		return s
	}
	return tracker.UnitNotStarted
}

// Done reports whether the unit is completed.
func (b *Board) Done(subject string, index int) bool {
	return b.Status(subject, index) == tracker.UnitCompleted
}

// Toggle flips a unit between Not Started and Completed: optimistically
// in the local mapping, then as an upsert on the (user, subject,
// unit_number) triple. On write failure the mapping entry reverts to its
// prior status. Two toggles are a no-op on persisted state.
func (b *Board) Toggle(ctx context.Context, user tracker.UserID, subject string, index int, currentlyDone bool) error {
	prior := tracker.UnitNotStarted
	next := tracker.UnitCompleted
	if currentlyDone {
		prior, next = next, prior
	}

	key := Key(subject, index)
	mut := tracker.Apply(prior, next)
	b.units[key] = mut.Tentative

	err := b.store.UpsertUnit(ctx, tracker.ExamUnit{
		UserID:     user,
		Subject:    subject,
		UnitNumber: index + 1,
		Status:     next,
	})
	b.units[key] = mut.Resolve(err)
	return err
}
