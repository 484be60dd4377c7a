package exams_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghostmode/ninety/exams"
	"github.com/ghostmode/ninety/tracker"
	memstore "github.com/ghostmode/ninety/tracker/store"
)

const testUser = tracker.UserID("u-1")

func newTestBoard(t *testing.T) (*exams.Board, *memstore.Memory) {
	t.Helper()

	store := memstore.NewMemory()
	board := exams.NewBoard(store)
	if err := board.Load(context.Background(), testUser); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return board, store
}

// =============================================================================
// KEY CONTRACT
// =============================================================================

func TestKeyIsOneBased(t *testing.T) {
	if got := exams.Key("Engineering Physics", 0); got != "Engineering Physics-1" {
		t.Errorf("Key index 0 = %q, want unit number 1", got)
	}
	if got := exams.Key("Engineering Physics", 4); got != "Engineering Physics-5" {
		t.Errorf("Key index 4 = %q, want unit number 5", got)
	}
}

// =============================================================================
// TOGGLE
// =============================================================================

func TestTogglePersistsOneBasedUnitNumber(t *testing.T) {
	// GIVEN a fresh board
	board, store := newTestBoard(t)
	ctx := context.Background()
	subject := "Engineering Physics"

	// WHEN the third unit (index 2) is toggled on
	if err := board.Toggle(ctx, testUser, subject, 2, board.Done(subject, 2)); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	// THEN exactly one row exists with unit_number 3 and status Completed
	units, err := store.UnitsByUser(ctx, testUser)
	if err != nil {
		t.Fatalf("UnitsByUser failed: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("expected 1 unit row, got %d", len(units))
	}
	u := units[0]
	if u.Subject != subject || u.UnitNumber != 3 || u.Status != tracker.UnitCompleted {
		t.Errorf("unexpected row: %+v", u)
	}

	if !board.Done(subject, 2) {
		t.Error("expected local status to be done")
	}
	if board.Done(subject, 1) || board.Done(subject, 3) {
		t.Error("toggling one unit must not touch its neighbors")
	}
}

func TestDoubleToggleRoundTrips(t *testing.T) {
	board, store := newTestBoard(t)
	ctx := context.Background()
	subject := "C Programming"

	if err := board.Toggle(ctx, testUser, subject, 0, board.Done(subject, 0)); err != nil {
		t.Fatalf("first Toggle failed: %v", err)
	}
	if err := board.Toggle(ctx, testUser, subject, 0, board.Done(subject, 0)); err != nil {
		t.Fatalf("second Toggle failed: %v", err)
	}

	if board.Done(subject, 0) {
		t.Error("expected unit back to not started")
	}
	units, _ := store.UnitsByUser(ctx, testUser)
	if len(units) != 1 || units[0].Status != tracker.UnitNotStarted {
		t.Errorf("expected one Not Started row, got %+v", units)
	}
}

func TestToggleRevertsOnWriteFailure(t *testing.T) {
	// GIVEN a store that rejects writes
	board, store := newTestBoard(t)
	store.WriteErr = errors.New("disk full")
	subject := "English"

	// WHEN a toggle is attempted
	err := board.Toggle(context.Background(), testUser, subject, 0, false)

	// THEN the error surfaces and the local status is back to prior
	if err == nil {
		t.Fatal("expected an error from the failed write")
	}
	if board.Done(subject, 0) {
		t.Error("expected local status to revert")
	}
}

func TestStatusDefaultsToNotStarted(t *testing.T) {
	board, _ := newTestBoard(t)

	for _, s := range exams.Syllabus() {
		for i := range s.Units {
			if got := board.Status(s.Name, i); got != tracker.UnitNotStarted {
				t.Errorf("%s unit %d: expected default status, got %q", s.Name, i, got)
			}
		}
	}
}

func TestLoadReflectsPersistedStatuses(t *testing.T) {
	// GIVEN a persisted completed unit
	store := memstore.NewMemory()
	ctx := context.Background()
	err := store.UpsertUnit(ctx, tracker.ExamUnit{
		UserID: testUser, Subject: "English", UnitNumber: 2, Status: tracker.UnitCompleted,
	})
	if err != nil {
		t.Fatalf("UpsertUnit failed: %v", err)
	}

	// WHEN a fresh board loads
	board := exams.NewBoard(store)
	if err := board.Load(ctx, testUser); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// THEN the 1-based row maps back to the 0-based index
	if !board.Done("English", 1) {
		t.Error("expected unit 2 (index 1) to be done")
	}
}

// =============================================================================
// PLAN OF DAY
// =============================================================================

func TestPlanOfDayPhases(t *testing.T) {
	at := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		now  time.Time
		want string
	}{
		{at(2026, time.January, 10), "PRE-GAME PREP"},
		{at(2026, time.January, 13), "HIGH INTENSITY: Clear Physics Unit 1-3"},
		{at(2026, time.January, 14), "HIGH INTENSITY: Clear Physics Unit 1-3"},
		{at(2026, time.January, 15), "PONGAL BREAK: Formula Reading & Light Revision (Physics/Maths)"},
		{at(2026, time.January, 17), "PONGAL BREAK: Formula Reading & Light Revision (Physics/Maths)"},
		{at(2026, time.January, 18), "CRITICAL MASS: Complete all Physics Units. Start Math Rev."},
		{at(2026, time.January, 19), "CRITICAL MASS: Complete all Physics Units. Start Math Rev."},
		{at(2026, time.January, 25), "WAR MODE: Exam Cycle Active. Focus on Next Paper."},
	}

	for _, tc := range cases {
		if got := exams.PlanOfDay(tc.now); got != tc.want {
			t.Errorf("PlanOfDay(%s) = %q, want %q", tc.now.Format("2006-01-02"), got, tc.want)
		}
	}
}
