package journal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghostmode/ninety/journal"
	"github.com/ghostmode/ninety/tracker"
	memstore "github.com/ghostmode/ninety/tracker/store"
)

const testUser = tracker.UserID("u-1")

var testDay = tracker.NewDate(2026, time.February, 2)

func newTestNotebook(t *testing.T) (*journal.Notebook, *memstore.Memory) {
	t.Helper()

	store := memstore.NewMemory()
	nb := journal.NewNotebook(store)
	if err := nb.FetchToday(context.Background(), testUser, testDay); err != nil {
		t.Fatalf("FetchToday failed: %v", err)
	}
	return nb, store
}

// =============================================================================
// SINGLETON-PER-DAY
// =============================================================================

func TestFirstSaveInsertsAndCapturesID(t *testing.T) {
	// GIVEN a blank day
	nb, store := newTestNotebook(t)
	ctx := context.Background()
	now := testDay.Time.Add(20 * time.Hour)

	if nb.EntryID() != "" {
		t.Fatalf("expected no id before first save, got %q", nb.EntryID())
	}

	// WHEN the draft is saved
	nb.Edit("well", "Deep work before sunrise")
	if err := nb.Save(ctx, testUser, testDay, now); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// THEN a row exists and its id is held for the session
	if nb.EntryID() == "" {
		t.Fatal("expected the inserted id to be captured")
	}
	entry, err := store.EntryForDay(ctx, testUser, testDay)
	if err != nil {
		t.Fatalf("EntryForDay failed: %v", err)
	}
	if entry == nil || entry.Well != "Deep work before sunrise" {
		t.Errorf("unexpected persisted entry: %+v", entry)
	}
}

func TestSecondSaveUpdatesSameRow(t *testing.T) {
	// GIVEN a day already saved once
	nb, store := newTestNotebook(t)
	ctx := context.Background()
	now := testDay.Time.Add(20 * time.Hour)

	nb.Edit("well", "v1")
	if err := nb.Save(ctx, testUser, testDay, now); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	firstID := nb.EntryID()

	// WHEN the draft is edited and saved again
	nb.Edit("lesson", "Start earlier")
	if err := nb.Save(ctx, testUser, testDay, now.Add(time.Minute)); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	// THEN the same row was updated, never a second insert
	if nb.EntryID() != firstID {
		t.Errorf("id changed across saves: %q vs %q", firstID, nb.EntryID())
	}
	entry, _ := store.EntryForDay(ctx, testUser, testDay)
	if entry == nil || entry.ID != firstID || entry.Lesson != "Start earlier" {
		t.Errorf("unexpected persisted entry: %+v", entry)
	}
}

func TestFetchAdoptsExistingEntry(t *testing.T) {
	// GIVEN a persisted entry from an earlier session
	store := memstore.NewMemory()
	ctx := context.Background()
	inserted, err := store.InsertEntry(ctx, tracker.JournalEntry{
		UserID: testUser, Date: testDay, Well: "earlier session",
	})
	if err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}

	// WHEN a new notebook fetches the day
	nb := journal.NewNotebook(store)
	if err := nb.FetchToday(ctx, testUser, testDay); err != nil {
		t.Fatalf("FetchToday failed: %v", err)
	}

	// THEN its save path goes through update, not insert
	if nb.EntryID() != inserted.ID {
		t.Errorf("expected adopted id %q, got %q", inserted.ID, nb.EntryID())
	}
	if nb.Entry.Well != "earlier session" {
		t.Errorf("expected draft loaded from the row, got %q", nb.Entry.Well)
	}
}

// =============================================================================
// SAVED INDICATOR
// =============================================================================

func TestSavedWindowExpires(t *testing.T) {
	nb, _ := newTestNotebook(t)
	now := testDay.Time.Add(20 * time.Hour)

	nb.Edit("well", "x")
	if err := nb.Save(context.Background(), testUser, testDay, now); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !nb.Saved(now) {
		t.Error("expected saved indicator right after save")
	}
	if !nb.Saved(now.Add(journal.SavedWindow - time.Millisecond)) {
		t.Error("expected saved indicator within the window")
	}
	if nb.Saved(now.Add(journal.SavedWindow)) {
		t.Error("expected saved indicator gone at the window edge")
	}
}

func TestEditClearsSavedIndicator(t *testing.T) {
	nb, _ := newTestNotebook(t)
	now := testDay.Time.Add(20 * time.Hour)

	nb.Edit("well", "x")
	if err := nb.Save(context.Background(), testUser, testDay, now); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	nb.Edit("avoided", "doomscrolling")

	if nb.Saved(now) {
		t.Error("expected an edit to clear the saved indicator immediately")
	}
}

// =============================================================================
// FAILURE
// =============================================================================

func TestFailedSaveKeepsDraftAndNoIndicator(t *testing.T) {
	// GIVEN a store that rejects writes
	nb, store := newTestNotebook(t)
	store.WriteErr = errors.New("disk full")
	now := testDay.Time.Add(20 * time.Hour)

	nb.Edit("well", "kept locally")
	err := nb.Save(context.Background(), testUser, testDay, now)

	// THEN the error surfaces, the draft survives, nothing claims saved
	if err == nil {
		t.Fatal("expected an error from the failed write")
	}
	if nb.Entry.Well != "kept locally" {
		t.Errorf("expected draft to survive, got %q", nb.Entry.Well)
	}
	if nb.Saved(now) {
		t.Error("a failed save must not show the saved indicator")
	}
	if nb.EntryID() != "" {
		t.Errorf("a failed insert must not capture an id, got %q", nb.EntryID())
	}
}
