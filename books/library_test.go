package books_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ghostmode/ninety/books"
	"github.com/ghostmode/ninety/tracker"
	memstore "github.com/ghostmode/ninety/tracker/store"
)

const testUser = tracker.UserID("u-1")

func newTestLibrary(t *testing.T) (*books.Library, *memstore.Memory) {
	t.Helper()

	store := memstore.NewMemory()
	lib := books.NewLibrary(store)
	if err := lib.Fetch(context.Background(), testUser); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	return lib, store
}

func mustAdd(t *testing.T, lib *books.Library, title string) tracker.Book {
	t.Helper()
	b, err := lib.Add(context.Background(), testUser, title, "")
	if err != nil {
		t.Fatalf("Add %q failed: %v", title, err)
	}
	return b
}

// =============================================================================
// ADD
// =============================================================================

func TestAddPrependsWithToReadStatus(t *testing.T) {
	lib, _ := newTestLibrary(t)

	mustAdd(t, lib, "Deep Work")
	mustAdd(t, lib, "Atomic Habits")

	if len(lib.Books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(lib.Books))
	}
	if lib.Books[0].Title != "Atomic Habits" {
		t.Errorf("expected newest first, got %q", lib.Books[0].Title)
	}
	if lib.Books[0].Status != tracker.BookToRead {
		t.Errorf("expected status To Read, got %q", lib.Books[0].Status)
	}
	if lib.Books[0].ID == "" {
		t.Error("expected an assigned id")
	}
}

func TestAddIgnoresBlankTitle(t *testing.T) {
	lib, store := newTestLibrary(t)

	b, err := lib.Add(context.Background(), testUser, "   ", "someone")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if b.ID != "" {
		t.Errorf("expected no book for blank title, got %+v", b)
	}
	persisted, _ := store.BooksByUser(context.Background(), testUser)
	if len(persisted) != 0 {
		t.Errorf("expected nothing persisted, got %d rows", len(persisted))
	}
}

// =============================================================================
// STATUS
// =============================================================================

func TestSetStatusPersists(t *testing.T) {
	lib, store := newTestLibrary(t)
	b := mustAdd(t, lib, "Deep Work")

	if err := lib.SetStatus(context.Background(), testUser, b.ID, tracker.BookFinished); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	if lib.Books[0].Status != tracker.BookFinished {
		t.Errorf("expected local status Finished, got %q", lib.Books[0].Status)
	}
	persisted, _ := store.BooksByUser(context.Background(), testUser)
	if persisted[0].Status != tracker.BookFinished {
		t.Errorf("expected persisted status Finished, got %q", persisted[0].Status)
	}
	if lib.FinishedCount() != 1 {
		t.Errorf("FinishedCount = %d, want 1", lib.FinishedCount())
	}
}

func TestSetStatusRevertsByRefetchOnFailure(t *testing.T) {
	// GIVEN a book and a store that rejects writes
	lib, store := newTestLibrary(t)
	b := mustAdd(t, lib, "Deep Work")
	store.WriteErr = errors.New("disk full")

	// WHEN a status change fails
	err := lib.SetStatus(context.Background(), testUser, b.ID, tracker.BookFinished)

	// THEN the list was rebuilt from the store with the old status
	if err == nil {
		t.Fatal("expected an error from the failed write")
	}
	if lib.Books[0].Status != tracker.BookToRead {
		t.Errorf("expected status restored to To Read, got %q", lib.Books[0].Status)
	}
}

// =============================================================================
// DELETE
// =============================================================================

func TestDeleteRemovesLocallyAndPersisted(t *testing.T) {
	lib, store := newTestLibrary(t)
	keep := mustAdd(t, lib, "Keep")
	drop := mustAdd(t, lib, "Drop")

	if err := lib.Delete(context.Background(), testUser, drop.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if len(lib.Books) != 1 || lib.Books[0].ID != keep.ID {
		t.Errorf("unexpected local list: %+v", lib.Books)
	}
	persisted, _ := store.BooksByUser(context.Background(), testUser)
	if len(persisted) != 1 || persisted[0].ID != keep.ID {
		t.Errorf("unexpected persisted list: %+v", persisted)
	}
}

func TestDeleteRestoresListOnFailure(t *testing.T) {
	// GIVEN a book and a store that rejects writes
	lib, store := newTestLibrary(t)
	b := mustAdd(t, lib, "Deep Work")
	store.WriteErr = errors.New("disk full")

	// WHEN the delete fails
	err := lib.Delete(context.Background(), testUser, b.ID)

	// THEN the re-fetch brought the row back
	if err == nil {
		t.Fatal("expected an error from the failed write")
	}
	if len(lib.Books) != 1 || lib.Books[0].ID != b.ID {
		t.Errorf("expected the book restored, got %+v", lib.Books)
	}
}

// =============================================================================
// LESSON
// =============================================================================

func TestSaveLessonKeepsLocalValueOnFailure(t *testing.T) {
	lib, store := newTestLibrary(t)
	b := mustAdd(t, lib, "Deep Work")
	store.WriteErr = errors.New("disk full")

	err := lib.SaveLesson(context.Background(), b.ID, "focus is a skill")

	if err == nil {
		t.Fatal("expected an error from the failed write")
	}
	if lib.Books[0].Lesson != "focus is a skill" {
		t.Errorf("expected local lesson kept, got %q", lib.Books[0].Lesson)
	}
}
