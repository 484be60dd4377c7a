/*
Package journal implements the singleton-per-day reflection entry.

At most one entry exists per (user, day). The first save inserts and
captures the new row id; every later save in the same session updates by
that id, never inserting a second row. An absent entry on fetch is a
normal empty state, not an error.
*/
package journal

import (
	"context"
	"time"

	"github.com/ghostmode/ninety/tracker"
)

// SavedWindow is how long the saved indicator stays visible after a
// successful save. Any further edit clears it immediately.
const SavedWindow = 3 * time.Second

// Draft is the editable entry text.
type Draft struct {
	Well    string
	Avoided string
	Lesson  string
}

// Notebook is one session's view of today's entry.
type Notebook struct {
	store tracker.JournalStore

	Entry      Draft
	entryID    string
	savedUntil time.Time
}

func NewNotebook(store tracker.JournalStore) *Notebook {
	return &Notebook{store: store}
}

// FetchToday loads the day's entry into the draft if one exists. No
// entry leaves the draft empty and is not an error.
func (n *Notebook) FetchToday(ctx context.Context, user tracker.UserID, today tracker.Date) error {
	entry, err := n.store.EntryForDay(ctx, user, today)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}

	n.Entry = Draft{Well: entry.Well, Avoided: entry.Avoided, Lesson: entry.Lesson}
	n.entryID = entry.ID
	return nil
}

// Edit updates one draft field and clears the saved indicator.
func (n *Notebook) Edit(field, value string) {
	switch field {
	case "well":
		n.Entry.Well = value
	case "avoided":
		n.Entry.Avoided = value
	case "lesson":
		n.Entry.Lesson = value
	}
	n.savedUntil = time.Time{}
}

// Save persists the draft: update by the captured id when one is held,
// otherwise insert and capture the returned id for subsequent saves.
func (n *Notebook) Save(ctx context.Context, user tracker.UserID, today tracker.Date, now time.Time) error {
	entry := tracker.JournalEntry{
		ID:      n.entryID,
		UserID:  user,
		Date:    today,
		Well:    n.Entry.Well,
		Avoided: n.Entry.Avoided,
		Lesson:  n.Entry.Lesson,
	}

	if n.entryID != "" {
		if err := n.store.UpdateEntry(ctx, entry); err != nil {
			return err
		}
	} else {
		inserted, err := n.store.InsertEntry(ctx, entry)
		if err != nil {
			return err
		}
		n.entryID = inserted.ID
	}

	n.savedUntil = now.Add(SavedWindow)
	return nil
}

// Saved reports whether the saved indicator is still within its display
// window.
func (n *Notebook) Saved(now time.Time) bool {
	return now.Before(n.savedUntil)
}

// EntryID returns the captured row id, empty before the first save of a
// day with no prior entry.
func (n *Notebook) EntryID() string {
	return n.entryID
}
