/*
Package books implements the reading log.

The library keeps an in-memory list ordered newest-first. Status changes
and deletions mutate the list optimistically; a failed write is undone by
re-fetching the whole list rather than by a targeted revert, since both
are destructive of local ordering. Lesson text follows the blur-save
pattern: local edits per keystroke, one write on blur, no rollback.
*/
package books

import (
	"context"
	"strings"

	"github.com/ghostmode/ninety/tracker"
)

// Library is one session's view of a user's reading log.
type Library struct {
	store tracker.BookStore

	Books []tracker.Book
}

func NewLibrary(store tracker.BookStore) *Library {
	return &Library{store: store}
}

// Fetch replaces the list with the persisted books, newest first.
func (l *Library) Fetch(ctx context.Context, user tracker.UserID) error {
	books, err := l.store.BooksByUser(ctx, user)
	if err != nil {
		return err
	}
	l.Books = books
	return nil
}

// Add creates a book with status To Read and prepends it. A blank title
// is ignored.
func (l *Library) Add(ctx context.Context, user tracker.UserID, title, author string) (tracker.Book, error) {
	if strings.TrimSpace(title) == "" {
		return tracker.Book{}, nil
	}

	book, err := l.store.InsertBook(ctx, tracker.Book{
		UserID: user,
		Title:  title,
		Author: author,
		Status: tracker.BookToRead,
	})
	if err != nil {
		return tracker.Book{}, err
	}

	l.Books = append([]tracker.Book{book}, l.Books...)
	return book, nil
}

// SetStatus changes a book's status optimistically, then persists. On
// failure the list is restored by a full re-fetch.
func (l *Library) SetStatus(ctx context.Context, user tracker.UserID, id, status string) error {
	for i := range l.Books {
		if l.Books[i].ID == id {
			l.Books[i].Status = status
			break
		}
	}

	if err := l.store.SetBookStatus(ctx, id, status); err != nil {
		if ferr := l.Fetch(ctx, user); ferr != nil {
			return ferr
		}
		return err
	}
	return nil
}

// UpdateLesson edits a book's lesson text locally only.
func (l *Library) UpdateLesson(id, lesson string) {
	for i := range l.Books {
		if l.Books[i].ID == id {
			l.Books[i].Lesson = lesson
			return
		}
	}
}

// SaveLesson persists a book's lesson text. The local value is kept even
// when the write fails.
func (l *Library) SaveLesson(ctx context.Context, id, lesson string) error {
	l.UpdateLesson(id, lesson)
	return l.store.SetBookLesson(ctx, id, lesson)
}

// Delete removes a book optimistically, then persists. A failed delete
// restores the list by re-fetching.
func (l *Library) Delete(ctx context.Context, user tracker.UserID, id string) error {
	kept := l.Books[:0]
	for _, b := range l.Books {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	l.Books = kept

	if err := l.store.DeleteBook(ctx, id); err != nil {
		if ferr := l.Fetch(ctx, user); ferr != nil {
			return ferr
		}
		return err
	}
	return nil
}

// FinishedCount counts books marked Finished in the local list.
func (l *Library) FinishedCount() int {
	count := 0
	for _, b := range l.Books {
		if b.Status == tracker.BookFinished {
			count++
		}
	}
	return count
}
