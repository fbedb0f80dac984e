package notes

import (
	"context"
	"errors"
	"sync"

	"github.com/goserg/technotes/internal/domain"
	"github.com/goserg/technotes/internal/storage"

	"github.com/google/uuid"
)

type Service struct {
	notes storage.NoteStorage
	users storage.UserStorage
}

func New(notes storage.NoteStorage, users storage.UserStorage) *Service {
	return &Service{
		notes: notes,
		users: users,
	}
}

// ownerLookupLimit caps how many owner lookups run at once during a
// list.
const ownerLookupLimit = 8

// List returns all notes with the owner's username attached. Owner
// lookups run concurrently, at most ownerLookupLimit at a time; the
// result keeps the storage order. A dangling owner reference yields an
// empty username instead of failing the whole list.
func (s *Service) List(ctx context.Context) ([]domain.NoteWithOwner, error) {
	notes, err := s.notes.ListNotes(ctx)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, domain.ErrNoNotes
	}

	joined := make([]domain.NoteWithOwner, len(notes))
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		joinErr error
	)
	sem := make(chan struct{}, ownerLookupLimit)
	for i := range notes {
		i := i
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			joined[i].Note = notes[i]
			owner, err := s.users.GetUser(ctx, notes[i].UserID)
			switch {
			case err == nil:
				joined[i].Username = owner.Username
			case errors.Is(err, domain.ErrUserNotFound):
			default:
				mu.Lock()
				if joinErr == nil {
					joinErr = err
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if joinErr != nil {
		return nil, joinErr
	}
	return joined, nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, title string, text string) (domain.Note, error) {
	_, err := s.notes.GetNoteByTitle(ctx, title)
	if err == nil {
		return domain.Note{}, domain.ErrDuplicateTitle
	}
	if !errors.Is(err, domain.ErrNoteNotFound) {
		return domain.Note{}, err
	}

	note := domain.Note{
		ID:     uuid.New(),
		UserID: userID,
		Title:  title,
		Text:   text,
	}
	return s.notes.CreateNote(ctx, note)
}

// Update replaces user, title, text and completed wholesale. The
// ticket number is never changed.
func (s *Service) Update(ctx context.Context, id uuid.UUID, userID uuid.UUID, title string, text string, completed bool) (domain.Note, error) {
	note, err := s.notes.GetNote(ctx, id)
	if err != nil {
		return domain.Note{}, err
	}

	// Renaming a note to its own current title is not a collision.
	duplicate, err := s.notes.GetNoteByTitle(ctx, title)
	if err == nil && duplicate.ID != id {
		return domain.Note{}, domain.ErrDuplicateTitle
	}
	if err != nil && !errors.Is(err, domain.ErrNoteNotFound) {
		return domain.Note{}, err
	}

	note.UserID = userID
	note.Title = title
	note.Text = text
	note.Completed = completed

	if err := s.notes.UpdateNote(ctx, note); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (domain.Note, error) {
	note, err := s.notes.GetNote(ctx, id)
	if err != nil {
		return domain.Note{}, err
	}
	if err := s.notes.DeleteNote(ctx, id); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}
