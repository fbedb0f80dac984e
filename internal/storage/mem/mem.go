package mem

import (
	"context"
	"sync"

	"github.com/goserg/technotes/internal/domain"
	"github.com/goserg/technotes/internal/storage"

	"github.com/google/uuid"
)

const firstTicketNum = 500

// Storage keeps users and notes in memory with the same uniqueness
// guarantees the sqlite backend enforces through its indexes. It backs
// the service and transport tests.
type Storage struct {
	mu         sync.RWMutex
	users      []domain.User
	hashes     map[uuid.UUID]string
	notes      []domain.Note
	nextTicket int64
}

var _ storage.UserStorage = (*Storage)(nil)
var _ storage.NoteStorage = (*Storage)(nil)

func New() *Storage {
	return &Storage{
		hashes:     make(map[uuid.UUID]string),
		nextTicket: firstTicketNum,
	}
}

func (s *Storage) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]domain.User, len(s.users))
	copy(users, s.users)
	return users, nil
}

func (s *Storage) GetUser(_ context.Context, id uuid.UUID) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *Storage) GetUserByName(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *Storage) GetPasswordHash(_ context.Context, username string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return s.hashes[user.ID], nil
		}
	}
	return "", domain.ErrUserNotFound
}

func (s *Storage) CreateUser(_ context.Context, user domain.User, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return domain.ErrDuplicateUsername
		}
	}
	s.users = append(s.users, user)
	s.hashes[user.ID] = passwordHash
	return nil
}

func (s *Storage) UpdateUser(_ context.Context, user domain.User, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username && existing.ID != user.ID {
			return domain.ErrDuplicateUsername
		}
	}
	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = user
			if passwordHash != "" {
				s.hashes[user.ID] = passwordHash
			}
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (s *Storage) DeleteUser(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			delete(s.hashes, id)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (s *Storage) ListNotes(_ context.Context) ([]domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notes := make([]domain.Note, len(s.notes))
	copy(notes, s.notes)
	return notes, nil
}

func (s *Storage) GetNote(_ context.Context, id uuid.UUID) (domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, note := range s.notes {
		if note.ID == id {
			return note, nil
		}
	}
	return domain.Note{}, domain.ErrNoteNotFound
}

func (s *Storage) GetNoteByTitle(_ context.Context, title string) (domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, note := range s.notes {
		if note.Title == title {
			return note, nil
		}
	}
	return domain.Note{}, domain.ErrNoteNotFound
}

func (s *Storage) CreateNote(_ context.Context, note domain.Note) (domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.notes {
		if existing.Title == note.Title {
			return domain.Note{}, domain.ErrDuplicateTitle
		}
	}
	note.TicketNum = s.nextTicket
	s.nextTicket++
	s.notes = append(s.notes, note)
	return note, nil
}

func (s *Storage) UpdateNote(_ context.Context, note domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.notes {
		if existing.Title == note.Title && existing.ID != note.ID {
			return domain.ErrDuplicateTitle
		}
	}
	for i := range s.notes {
		if s.notes[i].ID == note.ID {
			note.TicketNum = s.notes[i].TicketNum
			s.notes[i] = note
			return nil
		}
	}
	return domain.ErrNoteNotFound
}

func (s *Storage) DeleteNote(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			return nil
		}
	}
	return domain.ErrNoteNotFound
}

func (s *Storage) CountNotesByUser(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, note := range s.notes {
		if note.UserID == userID {
			count++
		}
	}
	return count, nil
}
