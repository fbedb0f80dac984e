package storage

import (
	"context"

	"github.com/goserg/technotes/internal/domain"

	"github.com/google/uuid"
)

type UserStorage interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetUserByName(ctx context.Context, username string) (domain.User, error)
	GetPasswordHash(ctx context.Context, username string) (string, error)
	CreateUser(ctx context.Context, user domain.User, passwordHash string) error
	// UpdateUser overwrites username, roles and active. An empty
	// passwordHash keeps the stored hash.
	UpdateUser(ctx context.Context, user domain.User, passwordHash string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type NoteStorage interface {
	ListNotes(ctx context.Context) ([]domain.Note, error)
	GetNote(ctx context.Context, id uuid.UUID) (domain.Note, error)
	GetNoteByTitle(ctx context.Context, title string) (domain.Note, error)
	// CreateNote assigns the ticket number and returns the stored note.
	CreateNote(ctx context.Context, note domain.Note) (domain.Note, error)
	// UpdateNote overwrites user, title, text and completed. The ticket
	// number is never touched.
	UpdateNote(ctx context.Context, note domain.Note) error
	DeleteNote(ctx context.Context, id uuid.UUID) error
	CountNotesByUser(ctx context.Context, userID uuid.UUID) (int, error)
}
