package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/goserg/technotes/internal/domain"
	"github.com/goserg/technotes/internal/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := New(logger.New(false), filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestUsersRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	user := domain.User{
		ID:       uuid.New(),
		Username: "alice",
		Roles:    []domain.Role{domain.RoleEmployee, domain.RoleManager},
		Active:   true,
	}
	require.NoError(t, store.CreateUser(ctx, user, "hash-1"))

	got, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, user.Roles, got.Roles)
	require.True(t, got.Active)

	byName, err := store.GetUserByName(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, user.ID, byName.ID)

	hash, err := store.GetPasswordHash(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "hash-1", hash)

	_, err = store.GetUser(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUniqueUsernameIndex(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	first := domain.User{ID: uuid.New(), Username: "alice", Active: true}
	require.NoError(t, store.CreateUser(ctx, first, "h"))

	// The index itself rejects the duplicate, without any
	// service-level pre-check.
	second := domain.User{ID: uuid.New(), Username: "alice", Active: true}
	err := store.CreateUser(ctx, second, "h")
	require.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestUpdateUser(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	user := domain.User{ID: uuid.New(), Username: "alice", Roles: []domain.Role{domain.RoleEmployee}, Active: true}
	require.NoError(t, store.CreateUser(ctx, user, "hash-1"))

	user.Username = "alice2"
	user.Roles = []domain.Role{domain.RoleAdmin}
	user.Active = false
	require.NoError(t, store.UpdateUser(ctx, user, ""))

	got, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "alice2", got.Username)
	require.Equal(t, []domain.Role{domain.RoleAdmin}, got.Roles)
	require.False(t, got.Active)

	hash, err := store.GetPasswordHash(ctx, "alice2")
	require.NoError(t, err)
	require.Equal(t, "hash-1", hash, "empty hash keeps the stored one")

	require.NoError(t, store.UpdateUser(ctx, got, "hash-2"))
	hash, err = store.GetPasswordHash(ctx, "alice2")
	require.NoError(t, err)
	require.Equal(t, "hash-2", hash)

	missing := domain.User{ID: uuid.New(), Username: "ghost"}
	require.ErrorIs(t, store.UpdateUser(ctx, missing, ""), domain.ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	user := domain.User{ID: uuid.New(), Username: "alice", Roles: []domain.Role{domain.RoleEmployee}, Active: true}
	require.NoError(t, store.CreateUser(ctx, user, "h"))
	require.NoError(t, store.DeleteUser(ctx, user.ID))

	_, err := store.GetUser(ctx, user.ID)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	require.ErrorIs(t, store.DeleteUser(ctx, user.ID), domain.ErrUserNotFound)
}

func TestTicketNumSequence(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	owner := uuid.New()

	for i := 0; i < 3; i++ {
		note, err := store.CreateNote(ctx, domain.Note{
			ID:     uuid.New(),
			UserID: owner,
			Title:  fmt.Sprintf("note %d", i),
			Text:   "text",
		})
		require.NoError(t, err)
		require.EqualValues(t, 500+i, note.TicketNum)
	}

	// Ticket numbers are never reused: deleting the note holding the
	// current maximum must not free its number.
	notes, err := store.ListNotes(ctx)
	require.NoError(t, err)
	require.NoError(t, store.DeleteNote(ctx, notes[2].ID))

	note, err := store.CreateNote(ctx, domain.Note{
		ID:     uuid.New(),
		UserID: owner,
		Title:  "note 3",
		Text:   "text",
	})
	require.NoError(t, err)
	require.EqualValues(t, 503, note.TicketNum)

	// Even with every note gone the sequence keeps climbing.
	notes, err = store.ListNotes(ctx)
	require.NoError(t, err)
	for _, n := range notes {
		require.NoError(t, store.DeleteNote(ctx, n.ID))
	}
	note, err = store.CreateNote(ctx, domain.Note{
		ID:     uuid.New(),
		UserID: owner,
		Title:  "note 4",
		Text:   "text",
	})
	require.NoError(t, err)
	require.EqualValues(t, 504, note.TicketNum)
}

func TestUniqueTitleIndex(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	owner := uuid.New()

	_, err := store.CreateNote(ctx, domain.Note{ID: uuid.New(), UserID: owner, Title: "dup", Text: "x"})
	require.NoError(t, err)
	_, err = store.CreateNote(ctx, domain.Note{ID: uuid.New(), UserID: owner, Title: "dup", Text: "y"})
	require.ErrorIs(t, err, domain.ErrDuplicateTitle)
}

func TestUpdateNoteKeepsTicketNum(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	owner := uuid.New()

	note, err := store.CreateNote(ctx, domain.Note{ID: uuid.New(), UserID: owner, Title: "a", Text: "x"})
	require.NoError(t, err)

	note.Title = "b"
	note.Text = "y"
	note.Completed = true
	require.NoError(t, store.UpdateNote(ctx, note))

	got, err := store.GetNote(ctx, note.ID)
	require.NoError(t, err)
	require.Equal(t, "b", got.Title)
	require.True(t, got.Completed)
	require.Equal(t, note.TicketNum, got.TicketNum)
}

func TestCountNotesByUser(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	_, err := store.CreateNote(ctx, domain.Note{ID: uuid.New(), UserID: alice, Title: "a", Text: "x"})
	require.NoError(t, err)
	_, err = store.CreateNote(ctx, domain.Note{ID: uuid.New(), UserID: alice, Title: "b", Text: "x"})
	require.NoError(t, err)

	count, err := store.CountNotesByUser(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	count, err = store.CountNotesByUser(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}
