package users

import (
	"context"
	"errors"

	"github.com/goserg/technotes/internal/domain"
	"github.com/goserg/technotes/internal/hasher"
	"github.com/goserg/technotes/internal/storage"

	"github.com/google/uuid"
)

type Service struct {
	users  storage.UserStorage
	notes  storage.NoteStorage
	hasher hasher.Hasher
}

func New(users storage.UserStorage, notes storage.NoteStorage, hasher hasher.Hasher) *Service {
	return &Service{
		users:  users,
		notes:  notes,
		hasher: hasher,
	}
}

// List returns all users. Password hashes never leave the storage
// layer.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrNoUsers
	}
	return users, nil
}

func (s *Service) Create(ctx context.Context, username string, password string, roles []domain.Role) (domain.User, error) {
	_, err := s.users.GetUserByName(ctx, username)
	if err == nil {
		return domain.User{}, domain.ErrDuplicateUsername
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, err
	}
	user := domain.User{
		ID:       uuid.New(),
		Username: username,
		Roles:    roles,
		Active:   true,
	}
	if err := s.users.CreateUser(ctx, user, hash); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Update overwrites username, roles and active. The password is
// re-hashed and replaced only when supplied non-empty.
func (s *Service) Update(ctx context.Context, id uuid.UUID, username string, roles []domain.Role, active bool, password string) (domain.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	// Renaming a user to its own current name is not a collision.
	duplicate, err := s.users.GetUserByName(ctx, username)
	if err == nil && duplicate.ID != id {
		return domain.User{}, domain.ErrDuplicateUsername
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}

	user.Username = username
	user.Roles = roles
	user.Active = active

	var hash string
	if password != "" {
		hash, err = s.hasher.Hash(password)
		if err != nil {
			return domain.User{}, err
		}
	}
	if err := s.users.UpdateUser(ctx, user, hash); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Delete refuses to remove a user that still owns notes.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (domain.User, error) {
	count, err := s.notes.CountNotesByUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if count > 0 {
		return domain.User{}, domain.ErrUserHasNotes
	}

	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
