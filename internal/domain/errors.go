package domain

import "errors"

var (
	ErrNoUsers      = errors.New("no users found")
	ErrNoNotes      = errors.New("no notes found")
	ErrUserNotFound = errors.New("user not found")
	ErrNoteNotFound = errors.New("note not found")

	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateTitle    = errors.New("duplicate title")

	ErrUserHasNotes = errors.New("user has assigned notes")

	ErrInvalidRoles = errors.New("invalid roles")
)
