package domain

import (
	"time"

	"github.com/google/uuid"
)

// Note is a work item owned by a single user. TicketNum is the
// human-facing sequential number, distinct from the storage ID.
type Note struct {
	ID        uuid.UUID
	TicketNum int64
	UserID    uuid.UUID
	Title     string
	Text      string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteWithOwner is a Note joined with its owner's username.
// Username is empty if the referenced user no longer exists.
type NoteWithOwner struct {
	Note
	Username string
}
