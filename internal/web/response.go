package web

import (
	"time"

	"github.com/goserg/technotes/internal/domain"

	"github.com/gofiber/fiber/v2"
)

const (
	msgAllFieldsRequired = "All fields are required"
	msgUserIDRequired    = "User id required"
	msgNoteIDRequired    = "Note id required"

	msgNoUsersFound      = "No users found"
	msgNoNotesFound      = "No notes found"
	msgUserNotFound      = "User not found"
	msgNoteNotFound      = "Note not found"
	msgUsernameExists    = "Username already exists"
	msgDuplicateUsername = "Duplicate username"
	msgTitleExists       = "Title already exists"
	msgDuplicateTitle    = "Duplicate title"
	msgUserHasNotes      = "User has assigned notes"

	msgUnauthorized  = "Unauthorized"
	msgInternalError = "internal server error"
)

func message(ctx *fiber.Ctx, status int, text string) error {
	return ctx.Status(status).JSON(fiber.Map{"message": text})
}

type userView struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func convertUsers(users []domain.User) []userView {
	views := make([]userView, 0, len(users))
	for _, user := range users {
		views = append(views, userView{
			ID:        user.ID.String(),
			Username:  user.Username,
			Roles:     domain.RoleStrings(user.Roles),
			Active:    user.Active,
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.UpdatedAt,
		})
	}
	return views
}

type noteView struct {
	ID        string    `json:"_id"`
	TicketNum int64     `json:"ticketNum"`
	User      string    `json:"user"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Username  string    `json:"username,omitempty"`
}

func convertNotes(notes []domain.NoteWithOwner) []noteView {
	views := make([]noteView, 0, len(notes))
	for _, note := range notes {
		views = append(views, noteView{
			ID:        note.ID.String(),
			TicketNum: note.TicketNum,
			User:      note.UserID.String(),
			Title:     note.Title,
			Text:      note.Text,
			Completed: note.Completed,
			CreatedAt: note.CreatedAt,
			UpdatedAt: note.UpdatedAt,
			Username:  note.Username,
		})
	}
	return views
}
