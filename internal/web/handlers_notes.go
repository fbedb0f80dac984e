package web

import (
	"errors"
	"fmt"

	"github.com/goserg/technotes/internal/domain"
	"github.com/goserg/technotes/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleGetNotes(ctx *fiber.Ctx) error {
	notes, err := s.notes.List(ctx.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoNotes) {
			return message(ctx, fiber.StatusNotFound, msgNoNotesFound)
		}
		return err
	}
	return ctx.JSON(convertNotes(notes))
}

func (s *Server) handleCreateNote(ctx *fiber.Ctx) error {
	var req createNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return message(ctx, fiber.StatusBadRequest, msgAllFieldsRequired)
	}
	if err := req.Validate(); err != nil {
		return message(ctx, fiber.StatusBadRequest, msgAllFieldsRequired)
	}
	note, err := s.notes.Create(ctx.Context(), req.userID(), req.Title, req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateTitle) {
			return message(ctx, fiber.StatusConflict, msgTitleExists)
		}
		return err
	}
	metrics.NotesCreatedCounter.Inc()
	return message(ctx, fiber.StatusCreated, fmt.Sprintf("Note %s created successfully", note.Title))
}

func (s *Server) handleUpdateNote(ctx *fiber.Ctx) error {
	var req updateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return message(ctx, fiber.StatusBadRequest, msgAllFieldsRequired)
	}
	if err := req.Validate(); err != nil {
		return message(ctx, fiber.StatusBadRequest, msgAllFieldsRequired)
	}
	note, err := s.notes.Update(ctx.Context(), req.id(), req.userID(), req.Title, req.Text, *req.Completed)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoteNotFound):
			return message(ctx, fiber.StatusBadRequest, msgNoteNotFound)
		case errors.Is(err, domain.ErrDuplicateTitle):
			return message(ctx, fiber.StatusConflict, msgDuplicateTitle)
		}
		return err
	}
	return message(ctx, fiber.StatusOK, fmt.Sprintf("Note %s has been updated", note.Title))
}

func (s *Server) handleDeleteNote(ctx *fiber.Ctx) error {
	var req deleteNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return message(ctx, fiber.StatusBadRequest, msgNoteIDRequired)
	}
	if err := req.Validate(); err != nil {
		return message(ctx, fiber.StatusBadRequest, msgNoteIDRequired)
	}
	note, err := s.notes.Delete(ctx.Context(), req.id())
	if err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			return message(ctx, fiber.StatusBadRequest, msgNoteNotFound)
		}
		return err
	}
	s.log.WithFields(map[string]interface{}{
		"deleted": note.Title,
		"by":      currentUser(ctx).Username,
	}).Info("note deleted")
	return message(ctx, fiber.StatusOK,
		fmt.Sprintf("Note %s with ID %s has been deleted", note.Title, note.ID))
}
