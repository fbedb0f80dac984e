package web

import (
	"errors"
	"fmt"

	"github.com/goserg/technotes/internal/domain"
	"github.com/goserg/technotes/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleGetUsers(ctx *fiber.Ctx) error {
	users, err := s.users.List(ctx.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoUsers) {
			return message(ctx, fiber.StatusNotFound, msgNoUsersFound)
		}
		return err
	}
	return ctx.JSON(convertUsers(users))
}

func (s *Server) handleCreateUser(ctx *fiber.Ctx) error {
	var req createUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return message(ctx, fiber.StatusBadRequest, msgAllFieldsRequired)
	}
	if err := req.Validate(); err != nil {
		return message(ctx, fiber.StatusBadRequest, msgAllFieldsRequired)
	}
	user, err := s.users.Create(ctx.Context(), req.Username, req.Password, req.roles())
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return message(ctx, fiber.StatusConflict, msgUsernameExists)
		}
		return err
	}
	metrics.UsersCreatedCounter.Inc()
	return message(ctx, fiber.StatusCreated, fmt.Sprintf("User %s created successfully", user.Username))
}

func (s *Server) handleUpdateUser(ctx *fiber.Ctx) error {
	var req updateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return message(ctx, fiber.StatusBadRequest, msgAllFieldsRequired)
	}
	if err := req.Validate(); err != nil {
		return message(ctx, fiber.StatusBadRequest, msgAllFieldsRequired)
	}
	user, err := s.users.Update(ctx.Context(), req.id(), req.Username, req.roles(), *req.Active, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return message(ctx, fiber.StatusBadRequest, msgUserNotFound)
		case errors.Is(err, domain.ErrDuplicateUsername):
			return message(ctx, fiber.StatusConflict, msgDuplicateUsername)
		}
		return err
	}
	return message(ctx, fiber.StatusOK, fmt.Sprintf("User %s updated successfully", user.Username))
}

func (s *Server) handleDeleteUser(ctx *fiber.Ctx) error {
	var req deleteUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return message(ctx, fiber.StatusBadRequest, msgUserIDRequired)
	}
	if err := req.Validate(); err != nil {
		return message(ctx, fiber.StatusBadRequest, msgUserIDRequired)
	}
	user, err := s.users.Delete(ctx.Context(), req.id())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserHasNotes):
			return message(ctx, fiber.StatusBadRequest, msgUserHasNotes)
		case errors.Is(err, domain.ErrUserNotFound):
			return message(ctx, fiber.StatusBadRequest, msgUserNotFound)
		}
		return err
	}
	s.log.WithFields(map[string]interface{}{
		"deleted": user.Username,
		"by":      currentUser(ctx).Username,
	}).Info("user deleted")
	return message(ctx, fiber.StatusOK,
		fmt.Sprintf("Username %s with ID %s deleted successfully", user.Username, user.ID))
}
