package web

import (
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	embedded "github.com/goserg/technotes"
	authservice "github.com/goserg/technotes/auth/service"
	"github.com/goserg/technotes/internal/config"
	"github.com/goserg/technotes/internal/domain"
	"github.com/goserg/technotes/internal/metrics"
	notesservice "github.com/goserg/technotes/internal/service/notes"
	usersservice "github.com/goserg/technotes/internal/service/users"
	"github.com/goserg/technotes/internal/web/webpath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

const userKey = "user"

type Server struct {
	auth  *authservice.Service
	users *usersservice.Service
	notes *notesservice.Service
	app   *fiber.App
	cfg   config.Server
	log   *logrus.Entry
}

func New(
	cfg config.Server,
	l *logrus.Logger,
	users *usersservice.Service,
	notes *notesservice.Service,
	auth *authservice.Service,
) (*Server, error) {
	server := Server{
		auth:  auth,
		users: users,
		notes: notes,
		cfg:   cfg,
		log:   l.WithFields(map[string]interface{}{"from": "web"}),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: server.handleError,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())
	app.Use(observeRequests)
	app.Use(webpath.Users, server.authMiddleware)
	app.Use(webpath.Notes, server.authMiddleware)

	app.Post(webpath.Auth, server.handleLogin)
	app.Post(webpath.AuthLogout, server.handleLogout)

	app.Get(webpath.Users, server.handleGetUsers)
	app.Post(webpath.Users, server.handleCreateUser)
	app.Patch(webpath.Users, server.handleUpdateUser)
	app.Delete(webpath.Users, server.handleDeleteUser)

	app.Get(webpath.Notes, server.handleGetNotes)
	app.Post(webpath.Notes, server.handleCreateNote)
	app.Patch(webpath.Notes, server.handleUpdateNote)
	app.Delete(webpath.Notes, server.handleDeleteNote)

	fsFS, err := fs.Sub(embedded.Public, "public")
	if err != nil {
		return nil, err
	}
	app.Use(webpath.Home, filesystem.New(filesystem.Config{
		Root:  http.FS(fsFS),
		Index: "index.html",
	}))
	app.Use(server.handleNotFound)

	server.app = app
	return &server, nil
}

func (s *Server) Serve() error {
	return s.app.Listen(s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port))
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// handleError is the catch-all for errors handlers did not translate
// themselves.
func (s *Server) handleError(ctx *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return message(ctx, fiberErr.Code, fiberErr.Message)
	}
	s.log.WithError(err).Error("unhandled error")
	return message(ctx, fiber.StatusInternalServerError, msgInternalError)
}

func (s *Server) authMiddleware(ctx *fiber.Ctx) error {
	tokenCookie := ctx.Cookies("token")
	user, err := s.auth.Auth(ctx.Context(), tokenCookie, ctx.Method(), ctx.OriginalURL())
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrForbidden):
			return message(ctx, fiber.StatusForbidden, "Forbidden")
		case errors.Is(err, authservice.ErrNotAuthorized):
			return message(ctx, fiber.StatusUnauthorized, msgUnauthorized)
		default:
			return err
		}
	}
	ctx.Context().SetUserValue(userKey, user)
	return ctx.Next()
}

func observeRequests(ctx *fiber.Ctx) error {
	start := time.Now()
	err := ctx.Next()
	metrics.ObserveRequest(ctx.Method(), ctx.Path(), ctx.Response().StatusCode(), time.Since(start))
	return err
}

func (s *Server) handleLogin(ctx *fiber.Ctx) error {
	var req loginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return message(ctx, fiber.StatusBadRequest, msgAllFieldsRequired)
	}
	if err := req.Validate(); err != nil {
		return message(ctx, fiber.StatusBadRequest, msgAllFieldsRequired)
	}
	user, err := s.auth.Login(ctx.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, authservice.ErrNotAuthorized) || errors.Is(err, authservice.ErrForbidden) {
			return message(ctx, fiber.StatusUnauthorized, msgUnauthorized)
		}
		return err
	}
	cookie, err := s.auth.GenerateJWTCookie(user.ID, s.cfg.Host)
	if err != nil {
		return err
	}
	ctx.Cookie(cookie)
	return message(ctx, fiber.StatusOK, "Logged in as "+user.Username)
}

func (s *Server) handleLogout(ctx *fiber.Ctx) error {
	ctx.ClearCookie("token")
	return message(ctx, fiber.StatusOK, "Cookie cleared")
}

func (s *Server) handleNotFound(ctx *fiber.Ctx) error {
	ctx.Status(fiber.StatusNotFound)
	if ctx.Accepts("html") != "" {
		page, err := embedded.Public.ReadFile("public/404.html")
		if err != nil {
			return err
		}
		ctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return ctx.Send(page)
	}
	return ctx.JSON(fiber.Map{"message": "404 Not found"})
}

// currentUser returns the user resolved by the auth middleware, if
// any.
func currentUser(ctx *fiber.Ctx) domain.User {
	user, _ := ctx.Context().UserValue(userKey).(domain.User)
	return user
}
