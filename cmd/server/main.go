package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	authservice "github.com/goserg/technotes/auth/service"
	"github.com/goserg/technotes/internal/config"
	"github.com/goserg/technotes/internal/hasher"
	"github.com/goserg/technotes/internal/logger"
	"github.com/goserg/technotes/internal/metrics"
	notesservice "github.com/goserg/technotes/internal/service/notes"
	usersservice "github.com/goserg/technotes/internal/service/users"
	"github.com/goserg/technotes/internal/storage/sqlite"
	"github.com/goserg/technotes/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Server.Debug)

	store, err := sqlite.New(log, cfg.Server.SqliteFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Error("closing storage")
		}
	}()

	metrics.Init()
	metrics.StartMetricsServer(log, cfg.Server.MetricsPort)

	bcrypt := hasher.NewBcrypt(cfg.Auth.BcryptCost)
	userService := usersservice.New(store, store, bcrypt)
	noteService := notesservice.New(store, store)
	authService := authservice.New(cfg.Auth, store, bcrypt)

	server, err := web.New(cfg.Server, log, userService, noteService, authService)
	if err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info("shutting down")
		if err := server.Shutdown(); err != nil {
			log.WithError(err).Error("server shutdown")
		}
	}()

	return server.Serve()
}
