// Package main implements the entry point for the taskward API server,
// a task-management backend with per-user authentication.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phrazzld/taskward-api/internal/config"
	"github.com/phrazzld/taskward-api/internal/platform/logger"
	"github.com/phrazzld/taskward-api/internal/platform/postgres"
	"github.com/phrazzld/taskward-api/internal/service/auth"
	"github.com/phrazzld/taskward-api/internal/store"
)

// application holds the constructed dependencies of the running server.
// Everything is wired explicitly here at startup; there is no package-level
// mutable state.
type application struct {
	config         *config.Config
	logger         *slog.Logger
	db             *sql.DB
	userStore      store.UserStore
	taskStore      store.TaskStore
	jwtService     auth.JWTService
	passwordHasher auth.PasswordHasher
}

// main is the entry point for the taskward-api server. It initializes
// configuration, logging, the database connection, and the dependency graph,
// then serves HTTP until interrupted.
func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}()

	if err := app.serve(); err != nil {
		app.logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// initializeApp loads configuration and builds the application's dependency
// graph. Startup aborts on the first failure: missing database URL or JWT
// secret never produces a half-configured server.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"environment", cfg.CORS.Environment)

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, appLogger); err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	return &application{
		config:         cfg,
		logger:         appLogger,
		db:             db,
		userStore:      postgres.NewPostgresUserStore(db, appLogger),
		taskStore:      postgres.NewPostgresTaskStore(db, appLogger),
		jwtService:     jwtService,
		passwordHasher: auth.NewPBKDF2Hasher(),
	}, nil
}

// serve runs the HTTP server until SIGINT or SIGTERM, then shuts down
// gracefully, letting in-flight requests finish.
func (app *application) serve() error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}

	shutdownErr := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit

		app.logger.Info("shutting down server", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return err
	}

	app.logger.Info("server stopped")
	return nil
}
