// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the wiring layer, the composition root where the dependency chain
// is assembled: sqlite.DB → RunService → handlers → routes. Handlers never
// touch the database, the service never touches HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/devready/code-runner/internal/auth"
	"github.com/devready/code-runner/internal/executor"
	"github.com/devready/code-runner/internal/handler"
	"github.com/devready/code-runner/internal/middleware"
	sqliteRepo "github.com/devready/code-runner/internal/repository/sqlite"
	"github.com/devready/code-runner/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port   int
	DBPath string
	// JWTSecret enables bearer auth on /api routes when non-empty.
	JWTSecret string
	// Clients maps client IDs to bcrypt hashes of their secrets.
	Clients map[string]string
}

// Server represents the HTTP server and all its dependencies.
// It owns the database connection and closes it on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a new Server with the given config and executor.
func New(cfg Config, logger *slog.Logger, exec executor.Executor) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(exec); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
func (s *Server) setupRoutes(exec executor.Executor) error {
	// Global middleware, in order: request IDs first so every later log
	// line can carry one, recovery so panics become 500s.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	runService := service.NewRunService(exec, s.db, s.logger)

	executeHandler := handler.NewExecuteHandler(runService, s.logger)
	runsHandler := handler.NewRunsHandler(runService, s.logger)
	healthHandler := handler.NewHealthHandler(exec.Languages(), s.logger)

	s.router.Get("/", healthHandler.HandleInfo)
	s.router.Get("/health", healthHandler.HandleHealth)

	// Bearer auth protects the API only when a secret is configured; the
	// token route exists only in that mode.
	var protect func(http.Handler) http.Handler
	if s.config.JWTSecret != "" {
		tokens, err := auth.NewTokenService(s.config.JWTSecret)
		if err != nil {
			return fmt.Errorf("creating token service: %w", err)
		}
		clients := auth.NewClientRegistry(s.config.Clients)
		authHandler := handler.NewAuthHandler(clients, tokens, s.logger)

		s.router.Post("/auth/token", authHandler.HandleToken)
		protect = auth.RequireAuth(tokens)
	}

	s.router.Route("/api", func(r chi.Router) {
		if protect != nil {
			r.Use(protect)
		}
		r.Post("/execute", executeHandler.HandleExecute)
		r.Get("/languages", executeHandler.HandleLanguages)
		r.Get("/runs", runsHandler.HandleList)
		r.Get("/runs/{id}", runsHandler.HandleGetByID)
	})

	return nil
}

// Start starts the HTTP server and handles graceful shutdown:
// stop accepting connections, drain in-flight requests (30s bound), then
// close the database to flush the WAL and release the file lock.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		// Executions can legitimately take up to the max timeout; leave
		// headroom for setup and cleanup on top of it.
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.Bool("authEnabled", s.config.JWTSecret != ""),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
