// Package server is the composition root: it opens the database, wires
// repositories into services into handlers, mounts the routes, and runs
// the HTTP server with graceful shutdown.
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
	"github.com/go-chi/cors"

	"github.com/quizzmate/backend/internal/auth"
	"github.com/quizzmate/backend/internal/config"
	"github.com/quizzmate/backend/internal/handler"
	"github.com/quizzmate/backend/internal/middleware"
	sqliteRepo "github.com/quizzmate/backend/internal/repository/sqlite"
	"github.com/quizzmate/backend/internal/service"
)

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed before exit.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database, seeds the bootstrap admin account, and wires
// every layer together. Services receive repository interfaces, handlers
// receive services; nothing skips a layer.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// The admin account must exist before the first request; creating it
	// here is idempotent across restarts.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.EnsureAdmin(ctx, "Admin", cfg.AdminEmail, auth.HashPassword(cfg.AdminPassword)); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding admin account: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes()
	return s, nil
}

// Handler exposes the configured router, mainly for tests that want to
// drive the full middleware and routing stack with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Browser clients are served from a different origin during
	// development, so the API answers preflights for any origin.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	tokens := auth.NewTokenSource()

	authService := service.NewAuthService(s.db, s.db, tokens, s.logger)
	cardService := service.NewFlashcardService(s.db, s.db, s.logger)
	exerciseService := service.NewExerciseService(s.db, s.db, tokens, s.logger)
	statsService := service.NewStatsService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	cardHandler := handler.NewFlashcardHandler(cardService, s.logger)
	exerciseHandler := handler.NewExerciseHandler(exerciseService, statsService, s.logger)
	adminHandler := handler.NewAdminHandler(cardService, exerciseService, statsService, s.logger)

	// Public routes.
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Post("/logout", authHandler.HandleLogout)

	// Everything below requires a valid bearer token.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(authService))

		r.Get("/flashcards", cardHandler.HandleList)
		r.Post("/flashcards", cardHandler.HandleAdd)
		r.Put("/flashcards/{id}", cardHandler.HandleUpdate)
		r.Delete("/flashcards/{id}", cardHandler.HandleDelete)

		r.Get("/exercises", exerciseHandler.HandleList)
		r.Post("/exercises/submit", exerciseHandler.HandleSubmitAnswer)
		r.Post("/exercises/submit-session", exerciseHandler.HandleSubmitSession)
		r.Get("/exercises/statistics", exerciseHandler.HandleStatistics)

		// Admin routes additionally re-check the admin flag per request.
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin(authService))

			r.Get("/stats", adminHandler.HandleStats)

			r.Get("/default-flashcards", adminHandler.HandleListDefaults)
			r.Post("/default-flashcards", adminHandler.HandleAddDefault)
			r.Put("/default-flashcards/{id}", adminHandler.HandleUpdateDefault)
			r.Delete("/default-flashcards/{id}", adminHandler.HandleDeleteDefault)

			r.Get("/exercises", adminHandler.HandleListExercises)
			r.Post("/exercises", adminHandler.HandleAddExercise)
			r.Get("/exercises/statistics", adminHandler.HandleExerciseStatistics)
			r.Put("/exercises/{id}", adminHandler.HandleUpdateExercise)
			r.Delete("/exercises/{id}", adminHandler.HandleDeleteExercise)
		})
	})
}

// Start runs the server until SIGINT/SIGTERM, then drains in-flight
// requests and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
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
