// Package server is the composition root: it wires the store, services,
// auth primitives, and handlers onto the router, and owns the HTTP server
// lifecycle.
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

	"github.com/harulog/harulog/internal/auth"
	"github.com/harulog/harulog/internal/config"
	"github.com/harulog/harulog/internal/handler"
	"github.com/harulog/harulog/internal/middleware"
	sqliteRepo "github.com/harulog/harulog/internal/repository/sqlite"
	"github.com/harulog/harulog/internal/service"
)

// Server bundles the router, configuration, and the database it owns.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency graph:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer receives interfaces or services, never the layer below that.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Router exposes the configured router. Tests mount it on httptest.Server.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.cfg.JWTSecret, s.cfg.TokenTTL, s.logger)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService(s.cfg.BcryptCost, s.cfg.HashWorkers)

	users := s.db.Users()
	authService := service.NewAuthService(users, tokens, passwords, s.logger)
	diaryService := service.NewDiaryService(s.db.Diaries(), s.logger)
	quoteService := service.NewQuoteService(s.db.Quotes(), s.logger)
	questionService := service.NewQuestionService(s.db.Questions(), s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	diaryHandler := handler.NewDiaryHandler(diaryService, s.logger)
	quoteHandler := handler.NewQuoteHandler(quoteService, s.logger)
	questionHandler := handler.NewQuestionHandler(questionService, s.logger)

	requireAuth := auth.RequireAuth(tokens, users, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	// Bounds every request, store calls included: a stalled store surfaces
	// as a timeout instead of a hung connection.
	s.router.Use(chimiddleware.Timeout(s.cfg.RequestTimeout))
	s.router.Use(middleware.Logger(s.logger))

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", authHandler.HandleMe)
			r.Patch("/me", authHandler.HandleUpdateMe)
			r.Patch("/me/password", authHandler.HandleChangePassword)
		})
	})

	s.router.Route("/v1/diary", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", diaryHandler.HandleCreate)
		r.Get("/", diaryHandler.HandleList)
		r.Get("/{id}", diaryHandler.HandleGet)
		r.Put("/{id}", diaryHandler.HandleUpdate)
		r.Delete("/{id}", diaryHandler.HandleDelete)
	})

	s.router.Route("/quote", func(r chi.Router) {
		r.Get("/random", quoteHandler.HandleRandom)
		r.Post("/", quoteHandler.HandleCreate)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/bookmark", quoteHandler.HandleBookmarks)
			r.Post("/{id}/bookmark", quoteHandler.HandleBookmark)
			r.Delete("/{id}/bookmark", quoteHandler.HandleUnbookmark)
		})
	})

	s.router.Route("/question", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/random", questionHandler.HandleRandom)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests within
// the shutdown timeout, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("addr", s.cfg.Addr),
			slog.String("database", s.cfg.DBPath),
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

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
