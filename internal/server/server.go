// Package server wires the HTTP router, middleware, and all route
// definitions, and owns server startup and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/DhruvGajera9022/Project-Management-App/internal/auth"
	"github.com/DhruvGajera9022/Project-Management-App/internal/handler"
	"github.com/DhruvGajera9022/Project-Management-App/internal/middleware"
	sqliteRepo "github.com/DhruvGajera9022/Project-Management-App/internal/repository/sqlite"
	"github.com/DhruvGajera9022/Project-Management-App/internal/service"
)

// OAuthCredentials holds one provider's client registration. A provider
// with an empty ClientID is not registered.
type OAuthCredentials struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Config holds server configuration, loaded from the environment in
// cmd/server.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
	Google    OAuthCredentials
	GitHub    OAuthCredentials
	Facebook  OAuthCredentials
}

// Server holds the router and the resources it owns. The database
// connection is closed during shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the whole dependency chain: database, services,
// handlers, routes. Each layer receives only the layer below it.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
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

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) oauthProviders() map[string]*auth.OAuthProvider {
	providers := make(map[string]*auth.OAuthProvider)
	if c := s.config.Google; c.ClientID != "" {
		providers["google"] = auth.NewGoogleProvider(c.ClientID, c.ClientSecret, c.CallbackURL)
	}
	if c := s.config.GitHub; c.ClientID != "" {
		providers["github"] = auth.NewGitHubProvider(c.ClientID, c.ClientSecret, c.CallbackURL)
	}
	if c := s.config.Facebook; c.ClientID != "" {
		providers["facebook"] = auth.NewFacebookProvider(c.ClientID, c.ClientSecret, c.CallbackURL)
	}
	return providers
}

func (s *Server) setupRoutes() error {
	// Middleware order: request id and real IP first, panic recovery,
	// then request logging.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, passwords, s.logger)
	memberService := service.NewMemberService(s.db, s.logger)
	workspaceService := service.NewWorkspaceService(s.db, s.logger)
	projectService := service.NewProjectService(s.db, s.logger)
	taskService := service.NewTaskService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, tokens, s.oauthProviders(), s.logger)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService, memberService, s.logger)
	projectHandler := handler.NewProjectHandler(projectService, s.logger)
	taskHandler := handler.NewTaskHandler(taskService, s.logger)

	// OAuth browser flow lives outside /api: providers redirect here.
	s.router.Get("/auth/{provider}/login", authHandler.HandleOAuthLogin)
	s.router.Get("/auth/{provider}/callback", authHandler.HandleOAuthCallback)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		// Everything below requires a valid session.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/user/current", authHandler.HandleMe)

			r.Route("/workspace", func(r chi.Router) {
				r.Post("/", workspaceHandler.HandleCreate)
				r.Get("/", workspaceHandler.HandleList)

				r.Route("/{workspaceID}", func(r chi.Router) {
					r.Get("/", workspaceHandler.HandleGet)
					r.Put("/", workspaceHandler.HandleUpdate)
					r.Delete("/", workspaceHandler.HandleDelete)
					r.Get("/analytics", workspaceHandler.HandleAnalytics)
					r.Get("/members", workspaceHandler.HandleMembers)
					r.Put("/members/{memberID}/role", workspaceHandler.HandleChangeMemberRole)

					r.Route("/projects", func(r chi.Router) {
						r.Post("/", projectHandler.HandleCreate)
						r.Get("/", projectHandler.HandleList)
						r.Get("/{projectID}", projectHandler.HandleGet)
						r.Put("/{projectID}", projectHandler.HandleUpdate)
						r.Delete("/{projectID}", projectHandler.HandleDelete)
						r.Get("/{projectID}/analytics", projectHandler.HandleAnalytics)

						r.Post("/{projectID}/tasks", taskHandler.HandleCreate)
						r.Get("/{projectID}/tasks", taskHandler.HandleList)
					})

					r.Route("/tasks/{taskID}", func(r chi.Router) {
						r.Get("/", taskHandler.HandleGet)
						r.Put("/", taskHandler.HandleUpdate)
						r.Delete("/", taskHandler.HandleDelete)
					})
				})
			})

			r.Post("/member/workspace/{inviteCode}/join", workspaceHandler.HandleJoin)
		})
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, drain in-flight requests, close the
// database.
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
		if !errors.Is(err, http.ErrServerClosed) {
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
