package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/terra-clan/challenge-hub/internal/ai"
	"github.com/terra-clan/challenge-hub/internal/auth"
	"github.com/terra-clan/challenge-hub/internal/blueprints"
	"github.com/terra-clan/challenge-hub/internal/challenge"
	"github.com/terra-clan/challenge-hub/internal/config"
	"github.com/terra-clan/challenge-hub/internal/storage"
	"github.com/terra-clan/challenge-hub/internal/users"
)

// Server represents the HTTP API server
type Server struct {
	config          config.ServerConfig
	router          *chi.Mux
	users           *users.Service
	engine          *challenge.Engine
	tokens          auth.TokenStore
	gateway         *ai.Gateway
	blueprintLoader *blueprints.Loader
	repo            storage.Repository
	validate        *validator.Validate
	hub             *liveHub
	authMiddleware  *AuthMiddleware
}

// NewServer creates a new API server. The gateway may be nil when no
// generative-service credential is configured; suggestion endpoints then
// report an internal error.
func NewServer(
	cfg config.ServerConfig,
	userService *users.Service,
	engine *challenge.Engine,
	tokens auth.TokenStore,
	gateway *ai.Gateway,
	loader *blueprints.Loader,
	repo storage.Repository,
) *Server {
	s := &Server{
		config:          cfg,
		users:           userService,
		engine:          engine,
		tokens:          tokens,
		gateway:         gateway,
		blueprintLoader: loader,
		repo:            repo,
		validate:        validator.New(),
		hub:             newLiveHub(),
		authMiddleware:  NewAuthMiddleware(tokens),
	}
	engine.OnAnnouncement(s.hub.Broadcast)
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Auth-Token", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health checks (public)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		// Public: registration and login
		r.Post("/users/register", s.handleRegister)
		r.Post("/users/login", s.handleLogin)

		// Challenge reads are public; writes require a token
		r.Route("/challenges", func(r chi.Router) {
			r.Get("/", s.handleListChallenges)
			r.With(s.authMiddleware.Authenticate).Post("/", s.handleCreateChallenge)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetChallenge)

				// Live announcement feed. Browser websocket clients cannot
				// set headers, so the handler does its own token check with
				// a query parameter fallback.
				r.Get("/live", s.handleChallengeLiveWS)

				r.Group(func(r chi.Router) {
					r.Use(s.authMiddleware.Authenticate)

					r.Put("/", s.handleUpdateChallenge)
					r.Post("/announcements", s.handleCreateAnnouncement)
					r.Post("/submissions", s.handleCreateSubmission)
				})
			})
		})

		// Everything else requires a valid token
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware.Authenticate)

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", s.handleGetMe)
				r.Put("/me", s.handleUpdateMe)
				r.Post("/logout", s.handleLogout)
				r.Get("/reviewers", s.handleListReviewers)
			})

			r.Route("/blueprints", func(r chi.Router) {
				r.Get("/", s.handleListBlueprints)
				r.Get("/{id}", s.handleGetBlueprint)
			})

			r.Route("/ai", func(r chi.Router) {
				r.Post("/analyze-problem", s.handleAnalyzeProblem)
				r.Post("/validate-requirements", s.handleValidateRequirements)
				r.Post("/suggest-prize", s.handleSuggestPrize)
				r.Post("/evaluation-criteria", s.handleEvaluationCriteria)
			})
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
