package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/meur/buildforge/internal/builds"
	"github.com/meur/buildforge/internal/logger"
	"github.com/meur/buildforge/internal/metrics"
	"github.com/meur/buildforge/internal/models"
	"github.com/meur/buildforge/internal/weapons"
)

// BuildStore is the query and mutation boundary the handlers talk to
type BuildStore interface {
	SearchBuilds(ctx context.Context, weapon string) ([]models.Build, error)
	GetBuild(ctx context.Context, id string) (*models.Build, error)
	CreateBuild(ctx context.Context, u *models.BuildUpdate) (*models.Build, error)
	UpdateBuild(ctx context.Context, id string, u *models.BuildUpdate) error
	DeleteBuild(ctx context.Context, id string) error
}

// PreferenceStore persists per-user view settings
type PreferenceStore interface {
	GetPreferences(ctx context.Context, userID string) (models.Preferences, error)
	SetPreferences(ctx context.Context, prefs models.Preferences) error
}

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options are the dependencies of a Server. Builds and Catalog are
// required. Without Preferences every viewer gets the default view and
// the preference routes are not mounted.
type Options struct {
	Builds      BuildStore
	Preferences PreferenceStore
	Catalog     *weapons.Catalog
	Logger      *zap.Logger
	Health      Pinger
	CORSOrigins []string
	PageSize    int
}

// Server holds the HTTP server dependencies
type Server struct {
	store    BuildStore
	prefs    PreferenceStore
	catalog  *weapons.Catalog
	log      *zap.Logger
	health   Pinger
	validate *Validator
	pageSize int
	origins  []string
	router   chi.Router
}

// New creates a new API server
func New(opts Options) *Server {
	if opts.Builds == nil || opts.Catalog == nil {
		panic("api: Builds and Catalog are required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = builds.DefaultPageSize
	}

	s := &Server{
		store:    opts.Builds,
		prefs:    opts.Preferences,
		catalog:  opts.Catalog,
		log:      opts.Logger,
		health:   opts.Health,
		validate: NewValidator(opts.Catalog),
		pageSize: opts.PageSize,
		origins:  opts.CORSOrigins,
		router:   chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the router so callers can mount extra handlers
func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(logger.Middleware(s.log))
	s.router.Use(metrics.Middleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	if len(s.origins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Accept-Language", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		// Builds
		r.Get("/builds", s.handleSearchBuilds)
		r.Post("/builds", s.handleCreateBuild)
		r.Get("/builds/{id}", s.handleGetBuild)
		r.Put("/builds/{id}", s.handleUpdateBuild)
		r.Delete("/builds/{id}", s.handleDeleteBuild)
		r.Get("/builds/{id}/card", s.handleGetBuildCard)

		// Reference lists
		r.Get("/weapons", s.handleGetWeapons)
		r.Get("/abilities", s.handleGetAbilities)

		// View preferences
		if s.prefs != nil {
			r.Get("/preferences/{userID}", s.handleGetPreferences)
			r.Put("/preferences/{userID}", s.handleUpdatePreferences)
		}
	})

	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			s.log.Warn("health check failed", zap.Error(err))
			respondError(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
