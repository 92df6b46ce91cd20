package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/bryanwahyu/content-insight/internal/application"
	appanalyses "github.com/bryanwahyu/content-insight/internal/application/analyses"
	appfiles "github.com/bryanwahyu/content-insight/internal/application/files"
	appprojects "github.com/bryanwahyu/content-insight/internal/application/projects"
	appstats "github.com/bryanwahyu/content-insight/internal/application/stats"
	appusers "github.com/bryanwahyu/content-insight/internal/application/users"
	domai "github.com/bryanwahyu/content-insight/internal/domain/ai"
	"github.com/bryanwahyu/content-insight/internal/middleware"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Analyses *appanalyses.Service
	Projects *appprojects.Service
	Files    *appfiles.Service
	Stats    *appstats.Service
	Users    *appusers.Service
	Log      *zap.Logger

	APIKeys     map[string]int64
	DefaultUser int64
	Limiter     *middleware.RateLimiter
	CORSOrigins []string
	Checkers    map[string]middleware.HealthChecker
}

type Router struct {
	Deps
}

func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if len(d.CORSOrigins) == 0 {
		d.CORSOrigins = []string{"*"}
	}
	r := &Router{Deps: d}
	mux := chi.NewRouter()

	mux.Use(chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	mux.Use(middleware.Logging(d.Log))
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", middleware.HealthHandler(d.Checkers))
	mux.Get("/healthz", middleware.LivenessHandler)
	mux.Get("/readyz", middleware.ReadinessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Use(middleware.APIKeyAuth(d.APIKeys, d.DefaultUser))
		rt.Use(middleware.RateLimit(d.Limiter))

		rt.Get("/stats", r.wrap(r.handleStats))
		rt.Get("/user", r.wrap(r.handleUser))

		rt.Get("/projects", r.wrap(r.handleListProjects))
		rt.Post("/projects", r.wrap(r.handleCreateProject))
		rt.Get("/projects/{id}", r.wrap(r.handleGetProject))
		rt.Patch("/projects/{id}", r.wrap(r.handleUpdateProject))
		rt.Get("/projects/{id}/analyses", r.wrap(r.handleProjectAnalyses))

		rt.Get("/analyses", r.wrap(r.handleListAnalyses))
		rt.Post("/analyses", r.wrap(r.handleCreateAnalysis))
		rt.Get("/analyses/{id}", r.wrap(r.handleGetAnalysis))
		rt.Get("/analyses/{id}/export", r.wrap(r.handleExportAnalysis))

		rt.Get("/files", r.wrap(r.handleListFiles))
		rt.Post("/files", r.wrap(r.handleUploadFile))
		rt.Get("/files/{id}", r.wrap(r.handleGetFile))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var verr *application.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Msg)
		case errors.Is(err, application.ErrNotFound), errors.Is(err, sql.ErrNoRows):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, domai.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, "ai quota exceeded")
		default:
			r.Log.Error("request failed",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("request_id", w.Header().Get(middleware.RequestIDHeader)),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func decodeJSON(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return application.Invalid("invalid request body")
	}
	return nil
}

func pathID(req *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, application.Invalid("invalid id")
	}
	return id, nil
}

// userID returns the caller set by the auth middleware.
func (r *Router) userID(req *http.Request) int64 {
	if id, ok := middleware.GetUserFromContext(req.Context()); ok {
		return id
	}
	return r.DefaultUser
}
