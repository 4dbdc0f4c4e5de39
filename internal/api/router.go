// Package api exposes workspaces, slots and saved comparisons over HTTP.
package api

import (
    "context"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    chimiddleware "github.com/go-chi/chi/v5/middleware"
    "github.com/rs/zerolog/log"

    "github.com/local/doccompare/internal/metrics"
    "github.com/local/doccompare/internal/statuscheck"
    "github.com/local/doccompare/internal/store"
    "github.com/local/doccompare/internal/workspace"
)

// ComparisonStore persists saved comparisons.
type ComparisonStore interface {
    Save(ctx context.Context, c *store.SavedComparison) error
    List(ctx context.Context, userID string) ([]*store.SavedComparison, error)
    Delete(ctx context.Context, userID, id string) error
}

// StatusChecker reports dependency readiness.
type StatusChecker interface {
    Summary(ctx context.Context) statuscheck.Summary
}

type Dependencies struct {
    Registry *workspace.Registry
    // Comparisons may be nil when Redis is disabled.
    Comparisons    ComparisonStore
    Status         StatusChecker
    MaxUploadBytes int64
}

type Server struct {
    deps Dependencies
}

func New(deps Dependencies) *Server {
    if deps.MaxUploadBytes <= 0 {
        deps.MaxUploadBytes = 32 << 20
    }
    return &Server{deps: deps}
}

// Router builds the chi router with middleware and every API route.
func (s *Server) Router() chi.Router {
    r := chi.NewRouter()
    r.Use(chimiddleware.RequestID)
    r.Use(chimiddleware.RealIP)
    r.Use(accessLog)
    r.Use(chimiddleware.Recoverer)

    r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("ok")) })
    r.Get("/status", s.handleStatus)
    r.Handle("/metrics", metrics.Handler())

    r.Route("/api", func(r chi.Router) {
        r.Route("/workspaces", func(r chi.Router) {
            r.Post("/", s.handleCreateWorkspace)
            r.Route("/{id}", func(r chi.Router) {
                r.Get("/", s.withWorkspace(s.handleGetWorkspace))
                r.Delete("/", s.handleDeleteWorkspace)
                r.Put("/mode", s.withWorkspace(s.handleSetMode))
                r.Post("/switch", s.withWorkspace(s.handleSwitch))
                r.Post("/compare", s.withWorkspace(s.handleCompare))
                r.Get("/report", s.withWorkspace(s.handleReport))
                r.Post("/reset", s.withWorkspace(s.handleReset))
                r.Route("/slots/{side}", func(r chi.Router) {
                    r.Get("/", s.withWorkspace(s.handleGetSlot))
                    r.Post("/file", s.withWorkspace(s.handleLoadFile))
                    r.Post("/url", s.withWorkspace(s.handleLoadURL))
                    r.Get("/preview", s.withWorkspace(s.handlePreview))
                })
            })
        })
        r.Route("/comparisons", func(r chi.Router) {
            r.Post("/", s.handleSaveComparison)
            r.Get("/", s.handleListComparisons)
            r.Delete("/{cid}", s.handleDeleteComparison)
        })
    })
    return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
    if s.deps.Status == nil {
        writeError(w, http.StatusServiceUnavailable, "status checks not configured")
        return
    }
    sum := s.deps.Status.Summary(r.Context())
    status := http.StatusOK
    if !sum.OK() {
        status = http.StatusServiceUnavailable
    }
    writeJSON(w, status, sum)
}

// accessLog writes one zerolog line per request.
func accessLog(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
        start := time.Now()
        defer func() {
            log.Info().
                Str("request_id", chimiddleware.GetReqID(r.Context())).
                Str("method", r.Method).
                Str("path", r.URL.Path).
                Int("status", ww.Status()).
                Int("bytes", ww.BytesWritten()).
                Dur("took", time.Since(start)).
                Msg("http request")
        }()
        next.ServeHTTP(ww, r)
    })
}
