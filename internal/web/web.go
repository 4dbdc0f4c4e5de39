package web

import (
    "context"
    "embed"
    "html/template"
    "net/http"
    "sync"

    "github.com/go-chi/chi/v5"
    "github.com/google/uuid"
    "github.com/rs/zerolog/log"

    "github.com/local/doccompare/internal/scoring"
    "github.com/local/doccompare/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// ComparisonLister is the read side of the saved comparison store.
type ComparisonLister interface {
    List(ctx context.Context, userID string) ([]*store.SavedComparison, error)
}

type Web struct {
    tpl         *template.Template
    username    string
    password    string
    comparisons ComparisonLister

    mu       sync.Mutex
    sessions map[string]struct{}
}

const sessionCookie = "auth"

type Options struct {
    Username string
    Password string
    // Comparisons may be nil; the dashboard then shows an empty list.
    Comparisons ComparisonLister
}

func New(opts Options) *Web {
    funcs := template.FuncMap{
        "rating": scoring.RatingLabel,
        "color":  scoring.ScoreColor,
    }
    tpl := template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
    return &Web{
        tpl:         tpl,
        username:    opts.Username,
        password:    opts.Password,
        comparisons: opts.Comparisons,
        sessions:    make(map[string]struct{}),
    }
}

func (w *Web) RegisterRoutes(r chi.Router) {
    r.Get("/", w.handleIndex)
    r.Get("/web/login", w.handleLogin)
    r.Post("/web/login", w.handleLogin)
    r.Get("/web/logout", w.handleLogout)
    r.Get("/web/", w.requireAuth(w.handleDashboard))
    r.Get("/web/dashboard", w.requireAuth(w.handleDashboard))
}

func (w *Web) render(wr http.ResponseWriter, name string, data any) {
    wr.Header().Set("Content-Type", "text/html; charset=utf-8")
    if err := w.tpl.ExecuteTemplate(wr, name, data); err != nil {
        log.Error().Err(err).Str("template", name).Msg("render failed")
    }
}

func (w *Web) requireAuth(next http.HandlerFunc) http.HandlerFunc {
    return func(wr http.ResponseWriter, r *http.Request) {
        if w.username == "" || w.password == "" {
            http.Error(wr, "WEB_USERNAME/WEB_PASSWORD not set", http.StatusForbidden)
            return
        }
        c, err := r.Cookie(sessionCookie)
        if err != nil || !w.validSession(c.Value) {
            http.Redirect(wr, r, "/web/login", http.StatusSeeOther)
            return
        }
        next(wr, r)
    }
}

// Sessions live in memory; a restart logs everyone out.
func (w *Web) newSession() string {
    token := uuid.NewString()
    w.mu.Lock()
    w.sessions[token] = struct{}{}
    w.mu.Unlock()
    return token
}

func (w *Web) validSession(token string) bool {
    w.mu.Lock()
    defer w.mu.Unlock()
    _, ok := w.sessions[token]
    return ok
}

func (w *Web) handleIndex(wr http.ResponseWriter, r *http.Request) {
    w.render(wr, "index.html", map[string]any{"Sides": []string{"a", "b"}})
}

func (w *Web) handleLogin(wr http.ResponseWriter, r *http.Request) {
    switch r.Method {
    case http.MethodGet:
        w.render(wr, "login.html", map[string]any{"Error": r.URL.Query().Get("error")})
    case http.MethodPost:
        if err := r.ParseForm(); err != nil {
            http.Redirect(wr, r, "/web/login?error=invalid+form", http.StatusSeeOther)
            return
        }
        if w.username != "" && r.Form.Get("username") == w.username && r.Form.Get("password") == w.password {
            token := w.newSession()
            http.SetCookie(wr, &http.Cookie{Name: sessionCookie, Value: token, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
            http.Redirect(wr, r, "/web/dashboard", http.StatusSeeOther)
            return
        }
        http.Redirect(wr, r, "/web/login?error=invalid+credentials", http.StatusSeeOther)
    default:
        wr.WriteHeader(http.StatusMethodNotAllowed)
    }
}

func (w *Web) handleLogout(wr http.ResponseWriter, r *http.Request) {
    if c, err := r.Cookie(sessionCookie); err == nil {
        w.mu.Lock()
        delete(w.sessions, c.Value)
        w.mu.Unlock()
    }
    http.SetCookie(wr, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
    http.Redirect(wr, r, "/web/login", http.StatusSeeOther)
}

func (w *Web) handleDashboard(wr http.ResponseWriter, r *http.Request) {
    var list []*store.SavedComparison
    var loadErr string
    if w.comparisons != nil {
        var err error
        list, err = w.comparisons.List(r.Context(), w.username)
        if err != nil {
            log.Warn().Err(err).Msg("dashboard: list comparisons failed")
            loadErr = "Saved comparisons are unavailable"
        }
    }
    w.render(wr, "dashboard.html", map[string]any{
        "Username":    w.username,
        "Comparisons": list,
        "Error":       loadErr,
    })
}
