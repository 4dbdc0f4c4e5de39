package web

import (
    "context"
    "errors"
    "net/http"
    "net/http/httptest"
    "net/url"
    "strings"
    "testing"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/local/doccompare/internal/store"
)

type stubLister struct {
    items []*store.SavedComparison
    err   error
    user  string
}

func (s *stubLister) List(_ context.Context, userID string) ([]*store.SavedComparison, error) {
    s.user = userID
    return s.items, s.err
}

func newRouter(opts Options) chi.Router {
    r := chi.NewRouter()
    New(opts).RegisterRoutes(r)
    return r
}

func postLogin(r chi.Router, user, pass string) *httptest.ResponseRecorder {
    form := url.Values{"username": {user}, "password": {pass}}
    req := httptest.NewRequest(http.MethodPost, "/web/login", strings.NewReader(form.Encode()))
    req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
    rec := httptest.NewRecorder()
    r.ServeHTTP(rec, req)
    return rec
}

func login(t *testing.T, r chi.Router) *http.Cookie {
    t.Helper()
    cookies := postLogin(r, "ana", "pw").Result().Cookies()
    require.Len(t, cookies, 1)
    return cookies[0]
}

func getWithCookie(r chi.Router, path string, c *http.Cookie) *httptest.ResponseRecorder {
    req := httptest.NewRequest(http.MethodGet, path, nil)
    if c != nil {
        req.AddCookie(c)
    }
    rec := httptest.NewRecorder()
    r.ServeHTTP(rec, req)
    return rec
}

func TestIndexServesComparePage(t *testing.T) {
    r := newRouter(Options{})
    rec := httptest.NewRecorder()
    r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

    require.Equal(t, http.StatusOK, rec.Code)
    body := rec.Body.String()
    assert.Contains(t, body, `id="slot-a"`)
    assert.Contains(t, body, `id="slot-b"`)
    assert.Contains(t, body, "Switch sides")
}

func TestDashboardRequiresCredentialsConfigured(t *testing.T) {
    r := newRouter(Options{})
    rec := httptest.NewRecorder()
    r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/web/dashboard", nil))
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDashboardRedirectsWithoutCookie(t *testing.T) {
    r := newRouter(Options{Username: "ana", Password: "pw"})
    rec := httptest.NewRecorder()
    r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/web/dashboard", nil))
    assert.Equal(t, http.StatusSeeOther, rec.Code)
    assert.Equal(t, "/web/login", rec.Header().Get("Location"))
}

func TestLogin(t *testing.T) {
    r := newRouter(Options{Username: "ana", Password: "pw"})

    bad := postLogin(r, "ana", "nope")
    assert.Equal(t, http.StatusSeeOther, bad.Code)
    assert.Contains(t, bad.Header().Get("Location"), "error=")
    assert.Empty(t, bad.Result().Cookies())

    ok := postLogin(r, "ana", "pw")
    assert.Equal(t, http.StatusSeeOther, ok.Code)
    assert.Equal(t, "/web/dashboard", ok.Header().Get("Location"))
    cookies := ok.Result().Cookies()
    require.Len(t, cookies, 1)
    assert.Equal(t, "auth", cookies[0].Name)
    assert.NotEqual(t, "1", cookies[0].Value)
    assert.True(t, cookies[0].HttpOnly)

    rec := httptest.NewRecorder()
    r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/web/login?error=invalid+credentials", nil))
    assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestDashboardListsSavedComparisons(t *testing.T) {
    lister := &stubLister{items: []*store.SavedComparison{{
        ID:            "c1",
        Title:         "Q3 contracts",
        DocumentAName: "old.pdf",
        DocumentAType: "pdf",
        DocumentBName: "new.pdf",
        DocumentBType: "pdf",
        CreatedAt:     time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
    }}}
    r := newRouter(Options{Username: "ana", Password: "pw", Comparisons: lister})
    rec := getWithCookie(r, "/web/dashboard", login(t, r))

    require.Equal(t, http.StatusOK, rec.Code)
    body := rec.Body.String()
    assert.Equal(t, "ana", lister.user)
    assert.Contains(t, body, "Q3 contracts")
    assert.Contains(t, body, "old.pdf (pdf)")
    assert.Contains(t, body, "2026-03-01 09:30")
}

func TestDashboardStoreFailure(t *testing.T) {
    lister := &stubLister{err: errors.New("redis down")}
    r := newRouter(Options{Username: "ana", Password: "pw", Comparisons: lister})
    rec := getWithCookie(r, "/web/dashboard", login(t, r))

    require.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), "Saved comparisons are unavailable")
    assert.Contains(t, rec.Body.String(), "No saved comparisons yet.")
}

func TestDashboardRejectsForgedCookie(t *testing.T) {
    r := newRouter(Options{Username: "ana", Password: "pw"})
    for _, value := range []string{"1", "true", ""} {
        rec := getWithCookie(r, "/web/dashboard", &http.Cookie{Name: "auth", Value: value})
        assert.Equal(t, http.StatusSeeOther, rec.Code, value)
        assert.Equal(t, "/web/login", rec.Header().Get("Location"))
    }
}

func TestLogoutEndsSession(t *testing.T) {
    r := newRouter(Options{Username: "ana", Password: "pw"})
    session := login(t, r)
    require.Equal(t, http.StatusOK, getWithCookie(r, "/web/dashboard", session).Code)

    out := getWithCookie(r, "/web/logout", session)
    assert.Equal(t, http.StatusSeeOther, out.Code)

    again := getWithCookie(r, "/web/dashboard", session)
    assert.Equal(t, http.StatusSeeOther, again.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
    r := newRouter(Options{Username: "ana", Password: "pw"})
    rec := httptest.NewRecorder()
    r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/web/logout", nil))
    assert.Equal(t, http.StatusSeeOther, rec.Code)
    cookies := rec.Result().Cookies()
    require.Len(t, cookies, 1)
    assert.Equal(t, -1, cookies[0].MaxAge)
}
