package middleware

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"choreify/models"
	"choreify/services/access"
	"choreify/services/identity"
	"choreify/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	ready    bool
	sessions map[string]*models.Session
	stored   []*models.Session
}

func (f *fakeStore) Ready() bool { return f.ready }

func (f *fakeStore) Current(ctx context.Context, id string) (*models.Session, error) {
	return f.sessions[id], nil
}

func (f *fakeStore) Store(ctx context.Context, s *models.Session) error {
	f.stored = append(f.stored, s)
	if f.sessions == nil {
		f.sessions = map[string]*models.Session{}
	}
	f.sessions[s.ID] = s
	return nil
}

type fakeTokens map[string]*models.Session

func (f fakeTokens) GetSession(ctx context.Context, token string) (*models.Session, error) {
	if s, ok := f[token]; ok {
		return s, nil
	}
	return nil, identity.ErrSessionNotFound
}

const testTemplates = `{{define "loading.html"}}loading{{end}}{{define "denied.html"}}denied: {{.message}}{{end}}`

func newRouter(store SessionStore, tokens TokenResolver, guard access.Guard) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("").Parse(testTemplates)))
	r.Use(LoadSession(store, tokens))
	protected := r.Group("", RequireAccess(guard))
	ok := func(c *gin.Context) {
		c.String(http.StatusOK, "ok readOnly=%v", IsReadOnly(c))
	}
	protected.GET("/worker/dashboard", ok)
	protected.GET("/api/worker/bookings", ok)
	protected.PATCH("/api/worker/bookings/:id", ok)
	protected.GET("/dashboard", ok)
	protected.GET("/admin", ok)
	return r
}

func do(r http.Handler, method, path string, setup func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func withCookie(id string) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: utils.SessionCookie, Value: id})
	}
}

var workerGuard = access.Guard{RequireAuth: true, AllowedRoles: []string{"WORKER", "ADMIN"}}

func storeWith(sessions ...*models.Session) *fakeStore {
	m := map[string]*models.Session{}
	for _, s := range sessions {
		m[s.ID] = s
	}
	return &fakeStore{ready: true, sessions: m}
}

func TestRequireAccess_LoadingReturns503(t *testing.T) {
	r := newRouter(&fakeStore{ready: false}, fakeTokens{}, workerGuard)

	w := do(r, http.MethodGet, "/worker/dashboard", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, "loading", w.Body.String())

	w = do(r, http.MethodGet, "/api/worker/bookings", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Session is loading")
}

func TestRequireAccess_RedirectsAnonymousPages(t *testing.T) {
	r := newRouter(storeWith(), fakeTokens{}, workerGuard)

	w := do(r, http.MethodGet, "/worker/dashboard", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t,
		"/login?message=Please+sign+in+to+access+the+worker+portal&returnTo=%2Fworker%2Fdashboard",
		w.Header().Get("Location"))
}

func TestRequireAccess_AnonymousAPIGets401(t *testing.T) {
	r := newRouter(storeWith(), fakeTokens{}, workerGuard)

	w := do(r, http.MethodGet, "/api/worker/bookings", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"redirectTo":"/login?`)
}

func TestRequireAccess_AllowsMatchingRole(t *testing.T) {
	r := newRouter(storeWith(&models.Session{ID: "s1", Role: "worker"}), fakeTokens{}, workerGuard)

	w := do(r, http.MethodGet, "/worker/dashboard", withCookie("s1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok readOnly=false", w.Body.String())
}

func TestRequireAccess_DeniesWrongRole(t *testing.T) {
	guard := access.Guard{RequireAuth: true, AllowedRoles: []string{"ADMIN"}}
	r := newRouter(storeWith(&models.Session{ID: "s1", Role: models.RoleWorker}), fakeTokens{}, guard)

	w := do(r, http.MethodGet, "/admin", withCookie("s1"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Contains(t, w.Body.String(), "denied: ")
}

func TestRequireAccess_ApplicantCarveOutIsReadOnly(t *testing.T) {
	r := newRouter(storeWith(&models.Session{ID: "s1", Role: models.RoleCustomer}), fakeTokens{}, workerGuard)

	w := do(r, http.MethodGet, "/worker/dashboard", withCookie("s1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok readOnly=true", w.Body.String())

	w = do(r, http.MethodGet, "/api/worker/bookings", withCookie("s1"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPatch, "/api/worker/bookings/b1", withCookie("s1"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLoadSession_BearerToken(t *testing.T) {
	token := "tok-abc"
	s := &models.Session{ID: utils.HashToken(token), Role: models.RoleWorker, AccessToken: token}
	store := storeWith()
	r := newRouter(store, fakeTokens{token: s}, workerGuard)

	bearer := func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }
	w := do(r, http.MethodGet, "/api/worker/bookings", bearer)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.stored, 1)

	w = do(r, http.MethodGet, "/api/worker/bookings", bearer)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, store.stored, 1, "second request is served from the store")

	w = do(r, http.MethodGet, "/api/worker/bookings", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer forged")
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoadSession_UnknownCookieIsAnonymous(t *testing.T) {
	r := newRouter(storeWith(), fakeTokens{}, access.Guard{RequireAuth: true})

	w := do(r, http.MethodGet, "/dashboard", withCookie("stale"))
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestCartCookie(t *testing.T) {
	r := gin.New()
	r.Use(CartCookie())
	r.GET("/cart", func(c *gin.Context) { c.String(http.StatusOK, CartID(c)) })

	w := do(r, http.MethodGet, "/cart", nil)
	id := w.Body.String()
	assert.NotEmpty(t, id)
	require.Len(t, w.Result().Cookies(), 1)
	assert.Equal(t, id, w.Result().Cookies()[0].Value)

	w = do(r, http.MethodGet, "/cart", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: utils.CartCookie, Value: "existing"})
	})
	assert.Equal(t, "existing", w.Body.String())
	assert.Empty(t, w.Result().Cookies())
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	from := func(ip string) func(*http.Request) {
		return func(req *http.Request) { req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1") }
	}
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/", from("1.1.1.1")).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/", from("1.1.1.1")).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/", from("1.1.1.1")).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/", from("2.2.2.2")).Code)
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zapNop()))
	r.GET("/", func(c *gin.Context) {
		assert.NotNil(t, GetLogger(c))
		c.Status(http.StatusNoContent)
	})

	w := do(r, http.MethodGet, "/", nil)
	assert.NotEmpty(t, w.Header().Get(headerReqID))

	w = do(r, http.MethodGet, "/", func(req *http.Request) { req.Header.Set(headerReqID, "given") })
	assert.Equal(t, "given", w.Header().Get(headerReqID))
}

func zapNop() *zap.Logger { return zap.NewNop() }
