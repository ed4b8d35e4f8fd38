package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"yatube/internal/cache"
	"yatube/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsers map[uint]*models.User

func (f fakeUsers) ByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, assert.AnError
}

func TestLoginRedirect(t *testing.T) {
	tests := map[string]string{
		"/create/":        "/auth/login/?next=/create/",
		"/posts/3/edit/":  "/auth/login/?next=/posts/3/edit/",
		"/follow/?page=2": "/auth/login/?next=/follow/%3Fpage%3D2",

		"/profile/a+b/follow/": "/auth/login/?next=/profile/a%2Bb/follow/",
		"/profile/a%20b/":      "/auth/login/?next=/profile/a%2520b/",
	}
	for raw, want := range tests {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, want, LoginRedirect(u), raw)
	}
}

func TestSafeRedirect(t *testing.T) {
	assert.True(t, SafeRedirect("/"))
	assert.True(t, SafeRedirect("/posts/1/"))
	assert.False(t, SafeRedirect(""))
	assert.False(t, SafeRedirect("https://evil.example/"))
	assert.False(t, SafeRedirect("//evil.example/"))
	assert.False(t, SafeRedirect(`/\evil.example/`))
	assert.False(t, SafeRedirect("posts/1/"))
}

func newEngine(users fakeUsers) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("secret"))))
	r.GET("/login-as/:id", func(c *gin.Context) {
		s := sessions.Default(c)
		switch c.Param("id") {
		case "1":
			s.Set(SessionUserKey, uint(1))
		case "9":
			s.Set(SessionUserKey, uint(9))
		}
		_ = s.Save()
		c.Status(http.StatusNoContent)
	})
	r.Use(LoadUser(users))
	return r
}

func TestAuthRequired(t *testing.T) {
	r := newEngine(fakeUsers{1: {ID: 1, Username: "leo"}})
	r.GET("/create/", AuthRequired(), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.String(http.StatusOK, user.Username)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/create/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/create/", w.Header().Get("Location"))

	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login-as/1", nil))
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "leo", w.Body.String())
}

func TestLoadUserIgnoresUnknownUser(t *testing.T) {
	r := newEngine(fakeUsers{})
	r.GET("/whoami", func(c *gin.Context) {
		_, ok := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})

	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login-as/9", nil))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, ck := range login.Result().Cookies() {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"authenticated": false}`, w.Body.String())
}

func TestCachePage(t *testing.T) {
	pc := cache.NewMemory(8, time.Minute)
	calls := 0

	r := gin.New()
	r.GET("/", CachePage(pc), func(c *gin.Context) {
		calls++
		c.String(http.StatusOK, "render #%d", calls)
	})
	r.GET("/broken", CachePage(pc), func(c *gin.Context) {
		calls++
		c.String(http.StatusInternalServerError, "oops")
	})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	first := get("/")
	second := get("/")
	assert.Equal(t, "render #1", first.Body.String())
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)

	// Different query strings are different pages
	assert.Equal(t, "render #2", get("/?page=2").Body.String())

	require.NoError(t, pc.Invalidate(context.Background()))
	assert.Equal(t, "render #3", get("/").Body.String())

	// Errors are never cached
	get("/broken")
	get("/broken")
	assert.Equal(t, 5, calls)
}
