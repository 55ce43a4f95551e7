package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/HosMercury/auth-login/internal/auth"
	"github.com/HosMercury/auth-login/internal/identity"
	"github.com/HosMercury/auth-login/internal/middleware"
	"github.com/HosMercury/auth-login/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router     *gin.Engine
	service    *auth.Service
	binder     *session.Binder
	identities *identity.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	identities := identity.NewMemoryStore()
	sessions := session.NewMemoryStore()
	t.Cleanup(sessions.Close)

	service := auth.NewService(identities)
	binder := session.NewBinder(sessions, identities, time.Hour)

	h := NewHandler(service, binder)
	authMW := middleware.NewAuthMiddleware(binder)

	router := gin.New()
	h.RegisterRoutes(router, authMW)

	return &testServer{
		router:     router,
		service:    service,
		binder:     binder,
		identities: identities,
	}
}

func (s *testServer) registerAlice(t *testing.T) *identity.Identity {
	t.Helper()
	ident, err := s.service.Register(
		context.Background(), "alice", "Alice", "correct-horse",
	)
	require.NoError(t, err)
	return ident
}

func (s *testServer) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestLoginSuccessSetsCookieAndRedirects(t *testing.T) {
	srv := newTestServer(t)
	srv.registerAlice(t)

	w := srv.postForm("/login", url.Values{
		"username": {"alice"},
		"password": {"correct-horse"},
	}, nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)

	me := srv.get("/me", cookie)
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"username":"alice"`)
}

func TestLoginInvalidCredentials(t *testing.T) {
	srv := newTestServer(t)
	srv.registerAlice(t)

	wrongPass := srv.postForm("/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	}, nil)
	noUser := srv.postForm("/login", url.Values{
		"username": {"nobody"},
		"password": {"whatever"},
	}, nil)

	// Same status, same body: no account-existence oracle.
	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, noUser.Code)
	assert.Equal(t, wrongPass.Body.String(), noUser.Body.String())
}

func TestLoginBackendUnavailable(t *testing.T) {
	srv := newTestServer(t)
	srv.registerAlice(t)

	srv.identities.FailBackend(true)
	defer srv.identities.FailBackend(false)

	w := srv.postForm("/login", url.Values{
		"username": {"alice"},
		"password": {"correct-horse"},
	}, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "invalid credentials")
}

func TestLoginRedirectTargetValidation(t *testing.T) {
	srv := newTestServer(t)
	srv.registerAlice(t)

	cases := []struct {
		next string
		want string
	}{
		{"/dashboard", "/dashboard"},
		{"", "/"},
		{"https://evil.example", "/"},
		{"//evil.example", "/"},
		{"/\\evil.example", "/"},
		{"javascript:alert(1)", "/"},
		{"/ok?next=//evil.example", "/ok?next=//evil.example"},
	}

	for _, tc := range cases {
		next, want := tc.next, tc.want
		w := srv.postForm("/login", url.Values{
			"username": {"alice"},
			"password": {"correct-horse"},
			"next":     {next},
		}, nil)

		assert.Equal(t, http.StatusFound, w.Code, next)
		assert.Equal(t, want, w.Header().Get("Location"), next)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	srv := newTestServer(t)
	srv.registerAlice(t)

	login := srv.postForm("/login", url.Values{
		"username": {"alice"},
		"password": {"correct-horse"},
	}, nil)
	cookie := sessionCookie(t, login)

	first := srv.postForm("/logout", nil, cookie)
	assert.Equal(t, http.StatusFound, first.Code)
	assert.Equal(t, "/login", first.Header().Get("Location"))

	// The session is gone.
	me := srv.get("/me", cookie)
	assert.Equal(t, http.StatusUnauthorized, me.Code)

	// A second logout with the same token still succeeds.
	second := srv.postForm("/logout", nil, cookie)
	assert.Equal(t, http.StatusFound, second.Code)

	// So does a logout with no session at all.
	third := srv.postForm("/logout", nil, nil)
	assert.Equal(t, http.StatusFound, third.Code)
}

func TestRestrictedRequiresAuth(t *testing.T) {
	srv := newTestServer(t)
	srv.registerAlice(t)

	anon := srv.get("/restricted", nil)
	assert.Equal(t, http.StatusUnauthorized, anon.Code)

	login := srv.postForm("/login", url.Values{
		"username": {"alice"},
		"password": {"correct-horse"},
	}, nil)
	cookie := sessionCookie(t, login)

	restricted := srv.get("/restricted", cookie)
	assert.Equal(t, http.StatusOK, restricted.Code)
	assert.Contains(t, restricted.Body.String(), "Hello, alice!")
}

func TestPasswordChangeRevokesOtherSessions(t *testing.T) {
	srv := newTestServer(t)
	srv.registerAlice(t)

	form := url.Values{
		"username": {"alice"},
		"password": {"correct-horse"},
	}

	// Two independent logins, e.g. two devices.
	first := sessionCookie(t, srv.postForm("/login", form, nil))
	second := sessionCookie(t, srv.postForm("/login", form, nil))

	assert.Equal(t, http.StatusOK, srv.get("/me", first).Code)
	assert.Equal(t, http.StatusOK, srv.get("/me", second).Code)

	// Change the password through the first session.
	w := srv.postForm("/password", url.Values{
		"new_password": {"new-password-1"},
	}, first)
	require.Equal(t, http.StatusOK, w.Code)

	// Both sessions carried the old auth basis; both are dead now.
	assert.Equal(t, http.StatusUnauthorized, srv.get("/me", first).Code)
	assert.Equal(t, http.StatusUnauthorized, srv.get("/me", second).Code)

	// The new password logs in normally.
	relogin := srv.postForm("/login", url.Values{
		"username": {"alice"},
		"password": {"new-password-1"},
	}, nil)
	assert.Equal(t, http.StatusFound, relogin.Code)
}

func TestRegister(t *testing.T) {
	srv := newTestServer(t)

	w := srv.postForm("/register", url.Values{
		"username":     {"bob"},
		"display_name": {"Bob"},
		"password":     {"longenoughpass"},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// Registration logs the user straight in.
	cookie := sessionCookie(t, w)
	me := srv.get("/me", cookie)
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"username":"bob"`)

	dup := srv.postForm("/register", url.Values{
		"username": {"bob"},
		"password": {"longenoughpass"},
	}, nil)
	assert.Equal(t, http.StatusConflict, dup.Code)
}

func TestLoginPageCarriesNext(t *testing.T) {
	srv := newTestServer(t)

	w := srv.get("/login?next=/dashboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="/dashboard"`)

	// Hostile targets never make it into the form.
	w = srv.get("/login?next=//evil.example", nil)
	assert.Contains(t, w.Body.String(), `value="/"`)
}
