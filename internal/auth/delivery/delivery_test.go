package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authdomain "callboard/internal/auth/domain"
	authdto "callboard/internal/auth/dto"
	"callboard/internal/auth/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth struct {
	configured bool
	loggedOut  []string
}

var validSession = &authdomain.Session{
	ID:    "sid-1",
	Token: "good-token",
	User:  &authdomain.User{ID: "u1", Email: "ada@example.com", Name: "Ada"},
}

func (f *fakeAuth) LoginURL(state string) (string, error) {
	if !f.configured {
		return "", usecase.ErrOAuthNotConfigured
	}
	return "https://idp.test/authorize?state=" + state, nil
}

func (f *fakeAuth) HandleCallback(_ context.Context, code string) (*authdto.TokenResponse, error) {
	if code != "good-code" {
		return nil, usecase.ErrInvalidToken
	}
	return &authdto.TokenResponse{
		AccessToken: "good-token",
		ExpiresAt:   time.Now().Add(time.Hour),
		User:        validSession.User,
	}, nil
}

func (f *fakeAuth) ValidateToken(token string) (*authdomain.Session, error) {
	if token != "good-token" {
		return nil, usecase.ErrInvalidToken
	}
	return validSession, nil
}

func (f *fakeAuth) Logout(session *authdomain.Session) {
	f.loggedOut = append(f.loggedOut, session.ID)
}

func (f *fakeAuth) SetLogoutCallback(func(string)) {}

func newRouter(auth *fakeAuth) *gin.Engine {
	h := NewAuthHandler(auth, "/dashboard", false)
	r := gin.New()
	r.Use(AuthMiddleware(auth, []string{"/", "/api/public"}))

	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/", ok)
	r.GET("/api/public", ok)
	r.GET("/api/calls", ok)
	r.GET("/dashboard", func(c *gin.Context) {
		_, hasSession := c.Get("session")
		c.String(http.StatusOK, "session=%v", hasSession)
	})
	r.GET("/api/auth/login", h.Login)
	r.GET("/api/auth/callback", h.Callback)
	r.POST("/api/auth/logout", h.Logout)
	r.GET("/api/auth/me", h.Me)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestMiddleware_PublicPaths(t *testing.T) {
	r := newRouter(&fakeAuth{})

	for _, path := range []string{"/", "/api/public"} {
		w := serve(r, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestMiddleware_RejectsAnonymous(t *testing.T) {
	r := newRouter(&fakeAuth{})

	api := serve(r, httptest.NewRequest(http.MethodGet, "/api/calls", nil))
	assert.Equal(t, http.StatusUnauthorized, api.Code)
	assert.JSONEq(t, `{"error":"authorization required"}`, api.Body.String())

	page := serve(r, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusFound, page.Code)
	assert.Equal(t, "/api/auth/login", page.Header().Get("Location"))
}

func TestMiddleware_BearerAndCookie(t *testing.T) {
	r := newRouter(&fakeAuth{})

	bearer := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	bearer.Header.Set("Authorization", "Bearer good-token")
	w := serve(r, bearer)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "session=true", w.Body.String())

	cookie := httptest.NewRequest(http.MethodGet, "/api/calls", nil)
	cookie.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good-token"})
	assert.Equal(t, http.StatusOK, serve(r, cookie).Code)

	bad := httptest.NewRequest(http.MethodGet, "/api/calls", nil)
	bad.Header.Set("Authorization", "Bearer forged")
	w = serve(r, bad)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid or expired token"}`, w.Body.String())

	malformed := httptest.NewRequest(http.MethodGet, "/api/calls", nil)
	malformed.Header.Set("Authorization", "good-token")
	assert.Equal(t, http.StatusUnauthorized, serve(r, malformed).Code)
}

func TestLogin_RedirectsWithState(t *testing.T) {
	r := newRouter(&fakeAuth{configured: true})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/auth/login", nil))

	require.Equal(t, http.StatusFound, w.Code)
	state := cookieNamed(w, stateCookie)
	require.NotNil(t, state)
	assert.True(t, state.HttpOnly)
	assert.Equal(t, "https://idp.test/authorize?state="+state.Value, w.Header().Get("Location"))
}

func TestLogin_NotConfigured(t *testing.T) {
	r := newRouter(&fakeAuth{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/auth/login", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCallback(t *testing.T) {
	r := newRouter(&fakeAuth{configured: true})

	mismatch := httptest.NewRequest(http.MethodGet, "/api/auth/callback?code=good-code&state=a", nil)
	mismatch.AddCookie(&http.Cookie{Name: stateCookie, Value: "b"})
	assert.Equal(t, http.StatusBadRequest, serve(r, mismatch).Code)

	denied := httptest.NewRequest(http.MethodGet, "/api/auth/callback?error=access_denied", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, denied).Code)

	badCode := httptest.NewRequest(http.MethodGet, "/api/auth/callback?code=nope&state=s", nil)
	badCode.AddCookie(&http.Cookie{Name: stateCookie, Value: "s"})
	assert.Equal(t, http.StatusUnauthorized, serve(r, badCode).Code)

	good := httptest.NewRequest(http.MethodGet, "/api/auth/callback?code=good-code&state=s", nil)
	good.AddCookie(&http.Cookie{Name: stateCookie, Value: "s"})
	w := serve(r, good)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	session := cookieNamed(w, SessionCookie)
	require.NotNil(t, session)
	assert.Equal(t, "good-token", session.Value)
	assert.True(t, session.HttpOnly)
	assert.Greater(t, session.MaxAge, 0)
}

func TestLogout(t *testing.T) {
	auth := &fakeAuth{}
	r := newRouter(auth)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good-token"})
	w := serve(r, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, []string{"sid-1"}, auth.loggedOut)
	cleared := cookieNamed(w, SessionCookie)
	require.NotNil(t, cleared)
	assert.True(t, cleared.MaxAge < 0)

	anonReq := httptest.NewRequest(http.MethodPost, "/api/auth/logout", strings.NewReader(""))
	anonReq.Header.Set("Accept", "application/json")
	anon := serve(r, anonReq)
	assert.Equal(t, http.StatusOK, anon.Code)
	assert.JSONEq(t, `{"message":"logged out"}`, anon.Body.String())
	assert.Len(t, auth.loggedOut, 1)
}

func TestLogout_GetDoesNotRevoke(t *testing.T) {
	auth := &fakeAuth{}
	r := newRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good-token"})
	w := serve(r, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, auth.loggedOut)
	assert.Nil(t, cookieNamed(w, SessionCookie))
}

func TestMe(t *testing.T) {
	r := newRouter(&fakeAuth{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := serve(r, req)

	require.Equal(t, http.StatusOK, w.Code)
	var user authdomain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Ada", user.Name)

	assert.Equal(t, http.StatusUnauthorized, serve(r, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)).Code)
}
