package delivery

import (
	"errors"
	"net/http"
	"strings"
	"time"

	authdomain "callboard/internal/auth/domain"
	"callboard/internal/auth/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const stateCookie = "callboard_oauth_state"

type AuthHandler struct {
	authUsecase       usecase.AuthUsecase
	postLoginRedirect string
	secureCookies     bool
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, postLoginRedirect string, secureCookies bool) *AuthHandler {
	if postLoginRedirect == "" {
		postLoginRedirect = "/dashboard"
	}
	return &AuthHandler{
		authUsecase:       authUsecase,
		postLoginRedirect: postLoginRedirect,
		secureCookies:     secureCookies,
	}
}

// Login redirects to the identity provider.
// GET /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	state := uuid.New().String()
	loginURL, err := h.authUsecase.LoginURL(state)
	if err != nil {
		if errors.Is(err, usecase.ErrOAuthNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sign-in is not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, int((10 * time.Minute).Seconds()), "/api/auth", "", h.secureCookies, true)
	c.Redirect(http.StatusFound, loginURL)
}

// Callback finishes the authorization-code flow and sets the session cookie.
// GET /api/auth/callback?code=...&state=...
func (h *AuthHandler) Callback(c *gin.Context) {
	if providerErr := c.Query("error"); providerErr != "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign-in failed: " + providerErr})
		return
	}

	expected, err := c.Cookie(stateCookie)
	if err != nil || expected == "" || c.Query("state") != expected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sign-in state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code required"})
		return
	}

	resp, err := h.authUsecase.HandleCallback(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign-in failed"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, "", -1, "/api/auth", "", h.secureCookies, true)
	maxAge := int(time.Until(resp.ExpiresAt).Seconds())
	c.SetCookie(SessionCookie, resp.AccessToken, maxAge, "/", "", h.secureCookies, true)
	c.Redirect(http.StatusFound, h.postLoginRedirect)
}

// Logout revokes the current session, if any, and clears the cookie.
// Browsers are sent home; JSON clients get a JSON answer.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := extractToken(c); token != "" {
		if session, err := h.authUsecase.ValidateToken(token); err == nil {
			h.authUsecase.Logout(session)
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", h.secureCookies, true)

	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Me returns the signed-in user.
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	userData, ok := user.(*authdomain.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user data"})
		return
	}

	c.JSON(http.StatusOK, userData)
}
