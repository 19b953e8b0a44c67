package delivery

import (
	"net/http"
	"strings"

	"callboard/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the session token for browser requests.
const SessionCookie = "callboard_session"

// Sign-in endpoints stay reachable without a session whatever the allow-list says.
var authPaths = map[string]bool{
	"/api/auth/login":    true,
	"/api/auth/callback": true,
	"/api/auth/logout":   true,
}

// AuthMiddleware gates every path except the public allow-list and the
// sign-in endpoints. API paths answer 401; pages redirect to sign-in.
func AuthMiddleware(authUsecase usecase.AuthUsecase, publicPaths []string) gin.HandlerFunc {
	public := make(map[string]bool, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if public[path] || authPaths[path] || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token := extractToken(c)
		if token == "" {
			reject(c, "authorization required")
			return
		}

		session, err := authUsecase.ValidateToken(token)
		if err != nil {
			reject(c, "invalid or expired token")
			return
		}

		c.Set("session", session)
		c.Set("user", session.User)
		c.Next()
	}
}

// extractToken prefers the Authorization header and falls back to the session cookie.
func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

func reject(c *gin.Context, msg string) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}
	c.Redirect(http.StatusFound, "/api/auth/login")
	c.Abort()
}
