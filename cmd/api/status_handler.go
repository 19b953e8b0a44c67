package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RuntimeStatus holds what the public liveness endpoint reports.
type RuntimeStatus struct {
	startedAt        time.Time
	signInConfigured bool
	apiKeyConfigured bool
}

func NewRuntimeStatus(signInConfigured, apiKeyConfigured bool) *RuntimeStatus {
	return &RuntimeStatus{
		startedAt:        time.Now(),
		signInConfigured: signInConfigured,
		apiKeyConfigured: apiKeyConfigured,
	}
}

// PublicStatus reports liveness without requiring a session.
// GET /api/public
func (s *RuntimeStatus) PublicStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "ok",
		"sign_in_configured": s.signInConfigured,
		"api_key_configured": s.apiKeyConfigured,
		"uptime_seconds":     int64(time.Since(s.startedAt).Seconds()),
	})
}
