package api

import (
	"time"

	"callboard/internal/auth/delivery"
	authUsecase "callboard/internal/auth/usecase"
	callDelivery "callboard/internal/call/delivery"
	dashboardDelivery "callboard/internal/dashboard/delivery"
	"callboard/pkg/config"
	"callboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, cfg *config.Config, callHandler *callDelivery.CallHandler, dashboardHandler *dashboardDelivery.DashboardHandler, status *RuntimeStatus) {
	authHandler := delivery.NewAuthHandler(authUsecase, cfg.PostLoginRedirect, cfg.CookieSecure)

	r.SetHTMLTemplate(dashboardDelivery.Templates())

	// Everything outside the allow-list needs a session
	r.Use(delivery.AuthMiddleware(authUsecase, cfg.PublicPaths))

	r.GET("/", dashboardHandler.Landing)

	dashboard := r.Group("/dashboard")
	{
		dashboard.GET("", dashboardHandler.Show)
		dashboard.POST("/refresh", dashboardHandler.Refresh)
	}

	api := r.Group("/api")
	{
		// Liveness (no auth required)
		api.GET("/public", status.PublicStatus)

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.GET("/login", authHandler.Login)
			auth.GET("/callback", authHandler.Callback)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authHandler.Me)
		}

		// Record Proxy
		api.GET("/calls", callHandler.ListCalls)
	}
}

// RequestLogger tags each request with an id and logs it once it completes.
func RequestLogger() gin.HandlerFunc {
	log := logger.WithComponent("http")

	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("requestID", requestID)
		c.Header(requestIDHeader, requestID)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		if status >= 500 {
			event = log.Error()
		} else if status >= 400 {
			event = log.Warn()
		}
		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// CORS admits the one configured origin. With none configured no CORS
// headers are sent and browsers fall back to same-origin.
func CORS(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if allowedOrigin == "" {
			c.Next()
			return
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		c.Writer.Header().Add("Vary", "Origin")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
