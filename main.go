package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "callboard/cmd/api"
	authUsecase "callboard/internal/auth/usecase"
	callUsecase "callboard/internal/call/usecase"
	dashboardUsecase "callboard/internal/dashboard/usecase"
	"callboard/pkg/config"
	"callboard/pkg/logger"
	"callboard/pkg/metrics"
	"callboard/pkg/vapi"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger.Configure(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log := logger.WithComponent("main")
	gin.SetMode(cfg.GinMode)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.VapiAPIKey == "" {
		log.Warn().Msg("VAPI_API_KEY not set; /api/calls will answer 500")
	}
	if !cfg.OAuthConfigured() {
		log.Warn().Msg("OAuth client not configured; sign-in is disabled")
	}

	// Record Proxy
	vapiClient := vapi.NewClient(cfg.VapiBaseURL, cfg.VapiTimeout)
	callUc := callUsecase.NewCallUsecase(vapiClient, cfg.VapiAPIKey)

	// Sessions
	authUc := authUsecase.NewAuthUsecase(cfg)

	// Dashboard views reach the proxy over HTTP with the session token
	registry := dashboardUsecase.NewRegistry(dashboardUsecase.NewProxyFetcher(cfg.ProxyBaseURL), cfg.JWTAccessExpiry)

	handler := api.NewHandler(authUc, callUc, registry, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return handler.Start(ctx, ":"+cfg.Port)
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			return api.Serve(ctx, &http.Server{
				Addr:              cfg.MetricsAddr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			})
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}
