package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	authUsecase "callboard/internal/auth/usecase"
	callDelivery "callboard/internal/call/delivery"
	callUsecasePkg "callboard/internal/call/usecase"
	dashboardDelivery "callboard/internal/dashboard/delivery"
	dashboardUsecase "callboard/internal/dashboard/usecase"
	"callboard/pkg/config"
	"callboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const shutdownTimeout = 10 * time.Second

type Handler struct {
	authUsecase      authUsecase.AuthUsecase
	config           *config.Config
	callHandler      *callDelivery.CallHandler
	dashboardHandler *dashboardDelivery.DashboardHandler
	status           *RuntimeStatus
}

func NewHandler(authUc authUsecase.AuthUsecase, callUc callUsecasePkg.CallUsecase, registry *dashboardUsecase.Registry, cfg *config.Config) *Handler {
	// Drop a session's dashboard state as soon as it signs out
	authUc.SetLogoutCallback(registry.Discard)

	formatter := dashboardDelivery.NewDateFormatter(cfg.DisplayLocation)

	return &Handler{
		authUsecase:      authUc,
		config:           cfg,
		callHandler:      callDelivery.NewCallHandler(callUc),
		dashboardHandler: dashboardDelivery.NewDashboardHandler(registry, formatter),
		status:           NewRuntimeStatus(cfg.OAuthConfigured(), cfg.VapiAPIKey != ""),
	}
}

// Router builds the gin engine with middleware and routes.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORS(h.config.CORSAllowedOrigin))

	SetupRoutes(r, h.authUsecase, h.config, h.callHandler, h.dashboardHandler, h.status)
	return r
}

// HTTPHandler is Router wrapped with inbound tracing.
func (h *Handler) HTTPHandler() http.Handler {
	return otelhttp.NewHandler(h.Router(), "callboard",
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/api/public"
		}),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "HTTP " + r.Method + " " + r.URL.Path
		}),
	)
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (h *Handler) Start(ctx context.Context, addr string) error {
	return Serve(ctx, &http.Server{
		Addr:              addr,
		Handler:           h.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	})
}

// Serve runs srv until ctx is cancelled.
func Serve(ctx context.Context, srv *http.Server) error {
	log := logger.WithComponent("server")

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info().Str("addr", srv.Addr).Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
