package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/handlers"
	"github.com/SscSPs/ledger_posting/internal/middleware"
	"github.com/SscSPs/ledger_posting/internal/platform/bootstrap"
	"github.com/SscSPs/ledger_posting/internal/platform/config"
	"github.com/SscSPs/ledger_posting/internal/platform/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLogger := logging.New(logging.Options{ServiceName: "ledger-backend"})
		bootLogger.Fatal().Err(err).Msg("Failed to load config")
	}

	logger := logging.New(logging.Options{ServiceName: cfg.ServiceName, Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithContext(ctx, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	rt, err := bootstrap.Open(ctx, cfg, logger, registry)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize runtime")
		os.Exit(1)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing runtime")
		}
	}()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := newRouter(cfg, logger, rt.Services, registry)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build router")
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	logger.Info().Str("port", cfg.Port).Msg("Server starting")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("Server failed to run")
		os.Exit(1)
	}
	logger.Info().Msg("Server stopped")
}

// newRouter builds the gin engine with the middleware chain and every route.
func newRouter(cfg *config.Config, logger zerolog.Logger, services *portssvc.ServiceContainer, gatherer prometheus.Gatherer) (*gin.Engine, error) {
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, middleware.RequestIDHeader)
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}
	if err := handlers.RegisterRoutes(r, cfg, services, gatherer); err != nil {
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}
	return r, nil
}
