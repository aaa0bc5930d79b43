package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/commerce"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/config"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/middleware"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/services"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/storage"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/telemetry"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg := config.LoadConfig()

	slog.Info("Starting Dream Lease configurator API", "version", "1.0.0")

	// Initialize OpenTelemetry telemetry system
	ctx := context.Background()
	otelTelemetry := &telemetry.Telemetry{}
	otelTelemetry.InitMetrics("dream-lease-api", cfg.MetricsExporter, &ctx)
	slog.Info("OpenTelemetry telemetry initialized")

	apiTelemetry := telemetry.NewConfiguratorTelemetry()
	if err := apiTelemetry.InitializeTelemetry(ctx); err != nil {
		slog.Error("Failed to initialize API telemetry", "error", err)
		return
	}
	slog.Info("Configurator API telemetry initialized successfully")

	// Missing settings are reported per request; only warn here
	commerceCfg, commerceErr := cfg.Commerce()
	if commerceErr != nil {
		slog.Warn("Commerce backend not fully configured", "error", commerceErr)
	}
	commerceClient := commerce.NewClient(commerceCfg)

	ledger, err := storage.Open(cfg.LedgerPath)
	if err != nil {
		slog.Error("Failed to open submission ledger", "path", cfg.LedgerPath, "error", err)
		return
	}
	slog.Info("Submission ledger opened", "path", cfg.LedgerPath)

	catalogService := services.NewCatalogService(commerceClient, cfg.ShowcaseCategory)
	sessionService := services.NewSessionService(
		commerceClient,
		config.ParseDuration(cfg.SessionTTL, 30*time.Minute),
		config.ParseDuration(cfg.SessionCleanupInterval, time.Minute),
		apiTelemetry,
	)
	submissionService := services.NewSubmissionService(commerceClient, ledger, apiTelemetry)
	slog.Info("Services initialized successfully")

	// Setup rate limiting
	rateLimitConfig := middleware.ParseRateLimitConfig(cfg)
	var rateLimiter *middleware.RateLimiter
	if rateLimitConfig.Enabled {
		rateLimiter = middleware.NewRateLimiter(rateLimitConfig)
		slog.Info("Rate limiting middleware enabled")
	} else {
		slog.Info("Rate limiting middleware disabled")
	}

	r := newRouter(routerDeps{
		telemetry:   apiTelemetry,
		rateLimiter: rateLimiter,
		auth:        middleware.NewKeyAuth(cfg),
		tokens:      commerceClient,
		catalog:     catalogService,
		sessions:    sessionService,
		submissions: submissionService,
		commerceErr: commerceErr,
	})

	slog.Info("Starting HTTP server",
		"port", cfg.Port,
		"environment", cfg.Environment)

	slog.Debug("Available endpoints",
		"api_endpoints", []string{
			"POST /api/salesforce/token",
			"POST /api/products",
			"GET /api/products/{productId}",
			"POST /api/products/order",
			"POST /api/products/quote",
			"GET /api/showcase",
		},
		"session_endpoints", []string{
			"POST /api/sessions",
			"GET|DELETE /api/sessions/{sessionId}",
			"PUT /api/sessions/{sessionId}/attributes/{name}",
			"PUT /api/sessions/{sessionId}/components/{groupId}",
			"POST /api/sessions/{sessionId}/steps/{next|previous|index}",
			"GET /api/sessions/{sessionId}/financing",
			"POST /api/sessions/{sessionId}/{order|quote}",
		},
		"admin_endpoints", []string{
			"GET /v1/admin/submissions",
			"GET /v1/admin/rate-limit/status",
			"POST /v1/admin/rate-limit/reset",
		},
		"system_endpoints", []string{
			"GET /health",
		})

	// Create HTTP server
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server ready to accept connections", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	sessionService.Close()
	commerceClient.Close()
	if rateLimiter != nil {
		rateLimiter.Stop()
	}
	if err := ledger.Close(); err != nil {
		slog.Error("Error closing submission ledger", "error", err)
	}

	otelTelemetry.Close()
	slog.Info("Telemetry shutdown completed")

	slog.Info("Server exited")
}
