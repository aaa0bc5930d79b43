package main

import (
	"net/http"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/handlers"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/middleware"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/services"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/telemetry"

	"github.com/gorilla/mux"
)

type routerDeps struct {
	telemetry   *telemetry.ConfiguratorTelemetry
	rateLimiter *middleware.RateLimiter
	auth        *middleware.KeyAuth
	tokens      handlers.TokenSource
	catalog     handlers.ProductCatalog
	sessions    *services.SessionService
	submissions handlers.Submissions
	commerceErr error
}

func newRouter(deps routerDeps) *mux.Router {
	r := mux.NewRouter()

	tokenHandler := handlers.NewTokenHandler(deps.tokens)
	productHandler := handlers.NewProductHandler(deps.catalog)
	submissionHandler := handlers.NewSubmissionHandler(deps.submissions)
	sessionHandler := handlers.NewSessionHandler(deps.sessions, deps.submissions)
	healthHandler := handlers.NewHealthHandler(deps.sessions, deps.commerceErr)
	rateLimitStatusHandler := handlers.NewRateLimitStatusHandler(deps.rateLimiter)

	// Apply telemetry middleware to all routes first
	if deps.telemetry != nil {
		r.Use(telemetry.NewTelemetryMiddleware(deps.telemetry).Middleware)
	}
	if deps.rateLimiter != nil {
		r.Use(middleware.RateLimitMiddleware(deps.rateLimiter))
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/salesforce/token", tokenHandler.GetToken).Methods(http.MethodPost)

	// Specific product routes before the {productId} pattern
	api.HandleFunc("/products/order", submissionHandler.PlaceOrder).Methods(http.MethodPost)
	api.HandleFunc("/products/quote", submissionHandler.PlaceQuote).Methods(http.MethodPost)
	api.HandleFunc("/products/{productId}", productHandler.GetProduct).Methods(http.MethodGet)
	api.HandleFunc("/products", productHandler.ListProducts).Methods(http.MethodPost)
	api.HandleFunc("/showcase", productHandler.Showcase).Methods(http.MethodGet)

	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.HandleFunc("", sessionHandler.CreateSession).Methods(http.MethodPost)
	sessions.HandleFunc("/{sessionId}", sessionHandler.GetSession).Methods(http.MethodGet)
	sessions.HandleFunc("/{sessionId}", sessionHandler.DeleteSession).Methods(http.MethodDelete)
	sessions.HandleFunc("/{sessionId}/attributes/{name}", sessionHandler.UpdateAttribute).Methods(http.MethodPut)
	sessions.HandleFunc("/{sessionId}/components/{groupId}", sessionHandler.UpdateComponent).Methods(http.MethodPut)
	sessions.HandleFunc("/{sessionId}/steps/next", sessionHandler.NextStep).Methods(http.MethodPost)
	sessions.HandleFunc("/{sessionId}/steps/previous", sessionHandler.PreviousStep).Methods(http.MethodPost)
	sessions.HandleFunc("/{sessionId}/steps/{index:-?[0-9]+}", sessionHandler.JumpToStep).Methods(http.MethodPost)
	sessions.HandleFunc("/{sessionId}/financing", sessionHandler.GetFinancing).Methods(http.MethodGet)
	sessions.HandleFunc("/{sessionId}/order", sessionHandler.PlaceOrder).Methods(http.MethodPost)
	sessions.HandleFunc("/{sessionId}/quote", sessionHandler.PlaceQuote).Methods(http.MethodPost)

	// Admin API routes (v1) - require admin authentication
	adminV1 := r.PathPrefix("/v1/admin").Subrouter()
	adminV1.Use(deps.auth.AdminAuthMiddleware)
	adminV1.HandleFunc("/submissions", submissionHandler.ListSubmissions).Methods(http.MethodGet)
	adminV1.HandleFunc("/rate-limit/status", rateLimitStatusHandler.GetRateLimitStatus).Methods(http.MethodGet)
	adminV1.HandleFunc("/rate-limit/reset", rateLimitStatusHandler.ResetRateLimits).Methods(http.MethodPost)

	// Health check endpoint (no auth required)
	r.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	return r
}
