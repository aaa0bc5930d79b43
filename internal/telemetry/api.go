package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "dream-lease-api"

// ConfiguratorTelemetry records API and configurator metrics
type ConfiguratorTelemetry struct {
	meter metric.Meter

	requestCounter    metric.Int64Counter
	errorCounter      metric.Int64Counter
	durationHistogram metric.Float64Histogram

	sessionCounter        metric.Int64Counter
	catalogFailureCounter metric.Int64Counter
	submissionCounter     metric.Int64Counter
	submissionDuration    metric.Float64Histogram
}

// RequestMetrics contains the telemetry data for a request
type RequestMetrics struct {
	Method       string
	Endpoint     string
	StatusCode   int
	Duration     time.Duration
	ErrorMessage string
	// Raw IP is logged only; ClientIPType goes on metrics
	ClientIP     string
	ClientIPType string
	// Set by handlers through the request annotations
	SubmissionKind string
	ProductCount   int
}

// NewConfiguratorTelemetry creates an uninitialized instance; Register*
// calls are no-ops until InitializeTelemetry succeeds.
func NewConfiguratorTelemetry() *ConfiguratorTelemetry {
	return &ConfiguratorTelemetry{}
}

// InitializeTelemetry creates the instruments on the global meter provider
func (t *ConfiguratorTelemetry) InitializeTelemetry(ctx context.Context) error {
	return t.InitializeWithMeter(otel.Meter(meterName))
}

// InitializeWithMeter creates the instruments on the given meter
func (t *ConfiguratorTelemetry) InitializeWithMeter(meter metric.Meter) error {
	slog.Info("Initializing configurator API telemetry")
	t.meter = meter

	var err error

	t.requestCounter, err = t.meter.Int64Counter(
		"configurator_api_requests_total",
		metric.WithDescription("Total number of API requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create request counter: %w", err)
	}

	t.errorCounter, err = t.meter.Int64Counter(
		"configurator_api_errors_total",
		metric.WithDescription("Total number of API requests answered with an error status"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create error counter: %w", err)
	}

	t.durationHistogram, err = t.meter.Float64Histogram(
		"configurator_api_request_duration_seconds",
		metric.WithDescription("Duration of API requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create duration histogram: %w", err)
	}

	t.sessionCounter, err = t.meter.Int64Counter(
		"configurator_sessions_created_total",
		metric.WithDescription("Configuration sessions created, by load status"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create session counter: %w", err)
	}

	t.catalogFailureCounter, err = t.meter.Int64Counter(
		"configurator_catalog_load_failures_total",
		metric.WithDescription("Catalog snapshot fetches that failed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create catalog failure counter: %w", err)
	}

	t.submissionCounter, err = t.meter.Int64Counter(
		"configurator_submissions_total",
		metric.WithDescription("Order and quote submissions, by kind and outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create submission counter: %w", err)
	}

	t.submissionDuration, err = t.meter.Float64Histogram(
		"configurator_submission_duration_seconds",
		metric.WithDescription("Time spent placing orders and quotes upstream"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create submission duration histogram: %w", err)
	}

	slog.Info("Configurator API telemetry initialized successfully")
	return nil
}

func requestAttributes(metrics RequestMetrics) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("method", metrics.Method),
		attribute.String("endpoint", metrics.Endpoint),
		attribute.Int("status_code", metrics.StatusCode),
	}
	if metrics.ClientIPType != "" {
		attrs = append(attrs, attribute.String("client_ip_type", metrics.ClientIPType))
	}
	if metrics.SubmissionKind != "" {
		attrs = append(attrs, attribute.String("submission_kind", metrics.SubmissionKind))
	}
	return attrs
}

// RegisterRequestReceived records a successful API request
func (t *ConfiguratorTelemetry) RegisterRequestReceived(ctx context.Context, metrics RequestMetrics) {
	if t.requestCounter == nil {
		slog.Warn("Request counter not initialized")
		return
	}

	t.requestCounter.Add(ctx, 1, metric.WithAttributes(requestAttributes(metrics)...))

	slog.Debug("Recorded successful API request",
		"method", metrics.Method,
		"endpoint", metrics.Endpoint,
		"status_code", metrics.StatusCode,
		"client_ip", metrics.ClientIP,
		"product_count", metrics.ProductCount,
		"duration_ms", metrics.Duration.Milliseconds(),
	)
}

// RegisterRequestError records a failed API request
func (t *ConfiguratorTelemetry) RegisterRequestError(ctx context.Context, metrics RequestMetrics) {
	if t.errorCounter == nil {
		slog.Warn("Error counter not initialized")
		return
	}

	attrs := append(requestAttributes(metrics),
		attribute.String("error_type", categorizeError(metrics.ErrorMessage)))
	t.errorCounter.Add(ctx, 1, metric.WithAttributes(attrs...))

	slog.Warn("Recorded API request error",
		"method", metrics.Method,
		"endpoint", metrics.Endpoint,
		"status_code", metrics.StatusCode,
		"client_ip", metrics.ClientIP,
		"error", metrics.ErrorMessage,
	)
}

// RegisterRequestDuration records the duration of an API request
func (t *ConfiguratorTelemetry) RegisterRequestDuration(ctx context.Context, metrics RequestMetrics) {
	if t.durationHistogram == nil {
		slog.Warn("Duration histogram not initialized")
		return
	}

	t.durationHistogram.Record(ctx, metrics.Duration.Seconds(), metric.WithAttributes(requestAttributes(metrics)...))
}

// RegisterSessionCreated counts a new session by its status after load
func (t *ConfiguratorTelemetry) RegisterSessionCreated(ctx context.Context, status string) {
	if t.sessionCounter == nil {
		slog.Warn("Session counter not initialized")
		return
	}
	t.sessionCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RegisterCatalogLoadFailure counts a failed snapshot fetch
func (t *ConfiguratorTelemetry) RegisterCatalogLoadFailure(ctx context.Context, errorMessage string) {
	if t.catalogFailureCounter == nil {
		slog.Warn("Catalog failure counter not initialized")
		return
	}
	t.catalogFailureCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("error_type", categorizeError(errorMessage))))
}

// RegisterSubmission records one order or quote attempt
func (t *ConfiguratorTelemetry) RegisterSubmission(ctx context.Context, kind, outcome string, duration time.Duration) {
	if t.submissionCounter == nil || t.submissionDuration == nil {
		slog.Warn("Submission metrics not initialized")
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	)
	t.submissionCounter.Add(ctx, 1, attrs)
	t.submissionDuration.Record(ctx, duration.Seconds(), attrs)
}

// categorizeError groups similar errors to prevent high cardinality
func categorizeError(errorMessage string) string {
	if errorMessage == "" {
		return "unknown"
	}

	msg := strings.ToLower(errorMessage)
	switch {
	case strings.Contains(msg, "not found"):
		return "not_found"
	case strings.Contains(msg, "missing required configuration"):
		return "configuration"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"), strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "invalid"):
		return "invalid_request"
	case strings.Contains(msg, "unauthorized"):
		return "unauthorized"
	case strings.Contains(msg, "forbidden"):
		return "forbidden"
	case strings.Contains(msg, "too many requests"):
		return "rate_limited"
	case strings.Contains(msg, "bad gateway"), strings.Contains(msg, "upstream"), strings.Contains(msg, "failed with status"):
		return "upstream"
	case strings.Contains(msg, "internal"):
		return "internal_error"
	case strings.Contains(msg, "bad request"):
		return "bad_request"
	case strings.Contains(msg, "conflict"):
		return "conflict"
	default:
		return "other"
	}
}

// GetEndpointFromRequest returns the matched route template, e.g.
// /api/sessions/{id}, so session and product ids never become labels.
// Unmatched requests collapse to "unmatched".
func GetEndpointFromRequest(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return GetEndpointFromPath(r.URL.Path)
}

// GetEndpointFromPath normalizes a raw path when no route matched
func GetEndpointFromPath(path string) string {
	switch {
	case path == "/health", path == "/api/showcase", path == "/api/products",
		path == "/api/salesforce/token", path == "/api/sessions",
		path == "/api/products/order", path == "/api/products/quote":
		return path
	case strings.HasPrefix(path, "/api/sessions/"):
		return "/api/sessions/*"
	case strings.HasPrefix(path, "/api/products/"):
		return "/api/products/{id}"
	case strings.HasPrefix(path, "/v1/admin/"):
		return "/v1/admin/*"
	default:
		return "unmatched"
	}
}

// NormalizeClientIP categorizes client IPs to control cardinality
func NormalizeClientIP(clientIP string) string {
	if clientIP == "" {
		return "unknown"
	}

	ip := net.ParseIP(clientIP)
	if ip == nil {
		return "invalid"
	}

	if ip.IsLoopback() {
		return "localhost"
	}

	if isPrivateIP(ip) {
		return "internal"
	}

	return "external"
}

var privateNetworks = func() []*net.IPNet {
	var nets []*net.IPNet
	for _, cidr := range []string{
		"10.0.0.0/8",     // RFC1918
		"172.16.0.0/12",  // RFC1918
		"192.168.0.0/16", // RFC1918
		"169.254.0.0/16", // RFC3927 (link-local)
		"fc00::/7",       // RFC4193 (IPv6 unique local)
		"fe80::/10",      // RFC4291 (IPv6 link-local)
	} {
		if _, network, err := net.ParseCIDR(cidr); err == nil {
			nets = append(nets, network)
		}
	}
	return nets
}()

func isPrivateIP(ip net.IP) bool {
	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
