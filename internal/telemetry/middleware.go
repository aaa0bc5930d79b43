package telemetry

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// TelemetryMiddleware wraps HTTP handlers to automatically collect telemetry
type TelemetryMiddleware struct {
	telemetry *ConfiguratorTelemetry
}

type annotationsKey struct{}

// annotations is installed by the middleware and filled in by handlers
type annotations struct {
	mu             sync.Mutex
	submissionKind string
	productCount   int
}

// ClientIP extracts the client IP address from the request
func ClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs, take the first one
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

// NewTelemetryMiddleware creates a new telemetry middleware
func NewTelemetryMiddleware(telemetry *ConfiguratorTelemetry) *TelemetryMiddleware {
	return &TelemetryMiddleware{
		telemetry: telemetry,
	}
}

// Middleware returns the HTTP middleware function
func (tm *TelemetryMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriterWrapper{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		notes := &annotations{}
		ctx := context.WithValue(r.Context(), annotationsKey{}, notes)
		r = r.WithContext(ctx)

		clientIP := ClientIP(r)
		metrics := RequestMetrics{
			Method:       r.Method,
			Endpoint:     GetEndpointFromRequest(r),
			ClientIP:     clientIP,
			ClientIPType: NormalizeClientIP(clientIP),
		}

		next.ServeHTTP(wrapper, r)

		metrics.StatusCode = wrapper.statusCode
		metrics.Duration = time.Since(start)
		UpdateMetricsFromContext(ctx, &metrics)

		if wrapper.statusCode >= 400 {
			metrics.ErrorMessage = statusMessage(wrapper.statusCode)
			tm.telemetry.RegisterRequestError(ctx, metrics)
		} else {
			tm.telemetry.RegisterRequestReceived(ctx, metrics)
		}

		tm.telemetry.RegisterRequestDuration(ctx, metrics)
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.statusCode = statusCode
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriterWrapper) Write(data []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(data)
}

// statusMessage returns a human-readable error message for the status code
func statusMessage(statusCode int) string {
	if statusCode == http.StatusRequestTimeout {
		return "Request Timeout"
	}
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return "HTTP Error " + strconv.Itoa(statusCode)
}

func annotationsFrom(ctx context.Context) *annotations {
	notes, _ := ctx.Value(annotationsKey{}).(*annotations)
	return notes
}

// SetSubmissionKind tags the current request as an order or quote submission
func SetSubmissionKind(ctx context.Context, kind string) {
	if notes := annotationsFrom(ctx); notes != nil {
		notes.mu.Lock()
		notes.submissionKind = kind
		notes.mu.Unlock()
	}
}

// SetProductCount records how many products a listing returned
func SetProductCount(ctx context.Context, count int) {
	if notes := annotationsFrom(ctx); notes != nil {
		notes.mu.Lock()
		notes.productCount = count
		notes.mu.Unlock()
	}
}

// UpdateMetricsFromContext copies handler annotations into metrics
func UpdateMetricsFromContext(ctx context.Context, metrics *RequestMetrics) {
	notes := annotationsFrom(ctx)
	if notes == nil {
		return
	}
	notes.mu.Lock()
	defer notes.mu.Unlock()
	if notes.submissionKind != "" {
		metrics.SubmissionKind = notes.submissionKind
	}
	if notes.productCount > 0 {
		metrics.ProductCount = notes.productCount
	}
}
