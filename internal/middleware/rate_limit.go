package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/telemetry"
)

// RateLimitType defines the type of rate limiting
type RateLimitType string

const (
	RateLimitTypeIP     RateLimitType = "ip"
	RateLimitTypeGlobal RateLimitType = "global"
	RateLimitTypeBoth   RateLimitType = "both"
)

// RequestClass selects which budget a request draws from
type RequestClass string

const (
	ClassBrowse RequestClass = "browse"
	ClassSubmit RequestClass = "submit"
	ClassAdmin  RequestClass = "admin"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled                 bool
	Type                    RateLimitType
	RequestsPerMinute       int
	WindowMinutes           int
	SubmitRequestsPerMinute int
	AdminRequestsPerMinute  int
}

// RateLimitEntry represents a rate limit entry
type RateLimitEntry struct {
	Count     int
	ResetTime time.Time
	mutex     sync.RWMutex
}

// RateLimiter manages fixed-window counters per client and class
type RateLimiter struct {
	config        RateLimitConfig
	ipLimits      map[string]*RateLimitEntry
	globalLimits  map[RequestClass]*RateLimitEntry
	mutex         sync.RWMutex
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
}

// RateLimitInfo contains rate limit information for response headers
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetTime time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		config:   config,
		ipLimits: make(map[string]*RateLimitEntry),
		globalLimits: map[RequestClass]*RateLimitEntry{
			ClassBrowse: {},
			ClassSubmit: {},
			ClassAdmin:  {},
		},
		stopCleanup: make(chan struct{}),
	}

	rl.cleanupTicker = time.NewTicker(time.Minute)
	go rl.cleanupExpiredEntries()

	slog.Info("Rate limiter initialized",
		"enabled", config.Enabled,
		"type", config.Type,
		"requests_per_minute", config.RequestsPerMinute,
		"window_minutes", config.WindowMinutes,
		"submit_requests_per_minute", config.SubmitRequestsPerMinute,
		"admin_requests_per_minute", config.AdminRequestsPerMinute)

	return rl
}

// Stop stops the rate limiter and cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		rl.cleanupTicker.Stop()
		close(rl.stopCleanup)
	})
}

func (rl *RateLimiter) cleanupExpiredEntries() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			rl.sweep(time.Now())
		case <-rl.stopCleanup:
			return
		}
	}
}

// sweep drops expired per-client entries and resets expired global windows
func (rl *RateLimiter) sweep(now time.Time) int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	removed := 0
	for key, entry := range rl.ipLimits {
		entry.mutex.RLock()
		expired := now.After(entry.ResetTime)
		entry.mutex.RUnlock()

		if expired {
			delete(rl.ipLimits, key)
			removed++
		}
	}

	for _, entry := range rl.globalLimits {
		entry.mutex.Lock()
		if now.After(entry.ResetTime) {
			entry.Count = 0
			entry.ResetTime = time.Time{}
		}
		entry.mutex.Unlock()
	}
	return removed
}

// limitFor returns the per-window budget of a class
func (rl *RateLimiter) limitFor(class RequestClass) int {
	switch class {
	case ClassSubmit:
		if rl.config.SubmitRequestsPerMinute > 0 {
			return rl.config.SubmitRequestsPerMinute
		}
	case ClassAdmin:
		if rl.config.AdminRequestsPerMinute > 0 {
			return rl.config.AdminRequestsPerMinute
		}
	}
	return rl.config.RequestsPerMinute
}

// IsAllowed checks if a request is allowed based on rate limiting rules
func (rl *RateLimiter) IsAllowed(clientIP string, class RequestClass) (bool, *RateLimitInfo) {
	if !rl.config.Enabled {
		return true, &RateLimitInfo{
			Limit:     -1, // Unlimited
			Remaining: -1,
		}
	}

	now := time.Now()
	window := time.Duration(rl.config.WindowMinutes) * time.Minute
	limit := rl.limitFor(class)

	ipAllowed, globalAllowed := true, true
	var ipInfo, globalInfo *RateLimitInfo

	if rl.config.Type == RateLimitTypeIP || rl.config.Type == RateLimitTypeBoth {
		ipAllowed, ipInfo = rl.checkIPLimit(string(class)+"|"+clientIP, limit, window, now)
	}

	if rl.config.Type == RateLimitTypeGlobal || rl.config.Type == RateLimitTypeBoth {
		globalAllowed, globalInfo = rl.checkGlobalLimit(class, limit, window, now)
	}

	switch rl.config.Type {
	case RateLimitTypeBoth:
		// Report the most restrictive window
		info := ipInfo
		if globalInfo.Remaining < ipInfo.Remaining {
			info = globalInfo
		}
		return ipAllowed && globalAllowed, info
	case RateLimitTypeGlobal:
		return globalAllowed, globalInfo
	default:
		return ipAllowed, ipInfo
	}
}

func (rl *RateLimiter) checkIPLimit(key string, limit int, window time.Duration, now time.Time) (bool, *RateLimitInfo) {
	rl.mutex.Lock()
	entry, exists := rl.ipLimits[key]
	if !exists {
		entry = &RateLimitEntry{}
		rl.ipLimits[key] = entry
	}
	rl.mutex.Unlock()

	return consume(entry, limit, window, now)
}

func (rl *RateLimiter) checkGlobalLimit(class RequestClass, limit int, window time.Duration, now time.Time) (bool, *RateLimitInfo) {
	return consume(rl.globalLimits[class], limit, window, now)
}

// consume takes one unit from entry, opening a new window when the last
// one has expired
func consume(entry *RateLimitEntry, limit int, window time.Duration, now time.Time) (bool, *RateLimitInfo) {
	entry.mutex.Lock()
	defer entry.mutex.Unlock()

	if now.After(entry.ResetTime) {
		entry.Count = 0
		entry.ResetTime = now.Add(window)
	}

	info := &RateLimitInfo{
		Limit:     limit,
		Remaining: 0,
		ResetTime: entry.ResetTime,
	}

	if entry.Count >= limit {
		return false, info
	}

	entry.Count++
	info.Remaining = limit - entry.Count
	return true, info
}

// ClassifyRequest maps a request onto its rate limit budget
func ClassifyRequest(r *http.Request) RequestClass {
	switch {
	case strings.HasPrefix(r.URL.Path, "/v1/admin"):
		return ClassAdmin
	case r.Method == http.MethodPost &&
		(strings.HasSuffix(r.URL.Path, "/order") || strings.HasSuffix(r.URL.Path, "/quote")):
		return ClassSubmit
	default:
		return ClassBrowse
	}
}

// RateLimitMiddleware creates a rate limiting middleware using an existing rate limiter
func RateLimitMiddleware(rateLimiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := telemetry.ClientIP(r)
			class := ClassifyRequest(r)

			allowed, info := rateLimiter.IsAllowed(clientIP, class)
			setRateLimitHeaders(w, info)

			if !allowed {
				slog.Warn("Rate limit exceeded",
					"client_ip", clientIP,
					"path", r.URL.Path,
					"method", r.Method,
					"class", class,
					"limit", info.Limit,
					"reset_time", info.ResetTime.Format(time.RFC3339))

				writeRateLimitErrorResponse(w, info)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// setRateLimitHeaders sets rate limit headers in the response
func setRateLimitHeaders(w http.ResponseWriter, info *RateLimitInfo) {
	if info.Limit >= 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))

		if !info.ResetTime.IsZero() {
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
		}
	}
}

// writeRateLimitErrorResponse writes a rate limit exceeded error response
func writeRateLimitErrorResponse(w http.ResponseWriter, info *RateLimitInfo) {
	retryAfter := "0"
	if !info.ResetTime.IsZero() {
		seconds := time.Until(info.ResetTime).Seconds()
		if seconds < 0 {
			seconds = 0
		}
		retryAfter = fmt.Sprintf("%.0f", seconds)
	}
	w.Header().Set("Retry-After", retryAfter)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(models.ErrorResponse{
		Code:    "rate_limit_exceeded",
		Message: "Rate limit exceeded. Please try again later.",
		Details: []models.ErrorDetail{
			{
				Field: "rate_limit",
				Issue: fmt.Sprintf("Exceeded %d requests per window.", info.Limit),
			},
			{
				Field: "retry_after",
				Issue: fmt.Sprintf("Retry after %s seconds", retryAfter),
			},
		},
	})
}
