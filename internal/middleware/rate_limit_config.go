package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/config"
)

const (
	defaultRequestsPerMinute       = 120
	defaultWindowMinutes           = 1
	defaultSubmitRequestsPerMinute = 10
	defaultAdminRequestsPerMinute  = 50
)

// ParseRateLimitConfig parses rate limiting configuration from the config struct
func ParseRateLimitConfig(cfg *config.Config) RateLimitConfig {
	rateLimitConfig := RateLimitConfig{
		Enabled:                 config.ParseBool(cfg.RateLimitEnabled, true),
		Type:                    parseRateLimitType(cfg.RateLimitType),
		RequestsPerMinute:       positiveOr(cfg.RateLimitRequestsPerMinute, "requests_per_minute", defaultRequestsPerMinute),
		WindowMinutes:           positiveOr(cfg.RateLimitWindowMinutes, "window_minutes", defaultWindowMinutes),
		SubmitRequestsPerMinute: positiveOr(cfg.RateLimitSubmitRequestsPerMinute, "submit_requests_per_minute", defaultSubmitRequestsPerMinute),
		AdminRequestsPerMinute:  positiveOr(cfg.RateLimitAdminRequestsPerMinute, "admin_requests_per_minute", defaultAdminRequestsPerMinute),
	}

	slog.Info("Rate limiting configuration parsed",
		"enabled", rateLimitConfig.Enabled,
		"type", rateLimitConfig.Type,
		"requests_per_minute", rateLimitConfig.RequestsPerMinute,
		"window_minutes", rateLimitConfig.WindowMinutes,
		"submit_requests_per_minute", rateLimitConfig.SubmitRequestsPerMinute,
		"admin_requests_per_minute", rateLimitConfig.AdminRequestsPerMinute)

	return rateLimitConfig
}

func positiveOr(value, name string, defaultValue int) int {
	parsed := config.ParseInt(value, defaultValue)
	if parsed <= 0 {
		slog.Warn("Invalid rate limit setting, using default",
			"setting", name, "configured", value, "default", defaultValue)
		return defaultValue
	}
	return parsed
}

// parseRateLimitType parses the rate limit type with validation
func parseRateLimitType(value string) RateLimitType {
	if value == "" {
		return RateLimitTypeIP
	}

	switch strings.ToLower(value) {
	case "ip":
		return RateLimitTypeIP
	case "global":
		return RateLimitTypeGlobal
	case "both":
		return RateLimitTypeBoth
	default:
		slog.Warn("Invalid rate limit type, using default",
			"value", value, "default", "ip")
		return RateLimitTypeIP
	}
}

// GetRateLimitStats returns current rate limiting statistics
func (rl *RateLimiter) GetRateLimitStats() map[string]interface{} {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	stats := map[string]interface{}{
		"enabled":                    rl.config.Enabled,
		"type":                       string(rl.config.Type),
		"requests_per_minute":        rl.config.RequestsPerMinute,
		"window_minutes":             rl.config.WindowMinutes,
		"submit_requests_per_minute": rl.config.SubmitRequestsPerMinute,
		"admin_requests_per_minute":  rl.config.AdminRequestsPerMinute,
		"active_ip_limits":           len(rl.ipLimits),
	}

	if rl.config.Type == RateLimitTypeGlobal || rl.config.Type == RateLimitTypeBoth {
		global := make(map[string]interface{}, len(rl.globalLimits))
		for class, entry := range rl.globalLimits {
			entry.mutex.RLock()
			global[string(class)] = map[string]interface{}{
				"count":      entry.Count,
				"reset_time": entry.ResetTime.Format(time.RFC3339),
			}
			entry.mutex.RUnlock()
		}
		stats["global"] = global
	}

	return stats
}

// ResetRateLimits resets all rate limiting counters
func (rl *RateLimiter) ResetRateLimits() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.ipLimits = make(map[string]*RateLimitEntry)

	for _, entry := range rl.globalLimits {
		entry.mutex.Lock()
		entry.Count = 0
		entry.ResetTime = time.Time{}
		entry.mutex.Unlock()
	}

	slog.Info("Rate limits reset")
}
