package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/config"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"
)

const adminKeyPrefix = "admin-"

// KeyAuth validates X-API-Key headers against the configured key lists
type KeyAuth struct {
	apiKeys   map[string]bool
	adminKeys map[string]bool
}

// NewKeyAuth builds the validator from API_KEYS and ADMIN_API_KEYS
func NewKeyAuth(cfg *config.Config) *KeyAuth {
	a := &KeyAuth{
		apiKeys:   make(map[string]bool),
		adminKeys: make(map[string]bool),
	}
	for _, key := range config.SplitList(cfg.APIKeys) {
		a.apiKeys[key] = true
	}
	for _, key := range config.SplitList(cfg.AdminAPIKeys) {
		a.adminKeys[key] = true
	}
	return a
}

// IsAdmin checks if the provided API key has admin privileges. Without
// ADMIN_API_KEYS, regular keys carrying the admin- prefix qualify.
func (a *KeyAuth) IsAdmin(apiKey string) bool {
	if len(a.adminKeys) == 0 {
		return strings.HasPrefix(apiKey, adminKeyPrefix) && a.apiKeys[apiKey]
	}
	return a.adminKeys[apiKey]
}

// AdminAuthMiddleware provides admin-only API key authentication
func (a *KeyAuth) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			slog.Warn("Admin authentication failed: missing API key", "remote_addr", r.RemoteAddr)
			writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Admin API key required", nil)
			return
		}

		if !a.IsAdmin(apiKey) {
			slog.Warn("Admin authentication failed: invalid admin API key", "remote_addr", r.RemoteAddr)
			writeErrorResponse(w, http.StatusForbidden, "forbidden", "Admin access required", nil)
			return
		}

		slog.Debug("Admin authentication successful", "remote_addr", r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}

// writeErrorResponse is a helper function to write error responses
func writeErrorResponse(w http.ResponseWriter, statusCode int, code, message string, details []models.ErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}
