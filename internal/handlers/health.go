package handlers

import (
	"net/http"
)

// SessionCounter reports the number of live configuration sessions
type SessionCounter interface {
	Count() int
}

// HealthHandler handles health check requests
type HealthHandler struct {
	sessions SessionCounter
	// commerceErr is the startup validation result of the commerce settings
	commerceErr error
}

// NewHealthHandler creates a new health handler. sessions may be nil.
func NewHealthHandler(sessions SessionCounter, commerceErr error) *HealthHandler {
	return &HealthHandler{sessions: sessions, commerceErr: commerceErr}
}

// Health handles GET /health - Health check endpoint
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":              "healthy",
		"commerce_configured": h.commerceErr == nil,
	}
	if h.commerceErr != nil {
		resp["commerce_error"] = h.commerceErr.Error()
	}
	if h.sessions != nil {
		resp["active_sessions"] = h.sessions.Count()
	}
	writeJSONResponse(w, http.StatusOK, resp)
}
