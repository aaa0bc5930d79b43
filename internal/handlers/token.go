package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"
)

// TokenSource hands out commerce access tokens
type TokenSource interface {
	Token(ctx context.Context) (*models.TokenResponse, error)
}

// TokenHandler exposes the password grant to the browser
type TokenHandler struct {
	tokens TokenSource
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(tokens TokenSource) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// GetToken handles POST /api/salesforce/token
func (h *TokenHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.tokens.Token(r.Context())
	if err != nil {
		slog.Warn("Token request failed", "error", err, "remote_addr", r.RemoteAddr)
		writeCommerceError(w, "get access token", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, models.TokenResponse{
		AccessToken: token.AccessToken,
		InstanceURL: token.InstanceURL,
		TokenType:   token.TokenType,
	})
}
