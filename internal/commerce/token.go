package commerce

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"

	"github.com/tidwall/gjson"
)

const tokenCacheKey = "password_grant"

// Token returns a cached access token, requesting a new one when the cache
// is empty or expired. Failed grants are never cached.
func (c *Client) Token(ctx context.Context) (*models.TokenResponse, error) {
	if token, ok := c.tokens.Get(tokenCacheKey); ok {
		return token, nil
	}

	token, err := c.RequestToken(ctx)
	if err != nil {
		return nil, err
	}
	c.tokens.Set(tokenCacheKey, token)
	return token, nil
}

// InvalidateToken drops the cached token so the next call re-authenticates
func (c *Client) InvalidateToken() {
	c.tokens.Delete(tokenCacheKey)
}

// RequestToken performs the OAuth password grant
func (c *Client) RequestToken(ctx context.Context) (*models.TokenResponse, error) {
	if err := c.cfg.require(credentialKeys...); err != nil {
		slog.Error("Missing commerce credentials", "error", err)
		return nil, err
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("username", c.cfg.Username)
	form.Set("password", c.cfg.Password)

	tokenURL := strings.TrimRight(c.cfg.BaseEndpoint, "/") + "/services/oauth2/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.writes.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request token: %w", err)
	}

	body, err := readBody(resp, "token request", http.StatusOK)
	if err != nil {
		slog.Warn("Token request rejected", "error", err)
		return nil, err
	}

	fields := gjson.GetManyBytes(body, "access_token", "instance_url", "token_type")
	if fields[0].String() == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}

	slog.Debug("Access token issued", "instance_url", fields[1].String())

	return &models.TokenResponse{
		AccessToken: fields[0].String(),
		InstanceURL: fields[1].String(),
		TokenType:   fields[2].String(),
	}, nil
}
