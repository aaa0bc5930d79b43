// Package commerce talks to the Salesforce Revenue Cloud APIs that own the
// catalog, pricing and order records.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/cache"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

const (
	defaultTokenTTL          = 10 * time.Minute
	defaultSubmissionTimeout = 30 * time.Second
	requestTimeout           = 30 * time.Second
	maxErrorBody             = 2048
)

// Client calls the commerce backend. Catalog reads go through a retrying
// client; the token grant and submissions are sent exactly once.
type Client struct {
	cfg    Config
	reads  *retryablehttp.Client
	writes *http.Client
	tokens *cache.TTLCache[*models.TokenResponse]
	now    func() time.Time
}

// NewClient creates a commerce client. Missing settings are not an error
// here; each operation reports the keys it needs.
func NewClient(cfg Config) *Client {
	if cfg.TokenCacheTTL <= 0 {
		cfg.TokenCacheTTL = defaultTokenTTL
	}
	if cfg.SubmissionTimeout <= 0 {
		cfg.SubmissionTimeout = defaultSubmissionTimeout
	}
	if cfg.RetryMax < 0 {
		cfg.RetryMax = 0
	}

	reads := retryablehttp.NewClient()
	reads.RetryMax = cfg.RetryMax
	reads.RetryWaitMin = 200 * time.Millisecond
	reads.RetryWaitMax = 2 * time.Second
	reads.Logger = slog.Default()
	reads.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		cfg:    cfg,
		reads:  reads,
		writes: &http.Client{Timeout: requestTimeout},
		tokens: cache.NewTTLCache[*models.TokenResponse]("commerce_tokens", cfg.TokenCacheTTL, cfg.TokenCacheTTL),
		now:    time.Now,
	}
}

// Close stops background token cache maintenance
func (c *Client) Close() {
	c.tokens.Stop()
}

// Config returns the settings the client was built with
func (c *Client) Config() Config {
	return c.cfg
}

func (c *Client) postJSON(ctx context.Context, url, accessToken string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.reads.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, method, url, accessToken string, payload interface{}) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.writes.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	return resp, nil
}

// readBody drains resp and returns an UpstreamError for any status outside
// the accepted set.
func readBody(resp *http.Response, operation string, accepted ...int) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", operation, err)
	}

	for _, status := range accepted {
		if resp.StatusCode == status {
			return body, nil
		}
	}

	return nil, &UpstreamError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Message:    upstreamMessage(body),
		Body:       truncate(string(body), maxErrorBody),
	}
}

// upstreamMessage picks the most specific error text from a Salesforce
// error payload: OAuth errors carry error_description, REST errors are an
// array of {message, errorCode}.
func upstreamMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return truncate(string(bytes.TrimSpace(body)), 200)
	}
	for _, path := range []string{"error_description", "0.message", "message", "error", "responseError.0.message"} {
		if v := gjson.GetBytes(body, path); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return truncate(string(bytes.TrimSpace(body)), 200)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
