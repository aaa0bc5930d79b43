// Package cli implements leasectl: a terminal client that configures
// vehicles against the Dream Lease API.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/catalog"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/commerce"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// APIError is a non-2xx answer from the API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api returned status %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Client calls the Dream Lease HTTP API. Reads retry on transient
// failures; submissions are sent once.
type Client struct {
	baseURL string
	apiKey  string
	reads   *retryablehttp.Client
	writes  *http.Client
}

// NewClient creates an API client for baseURL. apiKey is only sent to
// admin routes.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	reads := retryablehttp.NewClient()
	reads.RetryMax = 2
	reads.RetryWaitMin = 200 * time.Millisecond
	reads.RetryWaitMax = time.Second
	reads.HTTPClient.Timeout = timeout
	reads.Logger = logrusLeveled{Log}
	reads.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		reads:   reads,
		writes:  &http.Client{Timeout: timeout},
	}
}

// Showcase returns the landing page cards
func (c *Client) Showcase(ctx context.Context) (*models.ShowcaseResponse, error) {
	var resp models.ShowcaseResponse
	if err := c.read(ctx, http.MethodGet, "/api/showcase", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Products lists a catalog or category; an empty id lists everything
func (c *Client) Products(ctx context.Context, req models.ProductListRequest) ([]catalog.Product, error) {
	var resp models.ProductListResponse
	if err := c.read(ctx, http.MethodPost, "/api/products", req, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// FetchCatalog loads the configurable descriptor of one product
func (c *Client) FetchCatalog(ctx context.Context, productID string) (*catalog.Product, error) {
	var resp models.ProductDetailResponse
	if err := c.read(ctx, http.MethodGet, "/api/products/"+url.PathEscape(productID), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("product %s: empty result", productID)
	}
	return resp.Result, nil
}

// Submit places an order or quote for a locally built configuration
func (c *Client) Submit(ctx context.Context, kind commerce.SubmissionKind, req models.SubmissionRequest) (*models.SubmissionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", kind, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/products/"+string(kind), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", kind, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	Log.WithField("kind", kind).Debug("Submitting configuration")
	resp, err := c.writes.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", kind, err)
	}

	var out models.SubmissionResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Submissions reads the admin submission ledger
func (c *Client) Submissions(ctx context.Context, kind, status string, limit int) (*models.SubmissionListResponse, error) {
	query := url.Values{}
	if kind != "" {
		query.Set("kind", kind)
	}
	if status != "" {
		query.Set("status", status)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	path := "/v1/admin/submissions"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var resp models.SubmissionListResponse
	if err := c.read(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) read(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body interface{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = raw
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" && strings.HasPrefix(path, "/v1/") {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	Log.WithFields(logrus.Fields{"method": method, "path": path}).Debug("API request")
	resp, err := c.reads.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var body models.ErrorResponse
		if json.Unmarshal(raw, &body) == nil && body.Message != "" {
			apiErr.Code = body.Code
			apiErr.Message = body.Message
			if len(body.Details) > 0 && body.Details[0].Issue != "" {
				apiErr.Message += ": " + body.Details[0].Issue
			}
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// logrusLeveled adapts a logrus logger to retryablehttp.LeveledLogger
type logrusLeveled struct {
	log *logrus.Logger
}

func (l logrusLeveled) fields(keysAndValues []interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return l.log.WithFields(fields)
}

func (l logrusLeveled) Error(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Error(msg)
}

func (l logrusLeveled) Info(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debug(msg)
}

func (l logrusLeveled) Debug(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debug(msg)
}

func (l logrusLeveled) Warn(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Warn(msg)
}
