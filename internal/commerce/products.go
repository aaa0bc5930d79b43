package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/catalog"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"

	"github.com/tidwall/gjson"
)

const listCorrelationID = "corrId"

// ListProducts returns the products of a catalog, or of a category when
// req.IsCategory is set. An empty CatalogID lists the whole price book.
func (c *Client) ListProducts(ctx context.Context, req models.ProductListRequest) ([]catalog.Product, error) {
	if err := c.cfg.require(catalogKeys...); err != nil {
		return nil, err
	}
	endpoint, err := c.cfg.dataURL(c.cfg.BaseEndpoint, "connect/cpq/products")
	if err != nil {
		return nil, err
	}

	payload := map[string]string{
		"correlationId": listCorrelationID,
		"priceBookId":   c.cfg.PricebookID,
	}
	if req.CatalogID != "" {
		if req.IsCategory {
			payload["categoryId"] = req.CatalogID
		} else {
			payload["catalogId"] = req.CatalogID
		}
	}

	body, err := c.authorizedRead(ctx, endpoint, "product list", payload)
	if err != nil {
		return nil, err
	}

	result := gjson.GetBytes(body, "result")
	if !result.Exists() {
		return nil, fmt.Errorf("product list response missing result")
	}

	var products []catalog.Product
	if err := json.Unmarshal([]byte(result.Raw), &products); err != nil {
		return nil, fmt.Errorf("failed to decode product list: %w", err)
	}

	slog.Debug("Products listed", "count", len(products), "catalog_id", req.CatalogID, "is_category", req.IsCategory)
	return products, nil
}

// Product returns the full configurable descriptor of one product
func (c *Client) Product(ctx context.Context, productID string) (*catalog.Product, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id is required")
	}
	if err := c.cfg.require(catalogKeys...); err != nil {
		return nil, err
	}
	endpoint, err := c.cfg.dataURL(c.cfg.BaseEndpoint, "connect/cpq/products/"+url.PathEscape(productID))
	if err != nil {
		return nil, err
	}

	body, err := c.authorizedRead(ctx, endpoint, "product detail", map[string]string{
		"priceBookId": c.cfg.PricebookID,
	})
	if err != nil {
		return nil, err
	}

	result := gjson.GetBytes(body, "result")
	if !result.Exists() || result.Type == gjson.Null {
		return nil, fmt.Errorf("product %s: response missing result", productID)
	}

	var product catalog.Product
	if err := json.Unmarshal([]byte(result.Raw), &product); err != nil {
		return nil, fmt.Errorf("failed to decode product %s: %w", productID, err)
	}
	if product.ID == "" {
		product.ID = productID
	}

	return &product, nil
}

// FetchCatalog loads a product snapshot for a configuration session
func (c *Client) FetchCatalog(ctx context.Context, productID string) (*catalog.Product, error) {
	return c.Product(ctx, productID)
}

func (c *Client) authorizedRead(ctx context.Context, endpoint, operation string, payload interface{}) ([]byte, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	resp, err := c.postJSON(ctx, endpoint, token.AccessToken, payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	body, err := readBody(resp, operation, http.StatusOK)
	if err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) && upstream.StatusCode == http.StatusUnauthorized {
			c.InvalidateToken()
		}
		return nil, err
	}
	return body, nil
}
