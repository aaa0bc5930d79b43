package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/catalog"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/telemetry"

	"github.com/gorilla/mux"
)

// ProductCatalog is the read side of the catalog the handlers need
type ProductCatalog interface {
	List(ctx context.Context, req models.ProductListRequest) ([]catalog.Product, error)
	Product(ctx context.Context, productID string) (*catalog.Product, error)
	Showcase(ctx context.Context) (models.ShowcaseResponse, error)
}

// ProductHandler handles catalog reads
type ProductHandler struct {
	catalog ProductCatalog
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog ProductCatalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// GetProduct handles GET /api/products/{productId}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSpace(mux.Vars(r)["productId"])
	if productID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "Product ID is required", []models.ErrorDetail{
			{Field: "productId", Issue: "required"},
		})
		return
	}

	product, err := h.catalog.Product(r.Context(), productID)
	if err != nil {
		slog.Warn("Failed to fetch product", "product_id", productID, "error", err)
		writeCommerceError(w, "fetch product details", err)
		return
	}

	telemetry.SetProductCount(r.Context(), 1)
	writeJSONResponse(w, http.StatusOK, models.ProductDetailResponse{Result: product})
}

// ListProducts handles POST /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var req models.ProductListRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeInvalidJSON(w, r, err)
		return
	}

	products, err := h.catalog.List(r.Context(), req)
	if err != nil {
		slog.Warn("Failed to list products",
			"catalog_id", req.CatalogID,
			"is_category", req.IsCategory,
			"error", err)
		writeCommerceError(w, "fetch products", err)
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}

	telemetry.SetProductCount(r.Context(), len(products))
	writeJSONResponse(w, http.StatusOK, models.ProductListResponse{Result: products})
}

// Showcase handles GET /api/showcase
func (h *ProductHandler) Showcase(w http.ResponseWriter, r *http.Request) {
	showcase, err := h.catalog.Showcase(r.Context())
	if err != nil {
		slog.Warn("Failed to build showcase", "error", err)
		writeCommerceError(w, "fetch products", err)
		return
	}

	telemetry.SetProductCount(r.Context(), showcase.Count)
	writeJSONResponse(w, http.StatusOK, showcase)
}
