package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/catalog"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/configurator"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"
)

const defaultShowcaseDescription = "Premium quality vehicle"

// Cards without a display URL rotate through these
var defaultShowcaseImages = []string{
	"https://images.unsplash.com/photo-1563720223185-11003d516935?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1549399735-cae2452eba7a?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1552519507-da3b142c6e3d?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1503376780353-7e6692767b70?w=800&h=600&fit=crop",
}

// CatalogClient reads products from the commerce backend
type CatalogClient interface {
	ListProducts(ctx context.Context, req models.ProductListRequest) ([]catalog.Product, error)
	Product(ctx context.Context, productID string) (*catalog.Product, error)
}

// CatalogService serves product reads and the landing page showcase
type CatalogService struct {
	client           CatalogClient
	showcaseCategory string
}

func NewCatalogService(client CatalogClient, showcaseCategory string) *CatalogService {
	return &CatalogService{client: client, showcaseCategory: showcaseCategory}
}

func (s *CatalogService) List(ctx context.Context, req models.ProductListRequest) ([]catalog.Product, error) {
	return s.client.ListProducts(ctx, req)
}

func (s *CatalogService) Product(ctx context.Context, productID string) (*catalog.Product, error) {
	return s.client.Product(ctx, productID)
}

// Showcase lists the products of the showcase category as display cards
func (s *CatalogService) Showcase(ctx context.Context) (models.ShowcaseResponse, error) {
	products, err := s.client.ListProducts(ctx, models.ProductListRequest{})
	if err != nil {
		return models.ShowcaseResponse{}, err
	}

	cards := make([]models.ShowcaseProduct, 0, len(products))
	for _, p := range products {
		if !p.InCategory(s.showcaseCategory) {
			continue
		}
		cards = append(cards, ShowcaseCard(p, len(cards)))
	}

	slog.Debug("Showcase built",
		"category", s.showcaseCategory,
		"listed", len(products),
		"shown", len(cards))

	return models.ShowcaseResponse{
		Category: s.showcaseCategory,
		Products: cards,
		Count:    len(cards),
	}, nil
}

// ShowcaseCard turns a product into a landing page card. index picks the
// fallback image.
func ShowcaseCard(p catalog.Product, index int) models.ShowcaseProduct {
	price := catalog.DefaultPrice(p.Prices)

	description := catalog.PlainText(p.Description)
	if description == "" {
		description = defaultShowcaseDescription
	}

	image := defaultShowcaseImages[index%len(defaultShowcaseImages)]
	if p.DisplayURL != "" {
		image = catalog.Decode(p.DisplayURL)
	}

	kind := strings.ToLower(p.ProductCode)
	if kind == "" {
		kind = "vehicle"
	}

	return models.ShowcaseProduct{
		ID:           p.ID,
		Name:         catalog.Decode(p.Name),
		Description:  description,
		Price:        price,
		MonthlyPrice: configurator.ShowcaseMonthly(price),
		Image:        image,
		Type:         kind,
	}
}
