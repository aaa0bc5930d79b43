package configurator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/catalog"
)

// CatalogFetcher loads the catalog snapshot for a product
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context, productID string) (*catalog.Product, error)
}

// CatalogFetcherFunc adapts a function to CatalogFetcher
type CatalogFetcherFunc func(ctx context.Context, productID string) (*catalog.Product, error)

func (f CatalogFetcherFunc) FetchCatalog(ctx context.Context, productID string) (*catalog.Product, error) {
	return f(ctx, productID)
}

// Status is the lifecycle state of a session
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// Configuration is the snapshot of a session submitted with an order or
// quote.
type Configuration struct {
	ProductID          string            `json:"productId"`
	ProductData        *catalog.Product  `json:"productData"`
	SelectedAttributes map[string]string `json:"selectedAttributes"`
	SelectedComponents map[string]string `json:"selectedComponents"`
	BasePrice          float64           `json:"basePrice"`
	TotalPrice         float64           `json:"totalPrice"`
}

// Session owns one user's in-progress configuration of a single product.
// It is not safe for concurrent use; callers serialise access.
type Session struct {
	productID string
	fetcher   CatalogFetcher

	attempted bool
	status    Status
	err       error

	product    *catalog.Product
	selection  Selection
	basePrice  float64
	totalPrice float64

	plan Plan
	nav  *Navigator
}

// NewSession creates an unloaded session for productID
func NewSession(productID string, fetcher CatalogFetcher) *Session {
	return &Session{
		productID: productID,
		fetcher:   fetcher,
		status:    StatusLoading,
		selection: NewSelection(),
		nav:       NewNavigator(1),
	}
}

// Load fetches the catalog snapshot and seeds defaults. It may be called
// once; a failed load leaves the session in StatusError for good.
func (s *Session) Load(ctx context.Context) error {
	if s.attempted {
		return ErrAlreadyLoaded
	}
	s.attempted = true

	product, err := s.fetcher.FetchCatalog(ctx, s.productID)
	if err == nil && product == nil {
		err = errors.New("empty catalog response")
	}
	if err != nil {
		s.status = StatusError
		s.err = &CatalogLoadError{ProductID: s.productID, Err: err}
		slog.Warn("Catalog load failed", "product_id", s.productID, "error", err)
		return s.err
	}

	s.install(product)
	slog.Debug("Catalog loaded",
		"product_id", s.productID,
		"steps", len(s.plan.Steps),
		"base_price", s.basePrice,
		"total_price", s.totalPrice)
	return nil
}

func (s *Session) install(product *catalog.Product) {
	s.product = product
	s.selection = DefaultSelection(product)
	if removed := s.selection.Prune(product); removed > 0 {
		slog.Debug("Pruned stale selections", "product_id", s.productID, "removed", removed)
	}
	s.basePrice = product.BasePrice()
	s.plan = Steps(product)
	s.nav = NewNavigator(len(s.plan.Steps))
	for _, g := range s.plan.Unsupported {
		slog.Warn("Component group has no wizard step",
			"product_id", s.productID,
			"group_id", g.GroupID,
			"group_name", g.Name)
	}
	s.status = StatusReady
	s.recompute()
}

func (s *Session) recompute() {
	s.totalPrice = Price(s.product, s.selection)
}

// ProductID returns the product this session configures
func (s *Session) ProductID() string { return s.productID }

// Status returns the lifecycle state
func (s *Session) Status() Status { return s.status }

// Err returns the load failure, if any
func (s *Session) Err() error { return s.err }

// ErrorMessage returns the load failure as text, or ""
func (s *Session) ErrorMessage() string {
	if s.err == nil {
		return ""
	}
	return s.err.Error()
}

// Product returns the snapshot, nil until loaded
func (s *Session) Product() *catalog.Product { return s.product }

// Selection returns a copy of the current selection
func (s *Session) Selection() Selection { return s.selection.Clone() }

// BasePrice returns the product's default list price
func (s *Session) BasePrice() float64 { return s.basePrice }

// TotalPrice returns the price of the current selection
func (s *Session) TotalPrice() float64 { return s.totalPrice }

// ColorPrice exposes the paint pricing rule
func (s *Session) ColorPrice(displayValue string) float64 { return ColorPrice(displayValue) }

// Plan returns the wizard steps
func (s *Session) Plan() Plan { return s.plan }

// Navigator returns the step navigator
func (s *Session) Navigator() *Navigator { return s.nav }

// CurrentStep returns the step at the navigator's index
func (s *Session) CurrentStep() (Step, bool) {
	if s.status != StatusReady || len(s.plan.Steps) == 0 {
		return Step{}, false
	}
	return s.plan.Steps[s.nav.Current()], true
}

// UpdateAttribute sets the selected value for an attribute record name.
// The value is not checked against the pick-list.
func (s *Session) UpdateAttribute(name, value string) error {
	if s.status != StatusReady {
		return ErrNotReady
	}
	if _, ok := s.product.FindAttribute(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}
	s.selection.Attributes[name] = value
	s.recompute()
	return nil
}

// UpdateComponent sets the selected component for a group id.
// The component id is not checked against the group.
func (s *Session) UpdateComponent(groupID, componentID string) error {
	if s.status != StatusReady {
		return ErrNotReady
	}
	if _, ok := s.product.FindGroup(groupID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGroup, groupID)
	}
	s.selection.Components[groupID] = componentID
	s.recompute()
	return nil
}

// Options returns the choosable values of every step, nil until loaded
func (s *Session) Options() []StepOptions {
	if s.status != StatusReady {
		return nil
	}
	return Options(s.product, s.plan, s.selection)
}

// Summary returns the priced breakdown of the current selection
func (s *Session) Summary() Summary {
	return Summarize(s.product, s.selection)
}

// Finance prices a lease for the current total
func (s *Session) Finance(months int, downPayment *float64) (FinancingQuote, error) {
	if s.status != StatusReady {
		return FinancingQuote{}, ErrNotReady
	}
	return Finance(s.totalPrice, months, downPayment)
}

// Configuration snapshots the session for submission
func (s *Session) Configuration() Configuration {
	sel := s.selection.Clone()
	return Configuration{
		ProductID:          s.productID,
		ProductData:        s.product,
		SelectedAttributes: sel.Attributes,
		SelectedComponents: sel.Components,
		BasePrice:          s.basePrice,
		TotalPrice:         s.totalPrice,
	}
}
