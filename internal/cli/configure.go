package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/commerce"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/configurator"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"
)

// Submitter places a configuration upstream
type Submitter interface {
	Submit(ctx context.Context, kind commerce.SubmissionKind, req models.SubmissionRequest) (*models.SubmissionResponse, error)
}

// ConfigureOptions describes one non-interactive configuration run
type ConfigureOptions struct {
	ProductID  string
	Attributes map[string]string
	Components map[string]string
	LeaseTerm  int
	// nil selects the default 20% down payment
	DownPayment *float64
	// empty previews only
	Submit commerce.SubmissionKind
}

// ConfigureResult is what a run produced
type ConfigureResult struct {
	Session   *configurator.Session
	Financing configurator.FinancingQuote
	Response  *models.SubmissionResponse
}

// ParseAssignments turns name=value pairs into a map. Later pairs win.
func ParseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", pair)
		}
		out[name] = strings.TrimSpace(value)
	}
	return out, nil
}

// Configure loads the product into a local session, applies the selections
// in name order, prices the lease and optionally submits it.
func Configure(ctx context.Context, fetcher configurator.CatalogFetcher, submitter Submitter, opts ConfigureOptions) (*ConfigureResult, error) {
	if strings.TrimSpace(opts.ProductID) == "" {
		return nil, fmt.Errorf("product id is required")
	}

	session := configurator.NewSession(opts.ProductID, fetcher)
	if err := session.Load(ctx); err != nil {
		return nil, err
	}
	Log.WithField("product_id", opts.ProductID).Debug("Catalog loaded")

	for _, name := range sortedKeys(opts.Attributes) {
		if err := session.UpdateAttribute(name, opts.Attributes[name]); err != nil {
			return nil, err
		}
	}
	for _, group := range sortedKeys(opts.Components) {
		if err := session.UpdateComponent(group, opts.Components[group]); err != nil {
			return nil, err
		}
	}

	quote, err := session.Finance(opts.LeaseTerm, opts.DownPayment)
	if err != nil {
		return nil, err
	}

	result := &ConfigureResult{Session: session, Financing: quote}
	if opts.Submit == "" {
		return result, nil
	}
	if submitter == nil {
		return nil, fmt.Errorf("no submitter configured")
	}

	financing := quote.Financing
	resp, err := submitter.Submit(ctx, opts.Submit, models.SubmissionRequest{
		Configuration: session.Configuration(),
		Financing:     &financing,
	})
	if err != nil {
		return nil, err
	}
	result.Response = resp
	return result, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
