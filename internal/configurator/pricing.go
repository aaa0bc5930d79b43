package configurator

import (
	"strings"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/catalog"
)

// NonWhiteSurcharge is the flat paint charge for any non-white colour
const NonWhiteSurcharge = 1000.0

var whiteVariants = []string{
	"pearl white",
	"pure white",
	"solid white",
	"arctic white",
	"glacier white",
	"alpine white",
	"crystal white",
	"white",
}

// ColorPrice returns 0 for white paints and NonWhiteSurcharge otherwise.
// A name is white when it contains a known variant or is contained in one,
// ignoring case.
func ColorPrice(displayValue string) float64 {
	normalized := strings.ToLower(displayValue)
	for _, variant := range whiteVariants {
		if strings.Contains(normalized, variant) || strings.Contains(variant, normalized) {
			return 0
		}
	}
	return NonWhiteSurcharge
}

// Price computes the total for a selection against a product snapshot.
// A nil product prices at 0. Selections that do not resolve in the
// snapshot contribute nothing.
func Price(p *catalog.Product, sel Selection) float64 {
	if p == nil {
		return 0
	}

	total := p.BasePrice()
	total += colourCharge(p, sel)

	for i := range p.ProductComponentGroups {
		group := &p.ProductComponentGroups[i]
		componentID, ok := sel.Components[group.ID]
		if !ok || componentID == "" {
			continue
		}
		component, ok := group.FindComponent(componentID)
		if !ok || component.BundleIncluded() {
			continue
		}
		// negative entries would undercut the base price
		if price := component.ListPrice(); price > 0 {
			total += price
		}
	}

	return total
}

func colourCharge(p *catalog.Product, sel Selection) float64 {
	code := sel.Attributes[catalog.ColourAttribute]
	if code == "" {
		return 0
	}
	record, ok := p.FindAttribute(catalog.ColourAttribute)
	if !ok {
		return 0
	}
	value, ok := record.FindValue(code)
	if !ok {
		return 0
	}
	return ColorPrice(value.DisplayValue)
}
