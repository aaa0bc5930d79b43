package configurator

import (
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/catalog"
)

// LineItem is one row of the pricing breakdown
type LineItem struct {
	Name      string  `json:"name"`
	Value     string  `json:"value,omitempty"`
	Price     float64 `json:"price"`
	IsDefault bool    `json:"isDefault,omitempty"`
	Included  bool    `json:"included,omitempty"`
	Swatch    string  `json:"swatch,omitempty"`
}

// Summary is the priced breakdown of a selection
type Summary struct {
	Attributes      []LineItem `json:"attributes"`
	Components      []LineItem `json:"components"`
	BasePrice       float64    `json:"basePrice"`
	TotalPrice      float64    `json:"totalPrice"`
	MonthlyEstimate float64    `json:"monthlyEstimate"`
}

// Summarize builds the breakdown for sel in catalog order
func Summarize(p *catalog.Product, sel Selection) Summary {
	total := Price(p, sel)
	summary := Summary{
		Attributes:      []LineItem{},
		Components:      []LineItem{},
		BasePrice:       p.BasePrice(),
		TotalPrice:      total,
		MonthlyEstimate: SidebarEstimate(total),
	}
	if p == nil {
		return summary
	}

	for _, category := range p.AttributeCategories {
		for i := range category.Records {
			record := &category.Records[i]
			selected := sel.Attributes[record.Name]
			if selected == "" {
				continue
			}

			item := LineItem{
				Name:      record.DisplayLabel(),
				Value:     selected,
				IsDefault: selected == record.DefaultValue,
			}
			if record.Name == catalog.ColourAttribute {
				if value, ok := record.FindValue(selected); ok {
					item.Value = value.DisplayValue
					item.Price = ColorPrice(value.DisplayValue)
					item.Swatch = catalog.SwatchHex(value.DisplayValue)
				}
			}
			summary.Attributes = append(summary.Attributes, item)
		}
	}

	for i := range p.ProductComponentGroups {
		group := &p.ProductComponentGroups[i]
		componentID := sel.Components[group.ID]
		if componentID == "" {
			continue
		}
		component, ok := group.FindComponent(componentID)
		if !ok {
			continue
		}
		price := component.ListPrice()
		summary.Components = append(summary.Components, LineItem{
			Name:     group.Name + ": " + component.Name,
			Value:    component.Name,
			Price:    price,
			Included: component.BundleIncluded() || price == 0,
		})
	}

	return summary
}
