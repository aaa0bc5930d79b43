// Package catalog holds the product descriptor returned by the commerce
// backend. A Product is fetched once per configuration session and treated
// as read-only afterwards.
package catalog

// ColourAttribute is the attribute record name whose pick-list drives
// colour pricing.
const ColourAttribute = "Colour"

// Product is the catalog snapshot for one configurable vehicle
type Product struct {
	ID                     string              `json:"id"`
	Name                   string              `json:"name"`
	Description            string              `json:"description,omitempty"`
	ProductCode            string              `json:"productCode,omitempty"`
	DisplayURL             string              `json:"displayUrl,omitempty"`
	Prices                 []Price             `json:"prices"`
	Categories             []Category          `json:"categories,omitempty"`
	AttributeCategories    []AttributeCategory `json:"attributeCategories,omitempty"`
	ProductComponentGroups []ComponentGroup    `json:"productComponentGroups,omitempty"`
}

// Price is a price book entry for a product or component
type Price struct {
	Price            float64       `json:"price"`
	IsDefault        bool          `json:"isDefault"`
	PriceBookID      string        `json:"priceBookId,omitempty"`
	PriceBookEntryID string        `json:"priceBookEntryId,omitempty"`
	PricingModel     *PricingModel `json:"pricingModel,omitempty"`
}

// PricingModel describes how a price entry is charged
type PricingModel struct {
	Name             string `json:"name"`
	PricingModelType string `json:"pricingModelType"`
}

// Category is a catalog category the product is listed under
type Category struct {
	Name      string `json:"name"`
	CatalogID string `json:"catalogId,omitempty"`
}

// AttributeCategory groups attribute records, e.g. exterior paint
type AttributeCategory struct {
	Code     string            `json:"code"`
	Name     string            `json:"name"`
	Sequence *int              `json:"sequence,omitempty"`
	Records  []AttributeRecord `json:"records"`
}

// AttributeRecord is a single configurable attribute
type AttributeRecord struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Label             string             `json:"label,omitempty"`
	DefaultValue      string             `json:"defaultValue,omitempty"`
	IsPriceImpacting  bool               `json:"isPriceImpacting"`
	AttributePickList *AttributePickList `json:"attributePickList,omitempty"`
}

// AttributePickList lists the selectable values of an attribute
type AttributePickList struct {
	ID     string          `json:"id"`
	Values []PickListValue `json:"values"`
}

// PickListValue is one option of a pick-list
type PickListValue struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	DisplayValue string `json:"displayValue"`
	TextValue    string `json:"textValue,omitempty"`
}

// ComponentGroup is a bundle slot such as Wheels or Interior
type ComponentGroup struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Description         string      `json:"description,omitempty"`
	Sequence            *int        `json:"sequence,omitempty"`
	MaxBundleComponents int         `json:"maxBundleComponents"`
	Components          []Component `json:"components"`
}

// Component is a selectable child product of a group
type Component struct {
	ID                      string            `json:"id"`
	Name                    string            `json:"name"`
	Description             string            `json:"description,omitempty"`
	DisplayURL              string            `json:"displayUrl,omitempty"`
	Prices                  []Price           `json:"prices"`
	ProductRelatedComponent *RelatedComponent `json:"productRelatedComponent,omitempty"`
}

// RelatedComponent carries the bundle relationship flags of a component
type RelatedComponent struct {
	IsComponentRequired         bool `json:"isComponentRequired"`
	IsDefaultComponent          bool `json:"isDefaultComponent"`
	DoesBundlePriceIncludeChild bool `json:"doesBundlePriceIncludeChild"`
}

// DefaultPrice returns the isDefault entry of prices, or 0 when none is flagged
func DefaultPrice(prices []Price) float64 {
	for _, p := range prices {
		if p.IsDefault {
			return p.Price
		}
	}
	return 0
}

// BasePrice returns the default list price of the product
func (p *Product) BasePrice() float64 {
	if p == nil {
		return 0
	}
	return DefaultPrice(p.Prices)
}

// InCategory reports whether the product is listed under the named category
func (p *Product) InCategory(name string) bool {
	for _, c := range p.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// FindAttribute returns the first attribute record with the given name
// across all categories.
func (p *Product) FindAttribute(name string) (*AttributeRecord, bool) {
	for i := range p.AttributeCategories {
		records := p.AttributeCategories[i].Records
		for j := range records {
			if records[j].Name == name {
				return &records[j], true
			}
		}
	}
	return nil, false
}

// FindGroup returns the component group with the given id
func (p *Product) FindGroup(groupID string) (*ComponentGroup, bool) {
	for i := range p.ProductComponentGroups {
		if p.ProductComponentGroups[i].ID == groupID {
			return &p.ProductComponentGroups[i], true
		}
	}
	return nil, false
}

// FindComponent returns the component with the given id inside the group
func (g *ComponentGroup) FindComponent(componentID string) (*Component, bool) {
	for i := range g.Components {
		if g.Components[i].ID == componentID {
			return &g.Components[i], true
		}
	}
	return nil, false
}

// DefaultComponent returns the first component flagged as the group default
func (g *ComponentGroup) DefaultComponent() (*Component, bool) {
	for i := range g.Components {
		rel := g.Components[i].ProductRelatedComponent
		if rel != nil && rel.IsDefaultComponent {
			return &g.Components[i], true
		}
	}
	return nil, false
}

// BundleIncluded reports whether the bundle price already covers the component
func (c *Component) BundleIncluded() bool {
	return c.ProductRelatedComponent != nil && c.ProductRelatedComponent.DoesBundlePriceIncludeChild
}

// ListPrice returns the component's default price entry, or 0
func (c *Component) ListPrice() float64 {
	return DefaultPrice(c.Prices)
}

// FindValue returns the pick-list value with the given code
func (r *AttributeRecord) FindValue(code string) (*PickListValue, bool) {
	if r.AttributePickList == nil {
		return nil, false
	}
	for i := range r.AttributePickList.Values {
		if r.AttributePickList.Values[i].Code == code {
			return &r.AttributePickList.Values[i], true
		}
	}
	return nil, false
}

// DisplayLabel returns the label, falling back to the record name
func (r *AttributeRecord) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	return r.Name
}
