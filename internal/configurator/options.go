package configurator

import (
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/catalog"
)

// ColorOption is one paint choice of a color step
type ColorOption struct {
	Code         string  `json:"code"`
	DisplayValue string  `json:"displayValue"`
	Price        float64 `json:"price"`
	Swatch       string  `json:"swatch"`
	Selected     bool    `json:"selected"`
}

// ComponentOption is one selectable component of a group step
type ComponentOption struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	DisplayURL  string   `json:"displayUrl,omitempty"`
	Price       float64  `json:"price"`
	Included    bool     `json:"included"`
	Required    bool     `json:"required"`
	Default     bool     `json:"default"`
	Selected    bool     `json:"selected"`
	Features    []string `json:"features,omitempty"`
}

// StepOptions lists what can be chosen on one step. Model and Summary
// steps carry no options.
type StepOptions struct {
	Index int      `json:"index"`
	Kind  StepKind `json:"kind"`

	// Attribute record name the color choices are written to
	Attribute  string            `json:"attribute,omitempty"`
	Colors     []ColorOption     `json:"colors,omitempty"`
	GroupID    string            `json:"groupId,omitempty"`
	Components []ComponentOption `json:"components,omitempty"`
}

// Options builds the choosable values of every step in plan, priced and
// marked against sel.
func Options(p *catalog.Product, plan Plan, sel Selection) []StepOptions {
	out := make([]StepOptions, 0, len(plan.Steps))
	for i, step := range plan.Steps {
		opts := StepOptions{Index: i, Kind: step.Kind}
		switch step.Kind {
		case StepColor:
			if record := colorRecord(p, step.CategoryCode); record != nil {
				opts.Attribute = record.Name
				opts.Colors = colorOptions(record, sel.Attributes[record.Name])
			}
		case StepWheels, StepInterior, StepPackages:
			if p == nil {
				break
			}
			if group, ok := p.FindGroup(step.GroupID); ok {
				opts.GroupID = group.ID
				opts.Components = componentOptions(group, sel.Components[group.ID], step.Kind == StepPackages)
			}
		}
		out = append(out, opts)
	}
	return out
}

// colorRecord picks the Colour record of a category, else its first
// record with a pick-list.
func colorRecord(p *catalog.Product, categoryCode string) *catalog.AttributeRecord {
	if p == nil {
		return nil
	}
	var fallback *catalog.AttributeRecord
	for i := range p.AttributeCategories {
		category := &p.AttributeCategories[i]
		if category.Code != categoryCode {
			continue
		}
		for j := range category.Records {
			record := &category.Records[j]
			if record.AttributePickList == nil {
				continue
			}
			if record.Name == catalog.ColourAttribute {
				return record
			}
			if fallback == nil {
				fallback = record
			}
		}
	}
	return fallback
}

func colorOptions(record *catalog.AttributeRecord, selected string) []ColorOption {
	values := record.AttributePickList.Values
	colors := make([]ColorOption, 0, len(values))
	for _, v := range values {
		colors = append(colors, ColorOption{
			Code:         v.Code,
			DisplayValue: v.DisplayValue,
			Price:        ColorPrice(v.DisplayValue),
			Swatch:       catalog.SwatchHex(v.DisplayValue),
			Selected:     v.Code == selected,
		})
	}
	return colors
}

func componentOptions(group *catalog.ComponentGroup, selected string, withFeatures bool) []ComponentOption {
	components := make([]ComponentOption, 0, len(group.Components))
	for i := range group.Components {
		c := &group.Components[i]
		opt := ComponentOption{
			ID:          c.ID,
			Name:        catalog.Decode(c.Name),
			Description: catalog.PlainText(c.Description),
			DisplayURL:  catalog.Decode(c.DisplayURL),
			Price:       c.ListPrice(),
			Included:    c.BundleIncluded(),
			Selected:    c.ID == selected,
		}
		if rel := c.ProductRelatedComponent; rel != nil {
			opt.Required = rel.IsComponentRequired
			opt.Default = rel.IsDefaultComponent
		}
		if withFeatures && c.Description != "" {
			opt.Features = catalog.Features(c.Description)
		}
		components = append(components, opt)
	}
	return components
}
