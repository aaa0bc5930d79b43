package configurator

import (
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/catalog"
)

// Selection is the user's current choice per attribute name and per
// component group id.
type Selection struct {
	Attributes map[string]string `json:"selectedAttributes"`
	Components map[string]string `json:"selectedComponents"`
}

// NewSelection returns an empty selection
func NewSelection() Selection {
	return Selection{
		Attributes: make(map[string]string),
		Components: make(map[string]string),
	}
}

// DefaultSelection seeds a selection from the catalog defaults: every
// attribute record with a default value, and the default component of each
// group that has one.
func DefaultSelection(p *catalog.Product) Selection {
	sel := NewSelection()
	if p == nil {
		return sel
	}

	for _, category := range p.AttributeCategories {
		for _, record := range category.Records {
			if record.DefaultValue != "" {
				sel.Attributes[record.Name] = record.DefaultValue
			}
		}
	}

	for i := range p.ProductComponentGroups {
		group := &p.ProductComponentGroups[i]
		if def, ok := group.DefaultComponent(); ok {
			sel.Components[group.ID] = def.ID
		}
	}

	return sel
}

// Clone returns a deep copy
func (s Selection) Clone() Selection {
	out := NewSelection()
	for k, v := range s.Attributes {
		out.Attributes[k] = v
	}
	for k, v := range s.Components {
		out.Components[k] = v
	}
	return out
}

// Prune drops keys that do not name an attribute record or component group
// of p and returns how many were removed. Values are left untouched.
func (s *Selection) Prune(p *catalog.Product) int {
	removed := 0
	for name := range s.Attributes {
		if p == nil {
			delete(s.Attributes, name)
			removed++
			continue
		}
		if _, ok := p.FindAttribute(name); !ok {
			delete(s.Attributes, name)
			removed++
		}
	}
	for groupID := range s.Components {
		if p == nil {
			delete(s.Components, groupID)
			removed++
			continue
		}
		if _, ok := p.FindGroup(groupID); !ok {
			delete(s.Components, groupID)
			removed++
		}
	}
	return removed
}
