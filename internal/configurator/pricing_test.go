package configurator

import (
	"testing"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/catalog"
	"github.com/stretchr/testify/assert"
)

func TestColorPrice(t *testing.T) {
	tests := []struct {
		name     string
		expected float64
	}{
		{"Pearl White", 0},
		{"pure white", 0},
		{"ALPINE WHITE", 0},
		{"White", 0},
		{"Glacier White Metallic", 0},
		{"whi", 0},
		{"Cosmic Blue", 1000},
		{"Solid Black", 1000},
		{"Red Multi-Coat", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ColorPrice(tt.name))
		})
	}
}

func TestPrice_ColourScenario(t *testing.T) {
	p := newTestProduct()
	sel := DefaultSelection(p)

	// Solid Black default carries the surcharge; bundled wheels and cloth are free
	assert.Equal(t, 21000.0, Price(p, sel))

	sel.Attributes[catalog.ColourAttribute] = "WHT"
	assert.Equal(t, 20000.0, Price(p, sel))

	sel.Attributes[catalog.ColourAttribute] = "BLU"
	assert.Equal(t, 21000.0, Price(p, sel))
}

func TestPrice_Components(t *testing.T) {
	p := newTestProduct()
	sel := NewSelection()
	sel.Attributes[catalog.ColourAttribute] = "WHT"

	assert.Equal(t, 20000.0, Price(p, sel))

	sel.Components["grp-wheels"] = "w20"
	assert.Equal(t, 22500.0, Price(p, sel))

	// bundle-inclusive components are free regardless of list price
	sel.Components["grp-wheels"] = "w21"
	assert.Equal(t, 20000.0, Price(p, sel))

	sel.Components["grp-interior"] = "int-lux"
	sel.Components["grp-pkg"] = "pkg-tech"
	assert.Equal(t, 25000.0, Price(p, sel))
}

func TestPrice_UnknownKeysContributeZero(t *testing.T) {
	p := newTestProduct()
	sel := NewSelection()
	sel.Attributes[catalog.ColourAttribute] = "NOPE"
	sel.Attributes["Sunroof"] = "YES"
	sel.Components["grp-missing"] = "w20"
	sel.Components["grp-wheels"] = "does-not-exist"

	assert.Equal(t, 20000.0, Price(p, sel))
}

func TestPrice_NilProduct(t *testing.T) {
	sel := NewSelection()
	sel.Attributes[catalog.ColourAttribute] = "BLK"
	assert.Equal(t, 0.0, Price(nil, sel))
}

func TestPrice_NeverBelowBase(t *testing.T) {
	p := newTestProduct()
	p.ProductComponentGroups[2].Components[1].Prices[0].Price = -500

	sel := DefaultSelection(p)
	sel.Attributes[catalog.ColourAttribute] = "WHT"
	sel.Components["grp-pkg"] = "pkg-tow"

	assert.GreaterOrEqual(t, Price(p, sel), p.BasePrice())
}

func TestPrice_NoDefaultPriceEntry(t *testing.T) {
	p := newTestProduct()
	p.Prices = []catalog.Price{{Price: 30000, IsDefault: false}}
	p.ProductComponentGroups[1].Components[1].Prices[0].IsDefault = false

	sel := NewSelection()
	sel.Attributes[catalog.ColourAttribute] = "WHT"
	sel.Components["grp-interior"] = "int-lux"

	assert.Equal(t, 0.0, Price(p, sel))
}
