package configurator

import (
	"context"
	"errors"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/catalog"
)

func intPtr(v int) *int { return &v }

func float64Ptr(v float64) *float64 { return &v }

func component(id, name string, price float64, isDefault, included bool) catalog.Component {
	return catalog.Component{
		ID:     id,
		Name:   name,
		Prices: []catalog.Price{{Price: price, IsDefault: true}},
		ProductRelatedComponent: &catalog.RelatedComponent{
			IsDefaultComponent:          isDefault,
			DoesBundlePriceIncludeChild: included,
		},
	}
}

// newTestProduct returns a vehicle with base 20000, a Colour attribute
// defaulting to Solid Black, and Wheels, Interior and Package groups.
func newTestProduct() *catalog.Product {
	return &catalog.Product{
		ID:   "01t-AURORA",
		Name: "Aurora GT",
		Prices: []catalog.Price{
			{Price: 25000, IsDefault: false, PriceBookID: "01s-ALT"},
			{Price: 20000, IsDefault: true, PriceBookID: "01s-STD", PriceBookEntryID: "01u-STD"},
		},
		AttributeCategories: []catalog.AttributeCategory{
			{
				Code: "EXT",
				Name: "Exterior",
				Records: []catalog.AttributeRecord{
					{
						ID:               "0tj-COL",
						Name:             catalog.ColourAttribute,
						Label:            "Paint",
						DefaultValue:     "BLK",
						IsPriceImpacting: true,
						AttributePickList: &catalog.AttributePickList{
							ID: "0v6-PL",
							Values: []catalog.PickListValue{
								{ID: "v1", Code: "BLK", Name: "Black", DisplayValue: "Solid Black"},
								{ID: "v2", Code: "WHT", Name: "White", DisplayValue: "Pearl White"},
								{ID: "v3", Code: "BLU", Name: "Blue", DisplayValue: "Cosmic Blue"},
							},
						},
					},
					{
						ID:           "0tj-TRIM",
						Name:         "Trim",
						DefaultValue: "CHROME",
					},
					{
						ID:   "0tj-BADGE",
						Name: "Badge",
					},
				},
			},
		},
		ProductComponentGroups: []catalog.ComponentGroup{
			{
				ID:                  "grp-wheels",
				Name:                "Wheels",
				MaxBundleComponents: 1,
				Components: []catalog.Component{
					component("w18", "18 inch Aero", 0, true, true),
					component("w20", "20 inch Sport", 2500, false, false),
					component("w21", "21 inch Forged", 4000, false, true),
				},
			},
			{
				ID:                  "grp-interior",
				Name:                "Interior",
				MaxBundleComponents: 1,
				Components: []catalog.Component{
					component("int-std", "Cloth", 0, true, false),
					component("int-lux", "Nappa Leather", 1800, false, false),
				},
			},
			{
				ID:                  "grp-pkg",
				Name:                "Package",
				MaxBundleComponents: 3,
				Components: []catalog.Component{
					component("pkg-tech", "Tech Package", 3200, false, false),
					component("pkg-tow", "Tow Package", 900, false, false),
				},
			},
		},
	}
}

type stubFetcher struct {
	product *catalog.Product
	err     error
	calls   int
}

func (f *stubFetcher) FetchCatalog(ctx context.Context, productID string) (*catalog.Product, error) {
	f.calls++
	return f.product, f.err
}

var errUpstream = errors.New("upstream returned 503")
