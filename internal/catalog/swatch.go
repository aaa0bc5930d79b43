package catalog

import "strings"

// DefaultSwatch is used for colour names with no known swatch
const DefaultSwatch = "#94A3B8"

type swatch struct {
	name string
	hex  string
}

// swatches is ordered so partial matches resolve deterministically
var swatches = []swatch{
	{"Pearl White", "#F8F9FA"},
	{"Pure White", "#FFFFFF"},
	{"Solid White", "#F5F5F5"},
	{"Arctic White", "#F0F8FF"},
	{"Glacier White", "#E8F4F8"},
	{"Alpine White", "#FAFAFA"},
	{"Crystal White", "#F7F7F7"},

	{"Solid Black", "#1A1A1A"},
	{"Jet Black", "#000000"},
	{"Obsidian Black", "#0B0B0B"},
	{"Carbon Black", "#1C1C1C"},
	{"Midnight Black", "#191970"},
	{"Deep Black", "#0A0A0A"},
	{"Piano Black", "#1F1F1F"},

	{"Silver Metallic", "#C0C0C0"},
	{"Platinum Silver", "#E5E4E2"},
	{"Space Gray", "#8E8E93"},
	{"Titanium Silver", "#DCDCDC"},
	{"Storm Gray", "#778899"},
	{"Graphite Gray", "#41424C"},
	{"Lunar Silver", "#B8B8B8"},
	{"Stealth Gray", "#6C7B7F"},

	{"Deep Blue", "#1E3A8A"},
	{"Ocean Blue", "#006994"},
	{"Navy Blue", "#000080"},
	{"Steel Blue", "#4682B4"},
	{"Royal Blue", "#4169E1"},
	{"Midnight Blue", "#191970"},
	{"Azure Blue", "#007FFF"},
	{"Electric Blue", "#7DF9FF"},
	{"Sapphire Blue", "#0F52BA"},
	{"Cosmic Blue", "#2E37FE"},

	{"Red Multi-Coat", "#DC2626"},
	{"Cherry Red", "#DE3163"},
	{"Cardinal Red", "#C41E3A"},
	{"Crimson Red", "#DC143C"},
	{"Ruby Red", "#E0115F"},
	{"Fire Red", "#FF2D00"},
	{"Burgundy", "#800020"},
	{"Candy Red", "#FF0800"},

	{"Forest Green", "#228B22"},
	{"Emerald Green", "#50C878"},
	{"Racing Green", "#004225"},
	{"Lime Green", "#32CD32"},
	{"Sage Green", "#9CAF88"},
	{"Hunter Green", "#355E3B"},

	{"Bronze", "#CD7F32"},
	{"Copper", "#B87333"},
	{"Champagne", "#F7E7CE"},
	{"Mocha", "#967117"},
	{"Espresso", "#6F4E37"},
	{"Cognac", "#9A463D"},

	{"Golden Yellow", "#FFD700"},
	{"Solar Yellow", "#FFFF66"},
	{"Canary Yellow", "#FFEF00"},
	{"Amber", "#FFBF00"},
	{"Sunset Orange", "#FF8C69"},

	{"Deep Purple", "#483D8B"},
	{"Royal Purple", "#7851A9"},
	{"Plum", "#DDA0DD"},
	{"Violet", "#8A2BE2"},
}

// SwatchHex returns a display colour for a paint name. An exact name match
// wins; otherwise the first entry whose name contains, or is contained in,
// the given name is used.
func SwatchHex(colorName string) string {
	for _, s := range swatches {
		if s.name == colorName {
			return s.hex
		}
	}

	normalized := strings.ToLower(strings.TrimSpace(colorName))
	if normalized == "" {
		return DefaultSwatch
	}
	for _, s := range swatches {
		key := strings.ToLower(s.name)
		if strings.Contains(normalized, key) || strings.Contains(key, normalized) {
			return s.hex
		}
	}
	return DefaultSwatch
}
