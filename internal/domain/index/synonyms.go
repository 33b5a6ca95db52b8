package index

import "strings"

// SynonymMap is a named set of equivalence groups.
type SynonymMap struct {
	Name   string     `json:"name"`
	Groups [][]string `json:"groups"`
}

// Lines renders each group as one comma-separated line.
func (m SynonymMap) Lines() []string {
	out := make([]string, len(m.Groups))
	for i, g := range m.Groups {
		out[i] = strings.Join(g, ", ")
	}
	return out
}

// ColorSynonymMapName is the name of the color synonym map.
const ColorSynonymMapName = "color-synonym-map"

// ColorSynonyms returns the color families matched as equivalent at query time.
func ColorSynonyms() SynonymMap {
	return SynonymMap{
		Name: ColorSynonymMapName,
		Groups: [][]string{
			{"white", "ivory", "alabaster", "off-white", "cream"},
			{"black", "ebony", "onyx", "jet black", "charcoal"},
			{"gray", "grey", "silver", "slate", "pewter", "stone"},
			{"brown", "chocolate", "espresso", "walnut", "chestnut", "mocha", "taupe", "cocoa"},
			{"beige", "tan", "khaki", "sand", "camel", "oatmeal"},
			{"red", "crimson", "burgundy", "maroon", "ruby", "wine"},
			{"blue", "navy", "cobalt", "sapphire", "indigo", "denim"},
			{"green", "emerald", "olive", "sage", "forest", "mint", "moss"},
			{"yellow", "gold", "mustard", "ochre", "honey"},
			{"orange", "tangerine", "rust", "coral", "amber", "terracotta"},
			{"pink", "blush", "rose", "fuchsia", "magenta", "salmon"},
			{"purple", "plum", "violet", "lavender", "lilac", "eggplant"},
			{"teal", "turquoise", "aqua", "seafoam", "cyan"},
			{"off-white", "cream", "eggshell", "linen", "parchment"},
			{"charcoal", "graphite", "ash", "dark gray"},
			{"wood", "oak", "maple", "pine", "birch", "mahogany"},
			{"metallic", "chrome", "brass", "bronze", "copper", "steel"},
		},
	}
}
