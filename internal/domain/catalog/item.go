// Package catalog models furniture catalog items as stored in the product index.
package catalog

import (
	"encoding/json"
	"strings"
)

// Item is one catalog entry. JSON names follow the seed file: snake_case for
// room_types and all_colors, camelCase for everything else.
type Item struct {
	ID          string         `json:"id"`
	SKU         string         `json:"sku"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Category    string         `json:"category"`
	Subcategory string         `json:"subcategory"`
	TopCategory string         `json:"topCategory,omitempty"`
	Style       []string       `json:"style"`
	Colors      Colors         `json:"colors"`
	Materials   []string       `json:"materials"`
	RoomTypes   []string       `json:"room_types"`
	Features    []string       `json:"features"`
	Tags        []string       `json:"tags"`
	Attributes  []Attribute    `json:"attributes,omitempty"`
	Assets      []Asset        `json:"assets,omitempty"`
	Vector      []float32      `json:"productSummaryVector,omitempty"`
	Embedding   EmbeddingState `json:"vectorRetrieved,omitempty"`
}

// Colors is the color group of an item.
type Colors struct {
	Primary   string   `json:"primary"`
	Secondary string   `json:"secondary,omitempty"`
	AllColors []string `json:"all_colors"`
}

// Attribute is a free-form name/values pair attached to an item.
type Attribute struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Asset describes a media asset of an item. DivisionID groups assets and is optional.
type Asset struct {
	DivisionID *int   `json:"divisionId,omitempty"`
	AssetID    string `json:"assetId"`
	Usage      string `json:"assetUsage"`
	Type       string `json:"assetType"`
}

// ColorKeywords returns primary, secondary and the full color list in that
// order, blanks removed and duplicates dropped after their first occurrence.
func (it *Item) ColorKeywords() []string {
	candidates := make([]string, 0, 2+len(it.Colors.AllColors))
	candidates = append(candidates, it.Colors.Primary, it.Colors.Secondary)
	candidates = append(candidates, it.Colors.AllColors...)

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Summary renders the text that is embedded into the item's vector.
// It is a pure function of the other fields.
func (it *Item) Summary() string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	line(it.Name + ". " + it.Description)
	line("Category: " + it.Category + " > " + it.Subcategory + ".")
	line("Style: " + strings.Join(it.Style, ", ") + ".")
	line("Colors: " + strings.Join(it.Colors.AllColors, ", ") + ".")
	line("Materials: " + strings.Join(it.Materials, ", ") + ".")
	line("Suitable for: " + strings.Join(it.RoomTypes, ", ") + ".")
	line("Features: " + strings.Join(it.Features, ", ") + ".")
	line("Tags: " + strings.Join(it.Tags, ", ") + ".")
	return strings.TrimSpace(b.String())
}

// HasPrice reports whether a price was supplied.
func (it *Item) HasPrice() bool { return it.Price > 0 }

type itemFields Item

type itemDocument struct {
	itemFields
	ColorKeywords  []string `json:"colorKeywords"`
	ProductSummary string   `json:"productSummary"`
}

// MarshalJSON writes the item with its derived colorKeywords and productSummary
// fields recomputed.
func (it Item) MarshalJSON() ([]byte, error) {
	doc := itemDocument{
		itemFields:     itemFields(it),
		ColorKeywords:  it.ColorKeywords(),
		ProductSummary: it.Summary(),
	}
	return json.Marshal(doc)
}

// UnmarshalJSON reads an item; derived fields present in the input are ignored.
func (it *Item) UnmarshalJSON(data []byte) error {
	var f itemFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*it = Item(f)
	return nil
}
