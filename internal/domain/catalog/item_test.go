package catalog

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func sofa() Item {
	return Item{
		ID:          "F9E8C1FA-AA0C-475B-8844-121364F14878",
		SKU:         "SOF-MDN-CHR-001",
		Name:        "Modern Charcoal Sectional Sofa",
		Description: "A spacious L-shaped sectional.",
		Price:       1299.99,
		Category:    "Seating",
		Subcategory: "Sofas",
		Style:       []string{"Modern", "Contemporary"},
		Colors: Colors{
			Primary:   "Charcoal",
			Secondary: "Silver",
			AllColors: []string{"Charcoal", "Silver", "Black"},
		},
		Materials: []string{"Fabric", "Wood"},
		RoomTypes: []string{"Living Room"},
		Features:  []string{"Reversible chaise"},
		Tags:      []string{"sectional", "sofa"},
	}
}

func TestColorKeywords(t *testing.T) {
	tests := []struct {
		name   string
		colors Colors
		want   []string
	}{
		{
			name:   "secondary missing",
			colors: Colors{Primary: "Red", AllColors: []string{"Red", "Blue"}},
			want:   []string{"Red", "Blue"},
		},
		{
			name:   "order preserved",
			colors: Colors{Primary: "Charcoal", Secondary: "Silver", AllColors: []string{"Black", "Silver"}},
			want:   []string{"Charcoal", "Silver", "Black"},
		},
		{
			name:   "blanks dropped",
			colors: Colors{Primary: "  ", Secondary: "", AllColors: []string{"", "Oak", "\t"}},
			want:   []string{"Oak"},
		},
		{
			name:   "all empty",
			colors: Colors{},
			want:   []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := Item{Colors: tt.colors}
			got := it.ColorKeywords()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ColorKeywords() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	it := sofa()
	want := strings.Join([]string{
		"Modern Charcoal Sectional Sofa. A spacious L-shaped sectional.",
		"Category: Seating > Sofas.",
		"Style: Modern, Contemporary.",
		"Colors: Charcoal, Silver, Black.",
		"Materials: Fabric, Wood.",
		"Suitable for: Living Room.",
		"Features: Reversible chaise.",
		"Tags: sectional, sofa.",
	}, "\n")
	if got := it.Summary(); got != want {
		t.Errorf("Summary() =\n%s\nwant\n%s", got, want)
	}
	if it.Summary() != it.Summary() {
		t.Error("Summary() must be deterministic")
	}
}

func TestMarshalJSON_DerivedFieldsAndNaming(t *testing.T) {
	it := sofa()
	raw, err := json.Marshal(it)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"room_types", "colorKeywords", "productSummary", "subcategory"} {
		if _, ok := m[k]; !ok {
			t.Errorf("missing key %q in %s", k, raw)
		}
	}
	colors := m["colors"].(map[string]any)
	if _, ok := colors["all_colors"]; !ok {
		t.Errorf("missing colors.all_colors in %s", raw)
	}
	if _, ok := m["vectorRetrieved"]; ok {
		t.Error("unset embedding state must be omitted")
	}
	if _, ok := m["productSummaryVector"]; ok {
		t.Error("empty vector must be omitted")
	}
}

func TestUnmarshalJSON_IgnoresDerivedFields(t *testing.T) {
	raw := `{"id":"1","name":"Chair","colors":{"primary":"Red","all_colors":["Red"]},
		"colorKeywords":["stale"],"productSummary":"stale","vectorRetrieved":false}`
	var it Item
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if it.Embedding != EmbeddingPending {
		t.Errorf("Embedding = %v, want pending", it.Embedding)
	}
	if got := it.ColorKeywords(); !reflect.DeepEqual(got, []string{"Red"}) {
		t.Errorf("ColorKeywords() = %v", got)
	}
}

func TestEmbeddingState_JSON(t *testing.T) {
	tests := []struct {
		raw  string
		want EmbeddingState
	}{
		{"null", EmbeddingUnset},
		{"false", EmbeddingPending},
		{"true", EmbeddingRetrieved},
	}
	for _, tt := range tests {
		var s EmbeddingState
		if err := s.UnmarshalJSON([]byte(tt.raw)); err != nil {
			t.Fatalf("UnmarshalJSON(%s): %v", tt.raw, err)
		}
		if s != tt.want {
			t.Errorf("UnmarshalJSON(%s) = %v, want %v", tt.raw, s, tt.want)
		}
		out, _ := s.MarshalJSON()
		if string(out) != tt.raw {
			t.Errorf("MarshalJSON(%v) = %s, want %s", s, out, tt.raw)
		}
	}

	var s EmbeddingState
	if err := s.UnmarshalJSON([]byte(`"yes"`)); err == nil {
		t.Error("expected error for non-boolean value")
	}
}

func TestEmbeddingState_Eligible(t *testing.T) {
	if !EmbeddingUnset.Eligible() || !EmbeddingPending.Eligible() {
		t.Error("unset and pending must be eligible")
	}
	if EmbeddingRetrieved.Eligible() {
		t.Error("retrieved must not be eligible")
	}
}

func TestPriceStrategies(t *testing.T) {
	if got := FixedPrice(499).Price(nil); got != 499 {
		t.Errorf("FixedPrice = %v", got)
	}

	a := NewRandomPrice(42, 3000)
	b := NewRandomPrice(42, 3000)
	for i := 0; i < 5; i++ {
		pa, pb := a.Price(nil), b.Price(nil)
		if pa != pb {
			t.Fatalf("same seed diverged: %v != %v", pa, pb)
		}
		if pa < 0 || pa > 3000 {
			t.Fatalf("price %v out of range", pa)
		}
	}
}
