package index

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/furnimatch/internal/domain"
)

func testDefinition() Definition {
	return Products(ProductOptions{
		Name:       "products",
		Dimensions: 1536,
		Vectorizer: Vectorizer{Endpoint: "https://example.openai.azure.com", Model: "text-embedding-3-small", Deployment: "emb"},
	})
}

func TestProducts_Valid(t *testing.T) {
	d := testDefinition()
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestColorSynonyms(t *testing.T) {
	m := ColorSynonyms()
	if len(m.Groups) != 17 {
		t.Fatalf("groups = %d, want 17", len(m.Groups))
	}
	if got := m.Lines()[0]; got != "white, ivory, alabaster, off-white, cream" {
		t.Errorf("first line = %q", got)
	}
	if m.Name != "color-synonym-map" {
		t.Errorf("Name = %q", m.Name)
	}
}

func TestLeaves_FlattensComplexAndCollections(t *testing.T) {
	d := testDefinition()
	byAlias := map[string]LeafField{}
	for _, lf := range d.Leaves() {
		byAlias[lf.Alias] = lf
	}

	tests := []struct {
		alias string
		path  string
		kind  Kind
	}{
		{"id", "$.id", KindKey},
		{"colors_primary", "$.colors.primary", KindTag},
		{"colors_all_colors", "$.colors.all_colors[*]", KindTag},
		{"style", "$.style[*]", KindTag},
		{"colorKeywords", "$.colorKeywords[*]", KindText},
		{"price", "$.price", KindNumeric},
		{"productSummaryVector", "$.productSummaryVector", KindVector},
	}
	for _, tt := range tests {
		lf, ok := byAlias[tt.alias]
		if !ok {
			t.Errorf("missing leaf %q", tt.alias)
			continue
		}
		if lf.Path != tt.path || lf.Kind != tt.kind {
			t.Errorf("%s: path=%q kind=%q, want %q %q", tt.alias, lf.Path, lf.Kind, tt.path, tt.kind)
		}
	}
	if _, ok := byAlias["colors"]; ok {
		t.Error("complex parent must not be a leaf")
	}
	if got := byAlias["colorKeywords"].SynonymMaps; len(got) != 1 || got[0] != ColorSynonymMapName {
		t.Errorf("colorKeywords synonym maps = %v", got)
	}
}

func TestSemanticConfig(t *testing.T) {
	d := testDefinition()
	c, err := d.SemanticConfig("")
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if c.TitleField != "name" || c.ContentFields[0] != "productSummary" {
		t.Errorf("unexpected config %+v", c)
	}
	want := []string{"style", "room_types", "materials", "colorKeywords", "tags", "features", "category", "subcategory"}
	for i, f := range want {
		if c.KeywordFields[i] != f {
			t.Errorf("keyword[%d] = %q, want %q", i, c.KeywordFields[i], f)
		}
	}
	if c.RankingOrder != RankingOrderBoostedReranker {
		t.Errorf("RankingOrder = %q", c.RankingOrder)
	}
	if _, err := d.SemanticConfig("missing"); !errors.Is(err, domain.ErrUnknownSemanticConfig) {
		t.Errorf("expected ErrUnknownSemanticConfig, got %v", err)
	}
}

func TestVectorLeaf(t *testing.T) {
	d := testDefinition()
	lf, algo, vec, err := d.VectorLeaf()
	if err != nil {
		t.Fatalf("VectorLeaf: %v", err)
	}
	if lf.Dimensions != 1536 {
		t.Errorf("Dimensions = %d", lf.Dimensions)
	}
	if algo.M != 4 || algo.EFConstruction != 400 || algo.EFSearch != 500 || algo.Metric != "cosine" {
		t.Errorf("unexpected algorithm %+v", algo)
	}
	if vec.Name != VectorizerName || vec.Deployment != "emb" {
		t.Errorf("unexpected vectorizer %+v", vec)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Definition)
	}{
		{"no name", func(d *Definition) { d.Name = "" }},
		{"zero dims", func(d *Definition) { d.Fields[6].Dimensions = 0 }},
		{"duplicate field", func(d *Definition) { d.Fields = append(d.Fields, Field{Name: "sku", Kind: KindText}) }},
		{"no key", func(d *Definition) { d.Fields[0].Kind = KindTag }},
		{"unknown synonym map", func(d *Definition) { d.SynonymMaps = nil }},
		{"dangling profile", func(d *Definition) { d.Vector.Vectorizers = nil }},
		{"semantic unknown field", func(d *Definition) { d.Semantic.Configs[0].TitleField = "title" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDefinition()
			tt.mutate(&d)
			if err := d.Validate(); !errors.Is(err, domain.ErrInvalidSchema) {
				t.Errorf("expected ErrInvalidSchema, got %v", err)
			}
		})
	}
}
