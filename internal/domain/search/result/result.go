package result

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/furnimatch/internal/domain/catalog"
)

// Hit is a single raw hit returned by the search service.
type Hit struct {
	id            string
	score         float64
	rerankerScore *float64
	document      json.RawMessage
}

// NewHit creates a hit. rerankerScore is nil when the hit could not be reranked.
func NewHit(id string, score float64, rerankerScore *float64, document json.RawMessage) Hit {
	return Hit{id: id, score: score, rerankerScore: rerankerScore, document: document}
}

// ID returns the document identifier.
func (h *Hit) ID() string { return h.id }

// Score returns the fused similarity score.
func (h *Hit) Score() float64 { return h.score }

// RerankerScore returns the semantic rerank score, or nil.
func (h *Hit) RerankerScore() *float64 { return h.rerankerScore }

// Document returns the stored JSON document.
func (h *Hit) Document() json.RawMessage { return h.document }

// Product is the catalog projection returned to callers.
type Product struct {
	ID          string              `json:"id"`
	SKU         string              `json:"sku"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       float64             `json:"price"`
	Category    string              `json:"category"`
	Subcategory string              `json:"subcategory"`
	TopCategory string              `json:"topCategory"`
	Style       []string            `json:"style"`
	Colors      catalog.Colors      `json:"colors"`
	Materials   []string            `json:"materials"`
	RoomTypes   []string            `json:"room_types"`
	Features    []string            `json:"features"`
	Tags        []string            `json:"tags"`
	Attributes  []catalog.Attribute `json:"attributes"`
	Assets      []catalog.Asset     `json:"assets"`
}

// DecodeProduct maps a stored document onto the projection. Missing
// collections become empty slices.
func DecodeProduct(doc json.RawMessage) (Product, error) {
	var p Product
	if err := json.Unmarshal(doc, &p); err != nil {
		return Product{}, fmt.Errorf("decode product: %w", err)
	}
	p.Style = orEmpty(p.Style)
	p.Materials = orEmpty(p.Materials)
	p.RoomTypes = orEmpty(p.RoomTypes)
	p.Features = orEmpty(p.Features)
	p.Tags = orEmpty(p.Tags)
	p.Colors.AllColors = orEmpty(p.Colors.AllColors)
	if p.Attributes == nil {
		p.Attributes = []catalog.Attribute{}
	}
	for i := range p.Attributes {
		p.Attributes[i].Values = orEmpty(p.Attributes[i].Values)
	}
	if p.Assets == nil {
		p.Assets = []catalog.Asset{}
	}
	return p, nil
}

// HasAssets reports whether the product carries at least one asset.
func (p *Product) HasAssets() bool { return len(p.Assets) > 0 }

// Ranked is an admitted hit with its projection.
type Ranked struct {
	RerankerScore float64 `json:"rerankerScore"`
	Score         float64 `json:"score"`
	Product       Product `json:"product"`
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
