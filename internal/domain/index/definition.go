// Package index declares the catalog search index: field schema, synonym maps,
// semantic ranking configuration and vector search configuration.
package index

import (
	"fmt"

	"github.com/kailas-cloud/furnimatch/internal/domain"
)

// Kind is the indexing kind of a field.
type Kind string

// Field kinds.
const (
	KindKey     Kind = "key"
	KindText    Kind = "text"
	KindTag     Kind = "tag"
	KindNumeric Kind = "numeric"
	KindBool    Kind = "bool"
	KindVector  Kind = "vector"
	KindComplex Kind = "complex"
)

// Field is one declared index field. Complex fields hold sub-fields.
type Field struct {
	Name          string   `json:"name"`
	Kind          Kind     `json:"kind"`
	Collection    bool     `json:"collection,omitempty"`
	Searchable    bool     `json:"searchable,omitempty"`
	Filterable    bool     `json:"filterable,omitempty"`
	Facetable     bool     `json:"facetable,omitempty"`
	Sortable      bool     `json:"sortable,omitempty"`
	SynonymMaps   []string `json:"synonymMaps,omitempty"`
	Dimensions    int      `json:"dimensions,omitempty"`
	VectorProfile string   `json:"vectorProfile,omitempty"`
	Fields        []Field  `json:"fields,omitempty"`
}

// LeafField is a non-complex field with its document path and flat index alias.
type LeafField struct {
	Field
	Path  string
	Alias string
}

// RankingOrder selects how semantic results are ordered.
type RankingOrder string

// Ranking orders.
const (
	RankingOrderReranker        RankingOrder = "RerankerScore"
	RankingOrderBoostedReranker RankingOrder = "BoostedRerankerScore"
)

// SemanticConfig names the fields the semantic reranker reads.
type SemanticConfig struct {
	Name          string       `json:"name"`
	TitleField    string       `json:"titleField"`
	ContentFields []string     `json:"contentFields"`
	KeywordFields []string     `json:"keywordFields"`
	RankingOrder  RankingOrder `json:"rankingOrder"`
}

// Semantic holds the semantic configurations of an index.
type Semantic struct {
	Default string           `json:"defaultConfiguration"`
	Configs []SemanticConfig `json:"configurations"`
}

// HNSW is an approximate nearest neighbour algorithm profile.
type HNSW struct {
	Name           string `json:"name"`
	Metric         string `json:"metric"`
	M              int    `json:"m"`
	EFConstruction int    `json:"efConstruction"`
	EFSearch       int    `json:"efSearch"`
}

// VectorProfile binds an algorithm to a vectorizer.
type VectorProfile struct {
	Name       string `json:"name"`
	Algorithm  string `json:"algorithm"`
	Vectorizer string `json:"vectorizer"`
}

// Vectorizer identifies the external embedding deployment that vectorizes queries.
type Vectorizer struct {
	Name       string `json:"name"`
	Endpoint   string `json:"endpoint"`
	Model      string `json:"model"`
	Deployment string `json:"deployment"`
}

// VectorSearch is the vector configuration of an index.
type VectorSearch struct {
	Algorithms  []HNSW          `json:"algorithms"`
	Profiles    []VectorProfile `json:"profiles"`
	Vectorizers []Vectorizer    `json:"vectorizers"`
}

// Definition is a complete index declaration.
type Definition struct {
	Name        string       `json:"name"`
	KeyPrefix   string       `json:"keyPrefix"`
	Fields      []Field      `json:"fields"`
	SynonymMaps []SynonymMap `json:"synonymMaps"`
	Semantic    Semantic     `json:"semantic"`
	Vector      VectorSearch `json:"vectorSearch"`
}

// Leaves flattens complex fields. Paths are JSON paths; collections end in [*];
// sub-field aliases join parent and child names with "_".
func (d *Definition) Leaves() []LeafField {
	var out []LeafField
	var walk func(fields []Field, pathPrefix, aliasPrefix string)
	walk = func(fields []Field, pathPrefix, aliasPrefix string) {
		for _, f := range fields {
			path := pathPrefix + "." + f.Name
			alias := aliasPrefix + f.Name
			if f.Kind == KindComplex {
				walk(f.Fields, path, alias+"_")
				continue
			}
			if f.Collection {
				path += "[*]"
			}
			out = append(out, LeafField{Field: f, Path: path, Alias: alias})
		}
	}
	walk(d.Fields, "$", "")
	return out
}

// SemanticConfig looks up a semantic configuration; "" selects the default.
func (d *Definition) SemanticConfig(name string) (SemanticConfig, error) {
	if name == "" {
		name = d.Semantic.Default
	}
	for _, c := range d.Semantic.Configs {
		if c.Name == name {
			return c, nil
		}
	}
	return SemanticConfig{}, fmt.Errorf("%q: %w", name, domain.ErrUnknownSemanticConfig)
}

// VectorLeaf returns the vector field and its algorithm and vectorizer.
func (d *Definition) VectorLeaf() (LeafField, HNSW, Vectorizer, error) {
	for _, lf := range d.Leaves() {
		if lf.Kind != KindVector {
			continue
		}
		algo, vec, err := d.resolveProfile(lf.VectorProfile)
		if err != nil {
			return LeafField{}, HNSW{}, Vectorizer{}, err
		}
		return lf, algo, vec, nil
	}
	return LeafField{}, HNSW{}, Vectorizer{}, fmt.Errorf("no vector field: %w", domain.ErrInvalidSchema)
}

func (d *Definition) resolveProfile(name string) (HNSW, Vectorizer, error) {
	for _, p := range d.Vector.Profiles {
		if p.Name != name {
			continue
		}
		var (
			algo     HNSW
			vec      Vectorizer
			algoOK   bool
			vectorOK bool
		)
		for _, a := range d.Vector.Algorithms {
			if a.Name == p.Algorithm {
				algo, algoOK = a, true
			}
		}
		for _, v := range d.Vector.Vectorizers {
			if v.Name == p.Vectorizer {
				vec, vectorOK = v, true
			}
		}
		if !algoOK || !vectorOK {
			return HNSW{}, Vectorizer{}, fmt.Errorf("vector profile %q has dangling references: %w",
				name, domain.ErrInvalidSchema)
		}
		return algo, vec, nil
	}
	return HNSW{}, Vectorizer{}, fmt.Errorf("unknown vector profile %q: %w", name, domain.ErrInvalidSchema)
}

// Validate checks field uniqueness, key presence and cross references.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("index name is required: %w", domain.ErrInvalidSchema)
	}
	seen := map[string]bool{}
	keys := 0
	synonyms := map[string]bool{}
	for _, m := range d.SynonymMaps {
		synonyms[m.Name] = true
	}
	for _, lf := range d.Leaves() {
		if seen[lf.Alias] {
			return fmt.Errorf("duplicate field %q: %w", lf.Alias, domain.ErrInvalidSchema)
		}
		seen[lf.Alias] = true
		if lf.Kind == KindKey {
			keys++
		}
		if lf.Kind == KindVector && lf.Dimensions <= 0 {
			return fmt.Errorf("vector field %q needs dimensions: %w", lf.Alias, domain.ErrInvalidSchema)
		}
		for _, sm := range lf.SynonymMaps {
			if !synonyms[sm] {
				return fmt.Errorf("field %q references unknown synonym map %q: %w",
					lf.Alias, sm, domain.ErrInvalidSchema)
			}
		}
	}
	if keys != 1 {
		return fmt.Errorf("exactly one key field required, got %d: %w", keys, domain.ErrInvalidSchema)
	}
	for _, c := range d.Semantic.Configs {
		for _, f := range append(append([]string{c.TitleField}, c.ContentFields...), c.KeywordFields...) {
			if !seen[f] {
				return fmt.Errorf("semantic config %q references unknown field %q: %w",
					c.Name, f, domain.ErrInvalidSchema)
			}
		}
	}
	if _, err := d.SemanticConfig(""); len(d.Semantic.Configs) > 0 && err != nil {
		return fmt.Errorf("default semantic configuration: %w", domain.ErrInvalidSchema)
	}
	if _, _, _, err := d.VectorLeaf(); err != nil {
		return err
	}
	return nil
}
