package index

import "github.com/kailas-cloud/furnimatch/internal/domain"

// Names used by the product index declaration.
const (
	DefaultSemanticConfig = "default"
	VectorAlgorithmName   = "product-summary-vector-config"
	VectorProfileName     = "product-summary-vector-profile"
	VectorizerName        = "product-summary-vectorizer"
	VectorFieldName       = "productSummaryVector"
)

// HNSW parameters of the product vector field.
const (
	HNSWMetric         = "cosine"
	HNSWM              = 4
	HNSWEFConstruction = 400
	HNSWEFSearch       = 500
)

// ProductOptions parameterizes the product index.
type ProductOptions struct {
	Name       string
	Dimensions int
	Vectorizer Vectorizer
}

// Products declares the catalog index.
func Products(opts ProductOptions) Definition {
	searchable := func(name string) Field {
		return Field{Name: name, Kind: KindText, Searchable: true}
	}
	facet := func(name string, kind Kind) Field {
		return Field{Name: name, Kind: kind, Filterable: true, Facetable: true, Sortable: kind == KindNumeric || kind == KindTag}
	}
	facetList := func(name string) Field {
		return Field{Name: name, Kind: KindTag, Collection: true, Filterable: true, Facetable: true}
	}

	vectorizer := opts.Vectorizer
	vectorizer.Name = VectorizerName

	return Definition{
		Name:      opts.Name,
		KeyPrefix: domain.ProductKeyPrefix,
		Fields: []Field{
			{Name: "id", Kind: KindKey, Filterable: true},
			searchable("sku"),
			searchable("name"),
			searchable("description"),
			searchable("productSummary"),
			{Name: "vectorRetrieved", Kind: KindBool, Filterable: true},
			{
				Name:          VectorFieldName,
				Kind:          KindVector,
				Searchable:    true,
				Dimensions:    opts.Dimensions,
				VectorProfile: VectorProfileName,
			},
			facet("price", KindNumeric),
			facet("category", KindTag),
			facet("subcategory", KindTag),
			{Name: "topCategory", Kind: KindTag, Filterable: true},
			facetList("style"),
			{
				Name: "colors",
				Kind: KindComplex,
				Fields: []Field{
					{Name: "primary", Kind: KindTag, Filterable: true, Facetable: true},
					{Name: "secondary", Kind: KindTag, Filterable: true, Facetable: true},
					facetList("all_colors"),
				},
			},
			{
				Name:        "colorKeywords",
				Kind:        KindText,
				Collection:  true,
				Searchable:  true,
				SynonymMaps: []string{ColorSynonymMapName},
			},
			facetList("materials"),
			facetList("room_types"),
			facetList("features"),
			facetList("tags"),
		},
		SynonymMaps: []SynonymMap{ColorSynonyms()},
		Semantic: Semantic{
			Default: DefaultSemanticConfig,
			Configs: []SemanticConfig{{
				Name:          DefaultSemanticConfig,
				TitleField:    "name",
				ContentFields: []string{"productSummary"},
				KeywordFields: []string{
					"style", "room_types", "materials", "colorKeywords",
					"tags", "features", "category", "subcategory",
				},
				RankingOrder: RankingOrderBoostedReranker,
			}},
		},
		Vector: VectorSearch{
			Algorithms: []HNSW{{
				Name:           VectorAlgorithmName,
				Metric:         HNSWMetric,
				M:              HNSWM,
				EFConstruction: HNSWEFConstruction,
				EFSearch:       HNSWEFSearch,
			}},
			Profiles: []VectorProfile{{
				Name:       VectorProfileName,
				Algorithm:  VectorAlgorithmName,
				Vectorizer: VectorizerName,
			}},
			Vectorizers: []Vectorizer{vectorizer},
		},
	}
}
