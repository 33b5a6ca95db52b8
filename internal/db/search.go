package db

import "github.com/kailas-cloud/furnimatch/internal/domain/search/filter"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	VectorField  string
	Filter       filter.Expression
	Vector       []float32
	K            int
	EFRuntime    int
	ReturnFields []string
}

// TextQuery is the input for full-text search. Terms are OR-ed.
type TextQuery struct {
	IndexName    string
	Terms        []string
	Filter       filter.Expression
	TopK         int
	ReturnFields []string
}

// ListQuery is a filter-only query with paging.
type ListQuery struct {
	IndexName    string
	Query        string
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// ReturnDocument requests the whole JSON document of each hit under the "$" field.
const ReturnDocument = "$"
