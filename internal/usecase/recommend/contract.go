package recommend

import (
	"context"

	"github.com/kailas-cloud/furnimatch/internal/domain/search/query"
	"github.com/kailas-cloud/furnimatch/internal/domain/search/result"
)

// Searcher runs a catalog search and returns raw service hits.
type Searcher interface {
	Search(ctx context.Context, q query.SearchQuery) ([]result.Hit, error)
}
