package provision

import (
	"context"

	domidx "github.com/kailas-cloud/furnimatch/internal/domain/index"
)

// IndexRepository manages index structures in the search backend.
type IndexRepository interface {
	UpsertSynonymMap(ctx context.Context, m domidx.SynonymMap) error
	Drop(ctx context.Context, name string) error
	Create(ctx context.Context, def *domidx.Definition) error
	Get(ctx context.Context, name string) (domidx.Definition, error)
}
