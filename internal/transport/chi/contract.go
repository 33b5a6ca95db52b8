package chi

import (
	"context"

	"github.com/kailas-cloud/furnimatch/internal/domain/batch"
	"github.com/kailas-cloud/furnimatch/internal/domain/catalog"
	domidx "github.com/kailas-cloud/furnimatch/internal/domain/index"
	healthuc "github.com/kailas-cloud/furnimatch/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/furnimatch/internal/usecase/recommend"
)

// Recommender answers recommendation requests.
type Recommender interface {
	Recommend(ctx context.Context, req recommenduc.Request) (recommenduc.Response, error)
}

// Provisioner (re)creates and describes the catalog index.
type Provisioner interface {
	Provision(ctx context.Context) error
	Describe(ctx context.Context) (domidx.Definition, error)
	Definition() domidx.Definition
}

// Ingester merges catalog items, falling back to the seed file for an empty batch.
type Ingester interface {
	Ingest(ctx context.Context, items []catalog.Item) ([]batch.Result, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
