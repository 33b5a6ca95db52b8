package ingest

import (
	"context"

	"github.com/kailas-cloud/furnimatch/internal/domain/batch"
	"github.com/kailas-cloud/furnimatch/internal/domain/catalog"
)

// Writer merges catalog items into the index.
type Writer interface {
	MergeOrUpload(ctx context.Context, items []catalog.Item) ([]batch.Result, error)
}
