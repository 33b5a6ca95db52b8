package generate

import (
	"context"

	"github.com/kailas-cloud/furnimatch/internal/domain/batch"
	"github.com/kailas-cloud/furnimatch/internal/domain/catalog"
)

// Generator produces new synthetic catalog items.
type Generator interface {
	Generate(ctx context.Context, count int) ([]catalog.Item, error)
}

// Merger normalises and writes items into the index.
type Merger interface {
	Merge(ctx context.Context, source string, items []catalog.Item) ([]batch.Result, error)
}
