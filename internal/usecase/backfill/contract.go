package backfill

import (
	"context"
	"time"

	"github.com/kailas-cloud/furnimatch/internal/domain/batch"
	"github.com/kailas-cloud/furnimatch/internal/domain/catalog"
)

// Catalog lists items lacking an embedding and writes them back.
type Catalog interface {
	ListPending(ctx context.Context, limit int) ([]catalog.Item, error)
	MergeOrUpload(ctx context.Context, items []catalog.Item) ([]batch.Result, error)
}

// Locker fences overlapping runs.
type Locker interface {
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	DelIfEqual(ctx context.Context, key string, value []byte) (bool, error)
}
