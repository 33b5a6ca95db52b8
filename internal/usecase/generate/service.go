// Package generate fills the catalog with synthetic items.
package generate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/furnimatch/internal/domain/batch"
	"github.com/kailas-cloud/furnimatch/internal/domain/catalog"
	"github.com/kailas-cloud/furnimatch/internal/usecase/ingest"
)

// DefaultCount is the number of items requested per run.
const DefaultCount = 1

// Service asks a generator for items and merges them as backfill-eligible.
type Service struct {
	gen    Generator
	merger Merger
	count  int
	logger *zap.Logger
}

// New creates a generate service requesting count items per run.
func New(gen Generator, merger Merger, count int, logger *zap.Logger) *Service {
	if count <= 0 {
		count = DefaultCount
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gen: gen, merger: merger, count: count, logger: logger}
}

// Run generates one batch. Parse failures of the generated payload are returned.
func (s *Service) Run(ctx context.Context) ([]batch.Result, error) {
	items, err := s.gen.Generate(ctx, s.count)
	if err != nil {
		return nil, fmt.Errorf("generate catalog items: %w", err)
	}
	if len(items) == 0 {
		s.logger.Warn("generator returned no items", zap.Int("requested", s.count))
		return []batch.Result{}, nil
	}
	for i := range items {
		items[i].Embedding = catalog.EmbeddingPending
		items[i].Vector = nil
	}
	return s.merger.Merge(ctx, ingest.SourceGenerate, items)
}
