// Package ingest merges catalog items into the product index.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/furnimatch/internal/domain/batch"
	"github.com/kailas-cloud/furnimatch/internal/domain/catalog"
	"github.com/kailas-cloud/furnimatch/internal/metrics"
)

// DefaultSeedFile is the catalog loaded when an ingest call carries no items.
const DefaultSeedFile = "sample data/sample_furniture_data.json"

// Sources label catalog writes in logs and metrics.
const (
	SourceIngest   = "ingest"
	SourceGenerate = "generate"
)

// Options configures normalisation and the seed fallback.
type Options struct {
	SeedFile    string
	TopCategory string
	Price       catalog.PriceStrategy
}

// Service normalises items and writes them through a Writer.
type Service struct {
	writer Writer
	opts   Options
	newID  func() string
	logger *zap.Logger
}

// New creates an ingest service.
func New(writer Writer, opts Options, logger *zap.Logger) *Service {
	if opts.SeedFile == "" {
		opts.SeedFile = DefaultSeedFile
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		writer: writer,
		opts:   opts,
		newID:  uuid.NewString,
		logger: logger,
	}
}

// Ingest merges items, or the seed file when items is empty. A missing seed
// file ingests nothing.
func (s *Service) Ingest(ctx context.Context, items []catalog.Item) ([]batch.Result, error) {
	if len(items) == 0 {
		seeded, err := LoadSeed(s.opts.SeedFile)
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("no items provided and seed file not found", zap.String("seed_file", s.opts.SeedFile))
			return []batch.Result{}, nil
		}
		if err != nil {
			return nil, err
		}
		s.logger.Info("ingesting seed catalog", zap.String("seed_file", s.opts.SeedFile), zap.Int("items", len(seeded)))
		items = seeded
	}
	return s.Merge(ctx, SourceIngest, items)
}

// Merge normalises and writes items. Per-item failures are logged and
// reported; only a failure of the write call itself is returned as an error.
func (s *Service) Merge(ctx context.Context, source string, items []catalog.Item) ([]batch.Result, error) {
	if len(items) == 0 {
		return []batch.Result{}, nil
	}
	s.Normalize(items)

	results, err := s.writer.MergeOrUpload(ctx, items)
	if err != nil {
		metrics.CatalogWritesTotal.WithLabelValues(source, "error").Add(float64(len(items)))
		return nil, fmt.Errorf("merge %d items: %w", len(items), err)
	}

	for _, r := range batch.Failed(results) {
		s.logger.Warn("failed to update document",
			zap.String("source", source),
			zap.String("id", r.ID()),
			zap.Error(r.Err()),
		)
	}
	ok := batch.Succeeded(results)
	metrics.CatalogWritesTotal.WithLabelValues(source, "ok").Add(float64(ok))
	metrics.CatalogWritesTotal.WithLabelValues(source, "error").Add(float64(len(results) - ok))
	s.logger.Info("catalog items merged",
		zap.String("source", source),
		zap.Int("succeeded", ok),
		zap.Int("total", len(items)),
	)
	return results, nil
}

// Normalize fills blank ids, missing prices and a blank top-level category in place.
// Items arriving without a vector are marked pending so a merge over an
// already embedded document queues it for re-embedding.
func (s *Service) Normalize(items []catalog.Item) {
	for i := range items {
		it := &items[i]
		if strings.TrimSpace(it.ID) == "" {
			it.ID = s.newID()
		}
		if !it.HasPrice() && s.opts.Price != nil {
			it.Price = s.opts.Price.Price(it)
		}
		if strings.TrimSpace(it.TopCategory) == "" {
			it.TopCategory = s.opts.TopCategory
		}
		if len(it.Vector) == 0 {
			it.Embedding = catalog.EmbeddingPending
		}
	}
}

// LoadSeed reads a JSON array of catalog items.
func LoadSeed(path string) ([]catalog.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var items []catalog.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return items, nil
}
