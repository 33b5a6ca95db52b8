// Package backfill computes missing product embeddings.
//
// Each run lists up to BatchSize items whose vectorRetrieved flag is not true,
// embeds their summaries concurrently, and merges the successful ones back in a
// single write. Items that fail to embed keep their flag and are retried by the
// next run.
package backfill

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/furnimatch/internal/domain"
	"github.com/kailas-cloud/furnimatch/internal/domain/batch"
	"github.com/kailas-cloud/furnimatch/internal/domain/catalog"
	"github.com/kailas-cloud/furnimatch/internal/metrics"
)

// Defaults.
const (
	DefaultBatchSize = 20
	DefaultWorkers   = 8
)

// Options tunes a backfill run. A zero LockTTL disables the run lock.
type Options struct {
	BatchSize int
	Workers   int
	LockKey   string
	LockTTL   time.Duration
}

// Report summarizes one run.
type Report struct {
	Pending  int
	Embedded int
	Failed   int
	Merged   int
	Results  []batch.Result
}

// Service runs the embedding backfill.
type Service struct {
	catalog  Catalog
	embedder domain.Embedder
	locker   Locker
	opts     Options
	pool     *ants.Pool
	logger   *zap.Logger
}

// New creates a backfill service with its worker pool. Call Release when done.
func New(cat Catalog, embedder domain.Embedder, opts Options, logger *zap.Logger) (*Service, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	pool, err := ants.NewPool(opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("create embedding pool: %w", err)
	}
	return &Service{
		catalog:  cat,
		embedder: embedder,
		opts:     opts,
		pool:     pool,
		logger:   logger,
	}, nil
}

// WithLocker enables the run lock when Options.LockTTL is positive.
func (s *Service) WithLocker(l Locker) *Service {
	s.locker = l
	return s
}

// Release stops the worker pool.
func (s *Service) Release() {
	s.pool.Release()
}

// Run executes one backfill pass. With the lock enabled and held elsewhere it
// returns domain.ErrLocked without doing any work.
func (s *Service) Run(ctx context.Context) (Report, error) {
	start := time.Now()

	unlock, err := s.acquire(ctx)
	if err != nil {
		status := "error"
		if errors.Is(err, domain.ErrLocked) {
			status = "locked"
		}
		metrics.BackfillRunsTotal.WithLabelValues(status).Inc()
		return Report{}, err
	}
	defer unlock()

	rep, err := s.run(ctx)
	if err != nil {
		metrics.BackfillRunsTotal.WithLabelValues("error").Inc()
		return rep, err
	}
	metrics.BackfillRunsTotal.WithLabelValues("ok").Inc()
	metrics.BackfillDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("backfill run finished",
		zap.Int("pending", rep.Pending),
		zap.Int("embedded", rep.Embedded),
		zap.Int("failed", rep.Failed),
		zap.Int("merged", rep.Merged),
		zap.Duration("duration", time.Since(start)),
	)
	return rep, nil
}

func (s *Service) run(ctx context.Context) (Report, error) {
	items, err := s.catalog.ListPending(ctx, s.opts.BatchSize)
	if err != nil {
		return Report{}, fmt.Errorf("list pending items: %w", err)
	}
	rep := Report{Pending: len(items)}
	if len(items) == 0 {
		return rep, nil
	}

	ready := s.embedAll(ctx, items)
	rep.Embedded = len(ready)
	rep.Failed = len(items) - len(ready)
	metrics.BackfillItemsTotal.WithLabelValues("embedded").Add(float64(rep.Embedded))
	metrics.BackfillItemsTotal.WithLabelValues("failed").Add(float64(rep.Failed))
	if len(ready) == 0 {
		return rep, nil
	}

	if err := ctx.Err(); err != nil {
		return rep, fmt.Errorf("backfill cancelled before merge: %w", err)
	}
	// An issued write runs to completion even if the run is cancelled meanwhile.
	results, err := s.catalog.MergeOrUpload(context.WithoutCancel(ctx), ready)
	if err != nil {
		return rep, fmt.Errorf("merge embedded items: %w", err)
	}
	for _, r := range batch.Failed(results) {
		s.logger.Warn("failed to update document", zap.String("id", r.ID()), zap.Error(r.Err()))
	}
	rep.Results = results
	rep.Merged = batch.Succeeded(results)
	return rep, nil
}

// embedAll embeds every item on the pool and returns the successful ones with
// their vector set and flag retrieved, in input order.
func (s *Service) embedAll(ctx context.Context, items []catalog.Item) []catalog.Item {
	vectors := make([][]float32, len(items))
	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		item := &items[i]
		task := func() {
			defer wg.Done()
			res, err := s.embedder.Embed(ctx, item.Summary())
			if err != nil {
				s.logger.Warn("embedding failed, item left pending",
					zap.String("id", item.ID),
					zap.Error(err),
				)
				return
			}
			vectors[i] = res.Embedding
		}
		if err := s.pool.Submit(task); err != nil {
			wg.Done()
			s.logger.Warn("embedding task rejected", zap.String("id", item.ID), zap.Error(err))
		}
	}
	wg.Wait()

	ready := make([]catalog.Item, 0, len(items))
	for i := range items {
		if vectors[i] == nil {
			continue
		}
		it := items[i]
		it.Vector = vectors[i]
		it.Embedding = catalog.EmbeddingRetrieved
		ready = append(ready, it)
	}
	return ready
}

func (s *Service) acquire(ctx context.Context) (func(), error) {
	if s.locker == nil || s.opts.LockTTL <= 0 {
		return func() {}, nil
	}
	token := []byte(uuid.NewString())
	ok, err := s.locker.SetNX(ctx, s.opts.LockKey, token, s.opts.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("key %s: %w", s.opts.LockKey, domain.ErrLocked)
	}
	return func() {
		if _, err := s.locker.DelIfEqual(context.WithoutCancel(ctx), s.opts.LockKey, token); err != nil {
			s.logger.Warn("release run lock", zap.Error(err))
		}
	}, nil
}

// RunEvery runs immediately and then once per interval until ctx is done.
// Run errors are logged and do not stop the loop.
func (s *Service) RunEvery(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.Run(ctx); err != nil {
			if errors.Is(err, domain.ErrLocked) {
				s.logger.Info("backfill skipped, another run holds the lock")
			} else if ctx.Err() == nil {
				s.logger.Error("backfill run failed", zap.Error(err))
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
