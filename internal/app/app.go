// Package app is the composition root shared by the API server and the operator CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/furnimatch/internal/config"
	dbRedis "github.com/kailas-cloud/furnimatch/internal/db/redis"
	"github.com/kailas-cloud/furnimatch/internal/domain"
	"github.com/kailas-cloud/furnimatch/internal/domain/catalog"
	domidx "github.com/kailas-cloud/furnimatch/internal/domain/index"
	"github.com/kailas-cloud/furnimatch/internal/domain/search/filter"
	"github.com/kailas-cloud/furnimatch/internal/domain/search/query"
	"github.com/kailas-cloud/furnimatch/internal/domain/search/ranking"
	"github.com/kailas-cloud/furnimatch/internal/metrics"
	catalogrepo "github.com/kailas-cloud/furnimatch/internal/repository/catalog"
	"github.com/kailas-cloud/furnimatch/internal/repository/embcache"
	indexrepo "github.com/kailas-cloud/furnimatch/internal/repository/index"
	searchrepo "github.com/kailas-cloud/furnimatch/internal/repository/search"
	openaiTransport "github.com/kailas-cloud/furnimatch/internal/transport/openai"
	backfilluc "github.com/kailas-cloud/furnimatch/internal/usecase/backfill"
	embeddinguc "github.com/kailas-cloud/furnimatch/internal/usecase/embedding"
	generateuc "github.com/kailas-cloud/furnimatch/internal/usecase/generate"
	healthuc "github.com/kailas-cloud/furnimatch/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/furnimatch/internal/usecase/ingest"
	provisionuc "github.com/kailas-cloud/furnimatch/internal/usecase/provision"
	recommenduc "github.com/kailas-cloud/furnimatch/internal/usecase/recommend"
)

// App holds the wired services. Close releases the store and the backfill pool.
type App struct {
	Config    config.Config
	Store     *dbRedis.Store
	Index     domidx.Definition
	Provision *provisionuc.Service
	Ingest    *ingestuc.Service
	Recommend *recommenduc.Service
	Backfill  *backfilluc.Service
	Generate  *generateuc.Service
	Health    *healthuc.Service
}

// New connects to Redis, waits for it, registers metrics and builds every service.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("redis not ready: %w", err)
	}
	logger.Info("Connected to database", zap.Strings("db_addrs", cfg.Database.Addrs))

	metrics.Register()

	a, err := build(cfg, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

func build(cfg config.Config, store *dbRedis.Store, logger *zap.Logger) (*App, error) {
	docEmbedder, queryEmbedder := buildEmbedders(cfg, store, logger)

	def := domidx.Products(domidx.ProductOptions{
		Name:       cfg.Index.Name,
		Dimensions: cfg.Embedding.Dimensions,
		Vectorizer: domidx.Vectorizer{
			Endpoint:   cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Deployment: cfg.Embedding.Deployment,
		},
	})

	recommend, err := buildRecommend(cfg, store, &def, queryEmbedder)
	if err != nil {
		return nil, err
	}

	catalogRepo := catalogrepo.New(store, def.Name)
	ingest := ingestuc.New(catalogRepo, ingestuc.Options{
		SeedFile:    cfg.Catalog.SeedFile,
		TopCategory: cfg.Catalog.TopCategory,
		Price:       priceStrategy(cfg.Catalog),
	}, logger)

	backfill, err := backfilluc.New(catalogRepo, docEmbedder, backfilluc.Options{
		BatchSize: cfg.Jobs.Backfill.BatchSize,
		Workers:   cfg.Jobs.Backfill.Workers,
		LockKey:   domain.BackfillLockKey(def.Name),
		LockTTL:   time.Duration(cfg.Jobs.Backfill.LockTTLSec) * time.Second,
	}, logger)
	if err != nil {
		return nil, err
	}
	backfill.WithLocker(store)

	generator := openaiTransport.NewGenerator(providerConfig(cfg.Generation.ProviderConfig, logger))

	return &App{
		Config:    cfg,
		Store:     store,
		Index:     def,
		Provision: provisionuc.New(indexrepo.New(store), def),
		Ingest:    ingest,
		Recommend: recommend,
		Backfill:  backfill,
		Generate:  generateuc.New(generator, ingest, cfg.Jobs.Generate.Count, logger),
		Health:    healthuc.New(store, docEmbedder).WithIndex(store, def.Name),
	}, nil
}

// Close releases the backfill pool and the Redis connection.
func (a *App) Close() {
	a.Backfill.Release()
	a.Store.Close()
}

// buildEmbedders assembles two decorator chains over one provider client:
// OpenAI -> DimensionGuard -> Instrumented(document) for the backfill, and
// OpenAI -> DimensionGuard -> Cached -> Instrumented(query) for search.
func buildEmbedders(
	cfg config.Config, store *dbRedis.Store, logger *zap.Logger,
) (doc, qry *embeddinguc.InstrumentedEmbedder) {
	pc := providerConfig(cfg.Embedding.ProviderConfig, logger)
	pc.Dimensions = cfg.Embedding.Dimensions
	pc.User = cfg.Embedding.User

	var base domain.Embedder = domain.NewDimensionGuard(openaiTransport.NewEmbedder(pc), cfg.Embedding.Dimensions)
	provider, model := cfg.Embedding.Provider, cfg.Embedding.Model

	doc = embeddinguc.NewInstrumentedEmbedder(base, provider, model, embeddinguc.PurposeDocument, logger)

	queryBase := base
	if cfg.Embedding.CacheTTLSec > 0 {
		queryBase = embcache.New(base, store, embcache.Options{
			Model:      model,
			Dimensions: cfg.Embedding.Dimensions,
			TTL:        time.Duration(cfg.Embedding.CacheTTLSec) * time.Second,
			Outcomes:   metrics.EmbeddingCacheTotal,
		}, logger)
	}
	qry = embeddinguc.NewInstrumentedEmbedder(queryBase, provider, model, embeddinguc.PurposeQuery, logger)

	logger.Info("Embedders created",
		zap.String("provider", provider),
		zap.String("model", model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("query_cache", cfg.Embedding.CacheTTLSec > 0),
	)
	return doc, qry
}

func buildRecommend(
	cfg config.Config, store *dbRedis.Store, def *domidx.Definition, embedder domain.Embedder,
) (*recommenduc.Service, error) {
	optional, err := filter.Optional(cfg.Search.OptionalFilters)
	if err != nil {
		return nil, fmt.Errorf("search.optional_filters: %w", err)
	}
	cmp, err := ranking.ByName(cfg.Search.Ranking)
	if err != nil {
		return nil, fmt.Errorf("search.ranking: %w", err)
	}
	synth, err := synthesizer(cfg.Search.QueryFragments)
	if err != nil {
		return nil, err
	}
	if _, err := def.SemanticConfig(cfg.Search.SemanticConfig); err != nil {
		return nil, fmt.Errorf("search.semantic_config: %w", err)
	}

	return recommenduc.New(
		searchrepo.New(store, def, embedder),
		filter.NewBuilder(cfg.Catalog.TopCategory, optional...),
		cfg.Search.SemanticConfig,
		recommenduc.WithSynthesizer(synth),
		recommenduc.WithComparator(cmp),
	), nil
}

var knownFragments = map[string]bool{
	query.FragmentFurnitureType: true,
	query.FragmentDescription:   true,
	query.FragmentStyle:         true,
	query.FragmentColor:         true,
	query.FragmentMaterial:      true,
}

func synthesizer(toggles map[string]bool) (*query.Synthesizer, error) {
	opts := make([]query.Option, 0, len(toggles))
	for name, on := range toggles {
		if !knownFragments[name] {
			return nil, fmt.Errorf("search.query_fragments: unknown fragment %q", name)
		}
		opts = append(opts, query.WithFragment(name, on))
	}
	return query.NewSynthesizer(opts...), nil
}

func priceStrategy(c config.CatalogConfig) catalog.PriceStrategy {
	if c.DefaultPrice > 0 {
		return catalog.FixedPrice(c.DefaultPrice)
	}
	seed := c.PriceSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return catalog.NewRandomPrice(seed, c.MaxPrice)
}

func providerConfig(p config.ProviderConfig, logger *zap.Logger) *openaiTransport.Config {
	return &openaiTransport.Config{
		APIKey:     p.APIKey,
		BaseURL:    p.BaseURL,
		Model:      p.Model,
		Provider:   p.Provider,
		APIVersion: p.APIVersion,
		Deployment: p.Deployment,
		Logger:     logger,
	}
}
