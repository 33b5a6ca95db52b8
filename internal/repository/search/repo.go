package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/furnimatch/internal/db"
	"github.com/kailas-cloud/furnimatch/internal/domain"
	domidx "github.com/kailas-cloud/furnimatch/internal/domain/index"
	"github.com/kailas-cloud/furnimatch/internal/domain/search/query"
	"github.com/kailas-cloud/furnimatch/internal/domain/search/result"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo runs hybrid semantic search over one index: a full-text leg and a
// vector leg fused with RRF, then reranked against the query embedding.
type Repo struct {
	store    store
	def      *domidx.Definition
	embedder domain.Embedder
}

// New creates a search repository. embedder vectorizes query text the way the
// index's vectorizer vectorized documents.
func New(s store, def *domidx.Definition, embedder domain.Embedder) *Repo {
	return &Repo{store: s, def: def, embedder: embedder}
}

// Search executes q and returns hits ordered by rerank score, then fused score.
// Hits that could not be reranked carry a nil rerank score.
func (r *Repo) Search(ctx context.Context, q query.SearchQuery) ([]result.Hit, error) {
	cfg, err := r.def.SemanticConfig(q.SemanticConfig)
	if err != nil {
		return nil, err
	}
	vecLeaf, algo, _, err := r.def.VectorLeaf()
	if err != nil {
		return nil, err
	}

	size := q.Size
	if size <= 0 {
		size = query.PageSize
	}
	terms := tokenize(q.Text)

	var (
		textRes  *db.SearchResult
		knnRes   *db.SearchResult
		queryVec []float32
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := r.store.SearchText(gctx, &db.TextQuery{
			IndexName:    r.def.Name,
			Terms:        terms,
			Filter:       q.Filter,
			TopK:         size,
			ReturnFields: []string{db.ReturnDocument},
		})
		if err != nil {
			return fmt.Errorf("search text %s: %w", r.def.Name, err)
		}
		textRes = res
		return nil
	})
	if strings.TrimSpace(q.Text) != "" {
		g.Go(func() error {
			emb, err := r.embedder.Embed(gctx, q.Text)
			if err != nil {
				return fmt.Errorf("vectorize query: %w", err)
			}
			res, err := r.store.SearchKNN(gctx, &db.KNNQuery{
				IndexName:    r.def.Name,
				VectorField:  vecLeaf.Alias,
				Filter:       q.Filter,
				Vector:       emb.Embedding,
				K:            size,
				EFRuntime:    algo.EFSearch,
				ReturnFields: []string{db.ReturnDocument},
			})
			if err != nil {
				return fmt.Errorf("search knn %s: %w", r.def.Name, err)
			}
			queryVec = emb.Embedding
			knnRes = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fused := fuseRRF(r.candidates(knnRes), r.candidates(textRes), size)

	rr := newReranker(cfg, vecLeaf.Alias, queryVec, terms)
	hits := make([]result.Hit, 0, len(fused))
	for _, c := range fused {
		hits = append(hits, result.NewHit(c.id, c.score, rr.score(c.document), c.document))
	}
	sortHits(hits)
	return hits, nil
}

func (r *Repo) candidates(sr *db.SearchResult) []candidate {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}
	out := make([]candidate, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		doc := e.Fields[db.ReturnDocument]
		if doc == "" {
			continue
		}
		out = append(out, candidate{
			id:       strings.TrimPrefix(e.Key, r.def.KeyPrefix),
			document: json.RawMessage(doc),
		})
	}
	return out
}
