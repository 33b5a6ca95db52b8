package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/furnimatch/internal/db"
	"github.com/kailas-cloud/furnimatch/internal/domain"
	"github.com/kailas-cloud/furnimatch/internal/domain/batch"
	domcat "github.com/kailas-cloud/furnimatch/internal/domain/catalog"
)

// pendingQuery selects documents whose vectorRetrieved flag is not true
// (false, null or absent).
const pendingQuery = "-@vectorRetrieved:{true}"

// store is the consumer interface for catalog documents (ISP).
type store interface {
	JSONMergeMulti(ctx context.Context, items []db.JSONItem) ([]error, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

// Repo reads and writes catalog items in the product index.
type Repo struct {
	store store
	index string
}

// New creates a catalog repository bound to one index.
func New(s store, indexName string) *Repo {
	return &Repo{store: s, index: indexName}
}

// MergeOrUpload merges each item into its stored document, creating it when
// absent. Per-item rejections are reported in the results; an error means the
// batch call itself failed.
func (r *Repo) MergeOrUpload(ctx context.Context, items []domcat.Item) ([]batch.Result, error) {
	if len(items) == 0 {
		return nil, nil
	}

	results := make([]batch.Result, len(items))
	writes := make([]db.JSONItem, 0, len(items))
	slots := make([]int, 0, len(items))

	for i := range items {
		id := items[i].ID
		if strings.TrimSpace(id) == "" {
			results[i] = batch.NewError(id, fmt.Errorf("item without id: %w", domain.ErrInvalidInput))
			continue
		}
		data, err := json.Marshal(items[i])
		if err != nil {
			results[i] = batch.NewError(id, fmt.Errorf("marshal item: %w", err))
			continue
		}
		writes = append(writes, db.JSONItem{Key: domain.ProductKey(id), Path: "$", Data: data})
		slots = append(slots, i)
	}

	if len(writes) == 0 {
		return results, nil
	}

	errs, err := r.store.JSONMergeMulti(ctx, writes)
	if err != nil {
		return nil, fmt.Errorf("merge %d items into %s: %w", len(writes), r.index, err)
	}

	for j, slot := range slots {
		id := items[slot].ID
		if errs[j] != nil {
			results[slot] = batch.NewError(id, errs[j])
			continue
		}
		results[slot] = batch.NewOK(id)
	}
	return results, nil
}

// ListPending returns up to limit items that still need an embedding.
func (r *Repo) ListPending(ctx context.Context, limit int) ([]domcat.Item, error) {
	if limit <= 0 {
		return nil, nil
	}

	sr, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName:    r.index,
		Query:        pendingQuery,
		Limit:        limit,
		ReturnFields: []string{db.ReturnDocument},
	})
	if err != nil {
		return nil, fmt.Errorf("search pending in %s: %w", r.index, err)
	}
	if sr == nil {
		return nil, nil
	}

	items := make([]domcat.Item, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		raw := entry.Fields[db.ReturnDocument]
		if raw == "" {
			continue
		}
		var it domcat.Item
		if err := json.Unmarshal([]byte(raw), &it); err != nil {
			return nil, fmt.Errorf("decode %s: %w", entry.Key, err)
		}
		if it.ID == "" {
			it.ID = strings.TrimPrefix(entry.Key, domain.ProductKeyPrefix)
		}
		items = append(items, it)
	}
	return items, nil
}
