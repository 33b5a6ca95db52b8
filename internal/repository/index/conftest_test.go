package index

import (
	"context"
	"testing"

	"github.com/kailas-cloud/furnimatch/internal/db"
	domidx "github.com/kailas-cloud/furnimatch/internal/domain/index"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hreplaceFn        func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn     func(ctx context.Context, key string) (map[string]string, error)
	delFn         func(ctx context.Context, key string) error
	jsonSetFn     func(ctx context.Context, key, path string, data []byte) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn   func(ctx context.Context, name string, deleteDocs bool) error
	synUpdateFn   func(ctx context.Context, index, groupID string, terms []string) error
}

func (m *mockStore) HReplace(ctx context.Context, key string, fields map[string]string) error {
	if m.hreplaceFn != nil {
		return m.hreplaceFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string, deleteDocs bool) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name, deleteDocs)
	}
	return nil
}

func (m *mockStore) SynonymUpdate(ctx context.Context, index, groupID string, terms []string) error {
	if m.synUpdateFn != nil {
		return m.synUpdateFn(ctx, index, groupID, terms)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testDefinition() domidx.Definition {
	return domidx.Products(domidx.ProductOptions{
		Name:       "furniture-index",
		Dimensions: 1536,
		Vectorizer: domidx.Vectorizer{Model: "text-embedding-3-small", Deployment: "embeddings"},
	})
}
