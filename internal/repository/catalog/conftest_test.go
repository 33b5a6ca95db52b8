package catalog

import (
	"context"
	"testing"

	"github.com/kailas-cloud/furnimatch/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	mergeFn      func(ctx context.Context, items []db.JSONItem) ([]error, error)
	searchListFn func(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

func (m *mockStore) JSONMergeMulti(ctx context.Context, items []db.JSONItem) ([]error, error) {
	if m.mergeFn != nil {
		return m.mergeFn(ctx, items)
	}
	return make([]error, len(items)), nil
}

func (m *mockStore) SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	if m.searchListFn != nil {
		return m.searchListFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "products"), ms
}
