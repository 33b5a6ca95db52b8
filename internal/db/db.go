// Package db defines the storage contract the repositories are written
// against. The only implementation is Redis Stack (package db/redis).
package db

import (
	"context"
	"time"
)

// Store is everything the Redis Stack backend offers. Repositories declare
// their own narrower interfaces; Store exists so the implementation can be
// checked against the whole surface in one place.
type Store interface {
	Lifecycle
	MetaStore
	DocumentStore
	KVStore
	IndexManager
	Searcher
}

// Lifecycle covers connectivity and shutdown.
type Lifecycle interface {
	Ping(ctx context.Context) error
	WaitForReady(ctx context.Context, timeout time.Duration) error
	RequireModules(ctx context.Context, names ...string) error
	Close()
}

// MetaStore keeps small flat records such as index metadata in hashes.
type MetaStore interface {
	// HReplace overwrites the hash at key atomically. Fields absent from the
	// map do not survive.
	HReplace(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
}

// JSONItem is one JSON.MERGE target in a pipelined write.
type JSONItem struct {
	Key  string
	Path string // "$" when empty
	Data []byte
}

// DocumentStore reads and writes product documents.
type DocumentStore interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	// JSONMergeMulti merges every item in one pipeline. The returned slice holds
	// one entry per item (nil on success). A non-nil error means the pipeline
	// itself failed and no per-item outcome is known.
	JSONMergeMulti(ctx context.Context, items []JSONItem) ([]error, error)
}

// KVStore backs the embedding cache and the backfill lock.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	// DelIfEqual deletes key only while it still holds value.
	DelIfEqual(ctx context.Context, key string, value []byte) (bool, error)
}

// IndexManager handles the FT index lifecycle.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	// DropIndex drops the index; deleteDocs also deletes the indexed documents.
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SynonymUpdate(ctx context.Context, index, groupID string, terms []string) error
}

// Searcher runs the three query shapes the catalog needs.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	SearchText(ctx context.Context, q *TextQuery) (*SearchResult, error)
	SearchList(ctx context.Context, q *ListQuery) (*SearchResult, error)
}
