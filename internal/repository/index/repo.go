package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/furnimatch/internal/db"
	"github.com/kailas-cloud/furnimatch/internal/domain"
	domidx "github.com/kailas-cloud/furnimatch/internal/domain/index"
)

// store is the consumer interface for index management (ISP).
//
//nolint:interfacebloat // index repo needs hash + json + index lifecycle operations
type store interface {
	HReplace(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	JSONSet(ctx context.Context, key, path string, data []byte) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	SynonymUpdate(ctx context.Context, index, groupID string, terms []string) error
}

// Repo manages the lifecycle of search indexes and their synonym maps.
type Repo struct {
	store store
}

// New creates an index repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// UpsertSynonymMap stores a synonym map document, replacing any previous version.
func (r *Repo) UpsertSynonymMap(ctx context.Context, m domidx.SynonymMap) error {
	data, err := json.Marshal(synonymDoc{Name: m.Name, Format: "solr", Synonyms: m.Lines()})
	if err != nil {
		return fmt.Errorf("marshal synonym map %s: %w", m.Name, err)
	}
	if err := r.store.JSONSet(ctx, domain.SynonymMapKey(m.Name), "$", data); err != nil {
		return fmt.Errorf("json.set synonym map %s: %w", m.Name, err)
	}
	return nil
}

// Drop deletes the index together with every document it covers.
// A missing index is not an error.
func (r *Repo) Drop(ctx context.Context, name string) error {
	err := r.store.DropIndex(ctx, name, true)
	if err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", name, err)
	}
	if err := r.store.Del(ctx, domain.IndexMetaKey(name)); err != nil {
		return fmt.Errorf("del index metadata %s: %w", name, err)
	}
	return nil
}

// Create stores index metadata, runs FT.CREATE and binds the synonym groups.
// On FT.CREATE failure the metadata write is rolled back.
func (r *Repo) Create(ctx context.Context, def *domidx.Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	ftDef, err := buildIndex(def)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	meta, err := definitionToHash(def)
	if err != nil {
		return err
	}

	metaKey := domain.IndexMetaKey(def.Name)
	if err := r.store.HReplace(ctx, metaKey, meta); err != nil {
		return fmt.Errorf("replace index metadata %s: %w", def.Name, err)
	}

	if err := r.store.CreateIndex(ctx, ftDef); err != nil {
		cleanupErr := r.store.Del(ctx, metaKey)
		if errors.Is(err, db.ErrIndexExists) {
			err = fmt.Errorf("index %s: %w", def.Name, domain.ErrAlreadyExists)
		}
		return errors.Join(err, cleanupErr)
	}

	for _, m := range def.SynonymMaps {
		for i, group := range m.Groups {
			groupID := fmt.Sprintf("%s:%d", m.Name, i)
			if err := r.store.SynonymUpdate(ctx, def.Name, groupID, group); err != nil {
				return fmt.Errorf("bind synonym group %s: %w", groupID, err)
			}
		}
	}

	return nil
}

// Get returns the stored definition of an index.
func (r *Repo) Get(ctx context.Context, name string) (domidx.Definition, error) {
	m, err := r.store.HGetAll(ctx, domain.IndexMetaKey(name))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domidx.Definition{}, fmt.Errorf("index %s: %w", name, domain.ErrNotFound)
		}
		return domidx.Definition{}, fmt.Errorf("hgetall index metadata %s: %w", name, err)
	}
	return definitionFromHash(m)
}
