package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/kailas-cloud/furnimatch/internal/db"
)

// CreateIndex creates an FT index from the given definition.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// DropIndex removes an FT index by name. With deleteDocs the indexed
// documents are deleted as well (FT.DROPINDEX ... DD).
func (s *Store) DropIndex(ctx context.Context, name string, deleteDocs bool) error {
	args := []string{name}
	if deleteDocs {
		args = append(args, "DD")
	}
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isUnknownIndex(err) {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	return nil
}

// IndexExists probes index existence via FT.INFO; "unknown index name" means absent.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isUnknownIndex(err) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

// SynonymUpdate adds terms to a synonym group of the index. Existing documents
// are not rescanned.
func (s *Store) SynonymUpdate(ctx context.Context, index, groupID string, terms []string) error {
	if len(terms) == 0 {
		return errors.New("synonym group needs at least one term")
	}
	args := make([]string, 0, 3+len(terms))
	args = append(args, index, groupID, "SKIPINITIALSCAN")
	args = append(args, terms...)

	cmd := s.b().Arbitrary("FT.SYNUPDATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isUnknownIndex(err) {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpSynUpdate, Err: err}
	}
	return nil
}

// buildCreateArgs renders FT.CREATE arguments. Documents are always JSON.
func buildCreateArgs(def *db.IndexDefinition) ([]string, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	args := make([]string, 0, 8+4*len(def.Fields))
	args = append(args, def.Name, "ON", "JSON")
	if len(def.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(def.Prefixes)))
		args = append(args, def.Prefixes...)
	}
	args = append(args, "SCHEMA")
	for i := range def.Fields {
		args = append(args, fieldArgs(&def.Fields[i])...)
	}
	return args, nil
}

// fieldArgs expects a validated field.
func fieldArgs(f *db.IndexField) []string {
	args := []string{f.Path}
	if f.Alias != "" {
		args = append(args, "AS", f.Alias)
	}
	if f.Type == db.FieldVector {
		return append(args, hnswArgs(f.Vector)...)
	}
	args = append(args, f.Type.Keyword())
	if f.Sortable {
		args = append(args, "SORTABLE")
	}
	return args
}

func hnswArgs(v *db.HNSW) []string {
	distance := v.Distance
	if distance == "" {
		distance = db.DistanceCosine
	}
	attrs := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(v.Dim),
		"DISTANCE_METRIC", string(distance),
	}
	for _, opt := range []struct {
		name string
		val  int
	}{
		{"M", v.M},
		{"EF_CONSTRUCTION", v.EFConstruction},
		{"EF_RUNTIME", v.EFRuntime},
	} {
		if opt.val > 0 {
			attrs = append(attrs, opt.name, strconv.Itoa(opt.val))
		}
	}
	return append([]string{"VECTOR", "HNSW", strconv.Itoa(len(attrs))}, attrs...)
}

// Older RediSearch releases say "no such index"; 2.x says "Unknown index name".
func isUnknownIndex(err error) bool {
	return isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index")
}
