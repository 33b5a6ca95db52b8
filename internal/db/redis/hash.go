package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/furnimatch/internal/db"
)

// HReplace swaps the whole hash at key for fields inside MULTI/EXEC, so
// readers never observe a mix of stale and fresh index metadata.
func (s *Store) HReplace(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return s.Del(ctx, key)
	}

	hset := s.b().Hset().Key(key).FieldValue()
	for k, v := range fields {
		hset = hset.FieldValue(k, v)
	}

	results := s.client.DoMulti(ctx,
		s.b().Multi().Build(),
		s.b().Del().Key(key).Build(),
		hset.Build(),
		s.b().Exec().Build(),
	)
	return firstError(db.OpHReplace, results)
}

// HGetAll returns every field of the hash. An empty reply means the key is absent.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := s.do(ctx, s.b().Hgetall().Key(key).Build()).AsStrMap()
	switch {
	case err != nil:
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	case len(m) == 0:
		return nil, db.ErrKeyNotFound
	}
	return m, nil
}

// Del removes key. Deleting an absent key is not an error.
func (s *Store) Del(ctx context.Context, key string) error {
	if err := s.do(ctx, s.b().Del().Key(key).Build()).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

func firstError(op string, results []rueidis.RedisResult) error {
	for _, res := range results {
		if err := res.Error(); err != nil {
			return &db.Error{Op: op, Err: err}
		}
	}
	return nil
}
