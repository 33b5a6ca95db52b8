package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/furnimatch/internal/db"
)

// JSONSet stores a JSON document at the given key and path.
func (s *Store) JSONSet(ctx context.Context, key, path string, data []byte) error {
	cmd := s.b().Arbitrary("JSON.SET").Keys(key).Args(path, string(data)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpJSONSet, Err: err}
	}
	return nil
}

// JSONMergeMulti applies JSON.MERGE for every item in a single DoMulti round-trip.
// Server-side rejections are reported per item; a transport failure fails the call.
func (s *Store) JSONMergeMulti(ctx context.Context, items []db.JSONItem) ([]error, error) {
	if len(items) == 0 {
		return nil, nil
	}

	cmds := make(rueidis.Commands, len(items))
	for i, item := range items {
		path := item.Path
		if path == "" {
			path = "$"
		}
		cmds[i] = s.b().Arbitrary("JSON.MERGE").Keys(item.Key).Args(path, string(item.Data)).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	errs := make([]error, len(results))
	for i, res := range results {
		err := res.Error()
		if err == nil {
			continue
		}
		if _, ok := rueidis.IsRedisErr(err); !ok {
			return nil, &db.Error{Op: db.OpJSONMerge, Err: err}
		}
		errs[i] = &db.Error{Op: db.OpJSONMerge, Err: err}
	}
	return errs, nil
}
