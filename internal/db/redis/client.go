package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/furnimatch/internal/db"
)

var _ db.Store = (*Store)(nil)

// Modules the product index depends on, as reported by MODULE LIST.
const (
	ModuleSearch = "search"
	ModuleJSON   = "ReJSON"
)

const readyPollInterval = 100 * time.Millisecond

// Config holds connection parameters for a Redis Stack deployment.
type Config struct {
	Addrs      []string
	Username   string
	Password   string
	DB         int
	ClientName string
}

// Store talks to Redis Stack through a single rueidis client.
type Store struct {
	client rueidis.Client
}

// NewStore dials the configured addresses with client-side caching off.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("redis: at least one address is required")
	}
	name := cfg.ClientName
	if name == "" {
		name = "furnimatch"
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		ClientName:   name,
		DisableCache: true,
		AlwaysRESP2:  true, // search reply parsing walks RESP2 arrays
	})
	if err != nil {
		return nil, fmt.Errorf("redis: dial %v: %w", cfg.Addrs, err)
	}
	return &Store{client: client}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls until the server answers PING, then checks that
// RediSearch and RedisJSON are loaded. A missing module fails immediately
// since retrying cannot fix it.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("timeout waiting for redis: %w", errors.Join(ctx.Err(), lastErr))
			}
			return fmt.Errorf("timeout waiting for redis: %w", ctx.Err())
		case <-ticker.C:
			if lastErr = s.Ping(ctx); lastErr != nil {
				continue
			}
			return s.RequireModules(ctx, ModuleSearch, ModuleJSON)
		}
	}
}

// RequireModules returns ErrModuleMissing naming every module in names
// that MODULE LIST does not report. Names compare case-insensitively.
func (s *Store) RequireModules(ctx context.Context, names ...string) error {
	entries, err := s.do(ctx, s.b().ModuleList().Build()).ToArray()
	if err != nil {
		return &db.Error{Op: db.OpModuleList, Err: err}
	}

	loaded := make(map[string]bool, len(entries))
	for _, e := range entries {
		m, err := e.AsMap()
		if err != nil {
			continue
		}
		if n, ok := m["name"]; ok {
			if name, err := n.ToString(); err == nil {
				loaded[strings.ToLower(name)] = true
			}
		}
	}

	var missing []string
	for _, n := range names {
		if !loaded[strings.ToLower(n)] {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", db.ErrModuleMissing, strings.Join(missing, ", "))
	}
	return nil
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// isRedisErr reports whether err is a server reply whose text contains substr, ignoring case.
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
