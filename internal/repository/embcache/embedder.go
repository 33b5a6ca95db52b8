// Package embcache memoizes query embeddings in Redis so repeated shopper
// searches skip the provider round-trip.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/furnimatch/internal/db"
	"github.com/kailas-cloud/furnimatch/internal/domain"
)

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Options configure the cache.
type Options struct {
	// Model is mixed into the key so switching models never serves old vectors.
	Model string
	// Dimensions, when set, turns entries of any other length into misses.
	Dimensions int
	TTL        time.Duration
	// Outcomes counts lookups by label "result" (hit, miss).
	Outcomes *prometheus.CounterVec
}

// CachedEmbedder wraps an embedder with a read-through cache. Concurrent
// requests for the same text share one provider call.
type CachedEmbedder struct {
	inner  domain.Embedder
	store  store
	opts   Options
	group  singleflight.Group
	logger *zap.Logger
}

func New(inner domain.Embedder, s store, opts Options, logger *zap.Logger) *CachedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbedder{inner: inner, store: s, opts: opts, logger: logger}
}

// Embed serves text from the cache when possible. A hit reports zero tokens.
// Cache read and write failures only cost a provider call.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	text = normalize(text)
	key := c.key(text)

	if vec, ok := c.lookup(ctx, key); ok {
		c.count("hit")
		return domain.EmbeddingResult{Embedding: vec}, nil
	}
	c.count("miss")

	v, err, _ := c.group.Do(key, func() (any, error) {
		res, err := c.inner.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		c.remember(ctx, key, res.Embedding)
		return res, nil
	})
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed query: %w", err)
	}
	return v.(domain.EmbeddingResult), nil
}

// normalize folds runs of whitespace so "grey  sofa " and "grey sofa" share an entry.
func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func (c *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(c.opts.Model + "\x00" + text))
	return domain.EmbeddingCacheKey(hex.EncodeToString(sum[:]))
}

func (c *CachedEmbedder) count(result string) {
	if c.opts.Outcomes != nil {
		c.opts.Outcomes.WithLabelValues(result).Inc()
	}
}

func (c *CachedEmbedder) lookup(ctx context.Context, key string) ([]float32, bool) {
	raw, err := c.store.Get(ctx, key)
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
		return nil, false
	case err != nil:
		c.logger.Warn("Embedding cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	vec, err := decode(raw, c.opts.Dimensions)
	if err != nil {
		c.logger.Warn("Discarding embedding cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return vec, true
}

func (c *CachedEmbedder) remember(ctx context.Context, key string, vec []float32) {
	if len(vec) == 0 {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, encode(vec), c.opts.TTL); err != nil {
		c.logger.Warn("Embedding cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// encode packs vec as little-endian float32, the same layout the KNN blob uses.
func encode(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func decode(raw []byte, dims int) ([]float32, error) {
	if len(raw) == 0 || len(raw)%4 != 0 {
		return nil, fmt.Errorf("entry of %d bytes is not a float32 vector", len(raw))
	}
	n := len(raw) / 4
	if dims > 0 && n != dims {
		return nil, fmt.Errorf("entry has %d dimensions, want %d", n, dims)
	}
	vec := make([]float32, n)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return vec, nil
}
