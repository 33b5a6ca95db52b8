package domain

import (
	"context"
	"fmt"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies an external dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// DimensionGuard rejects vectors whose length differs from the index's vector field.
type DimensionGuard struct {
	inner Embedder
	dims  int
}

// NewDimensionGuard wraps inner so every returned vector has exactly dims components.
func NewDimensionGuard(inner Embedder, dims int) *DimensionGuard {
	return &DimensionGuard{inner: inner, dims: dims}
}

// Embed delegates to the inner embedder and checks the vector length.
func (g *DimensionGuard) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	res, err := g.inner.Embed(ctx, text)
	if err != nil {
		return EmbeddingResult{}, err
	}
	if g.dims > 0 && len(res.Embedding) != g.dims {
		return EmbeddingResult{}, fmt.Errorf("got %d dims, index expects %d: %w",
			len(res.Embedding), g.dims, ErrVectorDimMismatch)
	}
	return res, nil
}

// HealthCheck forwards to the inner embedder when it implements HealthChecker.
func (g *DimensionGuard) HealthCheck(ctx context.Context) error {
	if hc, ok := g.inner.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
