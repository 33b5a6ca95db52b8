package health

import "context"

// Pinger is the Redis connectivity probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker reports whether the product index has been provisioned.
type IndexChecker interface {
	IndexExists(ctx context.Context, name string) (bool, error)
}

// EmbeddingChecker probes the embedding provider.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
