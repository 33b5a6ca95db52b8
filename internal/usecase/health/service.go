package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status is the overall verdict served by GET /health.
type Status string

const (
	Healthy Status = "ok"
	// Degraded means Redis answers but the index or the embedding provider does not.
	Degraded Status = "degraded"
	// Unhealthy means Redis is unreachable; nothing else is probed.
	Unhealthy Status = "error"
)

// CheckResult is the outcome of one probe.
type CheckResult string

const (
	CheckOK      CheckResult = "ok"
	CheckError   CheckResult = "error"
	CheckMissing CheckResult = "missing" // index not provisioned yet
	CheckTimeout CheckResult = "timeout"
)

// Probe names used as Report.Checks keys.
const (
	CheckDatabase  = "database"
	CheckIndex     = "index"
	CheckEmbedding = "embedding"
)

const defaultProbeTimeout = 3 * time.Second

// Report aggregates probe outcomes.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service runs the readiness probes.
type Service struct {
	db        Pinger
	index     IndexChecker
	indexName string
	embedding EmbeddingChecker
	timeout   time.Duration
}

// New creates a Service. embedding may be nil.
func New(db Pinger, embedding EmbeddingChecker) *Service {
	return &Service{db: db, embedding: embedding, timeout: defaultProbeTimeout}
}

// WithIndex also reports whether the named index exists.
func (s *Service) WithIndex(idx IndexChecker, name string) *Service {
	s.index, s.indexName = idx, name
	return s
}

// WithTimeout bounds every probe. Non-positive values keep the default.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check pings Redis first; when it answers, the remaining probes run concurrently.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{CheckDatabase: s.probe(ctx, s.db.Ping)}
	if checks[CheckDatabase] != CheckOK {
		return Report{Status: Unhealthy, Checks: checks}
	}

	var mu sync.Mutex
	record := func(name string, r CheckResult) {
		mu.Lock()
		checks[name] = r
		mu.Unlock()
	}

	var g errgroup.Group
	if s.index != nil {
		g.Go(func() error {
			missing := false
			r := s.probe(ctx, func(ctx context.Context) error {
				ok, err := s.index.IndexExists(ctx, s.indexName)
				missing = err == nil && !ok
				return err
			})
			if missing {
				r = CheckMissing
			}
			record(CheckIndex, r)
			return nil
		})
	}
	if s.embedding != nil {
		g.Go(func() error {
			record(CheckEmbedding, s.probe(ctx, s.embedding.HealthCheck))
			return nil
		})
	}
	_ = g.Wait()

	status := Healthy
	for _, r := range checks {
		if r != CheckOK {
			status = Degraded
		}
	}
	return Report{Status: status, Checks: checks}
}

func (s *Service) probe(ctx context.Context, fn func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := fn(ctx)
	switch {
	case err == nil:
		return CheckOK
	case ctx.Err() != nil:
		return CheckTimeout
	default:
		return CheckError
	}
}
