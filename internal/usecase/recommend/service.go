// Package recommend turns an analysed furniture photo into ranked catalog matches.
package recommend

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/furnimatch/internal/domain/attributes"
	"github.com/kailas-cloud/furnimatch/internal/domain/search/filter"
	"github.com/kailas-cloud/furnimatch/internal/domain/search/query"
	"github.com/kailas-cloud/furnimatch/internal/domain/search/ranking"
	"github.com/kailas-cloud/furnimatch/internal/domain/search/result"
	"github.com/kailas-cloud/furnimatch/internal/logger"
	"github.com/kailas-cloud/furnimatch/internal/metrics"
)

// Request carries the textual outputs of image analysis.
type Request struct {
	// Description is the caption of the analysed image.
	Description string
	// ConciseDescription is the generated text holding the labeled attribute lines.
	ConciseDescription string
}

// Response is the diagnostic trace plus the ranked matches.
type Response struct {
	Trace   string
	Results []result.Ranked
}

// Service composes extraction, query synthesis, filtering, search and ranking.
type Service struct {
	searcher       Searcher
	filters        *filter.Builder
	semanticConfig string
	extractor      attributes.Extractor
	synth          *query.Synthesizer
	rank           ranking.Comparator
}

// Option customizes a Service.
type Option func(*Service)

// WithExtractor replaces the line-based attribute extractor.
func WithExtractor(e attributes.Extractor) Option {
	return func(s *Service) { s.extractor = e }
}

// WithSynthesizer replaces the default query synthesizer.
func WithSynthesizer(q *query.Synthesizer) Option {
	return func(s *Service) { s.synth = q }
}

// WithComparator selects the result ordering.
func WithComparator(c ranking.Comparator) Option {
	return func(s *Service) { s.rank = c }
}

// New creates a recommend service. Results are ordered asset-first unless overridden.
func New(searcher Searcher, filters *filter.Builder, semanticConfig string, opts ...Option) *Service {
	s := &Service{
		searcher:       searcher,
		filters:        filters,
		semanticConfig: semanticConfig,
		extractor:      attributes.NewLineExtractor(),
		synth:          query.NewSynthesizer(),
		rank:           ranking.AssetFirst,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Recommend returns catalog items complementing the described piece.
// Hits without a rerank score are dropped. Search failures are returned as is.
func (s *Service) Recommend(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	resp, err := s.recommend(ctx, req)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecommendDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	if err == nil {
		metrics.RecommendResults.Observe(float64(len(resp.Results)))
	}
	return resp, err
}

func (s *Service) recommend(ctx context.Context, req Request) (Response, error) {
	attrs := s.extractor.Extract(req.ConciseDescription)
	text := s.synth.Synthesize(attrs, req.Description)

	expr, err := s.filters.Build(attrs)
	if err != nil {
		return Response{}, fmt.Errorf("build filter: %w", err)
	}
	trace := Trace(expr, text)

	hits, err := s.searcher.Search(ctx, query.New(text, expr, s.semanticConfig))
	if err != nil {
		return Response{}, err
	}

	ranked := make([]result.Ranked, 0, len(hits))
	dropped := 0
	for i := range hits {
		h := &hits[i]
		score := h.RerankerScore()
		if score == nil {
			dropped++
			continue
		}
		p, err := result.DecodeProduct(h.Document())
		if err != nil {
			return Response{}, fmt.Errorf("hit %s: %w", h.ID(), err)
		}
		ranked = append(ranked, result.Ranked{RerankerScore: *score, Score: h.Score(), Product: p})
	}
	ranking.Sort(ranked, s.rank)

	metrics.SearchHitsTotal.WithLabelValues("admitted").Add(float64(len(ranked)))
	metrics.SearchHitsTotal.WithLabelValues("dropped").Add(float64(dropped))
	logger.FromContext(ctx).Debug("recommendations ranked",
		zap.String("trace", trace),
		zap.Int("hits", len(hits)),
		zap.Int("admitted", len(ranked)),
		zap.Int("dropped", dropped),
	)

	return Response{Trace: trace, Results: ranked}, nil
}

// Trace renders the diagnostic line for a search.
func Trace(f filter.Expression, q string) string {
	return fmt.Sprintf("Filter: %s: Query: %s", f.String(), q)
}
