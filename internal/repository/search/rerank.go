package search

import (
	"encoding/json"
	"math"
	"sort"

	domidx "github.com/kailas-cloud/furnimatch/internal/domain/index"
	"github.com/kailas-cloud/furnimatch/internal/domain/search/result"
)

const (
	// rerankScale maps cosine similarity onto the 0..4 rerank range.
	rerankScale = 4.0
	// keywordBoost is added per title or keyword field that mentions a query term.
	keywordBoost = 0.05
)

// reranker scores fused candidates against the query embedding.
type reranker struct {
	cfg         domidx.SemanticConfig
	vectorField string
	queryVec    []float32
	terms       map[string]struct{}
}

func newReranker(cfg domidx.SemanticConfig, vectorField string, queryVec []float32, terms []string) *reranker {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return &reranker{cfg: cfg, vectorField: vectorField, queryVec: queryVec, terms: set}
}

// score returns nil when there is no query vector or the document has no
// vector of matching length.
func (r *reranker) score(doc json.RawMessage) *float64 {
	if len(r.queryVec) == 0 {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return nil
	}
	var vec []float32
	if raw, ok := fields[r.vectorField]; !ok || json.Unmarshal(raw, &vec) != nil || len(vec) != len(r.queryVec) {
		return nil
	}

	s := rerankScale * math.Max(0, cosine(r.queryVec, vec))
	if r.cfg.RankingOrder == domidx.RankingOrderBoostedReranker {
		matched := 0
		for _, name := range append([]string{r.cfg.TitleField}, r.cfg.KeywordFields...) {
			if r.mentions(fields[name]) {
				matched++
			}
		}
		s *= 1 + keywordBoost*float64(matched)
	}
	return &s
}

// mentions reports whether a string or string-array field shares a term with the query.
func (r *reranker) mentions(raw json.RawMessage) bool {
	if len(raw) == 0 || len(r.terms) == 0 {
		return false
	}
	var values []string
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		values = []string{single}
	} else if err := json.Unmarshal(raw, &values); err != nil {
		return false
	}
	for _, v := range values {
		for _, t := range tokenize(v) {
			if _, ok := r.terms[t]; ok {
				return true
			}
		}
	}
	return false
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// sortHits orders by rerank score descending (unscored last), then fused score.
func sortHits(hits []result.Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		ri, rj := hits[i].RerankerScore(), hits[j].RerankerScore()
		switch {
		case ri != nil && rj != nil && *ri != *rj:
			return *ri > *rj
		case ri != nil && rj == nil:
			return true
		case ri == nil && rj != nil:
			return false
		}
		return hits[i].Score() > hits[j].Score()
	})
}
