// Package ranking orders admitted search results.
package ranking

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/furnimatch/internal/domain/search/result"
)

// Comparator reports whether a ranks strictly before b.
type Comparator func(a, b *result.Ranked) bool

// ScoreOnly orders by rerank score, descending.
func ScoreOnly(a, b *result.Ranked) bool {
	return a.RerankerScore > b.RerankerScore
}

// AssetFirst puts products with assets first, then orders by rerank score, descending.
func AssetFirst(a, b *result.Ranked) bool {
	ha, hb := a.Product.HasAssets(), b.Product.HasAssets()
	if ha != hb {
		return ha
	}
	return a.RerankerScore > b.RerankerScore
}

// Sort orders results in place. Equal keys keep their input order.
func Sort(results []result.Ranked, less Comparator) {
	sort.SliceStable(results, func(i, j int) bool {
		return less(&results[i], &results[j])
	})
}

// Names of the built-in comparators.
const (
	NameScoreOnly  = "score_only"
	NameAssetFirst = "asset_first"
)

// ByName resolves a comparator from configuration.
func ByName(name string) (Comparator, error) {
	switch name {
	case NameScoreOnly:
		return ScoreOnly, nil
	case NameAssetFirst, "":
		return AssetFirst, nil
	default:
		return nil, fmt.Errorf("unknown ranking %q", name)
	}
}
