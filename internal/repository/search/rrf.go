package search

import (
	"encoding/json"
	"sort"
)

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

type candidate struct {
	id       string
	score    float64
	document json.RawMessage
}

// fuseRRF merges vector and text rankings via Reciprocal Rank Fusion.
// score(d) = sum of 1/(k + rank_i(d)) for each ranking where d appears.
// Ties keep first-seen order, vector hits first.
func fuseRRF(knn, text []candidate, topK int) []candidate {
	merged := make(map[string]int, len(knn)+len(text))
	out := make([]candidate, 0, len(knn)+len(text))

	add := func(list []candidate) {
		for rank, c := range list {
			s := 1.0 / float64(rrfK+rank+1)
			if i, ok := merged[c.id]; ok {
				out[i].score += s
				continue
			}
			merged[c.id] = len(out)
			c.score = s
			out = append(out, c)
		}
	}
	add(knn)
	add(text)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score > out[j].score
	})

	if len(out) > topK {
		out = out[:topK]
	}
	return out
}
