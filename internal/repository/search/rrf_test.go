package search

import (
	"math"
	"testing"
)

func cand(id string) candidate {
	return candidate{id: id, document: []byte(`{"id":"` + id + `"}`)}
}

func TestFuseRRF_DisjointLists(t *testing.T) {
	results := fuseRRF([]candidate{cand("a"), cand("b")}, []candidate{cand("c"), cand("d")}, 10)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	// equal scores keep vector hits ahead of text hits
	want := []string{"a", "c", "b", "d"}
	for i, id := range want {
		if results[i].id != id {
			t.Errorf("results[%d] = %s, want %s", i, results[i].id, id)
		}
	}
}

func TestFuseRRF_OverlappingLists(t *testing.T) {
	knn := []candidate{cand("a"), cand("b"), cand("c")}
	text := []candidate{cand("b"), cand("d"), cand("a")}

	results := fuseRRF(knn, text, 10)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	// "b": 1/62 + 1/61 beats "a": 1/61 + 1/63
	if results[0].id != "b" || results[1].id != "a" {
		t.Errorf("unexpected order: %s, %s", results[0].id, results[1].id)
	}
}

func TestFuseRRF_EmptyInputs(t *testing.T) {
	if got := fuseRRF(nil, nil, 10); len(got) != 0 {
		t.Fatalf("expected 0 results, got %d", len(got))
	}
	if got := fuseRRF(nil, []candidate{cand("a")}, 10); len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got := fuseRRF([]candidate{cand("a")}, nil, 10); len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
}

func TestFuseRRF_TopKLimiting(t *testing.T) {
	knn := []candidate{cand("a"), cand("b"), cand("c")}
	text := []candidate{cand("d"), cand("e"), cand("f")}
	if got := fuseRRF(knn, text, 3); len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
}

func TestFuseRRF_ScoreFormula(t *testing.T) {
	results := fuseRRF([]candidate{cand("a")}, []candidate{cand("a")}, 10)
	// rank 0 in both: 1/(60+1) + 1/(60+1)
	expected := 2.0 / 61.0
	if math.Abs(results[0].score-expected) > 1e-10 {
		t.Errorf("expected score %f, got %f", expected, results[0].score)
	}
}
