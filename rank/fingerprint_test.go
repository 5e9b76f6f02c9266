package rank

import "testing"

func TestFingerprint_SameCandidatesProduceSameFingerprint(t *testing.T) {
	candidates := []Candidate{
		{ID: "one", Text: "internal/one.go"},
		{ID: "two", Text: "internal/two.go"},
	}

	fp1 := computeFingerprint(candidates)
	fp2 := computeFingerprint(candidates)

	if fp1 != fp2 {
		t.Errorf("same candidates produced different fingerprints: %s vs %s", fp1, fp2)
	}
	if fp1 == "" {
		t.Error("fingerprint is empty")
	}
}

func TestFingerprint_OrderMatters(t *testing.T) {
	a := Candidate{ID: "a", Text: "a"}
	b := Candidate{ID: "b", Text: "b"}

	if computeFingerprint([]Candidate{a, b}) == computeFingerprint([]Candidate{b, a}) {
		t.Error("different order should produce different fingerprints")
	}
}

func TestFingerprint_IncludesAllFields(t *testing.T) {
	base := Candidate{ID: "id", Text: "text"}
	variations := []Candidate{
		{ID: "id-changed", Text: base.Text},
		{ID: base.ID, Text: "text-changed"},
	}

	baseFP := computeFingerprint([]Candidate{base})
	for i, v := range variations {
		if computeFingerprint([]Candidate{v}) == baseFP {
			t.Errorf("variation %d produced the base fingerprint", i)
		}
	}
}

func TestFingerprint_FieldBoundaries(t *testing.T) {
	left := []Candidate{{ID: "ab", Text: "c"}}
	right := []Candidate{{ID: "a", Text: "bc"}}

	if computeFingerprint(left) == computeFingerprint(right) {
		t.Error("moving bytes between fields should change the fingerprint")
	}
}

func TestFingerprint_Empty(t *testing.T) {
	if computeFingerprint(nil) != computeFingerprint([]Candidate{}) {
		t.Error("nil and empty candidate sets should share a fingerprint")
	}
}

func TestCacheKey_SeparatesQueries(t *testing.T) {
	candidates := []Candidate{{ID: "a", Text: "a"}}
	if cacheKey("a", candidates) == cacheKey("b", candidates) {
		t.Error("different queries should produce different cache keys")
	}
}
