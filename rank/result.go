package rank

import "github.com/jonwraymond/minspan/span"

// Result is a candidate that contains the query, with its minimal span.
type Result struct {
	Candidate

	// Span is the shortest rune window of Text containing the query.
	Span span.Span
}

// Results is a slice of Result with helper methods.
type Results []Result

// IDs returns just the candidate IDs from the results.
func (r Results) IDs() []string {
	ids := make([]string, len(r))
	for i, result := range r {
		ids[i] = result.ID
	}
	return ids
}

// Candidates returns just the candidates from the results.
func (r Results) Candidates() []Candidate {
	candidates := make([]Candidate, len(r))
	for i, result := range r {
		candidates[i] = result.Candidate
	}
	return candidates
}

// FilterByMaxLen returns results whose span covers at most maxLen runes.
func (r Results) FilterByMaxLen(maxLen int) Results {
	var filtered Results
	for _, result := range r {
		if result.Span.Len() <= maxLen {
			filtered = append(filtered, result)
		}
	}
	return filtered
}
