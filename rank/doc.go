// Package rank orders candidate strings by how tightly they contain a query.
//
// It is the fuzzy-finder layer on top of [span.FindString]: each candidate's
// text is searched for the query as an ordered rune subsequence, and
// candidates are ranked by the length of their minimal matching window.
// Span length is the only ranking signal.
//
// # Usage
//
//	r := rank.New(rank.Config{})
//	results, err := r.Rank(ctx, "curl", 10, rank.FromStrings([]string{
//	    "curly",
//	    "acccccurlycurrelly",
//	    "c-u-r-l",
//	}))
//	for _, res := range results {
//	    fmt.Printf("%s %v\n", res.ID, res.Span)
//	}
//
// # Ordering
//
// Results are sorted by span length ascending, then span start ascending,
// then candidate ID ascending. Candidates that do not contain the query are
// dropped. An empty query matches every candidate with the degenerate span
// [0,0], so the order reduces to ID order.
//
// # Configuration
//
// [Config] controls parallelism and caching:
//
//	cfg := rank.Config{
//	    Workers:       4,    // Parallel scanners (default: GOMAXPROCS)
//	    MaxCandidates: 5000, // Truncate large candidate sets (0 = unlimited)
//	    CacheSize:     256,  // Cached rankings (default: 128, negative disables)
//	}
//
// # Caching
//
// Rankings are cached per query and candidate-set fingerprint. Changing any
// candidate ID or text, or their order, changes the fingerprint and forces a
// fresh scan.
//
// # Thread Safety
//
// [Ranker] and [InMemoryStore] are safe for concurrent use.
package rank
