package rank

import (
	"context"
	"runtime"
	"sort"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/minspan/span"
)

// Config configures a Ranker.
type Config struct {
	// Workers is the number of candidates scanned in parallel.
	// Default: runtime.GOMAXPROCS(0).
	Workers int

	// MaxCandidates truncates the candidate set before scanning.
	// Default: 0 (unlimited).
	MaxCandidates int

	// CacheSize is the number of cached rankings.
	// Default: DefaultCacheSize. Negative disables caching.
	CacheSize int
}

// Ranker ranks candidates by minimal span length.
type Ranker struct {
	cfg   Config
	cache *resultCache // nil when caching is disabled
}

// New creates a Ranker with the given config.
func New(cfg Config) *Ranker {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = DefaultCacheSize
	}

	return &Ranker{cfg: cfg, cache: newResultCache(cfg.CacheSize)}
}

// Rank returns the candidates containing query as a rune subsequence, sorted
// by span length, then span start, then ID. limit <= 0 returns all results.
//
// Rank returns the context error if ctx is done before the scan finishes.
func (r *Ranker) Rank(ctx context.Context, query string, limit int, candidates []Candidate) (Results, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.cfg.MaxCandidates > 0 && len(candidates) > r.cfg.MaxCandidates {
		candidates = candidates[:r.cfg.MaxCandidates]
	}

	var key string
	if r.cache != nil {
		key = cacheKey(query, candidates)
		if cached, ok := r.cache.get(key); ok {
			return applyLimit(cached, limit), nil
		}
	}

	results, err := r.scan(ctx, query, candidates)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Span.Len() != b.Span.Len() {
			return a.Span.Len() < b.Span.Len()
		}
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		return a.ID < b.ID
	})

	if r.cache != nil {
		r.cache.set(key, results)
	}
	return applyLimit(results, limit), nil
}

// RankStore ranks every candidate in store.
func (r *Ranker) RankStore(ctx context.Context, query string, limit int, store Store) (Results, error) {
	candidates, err := store.List()
	if err != nil {
		return nil, err
	}
	return r.Rank(ctx, query, limit, candidates)
}

// ClearCache drops all cached rankings.
func (r *Ranker) ClearCache() {
	if r.cache != nil {
		r.cache.clear()
	}
}

// CachedRankings returns the number of cached rankings.
func (r *Ranker) CachedRankings() int {
	if r.cache == nil {
		return 0
	}
	return r.cache.size()
}

type match struct {
	span span.Span
	ok   bool
}

// scan matches every candidate, splitting the set into one contiguous chunk
// per worker. Results keep input order.
func (r *Ranker) scan(ctx context.Context, query string, candidates []Candidate) (Results, error) {
	if len(candidates) == 0 {
		return Results{}, nil
	}

	workers := min(r.cfg.Workers, len(candidates))
	chunk := (len(candidates) + workers - 1) / workers
	matches := make([]match, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < len(candidates); lo += chunk {
		hi := min(lo+chunk, len(candidates))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				matches[i] = matchCandidate(query, candidates[i].Text)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make(Results, 0, len(candidates))
	for i, m := range matches {
		if m.ok {
			results = append(results, Result{Candidate: candidates[i], Span: m.span})
		}
	}
	return results, nil
}

func matchCandidate(query, text string) match {
	// fuzzy.Match is a cheap case-sensitive subsequence test that rejects
	// most non-matching candidates before the full scan. It misreads invalid
	// UTF-8, so such inputs go straight to the scan.
	if query != "" && utf8.ValidString(query) && utf8.ValidString(text) && !fuzzy.Match(query, text) {
		return match{}
	}
	s, ok := span.FindString(query, text)
	return match{span: s, ok: ok}
}

func applyLimit(results Results, limit int) Results {
	if limit <= 0 || limit >= len(results) {
		return results
	}
	return results[:limit]
}
