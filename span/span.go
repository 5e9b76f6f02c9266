package span

import (
	"context"
	"fmt"
)

// CheckInterval is how many reference positions the context-aware scans
// process between cancellation checks.
const CheckInterval = 4096

// Span is an inclusive range [Start, End] of reference indices.
type Span struct {
	Start int
	End   int
}

// Len returns the number of reference positions covered by s.
func (s Span) Len() int {
	return s.End - s.Start + 1
}

// Contains reports whether reference index i lies inside s.
func (s Span) Contains(i int) bool {
	return i >= s.Start && i <= s.End
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d]", s.Start, s.End)
}

// startIndex is the reference index where a partial match began.
// The zero value means no chain has reached this query position yet.
type startIndex struct {
	pos int
	ok  bool
}

// scanner holds the working state of one search call.
type scanner[E any] struct {
	query  []E
	eq     func(q, r E) bool
	starts []startIndex
	best   Span
	found  bool
}

func newScanner[E any](query []E, eq func(q, r E) bool) *scanner[E] {
	return &scanner[E]{
		query:  query,
		eq:     eq,
		starts: make([]startIndex, len(query)),
	}
}

// step consumes the reference element at index j.
//
// Query positions are visited from last to first so that starts[k-1] still
// holds the value from before position j. Visiting them in ascending order
// would let a single element both open a chain at level k-1 and extend it
// at level k.
func (s *scanner[E]) step(j int, elem E) {
	last := len(s.query) - 1
	for k := last; k >= 0; k-- {
		if !s.eq(s.query[k], elem) {
			continue
		}
		if k == 0 {
			s.starts[0] = startIndex{pos: j, ok: true}
		} else {
			s.starts[k] = s.starts[k-1]
		}
		if k == last && s.starts[k].ok {
			start := s.starts[k].pos
			if !s.found || j-start < s.best.End-s.best.Start {
				s.best = Span{Start: start, End: j}
				s.found = true
			}
		}
	}
}

func (s *scanner[E]) result() (Span, bool) {
	if !s.found {
		return Span{}, false
	}
	return s.best, true
}

// Find returns the shortest inclusive window of reference that contains
// query as an ordered subsequence, with the first and last query elements
// sitting on the window's ends. ok is false when no such window exists.
//
// An empty query returns Span{0, 0} and true for any reference.
func Find[E comparable](query, reference []E) (Span, bool) {
	return FindFunc(query, reference, func(q, r E) bool { return q == r })
}

// FindFunc is like [Find] but compares elements with eq. eq is called with a
// query element first and a reference element second.
func FindFunc[E any](query, reference []E, eq func(q, r E) bool) (Span, bool) {
	if len(query) == 0 {
		return Span{}, true
	}
	s := newScanner(query, eq)
	for j, elem := range reference {
		s.step(j, elem)
	}
	return s.result()
}

// FindString is like [Find] with runes as elements. Returned indices are
// rune offsets into reference, not byte offsets.
func FindString(query, reference string) (Span, bool) {
	if query == "" {
		return Span{}, true
	}
	s := newScanner([]rune(query), func(q, r rune) bool { return q == r })
	j := 0
	for _, r := range reference {
		s.step(j, r)
		j++
	}
	return s.result()
}

// FindBytes is like [Find] with bytes as elements.
func FindBytes(query, reference []byte) (Span, bool) {
	return Find(query, reference)
}

// FindContext is like [Find] but stops early when ctx is done, returning the
// context error.
func FindContext[E comparable](ctx context.Context, query, reference []E) (Span, bool, error) {
	return FindFuncContext(ctx, query, reference, func(q, r E) bool { return q == r })
}

// FindFuncContext is like [FindFunc] but stops early when ctx is done,
// returning the context error.
func FindFuncContext[E any](ctx context.Context, query, reference []E, eq func(q, r E) bool) (Span, bool, error) {
	if err := ctx.Err(); err != nil {
		return Span{}, false, err
	}
	if len(query) == 0 {
		return Span{}, true, nil
	}
	s := newScanner(query, eq)
	for j, elem := range reference {
		if j > 0 && j%CheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Span{}, false, fmt.Errorf("scan stopped at position %d: %w", j, err)
			}
		}
		s.step(j, elem)
	}
	sp, ok := s.result()
	return sp, ok, nil
}

// Positions returns one chain of strictly increasing reference indices inside
// s at which the query elements occur, starting at s.Start and ending at
// s.End. It is intended for highlighting the elements of a span returned by
// [Find]. ok is false when s is out of range or does not hold such a chain.
//
// An empty query yields an empty chain.
func Positions[E comparable](query, reference []E, s Span) ([]int, bool) {
	if len(query) == 0 {
		return []int{}, true
	}
	if s.Start < 0 || s.End >= len(reference) || s.Start > s.End {
		return nil, false
	}

	last := len(query) - 1
	if reference[s.Start] != query[0] || reference[s.End] != query[last] {
		return nil, false
	}
	if last == 0 {
		if s.Start != s.End {
			return nil, false
		}
		return []int{s.Start}, true
	}
	if s.Start == s.End {
		return nil, false
	}

	// Leftmost placement of the inner elements leaves the most room before End.
	chain := make([]int, 0, len(query))
	chain = append(chain, s.Start)
	j := s.Start + 1
	for k := 1; k < last; k++ {
		for j < s.End && reference[j] != query[k] {
			j++
		}
		if j >= s.End {
			return nil, false
		}
		chain = append(chain, j)
		j++
	}
	chain = append(chain, s.End)
	return chain, true
}
