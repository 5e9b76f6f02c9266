// Package span finds the shortest window of a reference sequence that contains
// a query sequence as an ordered subsequence.
//
// Elements of the query must appear in the reference in the same relative
// order. Gaps between them are allowed, reordering is not. Elements are
// compared by exact equality only; there is no case folding or normalization.
//
// # Usage
//
// The primary entry point is [Find], which works on any comparable element type:
//
//	s, ok := span.Find([]rune("curl"), []rune("acccccurlycurrelly"))
//	// s == span.Span{Start: 5, End: 8}, ok == true
//
// [FindString] treats strings as rune sequences without copying the reference:
//
//	s, ok := span.FindString("ssh", "testssh")
//	// s.Len() == 3
//
// [FindFunc] accepts a caller-supplied equality function for element types
// that are not comparable:
//
//	s, ok := span.FindFunc(query, reference, func(q, r Token) bool {
//	    return q.Kind == r.Kind && q.Text == r.Text
//	})
//
// # Conventions
//
//   - An empty query always yields Span{0, 0} with ok == true, even when the
//     reference is empty. This is a convention, not a real match.
//   - A non-empty query against an empty reference yields ok == false.
//   - Spans are inclusive on both ends: Span{Start: 2, End: 3} covers two
//     elements.
//   - When several windows share the minimal length, the first one found
//     scanning left to right is returned. Callers should not depend on which
//     of the tied windows they receive.
//
// # Complexity
//
// A single left-to-right scan runs in O(n*m) time for a reference of length n
// and a query of length m, using O(m) auxiliary memory. The reference is only
// read, never copied or modified.
//
// # Cancellation
//
// [Find] always runs to completion. [FindContext] and [FindFuncContext] run the
// same scan with a cooperative context check every [CheckInterval] reference
// positions, for callers scanning very large references.
//
// # Thread Safety
//
// All functions are pure. Independent calls may run concurrently without
// synchronization.
package span
