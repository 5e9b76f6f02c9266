package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonwraymond/minspan/rank"
	"github.com/jonwraymond/minspan/span"
)

// Names of the built-in tools.
const (
	SpanToolName = "span"
	RankToolName = "rank"
)

// Element units accepted by the span tool.
const (
	UnitRune = "rune"
	UnitByte = "byte"
	UnitWord = "word"
)

const (
	spanToolDescription = "Find the shortest window of a reference that contains the query elements in order, allowing gaps."
	rankToolDescription = "Rank candidate strings by the length of the shortest window containing the query."
)

// SpanArgs are the arguments of the span tool.
type SpanArgs struct {
	Query     string `json:"query" jsonschema:"sequence to search for"`
	Reference string `json:"reference" jsonschema:"sequence searched within"`
	Unit      string `json:"unit,omitempty" jsonschema:"element unit: rune (default), byte or word"`
}

// SpanOutput is the result of the span tool. Start, End and Length are only
// meaningful when Found is true. Indices count elements of the chosen unit.
type SpanOutput struct {
	Found     bool  `json:"found"`
	Start     int   `json:"start"`
	End       int   `json:"end"`
	Length    int   `json:"length"`
	Positions []int `json:"positions,omitempty"`
}

// RankArgs are the arguments of the rank tool.
type RankArgs struct {
	Query      string   `json:"query" jsonschema:"rune sequence to search for"`
	Candidates []string `json:"candidates" jsonschema:"candidate strings to rank"`
	Limit      int      `json:"limit,omitempty" jsonschema:"maximum number of results, 0 for all"`
}

// RankedCandidate is one entry of the rank tool's result.
type RankedCandidate struct {
	ID     string `json:"id"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Length int    `json:"length"`
}

// RankOutput is the result of the rank tool.
type RankOutput struct {
	Results []RankedCandidate `json:"results"`
}

func spanInputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query":     map[string]any{"type": "string"},
			"reference": map[string]any{"type": "string"},
			"unit": map[string]any{
				"type": "string",
				"enum": []string{UnitRune, UnitByte, UnitWord},
			},
		},
		"required": []string{"query", "reference"},
	}
}

func rankInputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string"},
			"candidates": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"limit": map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []string{"query", "candidates"},
	}
}

// RegisterSpanTools registers the built-in span and rank tools.
func (r *Registry) RegisterSpanTools(opts ...LocalToolOption) error {
	spanOpts := append([]LocalToolOption{WithTags("search", "span")}, opts...)
	if err := r.RegisterLocalFunc(SpanToolName, spanToolDescription, spanInputSchema(), r.handleSpan, spanOpts...); err != nil {
		return err
	}
	rankOpts := append([]LocalToolOption{WithTags("search", "rank")}, opts...)
	return r.RegisterLocalFunc(RankToolName, rankToolDescription, rankInputSchema(), r.handleRank, rankOpts...)
}

func (r *Registry) handleSpan(ctx context.Context, args map[string]any) (any, error) {
	var in SpanArgs
	var err error
	if in.Query, err = stringArg(args, "query", true); err != nil {
		return nil, err
	}
	if in.Reference, err = stringArg(args, "reference", true); err != nil {
		return nil, err
	}
	if in.Unit, err = stringArg(args, "unit", false); err != nil {
		return nil, err
	}

	out, err := runSpan(ctx, in)
	if err != nil {
		return nil, err
	}
	return out.toMap(), nil
}

func (r *Registry) handleRank(ctx context.Context, args map[string]any) (any, error) {
	var in RankArgs
	var err error
	if in.Query, err = stringArg(args, "query", true); err != nil {
		return nil, err
	}
	if in.Candidates, err = stringsArg(args, "candidates"); err != nil {
		return nil, err
	}
	if in.Limit, err = intArg(args, "limit"); err != nil {
		return nil, err
	}

	out, err := runRank(ctx, r.ranker, in)
	if err != nil {
		return nil, err
	}
	return out.toMap(), nil
}

// runSpan executes the span tool for any transport.
func runSpan(ctx context.Context, in SpanArgs) (SpanOutput, error) {
	switch in.Unit {
	case "", UnitRune:
		return spanOf(ctx, []rune(in.Query), []rune(in.Reference))
	case UnitByte:
		return spanOf(ctx, []byte(in.Query), []byte(in.Reference))
	case UnitWord:
		return spanOf(ctx, strings.Fields(in.Query), strings.Fields(in.Reference))
	default:
		return SpanOutput{}, fmt.Errorf("%w: unknown unit %q", ErrInvalidArguments, in.Unit)
	}
}

func spanOf[E comparable](ctx context.Context, query, reference []E) (SpanOutput, error) {
	s, ok, err := span.FindContext(ctx, query, reference)
	if err != nil {
		return SpanOutput{}, err
	}
	if !ok {
		return SpanOutput{Found: false}, nil
	}
	out := SpanOutput{Found: true, Start: s.Start, End: s.End, Length: s.Len()}
	if positions, ok := span.Positions(query, reference, s); ok && len(positions) > 0 {
		out.Positions = positions
	}
	return out, nil
}

// runRank executes the rank tool for any transport.
func runRank(ctx context.Context, ranker *rank.Ranker, in RankArgs) (RankOutput, error) {
	if in.Limit < 0 {
		return RankOutput{}, fmt.Errorf("%w: limit must not be negative", ErrInvalidArguments)
	}
	results, err := ranker.Rank(ctx, in.Query, in.Limit, rank.FromStrings(in.Candidates))
	if err != nil {
		return RankOutput{}, err
	}

	out := RankOutput{Results: make([]RankedCandidate, len(results))}
	for i, res := range results {
		out.Results[i] = RankedCandidate{
			ID:     res.ID,
			Start:  res.Span.Start,
			End:    res.Span.End,
			Length: res.Span.Len(),
		}
	}
	return out, nil
}

func (o SpanOutput) toMap() map[string]any {
	if !o.Found {
		return map[string]any{"found": false}
	}
	m := map[string]any{
		"found":  true,
		"start":  o.Start,
		"end":    o.End,
		"length": o.Length,
	}
	if len(o.Positions) > 0 {
		m["positions"] = o.Positions
	}
	return m
}

func (o RankOutput) toMap() map[string]any {
	results := make([]map[string]any, len(o.Results))
	for i, res := range o.Results {
		results[i] = map[string]any{
			"id":     res.ID,
			"start":  res.Start,
			"end":    res.End,
			"length": res.Length,
		}
	}
	return map[string]any{"results": results}
}

func stringArg(args map[string]any, key string, required bool) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		if required {
			return "", fmt.Errorf("%w: %s is required", ErrInvalidArguments, key)
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidArguments, key, raw)
	}
	return s, nil
}

func stringsArg(args map[string]any, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: %s is required", ErrInvalidArguments, key)
	}
	switch v := raw.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s[%d] must be a string, got %T", ErrInvalidArguments, key, i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s must be an array of strings, got %T", ErrInvalidArguments, key, raw)
	}
}

func intArg(args map[string]any, key string) (int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return 0, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalidArguments, key, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer, got %T", ErrInvalidArguments, key, raw)
	}
}
