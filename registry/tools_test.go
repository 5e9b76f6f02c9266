package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newToolRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := newTestRegistry()
	if err := reg.RegisterSpanTools(); err != nil {
		t.Fatalf("RegisterSpanTools failed: %v", err)
	}
	return reg
}

func TestRegisterSpanTools(t *testing.T) {
	reg := newToolRegistry(t)
	ctx := context.Background()

	for _, name := range []string{SpanToolName, RankToolName} {
		tool, err := reg.GetTool(ctx, name)
		if err != nil {
			t.Fatalf("GetTool(%q) failed: %v", name, err)
		}
		if tool.Description == "" {
			t.Errorf("%s: expected a description", name)
		}
		if len(tool.Tags) == 0 {
			t.Errorf("%s: expected default tags", name)
		}
	}

	if err := reg.RegisterSpanTools(); !errors.Is(err, ErrToolExists) {
		t.Errorf("expected ErrToolExists on second registration, got %v", err)
	}
}

func TestRegisterSpanTools_Namespace(t *testing.T) {
	reg := newTestRegistry()
	if err := reg.RegisterSpanTools(WithNamespace("text")); err != nil {
		t.Fatalf("RegisterSpanTools failed: %v", err)
	}
	if _, err := reg.GetTool(context.Background(), "text:span"); err != nil {
		t.Errorf("expected namespaced span tool, got %v", err)
	}
}

func TestSpanTool(t *testing.T) {
	reg := newToolRegistry(t)

	tests := []struct {
		name string
		args map[string]any
		want map[string]any
	}{
		{
			name: "runes",
			args: map[string]any{"query": "curl", "reference": "the curly brace"},
			want: map[string]any{"found": true, "start": 4, "end": 7, "length": 4, "positions": []int{4, 5, 6, 7}},
		},
		{
			name: "gaps",
			args: map[string]any{"query": "ace", "reference": "abcde"},
			want: map[string]any{"found": true, "start": 0, "end": 4, "length": 5, "positions": []int{0, 2, 4}},
		},
		{
			name: "unicode offsets",
			args: map[string]any{"query": "ñb", "reference": "añxb"},
			want: map[string]any{"found": true, "start": 1, "end": 3, "length": 3, "positions": []int{1, 3}},
		},
		{
			name: "bytes",
			args: map[string]any{"query": "ñb", "reference": "añxb", "unit": UnitByte},
			want: map[string]any{"found": true, "start": 1, "end": 4, "length": 4, "positions": []int{1, 2, 4}},
		},
		{
			name: "words",
			args: map[string]any{"query": "git commit", "reference": "git add . && git commit -m wip", "unit": UnitWord},
			want: map[string]any{"found": true, "start": 4, "end": 5, "length": 2, "positions": []int{4, 5}},
		},
		{
			name: "not found",
			args: map[string]any{"query": "xyz", "reference": "abc"},
			want: map[string]any{"found": false},
		},
		{
			name: "empty query",
			args: map[string]any{"query": "", "reference": "abc"},
			want: map[string]any{"found": true, "start": 0, "end": 0, "length": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Execute(context.Background(), SpanToolName, tt.args)
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("span result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSpanTool_InvalidArguments(t *testing.T) {
	reg := newToolRegistry(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing query", map[string]any{"reference": "abc"}},
		{"missing reference", map[string]any{"query": "a"}},
		{"wrong type", map[string]any{"query": 3, "reference": "abc"}},
		{"unknown unit", map[string]any{"query": "a", "reference": "abc", "unit": "line"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Execute(context.Background(), SpanToolName, tt.args)
			if !errors.Is(err, ErrInvalidArguments) {
				t.Errorf("expected ErrInvalidArguments, got %v", err)
			}
		})
	}
}

func TestSpanTool_Cancelled(t *testing.T) {
	reg := newToolRegistry(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reg.Execute(ctx, SpanToolName, map[string]any{"query": "a", "reference": "abc"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRankTool(t *testing.T) {
	reg := newToolRegistry(t)

	got, err := reg.Execute(context.Background(), RankToolName, map[string]any{
		"query":      "gco",
		"candidates": []any{"git checkout", "git commit", "go", "gcc -o out"},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	want := map[string]any{
		"results": []map[string]any{
			{"id": "gcc -o out", "start": 0, "end": 5, "length": 6},
			{"id": "git commit", "start": 0, "end": 5, "length": 6},
			{"id": "git checkout", "start": 0, "end": 9, "length": 10},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rank result mismatch (-want +got):\n%s", diff)
	}
}

func TestRankTool_Limit(t *testing.T) {
	reg := newToolRegistry(t)

	got, err := reg.Execute(context.Background(), RankToolName, map[string]any{
		"query":      "a",
		"candidates": []string{"ba", "a", "cca"},
		"limit":      float64(2),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	results := got.(map[string]any)["results"].([]map[string]any)
	ids := make([]string, len(results))
	for i, res := range results {
		ids[i] = res["id"].(string)
	}
	if diff := cmp.Diff([]string{"a", "ba"}, ids); diff != "" {
		t.Errorf("ranked IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestRankTool_NoMatches(t *testing.T) {
	reg := newToolRegistry(t)

	got, err := reg.Execute(context.Background(), RankToolName, map[string]any{
		"query":      "zz",
		"candidates": []string{"abc"},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	results := got.(map[string]any)["results"].([]map[string]any)
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil results, got %#v", results)
	}
}

func TestRankTool_InvalidArguments(t *testing.T) {
	reg := newToolRegistry(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing candidates", map[string]any{"query": "a"}},
		{"candidate not a string", map[string]any{"query": "a", "candidates": []any{"a", 1}}},
		{"candidates not an array", map[string]any{"query": "a", "candidates": "a"}},
		{"fractional limit", map[string]any{"query": "a", "candidates": []string{"a"}, "limit": 1.5}},
		{"negative limit", map[string]any{"query": "a", "candidates": []string{"a"}, "limit": -1}},
		{"limit wrong type", map[string]any{"query": "a", "candidates": []string{"a"}, "limit": "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Execute(context.Background(), RankToolName, tt.args)
			if !errors.Is(err, ErrInvalidArguments) {
				t.Errorf("expected ErrInvalidArguments, got %v", err)
			}
		})
	}
}
