package span

import (
	"context"
	"strings"
	"testing"
)

func BenchmarkFindString_Short(b *testing.B) {
	for b.Loop() {
		_, _ = FindString("curl", "acccccurlycurrelly")
	}
}

func BenchmarkFindString_LargeReference(b *testing.B) {
	reference := strings.Repeat("a", 100_000) + "b"

	b.ResetTimer()
	for b.Loop() {
		_, _ = FindString("ab", reference)
	}
}

func BenchmarkFind_LongQuery(b *testing.B) {
	query := []rune("internal/input/fuzzy")
	reference := []rune(strings.Repeat("internal/project/search/", 200) + "internal/input/fuzzy/matcher.go")

	b.ResetTimer()
	for b.Loop() {
		_, _ = Find(query, reference)
	}
}

func BenchmarkFindContext_LargeReference(b *testing.B) {
	ctx := context.Background()
	query := []byte("ab")
	reference := []byte(strings.Repeat("a", 100_000) + "b")

	b.ResetTimer()
	for b.Loop() {
		_, _, _ = FindContext(ctx, query, reference)
	}
}
