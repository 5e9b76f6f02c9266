package rank_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/minspan/rank"
)

func ExampleRanker_Rank() {
	r := rank.New(rank.Config{})

	results, _ := r.Rank(context.Background(), "curl", 10, rank.FromStrings([]string{
		"c-u-r-l",
		"acccccurlycurrelly",
		"curly",
		"wget",
	}))
	for _, res := range results {
		fmt.Println(res.ID, res.Span, res.Span.Len())
	}
	// Output:
	// curly [0,3] 4
	// acccccurlycurrelly [5,8] 4
	// c-u-r-l [0,6] 7
}

func ExampleRanker_RankStore() {
	store := rank.NewInMemoryStore()
	_, _ = store.Add(rank.Candidate{ID: "span", Text: "span/span.go"})
	_, _ = store.Add(rank.Candidate{ID: "rank", Text: "rank/rank.go"})
	_, _ = store.Add(rank.Candidate{ID: "doc", Text: "rank/doc.go"})

	results, _ := rank.New(rank.Config{}).RankStore(context.Background(), "rk.go", 0, store)
	fmt.Println(results.IDs())
	// Output:
	// [rank doc]
}
