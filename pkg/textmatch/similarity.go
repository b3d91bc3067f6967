package textmatch

import (
	"sort"

	"github.com/hbollon/go-edlib"
)

// Similarity returns the Jaro-Winkler similarity (0.0-1.0) of two titles after folding.
// Jaro-Winkler favors shared prefixes, which suits movie titles.
func Similarity(a, b string) float64 {
	return float64(edlib.JaroWinklerSimilarity(Fold(a), Fold(b)))
}

// RankByTitle sorts items by descending similarity of title(item) to query.
// Equal scores keep their original order.
func RankByTitle[T any](query string, items []T, title func(T) string) {
	scores := make([]float64, len(items))
	for i, it := range items {
		scores[i] = Similarity(query, title(it))
	}
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	sorted := make([]T, len(items))
	for i, j := range idx {
		sorted[i] = items[j]
	}
	copy(items, sorted)
}
