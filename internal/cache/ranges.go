package cache

// Range is a contiguous run of keys starting at Start.
type Range struct {
	Start int
	Count int
}

// BuildRanges collapses ascending keys into contiguous runs:
// [1 2 3 5 6 9] becomes (1,3) (5,2) (9,1).
func BuildRanges(sorted []int) []Range {
	var out []Range
	for _, k := range sorted {
		if n := len(out); n > 0 && out[n-1].Start+out[n-1].Count == k {
			out[n-1].Count++
			continue
		}
		out = append(out, Range{Start: k, Count: 1})
	}
	return out
}
