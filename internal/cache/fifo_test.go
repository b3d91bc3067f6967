package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vmunix/vkine/internal/catalog"
)

func TestFIFO_RetainsMostRecentDistinctKeys(t *testing.T) {
	c := NewFIFO[string]("test", 3)
	for k := 1; k <= 5; k++ {
		c.Put(k, fmt.Sprint("v", k))
	}

	hits, misses := c.Get([]int{1, 2, 3, 4, 5})

	assert.Equal(t, []int{1, 2}, misses)
	assert.Equal(t, map[int]string{3: "v3", 4: "v4", 5: "v5"}, hits)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []int{3, 4, 5}, c.Keys())
}

func TestFIFO_OverwriteKeepsOrderAndValue(t *testing.T) {
	c := NewFIFO[string]("test", 2)
	c.Put(1, "old")
	c.Put(2, "b")
	c.Put(1, "new") // no reorder

	hits, _ := c.Get([]int{1})
	assert.Equal(t, "new", hits[1])

	c.Put(3, "c") // evicts 1, the oldest distinct key
	hits, misses := c.Get([]int{1, 2, 3})
	assert.Equal(t, []int{1}, misses)
	assert.Equal(t, map[int]string{2: "b", 3: "c"}, hits)
}

func TestFIFO_WithCloneIsolatesCallers(t *testing.T) {
	c := NewFIFO[catalog.Movie]("test", 2).WithClone(catalog.Movie.Clone)
	genres := []string{"Sci-Fi", "Horror"}
	c.Put(1, catalog.Movie{ID: 1, Genres: genres})
	genres[0] = "Comedy"

	hits, _ := c.Get([]int{1})
	hits[1].Genres[1] = "Drama"

	again, _ := c.Get([]int{1})
	assert.Equal(t, []string{"Sci-Fi", "Horror"}, again[1].Genres)
}

func TestFIFO_ZeroCapacityDisables(t *testing.T) {
	for _, capacity := range []int{0, -5} {
		c := NewFIFO[int]("test", capacity)
		c.Put(1, 1)

		hits, misses := c.Get([]int{1})
		assert.Empty(t, hits)
		assert.Equal(t, []int{1}, misses)
		assert.Zero(t, c.Len())
	}
}

func TestFIFO_MissesSortedAndDeduplicated(t *testing.T) {
	c := NewFIFO[int]("test", 10)
	c.Put(4, 4)

	_, misses := c.Get([]int{9, 4, 2, 9, 7, 2})
	assert.Equal(t, []int{2, 7, 9}, misses)
}

func TestFIFO_ConcurrentAccess(t *testing.T) {
	c := NewFIFO[int]("test", 50)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				c.Put(g*1000+i, i)
				c.Get([]int{g*1000 + i, i})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, c.Len())
	assert.Len(t, c.Keys(), 50)
}

func TestBuildRanges(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want []Range
	}{
		{"empty", nil, nil},
		{"single", []int{4}, []Range{{4, 1}}},
		{"mixed", []int{1, 2, 3, 5, 6, 9}, []Range{{1, 3}, {5, 2}, {9, 1}}},
		{"all contiguous", []int{0, 1, 2, 3}, []Range{{0, 4}}},
		{"all gaps", []int{1, 3, 5}, []Range{{1, 1}, {3, 1}, {5, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildRanges(tt.in))
		})
	}
}
