package symbols

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupCacheEvictsLeastRecentQuery(t *testing.T) {
	c := newLookupCache(2)
	runs := map[string]int{}
	ask := func(name string) lookupResult {
		return c.resolve(Query{Name: name}, func() lookupResult {
			runs[name]++
			return lookupResult{strategy: "declared-type:" + name}
		})
	}

	ask("Book")
	ask("Author")
	ask("Book")
	ask("Review")

	assert.Equal(t, 2, c.len())
	assert.Equal(t, "declared-type:Book", ask("Book").strategy)
	assert.Equal(t, 1, runs["Book"], "Book stayed cached")
	ask("Author")
	assert.Equal(t, 2, runs["Author"], "Author was evicted and ran again")
}

func TestLookupCacheSizeFloor(t *testing.T) {
	for _, size := range []int{0, -3} {
		c := newLookupCache(size)
		c.resolve(Query{Name: "Book"}, func() lookupResult { return lookupResult{} })
		c.resolve(Query{Name: "Author"}, func() lookupResult { return lookupResult{} })
		assert.Equal(t, 1, c.len(), "size %d", size)
	}
}

func TestLookupCacheConcurrentReaders(t *testing.T) {
	c := newLookupCache(64)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				name := fmt.Sprintf("Dto%d", (g*31+i)%100)
				r := c.resolve(Query{Name: name}, func() lookupResult { return lookupResult{strategy: name} })
				assert.Equal(t, name, r.strategy)
			}
		}(g)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.len(), 64)
}
