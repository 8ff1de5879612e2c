package symbols

import (
	"container/list"
	"sync"
)

// lookupCache memoizes chain results per query, misses included. A context
// never changes once built, so entries only leave by eviction: the least
// recently asked query goes first once the cache is full.
type lookupCache struct {
	mu      sync.Mutex
	size    int
	entries map[Query]*list.Element
	recent  *list.List // of *cachedLookup, most recent first
}

type cachedLookup struct {
	query  Query
	result lookupResult
}

func newLookupCache(size int) *lookupCache {
	return &lookupCache{
		size:    max(size, 1),
		entries: make(map[Query]*list.Element),
		recent:  list.New(),
	}
}

// resolve returns the cached result for q, or runs chain and keeps its
// result. chain runs outside the lock; two readers racing on the same
// query may both run it and store equal results.
func (c *lookupCache) resolve(q Query, chain func() lookupResult) lookupResult {
	c.mu.Lock()
	if el, ok := c.entries[q]; ok {
		c.recent.MoveToFront(el)
		r := el.Value.(*cachedLookup).result
		c.mu.Unlock()
		return r
	}
	c.mu.Unlock()

	r := chain()

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[q]; ok {
		c.recent.MoveToFront(el)
		return r
	}
	if c.recent.Len() >= c.size {
		oldest := c.recent.Back()
		c.recent.Remove(oldest)
		delete(c.entries, oldest.Value.(*cachedLookup).query)
	}
	c.entries[q] = c.recent.PushFront(&cachedLookup{query: q, result: r})
	return r
}

func (c *lookupCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recent.Len()
}
