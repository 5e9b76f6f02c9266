package rank

import lru "github.com/hashicorp/golang-lru/v2"

// DefaultCacheSize is the number of rankings kept when Config.CacheSize is 0.
const DefaultCacheSize = 128

// resultCache is an LRU of rankings keyed by query and candidate fingerprint.
// Results are copied on the way in and out so callers cannot mutate cached
// entries.
type resultCache struct {
	lru *lru.Cache[string, Results]
}

// newResultCache returns nil, which disables caching, when size is not
// positive.
func newResultCache(size int) *resultCache {
	c, err := lru.New[string, Results](size)
	if err != nil {
		return nil
	}
	return &resultCache{lru: c}
}

func (c *resultCache) get(key string) (Results, bool) {
	results, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return copyResults(results), true
}

func (c *resultCache) set(key string, results Results) {
	c.lru.Add(key, copyResults(results))
}

func (c *resultCache) clear() {
	c.lru.Purge()
}

func (c *resultCache) size() int {
	return c.lru.Len()
}

func copyResults(results Results) Results {
	copied := make(Results, len(results))
	copy(copied, results)
	return copied
}
