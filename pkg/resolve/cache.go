package resolve

import (
	"sync"
)

// Cache memoizes effective rule sets keyed by (target, tool, set hash).
// Entries are derived, re-computable values, so concurrent writers simply use
// last-write-wins.
type Cache struct {
	entries map[string]*EffectiveRuleSet
	mu      sync.RWMutex
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*EffectiveRuleSet),
	}
}

func (c *Cache) Get(key string) (*EffectiveRuleSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[key]

	return v, ok
}

func (c *Cache) Put(key string, v *EffectiveRuleSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = v
}

// Purge drops every entry. Called on document reload; whole-cache
// invalidation keeps the correctness argument simple, and the set-hash key
// component already prevents stale hits in between.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*EffectiveRuleSet)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func cacheKey(req Request, setHash string) string {
	return req.TargetPath + "\x00" + req.ToolID + "\x00" + setHash
}
