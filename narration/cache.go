package narration

import "sync"

// Cache holds the audio of exactly one article, keyed by article ID.
type Cache struct {
	mu    sync.Mutex
	key   string
	asset *Asset
}

// Get returns the cached asset when key matches the stored entry.
func (c *Cache) Get(key string) (Asset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.asset == nil || c.key != key {
		return Asset{}, false
	}
	return *c.asset, true
}

// Put replaces the entry.
func (c *Cache) Put(key string, a Asset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = key
	c.asset = &a
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = ""
	c.asset = nil
}

// Empty reports whether nothing is cached.
func (c *Cache) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.asset == nil
}
