package classifier

import (
	"sync"
	"time"
)

type labelCacheEntry struct {
	label     string
	timestamp time.Time
}

// LabelCache remembers classifier answers per normalised utterance.
type LabelCache struct {
	mu      sync.RWMutex
	entries map[string]labelCacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewLabelCache(ttl time.Duration) *LabelCache {
	return &LabelCache{
		entries: make(map[string]labelCacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *LabelCache) Get(key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}

	if c.now().Sub(entry.timestamp) >= c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}
	return entry.label, true
}

func (c *LabelCache) Set(key, label string) {
	c.mu.Lock()
	c.entries[key] = labelCacheEntry{label: label, timestamp: c.now()}
	c.mu.Unlock()
}

func (c *LabelCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
