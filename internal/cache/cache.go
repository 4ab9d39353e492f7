// Package cache holds scored analyses for the lifetime of the process.
// No TTL, no size bound, no persistence: bounded only by process memory and
// cleared by restart.
package cache

import (
	"crypto/md5"
	"fmt"
	"sync"

	"job-agent/internal/ai"
)

// Key derives the cache key for a (title, company) pair. Location and
// description are deliberately ignored: the same pair reuses the cached
// result even when the posting differs.
func Key(title, company string) string {
	sum := md5.Sum([]byte(title + company))
	return fmt.Sprintf("%x", sum)
}

// Cache is a mutex-guarded mapping from Key to the last analysis for that
// pair. Safe for concurrent handlers.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*ai.FitAnalysis
}

func New() *Cache {
	return &Cache{entries: make(map[string]*ai.FitAnalysis)}
}

func (c *Cache) Get(key string) (*ai.FitAnalysis, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	analysis, ok := c.entries[key]
	return analysis, ok
}

// Put stores the analysis under key, overwriting any previous entry.
func (c *Cache) Put(key string, analysis *ai.FitAnalysis) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = analysis
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
