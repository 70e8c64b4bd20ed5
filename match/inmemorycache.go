package match

import (
	"sync"
	"time"
)

type cacheEntry struct {
	result   *ScoringResult
	cachedAt time.Time
}

// InMemoryResultCache is a thread-safe in-memory ResultCache.
type InMemoryResultCache struct {
	entries map[ResultKey]cacheEntry
	config  CacheConfig
	mu      sync.RWMutex
}

// NewInMemoryResultCache creates a new in-memory result cache.
func NewInMemoryResultCache(config CacheConfig) *InMemoryResultCache {
	return &InMemoryResultCache{
		entries: make(map[ResultKey]cacheEntry),
		config:  config,
	}
}

// Get returns the cached result for the key, or nil on miss/expiry.
// Results are immutable by contract, so the stored pointer is returned
// as-is without copying.
func (c *InMemoryResultCache) Get(key ResultKey) *ScoringResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.config.TTL > 0 && time.Since(entry.cachedAt) > c.config.TTL {
		return nil
	}
	return entry.result
}

// Set stores a result under the key.
func (c *InMemoryResultCache) Set(key ResultKey, result *ScoringResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{result: result, cachedAt: time.Now()}
}

// InvalidateCandidate drops every entry for the candidate.
func (c *InMemoryResultCache) InvalidateCandidate(candidateID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.CandidateID == candidateID {
			delete(c.entries, key)
		}
	}
}

// InvalidateJob drops every entry for the job.
func (c *InMemoryResultCache) InvalidateJob(jobID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.JobID == jobID {
			delete(c.entries, key)
		}
	}
}

// Invalidate clears the whole cache.
func (c *InMemoryResultCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[ResultKey]cacheEntry)
}
