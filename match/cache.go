package match

import (
	"fmt"
	"time"
)

// ResultKey identifies one cached evaluation. A version bump changes the
// key, so stale results simply stop being addressable.
type ResultKey struct {
	CandidateID string
	JobID       string
	Version     int
}

func (k ResultKey) String() string {
	return fmt.Sprintf("%s|%s|%d", k.CandidateID, k.JobID, k.Version)
}

// ResultCache memoizes scoring results per (candidate, job, version).
// Implementations must allow unlimited concurrent reads; the engine
// serializes computation per key on top of this interface.
type ResultCache interface {
	// Get returns the cached result for the key, or nil on miss.
	Get(key ResultKey) *ScoringResult

	// Set stores a result under the key.
	Set(key ResultKey, result *ScoringResult)

	// InvalidateCandidate drops every entry for the candidate, across jobs.
	InvalidateCandidate(candidateID string)

	// InvalidateJob drops every entry for the job, across candidates.
	InvalidateJob(jobID string)

	// Invalidate clears the whole cache.
	Invalidate()
}

// CacheConfig holds configuration for cache behavior.
type CacheConfig struct {
	// TTL is the time-to-live for cached entries.
	// Set to 0 for no expiration (invalidation only).
	TTL time.Duration
}

// DefaultCacheConfig returns sensible defaults for result caching:
// entries never expire, they are only invalidated by profile changes and
// criteria-set version bumps.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{TTL: 0}
}
