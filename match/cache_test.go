package match

import (
	"testing"
	"time"
)

func TestResultKeyString(t *testing.T) {
	key := ResultKey{CandidateID: "cand-1", JobID: "job-9", Version: 3}
	if got := key.String(); got != "cand-1|job-9|3" {
		t.Errorf("String() = %q, want cand-1|job-9|3", got)
	}
}

func TestCacheGetSet(t *testing.T) {
	cache := NewInMemoryResultCache(DefaultCacheConfig())
	key := ResultKey{CandidateID: "c1", JobID: "j1", Version: 1}

	if got := cache.Get(key); got != nil {
		t.Fatalf("miss returned %v, want nil", got)
	}

	result := &ScoringResult{CandidateID: "c1", JobID: "j1", OverallScore: 80}
	cache.Set(key, result)

	if got := cache.Get(key); got != result {
		t.Error("hit must return the stored pointer")
	}

	// A version bump is a different key entirely.
	if got := cache.Get(ResultKey{CandidateID: "c1", JobID: "j1", Version: 2}); got != nil {
		t.Error("version bump must miss")
	}
}

func TestCacheInvalidateCandidate(t *testing.T) {
	cache := NewInMemoryResultCache(DefaultCacheConfig())
	cache.Set(ResultKey{CandidateID: "c1", JobID: "j1", Version: 1}, &ScoringResult{})
	cache.Set(ResultKey{CandidateID: "c1", JobID: "j2", Version: 1}, &ScoringResult{})
	cache.Set(ResultKey{CandidateID: "c2", JobID: "j1", Version: 1}, &ScoringResult{})

	cache.InvalidateCandidate("c1")

	if cache.Get(ResultKey{CandidateID: "c1", JobID: "j1", Version: 1}) != nil {
		t.Error("c1/j1 survived candidate invalidation")
	}
	if cache.Get(ResultKey{CandidateID: "c1", JobID: "j2", Version: 1}) != nil {
		t.Error("c1/j2 survived candidate invalidation")
	}
	if cache.Get(ResultKey{CandidateID: "c2", JobID: "j1", Version: 1}) == nil {
		t.Error("other candidates must be untouched")
	}
}

func TestCacheInvalidateJob(t *testing.T) {
	cache := NewInMemoryResultCache(DefaultCacheConfig())
	cache.Set(ResultKey{CandidateID: "c1", JobID: "j1", Version: 1}, &ScoringResult{})
	cache.Set(ResultKey{CandidateID: "c2", JobID: "j1", Version: 1}, &ScoringResult{})
	cache.Set(ResultKey{CandidateID: "c1", JobID: "j2", Version: 1}, &ScoringResult{})

	cache.InvalidateJob("j1")

	if cache.Get(ResultKey{CandidateID: "c1", JobID: "j1", Version: 1}) != nil {
		t.Error("c1/j1 survived job invalidation")
	}
	if cache.Get(ResultKey{CandidateID: "c2", JobID: "j1", Version: 1}) != nil {
		t.Error("c2/j1 survived job invalidation")
	}
	if cache.Get(ResultKey{CandidateID: "c1", JobID: "j2", Version: 1}) == nil {
		t.Error("other jobs must be untouched")
	}
}

func TestCacheInvalidateAll(t *testing.T) {
	cache := NewInMemoryResultCache(DefaultCacheConfig())
	cache.Set(ResultKey{CandidateID: "c1", JobID: "j1", Version: 1}, &ScoringResult{})
	cache.Set(ResultKey{CandidateID: "c2", JobID: "j2", Version: 1}, &ScoringResult{})

	cache.Invalidate()

	if cache.Get(ResultKey{CandidateID: "c1", JobID: "j1", Version: 1}) != nil ||
		cache.Get(ResultKey{CandidateID: "c2", JobID: "j2", Version: 1}) != nil {
		t.Error("entries survived a full invalidation")
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	cache := NewInMemoryResultCache(CacheConfig{TTL: 10 * time.Millisecond})
	key := ResultKey{CandidateID: "c1", JobID: "j1", Version: 1}
	cache.Set(key, &ScoringResult{})

	if cache.Get(key) == nil {
		t.Fatal("fresh entry must hit")
	}

	time.Sleep(20 * time.Millisecond)
	if cache.Get(key) != nil {
		t.Error("expired entry must miss")
	}
}
