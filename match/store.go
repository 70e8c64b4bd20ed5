package match

import (
	"fmt"
	"sync"
	"time"
)

// CriteriaStore manages persistence of job criteria sets.
type CriteriaStore interface {
	// Get returns the criteria set for a job, or ErrCriteriaSetNotFound.
	Get(jobID string) (*JobCriteriaSet, error)

	// Put inserts or replaces a criteria set.
	Put(set *JobCriteriaSet) error

	// Delete removes a job's criteria set.
	Delete(jobID string) error

	// ListJobs returns the job ids with a configured criteria set.
	ListJobs() ([]string, error)
}

// ProfileSource supplies fully-loaded candidate profiles. The engine
// never fetches or assembles profile data itself.
type ProfileSource interface {
	// Candidate returns the profile for an id, or ErrProfileNotFound.
	Candidate(id string) (*CandidateProfile, error)
}

// ProfileStore extends ProfileSource with mutation, for deployments that
// keep profiles in process (tests, the bundled server).
type ProfileStore interface {
	ProfileSource
	Put(profile *CandidateProfile) error
	Delete(id string) error
}

// InMemoryCriteriaStore implements CriteriaStore using an in-memory map.
// Thread-safe with RWMutex.
type InMemoryCriteriaStore struct {
	sets map[string]*JobCriteriaSet
	mu   sync.RWMutex
}

// NewInMemoryCriteriaStore creates a new in-memory criteria store.
func NewInMemoryCriteriaStore() *InMemoryCriteriaStore {
	return &InMemoryCriteriaStore{sets: make(map[string]*JobCriteriaSet)}
}

// Get retrieves a criteria set by job id.
func (s *InMemoryCriteriaStore) Get(jobID string) (*JobCriteriaSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[jobID]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", jobID, ErrCriteriaSetNotFound)
	}
	return copySet(set), nil
}

// Put inserts or replaces a criteria set, stamping timestamps.
func (s *InMemoryCriteriaStore) Put(set *JobCriteriaSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copySet(set)
	now := time.Now()
	if existing, ok := s.sets[set.JobID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.sets[set.JobID] = stored
	return nil
}

// Delete removes a criteria set.
func (s *InMemoryCriteriaStore) Delete(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sets[jobID]; !ok {
		return fmt.Errorf("job %s: %w", jobID, ErrCriteriaSetNotFound)
	}
	delete(s.sets, jobID)
	return nil
}

// ListJobs returns the job ids with a configured criteria set.
func (s *InMemoryCriteriaStore) ListJobs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]string, 0, len(s.sets))
	for jobID := range s.sets {
		jobs = append(jobs, jobID)
	}
	return jobs, nil
}

// copySet deep-copies a criteria set so callers can never mutate stored
// state through a returned pointer.
func copySet(set *JobCriteriaSet) *JobCriteriaSet {
	out := *set
	out.Criteria = make([]Criterion, len(set.Criteria))
	copy(out.Criteria, set.Criteria)
	out.CategoryWeights = make(map[Category]int, len(set.CategoryWeights))
	for cat, w := range set.CategoryWeights {
		out.CategoryWeights[cat] = w
	}
	return &out
}

// InMemoryProfileStore implements ProfileStore using an in-memory map.
type InMemoryProfileStore struct {
	profiles map[string]*CandidateProfile
	mu       sync.RWMutex
}

// NewInMemoryProfileStore creates a new in-memory profile store.
func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{profiles: make(map[string]*CandidateProfile)}
}

// Candidate returns the profile for an id.
func (s *InMemoryProfileStore) Candidate(id string) (*CandidateProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("candidate %s: %w", id, ErrProfileNotFound)
	}
	cp := copyProfile(p)
	return cp, nil
}

// Put inserts or replaces a candidate profile.
func (s *InMemoryProfileStore) Put(profile *CandidateProfile) error {
	if profile == nil || profile.ID == "" {
		return fmt.Errorf("profile must have an id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = copyProfile(profile)
	return nil
}

// Delete removes a candidate profile.
func (s *InMemoryProfileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; !ok {
		return fmt.Errorf("candidate %s: %w", id, ErrProfileNotFound)
	}
	delete(s.profiles, id)
	return nil
}

func copyProfile(p *CandidateProfile) *CandidateProfile {
	out := *p
	out.Skills = make([]Skill, len(p.Skills))
	copy(out.Skills, p.Skills)
	out.AccessibilityNeeds = append([]string(nil), p.AccessibilityNeeds...)
	out.Accommodations = append([]string(nil), p.Accommodations...)
	return &out
}
