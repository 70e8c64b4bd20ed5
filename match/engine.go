package match

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Engine wires the scoring pipeline to its collaborators: a ProfileSource
// for candidate data, a CriteriaStore for job configuration, and a
// ResultCache for memoized results. It holds no other mutable state;
// every evaluation is a pure function of its inputs.
type Engine struct {
	profiles     ProfileSource
	criteria     CriteriaStore
	cache        ResultCache
	workers      int
	reviewSpread int
	recs         RecommendationTable
	log          *zap.Logger
	now          func() time.Time

	flight singleflight.Group
	mu     sync.Mutex // serializes criteria mutations (load-modify-store)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Defaults to a no-op logger so the
// library stays silent unless the host wires one in.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithWorkers bounds batch concurrency. Defaults to runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithCache replaces the default in-memory result cache.
func WithCache(cache ResultCache) Option {
	return func(e *Engine) { e.cache = cache }
}

// WithReviewSpread overrides the confidence-spread threshold that raises
// the under-review flag.
func WithReviewSpread(spread int) Option {
	return func(e *Engine) {
		if spread > 0 {
			e.reviewSpread = spread
		}
	}
}

// WithRecommendations replaces the built-in recommendation table.
func WithRecommendations(recs RecommendationTable) Option {
	return func(e *Engine) { e.recs = recs }
}

// withClock fixes the timestamp source; used by tests for determinism.
func withClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a scoring engine. Both collaborators are required;
// the cache is an explicitly constructed object rather than package state
// so isolated instances can coexist (one per test, per tenant, etc).
func NewEngine(profiles ProfileSource, criteria CriteriaStore, opts ...Option) (*Engine, error) {
	if profiles == nil {
		return nil, fmt.Errorf("profile source is required")
	}
	if criteria == nil {
		return nil, fmt.Errorf("criteria store is required")
	}

	e := &Engine{
		profiles:     profiles,
		criteria:     criteria,
		cache:        NewInMemoryResultCache(DefaultCacheConfig()),
		workers:      runtime.NumCPU(),
		reviewSpread: DefaultReviewSpread,
		recs:         DefaultRecommendations(),
		log:          zap.NewNop(),
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// EvaluateOne scores a single candidate against a job. Results are served
// from the cache when the criteria-set version is unchanged; concurrent
// callers racing for the same key share one computation instead of
// recomputing.
func (e *Engine) EvaluateOne(ctx context.Context, candidateID, jobID string) (*ScoringResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set, err := e.criteria.Get(jobID)
	if err != nil {
		return nil, fmt.Errorf("loading criteria for job %s: %w", jobID, err)
	}
	if err := ValidateCriteriaSet(set); err != nil {
		return nil, err
	}

	key := ResultKey{CandidateID: candidateID, JobID: jobID, Version: set.Version}
	if cached := e.cache.Get(key); cached != nil {
		return cached, nil
	}

	v, err, _ := e.flight.Do(key.String(), func() (any, error) {
		// A racing caller may have finished while we waited for the key.
		if cached := e.cache.Get(key); cached != nil {
			return cached, nil
		}

		candidate, err := e.profiles.Candidate(candidateID)
		if err != nil {
			return nil, fmt.Errorf("loading candidate %s: %w", candidateID, err)
		}

		result := scoreSet(set, candidate, scoreParams{
			reviewSpread: e.reviewSpread,
			recs:         e.recs,
			now:          e.now(),
		})
		e.cache.Set(key, result)

		e.log.Debug("candidate scored",
			zap.String("candidateId", candidateID),
			zap.String("jobId", jobID),
			zap.Int("version", set.Version),
			zap.Int("overallScore", result.OverallScore),
			zap.String("status", string(result.Status)),
			zap.Bool("underReview", result.UnderReview),
		)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ScoringResult), nil
}

// EvaluateBatch scores many candidates against one job concurrently,
// bounded by the configured worker count. Cancelling the context stops
// submitting new pairs; in-flight evaluations run to completion since
// they are pure computations. The returned slice is aligned with
// candidateIDs; entries that failed or were never submitted are nil and
// their errors are joined into the returned error.
func (e *Engine) EvaluateBatch(ctx context.Context, candidateIDs []string, jobID string) ([]*ScoringResult, error) {
	results := make([]*ScoringResult, len(candidateIDs))
	errs := make([]error, len(candidateIDs))

	g := &errgroup.Group{}
	g.SetLimit(e.workers)

	for i, candidateID := range candidateIDs {
		i, candidateID := i, candidateID
		if ctx.Err() != nil {
			errs[i] = fmt.Errorf("candidate %s: %w", candidateID, ctx.Err())
			continue
		}
		g.Go(func() error {
			r, err := e.EvaluateOne(context.WithoutCancel(ctx), candidateID, jobID)
			if err != nil {
				// One failing candidate must not abort the batch.
				errs[i] = err
				return nil
			}
			results[i] = r
			return nil
		})
	}

	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		return results, err
	}
	return results, nil
}

// Summarize returns the cached result for a pair at the current
// criteria-set version without recomputing. ErrNotCached when nothing is
// cached, so read-only dashboards never trigger evaluation work.
func (e *Engine) Summarize(candidateID, jobID string) (*ScoringResult, error) {
	set, err := e.criteria.Get(jobID)
	if err != nil {
		return nil, fmt.Errorf("loading criteria for job %s: %w", jobID, err)
	}

	key := ResultKey{CandidateID: candidateID, JobID: jobID, Version: set.Version}
	cached := e.cache.Get(key)
	if cached == nil {
		return nil, fmt.Errorf("candidate %s, job %s: %w", candidateID, jobID, ErrNotCached)
	}
	return cached, nil
}

// InvalidateCandidate drops cached results for a candidate across all
// jobs. Callers invoke this whenever a candidate profile changes.
func (e *Engine) InvalidateCandidate(candidateID string) {
	e.cache.InvalidateCandidate(candidateID)
	e.log.Debug("candidate results invalidated", zap.String("candidateId", candidateID))
}

// CriteriaSet returns the stored criteria set for a job.
func (e *Engine) CriteriaSet(jobID string) (*JobCriteriaSet, error) {
	return e.criteria.Get(jobID)
}

// AddCriterion appends a criterion to a job's criteria set, creating the
// set with default category weights when the job has none yet. The
// mutated set is validated before it is persisted; on success the version
// is bumped and every cached result for the job is invalidated.
func (e *Engine) AddCriterion(jobID string, criterion Criterion) (*JobCriteriaSet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	set, err := e.criteria.Get(jobID)
	if errors.Is(err, ErrCriteriaSetNotFound) {
		set = &JobCriteriaSet{
			JobID:           jobID,
			CategoryWeights: DefaultCategoryWeights(),
		}
	} else if err != nil {
		return nil, err
	}

	for _, existing := range set.Criteria {
		if existing.ID == criterion.ID {
			return nil, fmt.Errorf("criterion with ID %s already exists", criterion.ID)
		}
	}
	set.Criteria = append(set.Criteria, criterion)

	return e.commit(set)
}

// UpdateCriterion replaces an existing criterion.
func (e *Engine) UpdateCriterion(jobID string, criterion Criterion) (*JobCriteriaSet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	set, err := e.criteria.Get(jobID)
	if err != nil {
		return nil, err
	}

	found := false
	for i, existing := range set.Criteria {
		if existing.ID == criterion.ID {
			set.Criteria[i] = criterion
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("criterion with ID %s not found", criterion.ID)
	}

	return e.commit(set)
}

// RemoveCriterion deletes a criterion from a job's criteria set.
func (e *Engine) RemoveCriterion(jobID, criterionID string) (*JobCriteriaSet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	set, err := e.criteria.Get(jobID)
	if err != nil {
		return nil, err
	}

	found := false
	for i, existing := range set.Criteria {
		if existing.ID == criterionID {
			set.Criteria = append(set.Criteria[:i], set.Criteria[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("criterion with ID %s not found", criterionID)
	}

	return e.commit(set)
}

// SetCategoryWeights replaces a job's category weight map. The map must
// sum to exactly 100; invalid maps are rejected before anything is
// persisted.
func (e *Engine) SetCategoryWeights(jobID string, weights map[Category]int) (*JobCriteriaSet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	set, err := e.criteria.Get(jobID)
	if err != nil {
		return nil, err
	}

	set.CategoryWeights = weights
	return e.commit(set)
}

// commit validates, versions, persists and invalidates in that order, so
// an invalid mutation leaves both the store and the cache untouched.
// Callers must hold e.mu.
func (e *Engine) commit(set *JobCriteriaSet) (*JobCriteriaSet, error) {
	if err := ValidateCriteriaSet(set); err != nil {
		return nil, err
	}

	set.Version++
	if err := e.criteria.Put(set); err != nil {
		return nil, fmt.Errorf("persisting criteria set for job %s: %w", set.JobID, err)
	}
	e.cache.InvalidateJob(set.JobID)

	e.log.Info("criteria set updated",
		zap.String("jobId", set.JobID),
		zap.Int("version", set.Version),
		zap.Int("criteria", len(set.Criteria)),
	)
	return set, nil
}
