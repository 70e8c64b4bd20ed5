package match

import "time"

// scoreParams carries the tunables the pipeline needs so the computation
// itself stays a pure function of its inputs.
type scoreParams struct {
	reviewSpread int
	recs         RecommendationTable
	now          time.Time
}

// Score runs the full pipeline for one candidate against one job's
// criteria set: per-criterion evaluation, category aggregation, weighting
// with required gating, classification and explanation. The set is
// validated first; a structurally invalid set fails fast instead of
// producing a misleading score.
func Score(set *JobCriteriaSet, candidate *CandidateProfile) (*ScoringResult, error) {
	if err := ValidateCriteriaSet(set); err != nil {
		return nil, err
	}
	return scoreSet(set, candidate, scoreParams{
		reviewSpread: DefaultReviewSpread,
		recs:         DefaultRecommendations(),
		now:          time.Now().UTC(),
	}), nil
}

// scoreSet assumes the set has already been validated.
func scoreSet(set *JobCriteriaSet, candidate *CandidateProfile, params scoreParams) *ScoringResult {
	results := evaluateAll(set, candidate)

	byID := make(map[string]CriterionResult, len(results))
	for _, r := range results {
		byID[r.CriterionID] = r
	}

	categoryScores := make(map[Category]int, len(Categories))
	for _, cat := range Categories {
		categoryScores[cat] = AggregateCategory(set.ByCategory(cat), byID)
	}

	overall, requiredSatisfied := OverallScore(categoryScores, set.CategoryWeights, set.Criteria, byID)
	status := Classify(overall, requiredSatisfied)
	explanation := Explain(set, byID, categoryScores, status, params.recs)

	candidateID := ""
	if candidate != nil {
		candidateID = candidate.ID
	}

	return &ScoringResult{
		CandidateID:        candidateID,
		JobID:              set.JobID,
		OverallScore:       overall,
		Confidence:         overallConfidence(results),
		CategoryScores:     categoryScores,
		CriterionResults:   results,
		Status:             status,
		UnderReview:        NeedsReview(results, params.reviewSpread),
		Strengths:          explanation.Strengths,
		Concerns:           explanation.Concerns,
		RedFlags:           explanation.RedFlags,
		Recommendations:    explanation.Recommendations,
		ComputedAt:         params.now,
		CriteriaSetVersion: set.Version,
	}
}
