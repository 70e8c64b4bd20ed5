package match

// EvaluateCriterion evaluates a single criterion against a candidate
// profile. Pure function: no side effects, never fails. Missing profile
// data yields met=false, score=0 and low confidence rather than an error,
// so one weak criterion can never abort a batch.
func EvaluateCriterion(criterion Criterion, candidate *CandidateProfile) CriterionResult {
	if candidate == nil {
		o := missingOutcome("candidate profile")
		return CriterionResult{
			CriterionID: criterion.ID,
			Met:         o.met,
			Score:       o.score,
			Confidence:  o.confidence,
			Reasoning:   o.reasoning,
		}
	}

	o := criterion.Condition.eval(candidate)
	return CriterionResult{
		CriterionID: criterion.ID,
		Met:         o.met,
		Score:       clamp(o.score, 0, 100),
		Confidence:  clamp(o.confidence, 0, 100),
		Reasoning:   o.reasoning,
	}
}

// evaluateAll runs every criterion in set order and returns results
// indexed identically to set.Criteria.
func evaluateAll(set *JobCriteriaSet, candidate *CandidateProfile) []CriterionResult {
	results := make([]CriterionResult, len(set.Criteria))
	for i, c := range set.Criteria {
		results[i] = EvaluateCriterion(c, candidate)
	}
	return results
}
