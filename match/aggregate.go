package match

import "math"

// AggregateCategory combines the results of one category's criteria into a
// single 0-100 score: a weighted average by intra-category weight,
// normalized by the weights actually present. A category with no criteria
// is unconstrained and scores a neutral 100.
func AggregateCategory(criteria []Criterion, results map[string]CriterionResult) int {
	var weightSum, weighted float64
	for _, c := range criteria {
		r, ok := results[c.ID]
		if !ok {
			continue
		}
		w := float64(c.Weight)
		if w <= 0 {
			continue
		}
		weightSum += w
		weighted += w * float64(r.Score)
	}
	if weightSum == 0 {
		return 100
	}
	return clamp(int(math.Round(weighted/weightSum)), 0, 100)
}

// OverallScore combines category scores under the configured category
// weights and applies required-criteria gating. The numeric score is
// Σ(categoryScore × categoryWeight)/100 rounded and clamped; any unmet
// Required criterion forces requiredSatisfied=false no matter how high
// the number is.
func OverallScore(categoryScores map[Category]int, weights map[Category]int, criteria []Criterion, results map[string]CriterionResult) (overall int, requiredSatisfied bool) {
	var sum float64
	for cat, w := range weights {
		score, ok := categoryScores[cat]
		if !ok {
			score = 100
		}
		sum += float64(score) * float64(w)
	}
	overall = clamp(int(math.Round(sum/100)), 0, 100)

	requiredSatisfied = true
	for _, c := range criteria {
		if c.Kind != KindRequired {
			continue
		}
		if r, ok := results[c.ID]; ok && !r.Met {
			requiredSatisfied = false
			break
		}
	}
	return overall, requiredSatisfied
}

// overallConfidence is the plain mean of per-criterion confidences.
// An empty set carries full confidence: there is nothing to be unsure of.
func overallConfidence(results []CriterionResult) int {
	if len(results) == 0 {
		return 100
	}
	var sum int
	for _, r := range results {
		sum += r.Confidence
	}
	return clamp(int(math.Round(float64(sum)/float64(len(results)))), 0, 100)
}

// confidenceSpread is the gap between the strongest and weakest
// per-criterion confidence, used for the review flag.
func confidenceSpread(results []CriterionResult) int {
	if len(results) == 0 {
		return 0
	}
	lo, hi := results[0].Confidence, results[0].Confidence
	for _, r := range results[1:] {
		if r.Confidence < lo {
			lo = r.Confidence
		}
		if r.Confidence > hi {
			hi = r.Confidence
		}
	}
	return hi - lo
}
