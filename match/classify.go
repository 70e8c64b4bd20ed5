package match

// Classification thresholds. Inclusive: 80 qualifies, 60 partially.
const (
	qualifiedThreshold = 80
	partialThreshold   = 60

	// DefaultReviewSpread is the confidence gap beyond which an
	// evaluation is flagged for human review.
	DefaultReviewSpread = 40
)

// Classify maps a numeric outcome to a discrete status. Stateless and
// reproducible: the same inputs always yield the same status. The
// required-criteria gate is absolute; a failed required criterion can
// never be compensated by a high numeric score.
func Classify(overallScore int, requiredSatisfied bool) Status {
	if !requiredSatisfied {
		return StatusNotQualified
	}
	switch {
	case overallScore >= qualifiedThreshold:
		return StatusQualified
	case overallScore >= partialThreshold:
		return StatusPartiallyQualified
	default:
		return StatusNotQualified
	}
}

// NeedsReview reports whether per-criterion confidences disagree strongly
// enough that a human should confirm the automated result. Orthogonal to
// the numeric status: a Qualified result can still need review.
func NeedsReview(results []CriterionResult, spreadThreshold int) bool {
	return confidenceSpread(results) > spreadThreshold
}
