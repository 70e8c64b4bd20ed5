package match

import (
	"fmt"
	"sort"
)

const (
	strengthScoreFloor = 85
	concernScoreFloor  = 60
	maxStrengths       = 5
)

// Explanation is the human-readable rationale derived from per-criterion
// results. It carries no information not already present in the results;
// it only rephrases them for recruiters.
type Explanation struct {
	Strengths       []string
	Concerns        []string
	RedFlags        []string
	Recommendations []string
}

// RecommendationTable maps (weakest category, status) to a next-step
// suggestion. It is plain data so deployments can extend it without code
// changes.
type RecommendationTable map[Category]map[Status]string

// DefaultRecommendations returns the built-in recommendation table.
func DefaultRecommendations() RecommendationTable {
	return RecommendationTable{
		CategorySkills: {
			StatusQualified:          "Validate the strongest skills in a technical interview.",
			StatusPartiallyQualified: "Schedule a technical assessment to confirm skill depth in the weaker areas.",
			StatusNotQualified:       "Skill profile is below requirements; consider for a more junior opening.",
		},
		CategoryExperience: {
			StatusQualified:          "Probe depth of experience with scenario questions during the interview.",
			StatusPartiallyQualified: "Experience is close to requirements; weigh trajectory and growth in a screening call.",
			StatusNotQualified:       "Experience gap is substantial; revisit after the candidate gains more seniority.",
		},
		CategoryEducation: {
			StatusQualified:          "Education requirements are covered; no follow-up needed.",
			StatusPartiallyQualified: "Consider equivalent practical experience in place of the missing qualification.",
			StatusNotQualified:       "Formal qualifications do not match; check whether certification alternatives apply.",
		},
		CategoryLocation: {
			StatusQualified:          "Confirm preferred work arrangement during the offer stage.",
			StatusPartiallyQualified: "Discuss relocation or remote arrangements before advancing.",
			StatusNotQualified:       "Location constraints are unmet; verify whether remote work is an option for this role.",
		},
		CategoryAccessibility: {
			StatusQualified:          "Confirm planned accommodations with the candidate before onboarding.",
			StatusPartiallyQualified: "Review which requested accommodations the workplace can provide.",
			StatusNotQualified:       "Escalate accommodation requirements to HR before any decision.",
		},
		CategoryCultural: {
			StatusQualified:          "Include a team-fit conversation in the final round.",
			StatusPartiallyQualified: "Add a behavioural interview to assess collaboration style.",
			StatusNotQualified:       "Soft-skill signals are weak; a structured behavioural interview is advised.",
		},
	}
}

// Explain derives strengths, concerns, red flags and recommendations from
// per-criterion results. Deterministic: ties are broken by criterion ID so
// repeated evaluations produce identical text.
func Explain(set *JobCriteriaSet, results map[string]CriterionResult, categoryScores map[Category]int, status Status, recs RecommendationTable) Explanation {
	var ex Explanation

	type scored struct {
		criterion Criterion
		result    CriterionResult
	}
	var strengths []scored

	for _, c := range set.Criteria {
		r, ok := results[c.ID]
		if !ok {
			continue
		}

		switch {
		case r.Met && r.Score >= strengthScoreFloor:
			strengths = append(strengths, scored{criterion: c, result: r})
		case r.Met && r.Score >= concernScoreFloor:
			ex.Concerns = append(ex.Concerns, fmt.Sprintf("%s is only partially satisfied (score %d)", c.Name, r.Score))
		}

		if c.Kind == KindRequired && !r.Met {
			ex.RedFlags = append(ex.RedFlags, fmt.Sprintf("Required criterion not met: %s", c.Name))
		}
		if c.ComplianceRisk {
			ex.RedFlags = append(ex.RedFlags, fmt.Sprintf("Compliance-sensitive criterion %q requires human review", c.Name))
		}
	}

	// Highest weight x score first; capped to keep the summary readable.
	sort.SliceStable(strengths, func(i, j int) bool {
		wi := strengths[i].criterion.Weight * strengths[i].result.Score
		wj := strengths[j].criterion.Weight * strengths[j].result.Score
		if wi != wj {
			return wi > wj
		}
		return strengths[i].criterion.ID < strengths[j].criterion.ID
	})
	if len(strengths) > maxStrengths {
		strengths = strengths[:maxStrengths]
	}
	for _, s := range strengths {
		ex.Strengths = append(ex.Strengths, fmt.Sprintf("%s (score %d)", s.criterion.Name, s.result.Score))
	}

	if weakest, ok := weakestCategory(set, categoryScores); ok {
		if byStatus, ok := recs[weakest]; ok {
			if rec, ok := byStatus[status]; ok && rec != "" {
				ex.Recommendations = append(ex.Recommendations, rec)
			}
		}
	}

	return ex
}

// weakestCategory picks the lowest-scoring category among those that
// actually define criteria. Empty categories are neutral and never
// "weak". Ties resolve in fixed category order for determinism.
func weakestCategory(set *JobCriteriaSet, categoryScores map[Category]int) (Category, bool) {
	var (
		weakest Category
		lowest  int
		found   bool
	)
	for _, cat := range Categories {
		if len(set.ByCategory(cat)) == 0 {
			continue
		}
		score, ok := categoryScores[cat]
		if !ok {
			continue
		}
		if !found || score < lowest {
			weakest, lowest, found = cat, score, true
		}
	}
	return weakest, found
}
