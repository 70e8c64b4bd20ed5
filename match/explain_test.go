package match

import (
	"strings"
	"testing"
)

func explainSet() *JobCriteriaSet {
	return &JobCriteriaSet{
		JobID: "job-1",
		CategoryWeights: map[Category]int{
			CategorySkills:     60,
			CategoryExperience: 40,
		},
		Criteria: []Criterion{
			{ID: "go", Name: "Go proficiency", Kind: KindPreferred, Weight: 60, Category: CategorySkills},
			{ID: "sql", Name: "SQL proficiency", Kind: KindPreferred, Weight: 40, Category: CategorySkills},
			{ID: "exp", Name: "Minimum experience", Kind: KindRequired, Weight: 100, Category: CategoryExperience},
		},
	}
}

func TestExplainStrengthsAndConcerns(t *testing.T) {
	set := explainSet()
	results := map[string]CriterionResult{
		"go":  mkResult("go", true, 95, 90),
		"sql": mkResult("sql", true, 70, 90),
		"exp": mkResult("exp", true, 100, 95),
	}
	scores := map[Category]int{CategorySkills: 85, CategoryExperience: 100}

	ex := Explain(set, results, scores, StatusQualified, DefaultRecommendations())

	if len(ex.Strengths) != 2 {
		t.Fatalf("strengths = %v, want exactly the two criteria scoring >= 85", ex.Strengths)
	}
	// exp has weight*score 100*100, go 60*95: experience leads.
	if !strings.Contains(ex.Strengths[0], "Minimum experience") {
		t.Errorf("strengths not sorted by weight x score: %v", ex.Strengths)
	}

	if len(ex.Concerns) != 1 || !strings.Contains(ex.Concerns[0], "SQL proficiency") {
		t.Errorf("concerns = %v, want the partially satisfied SQL criterion", ex.Concerns)
	}
	if len(ex.RedFlags) != 0 {
		t.Errorf("red flags = %v, want none", ex.RedFlags)
	}
}

func TestExplainStrengthsCapped(t *testing.T) {
	set := &JobCriteriaSet{
		JobID:           "job-1",
		CategoryWeights: map[Category]int{CategorySkills: 100},
	}
	results := make(map[string]CriterionResult)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		set.Criteria = append(set.Criteria, Criterion{ID: id, Name: "Skill " + id, Kind: KindBonus, Weight: 10, Category: CategorySkills})
		results[id] = mkResult(id, true, 95, 90)
	}

	ex := Explain(set, results, map[Category]int{CategorySkills: 95}, StatusQualified, DefaultRecommendations())
	if len(ex.Strengths) != maxStrengths {
		t.Errorf("strengths = %d entries, want capped at %d", len(ex.Strengths), maxStrengths)
	}
}

func TestExplainRedFlags(t *testing.T) {
	set := explainSet()
	set.Criteria = append(set.Criteria, Criterion{
		ID: "disability", Name: "Accommodation available", Kind: KindPreferred,
		Weight: 10, Category: CategoryAccessibility, ComplianceRisk: true,
	})

	results := map[string]CriterionResult{
		"go":         mkResult("go", true, 95, 90),
		"sql":        mkResult("sql", true, 90, 90),
		"exp":        mkResult("exp", false, 20, 95),
		"disability": mkResult("disability", true, 100, 95),
	}

	ex := Explain(set, results, map[Category]int{CategorySkills: 93, CategoryExperience: 20, CategoryAccessibility: 100}, StatusNotQualified, DefaultRecommendations())

	var unmetRequired, compliance bool
	for _, flag := range ex.RedFlags {
		if strings.Contains(flag, "Minimum experience") {
			unmetRequired = true
		}
		if strings.Contains(flag, "Accommodation available") {
			compliance = true
		}
	}
	if !unmetRequired {
		t.Errorf("red flags %v missing the unmet required criterion", ex.RedFlags)
	}
	if !compliance {
		t.Errorf("red flags %v missing the compliance-tagged criterion", ex.RedFlags)
	}
}

func TestExplainRecommendationFromWeakestCategory(t *testing.T) {
	set := explainSet()
	results := map[string]CriterionResult{
		"go":  mkResult("go", true, 70, 90),
		"sql": mkResult("sql", true, 60, 90),
		"exp": mkResult("exp", true, 100, 95),
	}
	scores := map[Category]int{CategorySkills: 66, CategoryExperience: 100}

	ex := Explain(set, results, scores, StatusPartiallyQualified, DefaultRecommendations())

	want := DefaultRecommendations()[CategorySkills][StatusPartiallyQualified]
	if len(ex.Recommendations) != 1 || ex.Recommendations[0] != want {
		t.Errorf("recommendations = %v, want %q for weakest category skills", ex.Recommendations, want)
	}
}

func TestExplainEmptyCategoriesNeverWeakest(t *testing.T) {
	set := explainSet()
	results := map[string]CriterionResult{
		"go":  mkResult("go", true, 90, 90),
		"sql": mkResult("sql", true, 90, 90),
		"exp": mkResult("exp", true, 100, 95),
	}
	// Location defines no criteria; its neutral 100 must not be
	// considered, and skills (90) is the weakest defined category.
	scores := map[Category]int{
		CategorySkills:     90,
		CategoryExperience: 100,
		CategoryLocation:   100,
	}

	weakest, ok := weakestCategory(set, scores)
	if !ok || weakest != CategorySkills {
		t.Errorf("weakestCategory() = %s, want skills", weakest)
	}

	_ = results
}

func TestRecommendationTableIsData(t *testing.T) {
	// Deployments extend the table without touching engine code.
	custom := RecommendationTable{
		CategorySkills: {StatusNotQualified: "Send the take-home exercise for the apprentice track."},
	}

	set := explainSet()
	results := map[string]CriterionResult{
		"go":  mkResult("go", false, 10, 90),
		"sql": mkResult("sql", false, 20, 90),
		"exp": mkResult("exp", true, 100, 95),
	}
	scores := map[Category]int{CategorySkills: 14, CategoryExperience: 100}

	ex := Explain(set, results, scores, StatusNotQualified, custom)
	if len(ex.Recommendations) != 1 || !strings.Contains(ex.Recommendations[0], "apprentice") {
		t.Errorf("recommendations = %v, want the custom table entry", ex.Recommendations)
	}
}
