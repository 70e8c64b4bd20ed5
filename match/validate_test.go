package match

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateCriteriaSet(t *testing.T) {
	valid := func() *JobCriteriaSet { return seniorBackendSet() }

	testCases := []struct {
		name    string
		mutate  func(*JobCriteriaSet)
		wantErr string
	}{
		{"valid set", func(s *JobCriteriaSet) {}, ""},
		{"empty job id", func(s *JobCriteriaSet) { s.JobID = "  " }, "jobId"},
		{"no weights", func(s *JobCriteriaSet) { s.CategoryWeights = nil }, "weights must be configured"},
		{"weights under 100", func(s *JobCriteriaSet) { s.CategoryWeights[CategorySkills] -= 10 }, "must sum to exactly 100"},
		{"weights over 100", func(s *JobCriteriaSet) { s.CategoryWeights[CategorySkills] += 10 }, "must sum to exactly 100"},
		{"negative weight", func(s *JobCriteriaSet) {
			s.CategoryWeights[CategorySkills] = -5
			s.CategoryWeights[CategoryExperience] += 35
		}, "negative weight"},
		{"unknown weight category", func(s *JobCriteriaSet) {
			s.CategoryWeights["vibes"] = 0
		}, "unknown category"},
		{"empty criterion id", func(s *JobCriteriaSet) { s.Criteria[0].ID = "" }, "empty id"},
		{"duplicate criterion id", func(s *JobCriteriaSet) { s.Criteria[1].ID = s.Criteria[0].ID }, "duplicate"},
		{"empty criterion name", func(s *JobCriteriaSet) { s.Criteria[0].Name = "" }, "empty name"},
		{"unknown kind", func(s *JobCriteriaSet) { s.Criteria[0].Kind = "mandatory" }, "unknown kind"},
		{"unknown criterion category", func(s *JobCriteriaSet) { s.Criteria[0].Category = "vibes" }, "unknown category"},
		{"weight out of range", func(s *JobCriteriaSet) { s.Criteria[0].Weight = 101 }, "out of range"},
		{"broken condition", func(s *JobCriteriaSet) { s.Criteria[0].Condition = Predicate{Type: "garbage"} }, "criterion"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set := valid()
			tc.mutate(set)

			err := ValidateCriteriaSet(set)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateCriteriaSet: %v", err)
				}
				return
			}

			var invalid *InvalidCriteriaSetError
			if !errors.As(err, &invalid) {
				t.Fatalf("err = %v, want *InvalidCriteriaSetError", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("err = %q, want it to mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateNilSet(t *testing.T) {
	var invalid *InvalidCriteriaSetError
	if err := ValidateCriteriaSet(nil); !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want *InvalidCriteriaSetError", err)
	}
}

func TestDefaultCategoryWeightsSumTo100(t *testing.T) {
	weights := DefaultCategoryWeights()
	sum := 0
	for cat, w := range weights {
		if !cat.Valid() {
			t.Errorf("default weights name unknown category %q", cat)
		}
		sum += w
	}
	if sum != 100 {
		t.Errorf("default weights sum to %d, want 100", sum)
	}
	if len(weights) != len(Categories) {
		t.Errorf("default weights cover %d categories, want %d", len(weights), len(Categories))
	}
}

func TestScoreValidatesFirst(t *testing.T) {
	set := seniorBackendSet()
	set.CategoryWeights = map[Category]int{CategorySkills: 40}

	if _, err := Score(set, strongCandidate("cand-1")); err == nil {
		t.Fatal("Score must reject an invalid set before evaluating")
	}

	set = seniorBackendSet()
	r, err := Score(set, strongCandidate("cand-1"))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if r.Status != StatusQualified {
		t.Errorf("status = %s, want qualified", r.Status)
	}
}
