package match

import "strings"

// ValidateCriteriaSet checks the structural invariants of a criteria set
// and returns an *InvalidCriteriaSetError on the first violation. Called
// before a set is persisted and before any evaluation runs against it, so
// a broken configuration can never silently produce misleading scores.
func ValidateCriteriaSet(set *JobCriteriaSet) error {
	if set == nil {
		return invalidSet("", "criteria set is nil")
	}
	if strings.TrimSpace(set.JobID) == "" {
		return invalidSet("", "jobId must not be empty")
	}

	if len(set.CategoryWeights) == 0 {
		return invalidSet(set.JobID, "category weights must be configured")
	}
	total := 0
	for cat, w := range set.CategoryWeights {
		if !cat.Valid() {
			return invalidSet(set.JobID, "unknown category %q in weight map", cat)
		}
		if w < 0 {
			return invalidSet(set.JobID, "category %q has negative weight %d", cat, w)
		}
		total += w
	}
	// The engine rejects rather than renormalizes: a weight map that does
	// not sum to 100 is a configuration bug, not a scaling choice.
	if total != 100 {
		return invalidSet(set.JobID, "category weights sum to %d, must sum to exactly 100", total)
	}

	seen := make(map[string]bool, len(set.Criteria))
	for i, c := range set.Criteria {
		if strings.TrimSpace(c.ID) == "" {
			return invalidSet(set.JobID, "criterion %d has empty id", i)
		}
		if seen[c.ID] {
			return invalidSet(set.JobID, "duplicate criterion id %q", c.ID)
		}
		seen[c.ID] = true

		if strings.TrimSpace(c.Name) == "" {
			return invalidSet(set.JobID, "criterion %q has empty name", c.ID)
		}
		if !c.Kind.Valid() {
			return invalidSet(set.JobID, "criterion %q has unknown kind %q", c.ID, c.Kind)
		}
		if !c.Category.Valid() {
			return invalidSet(set.JobID, "criterion %q references unknown category %q", c.ID, c.Category)
		}
		if c.Weight < 0 || c.Weight > 100 {
			return invalidSet(set.JobID, "criterion %q has weight %d out of range 0-100", c.ID, c.Weight)
		}
		if err := c.Condition.validate(); err != nil {
			return invalidSet(set.JobID, "criterion %q: %v", c.ID, err)
		}
	}

	return nil
}

// DefaultCategoryWeights returns the starting weight map for a freshly
// created criteria set. Sums to 100 by construction.
func DefaultCategoryWeights() map[Category]int {
	return map[Category]int{
		CategorySkills:        30,
		CategoryExperience:    25,
		CategoryEducation:     15,
		CategoryLocation:      10,
		CategoryAccessibility: 5,
		CategoryCultural:      15,
	}
}
