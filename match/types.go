package match

import "time"

// Category groups criteria for aggregation and weighting.
type Category string

const (
	CategorySkills        Category = "skills"
	CategoryExperience    Category = "experience"
	CategoryEducation     Category = "education"
	CategoryLocation      Category = "location"
	CategoryAccessibility Category = "accessibility"
	CategoryCultural      Category = "cultural"
)

// Categories lists every known category in weighting order.
var Categories = []Category{
	CategorySkills,
	CategoryExperience,
	CategoryEducation,
	CategoryLocation,
	CategoryAccessibility,
	CategoryCultural,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CriterionKind controls how a criterion participates in gating.
type CriterionKind string

const (
	KindRequired  CriterionKind = "required"
	KindPreferred CriterionKind = "preferred"
	KindBonus     CriterionKind = "bonus"
)

// Valid reports whether k is a known kind.
func (k CriterionKind) Valid() bool {
	return k == KindRequired || k == KindPreferred || k == KindBonus
}

// Status is the discrete qualification outcome of one evaluation.
type Status string

const (
	StatusQualified          Status = "qualified"
	StatusPartiallyQualified Status = "partially_qualified"
	StatusNotQualified       Status = "not_qualified"
	StatusUnderReview        Status = "under_review"
)

// Criterion is a single testable rule contributing to a category score.
type Criterion struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Kind        CriterionKind `json:"kind"`
	Weight      int           `json:"weight"` // intra-category weight, 0-100
	Category    Category      `json:"category"`
	Condition   Predicate     `json:"condition"`
	Description string        `json:"description,omitempty"`

	// ComplianceRisk marks criteria that touch discrimination-sensitive
	// data; they are always surfaced as red flags for human review.
	ComplianceRisk bool `json:"complianceRisk,omitempty"`
}

// Skill is one candidate skill with a 0-100 proficiency.
type Skill struct {
	Name        string `json:"name"`
	Proficiency int    `json:"proficiency"`
	Category    string `json:"category,omitempty"`
}

// SoftSkills holds 0-100 soft-skill scores.
type SoftSkills struct {
	Communication int `json:"communication"`
	Adaptation    int `json:"adaptation"`
	Teamwork      int `json:"teamwork"`
	Leadership    int `json:"leadership"`
}

// CandidateProfile is the fully-loaded candidate view the engine scores.
// The engine never fetches data itself; a ProfileSource supplies these.
type CandidateProfile struct {
	ID                 string     `json:"id"`
	Skills             []Skill    `json:"skills"`
	YearsExperience    float64    `json:"yearsExperience"`
	Education          string     `json:"education,omitempty"` // descriptor, e.g. "bachelor"
	Location           string     `json:"location,omitempty"`
	AccessibilityNeeds []string   `json:"accessibilityNeeds,omitempty"`
	Accommodations     []string   `json:"accommodations,omitempty"`
	SoftSkills         SoftSkills `json:"softSkills"`
}

// JobCriteriaSet is the versioned criteria configuration for one job.
// CategoryWeights must sum to exactly 100; Version is bumped on every
// mutation and is the sole cache-invalidation signal for the job.
type JobCriteriaSet struct {
	JobID           string           `json:"jobId"`
	Criteria        []Criterion      `json:"criteria"`
	CategoryWeights map[Category]int `json:"categoryWeights"`
	Version         int              `json:"version"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// ByCategory returns the criteria belonging to one category, in set order.
func (s *JobCriteriaSet) ByCategory(c Category) []Criterion {
	var out []Criterion
	for _, cr := range s.Criteria {
		if cr.Category == c {
			out = append(out, cr)
		}
	}
	return out
}

// CriterionResult is the immutable outcome of evaluating one criterion.
type CriterionResult struct {
	CriterionID string `json:"criterionId"`
	Met         bool   `json:"met"`
	Score       int    `json:"score"`      // 0-100
	Confidence  int    `json:"confidence"` // 0-100, independent of Score
	Reasoning   string `json:"reasoning"`
}

// ScoringResult is the engine's single output type, used for both the
// matching and prequalification presentations. Immutable once produced;
// re-evaluation yields a new value.
type ScoringResult struct {
	CandidateID        string           `json:"candidateId"`
	JobID              string           `json:"jobId"`
	OverallScore       int              `json:"overallScore"`
	Confidence         int              `json:"confidence"`
	CategoryScores     map[Category]int `json:"categoryScores"`
	CriterionResults   []CriterionResult `json:"criterionResults"`
	Status             Status           `json:"status"`
	UnderReview        bool             `json:"underReview"`
	Strengths          []string         `json:"strengths"`
	Concerns           []string         `json:"concerns"`
	RedFlags           []string         `json:"redFlags"`
	Recommendations    []string         `json:"recommendations"`
	ComputedAt         time.Time        `json:"computedAt"`
	CriteriaSetVersion int              `json:"criteriaSetVersion"`
}

// DisplayStatus folds the orthogonal review flag into a single value for
// presentation surfaces that show one badge per candidate.
func (r *ScoringResult) DisplayStatus() Status {
	if r.UnderReview {
		return StatusUnderReview
	}
	return r.Status
}
