package main

import (
	"github.com/talentview/matchengine/match"
)

// API request and response models.

// EvaluateRequest asks for a batch evaluation of candidates against a job.
type EvaluateRequest struct {
	JobID        string   `json:"jobId"`
	CandidateIDs []string `json:"candidateIds"`
}

// EvaluateResponse carries the scoring results of a batch evaluation.
type EvaluateResponse struct {
	Results        []*match.ScoringResult `json:"results"`
	EvaluationTime string                 `json:"evaluationTime"`
}

// SummaryResponse is a cached result plus the folded display status.
type SummaryResponse struct {
	Result        *match.ScoringResult `json:"result"`
	DisplayStatus match.Status         `json:"displayStatus"`
}

// CriterionRequest is the body for creating or updating a criterion.
type CriterionRequest struct {
	Name           string              `json:"name"`
	Kind           match.CriterionKind `json:"kind"`
	Weight         int                 `json:"weight"`
	Category       match.Category      `json:"category"`
	Condition      match.Predicate     `json:"condition"`
	Description    string              `json:"description,omitempty"`
	ComplianceRisk bool                `json:"complianceRisk,omitempty"`
}

func (r CriterionRequest) toCriterion(id string) match.Criterion {
	return match.Criterion{
		ID:             id,
		Name:           r.Name,
		Kind:           r.Kind,
		Weight:         r.Weight,
		Category:       r.Category,
		Condition:      r.Condition,
		Description:    r.Description,
		ComplianceRisk: r.ComplianceRisk,
	}
}

// CriterionResponse echoes a stored criterion with the resulting set version.
type CriterionResponse struct {
	Criterion match.Criterion `json:"criterion"`
	Version   int             `json:"version"`
}

// WeightsRequest replaces a job's category weight map.
type WeightsRequest struct {
	Weights map[match.Category]int `json:"weights"`
}
