package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/talentview/matchengine/match"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	server, err := NewServer(match.NewInMemoryCriteriaStore(), zap.NewNop(), 0)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return server
}

func doJSON(t *testing.T, server *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := testServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	decode(t, rec, &body)
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", body["status"])
	}
}

func TestEvaluateFlow(t *testing.T) {
	server := testServer(t)

	// Configure the job.
	rec := doJSON(t, server, http.MethodPost, "/api/v1/jobs/backend-eng/criteria", CriterionRequest{
		Name:     "At least 3 years of experience",
		Kind:     match.KindRequired,
		Weight:   100,
		Category: match.CategoryExperience,
		Condition: match.Predicate{
			Type: match.PredCompare, Field: "experience.years", Op: match.OpGe, Value: 3,
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create criterion status = %d: %s", rec.Code, rec.Body.String())
	}
	var created CriterionResponse
	decode(t, rec, &created)
	if created.Version != 1 || created.Criterion.ID == "" {
		t.Fatalf("create response = %+v", created)
	}

	// Register a candidate.
	rec = doJSON(t, server, http.MethodPut, "/api/v1/candidates/cand-1", match.CandidateProfile{
		YearsExperience: 5,
		Skills:          []match.Skill{{Name: "Go", Proficiency: 90}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("upsert candidate status = %d: %s", rec.Code, rec.Body.String())
	}

	// No evaluation yet: the summary endpoint never computes.
	rec = doJSON(t, server, http.MethodGet, "/api/v1/jobs/backend-eng/candidates/cand-1/summary", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("summary before evaluation status = %d, want 404", rec.Code)
	}

	// Evaluate.
	rec = doJSON(t, server, http.MethodPost, "/api/v1/evaluate", EvaluateRequest{
		JobID:        "backend-eng",
		CandidateIDs: []string{"cand-1"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("evaluate status = %d: %s", rec.Code, rec.Body.String())
	}
	var evalResp EvaluateResponse
	decode(t, rec, &evalResp)
	if len(evalResp.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(evalResp.Results))
	}
	if evalResp.Results[0].Status != match.StatusQualified {
		t.Errorf("status = %s, want qualified", evalResp.Results[0].Status)
	}

	// The summary is now served from the cache.
	rec = doJSON(t, server, http.MethodGet, "/api/v1/jobs/backend-eng/candidates/cand-1/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d: %s", rec.Code, rec.Body.String())
	}
	var summary SummaryResponse
	decode(t, rec, &summary)
	if summary.DisplayStatus != match.StatusQualified {
		t.Errorf("displayStatus = %s, want qualified", summary.DisplayStatus)
	}
}

func TestEvaluateValidation(t *testing.T) {
	server := testServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/evaluate", EvaluateRequest{CandidateIDs: []string{"c"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing jobId status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, server, http.MethodPost, "/api/v1/evaluate", EvaluateRequest{JobID: "j"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing candidateIds status = %d, want 400", rec.Code)
	}

	// Unknown job surfaces as not found, not a silent empty result.
	rec = doJSON(t, server, http.MethodPost, "/api/v1/evaluate", EvaluateRequest{
		JobID: "ghost", CandidateIDs: []string{"cand-1"},
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown job status = %d, want 404", rec.Code)
	}
}

func TestCriteriaEndpoints(t *testing.T) {
	server := testServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/v1/jobs/ghost/criteria", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown job criteria status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, server, http.MethodPost, "/api/v1/jobs/backend-eng/criteria", CriterionRequest{
		Name:     "Go proficiency",
		Kind:     match.KindPreferred,
		Weight:   50,
		Category: match.CategorySkills,
		Condition: match.Predicate{
			Type: match.PredSkill, Skill: "Go", MinLevel: 70,
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create criterion status = %d: %s", rec.Code, rec.Body.String())
	}
	var created CriterionResponse
	decode(t, rec, &created)

	// Update it.
	rec = doJSON(t, server, http.MethodPut,
		fmt.Sprintf("/api/v1/jobs/backend-eng/criteria/%s", created.Criterion.ID),
		CriterionRequest{
			Name:     "Go proficiency",
			Kind:     match.KindPreferred,
			Weight:   80,
			Category: match.CategorySkills,
			Condition: match.Predicate{
				Type: match.PredSkill, Skill: "Go", MinLevel: 85,
			},
		})
	if rec.Code != http.StatusOK {
		t.Fatalf("update criterion status = %d: %s", rec.Code, rec.Body.String())
	}
	var updated CriterionResponse
	decode(t, rec, &updated)
	if updated.Version != created.Version+1 {
		t.Errorf("version = %d, want %d", updated.Version, created.Version+1)
	}

	// A structurally invalid criterion is rejected with 400.
	rec = doJSON(t, server, http.MethodPost, "/api/v1/jobs/backend-eng/criteria", CriterionRequest{
		Name:     "Broken",
		Kind:     "mandatory",
		Weight:   50,
		Category: match.CategorySkills,
		Condition: match.Predicate{
			Type: match.PredSkill, Skill: "Go", MinLevel: 70,
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid kind status = %d, want 400", rec.Code)
	}

	// Delete it.
	rec = doJSON(t, server, http.MethodDelete,
		fmt.Sprintf("/api/v1/jobs/backend-eng/criteria/%s", created.Criterion.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete criterion status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, server, http.MethodGet, "/api/v1/jobs/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list jobs status = %d", rec.Code)
	}
}

func TestSetWeightsValidation(t *testing.T) {
	server := testServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/jobs/backend-eng/criteria", CriterionRequest{
		Name:     "Go proficiency",
		Kind:     match.KindPreferred,
		Weight:   50,
		Category: match.CategorySkills,
		Condition: match.Predicate{
			Type: match.PredSkill, Skill: "Go", MinLevel: 70,
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create criterion status = %d: %s", rec.Code, rec.Body.String())
	}

	// Weights that do not sum to 100 are rejected.
	rec = doJSON(t, server, http.MethodPut, "/api/v1/jobs/backend-eng/weights", WeightsRequest{
		Weights: map[match.Category]int{match.CategorySkills: 50},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid weights status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, server, http.MethodPut, "/api/v1/jobs/backend-eng/weights", WeightsRequest{
		Weights: map[match.Category]int{
			match.CategorySkills:     70,
			match.CategoryExperience: 30,
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set weights status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCandidateEndpoints(t *testing.T) {
	server := testServer(t)

	rec := doJSON(t, server, http.MethodPut, "/api/v1/candidates/cand-1", match.CandidateProfile{
		YearsExperience: 2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("upsert status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, server, http.MethodDelete, "/api/v1/candidates/cand-1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, server, http.MethodDelete, "/api/v1/candidates/cand-1", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("double delete status = %d, want 404", rec.Code)
	}
}
