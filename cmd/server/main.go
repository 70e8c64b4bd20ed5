package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/talentview/matchengine/internal/logger"
	"github.com/talentview/matchengine/match"
)

type Server struct {
	engine   *match.Engine
	profiles match.ProfileStore
	criteria match.CriteriaStore
	router   *chi.Mux
	log      *zap.Logger
}

func NewServer(criteria match.CriteriaStore, log *zap.Logger, workers int) (*Server, error) {
	profiles := match.NewInMemoryProfileStore()

	opts := []match.Option{match.WithLogger(log)}
	if workers > 0 {
		opts = append(opts, match.WithWorkers(workers))
	}

	engine, err := match.NewEngine(profiles, criteria, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	s := &Server{
		engine:   engine,
		profiles: profiles,
		criteria: criteria,
		log:      log,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/api/v1/health", s.handleHealth)

	r.Post("/api/v1/evaluate", s.handleEvaluate)

	r.Route("/api/v1/jobs", func(r chi.Router) {
		r.Get("/", s.handleListJobs)

		r.Route("/{jobId}", func(r chi.Router) {
			r.Get("/criteria", s.handleGetCriteriaSet)
			r.Post("/criteria", s.handleCreateCriterion)
			r.Put("/criteria/{criterionId}", s.handleUpdateCriterion)
			r.Delete("/criteria/{criterionId}", s.handleDeleteCriterion)

			r.Put("/weights", s.handleSetWeights)

			r.Get("/candidates/{candidateId}/summary", s.handleSummary)
		})
	})

	r.Route("/api/v1/candidates", func(r chi.Router) {
		r.Put("/{candidateId}", s.handleUpsertCandidate)
		r.Delete("/{candidateId}", s.handleDeleteCandidate)
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.criteria.ListJobs()
	if err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"jobsConfigured": len(jobs),
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.JobID == "" {
		respondError(w, http.StatusBadRequest, "jobId is required", nil)
		return
	}
	if len(req.CandidateIDs) == 0 {
		respondError(w, http.StatusBadRequest, "candidateIds are required", nil)
		return
	}

	startTime := time.Now()
	results, err := s.engine.EvaluateBatch(r.Context(), req.CandidateIDs, req.JobID)
	if err != nil && allNil(results) {
		respondEngineError(w, "evaluation failed", err)
		return
	}
	if err != nil {
		s.log.Warn("batch evaluation completed with failures",
			zap.String("jobId", req.JobID),
			zap.Error(err),
		)
	}

	resp := EvaluateResponse{
		EvaluationTime: time.Since(startTime).String(),
	}
	for _, result := range results {
		if result != nil {
			resp.Results = append(resp.Results, result)
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	candidateID := chi.URLParam(r, "candidateId")

	result, err := s.engine.Summarize(candidateID, jobID)
	if err != nil {
		respondEngineError(w, "summary unavailable", err)
		return
	}

	respondJSON(w, http.StatusOK, SummaryResponse{
		Result:        result,
		DisplayStatus: result.DisplayStatus(),
	})
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.criteria.ListJobs()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list jobs", err)
		return
	}
	if jobs == nil {
		jobs = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (s *Server) handleGetCriteriaSet(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")

	set, err := s.engine.CriteriaSet(jobID)
	if err != nil {
		respondEngineError(w, "criteria set unavailable", err)
		return
	}
	respondJSON(w, http.StatusOK, set)
}

func (s *Server) handleCreateCriterion(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")

	var req CriterionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	criterion := req.toCriterion(uuid.NewString())
	set, err := s.engine.AddCriterion(jobID, criterion)
	if err != nil {
		respondEngineError(w, "failed to add criterion", err)
		return
	}

	respondJSON(w, http.StatusCreated, CriterionResponse{
		Criterion: criterion,
		Version:   set.Version,
	})
}

func (s *Server) handleUpdateCriterion(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	criterionID := chi.URLParam(r, "criterionId")

	var req CriterionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	criterion := req.toCriterion(criterionID)
	set, err := s.engine.UpdateCriterion(jobID, criterion)
	if err != nil {
		respondEngineError(w, "failed to update criterion", err)
		return
	}

	respondJSON(w, http.StatusOK, CriterionResponse{
		Criterion: criterion,
		Version:   set.Version,
	})
}

func (s *Server) handleDeleteCriterion(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	criterionID := chi.URLParam(r, "criterionId")

	if _, err := s.engine.RemoveCriterion(jobID, criterionID); err != nil {
		respondEngineError(w, "failed to delete criterion", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetWeights(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")

	var req WeightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	set, err := s.engine.SetCategoryWeights(jobID, req.Weights)
	if err != nil {
		respondEngineError(w, "failed to update weights", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"jobId":   set.JobID,
		"version": set.Version,
		"weights": set.CategoryWeights,
	})
}

func (s *Server) handleUpsertCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID := chi.URLParam(r, "candidateId")

	var profile match.CandidateProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	profile.ID = candidateID

	if err := s.profiles.Put(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "failed to store profile", err)
		return
	}

	// A changed profile makes every cached result for the candidate stale.
	s.engine.InvalidateCandidate(candidateID)

	respondJSON(w, http.StatusOK, map[string]string{"id": candidateID})
}

func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID := chi.URLParam(r, "candidateId")

	if err := s.profiles.Delete(candidateID); err != nil {
		respondEngineError(w, "failed to delete candidate", err)
		return
	}
	s.engine.InvalidateCandidate(candidateID)
	w.WriteHeader(http.StatusNoContent)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]string{
		"error": message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}

// respondEngineError maps the engine's error taxonomy to HTTP statuses.
func respondEngineError(w http.ResponseWriter, message string, err error) {
	var invalid *match.InvalidCriteriaSetError
	switch {
	case errors.As(err, &invalid):
		respondError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, match.ErrCriteriaSetNotFound),
		errors.Is(err, match.ErrProfileNotFound),
		errors.Is(err, match.ErrNotCached):
		respondError(w, http.StatusNotFound, message, err)
	default:
		respondError(w, http.StatusInternalServerError, message, err)
	}
}

func allNil(results []*match.ScoringResult) bool {
	for _, r := range results {
		if r != nil {
			return false
		}
	}
	return true
}

func loadConfig() *viper.Viper {
	v := viper.New()
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("database_url", "")
	v.SetDefault("log_json", false)
	v.SetDefault("log_debug", false)
	v.SetDefault("eval_workers", 0)
	v.AutomaticEnv()
	return v
}

func main() {
	cfg := loadConfig()

	log, err := logger.New(cfg.GetBool("log_json"), cfg.GetBool("log_debug"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Criteria persist in Postgres when configured, in memory otherwise.
	var criteria match.CriteriaStore
	if databaseURL := cfg.GetString("database_url"); databaseURL != "" {
		db, err := sql.Open("postgres", databaseURL)
		if err != nil {
			log.Fatal("failed to open database", zap.Error(err))
		}
		if err := db.Ping(); err != nil {
			log.Fatal("failed to ping database", zap.Error(err))
		}
		defer db.Close()
		criteria = match.NewPostgresCriteriaStore(db)
		log.Info("using postgres criteria store")
	} else {
		criteria = match.NewInMemoryCriteriaStore()
		log.Info("using in-memory criteria store")
	}

	server, err := NewServer(criteria, log, cfg.GetInt("eval_workers"))
	if err != nil {
		log.Fatal("failed to create server", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:         cfg.GetString("listen_addr"),
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Warn("server shutdown error", zap.Error(err))
	}
	log.Info("server stopped")
}
