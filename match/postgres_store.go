package match

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresCriteriaStore implements CriteriaStore backed by PostgreSQL.
// Criteria and category weights are stored as JSONB documents; the
// version column is the cache-invalidation signal and is written verbatim
// from the set (the engine owns version bumps).
type PostgresCriteriaStore struct {
	db *sql.DB
}

// NewPostgresCriteriaStore creates a new PostgreSQL-backed criteria store.
func NewPostgresCriteriaStore(db *sql.DB) *PostgresCriteriaStore {
	return &PostgresCriteriaStore{db: db}
}

// Get retrieves the criteria set for a job.
func (s *PostgresCriteriaStore) Get(jobID string) (*JobCriteriaSet, error) {
	var (
		set          JobCriteriaSet
		criteriaJSON []byte
		weightsJSON  []byte
	)
	err := s.db.QueryRow(`
		SELECT job_id, version, criteria, category_weights, created_at, updated_at
		FROM criteria_sets
		WHERE job_id = $1
	`, jobID).Scan(
		&set.JobID,
		&set.Version,
		&criteriaJSON,
		&weightsJSON,
		&set.CreatedAt,
		&set.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job %s: %w", jobID, ErrCriteriaSetNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get criteria set: %w", err)
	}

	if err := json.Unmarshal(criteriaJSON, &set.Criteria); err != nil {
		return nil, fmt.Errorf("invalid criteria document for job %s: %w", jobID, err)
	}
	if err := json.Unmarshal(weightsJSON, &set.CategoryWeights); err != nil {
		return nil, fmt.Errorf("invalid weights document for job %s: %w", jobID, err)
	}

	return &set, nil
}

// Put inserts or replaces the criteria set for a job.
func (s *PostgresCriteriaStore) Put(set *JobCriteriaSet) error {
	criteriaJSON, err := json.Marshal(set.Criteria)
	if err != nil {
		return fmt.Errorf("failed to marshal criteria: %w", err)
	}
	weightsJSON, err := json.Marshal(set.CategoryWeights)
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}

	now := time.Now()
	_, err = s.db.Exec(`
		INSERT INTO criteria_sets (job_id, version, criteria, category_weights, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (job_id) DO UPDATE
		SET version = EXCLUDED.version,
		    criteria = EXCLUDED.criteria,
		    category_weights = EXCLUDED.category_weights,
		    updated_at = EXCLUDED.updated_at
	`, set.JobID, set.Version, criteriaJSON, weightsJSON, now)
	if err != nil {
		return fmt.Errorf("failed to upsert criteria set: %w", err)
	}

	return nil
}

// Delete removes a job's criteria set.
func (s *PostgresCriteriaStore) Delete(jobID string) error {
	result, err := s.db.Exec(`DELETE FROM criteria_sets WHERE job_id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("failed to delete criteria set: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("job %s: %w", jobID, ErrCriteriaSetNotFound)
	}

	return nil
}

// ListJobs returns the job ids with a configured criteria set.
func (s *PostgresCriteriaStore) ListJobs() ([]string, error) {
	rows, err := s.db.Query(`SELECT job_id FROM criteria_sets ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []string
	for rows.Next() {
		var jobID string
		if err := rows.Scan(&jobID); err != nil {
			return nil, fmt.Errorf("failed to scan job id: %w", err)
		}
		jobs = append(jobs, jobID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}

	return jobs, nil
}
