package match

import (
	"errors"
	"fmt"
)

// ErrNotCached is returned by Summarize when no result is cached for the
// requested pair at the current criteria-set version.
var ErrNotCached = errors.New("no cached result for candidate/job pair")

// ErrProfileNotFound is returned when the profile collaborator has no
// candidate for the requested id.
var ErrProfileNotFound = errors.New("candidate profile not found")

// ErrCriteriaSetNotFound is returned when no criteria set exists for a job.
var ErrCriteriaSetNotFound = errors.New("criteria set not found")

// InvalidCriteriaSetError is returned fail-fast at configuration time,
// before any evaluation can run against a structurally broken set.
type InvalidCriteriaSetError struct {
	JobID  string
	Reason string
}

func (e *InvalidCriteriaSetError) Error() string {
	if e.JobID == "" {
		return fmt.Sprintf("invalid criteria set: %s", e.Reason)
	}
	return fmt.Sprintf("invalid criteria set for job %s: %s", e.JobID, e.Reason)
}

func invalidSet(jobID, format string, args ...any) error {
	return &InvalidCriteriaSetError{JobID: jobID, Reason: fmt.Sprintf(format, args...)}
}
