package printjobs

import "fmt"

// ValidationError marks a submission the agent must not retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field '%s' %s", e.Field, e.Reason)
}

// DuplicateError reports a submission id already recorded inside the
// de-duplication window. JobID is the originally assigned id.
type DuplicateError struct {
	SubmissionID string
	JobID        int
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("submission %s already recorded as job %d", e.SubmissionID, e.JobID)
}
