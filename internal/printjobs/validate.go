package printjobs

import (
	"time"

	"printtrack/internal/model"
)

// Submission is a validated ingestion payload. Optional fields carry their
// schema defaults after Normalize.
type Submission struct {
	SubmissionID string
	Username     string
	ComputerName string
	PrinterName  string
	PrinterIP    string
	DocumentName string
	Pages        int
	Copies       int
	IsColor      bool
	IsDuplex     bool
	Status       model.PrintJobStatus
	JobSizeBytes int64
	PrintTime    time.Time
}

// Normalize applies schema defaults to optional fields.
func (s *Submission) Normalize() {
	if s.Copies <= 0 {
		s.Copies = 1
	}
	if s.Status == "" {
		s.Status = model.PrintJobStatusCompleted
	}
}

// Validate checks required fields. The first violation is returned; agents
// treat any ValidationError as failed-permanent.
func (s *Submission) Validate() error {
	if s.SubmissionID == "" {
		return &ValidationError{Field: "submission_id", Reason: "is required"}
	}
	if s.PrinterName == "" {
		return &ValidationError{Field: "printer_name", Reason: "is required"}
	}
	if s.Username == "" {
		return &ValidationError{Field: "username", Reason: "is required"}
	}
	if s.Pages < 0 {
		return &ValidationError{Field: "pages", Reason: "must not be negative"}
	}
	if s.PrintTime.IsZero() {
		return &ValidationError{Field: "print_time", Reason: "is required"}
	}
	if !model.ValidPrintJobStatus(s.Status) {
		return &ValidationError{Field: "status", Reason: "is not a known status"}
	}
	return nil
}

// TotalPages is the server-computed page count persisted with the job.
func (s *Submission) TotalPages() int {
	return s.Pages * s.Copies
}
