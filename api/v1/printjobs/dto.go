package printjobs

import (
	"time"

	"printtrack/internal/model"
	"printtrack/internal/printjobs"
)

// SubmitRequest is one job submission from an agent.
type SubmitRequest struct {
	SubmissionID string    `json:"submission_id"`
	Username     string    `json:"username"`
	ComputerName string    `json:"computer_name"`
	PrinterName  string    `json:"printer_name"`
	PrinterIP    string    `json:"printer_ip"`
	DocumentName string    `json:"document_name"`
	Pages        int       `json:"pages"`
	Copies       int       `json:"copies"`
	IsColor      bool      `json:"is_color"`
	IsDuplex     bool      `json:"is_duplex"`
	Status       string    `json:"status"`
	JobSizeBytes int64     `json:"job_size_bytes"`
	PrintTime    time.Time `json:"print_time"`
}

func (r SubmitRequest) toSubmission() printjobs.Submission {
	return printjobs.Submission{
		SubmissionID: r.SubmissionID,
		Username:     r.Username,
		ComputerName: r.ComputerName,
		PrinterName:  r.PrinterName,
		PrinterIP:    r.PrinterIP,
		DocumentName: r.DocumentName,
		Pages:        r.Pages,
		Copies:       r.Copies,
		IsColor:      r.IsColor,
		IsDuplex:     r.IsDuplex,
		Status:       model.PrintJobStatus(r.Status),
		JobSizeBytes: r.JobSizeBytes,
		PrintTime:    r.PrintTime,
	}
}

// ListRequest represents list print jobs request
type ListRequest struct {
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
	Username     string `form:"username"`
	Document     string `form:"document"`
	PrinterName  string `form:"printer"`
	ComputerName string `form:"computer"`
	Status       string `form:"status"`
	SiteID       int    `form:"siteId"`
	AgentID      int    `form:"agentId"`
	IsColor      *bool  `form:"isColor"`
	IsDuplex     *bool  `form:"isDuplex"`
	StartDate    string `form:"startDate"`
	EndDate      string `form:"endDate"`
}

// JobDTO is one print job in list and detail responses.
type JobDTO struct {
	ID           int       `json:"id"`
	SubmissionID string    `json:"submission_id"`
	AgentID      int       `json:"agent_id"`
	SiteID       int       `json:"site_id"`
	Username     string    `json:"username"`
	ComputerName string    `json:"computer_name"`
	PrinterName  string    `json:"printer_name"`
	PrinterIP    string    `json:"printer_ip"`
	DocumentName string    `json:"document_name"`
	Pages        int       `json:"pages"`
	Copies       int       `json:"copies"`
	TotalPages   int       `json:"total_pages"`
	IsColor      bool      `json:"is_color"`
	IsDuplex     bool      `json:"is_duplex"`
	Status       string    `json:"status"`
	PrintTime    time.Time `json:"print_time"`
	ReceivedAt   time.Time `json:"received_at"`
}

func toJobDTO(job *model.PrintJob) JobDTO {
	return JobDTO{
		ID:           job.ID,
		SubmissionID: job.SubmissionID,
		AgentID:      job.AgentID,
		SiteID:       job.SiteID,
		Username:     job.Username,
		ComputerName: job.ComputerName,
		PrinterName:  job.PrinterName,
		PrinterIP:    job.PrinterIP,
		DocumentName: job.DocumentName,
		Pages:        job.Pages,
		Copies:       job.Copies,
		TotalPages:   job.TotalPages,
		IsColor:      job.IsColor,
		IsDuplex:     job.IsDuplex,
		Status:       string(job.Status),
		PrintTime:    job.PrintTime,
		ReceivedAt:   job.ReceivedAt,
	}
}

// BatchItemResult is one row of a batch submission response.
type BatchItemResult struct {
	SubmissionID string `json:"submission_id"`
	JobID        int    `json:"job_id,omitempty"`
	Status       string `json:"status"` // created | duplicate | rejected | error
	Message      string `json:"message,omitempty"`
}
