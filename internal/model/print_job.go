package model

import "time"

// PrintJobStatus is reported by the agent together with the job
type PrintJobStatus string

const (
	PrintJobStatusCompleted PrintJobStatus = "completed"
	PrintJobStatusFailed    PrintJobStatus = "failed"
	PrintJobStatusPending   PrintJobStatus = "pending"
	PrintJobStatusCancelled PrintJobStatus = "cancelled"
)

// ValidPrintJobStatus reports whether s is a known job status.
func ValidPrintJobStatus(s PrintJobStatus) bool {
	switch s {
	case PrintJobStatusCompleted, PrintJobStatusFailed, PrintJobStatusPending, PrintJobStatusCancelled:
		return true
	}
	return false
}

// PrintJob is an immutable fact: once a row exists it is only ever read.
// SubmissionID is the client-generated id used to de-duplicate agent
// retries; the unique index is the durable half of that guarantee.
type PrintJob struct {
	BaseModel
	SubmissionID string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"submission_id"`
	AgentID      int            `gorm:"index;not null" json:"agent_id"`
	SiteID       int            `gorm:"index;not null" json:"site_id"`
	PrinterID    *int           `gorm:"index" json:"printer_id"`
	Username     string         `gorm:"type:varchar(100);not null;index" json:"username"`
	ComputerName string         `gorm:"type:varchar(255);not null" json:"computer_name"`
	PrinterName  string         `gorm:"type:varchar(255);not null;index" json:"printer_name"`
	PrinterIP    string         `gorm:"type:varchar(45)" json:"printer_ip"`
	DocumentName string         `gorm:"type:varchar(500)" json:"document_name"`
	Pages        int            `gorm:"not null" json:"pages"`
	Copies       int            `gorm:"not null;default:1" json:"copies"`
	TotalPages   int            `gorm:"not null" json:"total_pages"`
	IsColor      bool           `gorm:"default:false" json:"is_color"`
	IsDuplex     bool           `gorm:"default:false" json:"is_duplex"`
	Status       PrintJobStatus `gorm:"type:varchar(32);default:'completed';index" json:"status"`
	JobSizeBytes int64          `json:"job_size_bytes"`
	PrintTime    time.Time      `gorm:"not null;index" json:"print_time"`
	ReceivedAt   time.Time      `gorm:"autoCreateTime" json:"received_at"`
}

// TableName specifies the table name for PrintJob model
func (PrintJob) TableName() string {
	return "print_jobs"
}
