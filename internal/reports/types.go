package reports

import "time"

// Overview holds grouped totals for a date range.
type Overview struct {
	TotalJobs      int64 `json:"total_jobs"`
	TotalPages     int64 `json:"total_pages"`
	ColorPages     int64 `json:"color_pages"`
	BWPages        int64 `json:"bw_pages"`
	DuplexJobs     int64 `json:"duplex_jobs"`
	UniqueUsers    int64 `json:"unique_users"`
	UniquePrinters int64 `json:"unique_printers"`
}

// DayBucket is one day of the trends series.
type DayBucket struct {
	Date       string `json:"date" gorm:"column:bucket"`
	TotalJobs  int64  `json:"total_jobs"`
	TotalPages int64  `json:"total_pages"`
	ColorPages int64  `json:"color_pages"`
	DuplexJobs int64  `json:"duplex_jobs"`
}

// UserStat is one row of the per-user leaderboard.
type UserStat struct {
	Username   string     `json:"username"`
	TotalJobs  int64      `json:"total_jobs"`
	TotalPages int64      `json:"total_pages"`
	ColorPages int64      `json:"color_pages"`
	LastPrint  *time.Time `json:"last_print"`
}

// PrinterStat is one row of the per-printer leaderboard.
type PrinterStat struct {
	PrinterName string     `json:"printer_name"`
	TotalJobs   int64      `json:"total_jobs"`
	TotalPages  int64      `json:"total_pages"`
	ColorPages  int64      `json:"color_pages"`
	UniqueUsers int64      `json:"unique_users"`
	LastUsed    *time.Time `json:"last_used"`
}
